package sources

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/ShayCichocki/copilot/pkg/models"
)

// TaskFile reads tasks from a YAML document of the form:
//
//	tasks:
//	  - id: PHOE-178
//	    title: Review API spec
//	    status: todo
//	    priority: high
//	    due_date: 2026-02-11
//	    estimated_hours: 2
//
// The file is read on every query so edits are picked up without restart.
type TaskFile struct {
	Path string
}

type taskDocument struct {
	Tasks []models.Task `yaml:"tasks"`
}

// NewTaskFile returns a task source backed by path.
func NewTaskFile(path string) *TaskFile {
	return &TaskFile{Path: path}
}

// Tasks loads, filters and sorts the tasks in the file. Tasks assigned to
// someone other than q.UserEmail are dropped when both are set.
func (f *TaskFile) Tasks(ctx context.Context, q Query) ([]models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read tasks file: %w", err)
	}

	var doc taskDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse tasks file %s: %w", f.Path, err)
	}

	tasks := make([]models.Task, 0, len(doc.Tasks))
	for _, t := range doc.Tasks {
		if q.UserEmail != "" && t.Assignee != "" && !strings.EqualFold(t.Assignee, q.UserEmail) {
			continue
		}
		tasks = append(tasks, t)
	}
	return q.Run(tasks), nil
}

// CalendarFile reads events from a YAML document. Each event is either
// dated, with full "2006-01-02T15:04" start and end values, or recurring,
// with "15:04" start and end values and a list of weekdays:
//
//	events:
//	  - id: standup
//	    title: Daily Standup
//	    start: "09:00"
//	    end: "09:15"
//	    weekdays: [mon, tue, wed, thu, fri]
//	  - id: review
//	    title: Design Review
//	    start: 2026-02-11T14:00
//	    end: 2026-02-11T15:00
//
// Times without a zone are read in Location.
type CalendarFile struct {
	Path     string
	Location *time.Location
}

type eventRecord struct {
	ID        string   `yaml:"id"`
	Title     string   `yaml:"title"`
	Start     string   `yaml:"start"`
	End       string   `yaml:"end"`
	Weekdays  []string `yaml:"weekdays"`
	Type      string   `yaml:"type"`
	Attendees []string `yaml:"attendees"`
	Status    string   `yaml:"status"`
}

type calendarDocument struct {
	Events []eventRecord `yaml:"events"`
}

// NewCalendarFile returns a calendar source backed by path. A nil location
// means time.Local.
func NewCalendarFile(path string, loc *time.Location) *CalendarFile {
	if loc == nil {
		loc = time.Local
	}
	return &CalendarFile{Path: path, Location: loc}
}

var dateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// Events returns the file's events that fall on day, in file order.
func (f *CalendarFile) Events(ctx context.Context, day time.Time) ([]models.CalendarEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read calendar file: %w", err)
	}

	var doc calendarDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse calendar file %s: %w", f.Path, err)
	}

	day = day.In(f.Location)
	events := []models.CalendarEvent{}
	for i, rec := range doc.Events {
		ev, ok, err := f.resolve(rec, day)
		if err != nil {
			return nil, fmt.Errorf("event %d (%s): %w", i, rec.ID, err)
		}
		if ok {
			events = append(events, ev)
		}
	}
	return events, nil
}

// resolve turns a record into an event on day. ok is false when the
// record does not occur on day.
func (f *CalendarFile) resolve(rec eventRecord, day time.Time) (models.CalendarEvent, bool, error) {
	ev := models.CalendarEvent{
		ID:        rec.ID,
		Title:     rec.Title,
		Type:      rec.Type,
		Attendees: rec.Attendees,
		Status:    rec.Status,
	}
	if ev.Type == "" {
		ev.Type = "meeting"
	}
	if ev.Status == "" {
		ev.Status = "confirmed"
	}

	if len(rec.Weekdays) > 0 {
		if !occursOn(rec.Weekdays, day.Weekday()) {
			return ev, false, nil
		}
		start, err := clockOn(rec.Start, day)
		if err != nil {
			return ev, false, err
		}
		end, err := clockOn(rec.End, day)
		if err != nil {
			return ev, false, err
		}
		ev.Start, ev.End = start, end
	} else {
		start, err := f.parseDateTime(rec.Start)
		if err != nil {
			return ev, false, err
		}
		end, err := f.parseDateTime(rec.End)
		if err != nil {
			return ev, false, err
		}
		if !sameDate(start, day) {
			return ev, false, nil
		}
		ev.Start, ev.End = start, end
	}

	ev.DurationMinutes = int(ev.End.Sub(ev.Start) / time.Minute)
	return ev, true, nil
}

func (f *CalendarFile) parseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(f.Location), nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, f.Location); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date-time %q", s)
}

func clockOn(s string, day time.Time) (time.Time, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized time of day %q", s)
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}

func occursOn(days []string, wd time.Weekday) bool {
	for _, name := range days {
		key := strings.ToLower(strings.TrimSpace(name))
		if len(key) > 3 {
			key = key[:3]
		}
		if d, ok := weekdayNames[key]; ok && d == wd {
			return true
		}
	}
	return false
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
