package sources

import (
	"sort"
	"time"

	"github.com/ShayCichocki/copilot/pkg/models"
)

// farFuture orders tasks without a due date after every dated task.
const farFuture = "9999-12-31"

// Apply returns the tasks matching f, in input order. The input is not
// modified. A due_before bound that cannot be parsed matches nothing;
// tasks with no parseable due date never match a due_before bound.
func Apply(tasks []models.Task, f Filter) []models.Task {
	out := make([]models.Task, 0, len(tasks))

	var (
		limit    time.Time
		hasBound bool
	)
	if f.DueBefore != "" {
		if limit, hasBound = models.ParseDate(f.DueBefore); !hasBound {
			return out
		}
	}

	for _, t := range tasks {
		if len(f.Statuses) > 0 && !hasStatus(f.Statuses, t.Status) {
			continue
		}
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		if f.Project != "" && t.Project != f.Project {
			continue
		}
		if hasBound {
			due, ok := t.Due()
			if !ok || due.After(limit) {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

func hasStatus(set []models.TaskStatus, s models.TaskStatus) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

// Sort orders tasks in place by key. The sort is stable; an unknown key
// leaves the order unchanged.
func Sort(tasks []models.Task, key SortKey) {
	switch key {
	case SortByDueDate:
		sort.SliceStable(tasks, func(i, j int) bool {
			return dueKey(tasks[i]) < dueKey(tasks[j])
		})
	case SortByPriority:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].Priority.Rank() < tasks[j].Priority.Rank()
		})
	case SortByCreatedDate:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].CreatedDate < tasks[j].CreatedDate
		})
	}
}

func dueKey(t models.Task) string {
	due, ok := t.Due()
	if !ok {
		return farFuture
	}
	return due.Format(models.DateLayout)
}

// Run applies the filter and sort over an in-memory list, returning a new slice.
func (q Query) Run(tasks []models.Task) []models.Task {
	out := Apply(tasks, q.Filter)
	Sort(out, q.SortBy)
	return out
}
