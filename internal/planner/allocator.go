package planner

import (
	"sort"
	"time"

	"github.com/ShayCichocki/copilot/pkg/models"
)

const (
	// MinAllocatableMinutes is the shortest block the allocator will use.
	MinAllocatableMinutes = 30
	// DeepWorkMinutes is the block length at which a morning-focus
	// allocation is tagged deep work.
	DeepWorkMinutes = 90

	noon = 12
)

// Allocate assigns ranked tasks to free blocks greedily.
//
// Blocks are visited longest first (ties by start time); blocks under
// MinAllocatableMinutes are skipped. Each block takes the first unallocated
// task, in rank order, whose estimate fits it. With morning focus enabled,
// blocks starting before noon only accept tasks scoring at least
// HighPriorityThreshold. A block hosts at most one task and a task is placed
// at most once. Tasks that fit nowhere are left out.
//
// The result is in block-visit order, not time order.
func Allocate(tasks []models.ScoredTask, blocks []models.FreeBlock, prefs models.Preferences) []models.ScheduledItem {
	order := make([]models.FreeBlock, len(blocks))
	copy(order, blocks)
	sort.SliceStable(order, func(i, j int) bool {
		if order[i].DurationMinutes != order[j].DurationMinutes {
			return order[i].DurationMinutes > order[j].DurationMinutes
		}
		return order[i].Start.Before(order[j].Start)
	})

	schedule := []models.ScheduledItem{}
	allocated := make(map[string]bool, len(tasks))

	for _, block := range order {
		if block.DurationMinutes < MinAllocatableMinutes {
			continue
		}
		morning := block.Start.Hour() < noon

		for _, task := range tasks {
			if allocated[task.ID] {
				continue
			}
			minutes := task.EstimatedMinutes()
			if minutes > float64(block.DurationMinutes) {
				continue
			}

			var blockType models.BlockType
			switch {
			case prefs.MorningFocus && morning:
				if task.PriorityScore < HighPriorityThreshold {
					continue
				}
				blockType = models.BlockTypeFocusedTask
				if block.DurationMinutes >= DeepWorkMinutes {
					blockType = models.BlockTypeDeepWork
				}
			default:
				blockType = models.BlockTypeFocusedTask
			}

			schedule = append(schedule, models.ScheduledItem{
				TaskID:          task.ID,
				TaskTitle:       task.Title,
				PriorityScore:   task.PriorityScore,
				Start:           block.Start,
				End:             block.Start.Add(time.Duration(minutes * float64(time.Minute))),
				DurationMinutes: minutes,
				BlockType:       blockType,
			})
			allocated[task.ID] = true
			break
		}
	}

	return schedule
}

// Chronological returns a copy of the schedule sorted by start time.
func Chronological(schedule []models.ScheduledItem) []models.ScheduledItem {
	out := make([]models.ScheduledItem, len(schedule))
	copy(out, schedule)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}
