package analytics

import "github.com/adanyl0v/go-workspace/internal/models"

// StatusCounts holds one counter per task status.
type StatusCounts struct {
	Todo       int `json:"todo"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Blocked    int `json:"blocked"`
	InReview   int `json:"in_review"`
	Backlog    int `json:"backlog"`
}

func (c StatusCounts) Total() int {
	return c.Todo + c.InProgress + c.Completed + c.Blocked + c.InReview + c.Backlog
}

// Get returns the counter for the given status, or 0 for an unknown one.
func (c StatusCounts) Get(status models.TaskStatus) int {
	switch status {
	case models.StatusTodo:
		return c.Todo
	case models.StatusInProgress:
		return c.InProgress
	case models.StatusCompleted:
		return c.Completed
	case models.StatusBlocked:
		return c.Blocked
	case models.StatusInReview:
		return c.InReview
	case models.StatusBacklog:
		return c.Backlog
	}
	return 0
}

// PriorityCounts holds one counter per task priority.
type PriorityCounts struct {
	Low      int `json:"low"`
	Medium   int `json:"medium"`
	High     int `json:"high"`
	Critical int `json:"critical"`
}

func (c PriorityCounts) Total() int {
	return c.Low + c.Medium + c.High + c.Critical
}

func (c PriorityCounts) Get(priority models.TaskPriority) int {
	switch priority {
	case models.PriorityLow:
		return c.Low
	case models.PriorityMedium:
		return c.Medium
	case models.PriorityHigh:
		return c.High
	case models.PriorityCritical:
		return c.Critical
	}
	return 0
}

// Tally is the result of a single pass over a task snapshot. Both
// breakdowns always sum to the same number of well-formed tasks.
type Tally struct {
	Status   StatusCounts
	Priority PriorityCounts
}

// StatusCount is a single group of the status breakdown.
type StatusCount struct {
	Status models.TaskStatus `json:"status"`
	Count  int               `json:"count"`
}

// StatusCounts returns the non-empty status groups in models.TaskStatuses order.
func (t Tally) StatusCounts() []StatusCount {
	counts := make([]StatusCount, 0, len(models.TaskStatuses))
	for _, status := range models.TaskStatuses {
		n := t.Status.Get(status)
		if n == 0 {
			continue
		}
		counts = append(counts, StatusCount{Status: status, Count: n})
	}
	return counts
}

// CountTasks partitions tasks into the status and priority buckets.
//
// A record missing its status, priority or creation time is skipped
// entirely. A present but unrecognized status or priority only leaves
// that group's counters untouched.
func CountTasks(tasks []models.Task) Tally {
	var t Tally
	for i := range tasks {
		task := &tasks[i]
		if isMalformed(task) {
			continue
		}

		switch task.Status {
		case models.StatusTodo:
			t.Status.Todo++
		case models.StatusInProgress:
			t.Status.InProgress++
		case models.StatusCompleted:
			t.Status.Completed++
		case models.StatusBlocked:
			t.Status.Blocked++
		case models.StatusInReview:
			t.Status.InReview++
		case models.StatusBacklog:
			t.Status.Backlog++
		}

		switch task.Priority {
		case models.PriorityLow:
			t.Priority.Low++
		case models.PriorityMedium:
			t.Priority.Medium++
		case models.PriorityHigh:
			t.Priority.High++
		case models.PriorityCritical:
			t.Priority.Critical++
		}
	}
	return t
}

func isMalformed(task *models.Task) bool {
	return task.Status == "" || task.Priority == "" || task.CreatedAt.IsZero()
}
