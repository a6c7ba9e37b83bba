package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/adanyl0v/go-workspace/internal/models"
)

var testNow = time.Date(2026, 10, 16, 15, 30, 0, 0, time.UTC)

func newTask(status models.TaskStatus, priority models.TaskPriority, createdAt time.Time) models.Task {
	return models.Task{
		ID:        "t",
		Status:    status,
		Priority:  priority,
		CreatedAt: createdAt,
	}
}

func TestCountTasksEmpty(t *testing.T) {
	tally := CountTasks(nil)
	assert.Equal(t, Tally{}, tally)
	assert.Zero(t, tally.Status.Total())
	assert.Zero(t, tally.Priority.Total())
	assert.Empty(t, tally.StatusCounts())
}

func TestCountTasksScenario(t *testing.T) {
	tasks := []models.Task{
		newTask(models.StatusTodo, models.PriorityHigh, testNow),
		newTask(models.StatusCompleted, models.PriorityLow, testNow),
	}

	tally := CountTasks(tasks)
	assert.Equal(t, StatusCounts{Todo: 1, Completed: 1}, tally.Status)
	assert.Equal(t, PriorityCounts{High: 1, Low: 1}, tally.Priority)
}

func TestCountTasksEveryValue(t *testing.T) {
	var tasks []models.Task
	for i, status := range models.TaskStatuses {
		for j := 0; j <= i; j++ {
			tasks = append(tasks, newTask(status, models.PriorityMedium, testNow))
		}
	}
	for i, priority := range models.TaskPriorities {
		for j := 0; j <= i; j++ {
			tasks = append(tasks, newTask(models.StatusBacklog, priority, testNow))
		}
	}

	tally := CountTasks(tasks)
	assert.Equal(t, StatusCounts{
		Todo:       1,
		InProgress: 2,
		Completed:  3,
		Blocked:    4,
		InReview:   5,
		Backlog:    6 + 10,
	}, tally.Status)
	assert.Equal(t, PriorityCounts{
		Low:      1,
		Medium:   2 + 21,
		High:     3,
		Critical: 4,
	}, tally.Priority)
	assert.Equal(t, len(tasks), tally.Status.Total())
	assert.Equal(t, len(tasks), tally.Priority.Total())
}

func TestCountTasksUnknownValues(t *testing.T) {
	tasks := []models.Task{
		newTask("ARCHIVED", models.PriorityHigh, testNow),
		newTask(models.StatusTodo, "URGENT", testNow),
		newTask(models.StatusTodo, models.PriorityLow, testNow),
	}

	tally := CountTasks(tasks)
	assert.Equal(t, StatusCounts{Todo: 2}, tally.Status)
	assert.Equal(t, PriorityCounts{High: 1, Low: 1}, tally.Priority)
	assert.Less(t, tally.Status.Total(), len(tasks))
	assert.Less(t, tally.Priority.Total(), len(tasks))
}

func TestCountTasksSkipsMalformed(t *testing.T) {
	cases := []struct {
		name string
		task models.Task
	}{
		{"missing status", newTask("", models.PriorityHigh, testNow)},
		{"missing priority", newTask(models.StatusTodo, "", testNow)},
		{"missing created at", newTask(models.StatusTodo, models.PriorityHigh, time.Time{})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tally := CountTasks([]models.Task{tc.task})
			assert.Equal(t, Tally{}, tally)
		})
	}
}

func TestCountTasksDoesNotMutateInput(t *testing.T) {
	tasks := []models.Task{
		newTask(models.StatusInReview, models.PriorityCritical, testNow),
		newTask("", models.PriorityCritical, testNow),
	}
	before := append([]models.Task(nil), tasks...)

	first := CountTasks(tasks)
	second := CountTasks(tasks)
	assert.Equal(t, first, second)
	assert.Equal(t, before, tasks)
}

func TestTallyStatusCountsOrder(t *testing.T) {
	tally := Tally{Status: StatusCounts{Backlog: 2, Todo: 1, Blocked: 3}}
	assert.Equal(t, []StatusCount{
		{Status: models.StatusTodo, Count: 1},
		{Status: models.StatusBlocked, Count: 3},
		{Status: models.StatusBacklog, Count: 2},
	}, tally.StatusCounts())
}

func TestCountsGet(t *testing.T) {
	status := StatusCounts{InProgress: 7}
	assert.Equal(t, 7, status.Get(models.StatusInProgress))
	assert.Zero(t, status.Get("UNKNOWN"))

	priority := PriorityCounts{Critical: 4}
	assert.Equal(t, 4, priority.Get(models.PriorityCritical))
	assert.Zero(t, priority.Get("UNKNOWN"))
}
