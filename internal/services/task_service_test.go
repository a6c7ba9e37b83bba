package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/go-workspace/internal/models"
)

var taskRowColumns = []string{
	"id", "workspace_id", "project_id", "assignee_id", "title", "description",
	"status", "priority", "position", "start_date", "due_date", "created_at", "updated_at",
}

func TestTaskSnapshot(t *testing.T) {
	mock := newMockPool(t)
	s := NewTaskService(testLogger(), mock)

	createdAt := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	dueDate := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM tasks t").
		WithArgs("ws-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "project_id", "status", "priority", "created_at", "due_date"}).
			AddRow("t1", "p1", "TODO", "HIGH", createdAt, &dueDate).
			AddRow("t2", "p1", "COMPLETED", "LOW", createdAt, (*time.Time)(nil)))

	tasks, err := s.TaskSnapshot(context.Background(), "ws-1")
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	assert.Equal(t, "ws-1", tasks[0].WorkspaceID)
	assert.Equal(t, models.StatusTodo, tasks[0].Status)
	assert.Equal(t, models.PriorityHigh, tasks[0].Priority)
	assert.Equal(t, createdAt, tasks[0].CreatedAt)
	require.NotNil(t, tasks[0].DueDate)
	assert.Equal(t, dueDate, *tasks[0].DueDate)

	assert.Equal(t, models.StatusCompleted, tasks[1].Status)
	assert.Nil(t, tasks[1].DueDate)
}

func TestTaskSnapshotEmpty(t *testing.T) {
	mock := newMockPool(t)
	s := NewTaskService(testLogger(), mock)

	mock.ExpectQuery("FROM tasks t").
		WithArgs("ws-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "project_id", "status", "priority", "created_at", "due_date"}))

	tasks, err := s.TaskSnapshot(context.Background(), "ws-1")
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestTaskSnapshotQueryError(t *testing.T) {
	mock := newMockPool(t)
	s := NewTaskService(testLogger(), mock)

	cause := errors.New("connection reset")
	mock.ExpectQuery("FROM tasks t").
		WithArgs("ws-1").
		WillReturnError(cause)

	tasks, err := s.TaskSnapshot(context.Background(), "ws-1")
	assert.Nil(t, tasks)
	assert.ErrorIs(t, err, cause)
}

func TestCreateTask(t *testing.T) {
	mock := newMockPool(t)
	s := NewTaskService(testLogger(), mock)

	mock.ExpectQuery("INSERT INTO tasks").
		WithArgs(
			pgxmock.AnyArg(), "p1", pgxmock.AnyArg(), "Write docs", "",
			"TODO", "MEDIUM", pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), "ws-1",
		).
		WillReturnRows(pgxmock.NewRows([]string{"position"}).AddRow(3))

	task, err := s.CreateTask(context.Background(), CreateTaskParams{
		WorkspaceID: "ws-1",
		ProjectID:   "p1",
		Title:       "Write docs",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, 3, task.Position)
	assert.Equal(t, models.StatusTodo, task.Status)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.False(t, task.CreatedAt.IsZero())
}

func TestCreateTaskKeepsExplicitCreatedAt(t *testing.T) {
	mock := newMockPool(t)
	s := NewTaskService(testLogger(), mock)

	createdAt := time.Date(2026, 9, 30, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO tasks").
		WithArgs(
			pgxmock.AnyArg(), "p1", pgxmock.AnyArg(), "Backfill", "",
			"COMPLETED", "CRITICAL", pgxmock.AnyArg(), pgxmock.AnyArg(),
			createdAt, pgxmock.AnyArg(), "ws-1",
		).
		WillReturnRows(pgxmock.NewRows([]string{"position"}).AddRow(0))

	task, err := s.CreateTask(context.Background(), CreateTaskParams{
		WorkspaceID: "ws-1",
		ProjectID:   "p1",
		Title:       "Backfill",
		Status:      models.StatusCompleted,
		Priority:    models.PriorityCritical,
		CreatedAt:   createdAt,
	})
	require.NoError(t, err)
	assert.Equal(t, createdAt, task.CreatedAt)
}

func TestCreateTaskValidation(t *testing.T) {
	s := NewTaskService(testLogger(), newMockPool(t))

	_, err := s.CreateTask(context.Background(), CreateTaskParams{Status: "DONE"})
	assert.ErrorIs(t, err, ErrInvalidTaskStatus)

	_, err = s.CreateTask(context.Background(), CreateTaskParams{Priority: "URGENT"})
	assert.ErrorIs(t, err, ErrInvalidTaskPriority)
}

func TestCreateTaskErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"project outside workspace", pgx.ErrNoRows, ErrProjectNotFound},
		{"unknown assignee", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, ErrAssigneeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock := newMockPool(t)
			s := NewTaskService(testLogger(), mock)

			mock.ExpectQuery("INSERT INTO tasks").WillReturnError(tc.err)

			task, err := s.CreateTask(context.Background(), CreateTaskParams{
				WorkspaceID: "ws-1",
				ProjectID:   "p1",
				Title:       "Task",
				AssigneeID:  strPtr("ghost"),
			})
			assert.Nil(t, task)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestGetTasksByWorkspaceID(t *testing.T) {
	mock := newMockPool(t)
	s := NewTaskService(testLogger(), mock)

	now := time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("ORDER BY t.due_date ASC NULLS LAST").
		WithArgs("ws-1").
		WillReturnRows(pgxmock.NewRows(taskRowColumns).
			AddRow("t1", "ws-1", "p1", strPtr("u1"), "Ship", "desc", "IN_REVIEW", "HIGH", 0,
				(*time.Time)(nil), &now, now, now))

	tasks, err := s.GetTasksByWorkspaceID(context.Background(), "ws-1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Ship", tasks[0].Title)
	assert.Equal(t, models.StatusInReview, tasks[0].Status)
	require.NotNil(t, tasks[0].AssigneeID)
	assert.Equal(t, "u1", *tasks[0].AssigneeID)
	assert.Nil(t, tasks[0].StartDate)
}

func TestUpdateTaskStatus(t *testing.T) {
	mock := newMockPool(t)
	s := NewTaskService(testLogger(), mock)

	now := time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("UPDATE tasks t").
		WithArgs("COMPLETED", pgxmock.AnyArg(), "ws-1", "t1").
		WillReturnRows(pgxmock.NewRows(taskRowColumns).
			AddRow("t1", "ws-1", "p1", (*string)(nil), "Ship", "", "COMPLETED", "LOW", 2,
				(*time.Time)(nil), (*time.Time)(nil), now, now))

	task, err := s.UpdateTaskStatus(context.Background(), UpdateTaskStatusParams{
		ID:          "t1",
		WorkspaceID: "ws-1",
		Status:      models.StatusCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, task.Status)
	assert.Equal(t, 2, task.Position)
}

func TestUpdateTaskStatusErrors(t *testing.T) {
	mock := newMockPool(t)
	s := NewTaskService(testLogger(), mock)

	_, err := s.UpdateTaskStatus(context.Background(), UpdateTaskStatusParams{Status: "ARCHIVED"})
	assert.ErrorIs(t, err, ErrInvalidTaskStatus)

	mock.ExpectQuery("UPDATE tasks t").WillReturnError(pgx.ErrNoRows)
	_, err = s.UpdateTaskStatus(context.Background(), UpdateTaskStatusParams{
		ID:          "missing",
		WorkspaceID: "ws-1",
		Status:      models.StatusBlocked,
	})
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestUpdateTask(t *testing.T) {
	mock := newMockPool(t)
	s := NewTaskService(testLogger(), mock)

	due := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("UPDATE tasks t").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), strPtr("HIGH"), false, &due,
			pgxmock.AnyArg(), "ws-1", "t1").
		WillReturnRows(pgxmock.NewRows(taskRowColumns).
			AddRow("t1", "ws-1", "p1", (*string)(nil), "Ship", "", "TODO", "HIGH", 0,
				(*time.Time)(nil), &due, now, now))

	priority := models.PriorityHigh
	task, err := s.UpdateTask(context.Background(), UpdateTaskParams{
		ID:          "t1",
		WorkspaceID: "ws-1",
		Priority:    &priority,
		DueDate:     &due,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PriorityHigh, task.Priority)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, due, *task.DueDate)
}

func TestUpdateTaskInvalidPriority(t *testing.T) {
	s := NewTaskService(testLogger(), newMockPool(t))

	priority := models.TaskPriority("URGENT")
	_, err := s.UpdateTask(context.Background(), UpdateTaskParams{ID: "t1", Priority: &priority})
	assert.ErrorIs(t, err, ErrInvalidTaskPriority)
}

func TestDeleteTask(t *testing.T) {
	mock := newMockPool(t)
	s := NewTaskService(testLogger(), mock)

	mock.ExpectExec("DELETE FROM tasks t").
		WithArgs("ws-1", "t1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM tasks t").
		WithArgs("ws-1", "t2").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := s.DeleteTask(context.Background(), DeleteTaskParams{ID: "t1", WorkspaceID: "ws-1"})
	assert.NoError(t, err)

	err = s.DeleteTask(context.Background(), DeleteTaskParams{ID: "t2", WorkspaceID: "ws-1"})
	assert.ErrorIs(t, err, ErrTaskNotFound)
}
