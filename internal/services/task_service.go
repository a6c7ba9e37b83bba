package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-workspace/internal/models"
)

const taskColumns = `t.id,
       p.workspace_id,
       t.project_id,
       t.assignee_id,
       t.title,
       t.description,
       t.status,
       t.priority,
       t.position,
       t.start_date,
       t.due_date,
       t.created_at,
       t.updated_at`

type taskServiceImpl struct {
	logger zerolog.Logger
	db     DB
}

func NewTaskService(
	logger zerolog.Logger,
	db DB,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		db:     db,
	}
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	if params.Status == "" {
		params.Status = models.StatusTodo
	}
	if !params.Status.Valid() {
		return nil, ErrInvalidTaskStatus
	}
	if params.Priority == "" {
		params.Priority = models.PriorityMedium
	}
	if !params.Priority.Valid() {
		return nil, ErrInvalidTaskPriority
	}

	now := time.Now()
	task := &models.Task{
		WorkspaceID: params.WorkspaceID,
		ProjectID:   params.ProjectID,
		AssigneeID:  params.AssigneeID,
		Title:       params.Title,
		Description: params.Description,
		Status:      params.Status,
		Priority:    params.Priority,
		StartDate:   params.StartDate,
		DueDate:     params.DueDate,
		CreatedAt:   params.CreatedAt,
		UpdatedAt:   now,
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}

	taskUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate task uuid")
		return nil, err
	}
	task.ID = taskUUID.String()

	const insertTaskQuery = `
INSERT INTO tasks (id,
                   project_id,
                   assignee_id,
                   title,
                   description,
                   status,
                   priority,
                   position,
                   start_date,
                   due_date,
                   created_at,
                   updated_at)
SELECT $1::text,
       p.id,
       $3::text,
       $4::text,
       $5::text,
       $6::text,
       $7::text,
       COALESCE((SELECT MAX(position) + 1 FROM tasks WHERE project_id = p.id), 0),
       $8::timestamptz,
       $9::timestamptz,
       $10::timestamptz,
       $11::timestamptz
FROM projects p
WHERE p.id = $2 AND
      p.workspace_id = $12
RETURNING position
`
	err = s.db.QueryRow(
		ctx,
		insertTaskQuery,
		task.ID,
		task.ProjectID,
		task.AssigneeID,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		task.StartDate,
		task.DueDate,
		task.CreatedAt,
		task.UpdatedAt,
		task.WorkspaceID,
	).Scan(&task.Position)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			s.logger.Error().
				Str("project_id", task.ProjectID).
				Str("workspace_id", task.WorkspaceID).
				Msg("project not found")
			return nil, ErrProjectNotFound
		case isPgError(err, pgerrcode.ForeignKeyViolation):
			s.logger.Error().
				Str("task_id", task.ID).
				Msg("assignee not found")
			return nil, ErrAssigneeNotFound
		}

		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("project_id", task.ProjectID).
		Int("position", task.Position).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) GetTasksByWorkspaceID(ctx context.Context, workspaceID string) ([]*models.Task, error) {
	const selectTasksByWorkspaceIDQuery = `
SELECT ` + taskColumns + `
FROM tasks t
JOIN projects p ON p.id = t.project_id
WHERE p.workspace_id = $1
ORDER BY t.due_date ASC NULLS LAST,
         t.created_at DESC
`
	rows, err := s.db.Query(
		ctx,
		selectTasksByWorkspaceIDQuery,
		workspaceID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("workspace_id", workspaceID).
			Msg("failed to select tasks by workspace id")
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task := &models.Task{}
		err = scanTask(rows, task)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(tasks)).
		Str("workspace_id", workspaceID).
		Msg("selected tasks by workspace id")
	return tasks, nil
}

func (s *taskServiceImpl) TaskSnapshot(ctx context.Context, workspaceID string) ([]models.Task, error) {
	const selectTaskSnapshotQuery = `
SELECT t.id,
       t.project_id,
       t.status,
       t.priority,
       t.created_at,
       t.due_date
FROM tasks t
JOIN projects p ON p.id = t.project_id
WHERE p.workspace_id = $1
`
	rows, err := s.db.Query(
		ctx,
		selectTaskSnapshotQuery,
		workspaceID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("workspace_id", workspaceID).
			Msg("failed to select task snapshot")
		return nil, err
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		var status, priority string
		task := models.Task{WorkspaceID: workspaceID}
		err = rows.Scan(
			&task.ID,
			&task.ProjectID,
			&status,
			&priority,
			&task.CreatedAt,
			&task.DueDate,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task snapshot")
			return nil, err
		}
		task.Status = models.TaskStatus(status)
		task.Priority = models.TaskPriority(priority)
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(tasks)).
		Str("workspace_id", workspaceID).
		Msg("selected task snapshot")
	return tasks, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	var priority *string
	if params.Priority != nil {
		if !params.Priority.Valid() {
			return nil, ErrInvalidTaskPriority
		}
		p := string(*params.Priority)
		priority = &p
	}

	task := &models.Task{}

	const updateTaskQuery = `
UPDATE tasks t
SET title = COALESCE($1, t.title),
    description = COALESCE($2, t.description),
    priority = COALESCE($3, t.priority),
    due_date = CASE WHEN $4::boolean THEN NULL ELSE COALESCE($5, t.due_date) END,
    updated_at = $6
FROM projects p
WHERE t.project_id = p.id AND
      p.workspace_id = $7 AND
      t.id = $8
RETURNING ` + taskColumns + `
`
	err := scanTask(s.db.QueryRow(
		ctx,
		updateTaskQuery,
		params.Title,
		params.Description,
		priority,
		params.ClearDueDate,
		params.DueDate,
		time.Now(),
		params.WorkspaceID,
		params.ID,
	), task)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("task_id", params.ID).
				Str("workspace_id", params.WorkspaceID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", params.ID).
			Msg("failed to update task")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("workspace_id", task.WorkspaceID).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) UpdateTaskStatus(ctx context.Context, params UpdateTaskStatusParams) (*models.Task, error) {
	if !params.Status.Valid() {
		return nil, ErrInvalidTaskStatus
	}

	task := &models.Task{}

	const updateTaskStatusQuery = `
UPDATE tasks t
SET status = $1,
    updated_at = $2
FROM projects p
WHERE t.project_id = p.id AND
      p.workspace_id = $3 AND
      t.id = $4
RETURNING ` + taskColumns + `
`
	err := scanTask(s.db.QueryRow(
		ctx,
		updateTaskStatusQuery,
		string(params.Status),
		time.Now(),
		params.WorkspaceID,
		params.ID,
	), task)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("task_id", params.ID).
				Str("workspace_id", params.WorkspaceID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", params.ID).
			Msg("failed to update task status")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("status", string(task.Status)).
		Msg("updated task status")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, params DeleteTaskParams) error {
	const deleteTaskQuery = `
DELETE FROM tasks t
USING projects p
WHERE t.project_id = p.id AND
      p.workspace_id = $1 AND
      t.id = $2
`
	tag, err := s.db.Exec(
		ctx,
		deleteTaskQuery,
		params.WorkspaceID,
		params.ID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", params.ID).
			Msg("failed to delete task")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Error().
			Str("task_id", params.ID).
			Str("workspace_id", params.WorkspaceID).
			Msg("task not found")
		return ErrTaskNotFound
	}

	s.logger.Info().
		Str("task_id", params.ID).
		Str("workspace_id", params.WorkspaceID).
		Msg("deleted task")
	return nil
}

func scanTask(row pgx.Row, task *models.Task) error {
	var status, priority string
	err := row.Scan(
		&task.ID,
		&task.WorkspaceID,
		&task.ProjectID,
		&task.AssigneeID,
		&task.Title,
		&task.Description,
		&status,
		&priority,
		&task.Position,
		&task.StartDate,
		&task.DueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return err
	}
	task.Status = models.TaskStatus(status)
	task.Priority = models.TaskPriority(priority)
	return nil
}
