package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-workspace/internal/models"
)

type projectServiceImpl struct {
	logger zerolog.Logger
	db     DB
}

func NewProjectService(
	logger zerolog.Logger,
	db DB,
) ProjectService {
	return &projectServiceImpl{
		logger: logger,
		db:     db,
	}
}

func (s *projectServiceImpl) CreateProject(ctx context.Context, params CreateProjectParams) (*models.Project, error) {
	now := time.Now()
	project := &models.Project{
		WorkspaceID: params.WorkspaceID,
		Name:        params.Name,
		Description: params.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	projectUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate project uuid")
		return nil, err
	}
	project.ID = projectUUID.String()

	const insertProjectQuery = `
INSERT INTO projects (id,
                      workspace_id,
                      name,
                      description,
                      created_at,
                      updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
`
	_, err = s.db.Exec(
		ctx,
		insertProjectQuery,
		project.ID,
		project.WorkspaceID,
		project.Name,
		project.Description,
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		if isPgError(err, pgerrcode.ForeignKeyViolation) {
			s.logger.Error().
				Str("workspace_id", project.WorkspaceID).
				Msg("workspace not found")
			return nil, ErrWorkspaceNotFound
		}

		s.logger.Error().
			Err(err).
			Str("workspace_id", project.WorkspaceID).
			Msg("failed to insert project")
		return nil, err
	}

	s.logger.Info().
		Str("project_id", project.ID).
		Str("workspace_id", project.WorkspaceID).
		Msg("created project")
	return project, nil
}

func (s *projectServiceImpl) GetProjectsByWorkspaceID(ctx context.Context, workspaceID string) ([]*models.Project, error) {
	const selectProjectsByWorkspaceIDQuery = `
SELECT id,
       name,
       description,
       created_at,
       updated_at
FROM projects
WHERE workspace_id = $1
ORDER BY created_at
`
	rows, err := s.db.Query(
		ctx,
		selectProjectsByWorkspaceIDQuery,
		workspaceID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("workspace_id", workspaceID).
			Msg("failed to select projects by workspace id")
		return nil, err
	}
	defer rows.Close()

	projects := make([]*models.Project, 0)
	for rows.Next() {
		project := &models.Project{WorkspaceID: workspaceID}
		err = rows.Scan(
			&project.ID,
			&project.Name,
			&project.Description,
			&project.CreatedAt,
			&project.UpdatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan project")
			return nil, err
		}
		projects = append(projects, project)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	s.logger.Debug().
		Str("workspace_id", workspaceID).
		Int("count", len(projects)).
		Msg("selected projects by workspace id")
	return projects, nil
}
