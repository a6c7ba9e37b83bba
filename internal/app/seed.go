package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/adanyl0v/go-workspace/internal/models"
	"github.com/adanyl0v/go-workspace/internal/services"
)

const seedFingerprint = "seed"

type SeedFixture struct {
	User      SeedUser      `yaml:"user"`
	Workspace SeedWorkspace `yaml:"workspace"`
	Projects  []SeedProject `yaml:"projects"`
}

type SeedUser struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type SeedWorkspace struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type SeedProject struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Tasks       []SeedTask `yaml:"tasks"`
}

type SeedTask struct {
	Title          string `yaml:"title"`
	Description    string `yaml:"description"`
	Status         string `yaml:"status"`
	Priority       string `yaml:"priority"`
	CreatedDaysAgo int    `yaml:"created_days_ago"`
	DueInDays      *int   `yaml:"due_in_days"`
}

type SeedResult struct {
	UserID      string
	WorkspaceID string
	InviteCode  string
	Projects    int
	Tasks       int
}

// ReadSeedFixture decodes a YAML fixture, rejecting unknown keys.
func ReadSeedFixture(r io.Reader) (*SeedFixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	fixture := new(SeedFixture)
	err := dec.Decode(fixture)
	if err != nil {
		return nil, fmt.Errorf("failed to decode seed fixture: %w", err)
	}

	switch {
	case fixture.User.Email == "" || fixture.User.Password == "":
		return nil, errors.New("seed fixture: user email and password are required")
	case fixture.Workspace.Name == "":
		return nil, errors.New("seed fixture: workspace name is required")
	}
	for _, project := range fixture.Projects {
		for _, task := range project.Tasks {
			if task.CreatedDaysAgo < 0 {
				return nil, fmt.Errorf("seed fixture: task %q is created in the future", task.Title)
			}
		}
	}
	return fixture, nil
}

type Seeder struct {
	Auth       services.AuthService
	Workspaces services.WorkspaceService
	Projects   services.ProjectService
	Tasks      services.TaskService
	Now        func() time.Time
}

// Seed creates the fixture's user (or logs into an existing one), a fresh
// workspace owned by that user and every project and task below it. Task
// creation times are backdated relative to Now.
func (s Seeder) Seed(ctx context.Context, fixture *SeedFixture) (*SeedResult, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	anchor := now()

	login := services.LoginParams{
		Email:       fixture.User.Email,
		Password:    fixture.User.Password,
		Fingerprint: seedFingerprint,
	}
	session, err := s.Auth.Register(ctx, services.RegisterParams{
		LoginParams: login,
		Name:        fixture.User.Name,
	})
	if errors.Is(err, services.ErrUserAlreadyExists) {
		session, err = s.Auth.Login(ctx, login)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to prepare seed user: %w", err)
	}

	workspace, err := s.Workspaces.CreateWorkspace(ctx, services.CreateWorkspaceParams{
		OwnerID:     session.UserID,
		Name:        fixture.Workspace.Name,
		Description: fixture.Workspace.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create seed workspace: %w", err)
	}

	result := &SeedResult{
		UserID:      session.UserID,
		WorkspaceID: workspace.ID,
		InviteCode:  workspace.InviteCode,
	}
	for _, p := range fixture.Projects {
		project, err := s.Projects.CreateProject(ctx, services.CreateProjectParams{
			WorkspaceID: workspace.ID,
			Name:        p.Name,
			Description: p.Description,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create project %q: %w", p.Name, err)
		}
		result.Projects++

		for _, t := range p.Tasks {
			params := services.CreateTaskParams{
				WorkspaceID: workspace.ID,
				ProjectID:   project.ID,
				Title:       t.Title,
				Description: t.Description,
				Status:      models.TaskStatus(t.Status),
				Priority:    models.TaskPriority(t.Priority),
				CreatedAt:   anchor.AddDate(0, 0, -t.CreatedDaysAgo),
			}
			if t.DueInDays != nil {
				due := anchor.AddDate(0, 0, *t.DueInDays)
				params.DueDate = &due
			}

			_, err = s.Tasks.CreateTask(ctx, params)
			if err != nil {
				return nil, fmt.Errorf("failed to create task %q: %w", t.Title, err)
			}
			result.Tasks++
		}
	}
	return result, nil
}

func MustSeed(path string) {
	f, err := os.Open(path)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("path", path).
			Msg("failed to open seed fixture")
		panic(err)
	}
	defer f.Close()

	fixture, err := ReadSeedFixture(f)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("path", path).
			Msg("failed to read seed fixture")
		panic(err)
	}

	seeder := Seeder{
		Auth:       newAuthService(),
		Workspaces: services.NewWorkspaceService(globalLogger, globalPostgresPool),
		Projects:   services.NewProjectService(globalLogger, globalPostgresPool),
		Tasks:      services.NewTaskService(globalLogger, globalPostgresPool),
	}

	result, err := seeder.Seed(context.Background(), fixture)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to seed database")
		panic(err)
	}
	globalLogger.Info().
		Str("user_id", result.UserID).
		Str("workspace_id", result.WorkspaceID).
		Str("invite_code", result.InviteCode).
		Int("projects", result.Projects).
		Int("tasks", result.Tasks).
		Msg("seeded database")
}
