package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/adanyl0v/go-workspace/internal/models"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrUserPasswordMismatch = errors.New("user password mismatch")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionExpired       = errors.New("session expired")

	ErrWorkspaceNotFound       = errors.New("workspace not found")
	ErrNotWorkspaceMember      = errors.New("user is not a member of the workspace")
	ErrAlreadyWorkspaceMember  = errors.New("user is already a member of the workspace")
	ErrInvalidInviteCode       = errors.New("invalid invite code")
	ErrProjectNotFound         = errors.New("project not found")
	ErrTaskNotFound            = errors.New("task not found")
	ErrInvalidTaskStatus       = errors.New("invalid task status")
	ErrInvalidTaskPriority     = errors.New("invalid task priority")
	ErrAssigneeNotFound        = errors.New("assignee not found")
	ErrInviteCodeAlreadyExists = errors.New("invite code already exists")
	ErrChannelNotFound         = errors.New("chat channel not found")
	ErrChannelAlreadyExists    = errors.New("chat channel already exists")
	ErrEmptyChatMessage        = errors.New("chat message is empty")
)

// DB is the subset of *pgxpool.Pool the services depend on.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type AuthService interface {
	// Login authenticates the user by email and password.
	//
	// It deletes all sessions with the same user ID and creates
	// a new session and generates a new JWT token pair.
	//
	// It returns ErrUserNotFound if the user with the given
	// email doesn't exist or ErrUserPasswordMismatch if the
	// given password doesn't match the user's password.
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)

	// Refresh updates the session with the given refresh token.
	//
	// It returns ErrSessionNotFound if the session with the
	// given refresh token doesn't exist or ErrSessionExpired
	// if the session is expired.
	Refresh(ctx context.Context, params RefreshParams) (*LoginResult, error)

	// Register a user with the given email and password.
	//
	// The user either joins the workspace behind params.InviteCode or
	// becomes the owner of a new personal workspace, and starts a session
	// with the given fingerprint.
	//
	// It returns ErrUserAlreadyExists if the email is taken or
	// ErrInvalidInviteCode if the invite code matches no workspace.
	Register(ctx context.Context, params RegisterParams) (*LoginResult, error)

	// Logout invalidates all sessions with the given user ID.
	Logout(ctx context.Context, userID string) error

	// ParseJWTToken parses the given JWT token and returns the registered
	// claims or jwt.ErrTokenExpired if the token is expired.
	ParseJWTToken(token string) (*jwt.RegisteredClaims, error)
}

type SessionService interface {
	GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error)
}

type WorkspaceService interface {
	// CreateWorkspace creates a workspace with a random invite
	// code and makes the given owner its first member.
	CreateWorkspace(ctx context.Context, params CreateWorkspaceParams) (*models.Workspace, error)

	// GetWorkspacesByUserID returns the workspaces the user is a member of.
	GetWorkspacesByUserID(ctx context.Context, userID string) ([]*models.Workspace, error)

	// JoinWorkspace adds the user to the workspace with the given
	// invite code. It returns ErrInvalidInviteCode if no workspace
	// matches or ErrAlreadyWorkspaceMember on a repeated join.
	JoinWorkspace(ctx context.Context, userID, inviteCode string) (*models.Workspace, error)

	// GetMembership returns ErrWorkspaceNotFound if the workspace doesn't
	// exist or ErrNotWorkspaceMember if the user doesn't belong to it.
	GetMembership(ctx context.Context, workspaceID, userID string) (*models.WorkspaceMember, error)

	GetMembers(ctx context.Context, workspaceID string) ([]*models.WorkspaceMember, error)
}

type ProjectService interface {
	CreateProject(ctx context.Context, params CreateProjectParams) (*models.Project, error)
	GetProjectsByWorkspaceID(ctx context.Context, workspaceID string) ([]*models.Project, error)
}

type TaskService interface {
	// CreateTask appends a task to the end of the project. It returns
	// ErrProjectNotFound if the project is not part of the workspace.
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)

	// GetTasksByWorkspaceID returns every task of the workspace ordered
	// by due date (undated last) and then by creation time, newest first.
	GetTasksByWorkspaceID(ctx context.Context, workspaceID string) ([]*models.Task, error)

	// TaskSnapshot returns the fields analytics needs for every task of
	// the workspace. An empty workspace yields an empty slice.
	TaskSnapshot(ctx context.Context, workspaceID string) ([]models.Task, error)

	UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error)
	UpdateTaskStatus(ctx context.Context, params UpdateTaskStatusParams) (*models.Task, error)
	DeleteTask(ctx context.Context, params DeleteTaskParams) error
}

type ChatService interface {
	// EnsureDefaultChannel returns the workspace's "general" channel,
	// creating it on first access.
	EnsureDefaultChannel(ctx context.Context, workspaceID string) (*models.ChatChannel, error)

	// CreateChannel returns ErrChannelAlreadyExists if the workspace
	// already has a channel with the same name.
	CreateChannel(ctx context.Context, params CreateChannelParams) (*models.ChatChannel, error)

	// ListChannels returns the channels of the workspace oldest first,
	// with the default channel always present.
	ListChannels(ctx context.Context, workspaceID string) ([]*models.ChatChannel, error)

	// ListMessages returns up to limit of the newest messages of the
	// channel, newest first. It returns ErrChannelNotFound if the channel
	// is not part of the workspace.
	ListMessages(ctx context.Context, params ListMessagesParams) ([]*models.ChatMessage, error)

	SendMessage(ctx context.Context, params SendMessageParams) (*models.ChatMessage, error)
}

type LoginParams struct {
	Email       string
	Password    string
	Fingerprint string
}

type RegisterParams struct {
	LoginParams
	Name string
	// InviteCode, when set, enrolls the user in an existing workspace
	// instead of a new personal one.
	InviteCode string
}

type LoginResult struct {
	UserID string
	// WorkspaceID is the workspace the client should open first. It is
	// empty for a user who belongs to no workspace.
	WorkspaceID           string
	SessionID             string
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

type RefreshParams struct {
	RefreshToken string
	Fingerprint  string
}

type CreateWorkspaceParams struct {
	OwnerID     string
	Name        string
	Description string
}

type CreateProjectParams struct {
	WorkspaceID string
	Name        string
	Description string
}

type CreateTaskParams struct {
	WorkspaceID string
	ProjectID   string
	AssigneeID  *string
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	StartDate   *time.Time
	DueDate     *time.Time
	// CreatedAt defaults to the current time when zero.
	CreatedAt time.Time
}

type UpdateTaskParams struct {
	ID           string
	WorkspaceID  string
	Title        *string
	Description  *string
	Priority     *models.TaskPriority
	DueDate      *time.Time
	ClearDueDate bool
}

type UpdateTaskStatusParams struct {
	ID          string
	WorkspaceID string
	Status      models.TaskStatus
}

type DeleteTaskParams struct {
	ID          string
	WorkspaceID string
}

type CreateChannelParams struct {
	WorkspaceID string
	Name        string
	Description string
}

type ListMessagesParams struct {
	WorkspaceID string
	ChannelID   string
	// Limit falls back to DefaultMessageLimit when not positive.
	Limit int
}

type SendMessageParams struct {
	WorkspaceID string
	ChannelID   string
	UserID      string
	Content     string
}
