package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-workspace/internal/models"
)

const (
	inviteCodeLength   = 8
	inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz23456789"
)

type workspaceServiceImpl struct {
	logger zerolog.Logger
	db     DB
}

func NewWorkspaceService(
	logger zerolog.Logger,
	db DB,
) WorkspaceService {
	return &workspaceServiceImpl{
		logger: logger,
		db:     db,
	}
}

func (s *workspaceServiceImpl) CreateWorkspace(ctx context.Context, params CreateWorkspaceParams) (*models.Workspace, error) {
	workspace, err := newWorkspace(params.Name, params.Description, time.Now())
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to prepare workspace")
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = insertWorkspace(ctx, tx, s.logger, workspace)
	if err != nil {
		return nil, err
	}

	err = insertMember(ctx, tx, s.logger, workspace.ID, params.OwnerID, models.AccessOwner, workspace.CreatedAt)
	if err != nil {
		return nil, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return nil, err
	}

	s.logger.Info().
		Str("workspace_id", workspace.ID).
		Str("owner_id", params.OwnerID).
		Msg("created workspace")
	return workspace, nil
}

func (s *workspaceServiceImpl) GetWorkspacesByUserID(ctx context.Context, userID string) ([]*models.Workspace, error) {
	const selectWorkspacesByUserIDQuery = `
SELECT w.id,
       w.name,
       w.description,
       w.invite_code,
       w.created_at,
       w.updated_at
FROM workspaces w
JOIN workspace_members m ON m.workspace_id = w.id
WHERE m.user_id = $1
ORDER BY w.created_at
`
	rows, err := s.db.Query(
		ctx,
		selectWorkspacesByUserIDQuery,
		userID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select workspaces by user id")
		return nil, err
	}
	defer rows.Close()

	workspaces := make([]*models.Workspace, 0)
	for rows.Next() {
		workspace := &models.Workspace{}
		err = rows.Scan(
			&workspace.ID,
			&workspace.Name,
			&workspace.Description,
			&workspace.InviteCode,
			&workspace.CreatedAt,
			&workspace.UpdatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan workspace")
			return nil, err
		}
		workspaces = append(workspaces, workspace)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	s.logger.Debug().
		Str("user_id", userID).
		Int("count", len(workspaces)).
		Msg("selected workspaces by user id")
	return workspaces, nil
}

func (s *workspaceServiceImpl) JoinWorkspace(ctx context.Context, userID, inviteCode string) (*models.Workspace, error) {
	workspace, err := selectWorkspaceByInviteCode(ctx, s.db, s.logger, inviteCode)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = insertMember(ctx, tx, s.logger, workspace.ID, userID, models.AccessMember, time.Now())
	if err != nil {
		return nil, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return nil, err
	}

	s.logger.Info().
		Str("workspace_id", workspace.ID).
		Str("user_id", userID).
		Msg("joined workspace")
	return workspace, nil
}

func (s *workspaceServiceImpl) GetMembership(ctx context.Context, workspaceID, userID string) (*models.WorkspaceMember, error) {
	var (
		memberID    *string
		accessLevel *string
		joinedAt    *time.Time
	)

	const selectMembershipQuery = `
SELECT m.user_id,
       m.access_level,
       m.joined_at
FROM workspaces w
LEFT JOIN workspace_members m ON m.workspace_id = w.id AND m.user_id = $2
WHERE w.id = $1
`
	err := s.db.QueryRow(
		ctx,
		selectMembershipQuery,
		workspaceID,
		userID,
	).Scan(
		&memberID,
		&accessLevel,
		&joinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Str("workspace_id", workspaceID).
				Msg("workspace not found")
			return nil, ErrWorkspaceNotFound
		}

		s.logger.Error().
			Err(err).
			Str("workspace_id", workspaceID).
			Msg("failed to select membership")
		return nil, err
	}

	if memberID == nil {
		s.logger.Warn().
			Str("workspace_id", workspaceID).
			Str("user_id", userID).
			Msg("user is not a workspace member")
		return nil, ErrNotWorkspaceMember
	}

	member := &models.WorkspaceMember{
		WorkspaceID: workspaceID,
		UserID:      *memberID,
	}
	if accessLevel != nil {
		member.AccessLevel = models.AccessLevel(*accessLevel)
	}
	if joinedAt != nil {
		member.JoinedAt = *joinedAt
	}
	return member, nil
}

func (s *workspaceServiceImpl) GetMembers(ctx context.Context, workspaceID string) ([]*models.WorkspaceMember, error) {
	const selectMembersQuery = `
SELECT u.id,
       u.email,
       u.name,
       m.access_level,
       m.joined_at
FROM workspace_members m
JOIN users u ON u.id = m.user_id
WHERE m.workspace_id = $1
ORDER BY m.joined_at
`
	rows, err := s.db.Query(
		ctx,
		selectMembersQuery,
		workspaceID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("workspace_id", workspaceID).
			Msg("failed to select members")
		return nil, err
	}
	defer rows.Close()

	members := make([]*models.WorkspaceMember, 0)
	for rows.Next() {
		var accessLevel string
		member := &models.WorkspaceMember{WorkspaceID: workspaceID}
		err = rows.Scan(
			&member.UserID,
			&member.Email,
			&member.Name,
			&accessLevel,
			&member.JoinedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan member")
			return nil, err
		}
		member.AccessLevel = models.AccessLevel(accessLevel)
		members = append(members, member)
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
		Int("count", len(members)).
		Msg("selected members")
	return members, nil
}

// newWorkspace fills in the identity of a workspace that is about to be
// inserted: a UUIDv7 and a random invite code.
func newWorkspace(name, description string, now time.Time) (*models.Workspace, error) {
	workspaceUUID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate workspace uuid: %w", err)
	}

	inviteCode, err := generateInviteCode()
	if err != nil {
		return nil, err
	}

	return &models.Workspace{
		ID:          workspaceUUID.String(),
		Name:        name,
		Description: description,
		InviteCode:  inviteCode,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func insertWorkspace(ctx context.Context, tx pgx.Tx, logger zerolog.Logger, workspace *models.Workspace) error {
	const insertWorkspaceQuery = `
INSERT INTO workspaces (id,
                        name,
                        description,
                        invite_code,
                        created_at,
                        updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
`
	_, err := tx.Exec(
		ctx,
		insertWorkspaceQuery,
		workspace.ID,
		workspace.Name,
		workspace.Description,
		workspace.InviteCode,
		workspace.CreatedAt,
		workspace.UpdatedAt,
	)
	if err != nil {
		if isPgError(err, pgerrcode.UniqueViolation) {
			logger.Error().
				Str("invite_code", workspace.InviteCode).
				Msg("invite code collision")
			return ErrInviteCodeAlreadyExists
		}

		logger.Error().
			Err(err).
			Msg("failed to insert workspace")
		return err
	}
	logger.Debug().
		Str("workspace_id", workspace.ID).
		Msg("inserted workspace")
	return nil
}

// selectWorkspaceByInviteCode runs on either the pool or an open transaction.
func selectWorkspaceByInviteCode(ctx context.Context, db DB, logger zerolog.Logger, inviteCode string) (*models.Workspace, error) {
	workspace := &models.Workspace{
		InviteCode: inviteCode,
	}

	const selectWorkspaceByInviteCodeQuery = `
SELECT id,
       name,
       description,
       created_at,
       updated_at
FROM workspaces
WHERE invite_code = $1
`
	err := db.QueryRow(
		ctx,
		selectWorkspaceByInviteCodeQuery,
		workspace.InviteCode,
	).Scan(
		&workspace.ID,
		&workspace.Name,
		&workspace.Description,
		&workspace.CreatedAt,
		&workspace.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Warn().
				Str("invite_code", inviteCode).
				Msg("invite code not found")
			return nil, ErrInvalidInviteCode
		}

		logger.Error().
			Err(err).
			Msg("failed to select workspace by invite code")
		return nil, err
	}
	return workspace, nil
}

func insertMember(
	ctx context.Context,
	tx pgx.Tx,
	logger zerolog.Logger,
	workspaceID, userID string,
	accessLevel models.AccessLevel,
	joinedAt time.Time,
) error {
	const insertMemberQuery = `
INSERT INTO workspace_members (workspace_id,
                               user_id,
                               access_level,
                               joined_at)
VALUES ($1, $2, $3, $4)
`
	_, err := tx.Exec(
		ctx,
		insertMemberQuery,
		workspaceID,
		userID,
		string(accessLevel),
		joinedAt,
	)
	if err != nil {
		switch {
		case isPgError(err, pgerrcode.UniqueViolation):
			logger.Warn().
				Str("workspace_id", workspaceID).
				Str("user_id", userID).
				Msg("user is already a member")
			return ErrAlreadyWorkspaceMember
		case isPgError(err, pgerrcode.ForeignKeyViolation):
			logger.Error().
				Str("user_id", userID).
				Msg("member user not found")
			return ErrUserNotFound
		}

		logger.Error().
			Err(err).
			Str("workspace_id", workspaceID).
			Msg("failed to insert member")
		return err
	}
	logger.Debug().
		Str("workspace_id", workspaceID).
		Str("user_id", userID).
		Str("access_level", string(accessLevel)).
		Msg("inserted member")
	return nil
}

func generateInviteCode() (string, error) {
	b := make([]byte, inviteCodeLength)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	for i := range b {
		b[i] = inviteCodeAlphabet[int(b[i])%len(inviteCodeAlphabet)]
	}
	return string(b), nil
}
