package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-workspace/internal/models"
)

type sessionServiceImpl struct {
	logger zerolog.Logger
	db     DB
	now    func() time.Time
}

func NewSessionService(
	logger zerolog.Logger,
	db DB,
) SessionService {
	return &sessionServiceImpl{
		logger: logger,
		db:     db,
		now:    time.Now,
	}
}

// GetSessionByID returns ErrSessionNotFound for an unknown session and
// ErrSessionExpired once its refresh window has passed.
func (s *sessionServiceImpl) GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error) {
	session := &models.Session{
		ID: sessionID,
	}

	const selectSessionByIDQuery = `
SELECT user_id,
       fingerprint,
       expires_at,
       created_at,
       updated_at
FROM sessions
WHERE id = $1
`
	err := s.db.QueryRow(
		ctx,
		selectSessionByIDQuery,
		session.ID,
	).Scan(
		&session.UserID,
		&session.Fingerprint,
		&session.ExpiresAt,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Str("session_id", session.ID).
				Msg("session not found")
			return nil, ErrSessionNotFound
		}

		s.logger.Error().
			Err(err).
			Str("session_id", session.ID).
			Msg("failed to select session by id")
		return nil, err
	}

	if session.Expired(s.now()) {
		s.logger.Warn().
			Str("session_id", session.ID).
			Time("expires_at", session.ExpiresAt).
			Msg("session expired")
		return nil, ErrSessionExpired
	}

	s.logger.Debug().
		Str("session_id", session.ID).
		Str("user_id", session.UserID).
		Msg("session found")
	return session, nil
}
