package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-workspace/internal/models"
)

const (
	DefaultMessageLimit = 50
	MaxMessageLimit     = 200
)

type chatServiceImpl struct {
	logger zerolog.Logger
	db     DB
	now    func() time.Time
}

func NewChatService(
	logger zerolog.Logger,
	db DB,
) ChatService {
	return &chatServiceImpl{
		logger: logger,
		db:     db,
		now:    time.Now,
	}
}

func (s *chatServiceImpl) EnsureDefaultChannel(ctx context.Context, workspaceID string) (*models.ChatChannel, error) {
	channelUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate channel uuid")
		return nil, err
	}

	const insertDefaultChannelQuery = `
INSERT INTO chat_channels (id,
                           workspace_id,
                           name,
                           description,
                           created_at)
VALUES ($1, $2, $3, '', $4)
ON CONFLICT (workspace_id, name) DO NOTHING
`
	tag, err := s.db.Exec(
		ctx,
		insertDefaultChannelQuery,
		channelUUID.String(),
		workspaceID,
		models.DefaultChatChannel,
		s.now(),
	)
	if err != nil {
		if isPgError(err, pgerrcode.ForeignKeyViolation) {
			s.logger.Warn().
				Str("workspace_id", workspaceID).
				Msg("workspace not found")
			return nil, ErrWorkspaceNotFound
		}

		s.logger.Error().
			Err(err).
			Str("workspace_id", workspaceID).
			Msg("failed to insert default channel")
		return nil, err
	}
	if tag.RowsAffected() > 0 {
		s.logger.Info().
			Str("workspace_id", workspaceID).
			Msg("created default channel")
	}

	channel := &models.ChatChannel{
		WorkspaceID: workspaceID,
		Name:        models.DefaultChatChannel,
	}

	const selectChannelByNameQuery = `
SELECT id,
       description,
       created_at
FROM chat_channels
WHERE workspace_id = $1
  AND name = $2
`
	err = s.db.QueryRow(
		ctx,
		selectChannelByNameQuery,
		channel.WorkspaceID,
		channel.Name,
	).Scan(
		&channel.ID,
		&channel.Description,
		&channel.CreatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("workspace_id", workspaceID).
			Msg("failed to select default channel")
		return nil, err
	}
	return channel, nil
}

func (s *chatServiceImpl) CreateChannel(ctx context.Context, params CreateChannelParams) (*models.ChatChannel, error) {
	channel := &models.ChatChannel{
		WorkspaceID: params.WorkspaceID,
		Name:        strings.TrimSpace(params.Name),
		Description: params.Description,
		CreatedAt:   s.now(),
	}

	channelUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate channel uuid")
		return nil, err
	}
	channel.ID = channelUUID.String()

	const insertChannelQuery = `
INSERT INTO chat_channels (id,
                           workspace_id,
                           name,
                           description,
                           created_at)
VALUES ($1, $2, $3, $4, $5)
`
	_, err = s.db.Exec(
		ctx,
		insertChannelQuery,
		channel.ID,
		channel.WorkspaceID,
		channel.Name,
		channel.Description,
		channel.CreatedAt,
	)
	if err != nil {
		switch {
		case isPgError(err, pgerrcode.UniqueViolation):
			s.logger.Warn().
				Str("workspace_id", channel.WorkspaceID).
				Str("name", channel.Name).
				Msg("channel already exists")
			return nil, ErrChannelAlreadyExists
		case isPgError(err, pgerrcode.ForeignKeyViolation):
			s.logger.Warn().
				Str("workspace_id", channel.WorkspaceID).
				Msg("workspace not found")
			return nil, ErrWorkspaceNotFound
		}

		s.logger.Error().
			Err(err).
			Str("workspace_id", channel.WorkspaceID).
			Msg("failed to insert channel")
		return nil, err
	}

	s.logger.Info().
		Str("channel_id", channel.ID).
		Str("workspace_id", channel.WorkspaceID).
		Msg("created channel")
	return channel, nil
}

func (s *chatServiceImpl) ListChannels(ctx context.Context, workspaceID string) ([]*models.ChatChannel, error) {
	_, err := s.EnsureDefaultChannel(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	const selectChannelsQuery = `
SELECT c.id,
       c.name,
       c.description,
       c.created_at,
       COUNT(m.id)
FROM chat_channels c
LEFT JOIN chat_messages m ON m.channel_id = c.id
WHERE c.workspace_id = $1
GROUP BY c.id
ORDER BY c.created_at, c.name
`
	rows, err := s.db.Query(
		ctx,
		selectChannelsQuery,
		workspaceID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("workspace_id", workspaceID).
			Msg("failed to select channels")
		return nil, err
	}
	defer rows.Close()

	channels := make([]*models.ChatChannel, 0)
	for rows.Next() {
		channel := &models.ChatChannel{WorkspaceID: workspaceID}
		err = rows.Scan(
			&channel.ID,
			&channel.Name,
			&channel.Description,
			&channel.CreatedAt,
			&channel.MessageCount,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan channel")
			return nil, err
		}
		channels = append(channels, channel)
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
		Int("count", len(channels)).
		Msg("selected channels")
	return channels, nil
}

func (s *chatServiceImpl) ListMessages(ctx context.Context, params ListMessagesParams) ([]*models.ChatMessage, error) {
	limit := params.Limit
	switch {
	case limit <= 0:
		limit = DefaultMessageLimit
	case limit > MaxMessageLimit:
		limit = MaxMessageLimit
	}

	err := s.checkChannel(ctx, params.WorkspaceID, params.ChannelID)
	if err != nil {
		return nil, err
	}

	const selectMessagesQuery = `
SELECT m.id,
       m.user_id,
       u.name,
       m.content,
       m.created_at
FROM chat_messages m
JOIN users u ON u.id = m.user_id
WHERE m.channel_id = $1
ORDER BY m.created_at DESC, m.id DESC
LIMIT $2
`
	rows, err := s.db.Query(
		ctx,
		selectMessagesQuery,
		params.ChannelID,
		limit,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("channel_id", params.ChannelID).
			Msg("failed to select messages")
		return nil, err
	}
	defer rows.Close()

	messages := make([]*models.ChatMessage, 0, limit)
	for rows.Next() {
		message := &models.ChatMessage{ChannelID: params.ChannelID}
		err = rows.Scan(
			&message.ID,
			&message.UserID,
			&message.UserName,
			&message.Content,
			&message.CreatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan message")
			return nil, err
		}
		messages = append(messages, message)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	s.logger.Debug().
		Str("channel_id", params.ChannelID).
		Int("count", len(messages)).
		Msg("selected messages")
	return messages, nil
}

// SendMessage stores the message only if the channel belongs to the
// workspace; otherwise it returns ErrChannelNotFound.
func (s *chatServiceImpl) SendMessage(ctx context.Context, params SendMessageParams) (*models.ChatMessage, error) {
	content := strings.TrimSpace(params.Content)
	if content == "" {
		return nil, ErrEmptyChatMessage
	}

	message := &models.ChatMessage{
		ChannelID: params.ChannelID,
		UserID:    params.UserID,
		Content:   content,
		CreatedAt: s.now(),
	}

	messageUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate message uuid")
		return nil, err
	}
	message.ID = messageUUID.String()

	const insertMessageQuery = `
WITH inserted AS (
    INSERT INTO chat_messages (id,
                               channel_id,
                               user_id,
                               content,
                               created_at)
    SELECT $1::text,
           c.id,
           $3::text,
           $4::text,
           $5::timestamptz
    FROM chat_channels c
    WHERE c.id = $2
      AND c.workspace_id = $6
    RETURNING user_id
)
SELECT u.name
FROM inserted i
JOIN users u ON u.id = i.user_id
`
	err = s.db.QueryRow(
		ctx,
		insertMessageQuery,
		message.ID,
		message.ChannelID,
		message.UserID,
		message.Content,
		message.CreatedAt,
		params.WorkspaceID,
	).Scan(&message.UserName)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			s.logger.Warn().
				Str("workspace_id", params.WorkspaceID).
				Str("channel_id", params.ChannelID).
				Msg("channel not found")
			return nil, ErrChannelNotFound
		case isPgError(err, pgerrcode.ForeignKeyViolation):
			s.logger.Error().
				Str("user_id", params.UserID).
				Msg("message author not found")
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("channel_id", params.ChannelID).
			Msg("failed to insert message")
		return nil, err
	}

	s.logger.Debug().
		Str("message_id", message.ID).
		Str("channel_id", message.ChannelID).
		Str("user_id", message.UserID).
		Msg("sent message")
	return message, nil
}

func (s *chatServiceImpl) checkChannel(ctx context.Context, workspaceID, channelID string) error {
	const selectChannelQuery = `
SELECT id
FROM chat_channels
WHERE id = $1
  AND workspace_id = $2
`
	var id string
	err := s.db.QueryRow(
		ctx,
		selectChannelQuery,
		channelID,
		workspaceID,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Str("workspace_id", workspaceID).
				Str("channel_id", channelID).
				Msg("channel not found")
			return ErrChannelNotFound
		}

		s.logger.Error().
			Err(err).
			Str("channel_id", channelID).
			Msg("failed to select channel")
		return err
	}
	return nil
}
