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

func TestEnsureDefaultChannel(t *testing.T) {
	createdAt := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	for _, inserted := range []int64{1, 0} {
		mock := newMockPool(t)
		s := NewChatService(testLogger(), mock)

		mock.ExpectExec("INSERT INTO chat_channels").
			WithArgs(pgxmock.AnyArg(), "ws-1", "general", pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", inserted))
		mock.ExpectQuery("FROM chat_channels").
			WithArgs("ws-1", "general").
			WillReturnRows(pgxmock.NewRows([]string{"id", "description", "created_at"}).
				AddRow("c-general", "", createdAt))

		channel, err := s.EnsureDefaultChannel(context.Background(), "ws-1")
		require.NoError(t, err)
		assert.Equal(t, "c-general", channel.ID)
		assert.Equal(t, models.DefaultChatChannel, channel.Name)
		assert.Equal(t, "ws-1", channel.WorkspaceID)
		assert.Equal(t, createdAt, channel.CreatedAt)
	}
}

func TestEnsureDefaultChannelUnknownWorkspace(t *testing.T) {
	mock := newMockPool(t)
	s := NewChatService(testLogger(), mock)

	mock.ExpectExec("INSERT INTO chat_channels").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation})

	_, err := s.EnsureDefaultChannel(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrWorkspaceNotFound)
}

func TestCreateChannel(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		mock := newMockPool(t)
		s := NewChatService(testLogger(), mock)

		mock.ExpectExec("INSERT INTO chat_channels").
			WithArgs(pgxmock.AnyArg(), "ws-1", "design", "UI talk", pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		channel, err := s.CreateChannel(context.Background(), CreateChannelParams{
			WorkspaceID: "ws-1",
			Name:        "  design ",
			Description: "UI talk",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, channel.ID)
		assert.Equal(t, "design", channel.Name)
	})

	t.Run("duplicate name", func(t *testing.T) {
		mock := newMockPool(t)
		s := NewChatService(testLogger(), mock)

		mock.ExpectExec("INSERT INTO chat_channels").
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

		_, err := s.CreateChannel(context.Background(), CreateChannelParams{WorkspaceID: "ws-1", Name: "general"})
		assert.ErrorIs(t, err, ErrChannelAlreadyExists)
	})
}

func TestListChannelsCreatesDefault(t *testing.T) {
	mock := newMockPool(t)
	s := NewChatService(testLogger(), mock)

	createdAt := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectExec("INSERT INTO chat_channels").
		WithArgs(pgxmock.AnyArg(), "ws-1", "general", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("FROM chat_channels").
		WithArgs("ws-1", "general").
		WillReturnRows(pgxmock.NewRows([]string{"id", "description", "created_at"}).
			AddRow("c-general", "", createdAt))
	mock.ExpectQuery("LEFT JOIN chat_messages").
		WithArgs("ws-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description", "created_at", "count"}).
			AddRow("c-general", "general", "", createdAt, 0).
			AddRow("c-design", "design", "UI talk", createdAt.Add(time.Hour), 4))

	channels, err := s.ListChannels(context.Background(), "ws-1")
	require.NoError(t, err)
	require.Len(t, channels, 2)
	assert.Equal(t, "general", channels[0].Name)
	assert.Equal(t, 4, channels[1].MessageCount)
}

func TestListMessages(t *testing.T) {
	sentAt := time.Date(2026, 10, 2, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{name: "default limit", limit: 0, wantLimit: DefaultMessageLimit},
		{name: "explicit limit", limit: 10, wantLimit: 10},
		{name: "capped limit", limit: 1000, wantLimit: MaxMessageLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockPool(t)
			s := NewChatService(testLogger(), mock)

			mock.ExpectQuery("FROM chat_channels").
				WithArgs("c1", "ws-1").
				WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("c1"))
			mock.ExpectQuery("FROM chat_messages m").
				WithArgs("c1", tt.wantLimit).
				WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "name", "content", "created_at"}).
					AddRow("m2", "u2", "Bob", "second", sentAt.Add(time.Minute)).
					AddRow("m1", "u1", "Alice", "first", sentAt))

			messages, err := s.ListMessages(context.Background(), ListMessagesParams{
				WorkspaceID: "ws-1",
				ChannelID:   "c1",
				Limit:       tt.limit,
			})
			require.NoError(t, err)
			require.Len(t, messages, 2)
			assert.Equal(t, "m2", messages[0].ID)
			assert.Equal(t, "Alice", messages[1].UserName)
			assert.Equal(t, "c1", messages[1].ChannelID)
		})
	}
}

func TestListMessagesForeignChannel(t *testing.T) {
	mock := newMockPool(t)
	s := NewChatService(testLogger(), mock)

	mock.ExpectQuery("FROM chat_channels").
		WithArgs("c-other", "ws-1").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.ListMessages(context.Background(), ListMessagesParams{WorkspaceID: "ws-1", ChannelID: "c-other"})
	assert.ErrorIs(t, err, ErrChannelNotFound)
}

func TestSendMessage(t *testing.T) {
	mock := newMockPool(t)
	s := NewChatService(testLogger(), mock)

	mock.ExpectQuery("INSERT INTO chat_messages").
		WithArgs(pgxmock.AnyArg(), "c1", "u1", "hello team", pgxmock.AnyArg(), "ws-1").
		WillReturnRows(pgxmock.NewRows([]string{"name"}).AddRow("Alice"))

	message, err := s.SendMessage(context.Background(), SendMessageParams{
		WorkspaceID: "ws-1",
		ChannelID:   "c1",
		UserID:      "u1",
		Content:     " hello team\n",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, message.ID)
	assert.Equal(t, "hello team", message.Content)
	assert.Equal(t, "Alice", message.UserName)
	assert.False(t, message.CreatedAt.IsZero())
}

func TestSendMessageErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		dbErr   error
		wantErr error
	}{
		{
			name:    "blank content",
			content: "   ",
			wantErr: ErrEmptyChatMessage,
		},
		{
			name:    "channel outside workspace",
			content: "hi",
			dbErr:   pgx.ErrNoRows,
			wantErr: ErrChannelNotFound,
		},
		{
			name:    "unknown author",
			content: "hi",
			dbErr:   &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation},
			wantErr: ErrUserNotFound,
		},
		{
			name:    "database failure",
			content: "hi",
			dbErr:   errors.New("connection reset"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockPool(t)
			s := NewChatService(testLogger(), mock)

			if tt.dbErr != nil {
				mock.ExpectQuery("INSERT INTO chat_messages").
					WillReturnError(tt.dbErr)
			}

			message, err := s.SendMessage(context.Background(), SendMessageParams{
				WorkspaceID: "ws-1",
				ChannelID:   "c1",
				UserID:      "u1",
				Content:     tt.content,
			})
			assert.Nil(t, message)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.ErrorIs(t, err, tt.dbErr)
			}
		})
	}
}
