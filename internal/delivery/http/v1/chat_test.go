package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/go-workspace/internal/models"
	"github.com/adanyl0v/go-workspace/internal/services"
)

type fakeChat struct {
	services.ChatService

	mu        sync.Mutex
	channels  map[string][]*models.ChatChannel
	messages  map[string][]*models.ChatMessage
	lastLimit int
}

func newFakeChat() *fakeChat {
	return &fakeChat{
		channels: make(map[string][]*models.ChatChannel),
		messages: make(map[string][]*models.ChatMessage),
	}
}

func (f *fakeChat) EnsureDefaultChannel(_ context.Context, workspaceID string) (*models.ChatChannel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, channel := range f.channels[workspaceID] {
		if channel.Name == models.DefaultChatChannel {
			return channel, nil
		}
	}
	channel := &models.ChatChannel{
		ID:          workspaceID + "-general",
		WorkspaceID: workspaceID,
		Name:        models.DefaultChatChannel,
		CreatedAt:   testNow,
	}
	f.channels[workspaceID] = append(f.channels[workspaceID], channel)
	return channel, nil
}

func (f *fakeChat) CreateChannel(_ context.Context, params services.CreateChannelParams) (*models.ChatChannel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, channel := range f.channels[params.WorkspaceID] {
		if channel.Name == params.Name {
			return nil, services.ErrChannelAlreadyExists
		}
	}
	channel := &models.ChatChannel{
		ID:          params.WorkspaceID + "-" + params.Name,
		WorkspaceID: params.WorkspaceID,
		Name:        params.Name,
		Description: params.Description,
		CreatedAt:   testNow,
	}
	f.channels[params.WorkspaceID] = append(f.channels[params.WorkspaceID], channel)
	return channel, nil
}

func (f *fakeChat) ListChannels(ctx context.Context, workspaceID string) ([]*models.ChatChannel, error) {
	_, _ = f.EnsureDefaultChannel(ctx, workspaceID)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.channels[workspaceID], nil
}

func (f *fakeChat) ListMessages(_ context.Context, params services.ListMessagesParams) ([]*models.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.ownsChannel(params.WorkspaceID, params.ChannelID) {
		return nil, services.ErrChannelNotFound
	}
	f.lastLimit = params.Limit
	return f.messages[params.ChannelID], nil
}

func (f *fakeChat) SendMessage(_ context.Context, params services.SendMessageParams) (*models.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if strings.TrimSpace(params.Content) == "" {
		return nil, services.ErrEmptyChatMessage
	}
	if !f.ownsChannel(params.WorkspaceID, params.ChannelID) {
		return nil, services.ErrChannelNotFound
	}
	message := &models.ChatMessage{
		ID:        "m1",
		ChannelID: params.ChannelID,
		UserID:    params.UserID,
		UserName:  "Alice",
		Content:   params.Content,
		CreatedAt: testNow,
	}
	f.messages[params.ChannelID] = append([]*models.ChatMessage{message}, f.messages[params.ChannelID]...)
	return message, nil
}

func (f *fakeChat) ownsChannel(workspaceID, channelID string) bool {
	for _, channel := range f.channels[workspaceID] {
		if channel.ID == channelID {
			return true
		}
	}
	return false
}

func TestGetChannelsCreatesDefault(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/v1/workspaces/ws-1/chat/channels", "")
	require.Equal(t, http.StatusOK, w.Code)

	var channels []getChannelResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &channels))
	require.Len(t, channels, 1)
	assert.Equal(t, "general", channels[0].Name)
	assert.Equal(t, "ws-1", channels[0].WorkspaceID)
}

func TestChatRequiresMembership(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/v1/workspaces/ws-2/chat/channels", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api/v1/workspaces/ws-2/chat/channels/general/messages", `{"content":"hi"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, s.chat.messages)
}

func TestCreateChannel(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/v1/workspaces/ws-1/chat/channels", `{"name":"design","description":"UI talk"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"design"`)

	w = s.do(http.MethodPost, "/api/v1/workspaces/ws-1/chat/channels", `{"name":"design"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/api/v1/workspaces/ws-1/chat/channels", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendAndListMessagesThroughDefaultChannel(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/v1/workspaces/ws-1/chat/channels/general/messages", `{"content":"hello team"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var sent getMessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sent))
	assert.Equal(t, "ws-1-general", sent.ChannelID)
	assert.Equal(t, "u1", sent.UserID)
	assert.Equal(t, "hello team", sent.Content)

	w = s.do(http.MethodGet, "/api/v1/workspaces/ws-1/chat/channels/general/messages?limit=20", "")
	require.Equal(t, http.StatusOK, w.Code)

	var listed getMessagesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Equal(t, "ws-1-general", listed.ChannelID)
	require.Len(t, listed.Messages, 1)
	assert.Equal(t, "hello team", listed.Messages[0].Content)
	assert.Equal(t, 20, s.chat.lastLimit)
}

func TestChatMessageErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{
			name:   "unknown channel",
			method: http.MethodGet,
			path:   "/api/v1/workspaces/ws-1/chat/channels/ws-2-general/messages",
			want:   http.StatusNotFound,
		},
		{
			name:   "invalid limit",
			method: http.MethodGet,
			path:   "/api/v1/workspaces/ws-1/chat/channels/general/messages?limit=zero",
			want:   http.StatusBadRequest,
		},
		{
			name:   "missing content",
			method: http.MethodPost,
			path:   "/api/v1/workspaces/ws-1/chat/channels/general/messages",
			body:   `{}`,
			want:   http.StatusBadRequest,
		},
		{
			name:   "blank content",
			method: http.MethodPost,
			path:   "/api/v1/workspaces/ws-1/chat/channels/general/messages",
			body:   `{"content":"   "}`,
			want:   http.StatusBadRequest,
		},
		{
			name:   "post to unknown channel",
			method: http.MethodPost,
			path:   "/api/v1/workspaces/ws-1/chat/channels/missing/messages",
			body:   `{"content":"hi"}`,
			want:   http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}
