package v1

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-workspace/internal/models"
	"github.com/adanyl0v/go-workspace/internal/services"
)

var errInvalidMessageLimit = errors.New("invalid message limit")

type getChannelResponse struct {
	ID           string    `json:"id"`
	WorkspaceID  string    `json:"workspace_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
}

func newGetChannelResponse(channel *models.ChatChannel) getChannelResponse {
	return getChannelResponse{
		ID:           channel.ID,
		WorkspaceID:  channel.WorkspaceID,
		Name:         channel.Name,
		Description:  channel.Description,
		MessageCount: channel.MessageCount,
		CreatedAt:    channel.CreatedAt,
	}
}

type getMessageResponse struct {
	ID        string    `json:"id"`
	ChannelID string    `json:"channel_id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func newGetMessageResponse(message *models.ChatMessage) getMessageResponse {
	return getMessageResponse{
		ID:        message.ID,
		ChannelID: message.ChannelID,
		UserID:    message.UserID,
		UserName:  message.UserName,
		Content:   message.Content,
		CreatedAt: message.CreatedAt,
	}
}

type getMessagesResponse struct {
	ChannelID string               `json:"channel_id"`
	Messages  []getMessageResponse `json:"messages"`
}

func (h *handlerImpl) HandleGetChannels(c *gin.Context) {
	workspaceID, _ := getStringFromContext(c, workspaceIDCtxKey)

	channels, err := h.chat.ListChannels(c, workspaceID)
	if err != nil {
		h.abortChatError(c, err, "failed to get channels")
		return
	}

	response := make([]getChannelResponse, len(channels))
	for i, channel := range channels {
		response[i] = newGetChannelResponse(channel)
	}
	c.JSON(http.StatusOK, response)
}

type createChannelRequest struct {
	Name        string `json:"name" binding:"required,max=80"`
	Description string `json:"description" binding:"max=1024"`
}

func (h *handlerImpl) HandleCreateChannel(c *gin.Context) {
	workspaceID, _ := getStringFromContext(c, workspaceIDCtxKey)

	var req createChannelRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	channel, err := h.chat.CreateChannel(c, services.CreateChannelParams{
		WorkspaceID: workspaceID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.abortChatError(c, err, "failed to create channel")
		return
	}

	c.JSON(http.StatusCreated, newGetChannelResponse(channel))
}

// HandleGetMessages accepts "general" in place of a channel id and
// resolves it to the workspace's default channel.
func (h *handlerImpl) HandleGetMessages(c *gin.Context) {
	workspaceID, _ := getStringFromContext(c, workspaceIDCtxKey)

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		var err error
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			abort(c, newBadRequestError(errInvalidMessageLimit.Error()))
			return
		}
	}

	channelID, ok := h.resolveChannelID(c, workspaceID)
	if !ok {
		return
	}

	messages, err := h.chat.ListMessages(c, services.ListMessagesParams{
		WorkspaceID: workspaceID,
		ChannelID:   channelID,
		Limit:       limit,
	})
	if err != nil {
		h.abortChatError(c, err, "failed to get messages")
		return
	}

	response := getMessagesResponse{
		ChannelID: channelID,
		Messages:  make([]getMessageResponse, len(messages)),
	}
	for i, message := range messages {
		response.Messages[i] = newGetMessageResponse(message)
	}
	c.JSON(http.StatusOK, response)
}

type sendMessageRequest struct {
	Content string `json:"content" binding:"required,max=4000"`
}

func (h *handlerImpl) HandleSendMessage(c *gin.Context) {
	workspaceID, _ := getStringFromContext(c, workspaceIDCtxKey)
	userID, _ := getStringFromContext(c, userIDCtxKey)

	var req sendMessageRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	channelID, ok := h.resolveChannelID(c, workspaceID)
	if !ok {
		return
	}

	message, err := h.chat.SendMessage(c, services.SendMessageParams{
		WorkspaceID: workspaceID,
		ChannelID:   channelID,
		UserID:      userID,
		Content:     req.Content,
	})
	if err != nil {
		h.abortChatError(c, err, "failed to send message")
		return
	}

	c.JSON(http.StatusCreated, newGetMessageResponse(message))
}

func (h *handlerImpl) resolveChannelID(c *gin.Context, workspaceID string) (string, bool) {
	channelID := c.Param("channel_id")
	if channelID != models.DefaultChatChannel {
		return channelID, true
	}

	channel, err := h.chat.EnsureDefaultChannel(c, workspaceID)
	if err != nil {
		h.abortChatError(c, err, "failed to ensure default channel")
		return "", false
	}
	return channel.ID, true
}

func (h *handlerImpl) abortChatError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, services.ErrChannelNotFound):
		abort(c, newNotFoundError(services.ErrChannelNotFound.Error()))
	case errors.Is(err, services.ErrWorkspaceNotFound):
		abort(c, newNotFoundError(services.ErrWorkspaceNotFound.Error()))
	case errors.Is(err, services.ErrChannelAlreadyExists):
		abort(c, newConflictError(services.ErrChannelAlreadyExists.Error()))
	case errors.Is(err, services.ErrEmptyChatMessage):
		abort(c, newBadRequestError(services.ErrEmptyChatMessage.Error()))
	default:
		h.logger.Error().
			Err(err).
			Msg(msg)
		abort(c, newStatusTextError(http.StatusInternalServerError))
	}
}
