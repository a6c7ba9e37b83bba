package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-workspace/internal/models"
	"github.com/adanyl0v/go-workspace/internal/services"
)

type getWorkspaceResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	InviteCode  string    `json:"invite_code"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newGetWorkspaceResponse(workspace *models.Workspace) getWorkspaceResponse {
	return getWorkspaceResponse{
		ID:          workspace.ID,
		Name:        workspace.Name,
		Description: workspace.Description,
		InviteCode:  workspace.InviteCode,
		CreatedAt:   workspace.CreatedAt,
		UpdatedAt:   workspace.UpdatedAt,
	}
}

type getMemberResponse struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	AccessLevel string    `json:"access_level"`
	JoinedAt    time.Time `json:"joined_at"`
}

type createWorkspaceRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description" binding:"max=1024"`
}

func (h *handlerImpl) HandleCreateWorkspace(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)

	var req createWorkspaceRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	workspace, err := h.workspaces.CreateWorkspace(c, services.CreateWorkspaceParams{
		OwnerID:     userID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create workspace")
		switch {
		case errors.Is(err, services.ErrInviteCodeAlreadyExists):
			abort(c, newConflictError(services.ErrInviteCodeAlreadyExists.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusCreated, newGetWorkspaceResponse(workspace))
}

func (h *handlerImpl) HandleGetWorkspaces(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)

	workspaces, err := h.workspaces.GetWorkspacesByUserID(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get workspaces")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := make([]getWorkspaceResponse, len(workspaces))
	for i, workspace := range workspaces {
		response[i] = newGetWorkspaceResponse(workspace)
	}
	c.JSON(http.StatusOK, response)
}

type joinWorkspaceRequest struct {
	InviteCode string `json:"invite_code" binding:"required,max=64"`
}

func (h *handlerImpl) HandleJoinWorkspace(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)

	var req joinWorkspaceRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	workspace, err := h.workspaces.JoinWorkspace(c, userID, req.InviteCode)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInviteCode):
			abort(c, newNotFoundError(services.ErrInvalidInviteCode.Error()))
		case errors.Is(err, services.ErrAlreadyWorkspaceMember):
			abort(c, newConflictError(services.ErrAlreadyWorkspaceMember.Error()))
		default:
			h.logger.Error().
				Err(err).
				Msg("failed to join workspace")
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusOK, newGetWorkspaceResponse(workspace))
}

func (h *handlerImpl) HandleGetMembers(c *gin.Context) {
	workspaceID, _ := getStringFromContext(c, workspaceIDCtxKey)

	members, err := h.workspaces.GetMembers(c, workspaceID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("workspace_id", workspaceID).
			Msg("failed to get members")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := make([]getMemberResponse, len(members))
	for i, member := range members {
		response[i] = getMemberResponse{
			UserID:      member.UserID,
			Email:       member.Email,
			Name:        member.Name,
			AccessLevel: string(member.AccessLevel),
			JoinedAt:    member.JoinedAt,
		}
	}
	c.JSON(http.StatusOK, response)
}
