package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-workspace/internal/services"
)

type getProjectResponse struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type createProjectRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description" binding:"max=1024"`
}

func (h *handlerImpl) HandleCreateProject(c *gin.Context) {
	workspaceID, _ := getStringFromContext(c, workspaceIDCtxKey)

	var req createProjectRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	project, err := h.projects.CreateProject(c, services.CreateProjectParams{
		WorkspaceID: workspaceID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrWorkspaceNotFound):
			abort(c, newNotFoundError(services.ErrWorkspaceNotFound.Error()))
		default:
			h.logger.Error().
				Err(err).
				Msg("failed to create project")
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusCreated, getProjectResponse{
		ID:          project.ID,
		WorkspaceID: project.WorkspaceID,
		Name:        project.Name,
		Description: project.Description,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	})
}

func (h *handlerImpl) HandleGetProjects(c *gin.Context) {
	workspaceID, _ := getStringFromContext(c, workspaceIDCtxKey)

	projects, err := h.projects.GetProjectsByWorkspaceID(c, workspaceID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("workspace_id", workspaceID).
			Msg("failed to get projects")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := make([]getProjectResponse, len(projects))
	for i, project := range projects {
		response[i] = getProjectResponse{
			ID:          project.ID,
			WorkspaceID: project.WorkspaceID,
			Name:        project.Name,
			Description: project.Description,
			CreatedAt:   project.CreatedAt,
			UpdatedAt:   project.UpdatedAt,
		}
	}
	c.JSON(http.StatusOK, response)
}
