package v1

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-workspace/internal/analytics"
	"github.com/adanyl0v/go-workspace/internal/services"
)

type Handler interface {
	HandleLogin(c *gin.Context)
	HandleRefresh(c *gin.Context)
	HandleRegister(c *gin.Context)
	HandleLogout(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)

	HandleCreateWorkspace(c *gin.Context)
	HandleGetWorkspaces(c *gin.Context)
	HandleJoinWorkspace(c *gin.Context)
	HandleGetMembers(c *gin.Context)
	HandleWorkspaceMiddleware(c *gin.Context)

	HandleCreateProject(c *gin.Context)
	HandleGetProjects(c *gin.Context)

	HandleCreateTask(c *gin.Context)
	HandleGetTasks(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleSetTaskStatus(c *gin.Context)
	HandleDeleteTask(c *gin.Context)

	HandleGetChannels(c *gin.Context)
	HandleCreateChannel(c *gin.Context)
	HandleGetMessages(c *gin.Context)
	HandleSendMessage(c *gin.Context)

	HandleGetProductivity(c *gin.Context)
	HandleGetTaskTrends(c *gin.Context)
	HandleGetStats(c *gin.Context)
	HandleGetTaskStats(c *gin.Context)
	HandleDashboardStream(c *gin.Context)
}

// Analytics is the read side of the workspace analytics.
// *analytics.Aggregator satisfies it.
type Analytics interface {
	Productivity(ctx context.Context, workspaceID string) (*analytics.Productivity, error)
	Trends(ctx context.Context, workspaceID string) ([]analytics.DailyBucket, error)
	Stats(ctx context.Context, workspaceID string) (*analytics.Stats, error)
	StatusBreakdown(ctx context.Context, workspaceID string) ([]analytics.StatusCount, error)
	Dashboard(ctx context.Context, workspaceID string) (*analytics.Dashboard, error)
}

type handlerImpl struct {
	logger         zerolog.Logger
	auth           services.AuthService
	sessions       services.SessionService
	workspaces     services.WorkspaceService
	projects       services.ProjectService
	tasks          services.TaskService
	chat           services.ChatService
	analytics      Analytics
	streamInterval time.Duration
}

func New(
	logger zerolog.Logger,
	authService services.AuthService,
	sessionService services.SessionService,
	workspaceService services.WorkspaceService,
	projectService services.ProjectService,
	taskService services.TaskService,
	chatService services.ChatService,
	analyticsService Analytics,
	streamInterval time.Duration,
) Handler {
	return &handlerImpl{
		logger:         logger,
		auth:           authService,
		sessions:       sessionService,
		workspaces:     workspaceService,
		projects:       projectService,
		tasks:          taskService,
		chat:           chatService,
		analytics:      analyticsService,
		streamInterval: streamInterval,
	}
}

// RegisterRoutes mounts every v1 endpoint under router.
func RegisterRoutes(router gin.IRouter, h Handler) {
	router = router.Group("/api/v1")

	authRouter := router.Group("/auth")
	authRouter.POST("/login", h.HandleLogin)
	authRouter.POST("/refresh", h.HandleRefresh)
	authRouter.POST("/register", h.HandleRegister)
	authRouter.POST("/logout", h.HandleAuthMiddleware, h.HandleLogout)

	workspacesRouter := router.Group("/workspaces", h.HandleAuthMiddleware)
	workspacesRouter.POST("", h.HandleCreateWorkspace)
	workspacesRouter.GET("", h.HandleGetWorkspaces)
	workspacesRouter.POST("/join", h.HandleJoinWorkspace)

	workspaceRouter := workspacesRouter.Group("/:workspace_id", h.HandleWorkspaceMiddleware)
	workspaceRouter.GET("/members", h.HandleGetMembers)
	workspaceRouter.POST("/projects", h.HandleCreateProject)
	workspaceRouter.GET("/projects", h.HandleGetProjects)

	workspaceRouter.POST("/tasks", h.HandleCreateTask)
	workspaceRouter.GET("/tasks", h.HandleGetTasks)
	workspaceRouter.PATCH("/tasks/:task_id", h.HandleUpdateTask)
	workspaceRouter.PATCH("/tasks/:task_id/status", h.HandleSetTaskStatus)
	workspaceRouter.DELETE("/tasks/:task_id", h.HandleDeleteTask)

	chatRouter := workspaceRouter.Group("/chat/channels")
	chatRouter.GET("", h.HandleGetChannels)
	chatRouter.POST("", h.HandleCreateChannel)
	chatRouter.GET("/:channel_id/messages", h.HandleGetMessages)
	chatRouter.POST("/:channel_id/messages", h.HandleSendMessage)

	workspaceRouter.GET("/productivity", h.HandleGetProductivity)
	workspaceRouter.GET("/stats", h.HandleGetStats)
	workspaceRouter.GET("/tasks/stats", h.HandleGetTaskStats)
	workspaceRouter.GET("/tasks/trends", h.HandleGetTaskTrends)
	workspaceRouter.GET("/dashboard/stream", h.HandleDashboardStream)
}
