package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/taskmind/backend/api/handler"
)

type Handlers struct {
	Extract *apiHandler.ExtractHandler
	Task    *apiHandler.TaskHandler
	Backup  *apiHandler.BackupHandler
	History *apiHandler.HistoryHandler
	Health  *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Extraction
	r.POST("/api/v1/extract", authMiddleware(handlers.Extract.Extract))
	r.GET("/api/v1/providers", handlers.Extract.Providers)
	r.POST("/api/v1/providers/test", authMiddleware(handlers.Extract.TestProvider))
	r.PUT("/api/v1/credential", authMiddleware(handlers.Extract.SaveCredential))

	// Task views and CRUD. Static segments before the {id} catch-all.
	r.GET("/api/v1/tasks", authMiddleware(handlers.Task.GetTasks))
	r.GET("/api/v1/tasks/urgent", authMiddleware(handlers.Task.GetUrgent))
	r.GET("/api/v1/tasks/range", authMiddleware(handlers.Task.GetRange))
	r.GET("/api/v1/tasks/{id}", authMiddleware(handlers.Task.GetTask))
	r.POST("/api/v1/tasks", authMiddleware(handlers.Task.CreateTask))
	r.PUT("/api/v1/tasks/{id}", authMiddleware(handlers.Task.UpdateTask))
	r.DELETE("/api/v1/tasks/{id}", authMiddleware(handlers.Task.DeleteTask))

	// Backup reconciliation
	r.POST("/api/v1/backup/import", authMiddleware(handlers.Backup.Import))
	r.GET("/api/v1/backup/export", authMiddleware(handlers.Backup.Export))

	// Extraction audit log
	r.GET("/api/v1/history", authMiddleware(handlers.History.List))
	r.DELETE("/api/v1/history", authMiddleware(handlers.History.DeleteAll))
	r.DELETE("/api/v1/history/{id}", authMiddleware(handlers.History.Delete))

	return r
}
