package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yurys/todo-list-backend/handlers"
)

func SetupRoutes(router *gin.Engine, statusHandler *handlers.StatusHandler, authHandler *handlers.AuthHandler, taskHandler *handlers.TasksHandler) {
	router.GET("/", statusHandler.GetStatusHandler)

	authRoutes := router.Group("/auth")
	{
		authRoutes.GET("/google/login", authHandler.LoginHandler)
		authRoutes.GET("/google/callback", authHandler.CallbackHandler)
		authRoutes.GET("/verify", authHandler.VerifyHandler)
	}

	tasks := router.Group("/tasks")
	tasks.Use(authHandler.AuthMiddleware())

	// authenticated api requests
	{
		tasks.GET("", taskHandler.GetAllTasksHandler)
		tasks.POST("", taskHandler.NewTaskHandler)
		tasks.PUT("/:taskId/toggle", taskHandler.ToggleTaskHandler)
		tasks.DELETE("/:taskId", taskHandler.DeleteTaskHandler)
		tasks.POST("/:taskId/subtasks", taskHandler.AddSubtaskHandler)
		tasks.PUT("/:taskId/subtasks/:subtaskId/toggle", taskHandler.ToggleSubtaskHandler)
	}
}
