package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type StatusHandler struct {
	client *mongo.Client
	env    string
}

func NewStatusHandler(client *mongo.Client, env string) *StatusHandler {
	return &StatusHandler{client: client, env: env}
}

// GetStatusHandler reports liveness and store connectivity.
func (handler *StatusHandler) GetStatusHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	database := "connected"
	if handler.client == nil || handler.client.Ping(ctx, readpref.Primary()) != nil {
		database = "disconnected"
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Todo List API is running",
		"database": database,
		"env":      handler.env,
	})
}
