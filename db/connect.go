package db

import (
	"context"
	"time"

	"github.com/yurys/todo-list-backend/config"
	"github.com/yurys/todo-list-backend/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const (
	connectTimeout = 10 * time.Second
	reconnectDelay = 5 * time.Second
)

// Connect dials MongoDB and verifies the connection with a ping.
func Connect(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	log := logger.FromCtx(ctx)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, &connectionError{err}
	}

	log.Info("pinging mongo db")
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, &pingError{err}
	}

	log.Info("mongo db ping successful", zap.String("database", cfg.MongoDatabase))
	return client, nil
}

// ConnectWithRetry keeps dialing with a fixed delay until the store answers
// or ctx is cancelled. Used when ON_CONNECT_FAILURE=retry.
func ConnectWithRetry(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	log := logger.FromCtx(ctx)

	for {
		attemptCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		client, err := Connect(attemptCtx, cfg)
		cancel()
		if err == nil {
			return client, nil
		}

		log.Error("mongo connection failed, retrying",
			zap.Error(err),
			zap.Duration("delay", reconnectDelay),
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(reconnectDelay):
		}
	}
}

type connectionError struct {
	err error
}

func (e *connectionError) Error() string {
	return "failed to connect to MongoDB: " + e.err.Error()
}

func (e *connectionError) Unwrap() error { return e.err }

type pingError struct {
	err error
}

func (e *pingError) Error() string {
	return "failed to ping MongoDB: " + e.err.Error()
}

func (e *pingError) Unwrap() error { return e.err }
