package db

import (
	"context"
	"fmt"
	"time"

	"family-tree-go/internal/config"
	"family-tree-go/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// NewMongo opens the document-store backend. The client is constructed here
// and injected into repositories; nothing holds it as a process global.
func NewMongo(cfg config.MongoConfig, log logger.Logger) (*mongo.Database, error) {
	log.Info("db: connecting to mongo", "database", cfg.Database)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	log.Info("db: connected")
	return client.Database(cfg.Database), nil
}

func CloseMongo(db *mongo.Database) error {
	if db == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return db.Client().Disconnect(ctx)
}
