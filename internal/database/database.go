package database

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	roomsCollection    = "rooms"
	commentsCollection = "comments"

	connectTimeout = 10 * time.Second
	pingTimeout    = 5 * time.Second
)

// Database wraps the Mongo handle. Rooms and comments are plain
// collections; all mutation goes through the methods in room.go and
// comment.go.
type Database struct {
	client   *mongo.Client
	rooms    *mongo.Collection
	comments *mongo.Collection
}

func Connect(uri, dbName string) (*Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), pingTimeout)
	defer pingCancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(dbName)
	d := &Database{
		client:   client,
		rooms:    db.Collection(roomsCollection),
		comments: db.Collection(commentsCollection),
	}

	if err := d.ensureIndexes(context.Background()); err != nil {
		return nil, err
	}

	log.Infof("connected to mongo: %s", dbName)
	return d, nil
}

func (d *Database) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

// ensureIndexes backs the comment subscription query: equality on roomId,
// ascending sort on timestamp.
func (d *Database) ensureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	_, err := d.comments.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "roomId", Value: 1}, {Key: "timestamp", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create comment indexes: %w", err)
	}
	return nil
}
