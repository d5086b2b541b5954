package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/thereayou/watchparty/internal/apperrors"
	"github.com/thereayou/watchparty/internal/models"
)

// AddComment writes an immutable comment with a server-assigned timestamp.
// Whitespace-only username or text is rejected before any write.
func (d *Database) AddComment(ctx context.Context, roomID, username, text string) (string, error) {
	username = strings.TrimSpace(username)
	text = strings.TrimSpace(text)

	if roomID == "" {
		return "", fmt.Errorf("%w: roomId is required", apperrors.ErrValidation)
	}
	if username == "" {
		return "", fmt.Errorf("%w: username is required", apperrors.ErrValidation)
	}
	if text == "" {
		return "", fmt.Errorf("%w: text is required", apperrors.ErrValidation)
	}

	comment := models.Comment{
		RoomID:    roomID,
		Username:  username,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}

	res, err := d.comments.InsertOne(ctx, comment)
	if err != nil {
		return "", fmt.Errorf("insert comment: %w", err)
	}

	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

// GetRoomComments returns the full comment list for one room, ascending by
// timestamp. This is the materialized view pushed to subscribers on every
// change.
func (d *Database) GetRoomComments(ctx context.Context, roomID string) ([]models.Comment, error) {
	cursor, err := d.comments.Find(ctx,
		bson.M{"roomId": roomID},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("find comments: %w", err)
	}

	comments := []models.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}
	return comments, nil
}
