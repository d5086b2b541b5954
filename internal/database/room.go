package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/thereayou/watchparty/internal/apperrors"
	"github.com/thereayou/watchparty/internal/models"
)

// CreateRoom validates input before touching the store, writes the room
// with an empty member list and returns the generated identifier.
func (d *Database) CreateRoom(ctx context.Context, groupName, videoURL string, maxUsers int) (string, error) {
	if strings.TrimSpace(groupName) == "" {
		return "", fmt.Errorf("%w: groupName is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(videoURL) == "" {
		return "", fmt.Errorf("%w: videoURL is required", apperrors.ErrValidation)
	}
	if maxUsers <= 0 {
		return "", fmt.Errorf("%w: maxUsers must be positive", apperrors.ErrValidation)
	}

	room := models.Room{
		GroupName: groupName,
		VideoURL:  videoURL,
		MaxUsers:  maxUsers,
		Users:     []string{},
		CreatedAt: time.Now().UTC(),
	}

	res, err := d.rooms.InsertOne(ctx, room)
	if err != nil {
		return "", fmt.Errorf("insert room: %w", err)
	}

	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (d *Database) GetRoom(ctx context.Context, roomID string) (*models.Room, error) {
	oid, err := primitive.ObjectIDFromHex(roomID)
	if err != nil {
		return nil, apperrors.ErrRoomNotFound
	}

	var room models.Room
	err = d.rooms.FindOne(ctx, bson.M{"_id": oid}).Decode(&room)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find room: %w", err)
	}
	return &room, nil
}

// AppendMember unions memberKey into users. Idempotent: re-adding an
// existing key changes nothing. No capacity enforcement at this layer.
func (d *Database) AppendMember(ctx context.Context, roomID, memberKey string) error {
	oid, err := primitive.ObjectIDFromHex(roomID)
	if err != nil {
		return apperrors.ErrRoomNotFound
	}

	res, err := d.rooms.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$addToSet": bson.M{"users": memberKey}},
	)
	if err != nil {
		return fmt.Errorf("append member: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrRoomNotFound
	}
	return nil
}

// AppendMemberGuarded performs the union only when memberKey is absent and
// the room still has capacity, all inside one update. The filter is the
// serialization point, so len(users) <= maxUsers holds after every
// successful join. Returns whether the document was modified.
func (d *Database) AppendMemberGuarded(ctx context.Context, roomID, memberKey string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(roomID)
	if err != nil {
		return false, apperrors.ErrRoomNotFound
	}

	filter := bson.M{
		"_id":   oid,
		"users": bson.M{"$ne": memberKey},
		"$expr": bson.M{"$lt": bson.A{bson.M{"$size": "$users"}, "$maxUsers"}},
	}

	res, err := d.rooms.UpdateOne(ctx, filter,
		bson.M{"$addToSet": bson.M{"users": memberKey}},
	)
	if err != nil {
		return false, fmt.Errorf("append member: %w", err)
	}
	return res.ModifiedCount > 0, nil
}
