package handlers

import (
	"context"
	"encoding/json"

	"github.com/thereayou/watchparty/internal/handlers/dto"
)

// Snapshotter materializes the wire view of a room for the hub's
// full-snapshot pushes, reusing the same response shapes as the HTTP
// surface so both paths stay identical for the client.
type Snapshotter struct {
	rooms    RoomStore
	comments CommentStore
}

func NewSnapshotter(rooms RoomStore, comments CommentStore) *Snapshotter {
	return &Snapshotter{rooms: rooms, comments: comments}
}

func (s *Snapshotter) RoomSnapshot(ctx context.Context, roomID string) (json.RawMessage, error) {
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return json.Marshal(dto.NewRoomResponse(room))
}

func (s *Snapshotter) CommentsSnapshot(ctx context.Context, roomID string) (json.RawMessage, error) {
	comments, err := s.comments.GetRoomComments(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return json.Marshal(dto.NewCommentList(comments))
}
