package dto

import (
	"time"

	"github.com/thereayou/watchparty/internal/models"
	"github.com/thereayou/watchparty/pkg/video"
)

// RoomResponse is the wire shape of a room, both for HTTP reads and for
// room_snapshot pushes. The embed field carries the resolved player
// reference so the presentation layer never re-parses the raw URL.
type RoomResponse struct {
	ID        string      `json:"id"`
	GroupName string      `json:"groupName"`
	VideoURL  string      `json:"videoURL"`
	Embed     video.Embed `json:"embed"`
	MaxUsers  int         `json:"maxUsers"`
	Users     []string    `json:"users"`
	CreatedAt time.Time   `json:"createdAt"`
}

func NewRoomResponse(room *models.Room) RoomResponse {
	users := room.Users
	if users == nil {
		users = []string{}
	}
	return RoomResponse{
		ID:        room.ID.Hex(),
		GroupName: room.GroupName,
		VideoURL:  room.VideoURL,
		Embed:     video.Resolve(room.VideoURL),
		MaxUsers:  room.MaxUsers,
		Users:     users,
		CreatedAt: room.CreatedAt,
	}
}
