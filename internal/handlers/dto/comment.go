package dto

import (
	"time"

	"github.com/thereayou/watchparty/internal/models"
)

// CommentResponse keeps the full timestamp precision; rendering it as a
// localized hour:minute string is the client's business.
type CommentResponse struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"roomId"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

func NewCommentResponse(c models.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID.Hex(),
		RoomID:    c.RoomID,
		Username:  c.Username,
		Text:      c.Text,
		Timestamp: c.Timestamp,
	}
}

func NewCommentList(comments []models.Comment) []CommentResponse {
	out := make([]CommentResponse, len(comments))
	for i, c := range comments {
		out[i] = NewCommentResponse(c)
	}
	return out
}
