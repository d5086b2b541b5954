package database

import (
	"context"
	"errors"
	"testing"

	"github.com/thereayou/watchparty/internal/apperrors"
)

// Validation runs before any store access, so a zero-value Database is
// enough to prove no write can happen on bad input.

func TestCreateRoomValidation(t *testing.T) {
	d := &Database{}

	tests := []struct {
		name      string
		groupName string
		videoURL  string
		maxUsers  int
	}{
		{"empty group name", "", "https://example.com/v.mp4", 5},
		{"whitespace group name", "   ", "https://example.com/v.mp4", 5},
		{"empty video url", "movie night", "", 5},
		{"zero max users", "movie night", "https://example.com/v.mp4", 0},
		{"negative max users", "movie night", "https://example.com/v.mp4", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.CreateRoom(context.Background(), tt.groupName, tt.videoURL, tt.maxUsers)
			if !errors.Is(err, apperrors.ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestAddCommentValidation(t *testing.T) {
	d := &Database{}

	tests := []struct {
		name     string
		roomID   string
		username string
		text     string
	}{
		{"empty room id", "", "alice", "hi"},
		{"whitespace username", "r1", "  ", "hi"},
		{"empty username", "r1", "", "hi"},
		{"whitespace text", "r1", "alice", "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.AddComment(context.Background(), tt.roomID, tt.username, tt.text)
			if !errors.Is(err, apperrors.ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
		})
	}
}
