package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/thereayou/watchparty/internal/apperrors"
	"github.com/thereayou/watchparty/internal/handlers/dto"
	"github.com/thereayou/watchparty/internal/membership"
	"github.com/thereayou/watchparty/internal/middleware"
	"github.com/thereayou/watchparty/internal/models"
	ws "github.com/thereayou/watchparty/internal/websocket"
)

// RoomStore is the room registry slice the handlers need.
type RoomStore interface {
	CreateRoom(ctx context.Context, groupName, videoURL string, maxUsers int) (string, error)
	GetRoom(ctx context.Context, roomID string) (*models.Room, error)
}

// Joiner evaluates room admission.
type Joiner interface {
	Join(ctx context.Context, roomID, memberKey string) (membership.Result, error)
}

// Publisher notifies snapshot subscribers about state changes.
type Publisher interface {
	PublishRoomChanged(ctx context.Context, roomID string)
	PublishCommentsChanged(ctx context.Context, roomID string)
}

type RoomHandler struct {
	store RoomStore
	gate  Joiner
	bus   Publisher
	hub   *ws.Hub
}

func NewRoomHandler(store RoomStore, gate Joiner, bus Publisher, hub *ws.Hub) *RoomHandler {
	return &RoomHandler{store: store, gate: gate, bus: bus, hub: hub}
}

// CreateRoom writes a new room bound to a video URL and a participant cap.
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req struct {
		GroupName string `json:"groupName" binding:"required"`
		VideoURL  string `json:"videoURL" binding:"required"`
		MaxUsers  int    `json:"maxUsers" binding:"required,gt=0"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	roomID, err := h.store.CreateRoom(c.Request.Context(), req.GroupName, req.VideoURL, req.MaxUsers)
	if err != nil {
		respondError(c, err, "failed to create room")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"roomId": roomID})
}

// GetRoom returns the current room state plus the live subscriber count.
func (h *RoomHandler) GetRoom(c *gin.Context) {
	roomID := c.Param("id")

	room, err := h.store.GetRoom(c.Request.Context(), roomID)
	if err != nil {
		respondError(c, err, "failed to get room")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"room":    dto.NewRoomResponse(room),
		"viewers": h.hub.RoomSubscribers(roomID),
	})
}

// JoinRoom admits the caller into the room. The membership key defaults to
// the session-derived one; an explicit key in the body wins.
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	roomID := c.Param("id")

	var req struct {
		MemberKey string `json:"memberKey"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	memberKey := req.MemberKey
	if memberKey == "" {
		memberKey = middleware.MemberKey(c)
	}

	result, err := h.gate.Join(c.Request.Context(), roomID, memberKey)
	if err != nil {
		respondError(c, err, "failed to join room")
		return
	}

	if result == membership.Joined {
		h.bus.PublishRoomChanged(c.Request.Context(), roomID)
	}

	c.JSON(http.StatusOK, gin.H{"alreadyJoined": result == membership.AlreadyMember})
}

// respondError maps the error taxonomy onto HTTP at the request boundary.
// Store failures stay generic; the detail goes to the log only.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
	case errors.Is(err, apperrors.ErrRoomFull):
		c.JSON(http.StatusForbidden, gin.H{"error": "room is full"})
	default:
		log.Errorf("%s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
