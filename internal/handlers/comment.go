package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/watchparty/internal/handlers/dto"
	"github.com/thereayou/watchparty/internal/models"
)

// CommentStore is the comment log slice the handlers need.
type CommentStore interface {
	AddComment(ctx context.Context, roomID, username, text string) (string, error)
	GetRoomComments(ctx context.Context, roomID string) ([]models.Comment, error)
}

type CommentHandler struct {
	store CommentStore
	bus   Publisher
}

func NewCommentHandler(store CommentStore, bus Publisher) *CommentHandler {
	return &CommentHandler{store: store, bus: bus}
}

// AddComment appends to the room's comment log and notifies subscribers.
func (h *CommentHandler) AddComment(c *gin.Context) {
	roomID := c.Param("id")

	var req struct {
		Username string `json:"username" binding:"required"`
		Text     string `json:"text" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	commentID, err := h.store.AddComment(c.Request.Context(), roomID, req.Username, req.Text)
	if err != nil {
		respondError(c, err, "failed to add comment")
		return
	}

	h.bus.PublishCommentsChanged(c.Request.Context(), roomID)

	c.JSON(http.StatusCreated, gin.H{"commentId": commentID})
}

// ListComments returns the full ordered comment list. Initial fetch for
// clients that are not on the websocket yet.
func (h *CommentHandler) ListComments(c *gin.Context) {
	roomID := c.Param("id")

	comments, err := h.store.GetRoomComments(c.Request.Context(), roomID)
	if err != nil {
		respondError(c, err, "failed to get comments")
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": dto.NewCommentList(comments)})
}
