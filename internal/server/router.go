package server

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/thereayou/watchparty/internal/config"
	"github.com/thereayou/watchparty/internal/handlers"
	"github.com/thereayou/watchparty/internal/middleware"
)

func APIEndpoints(r *gin.Engine, rdb *redis.Client, cfg *config.Config,
	roomH *handlers.RoomHandler, commentH *handlers.CommentHandler, wsH *handlers.WebSocketHandler) {

	session := middleware.Session(rdb, cfg.SessionTTL)

	api := r.Group("/api", session)
	{
		api.POST("/rooms", roomH.CreateRoom)
		api.GET("/rooms/:id", roomH.GetRoom)
		api.POST("/rooms/:id/join", roomH.JoinRoom)
		api.POST("/rooms/:id/comments", commentH.AddComment)
		api.GET("/rooms/:id/comments", commentH.ListComments)
	}

	r.GET("/ws", session, wsH.Subscribe)
}
