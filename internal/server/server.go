package server

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"

	"github.com/thereayou/watchparty/internal/config"
	"github.com/thereayou/watchparty/internal/database"
	"github.com/thereayou/watchparty/internal/events"
	"github.com/thereayou/watchparty/internal/handlers"
	"github.com/thereayou/watchparty/internal/membership"
	ws "github.com/thereayou/watchparty/internal/websocket"
)

type Server struct {
	Router *gin.Engine
	DB     *database.Database
	Redis  *redis.Client
	Hub    *ws.Hub

	cfg    *config.Config
	cancel context.CancelFunc
}

func NewServer() *Server {
	cfg := config.Load()

	db, err := database.Connect(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("mongo connect failed: %v", err)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("redis connect failed: %v", err)
	}

	bus := events.NewBus(rdb)
	gate := membership.NewGate(db)
	snapshotter := handlers.NewSnapshotter(db, db)

	ctx, cancel := context.WithCancel(context.Background())
	hub := ws.NewHub(snapshotter, bus.Subscribe(ctx))
	go hub.Run()

	roomH := handlers.NewRoomHandler(db, gate, bus, hub)
	commentH := handlers.NewCommentHandler(db, bus)
	wsH := handlers.NewWebSocketHandler(hub, gate, bus)

	router := gin.Default()
	APIEndpoints(router, rdb, cfg, roomH, commentH, wsH)

	return &Server{
		Router: router,
		DB:     db,
		Redis:  rdb,
		Hub:    hub,
		cfg:    cfg,
		cancel: cancel,
	}
}

func (s *Server) Run() {
	log.Infof("server starting on port %s", s.cfg.Port)
	if err := s.Router.Run(":" + s.cfg.Port); err != nil {
		log.Fatalf("server run error: %v", err)
	}
}

// Shutdown releases the hub, the event subscription and both store
// connections.
func (s *Server) Shutdown(ctx context.Context) {
	s.cancel()
	s.Hub.Stop()
	if err := s.Redis.Close(); err != nil {
		log.Warnf("redis close: %v", err)
	}
	if err := s.DB.Close(ctx); err != nil {
		log.Warnf("mongo close: %v", err)
	}
}
