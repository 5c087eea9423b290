package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	db "github.com/katatrina/postboard/internal/db/sqlc"
	"github.com/katatrina/postboard/internal/event"
	"github.com/katatrina/postboard/internal/lifecycle"
	"github.com/katatrina/postboard/internal/notification"
	"github.com/katatrina/postboard/internal/token"
	"github.com/katatrina/postboard/internal/util"
	"github.com/rs/zerolog/log"
)

type Server struct {
	router        *gin.Engine
	httpServer    *http.Server
	dbStore       db.Store
	lifecycle     *lifecycle.Service
	notifications notification.Store
	hub           *event.Hub
	tokenMaker    token.Maker
	config        *util.Config
	upgrader      websocket.Upgrader

	// Cancelled on shutdown so that long lived streams return.
	baseCtx    context.Context
	cancelBase context.CancelFunc
}

// NewServer creates a new HTTP server and set up routing.
func NewServer(
	store db.Store,
	lifecycleService *lifecycle.Service,
	notifications notification.Store,
	hub *event.Hub,
	config *util.Config,
) (*Server, error) {
	// Create a new JWT token maker
	tokenMaker, err := token.NewJWTMaker(config.TokenSecretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create token maker: %w", err)
	}
	log.Info().Msg("Token maker created successfully ✅")

	baseCtx, cancelBase := context.WithCancel(context.Background())

	server := &Server{
		dbStore:       store,
		lifecycle:     lifecycleService,
		notifications: notifications,
		hub:           hub,
		tokenMaker:    tokenMaker,
		config:        config,
		baseCtx:       baseCtx,
		cancelBase:    cancelBase,
	}
	server.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     server.checkOrigin,
	}

	server.setupRouter()
	return server, nil
}

// setupRouter configures the HTTP server routes.
func (server *Server) setupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     server.config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.GET("/healthz", server.healthCheck)

	v1 := router.Group("/v1")

	v1.POST("/tokens/verify", server.verifyAccessToken)

	authGroup := v1.Group("", authMiddleware(server.tokenMaker))
	{
		authGroup.GET("/whoami", server.whoami)

		authGroup.POST("/posts", server.createPost)
		authGroup.GET("/posts", server.listPosts)
		authGroup.GET("/posts/:postID", server.getPost)
		authGroup.POST("/posts/:postID/bids", server.placeBid)
		authGroup.GET("/posts/:postID/stream", server.streamPostEvents)

		authGroup.GET("/users/me/notifications", server.listUserNotifications)

		authGroup.GET("/ws", server.serveWebSocket)
	}

	server.router = router
	return router
}

// Start runs the HTTP server on a specific address. It returns nil after Shutdown.
func (server *Server) Start(address string) error {
	server.httpServer = &http.Server{
		Addr:              address,
		Handler:           server.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return server.baseCtx
		},
	}

	log.Info().Str("address", address).Msg("HTTP server started ✅")

	err := server.httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown ends open streams and WebSocket connections, then drains regular requests.
func (server *Server) Shutdown(ctx context.Context) error {
	server.cancelBase()

	if server.httpServer == nil {
		return nil
	}
	return server.httpServer.Shutdown(ctx)
}

func (server *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return slices.Contains(server.config.AllowedOrigins, origin)
}

type pinger interface {
	Ping(ctx context.Context) error
}

func (server *Server) healthCheck(c *gin.Context) {
	if p, ok := server.dbStore.(pinger); ok {
		if err := p.Ping(c); err != nil {
			c.JSON(http.StatusServiceUnavailable, errorResponse(err))
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
