// Package server exposes the assistant service over HTTP+JSON.
//
// Tenant/user scoping on conversation reads and mutations is optional
// caller-supplied narrowing, not authorization; enforcing mandatory tenant
// isolation is the integrating system's responsibility.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/agencykit/assistant/src/assistant"
)

// Options configure the HTTP server.
type Options struct {
	CORSOrigins []string
	ChatTimeout time.Duration
}

// Server is the HTTP API over the assistant service.
type Server struct {
	svc         *assistant.Service
	dispatcher  *assistant.Dispatcher
	engine      *gin.Engine
	logger      *slog.Logger
	chatTimeout time.Duration
}

// New builds the server and registers all routes.
func New(svc *assistant.Service, dispatcher *assistant.Dispatcher, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.ChatTimeout == 0 {
		opts.ChatTimeout = 60 * time.Second
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		svc:         svc,
		dispatcher:  dispatcher,
		engine:      engine,
		logger:      logger.With("component", "http"),
		chatTimeout: opts.ChatTimeout,
	}

	engine.Use(s.requestLogger())

	corsConfig := cors.DefaultConfig()
	if len(opts.CORSOrigins) > 0 {
		corsConfig.AllowOrigins = opts.CORSOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	engine.Use(cors.New(corsConfig))

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.handleHealth)

	api := s.engine.Group("/api")
	{
		api.POST("/conversations", s.handleCreateConversation)
		api.GET("/conversations", s.handleListConversations)
		api.GET("/conversations/:id", s.handleGetConversation)
		api.PATCH("/conversations/:id", s.handleUpdateConversation)
		api.POST("/conversations/:id/close", s.handleCloseConversation)
		api.POST("/conversations/:id/messages", s.handleAddMessage)
		api.GET("/conversations/:id/messages", s.handleListMessages)

		api.POST("/tasks", s.handleCreateTask)
		api.GET("/tasks", s.handleListTasks)
		api.GET("/tasks/:id", s.handleGetTask)
		api.PATCH("/tasks/:id", s.handleUpdateTask)

		api.POST("/projects", s.handleCreateProject)
		api.GET("/projects/:id", s.handleGetProject)

		api.GET("/agents", s.handleListAgents)

		api.POST("/chat", s.handleChat)
		api.POST("/execute", s.handleExecute)
	}
}

// Handler returns the underlying HTTP handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleListAgents(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"agents": s.svc.DescribeAgents()})
}
