package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/existflow/ironfocus/internal/store"
)

// Config holds server options
type Config struct {
	// APIKeyHash is a bcrypt hash of the accepted API key. Empty disables auth.
	APIKeyHash string
}

// Server is the hosted task service
type Server struct {
	store  store.Store
	config Config
	echo   *echo.Echo
}

// New creates a server over st. The server does not own st.
func New(st store.Store, config Config) *Server {
	s := &Server{
		store:  st,
		config: config,
	}
	s.setupEcho()
	return s
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(requestLogger)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())

	// Health check
	e.GET("/health", s.handleHealth)

	// API v1
	api := e.Group("/api/v1")
	if s.config.APIKeyHash != "" {
		api.Use(s.authMiddleware)
	}
	api.GET("/tasks", s.handleListTasks)
	api.POST("/tasks", s.handleCreateTask)
	api.GET("/tasks/:id", s.handleGetTask)
	api.PATCH("/tasks/:id", s.handleUpdateTask)

	s.echo = e
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start starts the server
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
