// Package http exposes the operator control surface: a status endpoint and
// a small command endpoint that starts, stops, or resets the trader.
package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"obot/internal/logger"
)

// Controller is the trader surface the server drives. Status returns a
// JSON-serializable report; the command methods are idempotent.
type Controller interface {
	Status() any
	StartTrading()
	StopTrading()
	ResetSafety()
}

type Server struct {
	addr       string
	controller Controller
	router     *gin.Engine
	httpServer *http.Server
}

func NewServer(addr string, controller Controller) (*Server, error) {
	if controller == nil {
		return nil, errors.New("controller cannot be nil")
	}
	if addr == "" {
		addr = ":9985"
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		addr:       addr,
		controller: controller,
		router:     router,
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.router.GET("/status", s.handleStatus)
	s.router.POST("/command", s.handleCommand)
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.controller.Status())
}

type commandRequest struct {
	Command string `json:"command"`
}

func (s *Server) handleCommand(c *gin.Context) {
	var req commandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	cmd := strings.ToUpper(strings.TrimSpace(req.Command))
	switch cmd {
	case "START":
		s.controller.StartTrading()
	case "STOP":
		s.controller.StopTrading()
	case "RESET_SAFETY":
		s.controller.ResetSafety()
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown command: " + req.Command})
		return
	}
	logger.Infof("operator command accepted: %s", cmd)
	c.JSON(http.StatusOK, gin.H{"ok": true, "command": cmd})
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{Addr: s.addr, Handler: s.router}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("control server listening on %s", s.addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// Handler exposes the router for httptest.
func (s *Server) Handler() http.Handler { return s.router }
