// Package ui exposes the attendance engine over HTTP. The gin Server is the
// primary surface (upload + analyze); the chi App in app.go is a small
// operations sidecar. All rendering happens client-side: these handlers
// speak JSON, the engine performs no formatting of its own.
package ui

import (
	"log"

	"goattend/app"

	"github.com/gin-gonic/gin"
)

// Server represents the web server for the attendance analyzer
type Server struct {
	router         *gin.Engine
	analysis       *app.AnalysisService
	maxUploadBytes int64
}

// NewServer creates the gin server around the analysis service.
func NewServer(analysis *app.AnalysisService, maxUploadMB int, ginMode string) *Server {
	if ginMode != "" {
		gin.SetMode(ginMode)
	}

	s := &Server{
		router:         gin.Default(),
		analysis:       analysis,
		maxUploadBytes: int64(maxUploadMB) * 1024 * 1024,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api")
	{
		api.POST("/analyze", s.handleAnalyze)
	}
}

// Start runs the server on the given address, blocking.
func (s *Server) Start(addr string) error {
	log.Printf("[Server] Starting attendance analyzer on %s", addr)
	return s.router.Run(addr)
}

// Router exposes the underlying engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
