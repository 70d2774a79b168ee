package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/datdenkikniet/Peroxidecast/internal/api/middleware"
	"github.com/datdenkikniet/Peroxidecast/internal/config"
	"github.com/datdenkikniet/Peroxidecast/internal/watch"
)

// Server is the watcher's read-only web face: a server-rendered dashboard
// plus a small JSON API over the panel and the history tables.
type Server struct {
	cfg      *config.Config
	panel    *watch.Panel
	recorder *watch.Recorder
	router   *gin.Engine
}

func New(cfg *config.Config, panel *watch.Panel, recorder *watch.Recorder) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		cfg:      cfg,
		panel:    panel,
		recorder: recorder,
		router:   gin.New(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.SilentLogger())
	s.router.Use(gin.Recovery())

	// CORS Configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}

	s.router.Use(cors.New(corsConfig))
}

func (s *Server) setupRoutes() {
	// Health Check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "peroxidecast-watcher"})
	})

	// Server-rendered status page
	s.router.GET("/", s.Dashboard)

	// API Group
	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/mounts", s.GetMounts)
		v1.GET("/mount", s.GetMount)
		v1.GET("/history/songs", s.GetSongHistory)
		v1.GET("/history/events", s.GetEventHistory)
	}
}

// Start runs the server on the configured address
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}

// Router exposes the gin engine for tests.
func (s *Server) Router() http.Handler {
	return s.router
}
