package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"migrator/internal/api/handlers"
	"migrator/internal/api/middleware"
	"migrator/internal/config"
	"migrator/internal/database"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Server exposes the operational API of the pipeline: health and the import
// failure log.
type Server struct {
	config *config.Config
	log    *logrus.Logger
	db     *database.Database
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, log *logrus.Logger, db *database.Database) *Server {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(cors.Default())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	failureHandler := handlers.NewFailureHandler(db.DB, log)

	v1 := router.Group("/api/v1")
	{
		failures := v1.Group("/failures")
		{
			failures.GET("", failureHandler.List)
			failures.GET("/:id", failureHandler.Get)
			failures.POST("/:id/resolve", failureHandler.Resolve)
		}
	}

	return &Server{
		config: cfg,
		log:    log,
		db:     db,
		router: router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.log.WithField("addr", addr).Info("starting server")
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("shutting down server")
	return s.server.Shutdown(ctx)
}
