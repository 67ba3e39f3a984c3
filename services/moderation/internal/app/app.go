package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-blog/pkg/config"
	"recipe-blog/pkg/database"
	"recipe-blog/pkg/jwt"
	"recipe-blog/pkg/logger"
	"recipe-blog/pkg/middleware"
	"recipe-blog/pkg/queue"
	moderationHTTP "recipe-blog/services/moderation/internal/controller/http"
	"recipe-blog/services/moderation/internal/repo/persistent"
	"recipe-blog/services/moderation/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "recipe-blog/services/moderation/docs" // Swagger docs
)

const serviceName = "moderation"

type App struct {
	cfg               *config.Config
	log               *logger.Logger
	db                *gorm.DB
	queueClient       *queue.Client
	jwtService        *jwt.Service
	moderationUseCase usecase.ModerationUseCase
	httpServer        *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.NewWithOptions(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}).With("service", serviceName)

	db, err := database.New(cfg, log)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Warn("Failed to connect to RabbitMQ: %v (continuing without queue)", err)
		queueClient = nil
	}

	return &App{
		cfg:         cfg,
		log:         log,
		db:          db,
		queueClient: queueClient,
		jwtService:  jwt.NewService(cfg.JWTSecret),
	}, nil
}

func (a *App) useCase() usecase.ModerationUseCase {
	if a.moderationUseCase == nil {
		var events usecase.EventQueue
		if a.queueClient != nil {
			events = a.queueClient
		}
		a.moderationUseCase = usecase.NewModerationUseCase(persistent.NewCommentRepository(a.db), events, a.log)
	}
	return a.moderationUseCase
}

// Router builds the moderator-only HTTP routes.
func (a *App) Router() *gin.Engine {
	moderationHandler := moderationHTTP.NewModerationHandler(a.useCase(), a.log)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(a.log.GinMiddleware())
	r.Use(middleware.MetricsMiddleware(serviceName))

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1/moderation")
	api.Use(middleware.AuthMiddleware(a.jwtService))
	api.Use(middleware.ModeratorMiddleware())
	{
		api.GET("/comments/pending", moderationHandler.GetPendingComments)
		api.POST("/comments/:id/approve", moderationHandler.ApproveComment)
		api.DELETE("/comments/:id", moderationHandler.RemoveComment)
		api.GET("/stats", moderationHandler.GetStats)
	}

	return r
}

func (a *App) Run() error {
	gin.SetMode(gin.ReleaseMode)

	if a.queueClient != nil {
		if err := a.queueClient.ConsumeModerationEvents(a.useCase().HandleEvent); err != nil {
			a.log.Error("Failed to consume moderation events: %v", err)
		}
	}

	a.httpServer = &http.Server{
		Addr:              ":" + a.cfg.ServerPort,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		a.log.Info("Moderation service starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

func (a *App) Wait() {
	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down moderation service...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			a.log.Error("Server forced to shutdown: %v", err)
			return err
		}
	}

	if a.queueClient != nil {
		if err := a.queueClient.Close(); err != nil {
			a.log.Error("Error closing RabbitMQ: %v", err)
		}
	}

	if err := database.Close(a.db); err != nil {
		a.log.Error("Error closing database: %v", err)
	}

	a.log.Info("Moderation service exited")
	return nil
}
