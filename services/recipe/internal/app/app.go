package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-blog/pkg/cache"
	"recipe-blog/pkg/config"
	"recipe-blog/pkg/database"
	"recipe-blog/pkg/jwt"
	"recipe-blog/pkg/logger"
	"recipe-blog/pkg/middleware"
	"recipe-blog/pkg/queue"
	"recipe-blog/pkg/s3"
	recipeHTTP "recipe-blog/services/recipe/internal/controller/http"
	"recipe-blog/services/recipe/internal/repo/persistent"
	"recipe-blog/services/recipe/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "recipe-blog/services/recipe/docs" // Swagger docs
)

const serviceName = "recipe"

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	redisClient *redis.Client
	s3Client    *s3.Client
	queueClient *queue.Client
	jwtService  *jwt.Service
	httpServer  *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.NewWithOptions(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}).With("service", serviceName)

	db, err := database.New(cfg, log)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Warn("Failed to connect to redis: %v (continuing without cache and rate limit)", err)
		redisClient = nil
	}

	s3Client, err := s3.NewClient(cfg)
	if err != nil {
		log.Warn("Failed to create S3 client: %v (image uploads disabled)", err)
		s3Client = nil
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Warn("Failed to connect to RabbitMQ: %v (continuing without moderation events)", err)
		queueClient = nil
	}

	return &App{
		cfg:         cfg,
		log:         log,
		db:          db,
		redisClient: redisClient,
		s3Client:    s3Client,
		queueClient: queueClient,
		jwtService:  jwt.NewService(cfg.JWTSecret),
	}, nil
}

// Router builds the HTTP routes over the app's stores.
func (a *App) Router() *gin.Engine {
	// Initialize repositories
	postRepo := persistent.NewPostRepository(a.db)
	ledgerRepo := persistent.NewLedgerRepository(a.db)
	commentRepo := persistent.NewCommentRepository(a.db)

	// keep the interfaces nil when the clients are missing
	var images usecase.ImageStore
	if a.s3Client != nil {
		images = a.s3Client
	}
	var events usecase.EventPublisher
	if a.queueClient != nil {
		events = a.queueClient
	}

	// Initialize use cases
	postUseCase := usecase.NewPostUseCase(postRepo, ledgerRepo, commentRepo, images, events, a.redisClient, a.cfg.TopIngredientsTTL, a.log)
	ledgerUseCase := usecase.NewLedgerUseCase(postRepo, ledgerRepo, a.log)
	commentUseCase := usecase.NewCommentUseCase(postRepo, commentRepo, events, a.log)

	// Initialize HTTP handlers
	postHandler := recipeHTTP.NewPostHandler(postUseCase, a.log)
	ledgerHandler := recipeHTTP.NewLedgerHandler(ledgerUseCase, a.log)
	commentHandler := recipeHTTP.NewCommentHandler(commentUseCase, a.log)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(a.log.GinMiddleware())
	r.Use(middleware.MetricsMiddleware(serviceName))

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
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

	api := r.Group("/api/v1")
	api.Use(middleware.OptionalAuthMiddleware(a.jwtService))
	api.Use(middleware.RateLimitMiddleware(a.redisClient, a.cfg.RateLimitPerMinute, time.Minute))
	{
		api.GET("/posts", postHandler.ListPosts)
		api.GET("/posts/search", postHandler.SearchPosts)
		api.GET("/posts/:id", postHandler.GetPost)
		api.GET("/posts/:id/comments", commentHandler.ListComments)
		api.GET("/ingredients/top", postHandler.TopIngredients)
		api.GET("/ingredients/:name/posts", postHandler.PostsByIngredient)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(a.jwtService))
		{
			protected.GET("/posts/drafts", postHandler.ListDrafts)
			protected.POST("/posts", postHandler.CreatePost)
			protected.PUT("/posts/:id", postHandler.UpdatePost)
			protected.DELETE("/posts/:id", postHandler.DeletePost)
			protected.POST("/posts/:id/publish", postHandler.PublishPost)
			protected.POST("/posts/:id/like", ledgerHandler.LikePost)
			protected.DELETE("/posts/:id/like", ledgerHandler.UnlikePost)
			protected.POST("/posts/:id/rate", ledgerHandler.RatePost)
			protected.POST("/posts/:id/comments", commentHandler.AddComment)
		}
	}

	return r
}

func (a *App) Run() error {
	gin.SetMode(gin.ReleaseMode)

	a.httpServer = &http.Server{
		Addr:              ":" + a.cfg.ServerPort,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		a.log.Info("Recipe service starting on port %s", a.cfg.ServerPort)
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
	a.log.Info("Shutting down recipe service...")
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

	if err := database.Close(a.db); err != nil {
		a.log.Error("Error closing database: %v", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	if a.queueClient != nil {
		if err := a.queueClient.Close(); err != nil {
			a.log.Error("Error closing RabbitMQ: %v", err)
		}
	}

	a.log.Info("Recipe service exited")
	return nil
}
