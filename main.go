package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KmNeetuSingh/BlueSpace/internal/ai"
	"github.com/KmNeetuSingh/BlueSpace/internal/cache"
	"github.com/KmNeetuSingh/BlueSpace/internal/config"
	"github.com/KmNeetuSingh/BlueSpace/internal/database"
	"github.com/KmNeetuSingh/BlueSpace/internal/handlers"
	"github.com/KmNeetuSingh/BlueSpace/internal/middleware"
	"github.com/KmNeetuSingh/BlueSpace/internal/monitoring"
	"github.com/KmNeetuSingh/BlueSpace/internal/repositories"
	"github.com/KmNeetuSingh/BlueSpace/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Application holds all application dependencies and state
type Application struct {
	Config *config.Config
	DB     *database.DatabasePool
	Cache  cache.Cache
	Redis  *redis.Client
	Router *gin.Engine
	Server *http.Server

	// Services
	TaskService       services.TaskService
	AuthService       services.AuthService
	RegisterService   services.RegisterService
	SuggestionService services.SuggestionService
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize application: %v", err)
	}

	app.setupRoutes()
	app.startServer()
}

func initializeApplication(cfg *config.Config) (*Application, error) {
	app := &Application{Config: cfg}

	log.Println("🚀 Initializing BlueSpace backend...")
	log.Printf("📋 Environment: %s", cfg.Server.Environment)

	pool, err := database.NewDatabasePool(database.PoolConfigFromDatabase(cfg.Database, cfg.IsProduction()))
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	app.DB = pool
	log.Println("✅ Database connected")

	migrationConfig := &repositories.MigrationConfig{
		MigrationsPath: "file://migrations",
		DBName:         cfg.Database.Name,
		MaxRetries:     3,
		RetryDelay:     2 * time.Second,
	}
	if err := repositories.RunMigrations(pool.DB, migrationConfig); err != nil {
		return nil, fmt.Errorf("database migration failed: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️  Redis unavailable: %v (task list caching disabled)", err)
		_ = redisClient.Close()
		redisClient = nil
	} else {
		app.Redis = redisClient
		log.Println("✅ Redis connected")
	}

	if redisClient != nil {
		app.Cache = cache.NewMultiLevelCache(cache.NewRedisCacheWithClient(redisClient))
		log.Println("✅ Multi-level cache initialized (Memory L1 + Redis L2)")
	}

	app.AuthService = services.NewAuthService(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	app.RegisterService = services.NewRegisterService()
	app.SuggestionService = services.NewSuggestionService(ai.NewClient(cfg.AI))

	taskService := services.NewTaskService()
	if app.Cache != nil {
		app.TaskService = services.NewCachedTaskService(taskService, app.Cache)
		log.Println("✅ Cached task service initialized")
	} else {
		app.TaskService = taskService
		log.Println("✅ Task service initialized")
	}

	log.Println("✅ All services initialized")
	return app, nil
}

func (app *Application) setupRoutes() {
	r := gin.New()

	// Global middleware stack (order matters!)
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(monitoring.MetricsMiddleware())
	r.Use(middleware.RecoveryWithLog())
	r.Use(middleware.SecureHeader())
	r.Use(middleware.Language())

	rateLimit := rate.Limit(float64(app.Config.RateLimit.RequestsPerMin) / 60.0)
	r.Use(middleware.RateLimiter(rateLimit, app.Config.RateLimit.BurstSize))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     app.Config.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Lang"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "BlueSpace backend is running")
	})
	r.GET("/ready", app.readinessHandler())
	r.GET("/metrics", monitoring.MetricsHandler())

	authHandler := handlers.NewAuthHandler(app.DB.DB, app.AuthService, app.RegisterService)
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)
	}

	protected := r.Group("")
	protected.Use(middleware.AuthzMiddleware(middleware.AuthzConfig{
		DB:     app.DB.DB,
		Secret: app.Config.JWT.Secret,
	}))
	{
		taskHandler := handlers.NewTaskHandler(app.DB.DB, app.TaskService)
		tasks := protected.Group("/tasks")
		{
			tasks.GET("", taskHandler.GetTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTaskByID)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}

		aiHandler := handlers.NewAIHandler(app.DB.DB, app.SuggestionService, app.TaskService)
		aiRoutes := protected.Group("/ai")
		{
			aiRoutes.GET("", aiHandler.GetSuggestions)
			if app.Redis != nil {
				// Each generation costs an LLM call, so AI creation gets a
				// per-user sliding window on top of the global limiter.
				limiter := middleware.NewDistributedRateLimiter(app.Redis)
				aiRoutes.POST("", limiter.CreateMiddleware("ai_generate", &middleware.RateLimit{
					Rate:    10,
					Window:  time.Minute,
					KeyFunc: middleware.UserKeyFunc,
				}), aiHandler.CreateSuggestion)
			} else {
				aiRoutes.POST("", aiHandler.CreateSuggestion)
			}
			aiRoutes.DELETE("/:id", aiHandler.DeleteSuggestion)
			aiRoutes.POST("/:id/task", aiHandler.SuggestionToTask)
		}

		if app.Cache != nil {
			cacheHandler := handlers.NewCacheHandler(app.Cache)
			cacheRoutes := protected.Group("/cache")
			{
				cacheRoutes.GET("/stats", cacheHandler.GetCacheStats)
				cacheRoutes.GET("/health", cacheHandler.GetCacheHealth)
				cacheRoutes.DELETE("/clear", cacheHandler.ClearCache)
			}
		}
	}

	app.Router = r
}

func (app *Application) startServer() {
	addr := app.Config.GetServerAddr()

	app.Server = &http.Server{
		Addr:         addr,
		Handler:      app.Router,
		ReadTimeout:  app.Config.Server.ReadTimeout,
		WriteTimeout: app.Config.Server.WriteTimeout,
		IdleTimeout:  app.Config.Server.IdleTimeout,
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Println("🛑 Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := app.Server.Shutdown(ctx); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}

		app.cleanup()
		log.Println("✅ Server stopped gracefully")
	}()

	log.Printf("🚀 Server starting on %s", addr)
	log.Printf("📊 Metrics available at http://%s/metrics", addr)
	log.Printf("💚 Health check at http://%s/health", addr)

	if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("❌ Server failed to start: %v", err)
	}
}

func (app *Application) cleanup() {
	log.Println("🧹 Cleaning up resources...")

	// The cache wraps the Redis client, so closing it closes both.
	if app.Cache != nil {
		if err := app.Cache.Close(); err != nil {
			log.Printf("⚠️  Error closing cache: %v", err)
		}
	} else if app.Redis != nil {
		if err := app.Redis.Close(); err != nil {
			log.Printf("⚠️  Error closing Redis: %v", err)
		}
	}

	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			log.Printf("⚠️  Error closing database: %v", err)
		}
	}

	log.Println("✅ Cleanup complete")
}

func (app *Application) readinessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		status := gin.H{
			"ready":     true,
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   "bluespace-backend",
		}

		if err := app.DB.Health(); err != nil {
			status["ready"] = false
			status["database"] = "down"
			c.JSON(http.StatusServiceUnavailable, status)
			return
		}
		status["database"] = "up"

		if app.Redis != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := app.Redis.Ping(ctx).Err(); err != nil {
				status["redis"] = "down"
			} else {
				status["redis"] = "up"
			}
		}

		c.JSON(http.StatusOK, status)
	}
}
