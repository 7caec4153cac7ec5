package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleetwatch/backend/internal/config"
	"fleetwatch/backend/internal/handler"
	"fleetwatch/backend/internal/middleware"
	"fleetwatch/backend/internal/model"
	"fleetwatch/backend/internal/repository"
	"fleetwatch/backend/internal/service"
	"fleetwatch/backend/pkg/logger"
	"fleetwatch/backend/pkg/redis"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file (ignore error in production)
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log := logger.GetLogger()

	log.Info("Starting Fleetwatch backend...")
	log.Infof("Environment: %s", cfg.Server.Env)

	// Initialize Redis (backs the rate limiter)
	log.Info("Connecting to Redis...")
	redisClient, err := redis.New(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("Failed to connect to Redis", err)
	}
	defer redisClient.Close()
	redis.InitKeys(cfg.Redis.Prefix)
	log.Info("✓ Redis connected")

	// Set Gin mode
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Apply middleware
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	router.Use(middleware.RateLimit(redisClient, cfg.RateLimit.RequestsPerMinute))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "Redis connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"redis":  "connected",
		})
	})

	// Initialize the fleet core
	fleetRepo := repository.NewFleetRepository()
	evaluator := service.NewAlertEvaluator()
	clock := service.SystemClock()

	fleetService := service.NewFleetService(fleetRepo, evaluator, cfg.Alerts, cfg.Simulator.CapitalBase, clock)
	queryService := service.NewFleetQueryService(fleetRepo, evaluator, clock)
	marketService := service.NewMarketDataService("btcusdt", clock, nil)
	copilotService := service.NewCopilotService(cfg.Copilot, marketService)
	exportService := service.NewExportService(fleetService, marketService)

	// Seed the demo fleet before the simulator starts
	if cfg.Demo.SeedFleet {
		n := service.SeedDemoFleet(fleetService, cfg.Demo.FleetSize)
		log.Infof("✓ Seeded demo fleet with %d bots", n)
	}

	// WebSocket hub for live dashboard updates
	hub := service.NewWSHub()
	hubCtx, hubCancel := context.WithCancel(context.Background())
	defer hubCancel()
	go hub.Run(hubCtx)

	// Tick simulator
	simulator := service.NewSimulator(fleetRepo, cfg.Simulator, clock, nil)
	simulator.SetTradeHook(fleetService.RecordTradeCompleted)
	simulator.SetTickListener(func() {
		hub.Broadcast(model.WSMessage{
			Type:    model.MessageTypeFleetUpdate,
			Payload: queryService.FleetUpdatePayload(),
		})
	})

	simCtx, simCancel := context.WithCancel(context.Background())
	defer simCancel()
	simulator.Start(simCtx)

	// Initialize handlers
	fleetHandler := handler.NewFleetHandler(fleetService, queryService)
	marketHandler := handler.NewMarketHandler(marketService)
	copilotHandler := handler.NewCopilotHandler(copilotService)
	exportHandler := handler.NewExportHandler(exportService)

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"message": "pong",
				"time":    time.Now().Unix(),
			})
		})

		fleet := v1.Group("/fleet")
		{
			fleet.GET("", fleetHandler.List)
			fleet.GET("/summary", fleetHandler.Summary)
			fleet.POST("", fleetHandler.Deploy)
			fleet.GET("/:id", fleetHandler.Get)
			fleet.POST("/:id/toggle", fleetHandler.Toggle)
			fleet.DELETE("/:id", fleetHandler.Delete)
			fleet.PUT("/:id/name", fleetHandler.Rename)
			fleet.PUT("/:id/alerts", fleetHandler.UpdateAlertSettings)
			fleet.POST("/:id/failures", fleetHandler.RecordFailure)
			fleet.DELETE("/:id/failures", fleetHandler.AcknowledgeFailure)
			fleet.GET("/:id/history", fleetHandler.History)
			fleet.GET("/:id/export", exportHandler.ExportHistory)
		}

		market := v1.Group("/market")
		{
			market.GET("", marketHandler.Snapshot)
			market.GET("/export", exportHandler.ExportMarket)
		}

		v1.POST("/copilot/strategy", copilotHandler.GenerateStrategy)
		v1.GET("/ws", hub.ServeWS)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Infof("Server starting on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", err)
		}
	}()

	log.Info("✓ Server started successfully")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Stop the simulator first so no tick lands mid-shutdown
	simulator.Stop()
	simCancel()
	hubCancel()

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", err)
	}

	log.Info("Server exited")
}
