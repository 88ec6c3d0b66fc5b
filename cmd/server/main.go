package main

import (
	"context"
	"log"
	"net/http"

	"jobrelay/internal/api/handler"
	"jobrelay/internal/config"
	"jobrelay/internal/coordinator"
	"jobrelay/internal/core/postgres/repository"
	"jobrelay/internal/domain"
	infraredis "jobrelay/internal/infrastructure/redis"
	"jobrelay/internal/notifier"
	"jobrelay/internal/service"
	"jobrelay/internal/warehouse"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()

	// 1. Set up database connection
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := db.AutoMigrate(&domain.CorrelationRecord{}, &domain.StatementRecord{}); err != nil {
		log.Fatal("Failed to migrate schema:", err)
	}

	// 2. Initialize redis and the completion event bus
	redisClient := infraredis.NewRedisClient(cfg.RedisAddr)
	bus := infraredis.NewCompletionBus(redisClient)

	// 3. Initialize repositories
	tokenRepo := repository.NewTokenRepository(db)
	statementRepo := repository.NewStatementRepository(db)

	// 4. Initialize collaborators
	runner := warehouse.NewRunner(db, statementRepo, bus, cfg.RunTimeout)
	diagnostics := warehouse.NewDiagnostics(statementRepo)
	engine := notifier.NewClient(cfg.WorkflowEngineURL, cfg.CallTimeout)

	// 5. Initialize submitter and completion router
	submitSvc := service.NewSubmitService(tokenRepo, runner, cfg.CallTimeout)
	router := coordinator.NewCoordinator(tokenRepo, diagnostics, engine, bus, cfg.CallTimeout)

	go router.Start(context.Background())

	// 6. Set up routes
	jobHandler := handler.NewJobHandler(submitSvc)

	ginRouter := gin.Default()

	api := ginRouter.Group("/api/v1")
	{
		api.POST("/jobs", jobHandler.SubmitJob)
	}
	ginRouter.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	ginRouter.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7. Start server
	log.Println("Server starting on", cfg.ListenAddr)
	if err := ginRouter.Run(cfg.ListenAddr); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
