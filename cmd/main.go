package main

import (
	"context"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"gitlab.com/codearena-2026.net/internal/adapter/compilerapi"
	"gitlab.com/codearena-2026.net/internal/adapter/execsvc"
	"gitlab.com/codearena-2026.net/internal/adapter/logging"
	"gitlab.com/codearena-2026.net/internal/adapter/luasandbox"
	"gitlab.com/codearena-2026.net/internal/adapter/postgres/submissionrepo"
	"gitlab.com/codearena-2026.net/internal/adapter/redis/resultcache"
	"gitlab.com/codearena-2026.net/internal/config"
	"gitlab.com/codearena-2026.net/internal/core/ports/primary"
	"gitlab.com/codearena-2026.net/internal/core/ports/secondary"
	"gitlab.com/codearena-2026.net/internal/core/services/execution"
	"gitlab.com/codearena-2026.net/internal/core/services/grading"
	"gitlab.com/codearena-2026.net/internal/core/services/submission"
	logger2 "gitlab.com/codearena-2026.net/internal/global/logger"
	"gitlab.com/codearena-2026.net/internal/gradeworker"
	http2 "gitlab.com/codearena-2026.net/internal/http"
)

func main() {
	InitReader()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	logger2.Info("Starting execution orchestrator service")

	sysCfg := config.NewSystemConfig()

	var logger primary.Logger = logger2.Logger
	if sysCfg.DebugMode {
		logger = logging.NewDevelopmentLogger()
	}

	db, err := setupDatabase(sysCfg.PostgresConfig)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     sysCfg.RedisConfig.Url,
		Password: sysCfg.RedisConfig.Password,
		DB:       sysCfg.RedisConfig.DB,
	})
	defer redisClient.Close()

	// SECONDARY PORTS
	submissionRepo := submissionrepo.NewSubmissionRepository(db, logger)
	cache := resultcache.NewResultCache(redisClient, sysCfg.RedisConfig.ResultTTL, logger)

	// Execution chain, cheapest backend first: in-process sandbox,
	// self-hosted execution service, third-party compiler API.
	chain := []secondary.Executor{
		luasandbox.NewSandbox(logger),
		execsvc.NewExecutor(sysCfg.ExecSvcConfig, logger),
		compilerapi.NewExecutor(sysCfg.CompilerConfig, logger),
	}
	simulator := execution.NewSimulator(rand.New(rand.NewSource(time.Now().UnixNano())), logger)
	executionSvc := execution.NewExecutionService(chain, simulator, logger)

	// SERVICES
	gradingSvc := grading.NewGradingService(executionSvc, sysCfg.GradingConfig, logger)
	submissionSvc := submission.NewSubmissionService(submissionRepo, cache, logger)
	serviceProvider := http2.NewServiceProvider(gradingSvc, submissionSvc)

	// SERVER
	httpServer := http2.NewServer(sysCfg.ServerConfig.Port, sysCfg.ServerConfig.ServiceName, *serviceProvider, logger)
	if err := httpServer.Init(); err != nil {
		panic(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	httpServer.Start(ctx)

	engine := gradeworker.NewEngine(sysCfg.WorkerConfig, submissionRepo, cache, gradingSvc, logger)
	engine.Start(ctx)

	<-quit
	logger.Info("Shutting down server...")

	cancel()
	httpServer.Stop()

	logger.Info("successfully shutdown server")
}

// setupDatabase sets up the PostgreSQL connection
func setupDatabase(cfg *config.PostgresConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.Url)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

func InitReader() {
	environment := ""
	if len(os.Args) < 2 {
		log.Fatalf("Env not supplied in argument")
	} else {
		environment = os.Args[1]
	}

	err := godotenv.Load(environment + ".env")
	if err != nil {
		log.Fatalf("Error loading %s.env file", environment)
	}
}
