package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rivalradar/rivalradar/internal/application"
	appcomp "github.com/rivalradar/rivalradar/internal/application/competitors"
	appintel "github.com/rivalradar/rivalradar/internal/application/intel"
	appreports "github.com/rivalradar/rivalradar/internal/application/reports"
	"github.com/rivalradar/rivalradar/internal/config"
	domain "github.com/rivalradar/rivalradar/internal/domain/competitors"
	domreports "github.com/rivalradar/rivalradar/internal/domain/reports"
	openaiClient "github.com/rivalradar/rivalradar/internal/infra/ai/openai"
	mysqlp "github.com/rivalradar/rivalradar/internal/infra/db/mysql"
	postgresp "github.com/rivalradar/rivalradar/internal/infra/db/postgres"
	"github.com/rivalradar/rivalradar/internal/infra/httpserver"
	minioStore "github.com/rivalradar/rivalradar/internal/infra/storage"
	"github.com/rivalradar/rivalradar/internal/middleware"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	var (
		db           *sql.DB
		compRepo     domain.Repository
		analysisRepo domain.AnalysisRepository
		reportRepo   domreports.Repository
	)
	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		compRepo = postgresp.NewCompetitorRepository(db)
		analysisRepo = postgresp.NewAnalysisRepository(db)
		reportRepo = postgresp.NewReportRepository(db)
	case "mysql":
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		compRepo = mysqlp.NewCompetitorRepository(db)
		analysisRepo = mysqlp.NewAnalysisRepository(db)
		reportRepo = mysqlp.NewReportRepository(db)
	default:
		log.Fatalf("unknown database driver: %s", cfg.Database.Driver)
	}
	defer db.Close()

	healthCheckers := map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
	}

	var snapshots appcomp.SnapshotStore
	if cfg.Minio.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		snapshots = store
		healthCheckers["object_store"] = store
	}

	if cfg.OpenAI.APIKey == "" {
		log.Fatal("openai api key is required (openai.apiKey or OPENAI_API_KEY)")
	}
	aiClient := openaiClient.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)

	clock := application.SystemClock{}

	compSvc := &appcomp.Service{
		Repo:      compRepo,
		Analyses:  analysisRepo,
		AI:        aiClient,
		Snapshots: snapshots,
		Clock:     clock,
	}
	intelSvc := &appintel.Service{AI: aiClient}
	reportSvc := &appreports.Service{Repo: reportRepo, Clock: clock}

	handler := httpserver.NewRouter(compSvc, intelSvc, reportSvc, httpserver.Options{
		APIKeys:            cfg.Auth.APIKeys,
		RateLimitCapacity:  cfg.RateLimit.Capacity,
		RateLimitPerSecond: cfg.RateLimit.RefillRate,
		HealthCheckers:     healthCheckers,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
