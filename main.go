package main

import (
	"context"
	"log"
	"time"

	"goattend/adapters/excel"
	"goattend/adapters/llm"
	"goattend/adapters/postgres"
	redisadapter "goattend/adapters/redis"
	"goattend/app"
	"goattend/domain/schema"
	"goattend/internal/config"
	"goattend/internal/usage"
	"goattend/ports"
	"goattend/ui"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Optional usage ledger
	var usageRepo ports.LLMUsageRepository
	if appConfig.Database.URL != "" {
		db, err := sqlx.Connect("postgres", appConfig.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect to usage database: %v", err)
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			cancel()
			log.Fatalf("Failed to prepare usage database: %v", err)
		}
		cancel()
		usageRepo = postgres.NewLLMUsageRepository(db)
		log.Println("AI usage ledger enabled")
	}
	usageService := usage.NewService(usageRepo)

	// Optional classifier cache
	var cache ports.ClassifierCache
	if appConfig.Redis.Addr != "" {
		ttl := time.Duration(appConfig.Redis.TTLMinutes) * time.Minute
		redisCache, err := redisadapter.NewClassifierCache(
			appConfig.Redis.Addr, appConfig.Redis.Password, appConfig.Redis.DB, ttl)
		if err != nil {
			log.Fatalf("Failed to initialize classifier cache: %v", err)
		}
		defer redisCache.Close()
		cache = redisCache
	}

	// AI oracle, when configured. Without a key the resolver's deterministic
	// fallback carries the whole load.
	var classifier ports.HeaderClassifier
	var summarizer ports.RosterSummarizer
	if appConfig.AI.Enabled() {
		classifier = llm.NewHeaderClassifier(&appConfig.AI, cache, usageService, appConfig.Data.SampleRows)
		summarizer = llm.NewRosterSummarizer(&appConfig.AI, usageService)
		log.Printf("Header classifier enabled (model=%s)", appConfig.AI.GeminiModel)
	} else {
		log.Println("GEMINI_API_KEY not set, running with the fallback header heuristic only")
	}

	resolver := &schema.Resolver{ScanRows: appConfig.Data.ScanRows}
	analysisService := app.NewAnalysisService(excel.NewLoader(), classifier, summarizer, resolver)

	// Operations sidecar
	if appConfig.Ops.Enabled {
		opsApp := ui.NewApp(usageRepo)
		go func() {
			if err := opsApp.Start(":" + appConfig.Ops.Port); err != nil {
				log.Printf("Operations API failed: %v", err)
			}
		}()
	}

	server := ui.NewServer(analysisService, appConfig.Data.MaxUploadMB, appConfig.Server.GinMode)
	log.Fatal(server.Start(":" + appConfig.Server.Port))
}
