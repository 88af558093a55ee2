package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/mkarov/intelconsole/internal/assistant"
	"github.com/mkarov/intelconsole/internal/auth"
	"github.com/mkarov/intelconsole/internal/config"
	"github.com/mkarov/intelconsole/internal/handler"
	"github.com/mkarov/intelconsole/internal/importer"
	"github.com/mkarov/intelconsole/internal/queue"
	"github.com/mkarov/intelconsole/internal/repository"
	"github.com/mkarov/intelconsole/internal/router"
	"github.com/mkarov/intelconsole/internal/store"
)

func main() {
	_ = godotenv.Load() // best effort; real deployments set the environment directly
	cfg := config.Load()

	ctx := context.Background()

	st := store.New(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if _, err := st.Connect(ctx); err != nil {
		log.Fatalf("store: connect failed: %v", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Printf("store: close failed: %v", err)
		}
	}()

	if err := st.EnsureSchema(ctx); err != nil {
		log.Fatalf("store: ensure schema failed: %v", err)
	}

	// One-shot merge of the legacy user list, when configured.
	if cfg.UserImportFile != "" {
		if _, err := importer.FromFile(ctx, st, cfg.UserImportFile); err != nil {
			log.Printf("importer: %v", err)
		}
	}

	directory := auth.NewDirectory(st, cfg.BcryptCost)
	incidents := repository.NewIncidentRepo(st)
	datasets := repository.NewDatasetRepo(st)
	tickets := repository.NewTicketRepo(st)

	aiClient := assistant.NewClient(assistant.Config{
		APIKey:  cfg.OpenAIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
	})

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, auth rate limiting disabled")
	}

	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit-consumer: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(directory), config.LoadRateLimitConfig(), rdb)
	router.RegisterRecords(e,
		handler.NewIncidentHandler(incidents),
		handler.NewDatasetHandler(datasets),
		handler.NewTicketHandler(tickets))
	router.RegisterAssistant(e, handler.NewAssistantHandler(aiClient, incidents, datasets, tickets))

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
