package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/unimoghub/manuals/internal/config"
	"github.com/unimoghub/manuals/internal/core"
	db "github.com/unimoghub/manuals/internal/core/database"
	"github.com/unimoghub/manuals/internal/core/ingest"
	"github.com/unimoghub/manuals/internal/core/llm"
	objectclient "github.com/unimoghub/manuals/internal/core/object-client"
)

type App struct {
	Store    core.Store
	Objects  core.ObjectStore
	Ingestor *ingest.Worker
	Server   *Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	initCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	store, err := db.NewStoreClient(initCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Println("Database initialized and ready.")

	objects, err := objectclient.NewS3Client(initCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Println("Object store initialized and ready.")

	embedder, err := llm.NewEmbedder(initCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("couldn't initialize the embedder: %w", err)
	}

	ingestCfg := ingest.Config{
		TokenBudget:   cfg.TokenBudget,
		OverlapBudget: cfg.OverlapBudget,
		BatchSize:     cfg.BatchSize,
	}
	pipeline := ingest.NewPipeline(store, objects, embedder, ingest.NewPDFExtractor(ingestCfg), ingestCfg)
	worker := ingest.NewWorker(pipeline)
	worker.Start(ctx, cfg.IngestWorkers)

	server := NewServer(cfg, store, objects, worker, embedder)

	return &App{Store: store, Objects: objects, Ingestor: worker, Server: server}, nil
}

func (a *App) Close() {
	if a.Store != nil {
		_ = a.Store.Close()
	}
}
