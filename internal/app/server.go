package app

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/unimoghub/manuals/internal/api/handlers"
	appMiddleware "github.com/unimoghub/manuals/internal/api/middlewares"
	"github.com/unimoghub/manuals/internal/config"
	"github.com/unimoghub/manuals/internal/core"
	"github.com/unimoghub/manuals/internal/core/ingest"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, store core.Store, objects core.ObjectStore, ing ingest.Ingestor, emb core.EmbeddingProvider) *Server {
	manualHandler := handlers.NewManualHandler(store, objects, ing, cfg)
	searchHandler := handlers.NewSearchHandler(store, emb)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Minute))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8888"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(api chi.Router) {
		api.Group(func(protected chi.Router) {
			protected.Use(appMiddleware.JWT(cfg.JWTSecret))
			protected.Post("/manuals/upload", manualHandler.Upload)
			protected.Post("/manuals/process", manualHandler.Process)
			protected.Get("/manuals", manualHandler.List)
			protected.Delete("/manuals/{id}", manualHandler.Delete)
			protected.Post("/manuals/search", searchHandler.Search)
		})
	})

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	return &Server{httpServer: httpSrv}
}

// Start runs the HTTP server.
func (s *Server) Start() {
	log.Printf("HTTP server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down HTTP server...")
	return s.httpServer.Shutdown(ctx)
}
