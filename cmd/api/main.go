// Package main implements the TalentForge API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/TalentForge/talentforge-mvp/engine/embed"
	"github.com/TalentForge/talentforge-mvp/engine/graph"
	"github.com/TalentForge/talentforge-mvp/engine/index"
	"github.com/TalentForge/talentforge-mvp/engine/ingest"
	"github.com/TalentForge/talentforge-mvp/engine/match"
	"github.com/TalentForge/talentforge-mvp/engine/scoring"
	"github.com/TalentForge/talentforge-mvp/pkg/geminiai"
	"github.com/TalentForge/talentforge-mvp/pkg/metrics"
	"github.com/TalentForge/talentforge-mvp/pkg/mid"
	"github.com/TalentForge/talentforge-mvp/pkg/ollama"
)

// Config holds all environment-based configuration.
type Config struct {
	Port                string
	QdrantURL           string
	CandidateCollection string
	JobCollection       string
	EmbedDims           int
	EmbedProvider       string // "ollama" or "gemini"
	OllamaURL           string
	OllamaModel         string
	GeminiAPIKey        string
	GeminiModel         string
	GeminiEmbedModel    string
	Neo4jURL            string
	Neo4jUser           string
	Neo4jPass           string
	NATSURL             string
	CORSOrigin          string
	MatchWorkers        int
	IngestEmbedRate     float64
	EmbedDegradedOK     bool
}

func loadConfig() Config {
	return Config{
		Port:                envOr("PORT", "8080"),
		QdrantURL:           envOr("QDRANT_URL", "localhost:6334"),
		CandidateCollection: envOr("CANDIDATE_COLLECTION", "candidates"),
		JobCollection:       envOr("JOB_COLLECTION", "jobs"),
		EmbedDims:           envOrInt("EMBED_DIMS", 768),
		EmbedProvider:       envOr("EMBED_PROVIDER", "ollama"),
		OllamaURL:           envOr("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:         envOr("OLLAMA_MODEL", "nomic-embed-text"),
		GeminiAPIKey:        envOr("GEMINI_API_KEY", ""),
		GeminiModel:         envOr("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiEmbedModel:    envOr("GEMINI_EMBED_MODEL", "text-embedding-004"),
		Neo4jURL:            envOr("NEO4J_URL", ""),
		Neo4jUser:           envOr("NEO4J_USER", "neo4j"),
		Neo4jPass:           envOr("NEO4J_PASS", "password"),
		NATSURL:             envOr("NATS_URL", ""),
		CORSOrigin:          envOr("CORS_ORIGIN", "*"),
		MatchWorkers:        envOrInt("MATCH_WORKERS", 5),
		IngestEmbedRate:     float64(envOrInt("INGEST_EMBED_RATE", 10)),
		EmbedDegradedOK:     envOr("EMBED_DEGRADED_OK", "") == "true",
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := loadConfig()

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := metrics.New()

	// --- Connect to Qdrant ---
	store, err := index.New(cfg.QdrantURL, cfg.CandidateCollection, cfg.JobCollection, cfg.EmbedDims)
	if err != nil {
		return fmt.Errorf("qdrant connect: %w", err)
	}
	defer store.Close()

	// --- Embedding provider ---
	var embedder embed.Provider
	var generator scoring.Generator

	var gemini *geminiai.Client
	if cfg.GeminiAPIKey != "" {
		gemini, err = geminiai.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiEmbedModel)
		if err != nil {
			return fmt.Errorf("gemini client: %w", err)
		}
		generator = gemini
	} else {
		logger.Warn("no gemini api key; assessments use the deterministic fallback")
	}

	switch cfg.EmbedProvider {
	case "gemini":
		if gemini == nil {
			return fmt.Errorf("EMBED_PROVIDER=gemini requires GEMINI_API_KEY")
		}
		embedder = gemini
	default:
		embedder = ollama.NewEmbedClient(cfg.OllamaURL, cfg.OllamaModel)
	}
	if cfg.EmbedDegradedOK {
		embedder = embed.WithDegradedFallback(embedder, cfg.EmbedDims, logger)
	}
	logger.Info("embedding provider selected", "provider", embedder.Name(), "dims", cfg.EmbedDims)

	// --- Skill graph (optional) ---
	var skillGraph *graph.Store
	if cfg.Neo4jURL != "" {
		driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURL, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPass, ""))
		if err != nil {
			return fmt.Errorf("neo4j driver: %w", err)
		}
		skillGraph = graph.New(driver)
		defer skillGraph.Close(ctx)
	}

	// --- Event bus (optional) ---
	var publisher ingest.Publisher
	if cfg.NATSURL != "" {
		nc, err := nats.Connect(cfg.NATSURL, nats.Name("talentforge-api"))
		if err != nil {
			return fmt.Errorf("nats connect: %w", err)
		}
		defer nc.Close()
		publisher = ingest.NewNATSPublisher(nc)
	}

	// --- Services ---
	scorer := scoring.NewEngine(generator, scoring.DefaultOptions(), logger, reg)

	var orchestratorGraph match.SkillGraph
	var pipelineGraph ingest.SkillGraph
	if skillGraph != nil {
		orchestratorGraph = skillGraph
		pipelineGraph = skillGraph
	}

	orchestrator := match.NewOrchestrator(store, embedder, scorer, orchestratorGraph,
		match.NewCache(match.DefaultCacheTTL), cfg.MatchWorkers, logger, reg)
	pipeline := ingest.NewPipeline(embedder, store, pipelineGraph, publisher, cfg.IngestEmbedRate, logger, reg)

	// --- Build HTTP server ---
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", handleHealth(store, skillGraph))
	mux.Handle("GET /metrics", reg.Handler())
	mux.HandleFunc("POST /api/candidates", handleStoreCandidate(pipeline, logger))
	mux.HandleFunc("POST /api/jobs", handleStoreJob(pipeline, logger))
	mux.HandleFunc("POST /api/search/candidates", handleSearchCandidates(orchestrator, logger))
	mux.HandleFunc("GET /api/matches/candidates/{jobID}", handleMatchCandidates(orchestrator, logger))
	mux.HandleFunc("GET /api/matches/jobs/{email}", handleMatchJobs(orchestrator, logger))

	handler := mid.Chain(mux,
		mid.Recover(logger),
		mid.Logger(logger),
		mid.CORS(cfg.CORSOrigin),
		mid.OTel("talentforge-api"),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// --- Graceful shutdown ---
	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "port", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}
