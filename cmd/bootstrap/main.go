// Package main provisions the backing stores: Qdrant collections and Neo4j
// constraints. Run once per environment; every operation is idempotent.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/TalentForge/talentforge-mvp/engine/graph"
	"github.com/TalentForge/talentforge-mvp/engine/index"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if err := run(logger); err != nil {
		logger.Error("bootstrap failed", "err", err)
		os.Exit(1)
	}
	logger.Info("bootstrap complete")
}

func run(logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	dims := 768
	if v := os.Getenv("EMBED_DIMS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("EMBED_DIMS: %w", err)
		}
		dims = n
	}

	store, err := index.New(
		envOr("QDRANT_URL", "localhost:6334"),
		envOr("CANDIDATE_COLLECTION", "candidates"),
		envOr("JOB_COLLECTION", "jobs"),
		dims,
	)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.EnsureCollections(ctx); err != nil {
		return err
	}
	logger.Info("qdrant collections ready", "dims", dims)

	neo4jURL := os.Getenv("NEO4J_URL")
	if neo4jURL == "" {
		logger.Info("NEO4J_URL not set, skipping graph constraints")
		return nil
	}

	driver, err := neo4j.NewDriverWithContext(neo4jURL,
		neo4j.BasicAuth(envOr("NEO4J_USER", "neo4j"), envOr("NEO4J_PASS", "password"), ""))
	if err != nil {
		return fmt.Errorf("neo4j driver: %w", err)
	}
	skillGraph := graph.New(driver)
	defer skillGraph.Close(ctx)

	if err := skillGraph.EnsureConstraints(ctx); err != nil {
		return fmt.Errorf("graph constraints: %w", err)
	}
	logger.Info("graph constraints ready")
	return nil
}
