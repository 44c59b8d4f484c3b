// Command events tails the stored-entity subjects, logging every event and
// exposing per-subject counters. Out-of-process consumers (notifications,
// analytics) follow this shape.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"

	"github.com/TalentForge/talentforge-mvp/engine/ingest"
	"github.com/TalentForge/talentforge-mvp/pkg/metrics"
	"github.com/TalentForge/talentforge-mvp/pkg/natsutil"
)

func main() {
	var (
		natsURL     = flag.String("nats", nats.DefaultURL, "NATS server URL")
		metricsAddr = flag.String("metrics-addr", ":9092", "metrics listen address")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	nc, err := nats.Connect(*natsURL, nats.Name("talentforge-events"))
	if err != nil {
		logger.Error("nats connect failed", "url", *natsURL, "err", err)
		os.Exit(1)
	}
	defer nc.Close()

	reg := metrics.New()
	for _, subject := range []string{ingest.CandidateStoredSubject, ingest.JobStoredSubject} {
		received := reg.Counter(
			metrics.Labels("events_received_total", "subject", subject),
			"Stored events received.")
		sub, err := natsutil.Subscribe(nc, subject, func(ctx context.Context, e ingest.StoredEvent) {
			received.Inc()
			logger.InfoContext(ctx, "entity stored",
				"kind", e.Kind, "id", e.ID, "skills", len(e.Skills), "stored_at", e.StoredAt)
		})
		if err != nil {
			logger.Error("subscribe failed", "subject", subject, "err", err)
			os.Exit(1)
		}
		defer sub.Unsubscribe()
	}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", reg.Handler())
	go func() {
		if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
			logger.Error("metrics server failed", "err", err)
		}
	}()

	logger.Info("event tailer running", "nats", *natsURL, "metrics", *metricsAddr)
	<-ctx.Done()
	logger.Info("shutting down")
}
