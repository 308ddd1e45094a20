// Command hamqrzdb ingests an FCC ULS amateur license dump and renders
// per-callsign hamdb JSON artifacts.
//
// Usage:
//
//	hamqrzdb -hd HD.dat -en EN.dat -am AM.dat -la LA.dat -out out
//
// Store backend, batch size, and the optional Kafka sink come from the
// environment; see internal/config.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/chriskacerguis/hamqrzdb/internal/adapter/kafka"
	"github.com/chriskacerguis/hamqrzdb/internal/artifact"
	"github.com/chriskacerguis/hamqrzdb/internal/config"
	"github.com/chriskacerguis/hamqrzdb/internal/correlator"
	"github.com/chriskacerguis/hamqrzdb/internal/domain"
	"github.com/chriskacerguis/hamqrzdb/internal/observability"
	"github.com/chriskacerguis/hamqrzdb/internal/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("ingest failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	hd := flag.String("hd", "HD.dat", "path to the license header (HD) file")
	en := flag.String("en", "EN.dat", "path to the entity (EN) file")
	am := flag.String("am", "AM.dat", "path to the amateur class (AM) file")
	la := flag.String("la", "LA.dat", "path to the location (LA) file, optional")
	callsign := flag.String("callsign", "", "ingest and render only this callsign")
	strategy := flag.String("strategy", "streaming", "correlation strategy: streaming or indexed")
	generate := flag.Bool("generate", true, "write JSON artifacts after ingest")
	out := flag.String("out", "", "artifact output directory (overrides OUTPUT_DIR)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *out != "" {
		cfg.OutputDir = *out
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(cfg.StoreBackend, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("store close error", "error", err)
		}
	}()

	c := correlator.New(st, logger, metrics, cfg.BatchSize)
	c.Filter = *callsign

	src := correlator.Sources{HD: *hd, EN: *en, AM: *am, LA: *la}
	logger.Info("ingest starting",
		"strategy", *strategy, "backend", cfg.StoreBackend, "batch_size", cfg.BatchSize)

	switch *strategy {
	case "streaming":
		err = c.Run(ctx, src)
	case "indexed":
		err = c.RunIndexed(ctx, src)
	default:
		return fmt.Errorf("unknown strategy %q", *strategy)
	}
	if err != nil {
		return fmt.Errorf("correlate sources: %w", err)
	}

	n, err := st.Count(ctx)
	if err != nil {
		return fmt.Errorf("count entities: %w", err)
	}
	logger.Info("ingest complete", "callsigns", n)

	if cfg.KafkaEnabled {
		if err := publishEntities(ctx, cfg, st, logger); err != nil {
			return fmt.Errorf("publish entities: %w", err)
		}
	}

	if *generate {
		w := artifact.NewWriter(st, cfg.OutputDir, logger, metrics)
		if *callsign != "" {
			return w.GenerateOne(ctx, *callsign)
		}
		return w.GenerateAll(ctx)
	}
	return nil
}

// publishEntities streams every reconciled entity to the Kafka sink topic in
// config-sized batches.
func publishEntities(ctx context.Context, cfg *config.Config, st store.Store, logger *slog.Logger) error {
	w := kafka.NewWriter(cfg, logger)
	defer func() {
		if err := w.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}()

	batch := make([]domain.Entity, 0, cfg.BatchSize)
	var published int

	err := st.ForEach(ctx, func(e domain.Entity) error {
		batch = append(batch, e)
		if len(batch) < cfg.BatchSize {
			return nil
		}
		if err := w.PublishBatch(ctx, batch); err != nil {
			return err
		}
		published += len(batch)
		batch = batch[:0]
		return nil
	})
	if err != nil {
		return err
	}
	if err := w.PublishBatch(ctx, batch); err != nil {
		return err
	}
	published += len(batch)

	logger.Info("entities published", "topic", cfg.KafkaSinkTopic, "count", published)
	return nil
}
