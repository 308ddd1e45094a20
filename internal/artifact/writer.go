// Package artifact renders reconciled entities into per-callsign hamdb JSON
// files, sharded into a three-level directory tree by the first three
// characters of the callsign.
package artifact

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/chriskacerguis/hamqrzdb/internal/domain"
	"github.com/chriskacerguis/hamqrzdb/internal/observability"
	"github.com/chriskacerguis/hamqrzdb/internal/store"
)

// Writer generates artifact files under a single output root.
type Writer struct {
	store   store.Store
	outDir  string
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewWriter creates a Writer rooted at outDir.
func NewWriter(st store.Store, outDir string, logger *slog.Logger, metrics *observability.Metrics) *Writer {
	return &Writer{
		store:   st,
		outDir:  outDir,
		logger:  logger,
		metrics: metrics,
	}
}

// GenerateAll writes one artifact per stored entity. Callsigns too short to
// shard are skipped with a warning, never an error.
func (w *Writer) GenerateAll(ctx context.Context) error {
	var written int
	err := w.store.ForEach(ctx, func(e domain.Entity) error {
		ok, err := w.write(e)
		if err != nil {
			return err
		}
		if ok {
			written++
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("generate artifacts: %w", err)
	}
	w.logger.Info("artifact generation complete", "written", written, "dir", w.outDir)
	return nil
}

// GenerateOne writes the artifact for a single callsign, matched
// case-insensitively. A callsign with no entity on file is reported as not
// found and produces no file.
func (w *Writer) GenerateOne(ctx context.Context, callsign string) error {
	call := strings.ToUpper(strings.TrimSpace(callsign))
	e, found, err := w.store.Get(ctx, call)
	if err != nil {
		return fmt.Errorf("look up %s: %w", call, err)
	}
	if !found {
		w.logger.Warn("callsign not found", "callsign", call)
		return nil
	}
	if _, err := w.write(e); err != nil {
		return err
	}
	return nil
}

// write renders and stores one entity's artifact, reporting whether a file
// was produced.
func (w *Writer) write(e domain.Entity) (bool, error) {
	if len(e.Callsign) < 3 {
		w.logger.Warn("callsign too short for artifact path, skipping", "callsign", e.Callsign)
		w.metrics.ArtifactsSkipped.Inc()
		return false, nil
	}

	path := ArtifactPath(w.outDir, e.Callsign)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create artifact directory for %s: %w", e.Callsign, err)
	}

	data, err := json.MarshalIndent(domain.BuildDocument(e), "", "  ")
	if err != nil {
		return false, fmt.Errorf("encode document for %s: %w", e.Callsign, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("write artifact for %s: %w", e.Callsign, err)
	}

	w.metrics.ArtifactsWritten.Inc()
	return true, nil
}

// ArtifactPath returns <outDir>/<C0>/<C1>/<C2>/<CALLSIGN>.json. The callsign
// must be at least three characters.
func ArtifactPath(outDir, callsign string) string {
	return filepath.Join(outDir,
		callsign[0:1], callsign[1:2], callsign[2:3], callsign+".json")
}
