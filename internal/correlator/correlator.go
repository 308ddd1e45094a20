// Package correlator reads the four ULS record files and merges them into
// one entity per callsign in the store. Two strategies are provided: a
// streaming one that upserts every row it sees, and an indexed one that
// collects callsigns from the header file first and only picks matching rows
// out of the other files.
package correlator

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/chriskacerguis/hamqrzdb/internal/domain"
	"github.com/chriskacerguis/hamqrzdb/internal/observability"
	"github.com/chriskacerguis/hamqrzdb/internal/store"
)

// Sources names the four record files of one ULS dump. LA is optional; the
// other three are required.
type Sources struct {
	HD string
	EN string
	AM string
	LA string
}

// Correlator drives an ingest run against a single store.
type Correlator struct {
	store     store.Store
	logger    *slog.Logger
	metrics   *observability.Metrics
	batchSize int

	// Filter restricts the run to a single callsign, compared
	// case-insensitively. Empty means ingest everything.
	Filter string
}

// New creates a Correlator flushing the store every batchSize upserts.
func New(st store.Store, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Correlator {
	return &Correlator{
		store:     st,
		logger:    logger,
		metrics:   metrics,
		batchSize: batchSize,
	}
}

// pass describes one family file of a run.
type pass struct {
	family   domain.Family
	path     string
	required bool
}

func (c *Correlator) passes(src Sources) []pass {
	return []pass{
		{domain.FamilyHeader, src.HD, true},
		{domain.FamilyEntity, src.EN, true},
		{domain.FamilyClass, src.AM, true},
		{domain.FamilyLocation, src.LA, false},
	}
}

// Run executes the streaming strategy: one pass per family in HD, EN, AM, LA
// order, upserting every accepted row. Family order only matters for
// last_updated; the merge itself is order-independent.
func (c *Correlator) Run(ctx context.Context, src Sources) error {
	c.metrics.IngestRunning.Set(1)
	defer c.metrics.IngestRunning.Set(0)

	for _, p := range c.passes(src) {
		if err := c.runPass(ctx, p); err != nil {
			return err
		}
	}
	return c.flush(ctx)
}

// runPass streams one family file into the store.
func (c *Correlator) runPass(ctx context.Context, p pass) error {
	f, err := c.openSource(p)
	if err != nil || f == nil {
		return err
	}
	defer f.Close()

	start := time.Now()
	var read, upserted, pending int

	scanner := newLineScanner(f)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := latin1(scanner.Bytes())
		if strings.TrimSpace(line) == "" {
			continue
		}
		read++
		c.metrics.RecordsRead.WithLabelValues(string(p.family)).Inc()

		u, ok := c.extract(p.family, line)
		if !ok {
			continue
		}
		if c.Filter != "" && !strings.EqualFold(u.Callsign, c.Filter) {
			c.metrics.RecordsSkipped.WithLabelValues(string(p.family), "filtered").Inc()
			continue
		}

		if err := c.store.Upsert(ctx, u); err != nil {
			return fmt.Errorf("upsert %s record for %s: %w", p.family, u.Callsign, err)
		}
		c.metrics.RecordsUpserted.WithLabelValues(string(p.family)).Inc()
		upserted++
		pending++

		if pending >= c.batchSize {
			if err := c.flush(ctx); err != nil {
				return err
			}
			pending = 0
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s source: %w", p.family, err)
	}
	if err := c.flush(ctx); err != nil {
		return err
	}

	c.metrics.PassDuration.WithLabelValues(string(p.family)).Observe(time.Since(start).Seconds())
	c.logger.Info("pass complete",
		"family", p.family, "path", p.path, "read", read, "upserted", upserted)
	return nil
}

// extract parses one line and converts it into an update. Rejections are
// logged and counted but never abort the pass.
func (c *Correlator) extract(family domain.Family, line string) (domain.Update, bool) {
	rec, err := domain.ParseLine(line)
	if err != nil {
		c.skip(family, skipReason(err), err)
		return domain.Update{}, false
	}
	if rec.Family != family {
		c.skip(family, "wrong_family", fmt.Errorf("got %s record", rec.Family))
		return domain.Update{}, false
	}

	u, err := domain.UpdateFor(rec)
	if err != nil {
		c.skip(family, skipReason(err), err)
		return domain.Update{}, false
	}
	return u, true
}

// openSource opens a family file. A missing optional file returns (nil, nil)
// and the run continues without that family's data.
func (c *Correlator) openSource(p pass) (*os.File, error) {
	if p.path == "" {
		if p.required {
			return nil, fmt.Errorf("no %s source given", p.family)
		}
		c.logger.Info("no location source, entities will carry no coordinates")
		return nil, nil
	}
	f, err := os.Open(p.path)
	if err != nil {
		if !p.required && errors.Is(err, fs.ErrNotExist) {
			c.logger.Info("location source missing, entities will carry no coordinates", "path", p.path)
			return nil, nil
		}
		return nil, fmt.Errorf("open %s source: %w", p.family, err)
	}
	return f, nil
}

func (c *Correlator) skip(family domain.Family, reason string, err error) {
	c.metrics.RecordsSkipped.WithLabelValues(string(family), reason).Inc()
	c.logger.Debug("skipping row", "family", family, "reason", reason, "error", err)
}

func (c *Correlator) flush(ctx context.Context) error {
	if err := c.store.Flush(ctx); err != nil {
		return fmt.Errorf("flush store: %w", err)
	}
	c.metrics.FlushCount.Inc()
	return nil
}

// skipReason maps a row rejection to its metrics label.
func skipReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrShortRow):
		return "malformed"
	case errors.Is(err, domain.ErrUnknownFamily):
		return "wrong_family"
	case errors.Is(err, domain.ErrNoCallsign):
		return "no_callsign"
	case errors.Is(err, domain.ErrNoLocation):
		return "no_location"
	default:
		return "bad_coordinates"
	}
}

// newLineScanner sizes the scanner for dump files, whose comment fields can
// run well past bufio's default line limit.
func newLineScanner(f *os.File) *bufio.Scanner {
	s := bufio.NewScanner(f)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return s
}

// latin1 decodes one raw dump line. ULS files are Latin-1, where every byte
// above 0x7F maps one-to-one onto the code point of the same value; ASCII
// lines pass through without allocation.
func latin1(b []byte) string {
	for _, c := range b {
		if c >= utf8.RuneSelf {
			runes := make([]rune, len(b))
			for i, c := range b {
				runes[i] = rune(c)
			}
			return string(runes)
		}
	}
	return string(b)
}
