package correlator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chriskacerguis/hamqrzdb/internal/domain"
)

// RunIndexed executes the indexed strategy: the header pass both upserts HD
// data and collects the callsign roster, then the other files are scanned
// per roster batch and only rows for known callsigns are merged, first
// occurrence per callsign winning. Memory stays proportional to one roster
// batch; the cost is rescanning EN/AM/LA once per batch.
func (c *Correlator) RunIndexed(ctx context.Context, src Sources) error {
	c.metrics.IngestRunning.Set(1)
	defer c.metrics.IngestRunning.Set(0)

	roster, err := c.indexHeaders(ctx, src)
	if err != nil {
		return err
	}
	c.logger.Info("header index built", "callsigns", len(roster))

	scans := []pass{
		{domain.FamilyEntity, src.EN, true},
		{domain.FamilyClass, src.AM, true},
		{domain.FamilyLocation, src.LA, false},
	}

	for start := 0; start < len(roster); start += c.batchSize {
		end := min(start+c.batchSize, len(roster))
		batch := roster[start:end]

		for _, p := range scans {
			if err := c.scanForBatch(ctx, p, batch); err != nil {
				return err
			}
		}
		if err := c.flush(ctx); err != nil {
			return err
		}
	}
	return nil
}

// indexHeaders runs the HD pass, returning every callsign it upserted in
// file order.
func (c *Correlator) indexHeaders(ctx context.Context, src Sources) ([]string, error) {
	p := pass{domain.FamilyHeader, src.HD, true}
	f, err := c.openSource(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	start := time.Now()
	var roster []string
	var pending int
	seen := make(map[string]struct{})

	scanner := newLineScanner(f)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := latin1(scanner.Bytes())
		if strings.TrimSpace(line) == "" {
			continue
		}
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
			return nil, fmt.Errorf("upsert %s record for %s: %w", p.family, u.Callsign, err)
		}
		c.metrics.RecordsUpserted.WithLabelValues(string(p.family)).Inc()
		if _, dup := seen[u.Callsign]; !dup {
			seen[u.Callsign] = struct{}{}
			roster = append(roster, u.Callsign)
		}

		pending++
		if pending >= c.batchSize {
			if err := c.flush(ctx); err != nil {
				return nil, err
			}
			pending = 0
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s source: %w", p.family, err)
	}
	if err := c.flush(ctx); err != nil {
		return nil, err
	}

	c.metrics.PassDuration.WithLabelValues(string(p.family)).Observe(time.Since(start).Seconds())
	return roster, nil
}

// scanForBatch reads one family file and upserts the first matching row for
// each callsign in the batch. The scan stops early once every callsign in
// the batch has been matched.
func (c *Correlator) scanForBatch(ctx context.Context, p pass, batch []string) error {
	f, err := c.openSource(p)
	if err != nil || f == nil {
		return err
	}
	defer f.Close()

	start := time.Now()
	wanted := make(map[string]struct{}, len(batch))
	for _, call := range batch {
		wanted[call] = struct{}{}
	}

	scanner := newLineScanner(f)
	for len(wanted) > 0 && scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := latin1(scanner.Bytes())
		if strings.TrimSpace(line) == "" {
			continue
		}
		c.metrics.RecordsRead.WithLabelValues(string(p.family)).Inc()

		u, ok := c.extract(p.family, line)
		if !ok {
			continue
		}
		if _, want := wanted[u.Callsign]; !want {
			continue
		}

		if err := c.store.Upsert(ctx, u); err != nil {
			return fmt.Errorf("upsert %s record for %s: %w", p.family, u.Callsign, err)
		}
		c.metrics.RecordsUpserted.WithLabelValues(string(p.family)).Inc()
		delete(wanted, u.Callsign)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s source: %w", p.family, err)
	}

	c.metrics.PassDuration.WithLabelValues(string(p.family)).Observe(time.Since(start).Seconds())
	return nil
}
