package store

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/pebble"

	"github.com/chriskacerguis/hamqrzdb/internal/domain"
)

// Pebble is an LSM-backed Store. Entities are JSON values keyed by callsign,
// so iteration order is callsign order for free. The merge runs in Go as a
// read-modify-write before each Set; writes use NoSync and Flush provides
// the durability pacing point.
type Pebble struct {
	db *pebble.DB
}

// NewPebble opens (creating if needed) a pebble-backed store in dir.
func NewPebble(dir string) (*Pebble, error) {
	db, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open pebble database: %w", err)
	}
	return &Pebble{db: db}, nil
}

func (p *Pebble) Upsert(_ context.Context, u domain.Update) error {
	key := []byte(u.Callsign)

	e := domain.Entity{Callsign: u.Callsign}
	val, closer, err := p.db.Get(key)
	if err == nil {
		decodeErr := json.Unmarshal(val, &e)
		closer.Close()
		if decodeErr != nil {
			return fmt.Errorf("decode entity %s: %w", u.Callsign, decodeErr)
		}
	} else if err != pebble.ErrNotFound {
		return fmt.Errorf("read entity %s: %w", u.Callsign, err)
	}

	e.Apply(u, domain.Now())

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode entity %s: %w", u.Callsign, err)
	}
	if err := p.db.Set(key, data, pebble.NoSync); err != nil {
		return fmt.Errorf("write entity %s: %w", u.Callsign, err)
	}
	return nil
}

func (p *Pebble) Get(_ context.Context, callsign string) (domain.Entity, bool, error) {
	val, closer, err := p.db.Get([]byte(callsign))
	if err == pebble.ErrNotFound {
		return domain.Entity{}, false, nil
	}
	if err != nil {
		return domain.Entity{}, false, fmt.Errorf("read entity %s: %w", callsign, err)
	}
	defer closer.Close()

	var e domain.Entity
	if err := json.Unmarshal(val, &e); err != nil {
		return domain.Entity{}, false, fmt.Errorf("decode entity %s: %w", callsign, err)
	}
	return e, true, nil
}

func (p *Pebble) ForEach(ctx context.Context, fn func(domain.Entity) error) error {
	it, err := p.db.NewIter(nil)
	if err != nil {
		return fmt.Errorf("iterate entities: %w", err)
	}
	defer it.Close()

	for it.First(); it.Valid(); it.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		var e domain.Entity
		if err := json.Unmarshal(it.Value(), &e); err != nil {
			return fmt.Errorf("decode entity %s: %w", it.Key(), err)
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	return it.Error()
}

func (p *Pebble) Count(_ context.Context) (int64, error) {
	it, err := p.db.NewIter(nil)
	if err != nil {
		return 0, fmt.Errorf("iterate entities: %w", err)
	}
	defer it.Close()

	var n int64
	for it.First(); it.Valid(); it.Next() {
		n++
	}
	return n, it.Error()
}

func (p *Pebble) Flush(_ context.Context) error {
	if err := p.db.Flush(); err != nil {
		return fmt.Errorf("flush pebble: %w", err)
	}
	return nil
}

func (p *Pebble) Close() error {
	return p.db.Close()
}
