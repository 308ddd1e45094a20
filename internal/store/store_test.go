package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriskacerguis/hamqrzdb/internal/domain"
)

// backends runs the same contract suite against every Store implementation.
func backends(t *testing.T) map[string]Store {
	t.Helper()

	sqlite, err := NewSQLite(filepath.Join(t.TempDir(), "test.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	peb, err := NewPebble(filepath.Join(t.TempDir(), "pebble"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = peb.Close() })

	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": sqlite,
		"pebble": peb,
	}
}

func TestStoreContract(t *testing.T) {
	fixed := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(fixed))
	defer domain.SetClock(nil)

	ctx := context.Background()

	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("get before upsert reports absent", func(t *testing.T) {
				_, found, err := st.Get(ctx, "NOCALL")
				require.NoError(t, err)
				assert.False(t, found)
			})

			t.Run("upsert creates then merges", func(t *testing.T) {
				require.NoError(t, st.Upsert(ctx, domain.Update{Callsign: "W1AW", LicenseStatus: "A", ExpiredDate: "01/01/2030"}))
				require.NoError(t, st.Upsert(ctx, domain.Update{Callsign: "W1AW", FirstName: "John", LastName: "Doe"}))

				e, found, err := st.Get(ctx, "W1AW")
				require.NoError(t, err)
				require.True(t, found)
				assert.Equal(t, "A", e.LicenseStatus)
				assert.Equal(t, "Doe", e.LastName)
				assert.Equal(t, fixed, e.LastUpdated.UTC())
			})

			t.Run("upsert is idempotent", func(t *testing.T) {
				u := domain.Update{Callsign: "K1ONE", LicenseStatus: "A", OperatorClass: "G"}
				require.NoError(t, st.Upsert(ctx, u))
				first, _, err := st.Get(ctx, "K1ONE")
				require.NoError(t, err)

				require.NoError(t, st.Upsert(ctx, u))
				second, _, err := st.Get(ctx, "K1ONE")
				require.NoError(t, err)
				assert.Equal(t, first, second)
			})

			t.Run("empty incoming value never clobbers", func(t *testing.T) {
				require.NoError(t, st.Upsert(ctx, domain.Update{Callsign: "K2TWO", City: "Hartford"}))
				require.NoError(t, st.Upsert(ctx, domain.Update{Callsign: "K2TWO", City: "", State: "CT"}))

				e, _, err := st.Get(ctx, "K2TWO")
				require.NoError(t, err)
				assert.Equal(t, "Hartford", e.City)
				assert.Equal(t, "CT", e.State)
			})

			t.Run("last non-empty write wins", func(t *testing.T) {
				require.NoError(t, st.Upsert(ctx, domain.Update{Callsign: "K3TRE", LicenseStatus: "A"}))
				require.NoError(t, st.Upsert(ctx, domain.Update{Callsign: "K3TRE", LicenseStatus: "E"}))

				e, _, err := st.Get(ctx, "K3TRE")
				require.NoError(t, err)
				assert.Equal(t, "E", e.LicenseStatus)
			})

			t.Run("disjoint families commute", func(t *testing.T) {
				header := domain.Update{Callsign: "", LicenseStatus: "A", GrantDate: "01/01/2020"}
				class := domain.Update{Callsign: "", OperatorClass: "E", GroupCode: "A"}

				header.Callsign, class.Callsign = "K4AB", "K4AB"
				require.NoError(t, st.Upsert(ctx, header))
				require.NoError(t, st.Upsert(ctx, class))
				ab, _, err := st.Get(ctx, "K4AB")
				require.NoError(t, err)

				header.Callsign, class.Callsign = "K4BA", "K4BA"
				require.NoError(t, st.Upsert(ctx, class))
				require.NoError(t, st.Upsert(ctx, header))
				ba, _, err := st.Get(ctx, "K4BA")
				require.NoError(t, err)

				ab.Callsign, ba.Callsign = "", ""
				assert.Equal(t, ab, ba)
			})

			t.Run("coordinates round-trip with grid", func(t *testing.T) {
				lat, lon := 41.7147, -72.7272
				require.NoError(t, st.Upsert(ctx, domain.Update{
					Callsign: "K5LOC", Latitude: &lat, Longitude: &lon, GridSquare: "FN31pr",
				}))

				e, _, err := st.Get(ctx, "K5LOC")
				require.NoError(t, err)
				require.True(t, e.HasLocation())
				assert.Equal(t, lat, *e.Latitude)
				assert.Equal(t, lon, *e.Longitude)
				assert.Equal(t, "FN31pr", e.GridSquare)

				// A later non-location update keeps the coordinates.
				require.NoError(t, st.Upsert(ctx, domain.Update{Callsign: "K5LOC", City: "Newington"}))
				e, _, err = st.Get(ctx, "K5LOC")
				require.NoError(t, err)
				assert.True(t, e.HasLocation())
				assert.Equal(t, "FN31pr", e.GridSquare)
			})

			t.Run("upserts visible before flush", func(t *testing.T) {
				require.NoError(t, st.Upsert(ctx, domain.Update{Callsign: "K6VIS", LicenseStatus: "A"}))
				_, found, err := st.Get(ctx, "K6VIS")
				require.NoError(t, err)
				assert.True(t, found)

				require.NoError(t, st.Flush(ctx))
				_, found, err = st.Get(ctx, "K6VIS")
				require.NoError(t, err)
				assert.True(t, found)
			})

			t.Run("foreach visits in callsign order", func(t *testing.T) {
				require.NoError(t, st.Flush(ctx))

				var calls []string
				require.NoError(t, st.ForEach(ctx, func(e domain.Entity) error {
					calls = append(calls, e.Callsign)
					return nil
				}))
				assert.IsNonDecreasing(t, calls)
				assert.Contains(t, calls, "W1AW")

				n, err := st.Count(ctx)
				require.NoError(t, err)
				assert.Equal(t, int64(len(calls)), n)
			})
		})
	}
}

func TestOpen(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		st, err := Open(BackendMemory, "")
		require.NoError(t, err)
		assert.IsType(t, &Memory{}, st)
	})

	t.Run("sqlite", func(t *testing.T) {
		st, err := Open(BackendSQLite, filepath.Join(t.TempDir(), "db.sqlite"))
		require.NoError(t, err)
		assert.IsType(t, &SQLite{}, st)
		require.NoError(t, st.Close())
	})

	t.Run("pebble", func(t *testing.T) {
		st, err := Open(BackendPebble, filepath.Join(t.TempDir(), "pebble"))
		require.NoError(t, err)
		assert.IsType(t, &Pebble{}, st)
		require.NoError(t, st.Close())
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := Open("cassette-tape", "")
		assert.Error(t, err)
	})
}
