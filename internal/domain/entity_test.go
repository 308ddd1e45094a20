package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityApply(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	t.Run("first apply creates the field set", func(t *testing.T) {
		var e Entity
		e.Apply(Update{Callsign: "W1AW", LicenseStatus: "A", ExpiredDate: "01/01/2030"}, now)

		assert.Equal(t, "W1AW", e.Callsign)
		assert.Equal(t, "A", e.LicenseStatus)
		assert.Equal(t, "01/01/2030", e.ExpiredDate)
		assert.Equal(t, now, e.LastUpdated)
	})

	t.Run("empty incoming value preserves stored value", func(t *testing.T) {
		var e Entity
		e.Apply(Update{Callsign: "W1AW", LicenseStatus: "A"}, now)
		e.Apply(Update{Callsign: "W1AW", LicenseStatus: "", OperatorClass: "E"}, now)

		assert.Equal(t, "A", e.LicenseStatus)
		assert.Equal(t, "E", e.OperatorClass)
	})

	t.Run("non-empty incoming value wins", func(t *testing.T) {
		var e Entity
		e.Apply(Update{Callsign: "W1AW", LicenseStatus: "A"}, now)
		e.Apply(Update{Callsign: "W1AW", LicenseStatus: "E"}, now)

		assert.Equal(t, "E", e.LicenseStatus)
	})

	t.Run("disjoint families commute", func(t *testing.T) {
		header := Update{Callsign: "W1AW", LicenseStatus: "A", GrantDate: "01/01/2020"}
		entity := Update{Callsign: "W1AW", FirstName: "John", LastName: "Doe"}

		var a, b Entity
		a.Apply(header, now)
		a.Apply(entity, now)
		b.Apply(entity, now)
		b.Apply(header, now)

		assert.Equal(t, a, b)
	})

	t.Run("apply is idempotent", func(t *testing.T) {
		u := Update{Callsign: "W1AW", LicenseStatus: "A", FirstName: "John"}

		var once, twice Entity
		once.Apply(u, now)
		twice.Apply(u, now)
		twice.Apply(u, now)

		assert.Equal(t, once, twice)
	})

	t.Run("coordinates and grid set together", func(t *testing.T) {
		lat, lon := 41.7147, -72.7272
		var e Entity
		e.Apply(Update{Callsign: "W1AW", Latitude: &lat, Longitude: &lon, GridSquare: GridSquare(lat, lon)}, now)

		require.True(t, e.HasLocation())
		assert.Equal(t, lat, *e.Latitude)
		assert.Equal(t, lon, *e.Longitude)
		assert.Equal(t, "FN31pr", e.GridSquare)
	})

	t.Run("update without coordinates keeps existing location", func(t *testing.T) {
		lat, lon := 41.7147, -72.7272
		var e Entity
		e.Apply(Update{Callsign: "W1AW", Latitude: &lat, Longitude: &lon, GridSquare: "FN31pr"}, now)
		e.Apply(Update{Callsign: "W1AW", City: "Newington"}, now)

		require.True(t, e.HasLocation())
		assert.Equal(t, "FN31pr", e.GridSquare)
		assert.Equal(t, "Newington", e.City)
	})

	t.Run("last updated advances even when nothing changes", func(t *testing.T) {
		later := now.Add(time.Hour)
		var e Entity
		e.Apply(Update{Callsign: "W1AW", LicenseStatus: "A"}, now)
		e.Apply(Update{Callsign: "W1AW"}, later)

		assert.Equal(t, later, e.LastUpdated)
	})
}

func TestSetClock(t *testing.T) {
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	defer SetClock(nil)

	assert.Equal(t, fixed, Now())

	SetClock(nil)
	assert.True(t, time.Since(Now()) < time.Second)
	SetClock(clockwork.NewFakeClockAt(fixed))
}
