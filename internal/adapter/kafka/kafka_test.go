package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriskacerguis/hamqrzdb/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	updated := time.Date(2026, 8, 1, 15, 10, 0, 0, time.UTC)
	e := domain.Entity{
		Callsign:      "W1AW",
		LicenseStatus: "A",
		OperatorClass: "E",
		LastName:      "Public",
		LastUpdated:   updated,
	}

	msg, err := serializeToMessage(e)
	require.NoError(t, err)

	assert.Equal(t, []byte("W1AW"), msg.Key)
	assert.Contains(t, string(msg.Value), `"call":"W1AW"`)
	assert.Contains(t, string(msg.Value), `"status":"A"`)
	assert.Len(t, msg.Headers, 2)
	assert.Equal(t, "callsign", msg.Headers[0].Key)
	assert.Equal(t, []byte("W1AW"), msg.Headers[0].Value)
	assert.Equal(t, "updated_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(updated.Format(time.RFC3339)), msg.Headers[1].Value)
}

func TestSerializeToMessage_SparseEntity(t *testing.T) {
	msg, err := serializeToMessage(domain.Entity{Callsign: "KB1ABC"})
	require.NoError(t, err)

	assert.Contains(t, string(msg.Value), `"class":"NOT_FOUND"`)
	assert.Contains(t, string(msg.Value), `"grid":"NOT_FOUND"`)
}
