package intake

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBatch(t *testing.T) {
	body := `{"records": [
		{"timestamp": "2025-01-15T14:00:00Z", "service": "database", "message": "connection pool exhausted", "anomaly_score": 0.9, "is_anomaly": true},
		{"timestamp": "2025-01-15T14:00:30Z", "service": "api-gateway", "message": "upstream timeout", "anomaly_score": 0.8, "is_anomaly": true}
	]}`

	batch, err := DecodeBatch(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, batch.Records, 2)
	assert.Zero(t, batch.Skipped)

	assert.Equal(t, "database", batch.Records[0].Service)
	assert.Equal(t, "connection pool exhausted", batch.Records[0].Message)
	assert.Equal(t, 0.9, batch.Records[0].AnomalyScore)
	assert.True(t, batch.Records[0].IsAnomaly)
	assert.Equal(t, "2025-01-15T14:00:00Z", batch.Records[0].Timestamp.Format("2006-01-02T15:04:05Z07:00"))
}

func TestDecodeBatchSkipsUnparseableElements(t *testing.T) {
	body := `{"records": [
		{"timestamp": "2025-01-15T14:00:00Z", "service": "database", "message": "ok", "anomaly_score": 0.9, "is_anomaly": true},
		{"timestamp": 12345, "service": "broken"},
		"not an object",
		{"timestamp": "2025-01-15T14:01:00Z", "service": "database", "message": "ok too", "anomaly_score": 0.8, "is_anomaly": true}
	]}`

	batch, err := DecodeBatch(strings.NewReader(body))
	require.NoError(t, err)
	assert.Len(t, batch.Records, 2)
	assert.Equal(t, 2, batch.Skipped)
}

func TestDecodeBatchMalformedEnvelope(t *testing.T) {
	for _, body := range []string{
		"",
		"not json",
		`{"records": "not an array"}`,
	} {
		_, err := DecodeBatch(strings.NewReader(body))
		assert.Error(t, err, "body %q", body)
	}
}

func TestDecodeBatchEmptyBatch(t *testing.T) {
	batch, err := DecodeBatch(strings.NewReader(`{"records": []}`))
	require.NoError(t, err)
	assert.Empty(t, batch.Records)
	assert.Zero(t, batch.Skipped)

	batch, err = DecodeBatch(strings.NewReader(`{}`))
	require.NoError(t, err)
	assert.Empty(t, batch.Records)
}

func TestDecodeBatchMissingOptionalFields(t *testing.T) {
	// Field presence is not enforced here; semantic validation happens in the
	// analyzer, which skips and counts malformed records.
	body := `{"records": [{"service": "database"}]}`
	batch, err := DecodeBatch(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, batch.Records, 1)
	assert.False(t, batch.Records[0].Valid())
}
