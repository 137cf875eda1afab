// Package intake decodes anomaly batches handed over by the upstream detector.
// A batch is a snapshot: the decoder tolerates individual bad records (they
// are skipped and counted) but never fails the whole batch for them.
package intake

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sentinelstack/sentinel-rca/internal/models"
)

// Batch is one decoded snapshot of detector output.
type Batch struct {
	Records []models.AnomalyRecord
	// Skipped counts records dropped during decoding (unparseable elements).
	Skipped int
}

type batchEnvelope struct {
	Records []json.RawMessage `json:"records"`
}

// DecodeBatch reads a JSON batch of the form {"records": [...]}. Elements that
// fail to decode are skipped and counted; a malformed envelope is an error.
func DecodeBatch(r io.Reader) (Batch, error) {
	var envelope batchEnvelope
	if err := json.NewDecoder(r).Decode(&envelope); err != nil {
		return Batch{}, fmt.Errorf("decode batch: %w", err)
	}

	batch := Batch{Records: make([]models.AnomalyRecord, 0, len(envelope.Records))}
	for _, raw := range envelope.Records {
		var rec models.AnomalyRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			batch.Skipped++
			continue
		}
		batch.Records = append(batch.Records, rec)
	}
	return batch, nil
}
