package models

import "time"

// AnomalyRecord is a single log line scored by the upstream anomaly detector.
// Records arrive as an immutable snapshot; this core never mutates them.
type AnomalyRecord struct {
	Timestamp    time.Time `json:"timestamp" yaml:"timestamp"`
	Service      string    `json:"service" yaml:"service"`
	Message      string    `json:"message" yaml:"message"`
	AnomalyScore float64   `json:"anomaly_score" yaml:"anomalyScore"`
	IsAnomaly    bool      `json:"is_anomaly" yaml:"isAnomaly"`
}

// Valid reports whether the record carries the fields grouping depends on.
// Records failing this check are skipped and counted, never fatal.
func (r AnomalyRecord) Valid() bool {
	return !r.Timestamp.IsZero() && r.Service != ""
}
