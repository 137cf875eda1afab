package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sentinelstack/sentinel-rca/internal/models"
)

func TestExtractErrorType(t *testing.T) {
	cases := []struct {
		message string
		want    string
	}{
		{"Connection refused by host 10.0.0.4", "connection refused"},
		{"upstream request TIMEOUT after 30s", "timeout"},
		{"out of memory killing process", "memory issue"},
		{"database replica lag exceeded", "database error"},
		{"write failed on shard 3", "failure"},
		{"unexpected token in stream", "unexpected token in"},
		{"", "unknown error"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, extractErrorType(tc.message), "message %q", tc.message)
	}
}

func TestExtractErrorTypeFirstPatternWins(t *testing.T) {
	// "connection refused" is checked before "timeout".
	assert.Equal(t, "connection refused", extractErrorType("connection refused after timeout"))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45s", formatDuration(45*time.Second))
	assert.Equal(t, "1m 45s", formatDuration(105*time.Second))
	assert.Equal(t, "1h 1m", formatDuration(3700*time.Second))
}

func TestRootCauseExplanationSingleService(t *testing.T) {
	root := mkAnomaly("database", "connection pool exhausted", 0, 0.9)

	got := rootCauseExplanation(root, []string{"database"}, 2, 0.7)
	assert.Contains(t, got, "connection pool exhausted in database at 14:00:00")
	assert.Contains(t, got, "earliest detected anomaly")
	assert.Contains(t, got, "[MEDIUM confidence]")
}

func TestRootCauseExplanationCascade(t *testing.T) {
	root := mkAnomaly("database", "connection pool exhausted", 0, 0.9)

	got := rootCauseExplanation(root, []string{"api-gateway", "database", "web-service"}, 4, 0.85)
	assert.Contains(t, got, "cascaded to api-gateway, web-service")
	assert.Contains(t, got, "(4 downstream anomalies)")
	assert.Contains(t, got, "[HIGH confidence]")
}

func TestRootCauseExplanationConfidenceBands(t *testing.T) {
	root := mkAnomaly("database", "oops", 0, 0.5)
	assert.Contains(t, rootCauseExplanation(root, nil, 0, 0.80), "[HIGH confidence]")
	assert.Contains(t, rootCauseExplanation(root, nil, 0, 0.60), "[MEDIUM confidence]")
	assert.Contains(t, rootCauseExplanation(root, nil, 0, 0.59), "[LOW confidence]")
}

func TestTimelineSummary(t *testing.T) {
	single := Cluster{Service: "database", Members: []models.AnomalyRecord{
		mkAnomaly("database", "oops", 0, 0.9),
	}}
	assert.Equal(t, "Single anomaly detected - no temporal pattern.", timelineSummary(single))

	multi := Cluster{Service: "database", Members: []models.AnomalyRecord{
		mkAnomaly("database", "oops", 0, 0.9),
		mkAnomaly("database", "oops", 105*time.Second, 0.9),
	}}
	assert.Equal(t, "Timeline: 2 anomalies detected over 1m 45s on database.", timelineSummary(multi))
}

func TestImpactSummarySeverityBands(t *testing.T) {
	cases := []struct {
		name   string
		scores []float64
		want   models.Severity
	}{
		{"six high-scoring members", []float64{0.9, 0.9, 0.9, 0.9, 0.9, 0.9}, models.SeverityCritical},
		{"three high-scoring members", []float64{0.9, 0.9, 0.9}, models.SeverityHigh},
		{"large cluster of low scores", []float64{0.3, 0.3, 0.3, 0.3, 0.3, 0.3}, models.SeverityHigh},
		{"one high-scoring member", []float64{0.9}, models.SeverityMedium},
		{"three low scores", []float64{0.3, 0.3, 0.3}, models.SeverityMedium},
		{"single low score", []float64{0.3}, models.SeverityLow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, severity := impactSummary(clusterWithScores(tc.scores, time.Minute), 0.7)
			assert.Equal(t, tc.want, severity)
		})
	}
}

func TestImpactSummaryRecommendationFollowsConfidence(t *testing.T) {
	c := clusterWithScores([]float64{0.9, 0.9}, time.Minute)

	high, _ := impactSummary(c, 0.9)
	assert.Contains(t, high, "Investigate immediately")

	medium, _ := impactSummary(c, 0.7)
	assert.Contains(t, medium, "Monitor closely")

	low, _ := impactSummary(c, 0.4)
	assert.Contains(t, low, "Verify before escalating")
}
