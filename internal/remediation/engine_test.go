package remediation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinelstack/sentinel-rca/internal/models"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	kb, err := NewKnowledgeBase("", nil)
	require.NoError(t, err)
	return NewEngine(kb, nil)
}

func TestGenerateRemediationDatabaseCascade(t *testing.T) {
	e := newTestEngine(t)

	got := e.GenerateRemediation("database", "connection pool exhausted", 0.6975)
	assert.Equal(t, "database_connection_error", got.IssueCategory)
	assert.Equal(t, models.PriorityCritical, got.Priority)
	assert.NotEmpty(t, got.FixSteps)
	assert.NotEmpty(t, got.EstimatedResolutionTime)

	// Keyword hits: "connection", "pool", "database" out of 8 keywords.
	assert.InDelta(t, (3.0/8.0+0.6975)/2, got.ConfidenceScore, 1e-9)
}

func TestGenerateRemediationFirstMatchWins(t *testing.T) {
	e := newTestEngine(t)

	// "timeout" appears in both database_connection_error and
	// database_query_timeout; table order decides, not match score.
	got := e.GenerateRemediation("database", "query timeout", 0.5)
	assert.Equal(t, "database_connection_error", got.IssueCategory)
}

func TestGenerateRemediationMatchesLaterEntries(t *testing.T) {
	e := newTestEngine(t)

	cases := []struct {
		service string
		message string
		want    string
	}{
		{"payments", "process crashed with signal 11", "service_crash"},
		{"worker", "oom killer invoked, heap limit reached", "high_memory_usage"},
		{"ingest", "hdfs block missing on datanode", "hdfs_block_error"},
		{"scheduler", "deadlock detected, workers stuck", "service_unresponsive"},
	}
	for _, tc := range cases {
		got := e.GenerateRemediation(tc.service, tc.message, 0.7)
		assert.Equal(t, tc.want, got.IssueCategory, "message %q", tc.message)
		assert.Positive(t, got.ConfidenceScore)
	}
}

func TestGenerateRemediationServiceNameContributesToMatch(t *testing.T) {
	e := newTestEngine(t)

	// The keyword hit comes from the service name, not the message.
	got := e.GenerateRemediation("database", "replica set reconfiguration in progress", 0.5)
	assert.Equal(t, "database_connection_error", got.IssueCategory)
}

func TestGenerateRemediationFallback(t *testing.T) {
	e := newTestEngine(t)

	got := e.GenerateRemediation("svc", "zebra unicorns", 0.8)
	assert.Equal(t, FallbackCategory, got.IssueCategory)
	assert.Equal(t, models.PriorityMedium, got.Priority)
	assert.NotEmpty(t, got.FixSteps)

	// Fallback match score is zero, so confidence is half the root confidence.
	assert.InDelta(t, 0.4, got.ConfidenceScore, 1e-9)
}

func TestGenerateRemediationClampsRootConfidence(t *testing.T) {
	e := newTestEngine(t)

	high := e.GenerateRemediation("svc", "zebra unicorns", 2.5)
	assert.InDelta(t, 0.5, high.ConfidenceScore, 1e-9)

	low := e.GenerateRemediation("svc", "zebra unicorns", -1)
	assert.InDelta(t, 0.0, low.ConfidenceScore, 1e-9)
}

func TestGenerateRemediationTableOrderSensitivity(t *testing.T) {
	a := Entry{Category: "first", Keywords: []string{"shared"}, Priority: models.PriorityHigh}
	b := Entry{Category: "second", Keywords: []string{"shared"}, Priority: models.PriorityLow}
	fallback := Entry{Category: FallbackCategory, Priority: models.PriorityMedium}

	kbAB, err := newFromEntries([]Entry{a, b, fallback})
	require.NoError(t, err)
	kbBA, err := newFromEntries([]Entry{b, a, fallback})
	require.NoError(t, err)

	assert.Equal(t, "first", NewEngine(kbAB, nil).GenerateRemediation("svc", "shared failure", 0.5).IssueCategory)
	assert.Equal(t, "second", NewEngine(kbBA, nil).GenerateRemediation("svc", "shared failure", 0.5).IssueCategory)
}

func TestEngineCategories(t *testing.T) {
	e := newTestEngine(t)
	cats := e.Categories()
	require.Len(t, cats, 16)
	assert.Equal(t, FallbackCategory, cats[len(cats)-1])
}
