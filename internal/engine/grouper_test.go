package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinelstack/sentinel-rca/internal/models"
)

var groupBase = time.Date(2025, 1, 15, 14, 0, 0, 0, time.UTC)

func mkAnomaly(service, message string, offset time.Duration, score float64) models.AnomalyRecord {
	return models.AnomalyRecord{
		Timestamp:    groupBase.Add(offset),
		Service:      service,
		Message:      message,
		AnomalyScore: score,
		IsAnomaly:    true,
	}
}

func TestGroupChainsSimilarMessagesWithinWindow(t *testing.T) {
	g := NewGrouper(2*time.Minute, 0.6)
	records := []models.AnomalyRecord{
		mkAnomaly("database", "connection pool exhausted", 0, 0.9),
		mkAnomaly("database", "connection pool exhausted - retry", 30*time.Second, 0.85),
		mkAnomaly("database", "connection pool exhausted - giving up", 105*time.Second, 0.95),
	}

	clusters := g.Group(records)
	require.Len(t, clusters, 1)
	assert.Equal(t, "database", clusters[0].Service)
	assert.Len(t, clusters[0].Members, 3)
	assert.Equal(t, "connection pool exhausted", clusters[0].Root().Message)
	assert.Equal(t, 105*time.Second, clusters[0].Span())
	assert.InDelta(t, 0.9, clusters[0].MeanScore(), 1e-12)
}

func TestGroupWindowIsChainedNotPairwise(t *testing.T) {
	// The third record is 215s after the root but only 115s after the second
	// member, so it still joins: the window applies to the latest member.
	g := NewGrouper(2*time.Minute, 0.6)
	records := []models.AnomalyRecord{
		mkAnomaly("database", "connection pool exhausted", 0, 0.9),
		mkAnomaly("database", "connection pool exhausted", 100*time.Second, 0.9),
		mkAnomaly("database", "connection pool exhausted", 215*time.Second, 0.9),
	}

	clusters := g.Group(records)
	require.Len(t, clusters, 1)
	assert.Len(t, clusters[0].Members, 3)
}

func TestGroupGapBeyondWindowOpensNewCluster(t *testing.T) {
	g := NewGrouper(2*time.Minute, 0.6)
	records := []models.AnomalyRecord{
		mkAnomaly("database", "connection pool exhausted", 0, 0.9),
		mkAnomaly("database", "connection pool exhausted", 121*time.Second, 0.9),
	}

	clusters := g.Group(records)
	require.Len(t, clusters, 2)
	assert.Len(t, clusters[0].Members, 1)
	assert.Len(t, clusters[1].Members, 1)
}

func TestGroupGapExactlyAtWindowStillJoins(t *testing.T) {
	g := NewGrouper(2*time.Minute, 0.6)
	records := []models.AnomalyRecord{
		mkAnomaly("database", "connection pool exhausted", 0, 0.9),
		mkAnomaly("database", "connection pool exhausted", 2*time.Minute, 0.9),
	}

	clusters := g.Group(records)
	require.Len(t, clusters, 1)
	assert.Len(t, clusters[0].Members, 2)
}

func TestGroupDissimilarMessageOpensNewCluster(t *testing.T) {
	g := NewGrouper(2*time.Minute, 0.6)
	records := []models.AnomalyRecord{
		mkAnomaly("database", "connection pool exhausted", 0, 0.9),
		mkAnomaly("database", "disk full on /var", 10*time.Second, 0.7),
	}

	clusters := g.Group(records)
	require.Len(t, clusters, 2)
	assert.Equal(t, "connection pool exhausted", clusters[0].Root().Message)
	assert.Equal(t, "disk full on /var", clusters[1].Root().Message)
}

func TestGroupNeverMixesServices(t *testing.T) {
	g := NewGrouper(2*time.Minute, 0.6)
	records := []models.AnomalyRecord{
		mkAnomaly("database", "connection pool exhausted", 0, 0.9),
		mkAnomaly("api-gateway", "connection pool exhausted", 5*time.Second, 0.8),
	}

	clusters := g.Group(records)
	require.Len(t, clusters, 2)
	for _, c := range clusters {
		assert.Len(t, c.Members, 1)
	}
	// Services iterate in sorted order, so the output order is deterministic.
	assert.Equal(t, "api-gateway", clusters[0].Service)
	assert.Equal(t, "database", clusters[1].Service)
}

func TestGroupTimestampTiesKeepInputOrder(t *testing.T) {
	g := NewGrouper(2*time.Minute, 0.6)
	first := mkAnomaly("database", "connection pool exhausted", 0, 0.5)
	second := mkAnomaly("database", "connection pool exhausted - retry", 0, 0.9)

	clusters := g.Group([]models.AnomalyRecord{first, second})
	require.Len(t, clusters, 1)
	assert.Equal(t, first.Message, clusters[0].Root().Message)
}

func TestGroupEmptyInput(t *testing.T) {
	g := NewGrouper(2*time.Minute, 0.6)
	assert.Nil(t, g.Group(nil))
	assert.Nil(t, g.Group([]models.AnomalyRecord{}))
}

func TestCorrelateServicesWindowedOnsetLag(t *testing.T) {
	clusters := []Cluster{
		{Service: "database", Members: []models.AnomalyRecord{
			mkAnomaly("database", "connection pool exhausted", 0, 0.9),
		}},
		{Service: "api-gateway", Members: []models.AnomalyRecord{
			mkAnomaly("api-gateway", "upstream timeout", 60*time.Second, 0.8),
		}},
		{Service: "web-service", Members: []models.AnomalyRecord{
			mkAnomaly("web-service", "render failed", 10*time.Minute, 0.7),
		}},
	}

	affected := CorrelateServices(clusters, 2*time.Minute)
	require.Len(t, affected, 3)

	// The database onset precedes api-gateway by 60s, inside the window.
	// web-service is 10 minutes out and stays unrelated.
	assert.Equal(t, []string{"api-gateway", "database"}, affected[0])
	// Correlation is directional: earlier onsets are never "affected by" later ones.
	assert.Equal(t, []string{"api-gateway"}, affected[1])
	assert.Equal(t, []string{"web-service"}, affected[2])
}

func TestCorrelateServicesAlwaysIncludesOwnService(t *testing.T) {
	clusters := []Cluster{
		{Service: "solo", Members: []models.AnomalyRecord{mkAnomaly("solo", "oops", 0, 0.5)}},
	}
	affected := CorrelateServices(clusters, time.Minute)
	require.Len(t, affected, 1)
	assert.Equal(t, []string{"solo"}, affected[0])
}
