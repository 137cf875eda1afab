package engine

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/sentinelstack/sentinel-rca/internal/models"
)

// Params holds the tunables for one analyzer instance. Zero values for the
// optional fields fall back to the documented defaults.
type Params struct {
	// TimeWindow bounds the gap allowed between chained cluster members.
	TimeWindow time.Duration
	// SimilarityThreshold is the minimum message similarity for chaining.
	SimilarityThreshold float64
	// Weights blends the confidence signals; must sum to 1.0.
	Weights ConfidenceWeights
	// TimeWindowMax is the reference span for tightness normalisation.
	// Defaults to 5x TimeWindow.
	TimeWindowMax time.Duration
	// CorrelationWindow bounds the cross-service onset lag for the
	// affected-services pass. Tuned separately from TimeWindow; defaults to it.
	CorrelationWindow time.Duration
}

// DefaultParams mirrors the standard deployment configuration.
func DefaultParams() Params {
	return Params{
		TimeWindow:          2 * time.Minute,
		SimilarityThreshold: 0.6,
		Weights:             DefaultConfidenceWeights(),
	}
}

// Stats reports intake counters for one analysis run. Malformed records are
// surfaced here rather than raised as errors.
type Stats struct {
	TotalRecords     int
	AnomalousRecords int
	SkippedMalformed int
	ClusterCount     int
}

// Analyzer composes grouping, root-cause selection, and confidence scoring
// over a full anomaly snapshot. It holds no cross-call state: every Analyze
// call works on its own input, so independent runs may proceed concurrently.
type Analyzer struct {
	logger            *slog.Logger
	grouper           *Grouper
	scorer            *ConfidenceScorer
	correlationWindow time.Duration
}

// NewAnalyzer validates params and builds an Analyzer. Invalid configuration
// fails here, before any analysis runs.
func NewAnalyzer(logger *slog.Logger, params Params) (*Analyzer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if params.TimeWindow <= 0 {
		return nil, fmt.Errorf("time window must be positive, got %s", params.TimeWindow)
	}
	if params.SimilarityThreshold < 0 || params.SimilarityThreshold > 1 {
		return nil, fmt.Errorf("similarity threshold must be in [0,1], got %.3f", params.SimilarityThreshold)
	}
	if params.TimeWindowMax == 0 {
		params.TimeWindowMax = 5 * params.TimeWindow
	}
	if params.CorrelationWindow == 0 {
		params.CorrelationWindow = params.TimeWindow
	}

	scorer, err := NewConfidenceScorer(params.Weights, params.TimeWindowMax)
	if err != nil {
		return nil, err
	}

	return &Analyzer{
		logger:            logger,
		grouper:           NewGrouper(params.TimeWindow, params.SimilarityThreshold),
		scorer:            scorer,
		correlationWindow: params.CorrelationWindow,
	}, nil
}

// Analyze filters the snapshot to anomalous, well-formed records, clusters
// them, and returns one ranked RootCauseResult per cluster. Results are sorted
// by confidence descending, then cluster size descending, then root timestamp
// ascending, so identical input always yields identical ordering. An empty or
// fully-filtered snapshot returns an empty (non-nil) list, not an error, so
// the report always serializes root causes as a JSON array.
func (a *Analyzer) Analyze(records []models.AnomalyRecord) ([]models.RootCauseResult, Stats) {
	stats := Stats{TotalRecords: len(records)}

	anomalies := make([]models.AnomalyRecord, 0, len(records))
	for _, rec := range records {
		if !rec.IsAnomaly {
			continue
		}
		if !rec.Valid() {
			stats.SkippedMalformed++
			continue
		}
		anomalies = append(anomalies, rec)
	}
	stats.AnomalousRecords = len(anomalies)

	if len(anomalies) == 0 {
		a.logger.Debug("no anomalies to analyze", slog.Int("records", len(records)))
		return []models.RootCauseResult{}, stats
	}

	clusters := a.grouper.Group(anomalies)
	stats.ClusterCount = len(clusters)
	a.logger.Debug("grouped anomalies",
		slog.Int("anomalies", len(anomalies)),
		slog.Int("clusters", len(clusters)),
		slog.Int("skipped", stats.SkippedMalformed))

	affected := CorrelateServices(clusters, a.correlationWindow)
	analysisTime := time.Now().UTC()

	results := make([]models.RootCauseResult, 0, len(clusters))
	for i, cluster := range clusters {
		root, symptoms := SelectRootCause(cluster)
		confidence := a.scorer.Score(cluster)
		impact, severity := impactSummary(cluster, confidence)

		results = append(results, models.RootCauseResult{
			RootCauseService:   root.Service,
			RootCauseMessage:   root.Message,
			RootCauseTimestamp: root.Timestamp,
			ConfidenceScore:    confidence,
			AffectedServices:   affected[i],
			TotalAnomalies:     len(cluster.Members),
			AvgAnomalyScore:    cluster.MeanScore(),
			Severity:           severity,
			Explanation:        rootCauseExplanation(root, affected[i], len(symptoms), confidence),
			TimelineSummary:    timelineSummary(cluster),
			ImpactSummary:      impact,
			AnalysisTimestamp:  analysisTime,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].ConfidenceScore != results[j].ConfidenceScore {
			return results[i].ConfidenceScore > results[j].ConfidenceScore
		}
		if results[i].TotalAnomalies != results[j].TotalAnomalies {
			return results[i].TotalAnomalies > results[j].TotalAnomalies
		}
		return results[i].RootCauseTimestamp.Before(results[j].RootCauseTimestamp)
	})

	return results, stats
}
