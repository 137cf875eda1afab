package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sentinelstack/sentinel-rca/internal/engine"
	"github.com/sentinelstack/sentinel-rca/internal/metrics"
	"github.com/sentinelstack/sentinel-rca/internal/models"
	"github.com/sentinelstack/sentinel-rca/internal/remediation"
	"github.com/sentinelstack/sentinel-rca/internal/utils"
)

// HistoryRepo defines the storage operations the service needs for result history.
type HistoryRepo interface {
	SaveRun(ctx context.Context, runID string, results []models.RootCauseResult) error
	ListRootCauses(ctx context.Context, service string, limit int) ([]models.RootCauseResult, error)
}

// AnalysisService is the facade the API layer talks to. It runs the analyzer
// over a snapshot, attaches remediation guidance, records metrics, and
// persists results when a history repo is configured. The service holds no
// per-run state, so concurrent Run calls on separate snapshots are safe.
type AnalysisService struct {
	logger      *slog.Logger
	analyzer    *engine.Analyzer
	remediation *remediation.Engine
	history     HistoryRepo
	latencies   *utils.LatencyTracker
}

// NewAnalysisService constructs the service facade. history may be nil when
// persistence is disabled.
func NewAnalysisService(logger *slog.Logger, analyzer *engine.Analyzer, rem *remediation.Engine, history HistoryRepo) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{
		logger:      logger,
		analyzer:    analyzer,
		remediation: rem,
		history:     history,
		latencies:   utils.NewLatencyTracker(1024),
	}
}

// Run executes one full analysis over the snapshot: rank root causes, attach
// remediation, persist, and report. Persistence failures degrade to a warning;
// the analysis result is still returned.
func (s *AnalysisService) Run(ctx context.Context, records []models.AnomalyRecord) (models.AnalysisReport, error) {
	start := time.Now()

	results, stats := s.analyzer.Analyze(records)
	runID := uuid.NewString()

	for i := range results {
		results[i].ResultID = uuid.NewString()
		if s.remediation != nil {
			rem := s.remediation.GenerateRemediation(
				results[i].RootCauseService,
				results[i].RootCauseMessage,
				results[i].ConfidenceScore,
			)
			results[i].Remediation = &rem
		}
	}

	if s.history != nil && len(results) > 0 {
		if err := s.history.SaveRun(ctx, runID, results); err != nil {
			s.logger.Warn("failed to persist analysis run", slog.String("run_id", runID), slog.Any("error", err))
		}
	}

	duration := time.Since(start)
	s.latencies.Observe(duration)
	metrics.ObserveAnalysis(duration, metrics.OutcomeSuccess)
	metrics.AddSkippedRecords(stats.SkippedMalformed)
	metrics.ObserveClusters(stats.ClusterCount)

	if count := s.latencies.Count(); count >= 20 && count%20 == 0 {
		s.logger.Info("analysis latency",
			slog.Duration("p95", s.latencies.Percentile(95)),
			slog.Int("samples", count))
	}

	s.logger.Info("analysis run complete",
		slog.String("run_id", runID),
		slog.Int("records", stats.TotalRecords),
		slog.Int("anomalies", stats.AnomalousRecords),
		slog.Int("skipped", stats.SkippedMalformed),
		slog.Int("root_causes", len(results)))

	return models.AnalysisReport{
		RunID:            runID,
		RootCauses:       results,
		TotalRecords:     stats.TotalRecords,
		AnomalousRecords: stats.AnomalousRecords,
		SkippedRecords:   stats.SkippedMalformed,
		ClusterCount:     stats.ClusterCount,
		GeneratedAt:      time.Now().UTC(),
	}, nil
}

// History lists previously stored root causes, newest first.
func (s *AnalysisService) History(ctx context.Context, service string, limit int) ([]models.RootCauseResult, error) {
	if s.history == nil {
		return nil, utils.NewAppError("history", "history store not configured", nil)
	}
	return s.history.ListRootCauses(ctx, service, limit)
}

// Categories lists the remediation knowledge base categories in table order.
func (s *AnalysisService) Categories() []string {
	if s.remediation == nil {
		return nil
	}
	return s.remediation.Categories()
}

// LatencyP95 returns the current p95 analysis latency.
func (s *AnalysisService) LatencyP95() time.Duration {
	return s.latencies.Percentile(95)
}
