package models

import "time"

// RootCauseResult is the ranked hypothesis produced for one anomaly cluster.
// Results are created fresh on every analysis run and never mutated afterwards.
type RootCauseResult struct {
	ResultID           string             `json:"result_id"`
	RootCauseService   string             `json:"root_cause_service"`
	RootCauseMessage   string             `json:"root_cause_message"`
	RootCauseTimestamp time.Time          `json:"root_cause_timestamp"`
	ConfidenceScore    float64            `json:"confidence_score"`
	AffectedServices   []string           `json:"affected_services"`
	TotalAnomalies     int                `json:"total_anomalies"`
	AvgAnomalyScore    float64            `json:"avg_anomaly_score"`
	Severity           Severity           `json:"severity"`
	Explanation        string             `json:"explanation,omitempty"`
	TimelineSummary    string             `json:"timeline_summary,omitempty"`
	ImpactSummary      string             `json:"impact_summary,omitempty"`
	AnalysisTimestamp  time.Time          `json:"analysis_timestamp"`
	Remediation        *RemediationResult `json:"remediation,omitempty"`
}

// RemediationResult carries advisory fix guidance for one root cause.
// It is never executed by this system; output is text for a human operator.
type RemediationResult struct {
	IssueCategory           string   `json:"issue_category"`
	Description             string   `json:"description"`
	FixSteps                []string `json:"fix_steps"`
	Priority                Priority `json:"priority"`
	EstimatedResolutionTime string   `json:"estimated_resolution_time"`
	ConfidenceScore         float64  `json:"confidence_score"`
}

// AnalysisReport bundles one complete run: ranked root causes plus intake counters.
type AnalysisReport struct {
	RunID            string            `json:"run_id"`
	RootCauses       []RootCauseResult `json:"root_causes"`
	TotalRecords     int               `json:"total_records"`
	AnomalousRecords int               `json:"anomalous_records"`
	SkippedRecords   int               `json:"skipped_records"`
	ClusterCount     int               `json:"cluster_count"`
	GeneratedAt      time.Time         `json:"generated_at"`
}

// Priority ranks remediation urgency.
type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

// Severity captures the impact band of a root-cause hypothesis.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)
