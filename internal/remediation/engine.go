package remediation

import (
	"log/slog"
	"strings"

	"github.com/sentinelstack/sentinel-rca/internal/models"
)

// Engine matches root causes against the knowledge base and produces advisory
// remediation guidance. Matching is deterministic, rule-based, and side-effect
// free; the engine holds only the immutable table, so concurrent calls are safe.
type Engine struct {
	kb     *KnowledgeBase
	logger *slog.Logger
}

// NewEngine constructs a remediation engine over a loaded knowledge base.
func NewEngine(kb *KnowledgeBase, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{kb: kb, logger: logger}
}

// GenerateRemediation matches the root cause's service and message against the
// knowledge base in fixed table order and returns the guidance for the first
// entry with any keyword hit.
//
// For each entry, matchScore = hits/len(keywords), where a hit is a keyword
// found as a case-insensitive substring of "<service> <message>". The first
// entry with matchScore > 0 wins (first-match rather than best-match), so the
// outcome depends only on the table order and the keyword hits, never on
// relative scores between entries. With no hits anywhere, the unknown_error
// fallback is selected with matchScore 0.
//
// The returned confidence averages matchScore with the caller's root-cause
// confidence: how well the pattern was recognised, and how sure the analysis
// is that a real root cause exists at all.
func (e *Engine) GenerateRemediation(rootCauseService, rootCauseMessage string, rootCauseConfidence float64) models.RemediationResult {
	searchText := strings.ToLower(rootCauseService + " " + rootCauseMessage)

	matched := e.kb.entries[len(e.kb.entries)-1] // fallback, always last
	matchScore := 0.0

	for _, entry := range e.kb.entries {
		if len(entry.Keywords) == 0 {
			continue
		}
		hits := 0
		for _, kw := range entry.Keywords {
			if strings.Contains(searchText, strings.ToLower(kw)) {
				hits++
			}
		}
		if hits > 0 {
			matched = entry
			matchScore = float64(hits) / float64(len(entry.Keywords))
			break
		}
	}

	e.logger.Debug("remediation matched",
		slog.String("service", rootCauseService),
		slog.String("category", matched.Category),
		slog.Float64("match_score", matchScore))

	confidence := (matchScore + clamp01(rootCauseConfidence)) / 2

	return models.RemediationResult{
		IssueCategory:           matched.Category,
		Description:             matched.Description,
		FixSteps:                append([]string(nil), matched.FixSteps...),
		Priority:                matched.Priority,
		EstimatedResolutionTime: matched.EstimatedResolutionTime,
		ConfidenceScore:         confidence,
	}
}

// Categories lists all knowledge base categories in evaluation order.
func (e *Engine) Categories() []string {
	return e.kb.Categories()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
