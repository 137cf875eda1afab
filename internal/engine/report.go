package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/sentinelstack/sentinel-rca/internal/models"
)

// Template-based, human-readable summaries attached to each result. Values are
// always drawn from the actual records so explanations stay contextual.

var errorTypePatterns = []struct {
	pattern string
	label   string
}{
	{"connection refused", "connection refused"},
	{"timeout", "timeout"},
	{"memory", "memory issue"},
	{"database", "database error"},
	{"api", "api error"},
	{"failed", "failure"},
	{"error", "error"},
	{"exception", "exception"},
	{"crash", "crash"},
	{"warning", "warning"},
}

// extractErrorType labels a message with its dominant error pattern, falling
// back to the message's leading words.
func extractErrorType(message string) string {
	lower := strings.ToLower(message)
	for _, p := range errorTypePatterns {
		if strings.Contains(lower, p.pattern) {
			return p.label
		}
	}
	words := strings.Fields(message)
	if len(words) == 0 {
		return "unknown error"
	}
	if len(words) > 3 {
		words = words[:3]
	}
	return strings.Join(words, " ")
}

func formatDuration(d time.Duration) string {
	secs := int(d.Seconds())
	switch {
	case secs < 60:
		return fmt.Sprintf("%ds", secs)
	case secs < 3600:
		return fmt.Sprintf("%dm %ds", secs/60, secs%60)
	default:
		return fmt.Sprintf("%dh %dm", secs/3600, (secs%3600)/60)
	}
}

func rootCauseExplanation(root models.AnomalyRecord, affected []string, downstream int, confidence float64) string {
	errorType := extractErrorType(root.Message)
	when := root.Timestamp.Format("15:04:05")

	var b strings.Builder
	if len(affected) <= 1 {
		fmt.Fprintf(&b, "Detected %s in %s at %s. This is the earliest detected anomaly in the group.",
			errorType, root.Service, when)
	} else {
		others := make([]string, 0, len(affected)-1)
		for _, svc := range affected {
			if svc != root.Service {
				others = append(others, svc)
			}
		}
		fmt.Fprintf(&b, "Detected %s in %s at %s, which cascaded to %s (%d downstream anomalies).",
			errorType, root.Service, when, strings.Join(others, ", "), downstream)
	}

	switch {
	case confidence >= 0.8:
		b.WriteString(" [HIGH confidence]")
	case confidence >= 0.6:
		b.WriteString(" [MEDIUM confidence]")
	default:
		b.WriteString(" [LOW confidence]")
	}
	return b.String()
}

func timelineSummary(c Cluster) string {
	if len(c.Members) < 2 {
		return "Single anomaly detected - no temporal pattern."
	}
	return fmt.Sprintf("Timeline: %d anomalies detected over %s on %s.",
		len(c.Members), formatDuration(c.Span()), c.Service)
}

// impactSummary bands the cluster into a severity level from its high-scoring
// member count and attaches a confidence-based recommendation.
func impactSummary(c Cluster, confidence float64) (string, models.Severity) {
	highScoring := 0
	for _, m := range c.Members {
		if m.AnomalyScore >= 0.8 {
			highScoring++
		}
	}

	var severity models.Severity
	switch {
	case highScoring > 5:
		severity = models.SeverityCritical
	case highScoring > 2 || len(c.Members) > 5:
		severity = models.SeverityHigh
	case highScoring > 0 || len(c.Members) > 2:
		severity = models.SeverityMedium
	default:
		severity = models.SeverityLow
	}

	impact := fmt.Sprintf("Impact: %d anomalies, %d high-scoring. Severity: %s. ",
		len(c.Members), highScoring, strings.ToUpper(string(severity)))
	switch {
	case confidence >= 0.8:
		impact += "Recommendation: Investigate immediately."
	case confidence >= 0.6:
		impact += "Recommendation: Monitor closely."
	default:
		impact += "Recommendation: Verify before escalating."
	}
	return impact, severity
}
