package engine

import (
	"fmt"
	"math"
	"time"
)

// ConfidenceWeights controls the blend of the three confidence signals.
// The weights must sum to 1.0; changing the blend is a configuration change.
type ConfidenceWeights struct {
	Severity    float64
	CascadeSize float64
	Tightness   float64
}

// DefaultConfidenceWeights returns the standard 0.4/0.3/0.3 blend.
func DefaultConfidenceWeights() ConfidenceWeights {
	return ConfidenceWeights{Severity: 0.4, CascadeSize: 0.3, Tightness: 0.3}
}

// Validate rejects weight sets that are negative or do not sum to 1.0.
func (w ConfidenceWeights) Validate() error {
	if w.Severity < 0 || w.CascadeSize < 0 || w.Tightness < 0 {
		return fmt.Errorf("confidence weights must be non-negative, got %.3f/%.3f/%.3f",
			w.Severity, w.CascadeSize, w.Tightness)
	}
	if sum := w.Severity + w.CascadeSize + w.Tightness; math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("confidence weights must sum to 1.0, got %.6f", sum)
	}
	return nil
}

// ConfidenceScorer produces a single [0,1] confidence value per cluster from
// three weighted signals: member severity, cascade size, and time tightness.
type ConfidenceScorer struct {
	weights   ConfidenceWeights
	windowMax time.Duration
}

// NewConfidenceScorer constructs a scorer. windowMax is the reference span for
// tightness normalisation and must be positive.
func NewConfidenceScorer(weights ConfidenceWeights, windowMax time.Duration) (*ConfidenceScorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if windowMax <= 0 {
		return nil, fmt.Errorf("tightness reference span must be positive, got %s", windowMax)
	}
	return &ConfidenceScorer{weights: weights, windowMax: windowMax}, nil
}

// Score blends the three signals:
//
//	severity  = mean anomaly score across the cluster, clamped to [0,1]
//	cascade   = min(size/10, 1), so a ten-member cascade saturates the signal
//	tightness = 1 - min(span/windowMax, 1), tighter clustering scores higher
//
// The result is clamped to [0,1]. A size-1 cluster contributes exactly 0.1 to
// the cascade signal, so isolated anomalies land with intrinsically lower
// confidence than real cascades.
func (s *ConfidenceScorer) Score(c Cluster) float64 {
	severity := clamp(c.MeanScore(), 0, 1)

	cascade := float64(len(c.Members)) / 10.0
	if cascade > 1 {
		cascade = 1
	}

	spanRatio := c.Span().Seconds() / s.windowMax.Seconds()
	if spanRatio > 1 {
		spanRatio = 1
	}
	tightness := 1 - spanRatio

	confidence := s.weights.Severity*severity +
		s.weights.CascadeSize*cascade +
		s.weights.Tightness*tightness
	return clamp(confidence, 0, 1)
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
