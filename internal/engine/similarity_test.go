package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarityReflexive(t *testing.T) {
	for _, msg := range []string{"", "connection pool exhausted", "Disk full on /var"} {
		assert.Equal(t, 1.0, Similarity(msg, msg))
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	pairs := [][2]string{
		{"connection pool exhausted", "connection pool exhausted - retry"},
		{"kitten", "sitting"},
		{"disk full", "out of memory"},
	}
	for _, p := range pairs {
		assert.Equal(t, Similarity(p[0], p[1]), Similarity(p[1], p[0]))
	}
}

func TestSimilarityBounds(t *testing.T) {
	pairs := [][2]string{
		{"", "nonempty"},
		{"abc", "xyz"},
		{"connection refused", "connection pool exhausted"},
	}
	for _, p := range pairs {
		s := Similarity(p[0], p[1])
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
	assert.Equal(t, 0.0, Similarity("", "nonempty"))
	assert.Equal(t, 0.0, Similarity("abc", "xyz"))
}

func TestSimilarityKnownRatio(t *testing.T) {
	// LCS("kitten", "sitting") = "ittn", so the ratio is 2*4/(6+7).
	assert.InDelta(t, 8.0/13.0, Similarity("kitten", "sitting"), 1e-12)
}

func TestSimilarityCaseInsensitive(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("Connection Refused", "connection refused"))
}

func TestSimilarityRelatedMessagesPassDefaultThreshold(t *testing.T) {
	s := Similarity("connection pool exhausted", "connection pool exhausted - retry")
	assert.Greater(t, s, 0.6)
}
