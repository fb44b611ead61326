package causal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	attrdomain "gocause/domain/attribution"
	domain "gocause/domain/causal"
)

func TestScoreConfidence(t *testing.T) {
	tests := []struct {
		name        string
		attrLevel   attrdomain.ConfidenceLevel
		coverage    float64
		rootCount   int
		factorCount int
		dataPoints  int
		expected    attrdomain.ConfidenceLevel
	}{
		// 3*0.4 + 0.9*0.3 + 3*0.2 + 3*0.1 = 2.37
		{"strong analysis", attrdomain.ConfidenceHigh, 0.9, 1, 5, 40, attrdomain.ConfidenceMedium},
		// 2*0.4 + 0.6*0.3 + 3*0.2 + 2*0.1 = 1.78
		{"middling analysis", attrdomain.ConfidenceMedium, 0.6, 2, 5, 20, attrdomain.ConfidenceMedium},
		// 1*0.4 + 0.2*0.3 + 1*0.2 + 1*0.1 = 0.76
		{"weak all around", attrdomain.ConfidenceLow, 0.2, 5, 5, 10, attrdomain.ConfidenceLow},
		// root ratio > 0.8 collapses the root score to 1
		{"every factor a root", attrdomain.ConfidenceHigh, 0.9, 5, 5, 40, attrdomain.ConfidenceMedium},
		// 1*0.4 + 0.9*0.3 + 3*0.2 + 1*0.1 = 1.37
		{"good fit, thin data", attrdomain.ConfidenceLow, 0.9, 1, 5, 10, attrdomain.ConfidenceLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attr := &attrdomain.Result{Confidence: tt.attrLevel, TotalExplained: tt.coverage}
			got := scoreConfidence(attr, tt.rootCount, tt.factorCount, tt.dataPoints)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestScoreConfidence_ZeroFactorsDoesNotPanic(t *testing.T) {
	attr := &attrdomain.Result{Confidence: attrdomain.ConfidenceLow}
	got := scoreConfidence(attr, 0, 0, 5)
	assert.Equal(t, attrdomain.ConfidenceLow, got)
}

func TestExplanationPower(t *testing.T) {
	roots := []domain.RootCause{
		{Name: "a", TotalImpact: 0.5},
		{Name: "b", TotalImpact: 0.3},
	}

	assert.InDelta(t, 0.8*0.8, explanationPower(0.8, roots), 1e-9)

	// Capped at 1 even when impacts over-count shared paths.
	big := []domain.RootCause{{Name: "a", TotalImpact: 0.9}, {Name: "b", TotalImpact: 0.8}}
	assert.Equal(t, 1.0, explanationPower(0.9, big))

	// No qualifying roots means nothing is explained.
	assert.Equal(t, 0.0, explanationPower(0.9, nil))
}
