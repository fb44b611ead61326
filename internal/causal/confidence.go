package causal

import (
	attrdomain "gocause/domain/attribution"
	domain "gocause/domain/causal"
)

// scoreConfidence combines the attribution confidence, attribution coverage,
// a root-count-ratio score and a data-volume score into the overall level.
// A high root-to-factor ratio is penalized: almost every factor showing up as
// its own root cause signals an under-constrained model.
func scoreConfidence(attr *attrdomain.Result, rootCount, factorCount, dataPoints int) attrdomain.ConfidenceLevel {
	attributionScore := float64(attr.Confidence.Score())
	coverage := attr.TotalExplained

	if factorCount < 1 {
		factorCount = 1
	}
	ratio := float64(rootCount) / float64(factorCount)
	rootScore := 3.0
	if ratio > 0.8 {
		rootScore = 1.0
	} else if ratio > 0.5 {
		rootScore = 2.0
	}

	dataScore := 1.0
	if dataPoints >= 30 {
		dataScore = 3.0
	} else if dataPoints >= 15 {
		dataScore = 2.0
	}

	total := attributionScore*0.4 + coverage*0.3 + rootScore*0.2 + dataScore*0.1
	switch {
	case total >= 2.5:
		return attrdomain.ConfidenceHigh
	case total >= 1.7:
		return attrdomain.ConfidenceMedium
	default:
		return attrdomain.ConfidenceLow
	}
}

// explanationPower is the fraction of the target's behavior plausibly
// accounted for by all identified root causes combined: attribution coverage
// times the summed root impacts, capped at 1. Zero when no roots qualify.
func explanationPower(coverage float64, rootCauses []domain.RootCause) float64 {
	if len(rootCauses) == 0 {
		return 0
	}
	total := 0.0
	for _, rc := range rootCauses {
		total += rc.TotalImpact
	}
	power := coverage * total
	if power > 1 {
		return 1
	}
	if power < 0 {
		return 0
	}
	return power
}
