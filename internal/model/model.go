// Package model implements the two interchangeable contribution strategies
// behind one interface: an ordinary least-squares fit and a bagged ensemble of
// regression trees. Both are deterministic for a fixed seed; reproducibility
// across repeated calls with identical inputs is a correctness requirement.
package model

import (
	"gocause/domain/attribution"
	"gocause/domain/core"
)

// FitResult is the outcome of fitting a contribution model.
type FitResult struct {
	// Weights holds the raw per-feature coefficient (linear) or importance
	// (ensemble), ordered like the input feature columns.
	Weights []float64
	// Directions holds the signed influence per feature. The ensemble borrows
	// direction from each feature's standalone correlation with the target;
	// its importances are unsigned.
	Directions []attribution.Direction
	// ExplainedVariance is the R-squared of the model's predictions in [0,1].
	ExplainedVariance float64
}

// ContributionModel fits feature columns against a target series.
type ContributionModel interface {
	Name() string
	Fit(features [][]float64, target []float64) (*FitResult, error)
}

// ForMethod selects the strategy for a method name. Unknown methods are a
// validation error surfaced to the caller.
func ForMethod(method attribution.Method, seed int64) (ContributionModel, error) {
	switch method {
	case attribution.MethodLinear:
		return &Linear{}, nil
	case attribution.MethodEnsemble:
		return NewEnsemble(seed), nil
	default:
		return nil, core.NewUnsupportedMethodError(string(method), attribution.SupportedMethods())
	}
}
