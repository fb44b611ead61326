// Package causal turns flat attribution results into a multi-level causal
// graph, identifies upstream root causes and ranks the paths by which they act
// on the target. Each call constructs and returns its own graph; no graph
// state is retained between calls, so analyzers are safe for concurrent use.
package causal

import (
	"context"

	attrdomain "gocause/domain/attribution"
	domain "gocause/domain/causal"
	attribanalyzer "gocause/internal/attribution"
	"gocause/internal/logging"
)

const (
	DefaultMinCausalStrength = 0.2
	DefaultMaxDepth          = 3

	// inferredCorrelationFloor is the minimum absolute pairwise correlation
	// for inferring an edge between two factors. The effective threshold is
	// max(floor, minCausalStrength).
	inferredCorrelationFloor = 0.7
)

// RootCauseAnalyzer runs root-cause analyses with fixed configuration.
type RootCauseAnalyzer struct {
	analyzer    *attribanalyzer.Analyzer
	minStrength float64
	maxDepth    int
	logger      *logging.Logger
}

// Option configures a RootCauseAnalyzer.
type Option func(*RootCauseAnalyzer)

// WithAttributionAnalyzer sets the attribution analyzer used for direct and
// sub-factor contributions.
func WithAttributionAnalyzer(a *attribanalyzer.Analyzer) Option {
	return func(r *RootCauseAnalyzer) { r.analyzer = a }
}

// WithMinCausalStrength sets the minimum edge weight and root impact.
func WithMinCausalStrength(v float64) Option {
	return func(r *RootCauseAnalyzer) { r.minStrength = v }
}

// WithMaxDepth bounds causal path enumeration.
func WithMaxDepth(d int) Option {
	return func(r *RootCauseAnalyzer) { r.maxDepth = d }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(r *RootCauseAnalyzer) { r.logger = l }
}

// NewRootCauseAnalyzer creates an analyzer with the default configuration.
func NewRootCauseAnalyzer(opts ...Option) *RootCauseAnalyzer {
	r := &RootCauseAnalyzer{
		minStrength: DefaultMinCausalStrength,
		maxDepth:    DefaultMaxDepth,
		logger:      logging.NewDefaultLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.analyzer == nil {
		r.analyzer = attribanalyzer.NewAnalyzer(attribanalyzer.WithLogger(r.logger))
	}
	return r
}

// Analyze performs the full root-cause pipeline: top-level attribution, graph
// construction, root identification, path ranking and confidence scoring. The
// returned graph is freshly built for this call and owned by the caller.
//
// Structural input errors abort the call; statistical degeneracies and
// traversal dead ends surface as smaller root-cause lists, collected warnings
// and lower confidence, never as errors.
func (r *RootCauseAnalyzer) Analyze(ctx context.Context, req domain.Request) (*domain.Result, *domain.Graph, error) {
	attrResult, err := r.analyzer.Analyze(ctx, attrdomain.Request{
		Target:       req.Target,
		TargetValues: req.TargetValues,
		Factors:      req.Factors,
		Periods:      req.Periods,
		Method:       req.Method,
	})
	if err != nil {
		return nil, nil, err
	}

	var warnings []domain.Warning
	for _, w := range attrResult.Warnings {
		warnings = append(warnings, domain.Warning{Stage: "attribution", Subject: req.Target, Message: w})
	}

	graph, buildWarnings := r.buildGraph(ctx, req, attrResult)
	warnings = append(warnings, buildWarnings...)

	rootCauses, traversalWarnings := r.identifyRootCauses(graph, req.Target)
	warnings = append(warnings, traversalWarnings...)

	result := &domain.Result{
		Target:           req.Target,
		Method:           attrResult.Method,
		Depth:            r.maxDepth,
		Attribution:      attrResult,
		RootCauses:       rootCauses,
		CriticalPaths:    rankCriticalPaths(rootCauses),
		ExplanationPower: explanationPower(attrResult.TotalExplained, rootCauses),
		Confidence: scoreConfidence(attrResult, len(rootCauses),
			len(req.Factors), len(req.TargetValues)),
		Warnings: warnings,
	}
	return result, graph, nil
}
