// Package attribution orchestrates preprocessing, correlation prefiltering
// and contribution modeling into a ranked attribution of a target metric's
// change. Analyzers hold configuration only; every call builds its own state,
// so one analyzer is safe for concurrent use.
package attribution

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	domain "gocause/domain/attribution"
	"gocause/domain/core"
	apperrors "gocause/internal/errors"
	"gocause/internal/logging"
	"gocause/internal/model"
	"gocause/internal/preprocess"
)

const (
	DefaultMinCorrelation = 0.3
	DefaultMaxFactors     = 5
)

// Analyzer runs attribution analyses with fixed configuration.
type Analyzer struct {
	method         domain.Method
	minCorrelation float64
	maxFactors     int
	directions     domain.DirectionTable
	seed           int64
	logger         *logging.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithMethod sets the default contribution strategy.
func WithMethod(m domain.Method) Option {
	return func(a *Analyzer) { a.method = m }
}

// WithMinCorrelation sets the prefilter strength threshold.
func WithMinCorrelation(v float64) Option {
	return func(a *Analyzer) { a.minCorrelation = v }
}

// WithMaxFactors caps the candidate set size after filtering.
func WithMaxFactors(n int) Option {
	return func(a *Analyzer) { a.maxFactors = n }
}

// WithDirectionTable injects the good-direction lookup table.
func WithDirectionTable(t domain.DirectionTable) Option {
	return func(a *Analyzer) { a.directions = t }
}

// WithSeed fixes the ensemble bootstrap seed.
func WithSeed(seed int64) Option {
	return func(a *Analyzer) { a.seed = seed }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// NewAnalyzer creates an analyzer with the default configuration.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		method:         domain.MethodLinear,
		minCorrelation: DefaultMinCorrelation,
		maxFactors:     DefaultMaxFactors,
		seed:           model.DefaultSeed,
		logger:         logging.NewDefaultLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze runs the full attribution pipeline. Structural input errors are
// fatal; statistical degeneracies (no surviving factors, unstable fits) are
// recovered locally and reported as zero-attribution results with warnings.
func (a *Analyzer) Analyze(ctx context.Context, req domain.Request) (*domain.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	method := req.Method
	if method == "" {
		method = a.method
	}
	if !method.Valid() {
		return nil, apperrors.UnsupportedMethod(
			core.NewUnsupportedMethodError(string(method), domain.SupportedMethods()).Error())
	}

	ds := preprocess.Prepare(req.TargetValues, req.Factors)
	candidates := ds.Prefilter(a.minCorrelation, a.maxFactors)

	periods := periodLabels(req.Periods, len(req.TargetValues))
	result := &domain.Result{
		Target:         req.Target,
		Method:         method,
		DataPoints:     len(req.TargetValues),
		FactorCount:    len(req.Factors),
		PositiveIsGood: a.directions.PositiveIsGood(req.Target),
		CurrentPeriod:  periods[len(periods)-1],
	}

	// No factor survived filtering: a valid "unexplained" outcome, not an error.
	if len(candidates) == 0 {
		result.Unexplained = 1
		result.Confidence = domain.ClassifyConfidence(result.DataPoints, 0, 0)
		return result, nil
	}

	features := make([][]float64, len(candidates))
	for i, c := range candidates {
		features[i] = ds.Standard[c.Name]
	}

	strategy, err := model.ForMethod(method, a.seed)
	if err != nil {
		return nil, apperrors.UnsupportedMethod(err.Error())
	}
	fit, err := strategy.Fit(features, ds.Target)
	if err != nil {
		if errors.Is(err, core.ErrInsufficientData) || errors.Is(err, core.ErrSingularFit) {
			a.logger.Warn("attribution of %q degraded to zero result: %v", req.Target, err)
			result.Unexplained = 1
			result.Confidence = domain.ClassifyConfidence(result.DataPoints, 0, 0)
			result.Warnings = append(result.Warnings, err.Error())
			return result, nil
		}
		return nil, apperrors.Wrapf(err, "fitting %s model for %q", strategy.Name(), req.Target)
	}

	result.TotalExplained = fit.ExplainedVariance
	result.Unexplained = 1 - fit.ExplainedVariance
	result.Factors = a.classify(candidates, fit, result.PositiveIsGood)
	result.Correlations = correlationReport(candidates)
	result.Dominants = dominants(candidates, fit.Weights, ds, periods)
	result.Confidence = domain.ClassifyConfidence(result.DataPoints, fit.ExplainedVariance, len(candidates))
	return result, nil
}

// validate checks the structural input contract.
func validate(req domain.Request) error {
	if req.Target == "" {
		return apperrors.ValidationError("target name is required")
	}
	if len(req.TargetValues) == 0 {
		return apperrors.ValidationError("target series must have at least one point")
	}
	names := make([]string, 0, len(req.Factors))
	for name := range req.Factors {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if len(req.Factors[name]) != len(req.TargetValues) {
			return apperrors.ValidationError(
				core.NewLengthMismatchError(name, len(req.Factors[name]), len(req.TargetValues)).Error())
		}
	}
	return nil
}

// classify normalizes per-factor contributions, assigns tiers and sorts by
// contribution descending.
func (a *Analyzer) classify(candidates []preprocess.Candidate, fit *model.FitResult, positiveIsGood bool) []domain.FactorAttribution {
	sumAbs := 0.0
	for _, w := range fit.Weights {
		sumAbs += math.Abs(w)
	}

	factors := make([]domain.FactorAttribution, len(candidates))
	for i, c := range candidates {
		contribution := 0.0
		if sumAbs > 0 {
			contribution = math.Abs(fit.Weights[i]) / sumAbs * fit.ExplainedVariance
		}
		dir := fit.Directions[i]
		factors[i] = domain.FactorAttribution{
			Name:         c.Name,
			Contribution: contribution,
			Weight:       fit.Weights[i],
			Direction:    dir,
			Tier:         domain.ClassifyImpact(contribution),
			Favorable:    (dir == domain.DirectionPositive) == positiveIsGood,
		}
	}
	sort.SliceStable(factors, func(i, j int) bool {
		if factors[i].Contribution != factors[j].Contribution {
			return factors[i].Contribution > factors[j].Contribution
		}
		return factors[i].Name < factors[j].Name
	})
	return factors
}

// correlationReport carries the surviving factors' correlations with the target.
func correlationReport(candidates []preprocess.Candidate) []domain.FactorCorrelation {
	report := make([]domain.FactorCorrelation, len(candidates))
	for i, c := range candidates {
		report[i] = domain.FactorCorrelation{
			Name:        c.Name,
			Correlation: c.Correlation,
			Direction:   domain.DirectionOf(c.Correlation),
		}
	}
	return report
}

// dominants computes the per-period dominant factor: the factor whose
// standardized value times its weight has the largest magnitude at that index.
// Periods where every impact is zero carry no entry.
func dominants(candidates []preprocess.Candidate, weights []float64, ds *preprocess.Dataset, periods []string) []domain.DominantFactor {
	var out []domain.DominantFactor
	for t := range ds.Target {
		best, bestAbs := domain.DominantFactor{}, 0.0
		for i, c := range candidates {
			impact := ds.Standard[c.Name][t] * weights[i]
			if math.Abs(impact) > bestAbs {
				bestAbs = math.Abs(impact)
				best = domain.DominantFactor{Index: t, Period: periods[t], Factor: c.Name, Impact: impact}
			}
		}
		if best.Factor != "" {
			out = append(out, best)
		}
	}
	return out
}

// periodLabels returns the supplied labels when their count matches the
// series length, otherwise synthetic T1..Tn labels.
func periodLabels(supplied []string, n int) []string {
	if len(supplied) == n && n > 0 {
		return supplied
	}
	labels := make([]string, n)
	for i := range labels {
		labels[i] = fmt.Sprintf("T%d", i+1)
	}
	return labels
}
