package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"gocause/domain/attribution"
	"gocause/domain/core"
)

// Linear fits an ordinary least-squares regression of the target onto the
// standardized factors. Explained variance is the R-squared of the fit and
// direction is the sign of each coefficient.
type Linear struct{}

// Name returns the strategy name.
func (l *Linear) Name() string { return string(attribution.MethodLinear) }

// Fit solves the least-squares problem with an intercept column via QR
// factorization.
func (l *Linear) Fit(features [][]float64, target []float64) (*FitResult, error) {
	p := len(features)
	n := len(target)
	if p == 0 {
		return nil, fmt.Errorf("linear fit: no features")
	}
	if n < p+1 {
		return nil, fmt.Errorf("%w: %d points for %d features", core.ErrInsufficientData, n, p)
	}

	design := mat.NewDense(n, p+1, nil)
	for i := 0; i < n; i++ {
		design.Set(i, 0, 1)
		for j, col := range features {
			design.Set(i, j+1, col[i])
		}
	}

	var qr mat.QR
	qr.Factorize(design)
	beta := mat.NewVecDense(p+1, nil)
	if err := qr.SolveVecTo(beta, false, mat.NewVecDense(n, target)); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrSingularFit, err)
	}

	var pred mat.VecDense
	pred.MulVec(design, beta)

	coeffs := make([]float64, p)
	directions := make([]attribution.Direction, p)
	for j := 0; j < p; j++ {
		coeffs[j] = beta.AtVec(j + 1)
		directions[j] = attribution.DirectionOf(coeffs[j])
	}

	return &FitResult{
		Weights:           coeffs,
		Directions:        directions,
		ExplainedVariance: rSquared(pred.RawVector().Data, target),
	}, nil
}

// rSquared computes the coefficient of determination, clamped to [0,1].
// A zero-variance target yields 0.
func rSquared(predicted, actual []float64) float64 {
	n := len(actual)
	if n == 0 || len(predicted) != n {
		return 0
	}
	mean := 0.0
	for _, v := range actual {
		mean += v
	}
	mean /= float64(n)

	ssTot, ssRes := 0.0, 0.0
	for i, v := range actual {
		d := v - mean
		ssTot += d * d
		r := v - predicted[i]
		ssRes += r * r
	}
	if ssTot == 0 {
		return 0
	}
	r2 := 1 - ssRes/ssTot
	if math.IsNaN(r2) || r2 < 0 {
		return 0
	}
	if r2 > 1 {
		return 1
	}
	return r2
}
