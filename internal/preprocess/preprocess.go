// Package preprocess aligns factor series with a target series, imputes
// missing values and standardizes factors ahead of contribution modeling.
// Scaling parameters are computed fresh per call and never reused.
package preprocess

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// ImputeMean replaces NaN entries with the mean of the non-missing values.
// A series with no observed values imputes to zeros.
func ImputeMean(series []float64) []float64 {
	observed := make([]float64, 0, len(series))
	for _, v := range series {
		if !math.IsNaN(v) {
			observed = append(observed, v)
		}
	}
	mean := 0.0
	if len(observed) > 0 {
		mean, _ = stats.Mean(observed)
	}
	out := make([]float64, len(series))
	for i, v := range series {
		if math.IsNaN(v) {
			out[i] = mean
		} else {
			out[i] = v
		}
	}
	return out
}

// Standardize scales a series to zero mean and unit variance using the
// population standard deviation. A zero-variance series standardizes to zeros
// rather than propagating a division by zero.
func Standardize(series []float64) []float64 {
	out := make([]float64, len(series))
	if len(series) == 0 {
		return out
	}
	mean, _ := stats.Mean(series)
	stdDev, _ := stats.StandardDeviationPopulation(series)
	if stdDev == 0 || math.IsNaN(stdDev) {
		return out
	}
	for i, v := range series {
		out[i] = (v - mean) / stdDev
	}
	return out
}

// Correlation computes the Pearson correlation of two equal-length series.
// Degenerate inputs (zero variance) yield 0 rather than NaN.
func Correlation(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return 0
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// Dataset holds one analysis call's aligned, imputed and standardized data.
// Factor order is sorted by name so repeated calls over the same map inputs
// produce identical results.
type Dataset struct {
	Target      []float64 // imputed, unscaled
	FactorNames []string
	Raw         map[string][]float64 // imputed, unscaled
	Standard    map[string][]float64 // imputed, standardized
}

// Prepare imputes the target and every factor series and standardizes the
// factors. Series lengths are assumed validated by the caller.
func Prepare(targetValues []float64, factors map[string][]float64) *Dataset {
	names := make([]string, 0, len(factors))
	for name := range factors {
		names = append(names, name)
	}
	sort.Strings(names)

	ds := &Dataset{
		Target:      ImputeMean(targetValues),
		FactorNames: names,
		Raw:         make(map[string][]float64, len(factors)),
		Standard:    make(map[string][]float64, len(factors)),
	}
	for _, name := range names {
		imputed := ImputeMean(factors[name])
		ds.Raw[name] = imputed
		ds.Standard[name] = Standardize(imputed)
	}
	return ds
}

// Candidate is a factor that passed the correlation prefilter.
type Candidate struct {
	Name        string
	Correlation float64
}

// Prefilter ranks factors by absolute correlation of their standardized series
// against the target, drops those below minCorrelation and caps the survivor
// count at maxFactors. Ties break on name to keep ordering stable.
func (ds *Dataset) Prefilter(minCorrelation float64, maxFactors int) []Candidate {
	candidates := make([]Candidate, 0, len(ds.FactorNames))
	for _, name := range ds.FactorNames {
		r := Correlation(ds.Standard[name], ds.Target)
		if math.Abs(r) >= minCorrelation {
			candidates = append(candidates, Candidate{Name: name, Correlation: r})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		ai, aj := math.Abs(candidates[i].Correlation), math.Abs(candidates[j].Correlation)
		if ai != aj {
			return ai > aj
		}
		return candidates[i].Name < candidates[j].Name
	})
	if maxFactors > 0 && len(candidates) > maxFactors {
		candidates = candidates[:maxFactors]
	}
	return candidates
}
