package attribution

import (
	"sort"
	"strings"
)

// Method selects the contribution model strategy.
type Method string

const (
	MethodLinear   Method = "linear"
	MethodEnsemble Method = "ensemble"
)

// Valid reports whether the method names a known strategy.
func (m Method) Valid() bool {
	return m == MethodLinear || m == MethodEnsemble
}

// SupportedMethods lists the recognized method names.
func SupportedMethods() []string {
	return []string{string(MethodLinear), string(MethodEnsemble)}
}

// Direction indicates the sign of a factor's influence on the target.
type Direction string

const (
	DirectionPositive Direction = "positive"
	DirectionNegative Direction = "negative"
)

// DirectionOf maps a signed weight to a direction. Zero is treated as negative,
// matching the strict > 0 test used throughout the engine.
func DirectionOf(v float64) Direction {
	if v > 0 {
		return DirectionPositive
	}
	return DirectionNegative
}

// ImpactTier buckets a factor's contribution for reporting.
type ImpactTier string

const (
	TierMajor     ImpactTier = "major"
	TierImportant ImpactTier = "important"
	TierMinor     ImpactTier = "minor"
	TierWeak      ImpactTier = "weak"
)

// ClassifyImpact applies the fixed contribution thresholds.
func ClassifyImpact(contribution float64) ImpactTier {
	switch {
	case contribution >= 0.5:
		return TierMajor
	case contribution >= 0.3:
		return TierImportant
	case contribution >= 0.1:
		return TierMinor
	default:
		return TierWeak
	}
}

// ConfidenceLevel is the categorical confidence of an analysis.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// Score maps the level to the 3/2/1 scale used by the confidence scorer.
func (c ConfidenceLevel) Score() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	default:
		return 1
	}
}

// ClassifyConfidence applies the fixed rule table combining data volume,
// explained variance and surviving factor count.
func ClassifyConfidence(dataPoints int, totalExplained float64, factorCount int) ConfidenceLevel {
	switch {
	case dataPoints >= 30 && totalExplained >= 0.7 && factorCount >= 3:
		return ConfidenceHigh
	case dataPoints >= 20 && totalExplained >= 0.5 && factorCount >= 2:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// DirectionTable maps metric-name fragments to whether positive growth is
// considered good for that metric. It is injected at analyzer construction;
// lookups match by substring with a true default.
type DirectionTable map[string]bool

// PositiveIsGood resolves the good-direction flag for a metric name.
// Fragments are checked in sorted order so overlapping entries resolve
// deterministically.
func (t DirectionTable) PositiveIsGood(metric string) bool {
	fragments := make([]string, 0, len(t))
	for fragment := range t {
		fragments = append(fragments, fragment)
	}
	sort.Strings(fragments)
	for _, fragment := range fragments {
		if strings.Contains(metric, fragment) {
			return t[fragment]
		}
	}
	return true
}

// Request carries one attribution invocation's inputs.
type Request struct {
	Target       string               `json:"target"`
	TargetValues []float64            `json:"target_values"`
	Factors      map[string][]float64 `json:"factors"`
	Periods      []string             `json:"periods,omitempty"`
	Method       Method               `json:"method,omitempty"` // overrides the analyzer default when set
}

// FactorAttribution is one factor's share of the explained variance.
type FactorAttribution struct {
	Name         string     `json:"name"`
	Contribution float64    `json:"contribution"` // normalized share scaled by total explained, in [0,1]
	Weight       float64    `json:"weight"`       // raw coefficient (linear) or importance (ensemble)
	Direction    Direction  `json:"direction"`
	Tier         ImpactTier `json:"tier"`
	Favorable    bool       `json:"favorable"` // whether the factor pushes the target the good way
}

// FactorCorrelation reports a surviving factor's correlation with the target.
type FactorCorrelation struct {
	Name        string    `json:"name"`
	Correlation float64   `json:"correlation"`
	Direction   Direction `json:"direction"`
}

// DominantFactor annotates one period with its principal driver.
type DominantFactor struct {
	Index  int     `json:"index"`
	Period string  `json:"period"`
	Factor string  `json:"factor"`
	Impact float64 `json:"impact"` // signed standardized value x weight
}

// Result is a complete attribution outcome. An empty factor list with
// TotalExplained 0 is a valid "unexplained" result, not an error.
type Result struct {
	Target         string              `json:"target"`
	Method         Method              `json:"method"`
	DataPoints     int                 `json:"data_points"`
	FactorCount    int                 `json:"factor_count"` // candidate factors before filtering
	Factors        []FactorAttribution `json:"factors"`      // survivors, sorted by contribution descending
	TotalExplained float64             `json:"total_explained"`
	Unexplained    float64             `json:"unexplained"`
	Confidence     ConfidenceLevel     `json:"confidence"`
	PositiveIsGood bool                `json:"positive_is_good"`
	Correlations   []FactorCorrelation `json:"correlations,omitempty"`
	Dominants      []DominantFactor    `json:"dominants,omitempty"`
	CurrentPeriod  string              `json:"current_period,omitempty"`
	Warnings       []string            `json:"warnings,omitempty"`
}

// Empty reports whether no factor survived filtering.
func (r *Result) Empty() bool {
	return len(r.Factors) == 0
}

// Factor returns the attribution entry for a factor name.
func (r *Result) Factor(name string) (FactorAttribution, bool) {
	for _, f := range r.Factors {
		if f.Name == name {
			return f, true
		}
	}
	return FactorAttribution{}, false
}
