package causal

import (
	"gocause/domain/attribution"
)

// NodeKind classifies a graph node.
type NodeKind string

const (
	NodeTarget    NodeKind = "target"
	NodeFactor    NodeKind = "factor"
	NodeSubfactor NodeKind = "subfactor"
	NodeExternal  NodeKind = "external"
)

// EdgeKind classifies how an edge was established.
type EdgeKind string

const (
	EdgeDirect    EdgeKind = "direct"    // attribution of a top-level factor on the target
	EdgeSubfactor EdgeKind = "subfactor" // recursive attribution of a sub-factor on its parent
	EdgeKnown     EdgeKind = "known"     // externally supplied relationship
	EdgeInferred  EdgeKind = "inferred"  // pairwise-correlation heuristic among factors
)

// Node is a vertex in the causal graph, unique by ID.
type Node struct {
	ID   string   `json:"id"`
	Kind NodeKind `json:"kind"`
}

// Edge is a weighted directed relationship. Weight is always in [0,1].
type Edge struct {
	Source    string                `json:"source"`
	Dest      string                `json:"dest"`
	Weight    float64               `json:"weight"`
	Kind      EdgeKind              `json:"kind"`
	Direction attribution.Direction `json:"direction"`
}

// KnownRelationship is an externally supplied edge candidate.
type KnownRelationship struct {
	Source    string                `json:"source"`
	Dest      string                `json:"destination"`
	Strength  float64               `json:"strength"`  // zero means unspecified; builder defaults it to 0.5
	Direction attribution.Direction `json:"direction"` // empty means unspecified; builder defaults to positive
}

// RootCauseTier buckets a root cause's total impact.
type RootCauseTier string

const (
	RootCritical RootCauseTier = "critical"
	RootMajor    RootCauseTier = "major"
	RootMinor    RootCauseTier = "minor"
	RootWeak     RootCauseTier = "weak"
)

// ClassifyRootImpact applies the fixed total-impact thresholds.
func ClassifyRootImpact(totalImpact float64) RootCauseTier {
	switch {
	case totalImpact >= 0.4:
		return RootCritical
	case totalImpact >= 0.25:
		return RootMajor
	case totalImpact >= 0.1:
		return RootMinor
	default:
		return RootWeak
	}
}

// PathStrength buckets a single path's impact.
type PathStrength string

const (
	PathStrong PathStrength = "strong"
	PathMedium PathStrength = "medium"
	PathWeak   PathStrength = "weak"
)

// ClassifyPathStrength applies the fixed path-impact thresholds.
func ClassifyPathStrength(impact float64) PathStrength {
	switch {
	case impact >= 0.4:
		return PathStrong
	case impact >= 0.2:
		return PathMedium
	default:
		return PathWeak
	}
}

// Path is a simple directed node sequence from a root to the target.
// Impact is the product of the edge weights along it.
type Path struct {
	Nodes    []string     `json:"nodes"`
	Edges    []Edge       `json:"edges"`
	Impact   float64      `json:"impact"`
	Strength PathStrength `json:"strength"`
}

// RootCause is an in-degree-zero node whose cumulative path impact to the
// target meets the minimum causal-strength threshold.
type RootCause struct {
	Name        string        `json:"name"`
	TotalImpact float64       `json:"total_impact"`
	Tier        RootCauseTier `json:"tier"`
	Paths       []Path        `json:"paths"` // sorted by impact descending; Paths[0] is representative
}

// Warning is a non-fatal condition collected during graph construction or
// traversal. The affected branch is omitted from results rather than aborting
// the analysis.
type Warning struct {
	Stage   string `json:"stage"` // "subfactor", "traversal", "attribution"
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Request carries one root-cause invocation's inputs.
type Request struct {
	Target       string                          `json:"target"`
	TargetValues []float64                       `json:"target_values"`
	Factors      map[string][]float64            `json:"factors"`
	SubFactors   map[string]map[string][]float64 `json:"subfactors,omitempty"`
	Known        []KnownRelationship             `json:"known_relationships,omitempty"`
	Periods      []string                        `json:"periods,omitempty"`
	Method       attribution.Method              `json:"method,omitempty"`
}

// Result is a complete root-cause analysis outcome.
type Result struct {
	Target           string                      `json:"target"`
	Method           attribution.Method          `json:"method"`
	Depth            int                         `json:"depth"`
	Attribution      *attribution.Result         `json:"attribution"`
	RootCauses       []RootCause                 `json:"root_causes"`
	CriticalPaths    []Path                      `json:"critical_paths"` // one representative path per root, ranked
	ExplanationPower float64                     `json:"explanation_power"`
	Confidence       attribution.ConfidenceLevel `json:"confidence"`
	Warnings         []Warning                   `json:"warnings,omitempty"`
}
