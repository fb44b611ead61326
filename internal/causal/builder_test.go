package causal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	attrdomain "gocause/domain/attribution"
	domain "gocause/domain/causal"
)

func ramp(n int, scale float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = scale * float64(i+1)
	}
	return out
}

// contrast has exactly zero correlation with any linear ramp.
func contrast(n int) []float64 {
	pattern := []float64{1, -1, -1, 1}
	out := make([]float64, n)
	for i := range out {
		out[i] = pattern[i%4]
	}
	return out
}

func attrResultFixture(target string, factors []attrdomain.FactorAttribution) *attrdomain.Result {
	return &attrdomain.Result{
		Target:         target,
		Method:         attrdomain.MethodLinear,
		Factors:        factors,
		TotalExplained: 0.9,
	}
}

func TestBuildGraph_DirectEdgeThreshold(t *testing.T) {
	r := NewRootCauseAnalyzer()
	attrResult := attrResultFixture("revenue", []attrdomain.FactorAttribution{
		{Name: "traffic", Contribution: 0.5, Direction: attrdomain.DirectionPositive},
		{Name: "pricing", Contribution: 0.25, Direction: attrdomain.DirectionNegative},
		{Name: "weather", Contribution: 0.15, Direction: attrdomain.DirectionPositive},
	})

	g, warnings := r.buildGraph(context.Background(), domain.Request{Target: "revenue"}, attrResult)
	assert.Empty(t, warnings)

	edge, ok := g.Edge("traffic", "revenue")
	require.True(t, ok)
	assert.Equal(t, 0.5, edge.Weight)
	assert.Equal(t, domain.EdgeDirect, edge.Kind)

	_, ok = g.Edge("pricing", "revenue")
	assert.True(t, ok)

	// 0.15 is below the default causal-strength threshold.
	assert.False(t, g.HasNode("weather"))
}

func TestBuildGraph_KnownRelationshipDefaults(t *testing.T) {
	r := NewRootCauseAnalyzer()
	attrResult := attrResultFixture("revenue", nil)

	req := domain.Request{
		Target: "revenue",
		Known: []domain.KnownRelationship{
			{Source: "season", Dest: "demand"},                          // defaults apply
			{Source: "fx_rate", Dest: "revenue", Strength: 0.1},         // below threshold
			{Source: "demand", Dest: "revenue", Strength: 0.6, Direction: attrdomain.DirectionNegative},
			{Source: "", Dest: "revenue", Strength: 0.9},                // malformed
		},
	}
	g, _ := r.buildGraph(context.Background(), req, attrResult)

	edge, ok := g.Edge("season", "demand")
	require.True(t, ok)
	assert.Equal(t, 0.5, edge.Weight)
	assert.Equal(t, attrdomain.DirectionPositive, edge.Direction)
	assert.Equal(t, domain.EdgeKnown, edge.Kind)

	_, ok = g.Edge("fx_rate", "revenue")
	assert.False(t, ok)

	edge, ok = g.Edge("demand", "revenue")
	require.True(t, ok)
	assert.Equal(t, attrdomain.DirectionNegative, edge.Direction)

	node, ok := g.Node("season")
	require.True(t, ok)
	assert.Equal(t, domain.NodeExternal, node.Kind)
}

func TestBuildGraph_InferredEdgeDirection(t *testing.T) {
	r := NewRootCauseAnalyzer()
	n := 12

	factors := map[string][]float64{
		"capacity": ramp(n, 1),
		"staffing": ramp(n, 2), // perfectly correlated with capacity
		"noise":    contrast(n),
	}
	attrResult := attrResultFixture("output", []attrdomain.FactorAttribution{
		{Name: "capacity", Contribution: 0.5, Direction: attrdomain.DirectionPositive},
		{Name: "staffing", Contribution: 0.3, Direction: attrdomain.DirectionPositive},
	})

	g, _ := r.buildGraph(context.Background(), domain.Request{Target: "output", Factors: factors}, attrResult)

	// The stronger direct contributor is inferred to influence the weaker.
	edge, ok := g.Edge("capacity", "staffing")
	require.True(t, ok)
	assert.Equal(t, domain.EdgeInferred, edge.Kind)
	assert.InDelta(t, 1.0, edge.Weight, 1e-9)

	_, ok = g.Edge("staffing", "capacity")
	assert.False(t, ok)

	// The uncorrelated factor never enters the graph.
	assert.False(t, g.HasNode("noise"))
}

func TestBuildGraph_InferredNeedsThreeFactors(t *testing.T) {
	r := NewRootCauseAnalyzer()
	n := 12
	factors := map[string][]float64{
		"capacity": ramp(n, 1),
		"staffing": ramp(n, 2),
	}
	attrResult := attrResultFixture("output", []attrdomain.FactorAttribution{
		{Name: "capacity", Contribution: 0.5, Direction: attrdomain.DirectionPositive},
		{Name: "staffing", Contribution: 0.3, Direction: attrdomain.DirectionPositive},
	})

	g, _ := r.buildGraph(context.Background(), domain.Request{Target: "output", Factors: factors}, attrResult)
	_, ok := g.Edge("capacity", "staffing")
	assert.False(t, ok)
}

func TestBuildGraph_SubfactorEdges(t *testing.T) {
	r := NewRootCauseAnalyzer()
	n := 12

	parent := ramp(n, 3)
	factors := map[string][]float64{"conversion": parent}
	subs := map[string]map[string][]float64{
		"conversion": {
			"page_speed": ramp(n, 1.5), // drives the parent exactly
			"jitter":     contrast(n),
		},
	}
	attrResult := attrResultFixture("revenue", []attrdomain.FactorAttribution{
		{Name: "conversion", Contribution: 0.6, Direction: attrdomain.DirectionPositive},
	})

	req := domain.Request{Target: "revenue", Factors: factors, SubFactors: subs}
	g, warnings := r.buildGraph(context.Background(), req, attrResult)
	assert.Empty(t, warnings)

	edge, ok := g.Edge("page_speed", "conversion")
	require.True(t, ok)
	assert.Equal(t, domain.EdgeSubfactor, edge.Kind)
	assert.InDelta(t, 1.0, edge.Weight, 1e-9)

	node, ok := g.Node("page_speed")
	require.True(t, ok)
	assert.Equal(t, domain.NodeSubfactor, node.Kind)

	assert.False(t, g.HasNode("jitter"))
}

func TestBuildGraph_SubfactorFailureIsWarning(t *testing.T) {
	r := NewRootCauseAnalyzer()
	n := 12

	factors := map[string][]float64{"conversion": ramp(n, 3)}
	subs := map[string]map[string][]float64{
		"conversion": {
			"page_speed": ramp(n-2, 1), // length mismatch against the parent
		},
	}
	attrResult := attrResultFixture("revenue", []attrdomain.FactorAttribution{
		{Name: "conversion", Contribution: 0.6, Direction: attrdomain.DirectionPositive},
	})

	req := domain.Request{Target: "revenue", Factors: factors, SubFactors: subs}
	g, warnings := r.buildGraph(context.Background(), req, attrResult)

	require.Len(t, warnings, 1)
	assert.Equal(t, "subfactor", warnings[0].Stage)
	assert.Equal(t, "conversion", warnings[0].Subject)

	// The failed branch is skipped, the rest of the graph stands.
	_, ok := g.Edge("conversion", "revenue")
	assert.True(t, ok)
	assert.False(t, g.HasNode("page_speed"))
}
