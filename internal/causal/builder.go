package causal

import (
	"context"
	"math"
	"sort"

	attrdomain "gocause/domain/attribution"
	domain "gocause/domain/causal"
	"gocause/internal/preprocess"
)

// buildGraph assembles the causal graph in four passes: direct edges from the
// top-level attribution, sub-factor edges from recursive attribution, known
// relationships, and inferred edges among strongly correlated factors.
func (r *RootCauseAnalyzer) buildGraph(ctx context.Context, req domain.Request, attrResult *attrdomain.Result) (*domain.Graph, []domain.Warning) {
	g := domain.NewGraph()
	g.AddNode(req.Target, domain.NodeTarget)

	// Direct edges: only factors at or above the causal-strength threshold
	// enter the graph at all.
	for _, f := range attrResult.Factors {
		if f.Contribution < r.minStrength {
			continue
		}
		g.AddNode(f.Name, domain.NodeFactor)
		g.AddEdge(domain.Edge{
			Source:    f.Name,
			Dest:      req.Target,
			Weight:    f.Contribution,
			Kind:      domain.EdgeDirect,
			Direction: f.Direction,
		})
	}

	warnings := r.addSubfactorEdges(ctx, g, req)
	r.addKnownEdges(g, req.Known)
	r.addInferredEdges(g, req.Target, req.Factors)
	return g, warnings
}

// addSubfactorEdges runs attribution recursively for each factor with
// declared sub-factors, using the factor's own series as the target.
// Recursion failures are collected as warnings and the branch skipped; they
// never abort the overall build.
func (r *RootCauseAnalyzer) addSubfactorEdges(ctx context.Context, g *domain.Graph, req domain.Request) []domain.Warning {
	var warnings []domain.Warning

	parents := make([]string, 0, len(req.SubFactors))
	for name := range req.SubFactors {
		parents = append(parents, name)
	}
	sort.Strings(parents)

	for _, parent := range parents {
		subs := req.SubFactors[parent]
		parentSeries, hasSeries := req.Factors[parent]
		if len(subs) == 0 || !hasSeries || !g.HasNode(parent) {
			continue
		}
		if _, ok := g.Edge(parent, req.Target); !ok {
			continue
		}

		subResult, err := r.analyzer.Analyze(ctx, attrdomain.Request{
			Target:       parent,
			TargetValues: parentSeries,
			Factors:      subs,
			Method:       req.Method,
		})
		if err != nil {
			r.logger.Warn("sub-factor attribution for %q failed: %v", parent, err)
			warnings = append(warnings, domain.Warning{
				Stage:   "subfactor",
				Subject: parent,
				Message: err.Error(),
			})
			continue
		}
		for _, w := range subResult.Warnings {
			warnings = append(warnings, domain.Warning{Stage: "subfactor", Subject: parent, Message: w})
		}

		for _, sub := range subResult.Factors {
			if sub.Contribution < r.minStrength {
				continue
			}
			g.AddNode(sub.Name, domain.NodeSubfactor)
			g.AddEdge(domain.Edge{
				Source:    sub.Name,
				Dest:      parent,
				Weight:    sub.Contribution,
				Kind:      domain.EdgeSubfactor,
				Direction: sub.Direction,
			})
		}
	}
	return warnings
}

// addKnownEdges merges externally supplied relationships. New endpoints enter
// the graph as external nodes; existing nodes keep their original kind.
func (r *RootCauseAnalyzer) addKnownEdges(g *domain.Graph, known []domain.KnownRelationship) {
	for _, rel := range known {
		if rel.Source == "" || rel.Dest == "" {
			continue
		}
		strength := rel.Strength
		if strength == 0 {
			strength = 0.5
		}
		if strength < r.minStrength {
			continue
		}
		direction := rel.Direction
		if direction == "" {
			direction = attrdomain.DirectionPositive
		}
		g.AddNode(rel.Source, domain.NodeExternal)
		g.AddNode(rel.Dest, domain.NodeExternal)
		g.AddEdge(domain.Edge{
			Source:    rel.Source,
			Dest:      rel.Dest,
			Weight:    strength,
			Kind:      domain.EdgeKnown,
			Direction: direction,
		})
	}
}

// addInferredEdges infers edges among top-level factors from pairwise
// correlation. Only pairs where both factors already carry a direct edge to
// the target participate; the edge runs from the factor with the larger
// direct-edge weight to the one with the smaller, treating the weaker factor
// as influenced by the stronger. Pairs with equal weights are skipped.
func (r *RootCauseAnalyzer) addInferredEdges(g *domain.Graph, target string, factors map[string][]float64) {
	if len(factors) < 3 {
		return
	}
	threshold := math.Max(inferredCorrelationFloor, r.minStrength)

	names := make([]string, 0, len(factors))
	for name := range factors {
		names = append(names, name)
	}
	sort.Strings(names)

	imputed := make(map[string][]float64, len(names))
	for _, name := range names {
		imputed[name] = preprocess.ImputeMean(factors[name])
	}

	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			corr := preprocess.Correlation(imputed[names[i]], imputed[names[j]])
			if math.Abs(corr) < threshold {
				continue
			}
			edgeI, okI := g.Edge(names[i], target)
			edgeJ, okJ := g.Edge(names[j], target)
			if !okI || !okJ {
				continue
			}

			var source, dest string
			switch {
			case edgeI.Weight > edgeJ.Weight:
				source, dest = names[i], names[j]
			case edgeJ.Weight > edgeI.Weight:
				source, dest = names[j], names[i]
			default:
				continue
			}
			g.AddEdge(domain.Edge{
				Source:    source,
				Dest:      dest,
				Weight:    math.Abs(corr),
				Kind:      domain.EdgeInferred,
				Direction: attrdomain.DirectionOf(corr),
			})
		}
	}
}
