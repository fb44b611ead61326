package causal

import (
	"sort"
	"strings"

	domain "gocause/domain/causal"
)

// identifyRootCauses finds in-degree-zero nodes, enumerates their bounded
// simple paths to the target and aggregates path impact. Roots with no path
// are skipped with a warning; roots whose total impact falls below the
// causal-strength threshold are omitted. Raising the threshold can only
// remove edges, so it can only shrink or preserve the root-cause set.
func (r *RootCauseAnalyzer) identifyRootCauses(g *domain.Graph, target string) ([]domain.RootCause, []domain.Warning) {
	var (
		rootCauses []domain.RootCause
		warnings   []domain.Warning
	)

	for _, root := range g.Roots(target) {
		nodePaths := g.SimplePaths(root, target, r.maxDepth)
		if len(nodePaths) == 0 {
			r.logger.Warn("root %q has no path to target %q within depth %d", root, target, r.maxDepth)
			warnings = append(warnings, domain.Warning{
				Stage:   "traversal",
				Subject: root,
				Message: "no path to target within depth bound",
			})
			continue
		}

		paths := make([]domain.Path, 0, len(nodePaths))
		totalImpact := 0.0
		for _, nodes := range nodePaths {
			path := assemblePath(g, nodes)
			totalImpact += path.Impact
			paths = append(paths, path)
		}
		if totalImpact < r.minStrength {
			continue
		}

		sort.SliceStable(paths, func(i, j int) bool {
			if paths[i].Impact != paths[j].Impact {
				return paths[i].Impact > paths[j].Impact
			}
			return strings.Join(paths[i].Nodes, "→") < strings.Join(paths[j].Nodes, "→")
		})

		rootCauses = append(rootCauses, domain.RootCause{
			Name:        root,
			TotalImpact: totalImpact,
			Tier:        domain.ClassifyRootImpact(totalImpact),
			Paths:       paths,
		})
	}

	sort.SliceStable(rootCauses, func(i, j int) bool {
		if rootCauses[i].TotalImpact != rootCauses[j].TotalImpact {
			return rootCauses[i].TotalImpact > rootCauses[j].TotalImpact
		}
		return rootCauses[i].Name < rootCauses[j].Name
	})
	return rootCauses, warnings
}

// assemblePath materializes a node sequence into a Path with its edges,
// cumulative impact (product of edge weights) and strength tier.
func assemblePath(g *domain.Graph, nodes []string) domain.Path {
	impact := 1.0
	edges := make([]domain.Edge, 0, len(nodes)-1)
	for i := 0; i < len(nodes)-1; i++ {
		edge, _ := g.Edge(nodes[i], nodes[i+1])
		impact *= edge.Weight
		edges = append(edges, edge)
	}
	return domain.Path{
		Nodes:    nodes,
		Edges:    edges,
		Impact:   impact,
		Strength: domain.ClassifyPathStrength(impact),
	}
}

// rankCriticalPaths selects the representative (highest-impact) path per root
// and ranks them by impact descending.
func rankCriticalPaths(rootCauses []domain.RootCause) []domain.Path {
	paths := make([]domain.Path, 0, len(rootCauses))
	for _, rc := range rootCauses {
		if len(rc.Paths) > 0 {
			paths = append(paths, rc.Paths[0])
		}
	}
	sort.SliceStable(paths, func(i, j int) bool {
		return paths[i].Impact > paths[j].Impact
	})
	return paths
}
