package causal

// Graph is an in-memory directed causal graph. A fresh instance is built for
// every analysis call; nothing is shared between calls, so concurrent callers
// each operate on independent graphs without locking.
//
// Node and edge iteration follows insertion order to keep results
// deterministic across repeated calls with identical inputs.
type Graph struct {
	nodes    map[string]*Node
	order    []string
	outEdges map[string][]*Edge
	inEdges  map[string][]*Edge
	edgeIdx  map[[2]string]*Edge
}

// NewGraph creates an empty causal graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		outEdges: make(map[string][]*Edge),
		inEdges:  make(map[string][]*Edge),
		edgeIdx:  make(map[[2]string]*Edge),
	}
}

// AddNode inserts a node if absent. The first kind registered for an ID wins,
// so a factor later referenced by a known relationship keeps its factor kind.
func (g *Graph) AddNode(id string, kind NodeKind) *Node {
	if n, ok := g.nodes[id]; ok {
		return n
	}
	n := &Node{ID: id, Kind: kind}
	g.nodes[id] = n
	g.order = append(g.order, id)
	return n
}

// HasNode reports whether a node exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// AddEdge inserts or replaces the edge source->dest. Both endpoints must
// already exist as nodes.
func (g *Graph) AddEdge(e Edge) {
	key := [2]string{e.Source, e.Dest}
	if existing, ok := g.edgeIdx[key]; ok {
		*existing = e
		return
	}
	stored := &e
	g.edgeIdx[key] = stored
	g.outEdges[e.Source] = append(g.outEdges[e.Source], stored)
	g.inEdges[e.Dest] = append(g.inEdges[e.Dest], stored)
}

// Edge returns the edge source->dest if present.
func (g *Graph) Edge(source, dest string) (Edge, bool) {
	if e, ok := g.edgeIdx[[2]string{source, dest}]; ok {
		return *e, true
	}
	return Edge{}, false
}

// OutEdges returns the edges leaving a node, in insertion order.
func (g *Graph) OutEdges(id string) []Edge {
	stored := g.outEdges[id]
	edges := make([]Edge, len(stored))
	for i, e := range stored {
		edges[i] = *e
	}
	return edges
}

// InDegree returns the number of edges pointing at a node.
func (g *Graph) InDegree(id string) int {
	return len(g.inEdges[id])
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	nodes := make([]Node, 0, len(g.order))
	for _, id := range g.order {
		nodes = append(nodes, *g.nodes[id])
	}
	return nodes
}

// Edges returns all edges in insertion order of their source nodes.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, len(g.edgeIdx))
	for _, id := range g.order {
		edges = append(edges, g.OutEdges(id)...)
	}
	return edges
}

// Roots returns the IDs of in-degree-zero nodes, excluding the given target,
// in insertion order. A node with any edge pointing at it is never a root.
func (g *Graph) Roots(exclude string) []string {
	var roots []string
	for _, id := range g.order {
		if id == exclude {
			continue
		}
		if g.InDegree(id) == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edgeIdx) }

// SimplePaths enumerates all simple directed paths from source to dest with at
// most maxEdges edges. The depth bound keeps enumeration from blowing up on
// dense graphs; combined with the capped candidate factor count it is the only
// guard the engine needs.
func (g *Graph) SimplePaths(source, dest string, maxEdges int) [][]string {
	if maxEdges <= 0 || !g.HasNode(source) || !g.HasNode(dest) {
		return nil
	}
	var paths [][]string
	onPath := map[string]bool{source: true}
	stack := []string{source}

	var walk func(current string)
	walk = func(current string) {
		if len(stack)-1 >= maxEdges {
			return
		}
		for _, e := range g.outEdges[current] {
			next := e.Dest
			if onPath[next] {
				continue
			}
			stack = append(stack, next)
			if next == dest {
				path := make([]string, len(stack))
				copy(path, stack)
				paths = append(paths, path)
			} else {
				onPath[next] = true
				walk(next)
				delete(onPath, next)
			}
			stack = stack[:len(stack)-1]
		}
	}
	walk(source)
	return paths
}
