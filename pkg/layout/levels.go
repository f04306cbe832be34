package layout

import (
	"slices"

	"github.com/matzehuels/graphloom/pkg/graph"
)

// LevelMap maps a BFS depth to the node IDs placed at that depth, in visit
// order.
type LevelMap map[int][]string

// Levels assigns every node of g to a level by multi-source breadth-first
// search.
//
// Roots are the nodes that are no edge's target, in insertion order. When
// every node is a target (a cyclic graph) the first inserted node is used as
// the single root. The search follows edges from source to target in edge
// insertion order regardless of the edges' direction flags, and visits each
// node once: the first depth reached wins. Nodes the search never reaches are
// appended to level 0 in insertion order.
//
// An empty graph yields an empty map. Every node appears in exactly one level.
func Levels(g *graph.Graph) LevelMap {
	levels := make(LevelMap)
	ids := g.NodeIDs()
	if len(ids) == 0 {
		return levels
	}

	roots := g.Roots()
	if len(roots) == 0 {
		roots = ids[:1]
	}

	type item struct {
		id    string
		depth int
	}
	visited := make(map[string]bool, len(ids))
	queue := make([]item, 0, len(ids))
	for _, r := range roots {
		visited[r] = true
		queue = append(queue, item{r, 0})
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		levels[cur.depth] = append(levels[cur.depth], cur.id)

		for _, child := range g.Children(cur.id) {
			if visited[child] {
				continue
			}
			visited[child] = true
			queue = append(queue, item{child, cur.depth + 1})
		}
	}

	for _, id := range ids {
		if !visited[id] {
			levels[0] = append(levels[0], id)
		}
	}
	return levels
}

// Depths inverts the map into node ID → level.
func (m LevelMap) Depths() map[string]int {
	out := make(map[string]int)
	for lvl, ids := range m {
		for _, id := range ids {
			out[id] = lvl
		}
	}
	return out
}

// Order returns the levels present in ascending order.
func (m LevelMap) Order() []int {
	out := make([]int, 0, len(m))
	for lvl := range m {
		out = append(out, lvl)
	}
	slices.Sort(out)
	return out
}

// MaxLevel returns the deepest level, or 0 for an empty map.
func (m LevelMap) MaxLevel() int {
	maxLvl := 0
	for lvl := range m {
		maxLvl = max(maxLvl, lvl)
	}
	return maxLvl
}

// Widest returns the size of the most populated level.
func (m LevelMap) Widest() int {
	w := 0
	for _, ids := range m {
		w = max(w, len(ids))
	}
	return w
}

// Len returns the number of nodes across all levels.
func (m LevelMap) Len() int {
	n := 0
	for _, ids := range m {
		n += len(ids)
	}
	return n
}
