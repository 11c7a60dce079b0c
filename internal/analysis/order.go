// Package analysis implements read-only analyses over the machine CFG.
// Every algorithm walks the graph through a mir.Graph view, so the same
// code computes forward and inverse (post-) properties.
package analysis

import (
	"github.com/oleiade/lane"

	"github.com/you-not-fish/machir/internal/mir"
)

// dfsFrame is one entry of the explicit depth-first search stack.
type dfsFrame struct {
	b    *mir.Block
	next int // index of the next child to visit
}

// PostOrder returns the blocks reachable from roots in depth-first
// post-order, visiting roots in the given order and children in the order
// g lists them. Nil roots are ignored.
func PostOrder(g mir.Graph, roots ...*mir.Block) []*mir.Block {
	visited := make(map[*mir.Block]bool)
	var order []*mir.Block

	stack := lane.NewStack()
	for _, r := range roots {
		if r == nil || visited[r] {
			continue
		}
		visited[r] = true
		stack.Push(&dfsFrame{b: r})

		for !stack.Empty() {
			top := stack.Head().(*dfsFrame)
			children := g.Children(top.b)
			if top.next < len(children) {
				c := children[top.next]
				top.next++
				if !visited[c] {
					visited[c] = true
					stack.Push(&dfsFrame{b: c})
				}
				continue
			}
			stack.Pop()
			order = append(order, top.b)
		}
	}
	return order
}

// ReversePostOrder returns the blocks reachable from roots in reverse
// post-order. Unreachable blocks are excluded.
func ReversePostOrder(g mir.Graph, roots ...*mir.Block) []*mir.Block {
	order := PostOrder(g, roots...)
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order
}

// Reachable returns the set of blocks reachable from roots in g.
func Reachable(g mir.Graph, roots ...*mir.Block) map[*mir.Block]bool {
	set := make(map[*mir.Block]bool)
	for _, b := range PostOrder(g, roots...) {
		set[b] = true
	}
	return set
}
