package analysis

import "github.com/you-not-fish/machir/internal/mir"

// DomTree is a dominator tree over a mir.Graph view. Over mir.Inverse it
// is a post-dominator tree.
//
// Several roots are allowed (a function with many exits has many
// post-dominator roots); they hang off an implicit virtual root, which
// Idom reports as nil.
type DomTree struct {
	g     mir.Graph
	order []*mir.Block       // reverse post-order
	index map[*mir.Block]int // 1-based position in order; 0 is the virtual root
	idom  []int              // by index; idom[0] == 0

	dominees map[*mir.Block][]*mir.Block
}

// ComputeDom computes the dominator tree of f rooted at its entry block.
func ComputeDom(f *mir.Func) *DomTree {
	return Compute(mir.CFG{}, f.Entry())
}

// ComputePostDom computes the post-dominator tree of f. Its roots are the
// blocks without successors.
func ComputePostDom(f *mir.Func) *DomTree {
	var exits []*mir.Block
	for b := range f.Blocks() {
		if b.NumSuccs() == 0 {
			exits = append(exits, b)
		}
	}
	return Compute(mir.Inverse{}, exits...)
}

// Compute builds the dominator tree of g for the given roots using Cooper,
// Harvey, and Kennedy's "A Simple, Fast Dominance Algorithm".
func Compute(g mir.Graph, roots ...*mir.Block) *DomTree {
	rpo := ReversePostOrder(g, roots...)
	t := &DomTree{
		g:        g,
		order:    rpo,
		index:    make(map[*mir.Block]int, len(rpo)),
		idom:     make([]int, len(rpo)+1),
		dominees: make(map[*mir.Block][]*mir.Block),
	}
	for i, b := range rpo {
		t.index[b] = i + 1
	}

	// -1 marks blocks not processed yet. Roots hang off the virtual root.
	for i := range t.idom {
		t.idom[i] = -1
	}
	t.idom[0] = 0
	isRoot := make(map[*mir.Block]bool, len(roots))
	for _, r := range roots {
		if r != nil {
			isRoot[r] = true
			t.idom[t.index[r]] = 0
		}
	}

	// intersect finds the closest common dominator.
	intersect := func(a, b int) int {
		for a != b {
			for a > b {
				a = t.idom[a]
			}
			for b > a {
				b = t.idom[b]
			}
		}
		return a
	}

	// Iterate until convergence.
	changed := true
	for changed {
		changed = false
		for i, b := range rpo {
			if isRoot[b] {
				continue
			}
			n := i + 1
			newIdom := -1
			for _, p := range g.Parents(b) {
				pn, ok := t.index[p]
				if !ok || t.idom[pn] == -1 {
					continue
				}
				if newIdom == -1 {
					newIdom = pn
				} else {
					newIdom = intersect(pn, newIdom)
				}
			}
			if newIdom != -1 && t.idom[n] != newIdom {
				t.idom[n] = newIdom
				changed = true
			}
		}
	}

	// Build dominee lists from idom relationships.
	for _, b := range rpo {
		if d := t.Idom(b); d != nil {
			t.dominees[d] = append(t.dominees[d], b)
		}
	}
	return t
}

// Order returns the blocks covered by the tree in reverse post-order.
func (t *DomTree) Order() []*mir.Block { return t.order }

// Reachable reports whether b is reachable from the tree's roots.
func (t *DomTree) Reachable(b *mir.Block) bool {
	_, ok := t.index[b]
	return ok
}

// Idom returns the immediate dominator of b, or nil for roots and
// unreachable blocks.
func (t *DomTree) Idom(b *mir.Block) *mir.Block {
	n, ok := t.index[b]
	if !ok {
		return nil
	}
	d := t.idom[n]
	if d <= 0 {
		return nil
	}
	return t.order[d-1]
}

// Dominees returns the blocks immediately dominated by b.
func (t *DomTree) Dominees(b *mir.Block) []*mir.Block { return t.dominees[b] }

// Dominates reports whether a dominates b. Every reachable block dominates
// itself.
func (t *DomTree) Dominates(a, b *mir.Block) bool {
	if !t.Reachable(a) || !t.Reachable(b) {
		return false
	}
	for x := b; x != nil; x = t.Idom(x) {
		if x == a {
			return true
		}
	}
	return false
}

// Frontier computes the dominance frontier of every block in the tree.
func (t *DomTree) Frontier() map[*mir.Block][]*mir.Block {
	df := make(map[*mir.Block][]*mir.Block)

	for _, b := range t.order {
		parents := t.g.Parents(b)
		if len(parents) < 2 {
			continue
		}
		idom := t.Idom(b)
		for _, p := range parents {
			if !t.Reachable(p) {
				continue
			}
			for runner := p; runner != nil && runner != idom; runner = t.Idom(runner) {
				df[runner] = appendUnique(df[runner], b)
			}
		}
	}

	return df
}

// appendUnique appends b to list if not already present.
func appendUnique(list []*mir.Block, b *mir.Block) []*mir.Block {
	for _, x := range list {
		if x == b {
			return list
		}
	}
	return append(list, b)
}

// LoopHeaders returns the blocks of f that are the target of a back edge,
// an edge whose source the target dominates, in layout order.
func LoopHeaders(f *mir.Func, t *DomTree) []*mir.Block {
	var headers []*mir.Block
	for b := range f.Blocks() {
		for _, p := range b.Preds() {
			if t.Dominates(b, p) {
				headers = append(headers, b)
				break
			}
		}
	}
	return headers
}
