package mir

import "iter"

// Graph is a read-only view of the CFG for generic graph algorithms.
// Children are the blocks reached by following an edge forward in the
// view, Parents those reached by following it backward.
type Graph interface {
	Children(b *Block) []*Block
	Parents(b *Block) []*Block
}

// CFG views the control flow graph along its edges.
type CFG struct{}

func (CFG) Children(b *Block) []*Block { return b.succs }
func (CFG) Parents(b *Block) []*Block  { return b.preds }

// Inverse views the control flow graph against its edges, so that an
// algorithm written for CFG computes the dual property (post-dominance
// instead of dominance, for example).
type Inverse struct{}

func (Inverse) Children(b *Block) []*Block { return b.preds }
func (Inverse) Parents(b *Block) []*Block  { return b.succs }

// SuccsBackward iterates over b's successors in reverse order.
func (b *Block) SuccsBackward() iter.Seq[*Block] { return backward(b.succs) }

// PredsBackward iterates over b's predecessors in reverse order.
func (b *Block) PredsBackward() iter.Seq[*Block] { return backward(b.preds) }

func backward(bs []*Block) iter.Seq[*Block] {
	return func(yield func(*Block) bool) {
		for i := len(bs) - 1; i >= 0; i-- {
			if !yield(bs[i]) {
				return
			}
		}
	}
}
