package mir

import (
	"fmt"
	"slices"
)

// Succs returns the successors of b. The slice is owned by b and must not
// be modified; use the edge mutators instead.
func (b *Block) Succs() []*Block { return b.succs }

// Preds returns the predecessors of b. The slice is owned by b and must not
// be modified.
func (b *Block) Preds() []*Block { return b.preds }

// NumSuccs returns the number of successor blocks.
func (b *Block) NumSuccs() int { return len(b.succs) }

// NumPreds returns the number of predecessor blocks.
func (b *Block) NumPreds() int { return len(b.preds) }

// AddSuccessor adds s as a successor of b and b as a predecessor of s.
// Edges are never duplicated: adding an existing successor does nothing.
func (b *Block) AddSuccessor(s *Block) {
	if b.IsSuccessor(s) {
		return
	}
	b.succs = append(b.succs, s)
	s.preds = append(s.preds, b)
	if debugChecks {
		assertEdges(b, s)
	}
}

// RemoveSuccessor removes the edge from b to s. It does nothing if s is
// not a successor of b.
func (b *Block) RemoveSuccessor(s *Block) {
	i := slices.Index(b.succs, s)
	if i < 0 {
		return
	}
	b.RemoveSuccessorAt(i)
}

// RemoveSuccessorAt removes the i'th successor edge of b and returns the
// index of the successor that followed it, which is i.
func (b *Block) RemoveSuccessorAt(i int) int {
	if i < 0 || i >= len(b.succs) {
		panic(fmt.Sprintf("mir.Block.RemoveSuccessorAt: %s: index %d out of range [0,%d)", b, i, len(b.succs)))
	}
	s := b.succs[i]
	s.removePredecessor(b)
	b.succs = slices.Delete(b.succs, i, i+1)
	if debugChecks {
		assertEdges(b, s)
	}
	return i
}

// removePredecessor drops p from b's predecessor list without touching p's
// successors. Callers keep the other side in step.
func (b *Block) removePredecessor(p *Block) {
	i := slices.Index(b.preds, p)
	if i < 0 {
		panic(fmt.Sprintf("mir.Block.removePredecessor: %s is not a predecessor of %s", p, b))
	}
	b.preds = slices.Delete(b.preds, i, i+1)
}

// TransferSuccessors moves every successor edge of from to b. Afterwards
// from has no successors.
func (b *Block) TransferSuccessors(from *Block) {
	if from == b {
		return
	}
	for _, s := range from.succs {
		b.AddSuccessor(s)
	}
	for len(from.succs) > 0 {
		from.RemoveSuccessorAt(len(from.succs) - 1)
	}
}

// IsSuccessor reports whether s is a successor of b.
func (b *Block) IsSuccessor(s *Block) bool {
	return slices.Contains(b.succs, s)
}

// IsPredecessor reports whether p is a predecessor of b.
func (b *Block) IsPredecessor(p *Block) bool {
	return slices.Contains(b.preds, p)
}

// RewriteBranchTargets rewrites the block operands of b's terminators that
// refer to old so that they refer to new. The CFG edges are left alone.
// It returns the number of operands rewritten.
func (b *Block) RewriteBranchTargets(old, new *Block) int {
	n := 0
	for i := range b.Terminators() {
		n += i.ReplaceBlockOperand(old, new)
	}
	return n
}

// ReplaceUsesOfBlockWith retargets b's branches from old to new and swaps
// the edge b->old for b->new.
func (b *Block) ReplaceUsesOfBlockWith(old, new *Block) {
	b.RewriteBranchTargets(old, new)
	b.RemoveSuccessor(old)
	b.AddSuccessor(new)
}

// CorrectExtraCFGEdges removes the successor edges of b that its
// terminators cannot take. destA and destB are the only blocks b's branches
// can reach; either may be nil. A nil destination of a conditional branch's
// not-taken side, or of an unconditional block with no branch, means the
// layout successor. When isCond is false and both are given, destB is the
// fall-through block. Edges into landing pads are kept. It reports whether
// any edge was removed.
func (b *Block) CorrectExtraCFGEdges(destA, destB *Block, isCond bool) bool {
	fallThru := b.LayoutNext()
	if isCond {
		if destB == nil && fallThru != nil {
			destB = fallThru
		}
	} else if destA == nil && fallThru != nil {
		destA = fallThru
	}

	origA, origB := destA, destB
	changed := false
	for i := 0; i < len(b.succs); {
		s := b.succs[i]
		switch {
		case s == destA && destA != nil:
			destA = nil
			i++
		case s == destB && destB != nil:
			destB = nil
			i++
		case s.landingPad && s != origA && s != origB:
			i++
		default:
			i = b.RemoveSuccessorAt(i)
			changed = true
		}
	}
	return changed
}

// assertEdges panics if the edges between a and b are not symmetric.
func assertEdges(a, b *Block) {
	if countBlock(a.succs, b) != countBlock(b.preds, a) {
		panic(fmt.Sprintf("mir: asymmetric edge %s->%s: %d successor entries, %d predecessor entries",
			a, b, countBlock(a.succs, b), countBlock(b.preds, a)))
	}
}

func countBlock(bs []*Block, b *Block) int {
	n := 0
	for _, x := range bs {
		if x == b {
			n++
		}
	}
	return n
}
