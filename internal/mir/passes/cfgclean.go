package passes

import (
	"slices"

	"github.com/you-not-fish/machir/internal/analysis"
	"github.com/you-not-fish/machir/internal/logger"
	"github.com/you-not-fish/machir/internal/mir"
)

// FixEdges drops successor edges that no terminator can take. Blocks whose
// terminators cannot be analyzed are left alone.
func FixEdges(f *mir.Func) bool {
	changed := false
	for b := range f.Blocks() {
		bi, ok := b.AnalyzeBranch()
		if !ok {
			continue
		}
		before := b.NumSuccs()
		if b.CorrectExtraCFGEdges(bi.True, bi.False, bi.Conditional) {
			logger.LogEdgeFix(f.Name, b.String(), before, b.NumSuccs())
			changed = true
		}
	}
	return changed
}

// RemoveUnreachable deletes the blocks that cannot be reached from the
// entry block and renumbers the survivors.
func RemoveUnreachable(f *mir.Func) bool {
	entry := f.Entry()
	if entry == nil {
		return false
	}
	live := analysis.Reachable(mir.CFG{}, entry)

	var dead []*mir.Block
	for b := range f.Blocks() {
		if !live[b] {
			dead = append(dead, b)
		}
	}
	for _, b := range dead {
		f.DeleteBlock(b)
	}
	if len(dead) == 0 {
		return false
	}
	f.RenumberBlocks()
	return true
}

// ThreadJumps retargets branches into a block that holds nothing but an
// unconditional jump so that they go straight to the jump's destination.
func ThreadJumps(f *mir.Func) bool {
	changed := false
	for t := range f.Blocks() {
		dest := forwardingTarget(f, t)
		if dest == nil {
			continue
		}
		for _, p := range slices.Clone(t.Preds()) {
			if p == t || !branchesExplicitly(p, t) {
				continue
			}
			p.ReplaceUsesOfBlockWith(t, dest)
			changed = true
		}
	}
	return changed
}

// forwardingTarget returns the destination of t if t is a lone "jmp dest".
func forwardingTarget(f *mir.Func, t *mir.Block) *mir.Block {
	if t.Len() != 1 || t.IsLandingPad() || t == f.Entry() {
		return nil
	}
	i := t.Front()
	if i.Op != mir.OpJmp {
		return nil
	}
	dest := i.Target()
	if dest == nil || dest == t {
		return nil
	}
	return dest
}

// branchesExplicitly reports whether every way from p into t is a branch
// operand, so that rewriting the operands reroutes all of them.
func branchesExplicitly(p, t *mir.Block) bool {
	named := false
	for i := range p.Terminators() {
		if i.IsBranch() && slices.ContainsFunc(i.Operands, func(o mir.Operand) bool {
			return o.Kind == mir.OperandBlock && o.Block == t
		}) {
			named = true
		}
	}
	if !named {
		return false
	}
	return p.LayoutNext() != t || !p.CanFallThrough()
}

// MergeBlocks folds a block into its only predecessor when that
// predecessor has no other successor.
func MergeBlocks(f *mir.Func) bool {
	changed := false
	for b := f.Entry(); b != nil; b = b.LayoutNext() {
		for {
			s := mergeCandidate(f, b)
			if s == nil {
				break
			}
			b.RemoveBranch()
			b.Splice(b.End(), s, s.Begin(), s.End())
			b.RemoveSuccessor(s)
			b.TransferSuccessors(s)
			f.DeleteBlock(s)
			changed = true
		}
	}
	if changed {
		f.RenumberBlocks()
	}
	return changed
}

// mergeCandidate returns the successor that can be merged into b, or nil.
func mergeCandidate(f *mir.Func, b *mir.Block) *mir.Block {
	if b.NumSuccs() != 1 {
		return nil
	}
	s := b.Succs()[0]
	if s == b || s == f.Entry() || s.NumPreds() != 1 || s.IsLandingPad() {
		return nil
	}
	bi, ok := b.AnalyzeBranch()
	if !ok || bi.Conditional {
		return nil
	}
	if bi.True == nil && b.LayoutNext() != s {
		return nil
	}
	if bi.True != nil && bi.True != s {
		return nil
	}
	// s's own fall-through must survive the merge.
	if s.CanFallThrough() && b.LayoutNext() != s {
		return nil
	}
	return s
}

// LiveIns recomputes the live-in registers of every block.
func LiveIns(f *mir.Func) bool {
	return analysis.ComputeLiveIns(f) > 0
}
