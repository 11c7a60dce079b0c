package passes

import (
	"github.com/you-not-fish/machir/internal/analysis"
	"github.com/you-not-fish/machir/internal/logger"
	"github.com/you-not-fish/machir/internal/mir"
)

// LoopAlign is the alignment given to loop headers by Layout.
const LoopAlign = 16

// Layout orders the blocks of f in reverse post-order from the entry,
// leaving unreachable blocks at the end. Fall-throughs are made explicit
// before blocks move and jumps to the new layout successor are dropped
// afterwards, so the CFG is unchanged. Loop headers are aligned to
// LoopAlign.
//
// A block whose terminators AnalyzeBranch cannot describe but which may
// still fall through has no jump that could stand in for the fall-through.
// When f has such a block the order is left alone and only alignment is
// updated.
func Layout(f *mir.Func) bool {
	entry := f.Entry()
	if entry == nil {
		return false
	}

	if b := pinnedBlock(f); b != nil {
		logger.Debug("Layout pinned", "function", f.Name, "block", b.String())
		return alignLoopHeaders(f)
	}

	added := 0
	for b := range f.Blocks() {
		added += makeFallThroughExplicit(b)
	}

	moved := false
	order := analysis.ReversePostOrder(mir.CFG{}, entry)
	prev := order[0]
	for _, b := range order[1:] {
		if prev.LayoutNext() != b {
			b.MoveAfter(prev)
			moved = true
		}
		prev = b
	}

	dropped := 0
	for b := range f.Blocks() {
		dropped += dropJumpToNext(b)
	}

	aligned := alignLoopHeaders(f)

	if moved {
		f.RenumberBlocks()
	}
	return moved || aligned || added != dropped
}

// pinnedBlock returns the first block that falls through into its layout
// successor without a branch shape Layout can rewrite, or nil.
func pinnedBlock(f *mir.Func) *mir.Block {
	for b := range f.Blocks() {
		if _, ok := b.AnalyzeBranch(); !ok && b.CanFallThrough() && b.LayoutNext() != nil {
			return b
		}
	}
	return nil
}

func alignLoopHeaders(f *mir.Func) bool {
	aligned := false
	dt := analysis.ComputeDom(f)
	for _, h := range analysis.LoopHeaders(f, dt) {
		if h.Alignment() < LoopAlign {
			h.SetAlignment(LoopAlign)
			aligned = true
		}
	}
	return aligned
}

// makeFallThroughExplicit appends "jmp next" to a block that falls through
// into its layout successor.
func makeFallThroughExplicit(b *mir.Block) int {
	bi, ok := b.AnalyzeBranch()
	if !ok {
		return 0
	}
	next := b.LayoutNext()
	if next == nil || !b.IsSuccessor(next) {
		return 0
	}
	if bi.True != nil && (!bi.Conditional || bi.False != nil) {
		return 0
	}
	b.PushBack(b.Arena().NewInstr(mir.OpJmp, mir.BlockOp(next)))
	return 1
}

// dropJumpToNext erases a trailing "jmp next" when next is the layout
// successor.
func dropJumpToNext(b *mir.Block) int {
	last := b.Back()
	next := b.LayoutNext()
	if last == nil || next == nil || last.Op != mir.OpJmp || last.Target() != next {
		return 0
	}
	b.Erase(last.Pos())
	return 1
}
