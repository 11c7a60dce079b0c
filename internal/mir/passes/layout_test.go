package passes

import (
	"slices"
	"testing"

	"github.com/you-not-fish/machir/internal/mir"
)

func layoutOf(f *mir.Func) []*mir.Block {
	var bs []*mir.Block
	for b := range f.Blocks() {
		bs = append(bs, b)
	}
	return bs
}

func opsOf(b *mir.Block) []mir.Opcode {
	var ops []mir.Opcode
	for i := range b.Instrs() {
		ops = append(ops, i.Op)
	}
	return ops
}

// edgeSnapshot records every block's successor list.
func edgeSnapshot(f *mir.Func) map[*mir.Block][]*mir.Block {
	m := map[*mir.Block][]*mir.Block{}
	for b := range f.Blocks() {
		m[b] = slices.Clone(b.Succs())
	}
	return m
}

// checkFallThroughs fails if a block can fall through into a block that is
// not its successor.
func checkFallThroughs(t *testing.T, f *mir.Func) {
	t.Helper()
	for b := range f.Blocks() {
		next := b.LayoutNext()
		if b.CanFallThrough() && next != nil && !b.IsSuccessor(next) {
			t.Errorf("%v falls through into %v, which is not a successor", b, next)
		}
	}
}

func TestLayoutLoop(t *testing.T) {
	f, bs := newFunc(4)
	entry, exit, body, header := bs[0], bs[1], bs[2], bs[3]

	emit(entry, mir.OpMovImm, r(1), mir.ImmOp(0))
	jmp(entry, header)
	emit(header, mir.OpCmp, r(3), r(1), r(2))
	emit(header, mir.OpJcc, r(3), mir.BlockOp(body))
	header.AddSuccessor(body)
	jmp(header, exit)
	emit(body, mir.OpAdd, r(1), r(1), r(5))
	jmp(body, header)
	emit(exit, mir.OpRet, r(1))
	edges := edgeSnapshot(f)

	if !Layout(f) {
		t.Fatalf("Layout reported no change")
	}

	if want := []*mir.Block{entry, header, exit, body}; !sameBlocks(layoutOf(f), want) {
		t.Errorf("layout = %v, want %v", layoutOf(f), want)
	}
	for i, b := range layoutOf(f) {
		if b.Number() != i {
			t.Errorf("%v has number %d, want %d", b, b.Number(), i)
		}
	}
	if header.Alignment() != LoopAlign {
		t.Errorf("header alignment = %d, want %d", header.Alignment(), LoopAlign)
	}
	if entry.Alignment() != 0 || body.Alignment() != 0 {
		t.Errorf("non-header blocks were aligned")
	}

	// Jumps to the new layout successor are gone.
	if want := []mir.Opcode{mir.OpMovImm}; !slices.Equal(opsOf(entry), want) {
		t.Errorf("entry = %v, want %v", opsOf(entry), want)
	}
	if want := []mir.Opcode{mir.OpCmp, mir.OpJcc}; !slices.Equal(opsOf(header), want) {
		t.Errorf("header = %v, want %v", opsOf(header), want)
	}
	if want := []mir.Opcode{mir.OpAdd, mir.OpJmp}; !slices.Equal(opsOf(body), want) {
		t.Errorf("body = %v, want %v", opsOf(body), want)
	}

	for b, succs := range edgeSnapshot(f) {
		if !sameBlocks(succs, edges[b]) {
			t.Errorf("%v succs = %v, want %v", b, succs, edges[b])
		}
	}
	checkFallThroughs(t, f)
	mustVerify(t, f)

	if Layout(f) {
		t.Errorf("second Layout reported a change")
	}
	if want := []mir.Opcode{mir.OpCmp, mir.OpJcc}; !slices.Equal(opsOf(header), want) {
		t.Errorf("second Layout left header = %v", opsOf(header))
	}
}

// TestLayoutKeepsFallThrough moves the fall-through target of a
// conditional branch away; the fall-through becomes an explicit jump.
func TestLayoutKeepsFallThrough(t *testing.T) {
	f, bs := newFunc(3)
	b0, b1, b2 := bs[0], bs[1], bs[2]

	emit(b0, mir.OpJcc, r(1), mir.BlockOp(b2))
	b0.AddSuccessor(b1)
	b0.AddSuccessor(b2)
	emit(b1, mir.OpRet)
	emit(b2, mir.OpRet)

	if !Layout(f) {
		t.Fatalf("Layout reported no change")
	}
	if want := []*mir.Block{b0, b2, b1}; !sameBlocks(layoutOf(f), want) {
		t.Errorf("layout = %v, want %v", layoutOf(f), want)
	}
	bi, ok := b0.AnalyzeBranch()
	if !ok || bi.True != b2 || bi.False != b1 {
		t.Errorf("b0 branch = %+v, %v; want jcc %v; jmp %v", bi, ok, b2, b1)
	}
	checkFallThroughs(t, f)
	mustVerify(t, f)
}

// TestLayoutPinsUnanalyzableFallThrough gives the entry two conditional
// branches followed by a fall-through into b. No jmp can be appended to
// such a block, so the order must stay put.
func TestLayoutPinsUnanalyzableFallThrough(t *testing.T) {
	f, bs := newFunc(4)
	a, b, c, d := bs[0], bs[1], bs[2], bs[3]

	emit(a, mir.OpJcc, r(1), mir.BlockOp(c))
	emit(a, mir.OpJcc, r(2), mir.BlockOp(d))
	a.AddSuccessor(b)
	a.AddSuccessor(c)
	a.AddSuccessor(d)
	emit(b, mir.OpRet)
	emit(c, mir.OpRet)
	jmp(d, d)
	edges := edgeSnapshot(f)

	if _, ok := a.AnalyzeBranch(); ok || !a.CanFallThrough() {
		t.Fatalf("entry is not an unanalyzable fall-through block")
	}
	if !Layout(f) {
		t.Errorf("Layout reported no change, want loop alignment")
	}

	if want := []*mir.Block{a, b, c, d}; !sameBlocks(layoutOf(f), want) {
		t.Errorf("layout = %v, want %v", layoutOf(f), want)
	}
	if a.LayoutNext() != b {
		t.Errorf("a falls through into %v, want %v", a.LayoutNext(), b)
	}
	if want := []mir.Opcode{mir.OpJcc, mir.OpJcc}; !slices.Equal(opsOf(a), want) {
		t.Errorf("a ops = %v, want %v", opsOf(a), want)
	}
	if want := []mir.Opcode{mir.OpJmp}; !slices.Equal(opsOf(d), want) {
		t.Errorf("d ops = %v, want %v", opsOf(d), want)
	}
	if d.Alignment() != LoopAlign {
		t.Errorf("d alignment = %d, want %d", d.Alignment(), LoopAlign)
	}
	for blk, succs := range edgeSnapshot(f) {
		if !sameBlocks(succs, edges[blk]) {
			t.Errorf("%v succs = %v, want %v", blk, succs, edges[blk])
		}
	}
	checkFallThroughs(t, f)
	mustVerify(t, f)
}

func TestLayoutUnreachableLast(t *testing.T) {
	f, bs := newFunc(3)
	b0, dead, b2 := bs[0], bs[1], bs[2]
	jmp(b0, b2)
	jmp(dead, b2)
	emit(b2, mir.OpRet)

	Layout(f)

	if want := []*mir.Block{b0, b2, dead}; !sameBlocks(layoutOf(f), want) {
		t.Errorf("layout = %v, want %v", layoutOf(f), want)
	}
	checkFallThroughs(t, f)
	mustVerify(t, f)
}

func TestLayoutEmpty(t *testing.T) {
	if Layout(mir.NewFunc("empty")) {
		t.Errorf("Layout changed an empty function")
	}
}

// TestDefaultPipeline runs every default pass over a diamond whose entry
// still carries a stale edge.
func TestDefaultPipeline(t *testing.T) {
	f, bs := newFunc(4)
	entry, then, els, merge := bs[0], bs[1], bs[2], bs[3]

	emit(entry, mir.OpCmp, r(3), r(1), r(2))
	emit(entry, mir.OpJcc, r(3), mir.BlockOp(then))
	entry.AddSuccessor(then)
	jmp(entry, els)
	entry.AddSuccessor(merge)
	emit(then, mir.OpMovImm, r(4), mir.ImmOp(1))
	jmp(then, merge)
	emit(els, mir.OpMovImm, r(4), mir.ImmOp(2))
	jmp(els, merge)
	emit(merge, mir.OpAdd, r(0), r(4), r(1))
	emit(merge, mir.OpRet, r(0))

	if err := Run(f, Default, Config{Verify: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if entry.IsSuccessor(merge) {
		t.Errorf("stale entry->merge edge survived")
	}
	if want := []*mir.Block{entry, els, then, merge}; !sameBlocks(layoutOf(f), want) {
		t.Errorf("layout = %v, want %v", layoutOf(f), want)
	}
	if want := []mir.Opcode{mir.OpCmp, mir.OpJcc}; !slices.Equal(opsOf(entry), want) {
		t.Errorf("entry = %v, want %v", opsOf(entry), want)
	}
	if want := []mir.Opcode{mir.OpMovImm}; !slices.Equal(opsOf(then), want) {
		t.Errorf("then = %v, want %v", opsOf(then), want)
	}
	if want := []mir.Reg{1, 4}; !slices.Equal(merge.LiveIns(), want) {
		t.Errorf("merge live-ins = %v, want %v", merge.LiveIns(), want)
	}
	if want := []mir.Reg{1, 2}; !slices.Equal(entry.LiveIns(), want) {
		t.Errorf("entry live-ins = %v, want %v", entry.LiveIns(), want)
	}
	checkFallThroughs(t, f)
}
