package main

import (
	"sort"

	"github.com/you-not-fish/machir/internal/mir"
)

// irBlock names the source-level block a sample block was lowered from.
type irBlock string

func (b irBlock) Name() string { return string(b) }

// sample builds a machine function that exercises part of the pipeline.
type sample struct {
	desc  string
	build func() *mir.Func
}

var samples = map[string]sample{
	"diamond": {"if/else joining in a merge block, with a stale entry->merge edge", buildDiamond},
	"loop":    {"counted loop with a forwarding latch and scrambled layout", buildLoop},
	"eh":      {"call with an exception landing pad", buildEH},
	"forward": {"straight-line chain with an unreachable block", buildForward},
}

// sampleNames returns the sample names in sorted order.
func sampleNames() []string {
	names := make([]string, 0, len(samples))
	for name := range samples {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// builder is a small helper for writing samples.
type builder struct {
	f *mir.Func
}

func (bl builder) block(name string) *mir.Block {
	b := bl.f.CreateBlock(irBlock(name))
	bl.f.Append(b)
	return b
}

func (bl builder) emit(b *mir.Block, op mir.Opcode, operands ...mir.Operand) {
	b.PushBack(bl.f.NewInstr(op, operands...))
}

func r(n uint32) mir.Operand { return mir.RegOp(mir.Reg(n)) }

// buildDiamond:
//
//	entry: if r1 < r2 goto then else else
//	then:  r4 = 1
//	else:  r4 = 2
//	merge: r0 = r4 + r1; ret r0
func buildDiamond() *mir.Func {
	bl := builder{mir.NewFunc("diamond")}
	entry := bl.block("entry")
	then := bl.block("if.then")
	els := bl.block("if.else")
	merge := bl.block("if.end")

	bl.emit(entry, mir.OpCmp, r(3), r(1), r(2))
	bl.emit(entry, mir.OpJcc, r(3), mir.BlockOp(then))
	bl.emit(entry, mir.OpJmp, mir.BlockOp(els))
	entry.AddSuccessor(then)
	entry.AddSuccessor(els)
	entry.AddSuccessor(merge) // left over from an earlier rewrite

	bl.emit(then, mir.OpMovImm, r(4), mir.ImmOp(1))
	bl.emit(then, mir.OpJmp, mir.BlockOp(merge))
	then.AddSuccessor(merge)

	bl.emit(els, mir.OpMovImm, r(4), mir.ImmOp(2))
	bl.emit(els, mir.OpJmp, mir.BlockOp(merge))
	els.AddSuccessor(merge)

	bl.emit(merge, mir.OpAdd, r(0), r(4), r(1))
	bl.emit(merge, mir.OpRet, r(0))
	return bl.f
}

// buildLoop lays out entry, exit, body, header, latch in that order; the
// latch only jumps back to the header.
func buildLoop() *mir.Func {
	bl := builder{mir.NewFunc("loop")}
	entry := bl.block("entry")
	exit := bl.block("for.end")
	body := bl.block("for.body")
	header := bl.block("for.cond")
	latch := bl.block("for.inc")

	bl.emit(entry, mir.OpMovImm, r(1), mir.ImmOp(0))
	bl.emit(entry, mir.OpMovImm, r(2), mir.ImmOp(10))
	bl.emit(entry, mir.OpJmp, mir.BlockOp(header))
	entry.AddSuccessor(header)

	bl.emit(header, mir.OpCmp, r(3), r(1), r(2))
	bl.emit(header, mir.OpJcc, r(3), mir.BlockOp(body))
	bl.emit(header, mir.OpJmp, mir.BlockOp(exit))
	header.AddSuccessor(body)
	header.AddSuccessor(exit)

	bl.emit(body, mir.OpAdd, r(1), r(1), r(5))
	bl.emit(body, mir.OpJmp, mir.BlockOp(latch))
	body.AddSuccessor(latch)

	bl.emit(latch, mir.OpJmp, mir.BlockOp(header))
	latch.AddSuccessor(header)

	bl.emit(exit, mir.OpRet, r(1))
	return bl.f
}

// buildEH calls a function that may unwind into a landing pad.
func buildEH() *mir.Func {
	bl := builder{mir.NewFunc("eh")}
	entry := bl.block("entry")
	cont := bl.block("invoke.cont")
	lpad := bl.block("lpad")
	lpad.SetIsLandingPad()
	lpad.SetUnwindRegs(mir.Reg(10))

	bl.emit(entry, mir.OpCall, mir.ImmOp(1), r(1))
	bl.emit(entry, mir.OpJmp, mir.BlockOp(cont))
	entry.AddSuccessor(cont)
	entry.AddSuccessor(lpad)

	bl.emit(cont, mir.OpRet)

	bl.emit(lpad, mir.OpMov, r(1), r(10))
	bl.emit(lpad, mir.OpCall, mir.ImmOp(2), r(1))
	bl.emit(lpad, mir.OpTrap)
	return bl.f
}

// buildForward is a chain of blocks joined by jumps and fall-throughs,
// followed by a block nothing reaches.
func buildForward() *mir.Func {
	bl := builder{mir.NewFunc("forward")}
	entry := bl.block("entry")
	a := bl.block("a")
	b := bl.block("b")
	dead := bl.block("dead")

	bl.emit(entry, mir.OpMovImm, r(1), mir.ImmOp(7))
	entry.AddSuccessor(a) // falls through

	bl.emit(a, mir.OpAdd, r(1), r(1), r(1))
	bl.emit(a, mir.OpJmp, mir.BlockOp(b))
	a.AddSuccessor(b)

	bl.emit(b, mir.OpRet, r(1))

	bl.emit(dead, mir.OpMovImm, r(2), mir.ImmOp(0))
	bl.emit(dead, mir.OpJmp, mir.BlockOp(b))
	dead.AddSuccessor(b)
	return bl.f
}
