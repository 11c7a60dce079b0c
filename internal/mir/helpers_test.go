package mir

import (
	"testing"
)

// srcBlock is a stand-in for a source-level block.
type srcBlock string

func (s srcBlock) Name() string { return string(s) }

// newTestFunc returns a function with one attached block per name, laid out
// in the given order.
func newTestFunc(names ...string) (*Func, []*Block) {
	f := NewFunc("test")
	blocks := make([]*Block, len(names))
	for i, name := range names {
		blocks[i] = f.CreateBlock(srcBlock(name))
		f.Append(blocks[i])
	}
	return f, blocks
}

// emit appends a new instruction to b.
func emit(b *Block, op Opcode, operands ...Operand) *Instr {
	i := b.Arena().NewInstr(op, operands...)
	b.PushBack(i)
	return i
}

func reg(n uint32) Operand { return RegOp(Reg(n)) }

// instrsOf returns b's instructions in program order.
func instrsOf(b *Block) []*Instr {
	var is []*Instr
	for i := range b.Instrs() {
		is = append(is, i)
	}
	return is
}

// layoutOf returns f's blocks in layout order.
func layoutOf(f *Func) []*Block {
	var bs []*Block
	for b := range f.Blocks() {
		bs = append(bs, b)
	}
	return bs
}

func sameInstrs(got, want []*Instr) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func sameBlocks(got, want []*Block) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// checkSymmetry fails the test if any pair of blocks has a successor entry
// without the matching predecessor entry.
func checkSymmetry(t *testing.T, blocks []*Block) {
	t.Helper()
	for _, a := range blocks {
		for _, b := range blocks {
			if ns, np := countBlock(a.succs, b), countBlock(b.preds, a); ns != np {
				t.Fatalf("edge %s->%s: %d successor entries, %d predecessor entries", a, b, ns, np)
			}
		}
	}
}

// mustPanic fails the test unless fn panics.
func mustPanic(t *testing.T, what string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s did not panic", what)
		}
	}()
	fn()
}
