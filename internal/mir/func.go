package mir

import (
	"fmt"
	"iter"
)

// Func is a machine function: the owner of its blocks, their layout order,
// their numbering, and the arena their instructions live in.
type Func struct {
	// Name is the function name.
	Name string

	arena *Arena

	// Layout order, doubly linked through Block.prev/next.
	head, tail *Block
	nblocks    int

	// numbering maps block numbers to blocks. Deleted blocks leave nil
	// holes until RenumberBlocks compacts it.
	numbering []*Block
}

// NewFunc creates an empty machine function.
func NewFunc(name string) *Func {
	return &Func{Name: name, arena: NewArena()}
}

// Arena returns the arena holding f's instructions.
func (f *Func) Arena() *Arena { return f.arena }

// CreateBlock allocates a block for f without attaching it to the layout.
// The block is unnumbered until Append or InsertBefore.
func (f *Func) CreateBlock(src SourceBlock) *Block {
	return NewBlock(f.arena, src)
}

// NewInstr allocates a detached instruction in f's arena.
func (f *Func) NewInstr(op Opcode, operands ...Operand) *Instr {
	return f.arena.NewInstr(op, operands...)
}

// DeleteInstr destroys a detached instruction.
func (f *Func) DeleteInstr(i *Instr) {
	f.arena.Free(i)
}

// Entry returns the first block in layout order, or nil if f has none.
func (f *Func) Entry() *Block { return f.head }

// NumBlocks returns the number of blocks attached to f.
func (f *Func) NumBlocks() int { return f.nblocks }

// NumBlockIDs returns one more than the largest block number handed out
// since the last RenumberBlocks. Liveness uses it to size its per-block
// tables.
func (f *Func) NumBlockIDs() int { return len(f.numbering) }

// BlockByNumber returns the attached block numbered n, or nil.
func (f *Func) BlockByNumber(n int) *Block {
	if n < 0 || n >= len(f.numbering) {
		return nil
	}
	return f.numbering[n]
}

// Blocks iterates over f's blocks in layout order. The yielded block may be
// moved or deleted during iteration; iteration continues with the block
// that followed it.
func (f *Func) Blocks() iter.Seq[*Block] {
	return func(yield func(*Block) bool) {
		for b := f.head; b != nil; {
			next := b.next
			if !yield(b) {
				return
			}
			b = next
		}
	}
}

// Append attaches b at the end of f's layout and numbers it.
func (f *Func) Append(b *Block) {
	f.InsertBefore(b, nil)
}

// InsertBefore attaches b in front of before, or at the end of the layout
// if before is nil, and numbers it.
func (f *Func) InsertBefore(b, before *Block) {
	if b.arena != f.arena {
		panic(fmt.Sprintf("mir.Func.InsertBefore: %s: block was not created by %s", b, f.Name))
	}
	if b.parent != nil {
		panic(fmt.Sprintf("mir.Func.InsertBefore: %s is already attached to %s", b, b.parent.Name))
	}
	if before != nil && before.parent != f {
		panic(fmt.Sprintf("mir.Func.InsertBefore: %s is not in %s", before, f.Name))
	}
	b.parent = f
	f.linkBefore(b, before)
	f.nblocks++
	b.SetNumber(len(f.numbering))
	f.numbering = append(f.numbering, b)
}

// RenumberBlocks assigns numbers 0..NumBlocks()-1 in layout order.
func (f *Func) RenumberBlocks() {
	f.numbering = f.numbering[:0]
	for b := f.head; b != nil; b = b.next {
		b.SetNumber(len(f.numbering))
		f.numbering = append(f.numbering, b)
	}
}

// DeleteBlock destroys b: its edges are removed on both sides, every
// instruction it still holds is destroyed, and it is detached from f.
// Branch operands elsewhere that still name b are the caller's concern.
// b must not be used afterwards.
func (f *Func) DeleteBlock(b *Block) {
	if b.arena != f.arena {
		panic(fmt.Sprintf("mir.Func.DeleteBlock: %s: block was not created by %s", b, f.Name))
	}
	for len(b.succs) > 0 {
		b.RemoveSuccessorAt(len(b.succs) - 1)
	}
	for len(b.preds) > 0 {
		b.preds[len(b.preds)-1].RemoveSuccessor(b)
	}
	b.Clear()
	b.liveIns = nil
	b.unwindRegs = nil

	if b.parent == f {
		f.unlink(b)
		f.nblocks--
		if b.number >= 0 && b.number < len(f.numbering) && f.numbering[b.number] == b {
			f.numbering[b.number] = nil
		}
		b.parent = nil
	}
	b.SetNumber(-1)

	f.arena.release(f.arena.at(b.sentinel))
	b.sentinel = noInstr
	b.arena = nil
}

func (f *Func) linkBefore(b, before *Block) {
	if before == nil {
		b.prev, b.next = f.tail, nil
		if f.tail != nil {
			f.tail.next = b
		} else {
			f.head = b
		}
		f.tail = b
		return
	}
	b.prev, b.next = before.prev, before
	if before.prev != nil {
		before.prev.next = b
	} else {
		f.head = b
	}
	before.prev = b
}

func (f *Func) unlink(b *Block) {
	if b.prev != nil {
		b.prev.next = b.next
	} else {
		f.head = b.next
	}
	if b.next != nil {
		b.next.prev = b.prev
	} else {
		f.tail = b.prev
	}
	b.prev, b.next = nil, nil
}

// String returns the function name.
func (f *Func) String() string { return f.Name }
