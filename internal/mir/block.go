package mir

import (
	"fmt"
	"math/bits"
)

// SourceBlock is the source-level block a machine block was lowered from.
// The machine IR never inspects it beyond naming it in dumps.
type SourceBlock interface {
	Name() string
}

// Block is a machine basic block: an ordered sequence of instructions
// plus its place in the function's control flow graph.
//
// Preds and Succs are kept symmetric by the edge mutators: b lists s as a
// successor exactly when s lists b as a predecessor. The block's position
// in its function's layout is independent of its edges.
type Block struct {
	arena    *Arena
	sentinel InstrID
	n        int // number of linked instructions

	preds []*Block
	succs []*Block

	// liveIns is sorted by register number and duplicate free.
	liveIns []Reg
	// unwindRegs are set by the unwinder on landing pads; same ordering.
	unwindRegs []Reg

	alignment  uint
	landingPad bool

	number int
	src    SourceBlock

	// parent is nil until the block is attached to a function's layout.
	parent     *Func
	prev, next *Block
}

// NewBlock creates a standalone block whose instructions are allocated from
// a. The block has number -1 and no parent function.
func NewBlock(a *Arena, src SourceBlock) *Block {
	b := &Block{
		arena:  a,
		number: -1,
		src:    src,
	}
	s := a.alloc(slotSentinel)
	s.prev, s.next = s.id, s.id
	s.parent = b
	b.sentinel = s.id
	return b
}

// String returns a short name such as "bb3", or "bb?" for an unnumbered
// block.
func (b *Block) String() string {
	if b == nil {
		return "<nil>"
	}
	if b.number < 0 {
		return "bb?"
	}
	return fmt.Sprintf("bb%d", b.number)
}

// Source returns the source-level block b was lowered from, or nil.
func (b *Block) Source() SourceBlock { return b.src }

// Parent returns the function b is attached to, or nil.
func (b *Block) Parent() *Func { return b.parent }

// Arena returns the arena that holds b's instructions.
func (b *Block) Arena() *Arena { return b.arena }

// Number returns the function-unique number of b, or -1 if b has not been
// numbered by a function.
func (b *Block) Number() int { return b.number }

// SetNumber sets the number of b. Numbering is owned by the function.
func (b *Block) SetNumber(n int) { b.number = n }

// Alignment returns the required alignment of b's first instruction in
// bytes. Zero means no requirement.
func (b *Block) Alignment() uint { return b.alignment }

// SetAlignment sets the alignment requirement of b. align must be zero or
// a power of two.
func (b *Block) SetAlignment(align uint) {
	if debugChecks && align != 0 && bits.OnesCount(align) != 1 {
		panic(fmt.Sprintf("mir.Block.SetAlignment: %s: alignment %d is not a power of two", b, align))
	}
	b.alignment = align
}

// IsLandingPad reports whether b is entered through exception dispatch.
func (b *Block) IsLandingPad() bool { return b.landingPad }

// SetIsLandingPad marks b as a landing pad. There is no way to clear the
// flag.
func (b *Block) SetIsLandingPad() { b.landingPad = true }
