package mir

import (
	"fmt"
	"strings"
)

// Reg is a physical register number. NoReg (0) is never a real register.
type Reg uint32

const NoReg Reg = 0

func (r Reg) String() string {
	if r == NoReg {
		return "%noreg"
	}
	return fmt.Sprintf("%%r%d", uint32(r))
}

// OperandKind says which field of an Operand is meaningful.
type OperandKind uint8

const (
	OperandReg OperandKind = iota
	OperandImm
	OperandBlock
)

// Operand is a single machine operand.
type Operand struct {
	Kind  OperandKind
	Reg   Reg
	Imm   int64
	Block *Block
}

// RegOp returns a register operand.
func RegOp(r Reg) Operand { return Operand{Kind: OperandReg, Reg: r} }

// ImmOp returns an immediate operand.
func ImmOp(v int64) Operand { return Operand{Kind: OperandImm, Imm: v} }

// BlockOp returns a branch target operand.
func BlockOp(b *Block) Operand { return Operand{Kind: OperandBlock, Block: b} }

func (o Operand) String() string {
	switch o.Kind {
	case OperandReg:
		return o.Reg.String()
	case OperandImm:
		return fmt.Sprintf("$%d", o.Imm)
	case OperandBlock:
		return o.Block.String()
	}
	return "?"
}

// Instr is a machine instruction. Instructions are allocated from an Arena
// and are linked into at most one Block at a time.
type Instr struct {
	Op       Opcode
	Operands []Operand

	id     InstrID
	gen    uint32
	state  slotState
	prev   InstrID
	next   InstrID
	parent *Block
}

// ID returns the arena slot of i.
func (i *Instr) ID() InstrID { return i.id }

// Pos returns the position of i within its block.
func (i *Instr) Pos() Pos { return Pos{id: i.id, gen: i.gen} }

// Parent returns the block containing i, or nil if i is detached.
func (i *Instr) Parent() *Block {
	if i.state != slotLinked {
		return nil
	}
	return i.parent
}

func (i *Instr) IsTerminator() bool { return i.Op.Info().Terminator }
func (i *Instr) IsBranch() bool     { return i.Op.Info().Branch }
func (i *Instr) IsReturn() bool     { return i.Op.Info().Return }
func (i *Instr) IsBarrier() bool    { return i.Op.Info().Barrier }
func (i *Instr) IsCall() bool       { return i.Op.Info().Call }

// IsConditionalBranch reports whether i is a branch that falls through
// when not taken.
func (i *Instr) IsConditionalBranch() bool {
	info := i.Op.Info()
	return info.Branch && info.Conditional
}

// IsUnconditionalBranch reports whether i always transfers control to a
// block operand.
func (i *Instr) IsUnconditionalBranch() bool {
	info := i.Op.Info()
	return info.Branch && !info.Conditional && i.Target() != nil
}

// Target returns the first block operand of i, or nil.
func (i *Instr) Target() *Block {
	for _, o := range i.Operands {
		if o.Kind == OperandBlock {
			return o.Block
		}
	}
	return nil
}

// ReplaceBlockOperand rewrites every block operand of i that refers to old
// so that it refers to new. It returns the number of operands changed.
func (i *Instr) ReplaceBlockOperand(old, new *Block) int {
	n := 0
	for k := range i.Operands {
		if i.Operands[k].Kind == OperandBlock && i.Operands[k].Block == old {
			i.Operands[k].Block = new
			n++
		}
	}
	return n
}

// Defs returns the registers written by i.
func (i *Instr) Defs() []Reg {
	var regs []Reg
	nd := i.Op.Info().Defs
	for k := 0; k < nd && k < len(i.Operands); k++ {
		if o := i.Operands[k]; o.Kind == OperandReg && o.Reg != NoReg {
			regs = append(regs, o.Reg)
		}
	}
	return regs
}

// Uses returns the registers read by i.
func (i *Instr) Uses() []Reg {
	var regs []Reg
	nd := i.Op.Info().Defs
	for k := nd; k < len(i.Operands); k++ {
		if o := i.Operands[k]; o.Kind == OperandReg && o.Reg != NoReg {
			regs = append(regs, o.Reg)
		}
	}
	return regs
}

// String returns the instruction in assembler-like syntax, e.g.
// "add %r1, %r2, %r3".
func (i *Instr) String() string {
	if len(i.Operands) == 0 {
		return i.Op.String()
	}
	ops := make([]string, len(i.Operands))
	for k, o := range i.Operands {
		ops[k] = o.String()
	}
	return i.Op.String() + " " + strings.Join(ops, ", ")
}
