// Package mir implements the machine-level basic block used by the code
// generator: an ordered container of machine instructions together with its
// position in the function's control flow graph.
package mir

// Opcode identifies a machine instruction.
type Opcode int

const (
	OpInvalid Opcode = iota

	OpNop

	// Data movement
	OpMov    // Operands[0] = dst reg, Operands[1] = src reg
	OpMovImm // Operands[0] = dst reg, Operands[1] = imm
	OpLoad   // Operands[0] = dst reg, Operands[1] = base reg, Operands[2] = offset imm
	OpStore  // Operands[0] = src reg, Operands[1] = base reg, Operands[2] = offset imm

	// Arithmetic
	OpAdd // dst, lhs, rhs
	OpSub // dst, lhs, rhs
	OpMul // dst, lhs, rhs
	OpCmp // dst flag reg, lhs, rhs

	// Calls
	OpCall // Operands[0] = callee imm; Operands[1:] = argument regs

	// Terminators
	OpJmp    // unconditional branch; Operands[0] = target block
	OpJcc    // conditional branch; Operands[0] = cond reg, Operands[1] = target block
	OpJmpInd // indirect branch; Operands[0] = address reg
	OpRet    // return; Operands = returned regs
	OpTrap   // unreachable; no successors

	opCount // sentinel; must be last
)

// OpInfo holds static metadata about an opcode.
type OpInfo struct {
	Name        string
	Terminator  bool // ends a block; may only be followed by other terminators
	Branch      bool // transfers control to a block operand or computed address
	Conditional bool // may fall through when not taken
	Barrier     bool // control never falls through to the layout successor
	Return      bool
	Call        bool
	Defs        int // number of leading register operands written
}

var opInfoTable = [opCount]OpInfo{
	OpInvalid: {Name: "invalid"},
	OpNop:     {Name: "nop"},

	OpMov:    {Name: "mov", Defs: 1},
	OpMovImm: {Name: "movi", Defs: 1},
	OpLoad:   {Name: "load", Defs: 1},
	OpStore:  {Name: "store"},

	OpAdd: {Name: "add", Defs: 1},
	OpSub: {Name: "sub", Defs: 1},
	OpMul: {Name: "mul", Defs: 1},
	OpCmp: {Name: "cmp", Defs: 1},

	OpCall: {Name: "call", Call: true},

	OpJmp:    {Name: "jmp", Terminator: true, Branch: true, Barrier: true},
	OpJcc:    {Name: "jcc", Terminator: true, Branch: true, Conditional: true},
	OpJmpInd: {Name: "jmpind", Terminator: true, Branch: true, Barrier: true},
	OpRet:    {Name: "ret", Terminator: true, Barrier: true, Return: true},
	OpTrap:   {Name: "trap", Terminator: true, Barrier: true},
}

func (o Opcode) valid() bool { return o >= 0 && int(o) < len(opInfoTable) }

// String returns the assembler mnemonic of the opcode.
func (o Opcode) String() string {
	if o.valid() {
		return opInfoTable[o].Name
	}
	return "unknown"
}

// Info returns the OpInfo for this opcode.
func (o Opcode) Info() OpInfo {
	if o.valid() {
		return opInfoTable[o]
	}
	return OpInfo{Name: "unknown"}
}

// IsTerminator reports whether instructions with this opcode end a block.
func (o Opcode) IsTerminator() bool { return o.Info().Terminator }
