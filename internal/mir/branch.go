package mir

// BranchInfo describes the branch shape at the end of a block.
type BranchInfo struct {
	// True is the taken target of a conditional branch or the target of
	// an unconditional one. Nil when the block simply falls through.
	True *Block
	// False is the explicit not-taken target of a conditional branch. Nil
	// when the not-taken side falls through.
	False *Block
	// Conditional is set for jcc-terminated blocks.
	Conditional bool
	// Cond is the condition register of a conditional branch.
	Cond Reg
}

// AnalyzeBranch recognises the terminator shapes
//
//	(none)           falls through
//	jmp T
//	jcc c, T         T or fall through
//	jcc c, T; jmp F
//
// and reports false for anything else (returns, traps, indirect branches).
func (b *Block) AnalyzeBranch() (BranchInfo, bool) {
	var terms [3]*Instr
	n := 0
	for i := range b.Terminators() {
		if n == len(terms) {
			return BranchInfo{}, false
		}
		terms[n] = i
		n++
	}

	switch n {
	case 0:
		return BranchInfo{}, true
	case 1:
		t := terms[0]
		switch t.Op {
		case OpJmp:
			if dst := t.Target(); dst != nil {
				return BranchInfo{True: dst}, true
			}
		case OpJcc:
			if dst := t.Target(); dst != nil {
				return BranchInfo{True: dst, Conditional: true, Cond: condReg(t)}, true
			}
		}
	case 2:
		c, u := terms[0], terms[1]
		if c.Op == OpJcc && u.Op == OpJmp && c.Target() != nil && u.Target() != nil {
			return BranchInfo{True: c.Target(), False: u.Target(), Conditional: true, Cond: condReg(c)}, true
		}
	}
	return BranchInfo{}, false
}

func condReg(i *Instr) Reg {
	if len(i.Operands) > 0 && i.Operands[0].Kind == OperandReg {
		return i.Operands[0].Reg
	}
	return NoReg
}

// CanFallThrough reports whether control can reach the end of b and
// continue into its layout successor.
func (b *Block) CanFallThrough() bool {
	bi, ok := b.AnalyzeBranch()
	if !ok {
		last := b.Back()
		return last == nil || !last.IsBarrier()
	}
	if bi.True == nil {
		return true
	}
	return bi.Conditional && bi.False == nil
}

// RemoveBranch erases the trailing jmp/jcc instructions of b and returns
// how many were removed. Other terminators are left in place.
func (b *Block) RemoveBranch() int {
	n := 0
	for b.n > 0 {
		last := b.Back()
		if last.Op != OpJmp && last.Op != OpJcc {
			break
		}
		b.Erase(last.Pos())
		n++
	}
	return n
}

// InsertBranch appends the branch sequence for the given shape: a jcc to
// bi.True followed by a jmp to bi.False when both are set, or a single jcc
// or jmp. CFG edges are not changed.
func (b *Block) InsertBranch(bi BranchInfo) {
	a := b.arena
	switch {
	case bi.True == nil:
	case bi.Conditional:
		b.PushBack(a.NewInstr(OpJcc, RegOp(bi.Cond), BlockOp(bi.True)))
		if bi.False != nil {
			b.PushBack(a.NewInstr(OpJmp, BlockOp(bi.False)))
		}
	default:
		b.PushBack(a.NewInstr(OpJmp, BlockOp(bi.True)))
	}
}
