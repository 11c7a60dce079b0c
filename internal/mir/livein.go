package mir

import (
	"fmt"
	"slices"
)

// AddLiveIn adds reg to the live-in set of b. Adding a register that is
// already live-in is a caller error: it panics in mirdebug builds and is
// ignored otherwise.
func (b *Block) AddLiveIn(reg Reg) {
	i, found := slices.BinarySearch(b.liveIns, reg)
	if found {
		if debugChecks {
			panic(fmt.Sprintf("mir.Block.AddLiveIn: %s: %s is already live-in", b, reg))
		}
		return
	}
	b.liveIns = slices.Insert(b.liveIns, i, reg)
}

// RemoveLiveIn removes reg from the live-in set of b. It does nothing if
// reg is not live-in.
func (b *Block) RemoveLiveIn(reg Reg) {
	if i, found := slices.BinarySearch(b.liveIns, reg); found {
		b.liveIns = slices.Delete(b.liveIns, i, i+1)
	}
}

// IsLiveIn reports whether reg is live on entry to b.
func (b *Block) IsLiveIn(reg Reg) bool {
	_, found := slices.BinarySearch(b.liveIns, reg)
	return found
}

// LiveIns returns the live-in registers of b sorted by register number.
// The slice is owned by b and must not be modified.
func (b *Block) LiveIns() []Reg { return b.liveIns }

// LiveInEmpty reports whether b has no live-in registers.
func (b *Block) LiveInEmpty() bool { return len(b.liveIns) == 0 }

// ClearLiveIns empties the live-in set of b.
func (b *Block) ClearLiveIns() { b.liveIns = b.liveIns[:0] }

// SetLiveIns replaces the live-in set of b with regs. regs need not be
// sorted; duplicates are dropped.
func (b *Block) SetLiveIns(regs []Reg) {
	b.liveIns = append(b.liveIns[:0], regs...)
	slices.Sort(b.liveIns)
	b.liveIns = slices.Compact(b.liveIns)
}

// SetUnwindRegs records the registers the unwinder defines on entry to the
// landing pad b and adds them to its live-in set. Liveness recomputation
// keeps them live-in while discarding anything else it cannot justify.
func (b *Block) SetUnwindRegs(regs ...Reg) {
	b.unwindRegs = append(b.unwindRegs[:0], regs...)
	slices.Sort(b.unwindRegs)
	b.unwindRegs = slices.Compact(b.unwindRegs)
	for _, r := range b.unwindRegs {
		if !b.IsLiveIn(r) {
			b.AddLiveIn(r)
		}
	}
}

// UnwindRegs returns the registers set by SetUnwindRegs, sorted. The slice
// is owned by b and must not be modified.
func (b *Block) UnwindRegs() []Reg { return b.unwindRegs }
