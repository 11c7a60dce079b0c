package analysis

import (
	"fmt"
	"slices"

	"github.com/oleiade/lane"

	"github.com/you-not-fish/machir/internal/mir"
)

// blockLiveness holds the local and global sets of one block. All sets are
// sorted register lists.
type blockLiveness struct {
	gen  []mir.Reg // read before any write in the block
	kill []mir.Reg // written in the block
	in   []mir.Reg
}

// ComputeLiveIns recomputes the physical-register live-in set of every
// block of f with a backward dataflow over the CFG and stores it on the
// blocks. Landing pads start from their unwind registers, which the
// unwinder defines. It returns the number of blocks whose set changed.
//
// Per-block state is indexed by block number, so f's numbering must be
// consistent with its layout (Verify checks this).
func ComputeLiveIns(f *mir.Func) int {
	info := make([]*blockLiveness, f.NumBlockIDs())
	for b := range f.Blocks() {
		if f.BlockByNumber(b.Number()) != b {
			panic(fmt.Sprintf("analysis.ComputeLiveIns: func %s: %s is not numbered %d", f.Name, b, b.Number()))
		}
		bl := &blockLiveness{}
		for i := range b.Instrs() {
			for _, r := range i.Uses() {
				if !contains(bl.kill, r) {
					bl.gen = insertReg(bl.gen, r)
				}
			}
			for _, r := range i.Defs() {
				bl.kill = insertReg(bl.kill, r)
			}
		}
		if b.IsLandingPad() {
			bl.gen = union(bl.gen, b.UnwindRegs())
		}
		bl.in = bl.gen
		info[b.Number()] = bl
	}
	// Edges may lead to blocks outside f's layout; they contribute nothing.
	lookup := func(b *mir.Block) *blockLiveness {
		if f.BlockByNumber(b.Number()) != b {
			return nil
		}
		return info[b.Number()]
	}

	// Seed the worklist in post-order so successors are visited first.
	queue := lane.NewQueue()
	queued := make([]bool, len(info))
	push := func(b *mir.Block) {
		if lookup(b) != nil && !queued[b.Number()] {
			queued[b.Number()] = true
			queue.Enqueue(b)
		}
	}
	for _, b := range PostOrder(mir.CFG{}, f.Entry()) {
		push(b)
	}
	for b := range f.Blocks() {
		push(b)
	}

	for !queue.Empty() {
		b := queue.Dequeue().(*mir.Block)
		queued[b.Number()] = false
		bl := info[b.Number()]

		var out []mir.Reg
		for _, s := range b.Succs() {
			if sl := lookup(s); sl != nil {
				out = union(out, sl.in)
			}
		}
		in := union(bl.gen, subtract(out, bl.kill))
		if slices.Equal(in, bl.in) {
			continue
		}
		bl.in = in
		for _, p := range b.Preds() {
			push(p)
		}
	}

	changed := 0
	for b := range f.Blocks() {
		in := info[b.Number()].in
		if slices.Equal(in, b.LiveIns()) {
			continue
		}
		b.SetLiveIns(in)
		changed++
	}
	return changed
}

func contains(set []mir.Reg, r mir.Reg) bool {
	_, found := slices.BinarySearch(set, r)
	return found
}

func insertReg(set []mir.Reg, r mir.Reg) []mir.Reg {
	i, found := slices.BinarySearch(set, r)
	if found {
		return set
	}
	return slices.Insert(set, i, r)
}

// union merges two sorted sets into a new sorted set.
func union(a, b []mir.Reg) []mir.Reg {
	out := make([]mir.Reg, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}

// subtract returns the sorted set a \ b.
func subtract(a, b []mir.Reg) []mir.Reg {
	var out []mir.Reg
	j := 0
	for _, r := range a {
		for j < len(b) && b[j] < r {
			j++
		}
		if j < len(b) && b[j] == r {
			continue
		}
		out = append(out, r)
	}
	return out
}
