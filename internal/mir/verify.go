package mir

import (
	"fmt"
	"strings"
)

// Verify checks the structural integrity of a machine function.
// It returns an error describing all violations found, or nil if valid.
func Verify(f *Func) error {
	var errs []string

	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	// 1. Layout list is consistent and matches the block count.
	blockSet := make(map[*Block]bool, f.nblocks)
	var prev *Block
	for b := f.head; b != nil; b = b.next {
		if blockSet[b] {
			add("func %s: layout list revisits %s", f.Name, b)
			return combineErrors(errs)
		}
		blockSet[b] = true
		if b.prev != prev {
			add("func %s, %s: layout prev is %s, want %s", f.Name, b, b.prev, prev)
		}
		prev = b
	}
	if f.tail != prev {
		add("func %s: layout tail is %s, want %s", f.Name, f.tail, prev)
	}
	if len(blockSet) != f.nblocks {
		add("func %s: layout has %d blocks, NumBlocks is %d", f.Name, len(blockSet), f.nblocks)
	}

	numbers := make(map[int]*Block, f.nblocks)
	for b := f.head; b != nil; b = b.next {
		// 2. Parent and arena.
		if b.parent != f {
			add("func %s, %s: block parent mismatch", f.Name, b)
		}
		if b.arena != f.arena {
			add("func %s, %s: block arena mismatch", f.Name, b)
			continue
		}

		// 3. Numbers are assigned and unique.
		if b.number < 0 {
			add("func %s: attached block is unnumbered", f.Name)
		} else if other, dup := numbers[b.number]; dup {
			add("func %s: %s is numbered the same as another block (%p, %p)", f.Name, b, b, other)
		} else {
			numbers[b.number] = b
			if f.BlockByNumber(b.number) != b {
				add("func %s, %s: numbering table does not map back to block", f.Name, b)
			}
		}

		// 4. Succs/Preds edge consistency, including multiplicity.
		for _, succ := range b.succs {
			if !blockSet[succ] {
				add("func %s, %s: successor %s not in function", f.Name, b, succ)
				continue
			}
			if countBlock(b.succs, succ) != countBlock(succ.preds, b) {
				add("func %s, %s: successor %s lists %s %d times as predecessor, want %d",
					f.Name, b, succ, b, countBlock(succ.preds, b), countBlock(b.succs, succ))
			}
		}
		for _, pred := range b.preds {
			if !blockSet[pred] {
				add("func %s, %s: predecessor %s not in function", f.Name, b, pred)
				continue
			}
			if !containsBlock(pred.succs, b) {
				add("func %s, %s: predecessor %s does not have %s as successor",
					f.Name, b, pred, b)
			}
		}

		// 5. Live-ins sorted and unique.
		for i := 1; i < len(b.liveIns); i++ {
			if b.liveIns[i-1] >= b.liveIns[i] {
				add("func %s, %s: live-ins not sorted and unique at %s, %s",
					f.Name, b, b.liveIns[i-1], b.liveIns[i])
			}
		}

		// 6. Instructions: parent pointers, count, terminators last,
		// branch targets are successors.
		n := 0
		seenTerm := false
		for i := range b.Instrs() {
			n++
			if i.Parent() != b {
				add("func %s, %s: instruction %s has parent %s", f.Name, b, i, i.parent)
			}
			if i.IsTerminator() {
				seenTerm = true
			} else if seenTerm {
				add("func %s, %s: %s follows a terminator", f.Name, b, i)
			}
			if !i.IsBranch() {
				continue
			}
			for _, o := range i.Operands {
				if o.Kind == OperandBlock && !containsBlock(b.succs, o.Block) {
					add("func %s, %s: branch target %s of %q is not a successor", f.Name, b, o.Block, i)
				}
			}
		}
		if n != b.n {
			add("func %s, %s: walked %d instructions, Len is %d", f.Name, b, n, b.n)
		}
	}

	return combineErrors(errs)
}

// containsBlock checks whether bs contains b.
func containsBlock(bs []*Block, b *Block) bool {
	for _, x := range bs {
		if x == b {
			return true
		}
	}
	return false
}

// combineErrors creates an error from a list of error strings, or returns nil.
func combineErrors(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("MIR verification failed:\n  %s", strings.Join(errs, "\n  "))
}
