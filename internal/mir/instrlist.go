package mir

import (
	"fmt"
	"iter"
)

// Pos is a position in a block's instruction sequence: either an
// instruction or the block's End. Positions are invalidated when the
// instruction they name is erased; using one afterwards panics.
type Pos struct {
	id  InstrID
	gen uint32
}

func (b *Block) posOf(id InstrID) Pos {
	i := b.arena.at(id)
	return Pos{id: id, gen: i.gen}
}

// resolve maps p to its slot, panicking if p is stale or names a position
// in another block.
func (b *Block) resolve(p Pos, fn string) *Instr {
	a := b.arena
	if p.gen == 0 || p.id < 0 || p.id >= a.next {
		panic(fmt.Sprintf("mir.Block.%s: %s: invalid position", fn, b))
	}
	i := a.at(p.id)
	if i.gen != p.gen || i.state == slotFree {
		panic(fmt.Sprintf("mir.Block.%s: %s: stale position", fn, b))
	}
	if i.parent != b || (i.state != slotLinked && i.state != slotSentinel) {
		panic(fmt.Sprintf("mir.Block.%s: %s: position belongs to another block", fn, b))
	}
	return i
}

// Len returns the number of instructions in b.
func (b *Block) Len() int { return b.n }

// Empty reports whether b has no instructions.
func (b *Block) Empty() bool { return b.n == 0 }

// Front returns the first instruction of b, or nil if b is empty.
func (b *Block) Front() *Instr {
	if b.n == 0 {
		return nil
	}
	return b.arena.at(b.arena.at(b.sentinel).next)
}

// Back returns the last instruction of b, or nil if b is empty.
func (b *Block) Back() *Instr {
	if b.n == 0 {
		return nil
	}
	return b.arena.at(b.arena.at(b.sentinel).prev)
}

// Begin returns the position of the first instruction, or End if b is
// empty.
func (b *Block) Begin() Pos { return b.posOf(b.arena.at(b.sentinel).next) }

// End returns the position one past the last instruction.
func (b *Block) End() Pos { return b.posOf(b.sentinel) }

// Next returns the position after p. Advancing End panics.
func (b *Block) Next(p Pos) Pos {
	i := b.resolve(p, "Next")
	if i.state == slotSentinel {
		panic(fmt.Sprintf("mir.Block.Next: %s: advance past end", b))
	}
	return b.posOf(i.next)
}

// Prev returns the position before p. Retreating from Begin panics.
func (b *Block) Prev(p Pos) Pos {
	i := b.resolve(p, "Prev")
	if i.prev == b.sentinel {
		panic(fmt.Sprintf("mir.Block.Prev: %s: retreat before begin", b))
	}
	return b.posOf(i.prev)
}

// At returns the instruction at p.
func (b *Block) At(p Pos) *Instr {
	i := b.resolve(p, "At")
	if i.state == slotSentinel {
		panic(fmt.Sprintf("mir.Block.At: %s: dereference of end", b))
	}
	return i
}

// Instrs iterates over b's instructions in program order. The yielded
// instruction may be removed or erased during iteration.
func (b *Block) Instrs() iter.Seq[*Instr] {
	return func(yield func(*Instr) bool) {
		a := b.arena
		for id := a.at(b.sentinel).next; id != b.sentinel; {
			i := a.at(id)
			next := i.next
			if !yield(i) {
				return
			}
			id = next
		}
	}
}

// Backward iterates over b's instructions in reverse program order. The
// yielded instruction may be removed or erased during iteration.
func (b *Block) Backward() iter.Seq[*Instr] {
	return func(yield func(*Instr) bool) {
		a := b.arena
		for id := a.at(b.sentinel).prev; id != b.sentinel; {
			i := a.at(id)
			prev := i.prev
			if !yield(i) {
				return
			}
			id = prev
		}
	}
}

// Insert links the detached instruction i before p and returns its
// position.
func (b *Block) Insert(p Pos, i *Instr) Pos {
	at := b.resolve(p, "Insert")
	if !b.arena.owns(i) {
		panic(fmt.Sprintf("mir.Block.Insert: %s: instruction from another arena", b))
	}
	if i.state != slotDetached {
		panic(fmt.Sprintf("mir.Block.Insert: %s: %s is already in %s", b, i, i.parent))
	}
	b.arena.linkBefore(i, at)
	i.state = slotLinked
	i.parent = b
	b.n++
	return i.Pos()
}

// InsertRange links the detached instructions before p, in order.
func (b *Block) InsertRange(p Pos, instrs ...*Instr) {
	for _, i := range instrs {
		b.Insert(p, i)
	}
}

// PushBack appends the detached instruction i to b.
func (b *Block) PushBack(i *Instr) {
	b.Insert(b.End(), i)
}

// Erase unlinks and destroys the instruction at p and returns the position
// that followed it.
func (b *Block) Erase(p Pos) Pos {
	i := b.At(p)
	next := i.next
	b.arena.unlink(i)
	b.n--
	b.arena.release(i)
	return b.posOf(next)
}

// EraseRange destroys the instructions in [from, to) and returns to. The
// range is checked before anything is erased.
func (b *Block) EraseRange(from, to Pos) Pos {
	a := b.arena
	t := b.resolve(to, "EraseRange")
	for id := b.resolve(from, "EraseRange").id; id != t.id; id = a.at(id).next {
		if a.at(id).state == slotSentinel {
			panic(fmt.Sprintf("mir.Block.EraseRange: %s: range end precedes range start", b))
		}
	}
	for p := from; p != to; {
		p = b.Erase(p)
	}
	return to
}

// Remove unlinks i from b without destroying it. The caller owns the
// returned instruction and may insert it elsewhere or free it.
func (b *Block) Remove(i *Instr) *Instr {
	if i.Parent() != b {
		panic(fmt.Sprintf("mir.Block.Remove: %s: %s is not in this block", b, i))
	}
	b.arena.unlink(i)
	i.state = slotDetached
	i.parent = nil
	b.n--
	return i
}

// PopFront destroys the first instruction of b.
func (b *Block) PopFront() {
	if b.n == 0 {
		panic(fmt.Sprintf("mir.Block.PopFront: %s: empty block", b))
	}
	b.Erase(b.Begin())
}

// PopBack destroys the last instruction of b.
func (b *Block) PopBack() {
	if b.n == 0 {
		panic(fmt.Sprintf("mir.Block.PopBack: %s: empty block", b))
	}
	b.Erase(b.Prev(b.End()))
}

// Clear destroys every instruction of b.
func (b *Block) Clear() {
	b.EraseRange(b.Begin(), b.End())
}

// Splice moves the instructions [from, to) of other in front of where in b.
// Instructions keep their identity and order; only links and parent
// pointers change. Edges are not updated. other may be b itself, in which
// case where must not lie inside the range.
func (b *Block) Splice(where Pos, other *Block, from, to Pos) {
	if other.arena != b.arena {
		panic(fmt.Sprintf("mir.Block.Splice: %s and %s use different arenas", b, other))
	}
	a := b.arena
	w := b.resolve(where, "Splice")
	f := other.resolve(from, "Splice")
	t := other.resolve(to, "Splice")
	if f == t {
		return
	}

	count := 0
	var last *Instr
	for id := f.id; id != t.id; id = a.at(id).next {
		x := a.at(id)
		if x.state == slotSentinel {
			panic(fmt.Sprintf("mir.Block.Splice: %s: range end precedes range start", other))
		}
		if x == w {
			panic(fmt.Sprintf("mir.Block.Splice: %s: insertion point inside range", b))
		}
		last = x
		count++
	}
	for id := f.id; id != t.id; id = a.at(id).next {
		a.at(id).parent = b
	}

	// Unlink [f, last] from other.
	a.at(f.prev).next = t.id
	t.prev = f.prev

	// Link it before w.
	a.at(w.prev).next = f.id
	f.prev = w.prev
	last.next = w.id
	w.prev = last.id

	other.n -= count
	b.n += count
}

// FirstTerminator returns the position of the first instruction in the
// trailing run of terminators, or End if b does not end in a terminator.
// For "cmp; jcc bb1; jmp bb2" it is the position of the jcc.
func (b *Block) FirstTerminator() Pos {
	a := b.arena
	first := b.sentinel
	for id := a.at(b.sentinel).prev; id != b.sentinel; id = a.at(id).prev {
		if !a.at(id).IsTerminator() {
			break
		}
		first = id
	}
	return b.posOf(first)
}

// Terminators iterates over the trailing run of terminators in program
// order.
func (b *Block) Terminators() iter.Seq[*Instr] {
	return func(yield func(*Instr) bool) {
		a := b.arena
		for id := b.FirstTerminator().id; id != b.sentinel; {
			i := a.at(id)
			next := i.next
			if !yield(i) {
				return
			}
			id = next
		}
	}
}
