package mir

import "fmt"

// InstrID names a slot in an Arena. IDs are stable for the lifetime of the
// instruction that occupies the slot.
type InstrID int32

const noInstr InstrID = -1

const (
	arenaPageShift = 7
	arenaPageSize  = 1 << arenaPageShift
	arenaPageMask  = arenaPageSize - 1
)

type slotState uint8

const (
	slotFree slotState = iota
	slotDetached
	slotLinked
	slotSentinel
)

// Arena allocates instructions for the blocks of one function. Slots are
// grouped in fixed-size pages so that *Instr pointers stay valid while the
// arena grows. Released slots are kept on a doubly-linked free list threaded
// through their prev/next fields and are handed out again with a bumped
// generation, so a Pos naming the old occupant no longer resolves.
type Arena struct {
	pages    []*[arenaPageSize]Instr
	next     InstrID // first never-used slot
	freeHead InstrID
	live     int // allocated instructions, not counting sentinels
	blocks   int // allocated sentinels
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{freeHead: noInstr}
}

// Len returns the number of live instructions allocated from a, whether
// linked into a block or detached.
func (a *Arena) Len() int { return a.live }

// NewInstr allocates a detached instruction. It belongs to no block until
// inserted into one.
func (a *Arena) NewInstr(op Opcode, operands ...Operand) *Instr {
	i := a.alloc(slotDetached)
	i.Op = op
	if len(operands) > 0 {
		i.Operands = append([]Operand(nil), operands...)
	}
	return i
}

// Free releases a detached instruction, such as one returned by
// Block.Remove. Linked instructions must be erased through their block.
func (a *Arena) Free(i *Instr) {
	if !a.owns(i) {
		panic("mir.Arena.Free: instruction belongs to another arena")
	}
	if i.state != slotDetached {
		panic(fmt.Sprintf("mir.Arena.Free: %s is not detached", i))
	}
	a.release(i)
}

func (a *Arena) at(id InstrID) *Instr {
	return &a.pages[id>>arenaPageShift][id&arenaPageMask]
}

func (a *Arena) owns(i *Instr) bool {
	return i != nil && i.id >= 0 && i.id < a.next && a.at(i.id) == i
}

func (a *Arena) alloc(state slotState) *Instr {
	var id InstrID
	if a.freeHead != noInstr {
		id = a.freeHead
		a.freeHead = a.at(id).next
		if a.freeHead != noInstr {
			a.at(a.freeHead).prev = noInstr
		}
	} else {
		id = a.next
		if int(id>>arenaPageShift) == len(a.pages) {
			a.pages = append(a.pages, new([arenaPageSize]Instr))
		}
		a.next++
	}

	i := a.at(id)
	gen := i.gen + 1
	*i = Instr{id: id, gen: gen, state: state, prev: noInstr, next: noInstr}
	if state == slotSentinel {
		a.blocks++
	} else {
		a.live++
	}
	return i
}

func (a *Arena) release(i *Instr) {
	if i.state == slotSentinel {
		a.blocks--
	} else {
		a.live--
	}
	id, gen := i.id, i.gen
	*i = Instr{id: id, gen: gen, state: slotFree, prev: noInstr, next: a.freeHead}
	if a.freeHead != noInstr {
		a.at(a.freeHead).prev = id
	}
	a.freeHead = id
}

// linkBefore links the detached instruction i in front of at.
func (a *Arena) linkBefore(i, at *Instr) {
	p := a.at(at.prev)
	i.prev = at.prev
	i.next = at.id
	p.next = i.id
	at.prev = i.id
}

func (a *Arena) unlink(i *Instr) {
	a.at(i.prev).next = i.next
	a.at(i.next).prev = i.prev
	i.prev, i.next = noInstr, noInstr
}
