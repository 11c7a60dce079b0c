package mir

import "fmt"

// LayoutNext returns the block after b in its function's layout, or nil.
func (b *Block) LayoutNext() *Block { return b.next }

// LayoutPrev returns the block before b in its function's layout, or nil.
func (b *Block) LayoutPrev() *Block { return b.prev }

// MoveBefore moves b so that it is laid out immediately before target.
// Only the layout changes: edges, live-ins and instructions are untouched,
// and a fall-through out of b or into target is not adjusted.
func (b *Block) MoveBefore(target *Block) {
	f := b.sameFunc(target, "MoveBefore")
	if b == target {
		return
	}
	f.unlink(b)
	f.linkBefore(b, target)
}

// MoveAfter moves b so that it is laid out immediately after target. Like
// MoveBefore it only changes the layout.
func (b *Block) MoveAfter(target *Block) {
	f := b.sameFunc(target, "MoveAfter")
	if b == target {
		return
	}
	f.unlink(b)
	f.linkBefore(b, target.next)
}

func (b *Block) sameFunc(target *Block, fn string) *Func {
	if b.parent == nil || b.parent != target.parent {
		panic(fmt.Sprintf("mir.Block.%s: %s and %s are not in the same function", fn, b, target))
	}
	return b.parent
}
