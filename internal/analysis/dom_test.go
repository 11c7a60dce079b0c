package analysis

import (
	"testing"

	"github.com/you-not-fish/machir/internal/mir"
)

// TestDomSingleBlock verifies that a single-block function has Idom=nil.
func TestDomSingleBlock(t *testing.T) {
	f, bs := newFunc(1)

	dt := ComputeDom(f)

	if d := dt.Idom(bs[0]); d != nil {
		t.Errorf("entry Idom = %v, want nil", d)
	}
	if n := len(dt.Dominees(bs[0])); n != 0 {
		t.Errorf("entry Dominees = %d, want 0", n)
	}
	if !dt.Dominates(bs[0], bs[0]) {
		t.Errorf("entry does not dominate itself")
	}
}

func TestDomEmptyFunc(t *testing.T) {
	dt := ComputeDom(mir.NewFunc("empty"))
	if len(dt.Order()) != 0 {
		t.Errorf("Order = %v, want empty", dt.Order())
	}
}

// TestDomLinearChain verifies: b0 → b1 → b2
func TestDomLinearChain(t *testing.T) {
	f, bs := newFunc(3)
	b0, b1, b2 := bs[0], bs[1], bs[2]
	b0.AddSuccessor(b1)
	b1.AddSuccessor(b2)

	dt := ComputeDom(f)

	if d := dt.Idom(b0); d != nil {
		t.Errorf("b0.Idom = %v, want nil", d)
	}
	if d := dt.Idom(b1); d != b0 {
		t.Errorf("b1.Idom = %v, want %v", d, b0)
	}
	if d := dt.Idom(b2); d != b1 {
		t.Errorf("b2.Idom = %v, want %v", d, b1)
	}
	if !dt.Dominates(b0, b2) || dt.Dominates(b2, b0) {
		t.Errorf("Dominates(b0, b2) = %v, Dominates(b2, b0) = %v", dt.Dominates(b0, b2), dt.Dominates(b2, b0))
	}
}

// TestDomDiamond verifies:
//
//	b0
//	├→ b1 ─┐
//	└→ b2 ─┘
//	   b3
//
// with an unreachable b4 → b3.
func TestDomDiamond(t *testing.T) {
	f, bs := diamond()
	b0, b1, b2, b3, b4 := bs[0], bs[1], bs[2], bs[3], bs[4]

	dt := ComputeDom(f)

	for _, b := range []*mir.Block{b1, b2, b3} {
		if d := dt.Idom(b); d != b0 {
			t.Errorf("%v.Idom = %v, want %v", b, d, b0)
		}
	}
	if n := len(dt.Dominees(b0)); n != 3 {
		t.Errorf("b0 Dominees = %d, want 3", n)
	}
	if dt.Dominates(b1, b3) {
		t.Errorf("b1 dominates b3")
	}

	if dt.Reachable(b4) || dt.Idom(b4) != nil || dt.Dominates(b0, b4) {
		t.Errorf("unreachable b4 is in the tree")
	}

	df := dt.Frontier()
	for _, b := range []*mir.Block{b1, b2} {
		if got := df[b]; !sameBlocks(got, []*mir.Block{b3}) {
			t.Errorf("DF(%v) = %v, want [%v]", b, got, b3)
		}
	}
	if got := df[b0]; len(got) != 0 {
		t.Errorf("DF(b0) = %v, want empty", got)
	}
}

// TestDomLoop verifies:
//
//	b0 → b1 ⇄ b2
//	     b1 → b3
func TestDomLoop(t *testing.T) {
	f, bs := newFunc(4)
	b0, b1, b2, b3 := bs[0], bs[1], bs[2], bs[3]
	b0.AddSuccessor(b1)
	b1.AddSuccessor(b2)
	b1.AddSuccessor(b3)
	b2.AddSuccessor(b1)

	dt := ComputeDom(f)

	if d := dt.Idom(b1); d != b0 {
		t.Errorf("b1.Idom = %v, want %v", d, b0)
	}
	if d := dt.Idom(b2); d != b1 {
		t.Errorf("b2.Idom = %v, want %v", d, b1)
	}
	if d := dt.Idom(b3); d != b1 {
		t.Errorf("b3.Idom = %v, want %v", d, b1)
	}

	df := dt.Frontier()
	if got := df[b2]; !sameBlocks(got, []*mir.Block{b1}) {
		t.Errorf("DF(b2) = %v, want [%v]", got, b1)
	}
	if got := df[b1]; !sameBlocks(got, []*mir.Block{b1}) {
		t.Errorf("DF(b1) = %v, want [%v]", got, b1)
	}

	if got := LoopHeaders(f, dt); !sameBlocks(got, []*mir.Block{b1}) {
		t.Errorf("LoopHeaders = %v, want [%v]", got, b1)
	}
}

func TestLoopHeadersNone(t *testing.T) {
	f, _ := diamond()
	if got := LoopHeaders(f, ComputeDom(f)); len(got) != 0 {
		t.Errorf("LoopHeaders = %v, want none", got)
	}
}

func TestPostDomDiamond(t *testing.T) {
	f, bs := newFunc(4)
	b0, b1, b2, b3 := bs[0], bs[1], bs[2], bs[3]
	b0.AddSuccessor(b1)
	b0.AddSuccessor(b2)
	b1.AddSuccessor(b3)
	b2.AddSuccessor(b3)

	pdt := ComputePostDom(f)

	for _, b := range []*mir.Block{b0, b1, b2} {
		if d := pdt.Idom(b); d != b3 {
			t.Errorf("%v post-idom = %v, want %v", b, d, b3)
		}
	}
	if d := pdt.Idom(b3); d != nil {
		t.Errorf("exit post-idom = %v, want nil", d)
	}
	if !pdt.Dominates(b3, b0) {
		t.Errorf("exit does not post-dominate entry")
	}
}

// TestPostDomMultipleExits: b0 → {b1, b2}, both returning. Neither exit
// post-dominates the entry.
func TestPostDomMultipleExits(t *testing.T) {
	f, bs := newFunc(3)
	b0, b1, b2 := bs[0], bs[1], bs[2]
	b0.AddSuccessor(b1)
	b0.AddSuccessor(b2)

	pdt := ComputePostDom(f)

	if d := pdt.Idom(b0); d != nil {
		t.Errorf("b0 post-idom = %v, want nil", d)
	}
	if pdt.Dominates(b1, b0) || pdt.Dominates(b2, b0) {
		t.Errorf("an exit post-dominates the entry")
	}
	if len(pdt.Order()) != 3 {
		t.Errorf("Order = %v, want 3 blocks", pdt.Order())
	}
}
