package mir

import "testing"

func TestGraphViews(t *testing.T) {
	_, bs := diamond()
	entry, then, els, merge := bs[0], bs[1], bs[2], bs[3]

	var g Graph = CFG{}
	if want := []*Block{then, els}; !sameBlocks(g.Children(entry), want) {
		t.Errorf("CFG.Children(entry) = %v, want %v", g.Children(entry), want)
	}
	if want := []*Block{then, els}; !sameBlocks(g.Parents(merge), want) {
		t.Errorf("CFG.Parents(merge) = %v, want %v", g.Parents(merge), want)
	}

	g = Inverse{}
	if want := []*Block{then, els}; !sameBlocks(g.Children(merge), want) {
		t.Errorf("Inverse.Children(merge) = %v, want %v", g.Children(merge), want)
	}
	if want := []*Block{then, els}; !sameBlocks(g.Parents(entry), want) {
		t.Errorf("Inverse.Parents(entry) = %v, want %v", g.Parents(entry), want)
	}
	if len(g.Children(entry)) != 0 {
		t.Errorf("Inverse.Children(entry) = %v, want none", g.Children(entry))
	}
}

func TestBackwardEdgeIterators(t *testing.T) {
	_, bs := diamond()
	entry, then, els, merge := bs[0], bs[1], bs[2], bs[3]

	var succs []*Block
	for s := range entry.SuccsBackward() {
		succs = append(succs, s)
	}
	if want := []*Block{els, then}; !sameBlocks(succs, want) {
		t.Errorf("SuccsBackward = %v, want %v", succs, want)
	}

	var preds []*Block
	for p := range merge.PredsBackward() {
		preds = append(preds, p)
		break
	}
	if want := []*Block{els}; !sameBlocks(preds, want) {
		t.Errorf("PredsBackward with break = %v, want %v", preds, want)
	}
}
