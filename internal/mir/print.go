package mir

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Fprint writes the textual form of a machine function to w.
//
// Format:
//
//	func name:
//	bb0 (entry): succs bb1 bb2
//	    cmp %r3, %r1, %r2
//	    jcc %r3, bb1
//	    jmp bb2
//	bb1 (from for.body) align 16: preds bb0 succs bb3 livein %r1
//	    ...
func Fprint(w io.Writer, f *Func) {
	fmt.Fprintf(w, "func %s:\n", f.Name)
	for b := range f.Blocks() {
		fprintBlock(w, b)
	}
}

// fprintBlock writes a single block to w.
func fprintBlock(w io.Writer, b *Block) {
	var sb strings.Builder
	sb.WriteString(b.String())

	var notes []string
	if b.parent != nil && b.parent.head == b {
		notes = append(notes, "entry")
	}
	if b.src != nil {
		notes = append(notes, "from "+b.src.Name())
	}
	if b.landingPad {
		notes = append(notes, "landing-pad")
	}
	if len(notes) > 0 {
		fmt.Fprintf(&sb, " (%s)", strings.Join(notes, ", "))
	}
	if b.alignment != 0 {
		fmt.Fprintf(&sb, " align %d", b.alignment)
	}
	sb.WriteString(":")
	if len(b.preds) > 0 {
		sb.WriteString(" preds " + joinBlocks(b.preds))
	}
	if len(b.succs) > 0 {
		sb.WriteString(" succs " + joinBlocks(b.succs))
	}
	if len(b.liveIns) > 0 {
		regs := make([]string, len(b.liveIns))
		for i, r := range b.liveIns {
			regs[i] = r.String()
		}
		sb.WriteString(" livein " + strings.Join(regs, " "))
	}
	fmt.Fprintln(w, sb.String())

	for i := range b.Instrs() {
		fmt.Fprintf(w, "    %s\n", i)
	}
}

func joinBlocks(bs []*Block) string {
	names := make([]string, len(bs))
	for i, b := range bs {
		names[i] = b.String()
	}
	return strings.Join(names, " ")
}

// Sprint returns the textual form of a machine function as a string.
func Sprint(f *Func) string {
	var sb strings.Builder
	Fprint(&sb, f)
	return sb.String()
}

// Print writes the textual form of a machine function to stdout.
func Print(f *Func) {
	Fprint(os.Stdout, f)
}
