package passes

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/you-not-fish/machir/internal/logger"
	"github.com/you-not-fish/machir/internal/mir"
)

// Pass describes a single machine IR pass. Fn reports whether it changed
// the function.
type Pass struct {
	Name string
	Fn   func(f *mir.Func) bool
}

// Config controls pass execution behavior.
type Config struct {
	DumpBefore string    // dump MIR before this pass ("*" for all)
	DumpAfter  string    // dump MIR after this pass ("*" for all)
	Verify     bool      // verify MIR before/after each pass
	DumpFunc   string    // restrict dumps to this function name
	Out        io.Writer // dump destination; os.Stderr if nil
}

// Default is the standard CFG cleanup pipeline.
var Default = []Pass{
	{Name: "fixedges", Fn: FixEdges},
	{Name: "threadjumps", Fn: ThreadJumps},
	{Name: "unreachable", Fn: RemoveUnreachable},
	{Name: "merge", Fn: MergeBlocks},
	{Name: "layout", Fn: Layout},
	{Name: "liveins", Fn: LiveIns},
}

// Lookup resolves a comma-separated list of pass names. An empty list or
// "default" selects Default.
func Lookup(names string) ([]Pass, error) {
	if names == "" || names == "default" {
		return Default, nil
	}
	var ps []Pass
	for _, name := range strings.Split(names, ",") {
		name = strings.TrimSpace(name)
		found := false
		for _, p := range Default {
			if p.Name == name {
				ps = append(ps, p)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown pass %q", name)
		}
	}
	return ps, nil
}

// Run executes the given passes on f in order.
func Run(f *mir.Func, passes []Pass, cfg Config) error {
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}

	changed := 0
	for _, p := range passes {
		if shouldDump(cfg.DumpBefore, p.Name) && matchFunc(cfg.DumpFunc, f.Name) {
			fmt.Fprintf(out, "--- before %s (%s) ---\n", p.Name, f.Name)
			mir.Fprint(out, f)
			fmt.Fprintln(out)
		}

		if cfg.Verify {
			if err := mir.Verify(f); err != nil {
				logger.LogVerifyFailure(p.Name, f.Name, "before", err)
				return fmt.Errorf("verify before %s: %w", p.Name, err)
			}
		}

		c := p.Fn(f)
		if c {
			changed++
		}
		logger.LogPass(p.Name, f.Name, c, f.NumBlocks())

		if cfg.Verify {
			if err := mir.Verify(f); err != nil {
				logger.LogVerifyFailure(p.Name, f.Name, "after", err)
				return fmt.Errorf("verify after %s: %w", p.Name, err)
			}
		}

		if shouldDump(cfg.DumpAfter, p.Name) && matchFunc(cfg.DumpFunc, f.Name) {
			fmt.Fprintf(out, "--- after %s (%s) ---\n", p.Name, f.Name)
			mir.Fprint(out, f)
			fmt.Fprintln(out)
		}
	}
	logger.LogPipeline(f.Name, len(passes), changed)
	return nil
}

func shouldDump(pattern, name string) bool {
	return pattern == "*" || pattern == name
}

func matchFunc(filter, name string) bool {
	return filter == "" || filter == name
}
