// Package main implements mirc, a driver that builds sample machine
// functions, runs the CFG pass pipeline over them and prints the result.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/you-not-fish/machir/internal/logger"
	"github.com/you-not-fish/machir/internal/mir"
	"github.com/you-not-fish/machir/internal/mir/passes"
)

// Driver flags
var (
	sampleList = flag.String("sample", "all", "Comma-separated samples to build, or \"all\"")
	passList   = flag.String("passes", "default", "Comma-separated passes to run, \"default\", or \"none\"")
	emitMIR    = flag.Bool("emit-mir", true, "Print the MIR after the pipeline")
	verify     = flag.Bool("verify", false, "Verify MIR before and after each pass")
	dumpFunc   = flag.String("dump-func", "", "Only dump specific function")
	dumpBefore = flag.String("dump-before", "", "Dump MIR before pass (name or \"*\")")
	dumpAfter  = flag.String("dump-after", "", "Dump MIR after pass (name or \"*\")")
	logLevel   = flag.String("log-level", "warn", "Log level (debug, info, warn, error)")
	logFormat  = flag.String("log-format", "text", "Log format (text or json)")
	logFile    = flag.String("log-file", "", "Append logs to this file instead of stderr")
	debug      = flag.Bool("debug", false, "Log at debug level with source locations to stderr (overrides -log-*)")
	list       = flag.Bool("list", false, "List samples and passes")
	version    = flag.Bool("version", false, "Print version")
)

// Version information
const Version = "0.1.0-dev"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "mirc %s\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: mirc [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *version {
		fmt.Printf("mirc version %s\n", Version)
		fmt.Printf("go version %s\n", runtime.Version())
		os.Exit(0)
	}

	if *list {
		printList(os.Stdout)
		os.Exit(0)
	}

	if *debug {
		logger.InitDev()
	} else {
		level, err := logger.ParseLevel(*logLevel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(2)
		}
		if err := logger.Init(logger.Config{
			Level:   level,
			Format:  *logFormat,
			Output:  os.Stderr,
			LogFile: *logFile,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	code := run(options{
		samples: *sampleList,
		passes:  *passList,
		emit:    *emitMIR,
		cfg: passes.Config{
			Verify:     *verify,
			DumpFunc:   *dumpFunc,
			DumpBefore: *dumpBefore,
			DumpAfter:  *dumpAfter,
		},
	}, os.Stdout, os.Stderr)
	if err := logger.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(code)
}

// options collects the flag values run needs.
type options struct {
	samples string
	passes  string
	emit    bool
	cfg     passes.Config
}

// run builds the selected samples and runs the pipeline over each. It
// returns the process exit code.
func run(opts options, stdout, stderr io.Writer) int {
	names, err := selectSamples(opts.samples)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	var pipeline []passes.Pass
	if opts.passes != "none" {
		pipeline, err = passes.Lookup(opts.passes)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 2
		}
	}

	cfg := opts.cfg
	if cfg.Out == nil {
		cfg.Out = stderr
	}

	status := 0
	for _, name := range names {
		f := samples[name].build()
		logger.Debug("Built sample", "sample", name, "blocks", f.NumBlocks(), "instructions", f.Arena().Len())

		if err := passes.Run(f, pipeline, cfg); err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", name, err)
			status = 1
			continue
		}
		if err := mir.Verify(f); err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", name, err)
			status = 1
			continue
		}
		if opts.emit {
			mir.Fprint(stdout, f)
		}
	}
	return status
}

// selectSamples resolves a comma-separated sample list.
func selectSamples(list string) ([]string, error) {
	if list == "" || list == "all" {
		return sampleNames(), nil
	}
	var names []string
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if _, ok := samples[name]; !ok {
			return nil, fmt.Errorf("unknown sample %q (have %s)", name, strings.Join(sampleNames(), ", "))
		}
		names = append(names, name)
	}
	return names, nil
}

func printList(w io.Writer) {
	fmt.Fprintln(w, "samples:")
	for _, name := range sampleNames() {
		fmt.Fprintf(w, "  %-8s %s\n", name, samples[name].desc)
	}
	fmt.Fprintln(w, "passes:")
	for _, p := range passes.Default {
		fmt.Fprintf(w, "  %s\n", p.Name)
	}
}
