// Command wasmcore is a thin front end over the declaration-driven
// compilation core, in the direct style of the teacher's cmd/tuna/main.go:
// a flag.NewFlagSet per subcommand, usage to stderr, os.Exit(1) on error.
// It exists to exercise the pipeline end to end, not as a scoped
// deliverable — CLI surface is explicitly out of scope.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"wasmcore/internal/compiler"
	"wasmcore/internal/diag"
	"wasmcore/internal/types"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "build":
		buildCmd(os.Args[2:])
	case "dump-wat":
		dumpWatCmd(os.Args[2:])
	case "list":
		listCmd()
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage:")
	fmt.Fprintln(os.Stderr, "  wasmcore build [-o out.wat] [-target wasm32|wasm64] [-no-tree-shaking] <demo>")
	fmt.Fprintln(os.Stderr, "  wasmcore dump-wat [-target wasm32|wasm64] [-no-tree-shaking] <demo>")
	fmt.Fprintln(os.Stderr, "  wasmcore list")
}

func listCmd() {
	for _, name := range demoNames() {
		fmt.Println(name)
	}
}

func buildCmd(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	out := fs.String("o", "", "output .wat path (defaults to <demo>.wat)")
	target, noTreeShaking := bindCompileFlags(fs)
	_ = fs.Parse(args)
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "a demo name is required")
		os.Exit(1)
	}
	name := fs.Arg(0)

	res := runDemo(name, *target, *noTreeShaking)
	printDiagnostics(res.Diags)

	path := *out
	if path == "" {
		path = name + ".wat"
	}
	if err := os.WriteFile(path, []byte(res.Wat), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(res.MemSummary)
	if res.Diags.HasErrors() {
		os.Exit(1)
	}
}

func dumpWatCmd(args []string) {
	fs := flag.NewFlagSet("dump-wat", flag.ExitOnError)
	target, noTreeShaking := bindCompileFlags(fs)
	_ = fs.Parse(args)
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "a demo name is required")
		os.Exit(1)
	}
	name := fs.Arg(0)

	res := runDemo(name, *target, *noTreeShaking)
	fmt.Print(res.Wat)
	printDiagnostics(res.Diags)
	if res.Diags.HasErrors() {
		os.Exit(1)
	}
}

func bindCompileFlags(fs *flag.FlagSet) (*string, *bool) {
	target := fs.String("target", "wasm32", "compilation target: wasm32 or wasm64")
	noTreeShaking := fs.Bool("no-tree-shaking", false, "emit every declaration, not just reachable exports")
	return target, noTreeShaking
}

func runDemo(name, target string, noTreeShaking bool) *compiler.Result {
	program, err := loadDemo(name)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	opts := compiler.Options{Target: parseTarget(target), NoTreeShaking: noTreeShaking}
	res, err := compiler.Compile(program, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return res
}

func parseTarget(s string) types.Target {
	if s == "wasm64" {
		return types.WASM64
	}
	return types.WASM32
}

// printDiagnostics writes the sink's contents to stderr, colorizing the
// severity label when stderr is a terminal (mirrors the teacher's pack-wide
// isatty-gated color convention).
func printDiagnostics(sink *diag.Sink) {
	colorize := isatty.IsTerminal(os.Stderr.Fd())
	for _, d := range sink.All() {
		fmt.Fprintln(os.Stderr, formatDiagnostic(d, colorize))
	}
}

func formatDiagnostic(d diag.Diagnostic, colorize bool) string {
	if !colorize {
		return d.String()
	}
	const (
		red    = "\x1b[31m"
		yellow = "\x1b[33m"
		reset  = "\x1b[0m"
	)
	color := red
	if d.Severity == diag.SeverityWarning {
		color = yellow
	}
	return color + d.String() + reset
}
