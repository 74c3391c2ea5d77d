// Command flo is the Flo interpreter CLI: run a source file, evaluate a
// one-off expression with -e, or drop into a REPL when given nothing.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/flowlang/flo/internal/builtinreg"
	"github.com/flowlang/flo/internal/evaluator"
	"github.com/flowlang/flo/internal/parser"
	"github.com/flowlang/flo/pkg/config"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			os.Exit(1)
		}
	}()

	if handleHelp() {
		return
	}
	if handleEval() {
		return
	}
	if handleRun() {
		return
	}
	runREPL()
}

func handleHelp() bool {
	if len(os.Args) < 2 {
		return false
	}
	switch os.Args[1] {
	case "-h", "--help", "help":
	default:
		return false
	}
	fmt.Println("Usage:")
	fmt.Println("  flo <file.flo>        run a source file")
	fmt.Println("  flo -e '<expr>'        evaluate a single expression and print the result")
	fmt.Println("  flo                    start the REPL")
	return true
}

// handleEval implements `flo -e '<expr>'`: evaluate a single expression
// and print its result, without reading a file or entering the REPL.
func handleEval() bool {
	args := os.Args[1:]
	for i, arg := range args {
		if arg == "-e" || arg == "--eval" {
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "Error: -e requires an expression argument")
				os.Exit(1)
			}
			ev := newEvaluator()
			result := evalSource(ev, args[i+1], "<eval>")
			if err, ok := result.(*evaluator.Error); ok {
				fmt.Fprintln(os.Stderr, err.Inspect())
				os.Exit(1)
			}
			fmt.Println(result.Inspect())
			return true
		}
	}
	return false
}

func handleRun() bool {
	if len(os.Args) < 2 || strings.HasPrefix(os.Args[1], "-") {
		return false
	}
	path := os.Args[1]
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot read %s: %v\n", path, err)
		os.Exit(1)
	}
	ev := newEvaluator()
	result := evalSource(ev, string(source), path)
	if err, ok := result.(*evaluator.Error); ok {
		fmt.Fprintln(os.Stderr, err.Inspect())
		os.Exit(1)
	}
	return true
}

// runREPL reads one line at a time, evaluating each against a persistent
// environment so `let`/`maybe`/`context` bindings accumulate across
// lines. The prompt is skipped entirely when stdout is not a terminal.
func runREPL() {
	ev := newEvaluator()
	interactive := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	prompt := "flo> "
	if !interactive {
		prompt = ""
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		if prompt != "" {
			fmt.Print(prompt)
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return
		}
		result := evalSource(ev, line, "<repl>")
		if result == nil {
			continue
		}
		fmt.Println(result.Inspect())
	}
}

func newEvaluator() *evaluator.Evaluator {
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		cfg = config.Default()
	}
	ev := evaluator.New(os.Stdout)
	builtinreg.RegisterAll(ev.Global)
	if cfg.Prelude != "" {
		if src, err := os.ReadFile(cfg.Prelude); err == nil {
			evalSource(ev, string(src), cfg.Prelude)
		}
	}
	return ev
}

func evalSource(ev *evaluator.Evaluator, source, filename string) evaluator.Object {
	p := parser.New(source)
	program := p.ParseProgram()
	if len(p.Errors) > 0 {
		fmt.Fprintf(os.Stderr, "Parse errors in %s:\n", filename)
		for _, e := range p.Errors {
			fmt.Fprintln(os.Stderr, "  "+e)
		}
		os.Exit(1)
	}
	return ev.Eval(program, ev.Global)
}
