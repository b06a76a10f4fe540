package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/script-bridge/box"
	"github.com/wippyai/script-bridge/call"
)

func main() {
	var (
		funcName    = flag.String("call", "", "Function to call")
		argsStr     = flag.String("args", "", "Arguments (comma-separated)")
		list        = flag.Bool("list", false, "List registered functions and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		call.SetLogger(logger)
		box.SetLogger(logger)
	}

	if !*list && *funcName == "" && !*interactive {
		fmt.Fprintln(os.Stderr, "Usage: bridge -list")
		fmt.Fprintln(os.Stderr, "       bridge -call <name> [-args a,b,...]")
		fmt.Fprintln(os.Stderr, "       bridge -i  (interactive mode)")
		os.Exit(1)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode requires a terminal")
			os.Exit(1)
		}
		if err := runInteractive(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*funcName, *argsStr, *list); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(funcName, argsStr string, listOnly bool) error {
	s, err := newSession()
	if err != nil {
		return err
	}

	if listOnly {
		fmt.Printf("Registered functions:\n")
		for _, name := range s.names() {
			fmt.Printf("  %s\n", formatSignature(s.callers[name]))
		}
		return nil
	}

	var args []string
	if argsStr != "" {
		args = strings.Split(argsStr, ",")
	}

	fmt.Printf("Calling %s(%s)...\n", funcName, strings.Join(args, ", "))
	result, err := s.callByName(funcName, args)
	if err != nil {
		return fmt.Errorf("call %s: %w", funcName, err)
	}
	fmt.Printf("Result: %s\n", result)
	return nil
}
