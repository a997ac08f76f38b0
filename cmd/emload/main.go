package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/vvka-141/emload/internal/cli"
	"github.com/vvka-141/emload/pkg/emload"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(emload.ExitPanic)
		}
	}()

	if err := cli.Execute(); err != nil {
		os.Exit(emload.ExitCodeForError(err))
	}
}
