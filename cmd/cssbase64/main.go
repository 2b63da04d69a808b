package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/automaxprocs/maxprocs"
)

func main() {
	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain wires process-level concerns around run and maps its error to
// an exit code.
func runMain(args []string, env *Environment) int {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if wantsVerbose(args) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(env.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, args, env); err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// wantsVerbose peeks at the raw arguments before flag parsing.
func wantsVerbose(args []string) bool {
	if len(args) < 2 {
		return false
	}
	for _, a := range args[1:] {
		if a == "--" {
			break
		}
		if a == "-v" || a == "--verbose" {
			return true
		}
	}
	return false
}
