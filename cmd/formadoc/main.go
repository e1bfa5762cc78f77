package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	// Cancellation between recipients: an interrupt stops the batch at the
	// next recipient boundary without corrupting already-produced output.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], logger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

func run(ctx context.Context, args []string, logger *slog.Logger) error {
	if len(args) == 0 {
		printUsage()
		return errUsage
	}

	switch args[0] {
	case "attest":
		return runAttest(ctx, args[1:], logger)
	case "convention":
		return runConvention(ctx, args[1:], logger)
	case "docs":
		return runDocs(ctx, args[1:], logger)
	case "version":
		fmt.Println("formadoc " + Version)
		return nil
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `formadoc generates training documents (attestations, conventions).

Usage:
  formadoc attest     [flags]   generate attestations for a session
  formadoc convention [flags]   generate a training convention
  formadoc docs       [flags]   list or delete generated documents
  formadoc version              print version

Run "formadoc <command> --help" for command flags.
`)
}
