// zephyr-reporter pushes Cucumber test results into Zephyr for JIRA.
//
// Usage:
//
//	zephyr-reporter sync [report.json]
//	zephyr-reporter check
//	zephyr-reporter login
//	zephyr-reporter history [--limit N] [-o table|json|yaml]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
