package cli

import (
	"context"
	"os"
)

// Execute runs the licensefinder CLI with os.Args and the standard
// streams. It returns the error of the failed command, if any.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// Example:
//
//	func main() {
//	    ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	    defer cancel()
//	    if err := cli.Execute(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
func Execute(ctx context.Context) error {
	return New(os.Stdout, os.Stderr, LogInfo).RootCommand().ExecuteContext(ctx)
}
