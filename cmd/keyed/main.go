package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/keyed/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keyed",
		Short: "Keyed list reconciliation demo",
		Long: `keyed renders a reactive list by key and keeps the output in
step with the data using the fewest structural changes.

  • serve   runs a live board over HTTP and websockets
  • demo    replays the reference scenarios and prints pass statistics
  • init    writes a default configuration file`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		serveCmd(),
		demoCmd(),
		initCmd(),
		versionCmd(),
	)

	return cmd
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
