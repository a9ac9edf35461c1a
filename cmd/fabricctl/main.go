// Fabricctl bulk-configures a campus fabric through the network controller's
// REST API.
//
// It reads edge-port assignments and IP pools from delimited files, computes
// the change set for each device and commits it, waiting on every
// asynchronous controller task before moving on. It also lists fabric
// segments and deploys user CLI templates to provisioned devices.
//
// Usage:
//
//	fabricctl [command] [flags]
//
// Settings come from ~/.config/fabricctl/config.yaml, FABRIC_* environment
// variables and flags, in increasing precedence. See 'fabricctl --help'.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/netfabric/fabricctl/internal/logging"
	"github.com/netfabric/fabricctl/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	logging.Sync()
	if err != nil {
		// failures already shown as a result box are not repeated
		var shown renderedError
		if !errors.As(err, &shown) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fabricctl",
	Short: "Campus fabric bulk configuration utility",
	Long: `Bulk-configure campus fabric objects on a network controller.

fabricctl assigns edge ports, creates IP pools with their segments, lists
fabric segments and deploys user CLI templates. Every change is committed
as a controller task and waited on before the next one starts; the first
failure stops the run.`,
	Version:           version.Version,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
	Example: `  # Assign edge ports from cfs-import.csv
  fabricctl ports import --host dnac.example.net

  # Preview the changes without committing them
  fabricctl ports import --file ports.csv --dry-run

  # List fabric segments
  fabricctl segments list`,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print version information",
	Annotations: map[string]string{annotationConfig: configDefaults},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fabricctl %s\n", version.Full())
	},
}

// renderedError marks an error the command already printed in a result box
type renderedError struct {
	err error
}

func (e renderedError) Error() string { return e.err.Error() }
func (e renderedError) Unwrap() error { return e.err }

func rendered(err error) error {
	if err == nil {
		return nil
	}
	return renderedError{err: err}
}
