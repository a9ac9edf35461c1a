package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/netfabric/fabricctl/internal/controller"
	"github.com/netfabric/fabricctl/internal/fabric"
	"github.com/netfabric/fabricctl/internal/reconcile"
	"github.com/netfabric/fabricctl/internal/tabular"
	"github.com/netfabric/fabricctl/internal/ui"
)

var (
	portsFile      string
	portsDelimiter string
	portsDryRun    bool
)

func init() {
	portsImportCmd.Flags().StringVarP(&portsFile, "file", "f", "", "port assignment file (default cfs-import.csv)")
	portsImportCmd.Flags().StringVarP(&portsDelimiter, "delimiter", "d", "", "column delimiter (default \",\")")
	portsImportCmd.Flags().BoolVar(&portsDryRun, "dry-run", false, "show the changes without committing them")
	portsImportCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "commit without asking for confirmation")

	portsCmd.AddCommand(portsImportCmd)
	rootCmd.AddCommand(portsCmd)
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "Manage fabric edge ports",
}

var portsImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Assign edge ports from a delimited file",
	Long: `Assign fabric edge ports from a delimited file.

The file has a header row with the columns Hostname, Interface,
Authentication, Scalable group, Data segment and Voice segment (Device type
is optional). Each row configures one interface. A row whose reference
columns are all empty removes the interface from the fabric.

Devices are processed in the order they first appear in the file. Each
device is committed as one controller task and waited on; the first failure
stops the run and devices already committed stay committed.`,
	Example: `  # Import cfs-import.csv from the current directory
  fabricctl ports import --host dnac.example.net

  # Semicolon separated file, preview only
  fabricctl ports import -f ports.csv -d ';' --dry-run

  # Force the v2 DeviceInfo layout
  fabricctl ports import --generation v2`,
	RunE: runPortsImport,
}

func runPortsImport(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	file := firstNonEmpty(portsFile, cfg.Import.PortsFile)
	table, err := readTable(file, firstNonEmpty(portsDelimiter, cfg.Import.Delimiter), tabular.PortColumns)
	if err != nil {
		return err
	}
	gen, err := reconcile.ParseGeneration(cfg.Controller.Generation)
	if err != nil {
		return err
	}
	hosts := tabular.Hostnames(table.Rows)

	if !portsDryRun {
		items := make([]string, 0, len(hosts))
		for _, h := range hosts {
			items = append(items, fmt.Sprintf("%s: %d interfaces", h, len(tabular.ForHost(table.Rows, h))))
		}
		ok, err := approveCommit(fmt.Sprintf("Commit edge ports on %d devices", len(hosts)), items)
		if err != nil || !ok {
			return err
		}
	}

	mode := "commit"
	if portsDryRun {
		mode = "dry run"
	}
	runner := ui.NewRunner(ui.RunnerConfig{
		Title:   "Edge port import",
		Command: cmd.CommandPath(),
		Params: []ui.Detail{
			controllerDetail(),
			ui.D("File", file),
			ui.D("Devices", strconv.Itoa(len(hosts))),
			ui.D("Generation", string(gen)),
			ui.D("Mode", mode),
		},
		TotalSteps: len(hosts),
		Output:     cmd.OutOrStdout(),
		Hints:      failureHints,
		Summary:    controller.GetShortErrorMessage,
	})

	var reports []fabric.PortReport
	err = runner.Run(func(onStep ui.StepCallback) ([]ui.Detail, error) {
		observer := newStepObserver(onStep)
		session, err := connect(cmd.Context(), observer.Observe)
		if err != nil {
			return nil, err
		}

		importer := &fabric.PortImporter{Session: session, Generation: gen, DryRun: portsDryRun}
		reports, err = importer.Run(cmd.Context(), table.Rows)
		if err != nil {
			return nil, err
		}
		return portDetails(reports, portsDryRun), nil
	})
	if err != nil {
		return rendered(err)
	}

	if portsDryRun {
		printer := ui.NewPrinter(cmd.OutOrStdout())
		printer.Newline()
		for _, r := range reports {
			printer.PrintChanges(r.Host, r.Result.Removed, r.Result.Updated, r.Result.Added)
		}
	}
	return nil
}

func portDetails(reports []fabric.PortReport, dryRun bool) []ui.Detail {
	var removed, updated, added int
	for _, r := range reports {
		removed += len(r.Result.Removed)
		updated += len(r.Result.Updated)
		added += len(r.Result.Added)
	}

	verb := "Committed"
	if dryRun {
		verb = "Not committed"
	}
	return []ui.Detail{
		ui.D(verb, fmt.Sprintf("%d devices", len(reports))),
		ui.D("Interfaces", fmt.Sprintf("%d removed, %d updated, %d added", removed, updated, added)),
	}
}

// readTable reads a delimited file and checks its header
func readTable(file, delimiter string, columns []string) (*tabular.Table, error) {
	delim, err := tabular.ParseDelimiter(delimiter)
	if err != nil {
		return nil, err
	}
	table, err := tabular.ReadFile(file, delim)
	if err != nil {
		return nil, err
	}
	if err := table.Require(columns...); err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("%s: no rows to import", file)
	}
	return table, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
