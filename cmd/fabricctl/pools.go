package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/netfabric/fabricctl/internal/controller"
	"github.com/netfabric/fabricctl/internal/fabric"
	"github.com/netfabric/fabricctl/internal/tabular"
	"github.com/netfabric/fabricctl/internal/ui"
)

var (
	poolsFile      string
	poolsDelimiter string
)

func init() {
	poolsImportCmd.Flags().StringVarP(&poolsFile, "file", "f", "", "IP pool file (default pool-import.csv)")
	poolsImportCmd.Flags().StringVarP(&poolsDelimiter, "delimiter", "d", "", "column delimiter (default \",\")")
	poolsImportCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "commit without asking for confirmation")

	poolsCmd.AddCommand(poolsImportCmd)
	rootCmd.AddCommand(poolsCmd)
}

var poolsCmd = &cobra.Command{
	Use:   "pools",
	Short: "Manage global IP pools",
}

var poolsImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Create IP pools and their fabric segments from a delimited file",
	Long: `Create global IP pools and attach each one to a virtual network as a
new fabric segment.

Every row creates the pool named in "IP Pool Name" and then adds a segment
named after the pool CIDR and the virtual network (10.20.0.0/16 in CAMPUS
gives 10_20_0_0-CAMPUS) to the virtual network of the row's fabric. Both
changes are controller tasks; the first failure stops the run.`,
	Example: `  fabricctl pools import --host dnac.example.net -f pools.csv`,
	RunE:    runPoolsImport,
}

func runPoolsImport(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	file := firstNonEmpty(poolsFile, cfg.Import.PoolsFile)
	table, err := readTable(file, firstNonEmpty(poolsDelimiter, cfg.Import.Delimiter), tabular.PoolColumns)
	if err != nil {
		return err
	}

	items := make([]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		items = append(items, fmt.Sprintf("%s %s -> %s in %s",
			row.Get(tabular.ColPoolName), row.Get(tabular.ColPoolCIDR),
			row.Get(tabular.ColVirtualNetwork), row.Get(tabular.ColFabric)))
	}
	ok, err := approveCommit(fmt.Sprintf("Create %d IP pools", len(table.Rows)), items)
	if err != nil || !ok {
		return err
	}

	runner := ui.NewRunner(ui.RunnerConfig{
		Title:   "IP pool import",
		Command: cmd.CommandPath(),
		Params: []ui.Detail{
			controllerDetail(),
			ui.D("File", file),
			ui.D("Pools", strconv.Itoa(len(table.Rows))),
		},
		// a pool and its segment per row
		TotalSteps: 2 * len(table.Rows),
		Output:     cmd.OutOrStdout(),
		Hints:      failureHints,
		Summary:    controller.GetShortErrorMessage,
	})

	err = runner.Run(func(onStep ui.StepCallback) ([]ui.Detail, error) {
		observer := newStepObserver(onStep)
		session, err := connect(cmd.Context(), observer.Observe)
		if err != nil {
			return nil, err
		}

		reports, err := (&fabric.PoolImporter{Session: session}).Run(cmd.Context(), table.Rows)
		if err != nil {
			return nil, err
		}

		details := []ui.Detail{ui.D("Created", fmt.Sprintf("%d pools", len(reports)))}
		for _, r := range reports {
			details = append(details, ui.D(r.Pool, r.Segment))
		}
		return details, nil
	})
	return rendered(err)
}
