package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/netfabric/fabricctl/internal/controller"
	"github.com/netfabric/fabricctl/internal/fabric"
	"github.com/netfabric/fabricctl/internal/ui"
)

func init() {
	segmentsCmd.AddCommand(segmentsListCmd)
	rootCmd.AddCommand(segmentsCmd)
}

var segmentsCmd = &cobra.Command{
	Use:   "segments",
	Short: "Inspect fabric segments",
}

var segmentsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the segments of every fabric",
	RunE:    runSegmentsList,
}

func runSegmentsList(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	printer := ui.NewPrinter(cmd.OutOrStdout())
	printer.PrintHeader("Fabric segments", cmd.CommandPath(), []ui.Detail{controllerDetail()})

	session, err := connect(cmd.Context(), nil)
	if err != nil {
		printer.PrintError(controller.GetShortErrorMessage(err), err, failureHints(err))
		return rendered(err)
	}

	segments, err := fabric.ListSegments(cmd.Context(), session.Client)
	if err != nil {
		printer.PrintError(controller.GetShortErrorMessage(err), err, failureHints(err))
		return rendered(err)
	}

	rows := make([][]string, 0, len(segments))
	for _, s := range segments {
		rows = append(rows, s.Cells())
	}
	printer.PrintTable(fabric.SegmentColumns, rows)
	printer.Println(fmt.Sprintf("%d segments", len(segments)))
	return nil
}
