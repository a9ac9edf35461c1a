package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/netfabric/fabricctl/internal/controller"
	"github.com/netfabric/fabricctl/internal/fabric"
	"github.com/netfabric/fabricctl/internal/ui"
)

var (
	templateName   string
	templateDevice string
	templateParams []string
)

func init() {
	templateDeployCmd.Flags().StringVarP(&templateName, "template", "t", "", "template name or project/name (default: choose)")
	templateDeployCmd.Flags().StringVar(&templateDevice, "device", "", "device hostname (default: choose)")
	templateDeployCmd.Flags().StringArrayVarP(&templateParams, "param", "p", nil, "template parameter as name=value (repeatable)")

	templateCmd.AddCommand(templateDeployCmd)
	rootCmd.AddCommand(templateCmd)
}

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Work with user CLI templates",
}

var templateDeployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy a user CLI template to a provisioned device",
	Long: `Deploy the latest version of a user CLI template to one fabric device.

The template and the device are chosen from a list unless --template and
--device name them. Template parameters not given with --param are asked
for one by one. The device must already be provisioned in the fabric and
its family must be one of the template's device types.`,
	Example: `  # Choose everything interactively
  fabricctl template deploy

  # Fully scripted
  fabricctl template deploy -t Campus/banner --device edge-1 -p MOTD="Authorized use only"`,
	RunE: runTemplateDeploy,
}

func runTemplateDeploy(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	params, err := parseParams(templateParams)
	if err != nil {
		return err
	}

	runner := ui.NewRunner(ui.RunnerConfig{
		Title:   "Template deployment",
		Command: cmd.CommandPath(),
		Params: []ui.Detail{
			controllerDetail(),
			ui.D("Template", firstNonEmpty(templateName, "(choose)")),
			ui.D("Device", firstNonEmpty(templateDevice, "(choose)")),
		},
		TotalSteps: 1,
		Output:     cmd.OutOrStdout(),
		Hints:      failureHints,
		Summary:    controller.GetShortErrorMessage,
	})

	return rendered(runner.Run(func(onStep ui.StepCallback) ([]ui.Detail, error) {
		observer := newStepObserver(onStep)
		session, err := connect(cmd.Context(), observer.Observe)
		if err != nil {
			return nil, err
		}

		deployer := &fabric.TemplateDeployer{
			Session:  session,
			Template: templateName,
			Device:   templateDevice,
			Params:   params,
			Prompter: terminal(),
		}
		report, err := deployer.Run(cmd.Context())
		if err != nil {
			return nil, err
		}

		details := []ui.Detail{
			ui.D("Template", report.Template),
			ui.D("Device", report.Device),
		}
		names := make([]string, 0, len(report.Params))
		for name := range report.Params {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			details = append(details, ui.D(name, report.Params[name]))
		}
		return details, nil
	}))
}

// parseParams converts name=value flags into a map
func parseParams(values []string) (map[string]string, error) {
	params := make(map[string]string, len(values))
	for _, v := range values {
		name, value, ok := strings.Cut(v, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --param %q (expected name=value)", v)
		}
		params[name] = value
	}
	return params, nil
}
