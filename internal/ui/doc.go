// Package ui provides terminal output components for the fabricctl CLI.
//
// Commands print in a "run once and exit" style: a header describing the
// command and its settings, a step list filled in while the controller
// processes each commit, and a success or failure box. Failure boxes carry
// troubleshooting tips supplied by the caller.
//
// The components are:
//
//   - Header: command banner with ordered parameters
//   - Progress: step list and bubbles progress bar
//   - Result: success, warning and failure boxes
//   - Runner: header, steps and result flow for a command
//   - RenderTable / RenderChanges: listings and per-device change sets
//   - Prompter and PickerModel: operator input, with a Bubble Tea picker
//     on terminals and numbered line input otherwise
//
// Typical use:
//
//	runner := ui.NewRunner(ui.RunnerConfig{
//	    Title:      "Edge port import",
//	    Command:    "fabricctl ports import",
//	    Params:     []ui.Detail{ui.D("Controller", host)},
//	    TotalSteps: len(hosts),
//	    Hints:      controller.GetTroubleshootingHint,
//	})
//	err := runner.Run(func(onStep ui.StepCallback) ([]ui.Detail, error) {
//	    onStep(1, "edge-1", ui.StepRunning, "waiting for task")
//	    // ...
//	    onStep(1, "", ui.StepComplete, "2.5s")
//	    return nil, nil
//	})
//
// Logging stays silent unless FABRIC_LOG_LEVEL or --log-level is set, so the
// styled output is not interleaved with log lines.
package ui
