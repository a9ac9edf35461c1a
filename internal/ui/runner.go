package ui

import (
	"fmt"
	"io"
	"os"
	"time"
)

// RunnerConfig describes a command run
type RunnerConfig struct {
	Title      string   // e.g., "Edge port import"
	Command    string   // e.g., "fabricctl ports import"
	Params     []Detail // Shown in the header
	TotalSteps int      // 0 disables the step list
	Output     io.Writer

	// Hints returns troubleshooting tips for a failure
	Hints func(error) []string

	// Summary shortens a failure for the box title
	Summary func(error) string

	// Now is the clock used for the run duration
	Now func() time.Time
}

// Runner prints the header, the steps as they are reported and the final
// result box of a command
type Runner struct {
	config   RunnerConfig
	header   *Header
	progress *Progress
	output   io.Writer
	width    int
}

// Operation is the work of a command. It reports steps through onStep and
// returns the details for the success box.
type Operation func(onStep StepCallback) ([]Detail, error)

// NewRunner creates a runner for a command
func NewRunner(config RunnerConfig) *Runner {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	width := GetTerminalWidth()
	r := &Runner{
		config: config,
		header: NewHeader(config.Title, config.Command, config.Params).SetWidth(width),
		output: config.Output,
		width:  width,
	}
	if config.TotalSteps > 0 {
		r.progress = NewProgress(config.TotalSteps).SetWidth(width)
	}
	return r
}

// SetWidth overrides the detected terminal width
func (r *Runner) SetWidth(width int) *Runner {
	r.width = width
	r.header.SetWidth(width)
	if r.progress != nil {
		r.progress.SetWidth(width)
	}
	return r
}

// Progress returns the step tracker, nil without steps
func (r *Runner) Progress() *Progress {
	return r.progress
}

// Run executes the operation and prints its outcome. The operation's error
// is returned unchanged.
func (r *Runner) Run(operation Operation) error {
	start := r.config.Now()

	r.println(r.header.Render())
	r.println("")

	details, err := operation(r.onStep)
	duration := r.config.Now().Sub(start).Round(time.Millisecond)

	if r.progress != nil {
		r.println("")
		r.println(r.progress.RenderBar())
	}
	r.println("")

	if err != nil {
		var hints []string
		if r.config.Hints != nil {
			hints = r.config.Hints(err)
		}
		title := r.config.Title + " failed"
		if r.config.Summary != nil {
			title += ": " + r.config.Summary(err)
		}
		r.println(NewFailureResult(title, err, hints).SetWidth(r.width).Render())
		return err
	}

	result := NewSuccessResult(r.config.Title+" complete", details).
		AddDetail("Duration", duration.String()).
		SetWidth(r.width)
	r.println(result.Render())
	return nil
}

// onStep prints finished steps on their own line and running steps as a
// line that the next update overwrites
func (r *Runner) onStep(stepNumber int, name string, status StepStatus, message string) {
	if r.progress == nil {
		return
	}
	r.progress.UpdateStep(stepNumber, name, status, message)
	step, ok := r.progress.Step(stepNumber)
	if !ok {
		return
	}

	line := r.progress.RenderStep(step)
	if status == StepRunning || status == StepPending {
		_, _ = fmt.Fprint(r.output, "\r\033[K"+line)
		return
	}
	_, _ = fmt.Fprintln(r.output, "\r\033[K"+line)
}

func (r *Runner) println(s string) {
	_, _ = fmt.Fprintln(r.output, s)
}
