package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// StepStatus represents the current state of a step
type StepStatus int

const (
	StepPending StepStatus = iota
	StepRunning
	StepComplete
	StepFailed
	StepSkipped
)

// Step is one unit of a multi-step run: a device commit, a pool, a segment
type Step struct {
	Number  int
	Name    string
	Status  StepStatus
	Message string // e.g. "waiting for task", "2.5s"
}

// Progress tracks a run of steps and renders a bar and a step list
type Progress struct {
	Steps   []Step
	Total   int
	Current int
	Percent float64
	Width   int
	bar     progress.Model
}

// NewProgress creates a tracker for totalSteps steps
func NewProgress(totalSteps int) *Progress {
	steps := make([]Step, totalSteps)
	for i := range steps {
		steps[i] = Step{Number: i + 1, Status: StepPending}
	}
	p := &Progress{Steps: steps, Total: totalSteps}
	p.SetWidth(GetTerminalWidth())
	return p
}

// SetWidth sizes the bar to the terminal
func (p *Progress) SetWidth(width int) *Progress {
	p.Width = width
	barWidth := width - 24
	if barWidth < 20 {
		barWidth = 20
	}
	if barWidth > 50 {
		barWidth = 50
	}
	p.bar = progress.New(
		progress.WithGradient(string(PrimaryColor), string(SuccessColor)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	return p
}

// UpdateStep sets a step's status and note. Steps past the end are ignored.
func (p *Progress) UpdateStep(stepNumber int, name string, status StepStatus, message string) {
	if stepNumber < 1 || stepNumber > len(p.Steps) {
		return
	}
	step := &p.Steps[stepNumber-1]
	if name != "" {
		step.Name = name
	}
	step.Status = status
	step.Message = message

	if status == StepRunning {
		p.Current = stepNumber
		return
	}

	done := 0
	for _, s := range p.Steps {
		if s.Status == StepComplete || s.Status == StepSkipped {
			done++
		}
	}
	if p.Total > 0 {
		p.Percent = float64(done) / float64(p.Total)
	}
}

// Step returns step n (1-based)
func (p *Progress) Step(n int) (Step, bool) {
	if n < 1 || n > len(p.Steps) {
		return Step{}, false
	}
	return p.Steps[n-1], true
}

// Render returns the bar followed by the step list
func (p *Progress) Render() string {
	lines := []string{p.RenderBar(), ""}
	for _, step := range p.Steps {
		lines = append(lines, p.RenderStep(step))
	}
	return strings.Join(lines, "\n")
}

// RenderBar renders "<bar>  50%  [2/4]"
func (p *Progress) RenderBar() string {
	return lipgloss.NewStyle().
		PaddingLeft(2).
		Render(fmt.Sprintf("%s  %3.0f%%  [%d/%d]", p.bar.ViewAs(p.Percent), p.Percent*100, p.done(), p.Total))
}

func (p *Progress) done() int {
	n := 0
	for _, s := range p.Steps {
		if s.Status == StepComplete || s.Status == StepSkipped || s.Status == StepFailed {
			n++
		}
	}
	return n
}

// RenderStep renders a single step line
func (p *Progress) RenderStep(step Step) string {
	var marker string
	var style lipgloss.Style

	switch step.Status {
	case StepComplete:
		marker, style = StepMarkerComplete, StepCompleteStyle
	case StepRunning:
		marker, style = StepMarkerRunning, StepRunningStyle
	case StepFailed:
		marker, style = FailureMarker, ErrorTitleStyle
	case StepSkipped:
		marker, style = StepMarkerSkipped, StepSkippedStyle
	default:
		marker, style = StepMarkerPending, StepPendingStyle
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("  [%d/%d] ", step.Number, p.Total))
	b.WriteString(style.Render(step.Name))

	padding := 40 - lipgloss.Width(step.Name)
	if padding < 1 {
		padding = 1
	}
	b.WriteString(strings.Repeat(" ", padding))
	b.WriteString(style.Render(marker))

	if step.Message != "" {
		b.WriteString("  ")
		b.WriteString(StepNoteStyle.Render("(" + step.Message + ")"))
	}
	return b.String()
}

// String implements fmt.Stringer
func (p *Progress) String() string {
	return p.Render()
}

// StepCallback reports progress on a step. name may be empty to keep the
// current name.
type StepCallback func(stepNumber int, name string, status StepStatus, message string)
