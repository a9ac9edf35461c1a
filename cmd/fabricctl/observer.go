package main

import (
	"fmt"

	"github.com/netfabric/fabricctl/internal/fabric"
	"github.com/netfabric/fabricctl/internal/ui"
)

// stepObserver turns flow events into numbered runner steps. Every
// EventBegin opens the next step; later events for a subject update the step
// that subject opened, or the current step when the subject is unknown.
type stepObserver struct {
	onStep  ui.StepCallback
	current int
	names   map[string]int
	labels  map[int]string
}

func newStepObserver(onStep ui.StepCallback) *stepObserver {
	return &stepObserver{
		onStep: onStep,
		names:  make(map[string]int),
		labels: make(map[int]string),
	}
}

func (o *stepObserver) step(subject string) int {
	if n, ok := o.names[subject]; ok {
		return n
	}
	return o.current
}

// Observe implements fabric.Observer
func (o *stepObserver) Observe(ev fabric.Event) {
	switch ev.Kind {
	case fabric.EventBegin:
		o.current++
		o.names[ev.Subject] = o.current
		label := ev.Subject
		if ev.Message != "" {
			label = ev.Message
		}
		o.labels[o.current] = label
		o.onStep(o.current, label, ui.StepRunning, "")

	case fabric.EventChanges:
		n := o.step(ev.Subject)
		o.onStep(n, o.labels[n], ui.StepRunning, changeSummary(ev))

	case fabric.EventDryRun:
		n := o.step(ev.Subject)
		o.onStep(n, o.labels[n], ui.StepSkipped, "dry run, "+changeSummary(ev))

	case fabric.EventWaiting:
		n := o.step(ev.Subject)
		o.onStep(n, o.labels[n], ui.StepRunning, "waiting for task "+ev.TaskID)

	case fabric.EventCommitted:
		n := o.step(ev.Subject)
		o.onStep(n, o.labels[n], ui.StepComplete, "completed in "+ev.Task.Elapsed().String())
	}
}

func changeSummary(ev fabric.Event) string {
	if ev.Result == nil {
		return "no changes"
	}
	return fmt.Sprintf("-%d ~%d +%d", len(ev.Result.Removed), len(ev.Result.Updated), len(ev.Result.Added))
}
