package controller

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"github.com/netfabric/fabricctl/internal/logging"
)

// TaskOptions configures how WaitOnTask polls a task
type TaskOptions struct {
	// Timeout is how long to keep polling a task that has not finished.
	// Default: 125s
	Timeout time.Duration

	// Interval is the wait after the first non-terminal poll.
	// Default: 2s
	Interval time.Duration

	// Backoff multiplies the interval after every wait.
	// Default: 1.15
	Backoff float64
}

// DefaultTaskOptions returns the polling defaults
func DefaultTaskOptions() TaskOptions {
	return TaskOptions{
		Timeout:  125 * time.Second,
		Interval: 2 * time.Second,
		Backoff:  1.15,
	}
}

func (o TaskOptions) withDefaults() TaskOptions {
	def := DefaultTaskOptions()
	if o.Timeout <= 0 {
		o.Timeout = def.Timeout
	}
	if o.Interval <= 0 {
		o.Interval = def.Interval
	}
	if o.Backoff < 1 {
		o.Backoff = def.Backoff
	}
	return o
}

// intervals returns a backoff whose n-th value is Interval * Backoff^(n-1)
func (o TaskOptions) intervals() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = o.Interval
	b.Multiplier = o.Backoff
	b.RandomizationFactor = 0
	b.MaxInterval = time.Duration(math.MaxInt64)
	b.Reset()
	return b
}

// Task is the status document of an asynchronous controller task
type Task Object

// Doc returns the task as a plain document
func (t Task) Doc() Object {
	return Object(t)
}

// IsError reports whether the task finished with an error
func (t Task) IsError() bool {
	return Object(t).Bool("isError")
}

// IsTerminal reports whether the task has finished
func (t Task) IsTerminal() bool {
	return Object(t).Has("endTime")
}

// Progress is the task progress text. On success it often carries the id of
// a newly created object.
func (t Task) Progress() string {
	return Object(t).String("progress")
}

// FailureReason is the reason reported for a failed task
func (t Task) FailureReason() string {
	return Object(t).String("failureReason")
}

// ErrorCode is the controller error code of a failed task
func (t Task) ErrorCode() string {
	return Object(t).String("errorCode")
}

// StartTime is the task start in epoch milliseconds
func (t Task) StartTime() int64 {
	n, _ := Object(t).Int64("startTime")
	return n
}

// EndTime is the task end in epoch milliseconds
func (t Task) EndTime() int64 {
	n, _ := Object(t).Int64("endTime")
	return n
}

// Elapsed is the duration between start and end of the task
func (t Task) Elapsed() time.Duration {
	return time.Duration(t.EndTime()-t.StartTime()) * time.Millisecond
}

// Message joins the error code, failure reason and progress that are present
func (t Task) Message() string {
	return Object(t).Flatten(": ", "errorCode", "failureReason", "progress")
}

// WaitOnTask polls task/{id} until the task ends or the timeout passes.
// A task that ends with isError=true is returned as an ErrTypeTaskFailed
// error. The timeout is only checked after a poll that found the task still
// running, so at least one poll is always made.
func (c *Client) WaitOnTask(ctx context.Context, taskID string, opts TaskOptions) (Task, error) {
	opts = opts.withDefaults()
	intervals := opts.intervals()
	start := c.now()

	for {
		resp, err := c.Get(ctx, "task/"+taskID)
		if err != nil {
			return nil, fmt.Errorf("failed to get status of task %s: %w", taskID, err)
		}

		task := Task(resp.Result())
		if task == nil {
			return nil, NewParseError(fmt.Sprintf("task %s: response has no task object", taskID), nil)
		}

		if task.IsTerminal() {
			msg := task.Message()
			if task.IsError() {
				return nil, NewTaskFailedError(taskID, msg)
			}
			logging.LogTaskProgress(taskID, true, msg, 0)
			return task, nil
		}

		if c.now().Sub(start) > opts.Timeout {
			return nil, NewTaskTimeoutError(taskID,
				fmt.Sprintf("task %s did not complete within the specified time-out (%s)", taskID, opts.Timeout))
		}

		wait := intervals.NextBackOff()
		logging.LogTaskProgress(taskID, false, task.Progress(), wait)
		if err := c.sleep(ctx, wait); err != nil {
			logging.Warn("Stopped waiting for task", zap.String("task_id", taskID), zap.Error(err))
			return nil, fmt.Errorf("waiting for task %s: %w", taskID, err)
		}
	}
}
