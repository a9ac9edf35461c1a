package fabric

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/netfabric/fabricctl/internal/controller"
	"github.com/netfabric/fabricctl/internal/logging"
	"github.com/netfabric/fabricctl/internal/reconcile"
)

// Controller API paths
const (
	PathNetworkDevice    = "network-device"
	PathDeviceInterfaces = "interface/network-device/"
	PathSiteProfile      = "siteprofile"
	PathIPPool           = "ippool"
	PathTemplate         = "template-programmer/template"

	PathCFS                   = "data/customer-facing-service/"
	PathScalableGroup         = PathCFS + "scalablegroup"
	PathSegment               = PathCFS + "Segment"
	PathDeviceInfo            = PathCFS + "DeviceInfo"
	PathConnectivityDomain    = PathCFS + "ConnectivityDomain"
	PathVirtualNetwork        = PathCFS + "VirtualNetwork"
	PathVirtualNetworkContext = PathCFS + "virtualnetworkcontext"
)

// VersionV2 is the API version of the customer-facing-service and pool endpoints
const VersionV2 = "v2"

// EventKind identifies a progress event
type EventKind int

const (
	// EventBegin starts work on a subject (a host, a pool, a template)
	EventBegin EventKind = iota
	// EventChanges carries the reconciliation result of a host
	EventChanges
	// EventDryRun reports a commit that was skipped
	EventDryRun
	// EventWaiting reports that a commit was accepted and its task is polled
	EventWaiting
	// EventCommitted reports a finished task
	EventCommitted
)

// Event is a progress notification from a running flow
type Event struct {
	Kind    EventKind
	Subject string
	Message string
	TaskID  string
	Task    controller.Task
	Result  *reconcile.Result
}

// Observer receives progress events. Flows call it synchronously.
type Observer func(Event)

// Session is an authenticated controller client plus the settings every flow
// shares
type Session struct {
	Client   *controller.Client
	Task     controller.TaskOptions
	Observer Observer
}

// NewSession wraps a logged-in client
func NewSession(client *controller.Client, task controller.TaskOptions, observer Observer) *Session {
	return &Session{Client: client, Task: task, Observer: observer}
}

func (s *Session) emit(ev Event) {
	if s.Observer != nil {
		s.Observer(ev)
	}
}

// items fetches path and returns the "response" array
func (s *Session) items(ctx context.Context, path string, opts ...controller.RequestOption) ([]controller.Object, error) {
	resp, err := s.Client.Get(ctx, path, opts...)
	if err != nil {
		return nil, err
	}
	return resp.Items(), nil
}

// commit sends a change, waits on the task it starts and returns the
// finished task
func (s *Session) commit(ctx context.Context, method, path string, body any, subject string) (controller.Task, error) {
	resp, err := s.Client.Request(ctx, method, path, body, controller.WithVersion(VersionV2))
	if err != nil {
		return nil, err
	}

	taskID := resp.Result().String("taskId")
	if taskID == "" {
		return nil, controller.NewParseError(
			fmt.Sprintf("%s %s returned no task id", method, path), nil)
	}

	logging.Info("Waiting for task",
		zap.String("subject", subject),
		zap.String("task_id", taskID),
	)
	s.emit(Event{Kind: EventWaiting, Subject: subject, TaskID: taskID})

	task, err := s.Client.WaitOnTask(ctx, taskID, s.Task)
	if err != nil {
		return nil, err
	}

	s.emit(Event{Kind: EventCommitted, Subject: subject, TaskID: taskID, Task: task})
	return task, nil
}

func (s *Session) put(ctx context.Context, path string, body any, subject string) (controller.Task, error) {
	return s.commit(ctx, http.MethodPut, path, body, subject)
}

func (s *Session) post(ctx context.Context, path string, body any, subject string) (controller.Task, error) {
	return s.commit(ctx, http.MethodPost, path, body, subject)
}
