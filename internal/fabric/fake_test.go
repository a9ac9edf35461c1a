package fabric

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/netfabric/fabricctl/internal/controller"
	"github.com/netfabric/fabricctl/internal/tabular"
)

// commitRecord is a PUT or POST the fake controller accepted
type commitRecord struct {
	Method string
	Path   string
	TaskID string
	Body   any
}

// fakeController serves canned GET bodies and turns every write into a task
// that has already finished
type fakeController struct {
	t      *testing.T
	mu     sync.Mutex
	routes map[string]string

	// progress is the task progress text by task id; "done" otherwise
	progress map[string]string
	// failPaths makes the task of a write to that path fail
	failPaths map[string]bool

	commits []commitRecord
	gets    []string
	failed  map[string]bool
}

func newFakeController(t *testing.T) (*fakeController, *controller.Client) {
	t.Helper()
	fc := &fakeController{
		t:         t,
		routes:    make(map[string]string),
		progress:  make(map[string]string),
		failPaths: make(map[string]bool),
		failed:    make(map[string]bool),
	}
	server := httptest.NewServer(http.HandlerFunc(fc.serve))
	t.Cleanup(server.Close)
	return fc, controller.NewClient(server.URL)
}

// route registers the body for "GET /api/<version>/<path>[?query]"
func (fc *fakeController) route(key, body string) {
	fc.routes[key] = body
}

func (fc *fakeController) serve(w http.ResponseWriter, r *http.Request) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	path := r.URL.Path
	switch r.Method {
	case http.MethodPut, http.MethodPost:
		raw, _ := io.ReadAll(r.Body)
		body, err := controller.DecodeBytes(raw)
		if err != nil {
			fc.t.Errorf("%s %s: invalid body: %v", r.Method, path, err)
			writeJSON(w, http.StatusBadRequest, `{"response":{"message":"bad body"}}`)
			return
		}

		taskID := fmt.Sprintf("task-%d", len(fc.commits)+1)
		fc.commits = append(fc.commits, commitRecord{Method: r.Method, Path: path, TaskID: taskID, Body: body})
		if fc.failPaths[path] {
			fc.failed[taskID] = true
		}
		writeJSON(w, http.StatusAccepted, fmt.Sprintf(`{"response":{"taskId":%q,"url":"/api/v1/task/%s"},"version":"1.0"}`, taskID, taskID))
		return
	}

	if strings.HasPrefix(path, "/api/v1/task/") {
		taskID := strings.TrimPrefix(path, "/api/v1/task/")
		if fc.failed[taskID] {
			writeJSON(w, http.StatusOK, fmt.Sprintf(`{"response":{"id":%q,"startTime":1000,"endTime":2000,"isError":true,"errorCode":"NCSP10250","failureReason":"rejected by controller"}}`, taskID))
			return
		}
		progress, ok := fc.progress[taskID]
		if !ok {
			progress = "done"
		}
		writeJSON(w, http.StatusOK, fmt.Sprintf(`{"response":{"id":%q,"startTime":1000,"endTime":3500,"isError":false,"progress":%q}}`, taskID, progress))
		return
	}

	key := r.Method + " " + path
	fc.gets = append(fc.gets, key+"?"+r.URL.RawQuery)
	if r.URL.RawQuery != "" {
		if body, ok := fc.routes[key+"?"+r.URL.RawQuery]; ok {
			writeJSON(w, http.StatusOK, body)
			return
		}
	}
	if body, ok := fc.routes[key]; ok {
		writeJSON(w, http.StatusOK, body)
		return
	}
	writeJSON(w, http.StatusNotFound, `{"response":{"errorCode":"NotFound","message":"no such resource"}}`)
}

// writes returns the recorded commits
func (fc *fakeController) writes() []commitRecord {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return append([]commitRecord(nil), fc.commits...)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json;charset=UTF-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

// events collects observer notifications
type events struct {
	mu   sync.Mutex
	list []Event
}

func (e *events) observe(ev Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.list = append(e.list, ev)
}

func (e *events) kinds(subject string) []EventKind {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []EventKind
	for _, ev := range e.list {
		if ev.Subject == subject {
			out = append(out, ev.Kind)
		}
	}
	return out
}

func newSession(client *controller.Client) (*Session, *events) {
	ev := &events{}
	return NewSession(client, controller.DefaultTaskOptions(), ev.observe), ev
}

func readRows(t *testing.T, csv string) []tabular.Row {
	t.Helper()
	table, err := tabular.Read(strings.NewReader(csv), ',')
	require.NoError(t, err)
	return table.Rows
}

// bodyObjects returns the committed array body as objects
func bodyObjects(t *testing.T, rec commitRecord) []controller.Object {
	t.Helper()
	objs := controller.AsObjects(rec.Body)
	require.NotEmpty(t, objs, "commit body is not an object array")
	return objs
}
