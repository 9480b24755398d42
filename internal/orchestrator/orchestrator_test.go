package orchestrator_test

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"go.followtheprocess.codes/apiscope/internal/orchestrator"
	"go.followtheprocess.codes/apiscope/internal/request"
	"go.followtheprocess.codes/log"
	"go.followtheprocess.codes/test"
)

// recorder is a [orchestrator.Notifier] that remembers what it was told.
type recorder struct {
	notifications []string
	events        []string // Every call in order: "start", "stop" or the notification level
	mu            sync.Mutex
	started       int
	stopped       int
}

func (r *recorder) Notify(level orchestrator.Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notifications = append(r.notifications, level.String()+": "+message)
	r.events = append(r.events, level.String())
}

func (r *recorder) StartLoading(string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.started++
	r.events = append(r.events, "start")
}

func (r *recorder) StopLoading() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopped++
	r.events = append(r.events, "stop")
}

// panicker is a [orchestrator.Doer] that always panics.
type panicker struct{}

func (panicker) Do(*http.Request) (*http.Response, error) {
	panic("boom")
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("GET /users", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"id": 1, "name": "Ada"}, {"id": 2, "name": "Grace"}]`)
	})

	mux.HandleFunc("GET /paged", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"page": 1, "results": [{"id": 1}, {"id": 2}, {"id": 3}], "meta": {"tags": ["a"]}}`)
	})

	mux.HandleFunc("GET /single", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": 1, "name": "x"}`)
	})

	mux.HandleFunc("GET /slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}

		fmt.Fprint(w, `{}`)
	})

	mux.HandleFunc("GET /html", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>nope</html>`)
	})

	mux.HandleFunc("POST /echo", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fmt.Fprintf(
			w,
			`{"contentType": %q, "userAgent": %q, "body": %q}`,
			r.Header.Get("Content-Type"),
			r.Header.Get("User-Agent"),
			string(body),
		)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server
}

func newOrchestrator(config orchestrator.Config, client orchestrator.Doer, notifier orchestrator.Notifier) *orchestrator.Orchestrator {
	logger := log.New(io.Discard)
	return orchestrator.New(config, client, notifier, logger)
}

func TestDoRootList(t *testing.T) {
	server := newServer(t)
	notifier := &recorder{}

	orch := newOrchestrator(orchestrator.Config{}, server.Client(), notifier)

	result, err := orch.Do(t.Context(), orchestrator.Input{URL: server.URL + "/users"})
	test.Ok(t, err)

	test.Equal(t, result.Stats.StatusCode, http.StatusOK)
	test.Equal(t, result.Stats.Records, 2)
	test.Equal(t, result.Stats.Size, len(`[{"id":1,"name":"Ada"},{"id":2,"name":"Grace"}]`))
	test.True(t, result.ID != "")

	test.True(t, result.Analysis.IsRootList)
	test.Equal(t, len(result.View.Tables), 1)
	test.Equal(t, len(result.View.Tables[0].Rows), 2)

	test.Equal(t, notifier.started, 1)
	test.Equal(t, notifier.stopped, 1)
	test.Equal(t, len(notifier.notifications), 1)
	test.Equal(t, notifier.notifications[0], "success: API consumed successfully")
}

func TestDoNested(t *testing.T) {
	server := newServer(t)
	orch := newOrchestrator(orchestrator.Config{}, server.Client(), nil)

	result, err := orch.Do(t.Context(), orchestrator.Input{URL: server.URL + "/paged", Method: "get"})
	test.Ok(t, err)

	test.Equal(t, len(result.Analysis.Lists), 2)
	test.Equal(t, result.Stats.Records, 4)
	test.True(t, result.View.Tabbed())
}

func TestDoRaw(t *testing.T) {
	server := newServer(t)
	orch := newOrchestrator(orchestrator.Config{}, server.Client(), nil)

	result, err := orch.Do(t.Context(), orchestrator.Input{URL: server.URL + "/single"})
	test.Ok(t, err)

	test.True(t, result.View.Raw)
	test.Equal(t, result.Stats.Records, 0)
	test.Equal(t, result.View.RawText, "{\n  \"id\": 1,\n  \"name\": \"x\"\n}")
}

func TestDoMaxRows(t *testing.T) {
	server := newServer(t)
	orch := newOrchestrator(orchestrator.Config{MaxRows: 1}, server.Client(), nil)

	result, err := orch.Do(t.Context(), orchestrator.Input{URL: server.URL + "/users"})
	test.Ok(t, err)

	test.True(t, result.View.Tables[0].Truncated())
	test.Equal(t, len(result.View.Tables[0].Rows), 1)
	test.Equal(t, result.Stats.Records, 2)
}

func TestDoDefaultsContentType(t *testing.T) {
	server := newServer(t)
	orch := newOrchestrator(orchestrator.Config{UserAgent: "apiscope/test"}, server.Client(), nil)

	result, err := orch.Do(t.Context(), orchestrator.Input{
		URL:    server.URL + "/echo",
		Method: "POST",
		Body:   `{"name": "Ada"}`,
	})
	test.Ok(t, err)

	contentType, _ := result.Body.Get("contentType")
	test.Equal(t, contentType.Text(), "application/json")

	userAgent, _ := result.Body.Get("userAgent")
	test.Equal(t, userAgent.Text(), "apiscope/test")

	body, _ := result.Body.Get("body")
	test.Equal(t, body.Text(), `{"name":"Ada"}`)
}

func TestDoKeepsUserHeaders(t *testing.T) {
	server := newServer(t)
	orch := newOrchestrator(orchestrator.Config{UserAgent: "apiscope/test"}, server.Client(), nil)

	result, err := orch.Do(t.Context(), orchestrator.Input{
		URL:     server.URL + "/echo",
		Method:  "POST",
		Headers: `{"content-type": "application/vnd.api+json", "User-Agent": "mine"}`,
		Body:    `{"a": 1}`,
	})
	test.Ok(t, err)

	contentType, _ := result.Body.Get("contentType")
	test.Equal(t, contentType.Text(), "application/vnd.api+json")

	userAgent, _ := result.Body.Get("userAgent")
	test.Equal(t, userAgent.Text(), "mine")
}

func TestDoErrors(t *testing.T) {
	server := newServer(t)

	// A server that is closed straight away so nothing is listening
	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	tests := []struct {
		name       string             // Name of the test case
		in         orchestrator.Input // Call input
		wantStatus int                // Expected StatusCode on the report
		want       orchestrator.Kind  // Expected report kind
		started    int                // Expected number of StartLoading calls
		hints      bool               // Whether we expect hints
	}{
		{
			name:    "missing url",
			in:      orchestrator.Input{URL: "  "},
			want:    orchestrator.InvalidInput,
			started: 0,
		},
		{
			name:    "bad method",
			in:      orchestrator.Input{URL: server.URL, Method: "TRACE"},
			want:    orchestrator.InvalidInput,
			started: 0,
		},
		{
			name:    "bad headers",
			in:      orchestrator.Input{URL: server.URL, Headers: `{"a": }`},
			want:    orchestrator.InvalidJSON,
			started: 0,
		},
		{
			name:    "bad body",
			in:      orchestrator.Input{URL: server.URL, Method: "POST", Body: `nope`},
			want:    orchestrator.InvalidJSON,
			started: 0,
		},
		{
			name:       "not found",
			in:         orchestrator.Input{URL: server.URL + "/missing"},
			want:       orchestrator.HTTPStatus,
			wantStatus: http.StatusNotFound,
			started:    1,
		},
		{
			name:       "method not allowed",
			in:         orchestrator.Input{URL: server.URL + "/users", Method: "DELETE"},
			want:       orchestrator.HTTPStatus,
			wantStatus: http.StatusMethodNotAllowed,
			started:    1,
		},
		{
			name:    "not json",
			in:      orchestrator.Input{URL: server.URL + "/html"},
			want:    orchestrator.InvalidJSON,
			started: 1,
		},
		{
			name:    "connection refused",
			in:      orchestrator.Input{URL: closedURL + "/users"},
			want:    orchestrator.NetworkOrCORS,
			started: 1,
			hints:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := &recorder{}
			orch := newOrchestrator(orchestrator.Config{}, server.Client(), notifier)

			_, err := orch.Do(t.Context(), tt.in)
			test.Err(t, err)

			var report *orchestrator.Report

			test.True(t, errors.As(err, &report), test.Context("error was not a *Report: %T", err))

			test.Equal(t, report.Kind, tt.want)
			test.Equal(t, report.StatusCode, tt.wantStatus)
			test.Equal(t, report.URL, tt.in.URL)
			test.True(t, report.Method != "")
			test.Equal(t, len(report.Hints) > 0, tt.hints)

			test.Equal(t, notifier.started, tt.started)
			test.Equal(t, notifier.stopped, tt.started)
			test.Equal(t, len(notifier.notifications), 1)
			test.True(t, strings.HasPrefix(notifier.notifications[0], "error: "))
		})
	}
}

func TestDoStopsLoadingBeforeNotifying(t *testing.T) {
	server := newServer(t)

	tests := []struct {
		name string   // Name of the test case
		path string   // Path to call
		want []string // Expected notifier events in order
	}{
		{name: "success", path: "/users", want: []string{"start", "stop", "success"}},
		{name: "error", path: "/missing", want: []string{"start", "stop", "error"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := &recorder{}
			orch := newOrchestrator(orchestrator.Config{}, server.Client(), notifier)

			_, _ = orch.Do(t.Context(), orchestrator.Input{URL: server.URL + tt.path})

			test.True(t, slices.Equal(notifier.events, tt.want), test.Context("got events %v", notifier.events))
		})
	}
}

func TestDoBodyTooLarge(t *testing.T) {
	server := newServer(t)

	body := `{"id": 1, "name": "x"}`

	t.Run("over the limit", func(t *testing.T) {
		orch := newOrchestrator(orchestrator.Config{MaxBodySize: int64(len(body) - 1)}, server.Client(), nil)

		_, err := orch.Do(t.Context(), orchestrator.Input{URL: server.URL + "/single"})
		test.Err(t, err)
		test.True(t, errors.Is(err, orchestrator.ErrTooLarge))

		var report *orchestrator.Report

		test.True(t, errors.As(err, &report))
		test.Equal(t, report.Kind, orchestrator.Unknown)
		test.True(t, strings.Contains(report.Message, "response body is too large"))
	})

	t.Run("exactly the limit", func(t *testing.T) {
		orch := newOrchestrator(orchestrator.Config{MaxBodySize: int64(len(body))}, server.Client(), nil)

		result, err := orch.Do(t.Context(), orchestrator.Input{URL: server.URL + "/single"})
		test.Ok(t, err)
		test.Equal(t, result.Stats.Size, len(`{"id":1,"name":"x"}`))
	})
}

func TestDoStatusMessage(t *testing.T) {
	server := newServer(t)
	orch := newOrchestrator(orchestrator.Config{}, server.Client(), nil)

	_, err := orch.Do(t.Context(), orchestrator.Input{URL: server.URL + "/missing"})
	test.Err(t, err)

	var report *orchestrator.Report

	test.True(t, errors.As(err, &report))
	test.Equal(t, report.Message, "HTTP 404: Not Found")
	test.Equal(t, report.Method, "GET")
}

func TestDoTimeout(t *testing.T) {
	server := newServer(t)
	notifier := &recorder{}

	orch := newOrchestrator(orchestrator.Config{Timeout: 50 * time.Millisecond}, server.Client(), notifier)

	_, err := orch.Do(t.Context(), orchestrator.Input{URL: server.URL + "/slow"})
	test.Err(t, err)

	var report *orchestrator.Report

	test.True(t, errors.As(err, &report))
	test.Equal(t, report.Kind, orchestrator.Timeout)
	test.True(t, errors.Is(err, orchestrator.ErrTimeout))

	test.Equal(t, notifier.started, 1)
	test.Equal(t, notifier.stopped, 1)
}

func TestDoRecoversPanic(t *testing.T) {
	notifier := &recorder{}
	orch := newOrchestrator(orchestrator.Config{}, panicker{}, notifier)

	_, err := orch.Do(t.Context(), orchestrator.Input{URL: "https://api.example.com"})
	test.Err(t, err)

	var report *orchestrator.Report

	test.True(t, errors.As(err, &report))
	test.Equal(t, report.Kind, orchestrator.Unknown)
	test.True(t, strings.Contains(report.Message, "boom"))

	// Loading cleared even though the client panicked
	test.Equal(t, notifier.started, 1)
	test.Equal(t, notifier.stopped, 1)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error             // Error to classify
		name string            // Name of the test case
		want orchestrator.Kind // Expected kind
		code int               // Expected status code
	}{
		{name: "nil", err: nil},
		{name: "missing url", err: request.ErrMissingURL, want: orchestrator.InvalidInput},
		{name: "method", err: &request.MethodError{Method: "HEAD"}, want: orchestrator.InvalidInput},
		{name: "json", err: &request.JSONError{Field: "body", Err: io.ErrUnexpectedEOF}, want: orchestrator.InvalidJSON},
		{name: "timeout", err: fmt.Errorf("wrapped: %w", orchestrator.ErrTimeout), want: orchestrator.Timeout},
		{name: "status", err: &orchestrator.StatusError{Code: 500, Status: "Internal Server Error"}, want: orchestrator.HTTPStatus, code: 500},
		{name: "marker", err: errors.New("upstream said HTTP 502: Bad Gateway"), want: orchestrator.HTTPStatus, code: 502},
		{name: "unknown", err: errors.New("something else"), want: orchestrator.Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := orchestrator.Classify(tt.err, "https://x.io", "GET")
			if tt.err == nil {
				test.True(t, report == nil)
				return
			}

			test.Equal(t, report.Kind, tt.want)
			test.Equal(t, report.StatusCode, tt.code)
			test.Equal(t, report.URL, "https://x.io")
			test.Equal(t, report.Method, "GET")
			test.True(t, errors.Is(report, tt.err))
		})
	}
}

func TestClassifyKeepsReport(t *testing.T) {
	original := &orchestrator.Report{Kind: orchestrator.Timeout, Message: "slow"}
	wrapped := fmt.Errorf("outer: %w", original)

	test.True(t, orchestrator.Classify(wrapped, "u", "m") == original)
}

func TestStatsSizeKB(t *testing.T) {
	test.Equal(t, orchestrator.Stats{Size: 0}.SizeKB(), "0.00 KB")
	test.Equal(t, orchestrator.Stats{Size: 1280}.SizeKB(), "1.25 KB")
	test.Equal(t, orchestrator.Stats{Size: 100}.SizeKB(), "0.10 KB")
}
