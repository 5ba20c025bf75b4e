package client

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	internalhttp "github.com/fivetwenty-io/gerrit-client/internal/http"
	"github.com/fivetwenty-io/gerrit-client/pkg/gerrit"
)

// RecordedRequest is a request seen by a TestServer.
type RecordedRequest struct {
	Method      string
	Path        string
	Query       string
	ContentType string
	Body        []byte
}

// TestResponse is what a TestServer answers.
type TestResponse struct {
	StatusCode  int
	ContentType string
	Body        string
}

// GerritJSON answers status with body behind the magic prefix.
func GerritJSON(status int, body string) TestResponse {
	return TestResponse{
		StatusCode:  status,
		ContentType: "application/json; charset=UTF-8",
		Body:        gerrit.MagicPrefix + body,
	}
}

// TestServer records every request and answers with a fixed response.
type TestServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []RecordedRequest
	response TestResponse
}

// NewTestServer starts a server answering response to every request.
func NewTestServer(t *testing.T, response TestResponse) *TestServer {
	t.Helper()

	server := &TestServer{response: response}
	server.Server = httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		body, _ := io.ReadAll(request.Body)

		server.mu.Lock()
		server.requests = append(server.requests, RecordedRequest{
			Method:      request.Method,
			Path:        request.URL.EscapedPath(),
			Query:       request.URL.RawQuery,
			ContentType: request.Header.Get("Content-Type"),
			Body:        body,
		})
		current := server.response
		server.mu.Unlock()

		if current.ContentType != "" {
			writer.Header().Set("Content-Type", current.ContentType)
		}

		status := current.StatusCode
		if status == 0 {
			status = http.StatusOK
		}

		writer.WriteHeader(status)
		_, _ = io.WriteString(writer, current.Body)
	}))

	t.Cleanup(server.Close)

	return server
}

// SetResponse changes the response for subsequent requests.
func (s *TestServer) SetResponse(response TestResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.response = response
}

// Requests returns the requests seen so far.
func (s *TestServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	requests := make([]RecordedRequest, len(s.requests))
	copy(requests, s.requests)

	return requests
}

// NewTestClient creates a client for baseURL without credentials.
func NewTestClient(baseURL string) *Client {
	return newClient(internalhttp.NewClient(baseURL, nil), gerrit.ReadOnlyCompat, false)
}

// NewTestClientWithPolicy creates a client for baseURL with the given
// read-only policy.
func NewTestClientWithPolicy(baseURL string, policy gerrit.ReadOnlyPolicy) *Client {
	return newClient(internalhttp.NewClient(baseURL, nil), policy, false)
}

// RecordingLogger keeps every log entry.
type RecordingLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

// LogEntry is one recorded log call.
type LogEntry struct {
	Level   string
	Message string
	Fields  map[string]interface{}
}

func (l *RecordingLogger) record(level, msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, LogEntry{Level: level, Message: msg, Fields: fields})
}

func (l *RecordingLogger) Debug(msg string, fields map[string]interface{}) { l.record("debug", msg, fields) }
func (l *RecordingLogger) Info(msg string, fields map[string]interface{})  { l.record("info", msg, fields) }
func (l *RecordingLogger) Warn(msg string, fields map[string]interface{})  { l.record("warn", msg, fields) }
func (l *RecordingLogger) Error(msg string, fields map[string]interface{}) { l.record("error", msg, fields) }

// Messages returns the recorded messages in order.
func (l *RecordingLogger) Messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	messages := make([]string, 0, len(l.entries))
	for _, entry := range l.entries {
		messages = append(messages, entry.Message)
	}

	return messages
}
