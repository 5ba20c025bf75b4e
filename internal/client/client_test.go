package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/gerrit-client/pkg/gerrit"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("nil config", func(t *testing.T) {
		t.Parallel()

		client, err := New(nil)
		require.ErrorIs(t, err, gerrit.ErrConfigRequired)
		assert.Nil(t, client)
	})

	t.Run("missing URL", func(t *testing.T) {
		t.Parallel()

		client, err := New(&gerrit.Config{})
		require.ErrorIs(t, err, gerrit.ErrURLRequired)
		assert.Nil(t, client)
	})

	t.Run("read-only from config", func(t *testing.T) {
		t.Parallel()

		client, err := New(&gerrit.Config{URL: "https://gerrit.example.com/", ReadOnly: true})
		require.NoError(t, err)
		assert.True(t, client.ReadOnly())
	})

	t.Run("basic auth on every request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			username, password, ok := request.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "jdoe", username)
			assert.Equal(t, "http-password", password)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client, err := New(&gerrit.Config{URL: server.URL + "/", Username: "jdoe", Password: "http-password"})
		require.NoError(t, err)

		_, err = client.Get(context.Background(), "/a/accounts/self")
		require.NoError(t, err)
	})

	t.Run("no credentials without username", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			_, _, ok := request.BasicAuth()
			assert.False(t, ok)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client, err := New(&gerrit.Config{URL: server.URL + "/"})
		require.NoError(t, err)

		_, err = client.Get(context.Background(), "/projects/")
		require.NoError(t, err)
	})

	t.Run("metrics registerer", func(t *testing.T) {
		t.Parallel()

		server := NewTestServer(t, GerritJSON(http.StatusOK, `{}`))
		registry := prometheus.NewRegistry()

		client, err := New(&gerrit.Config{URL: server.URL + "/", MetricsRegisterer: registry})
		require.NoError(t, err)

		_, err = client.Get(context.Background(), "/a/accounts/self")
		require.NoError(t, err)

		count, err := testutil.GatherAndCount(registry, "gerrit_client_requests_total")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("metrics registered twice", func(t *testing.T) {
		t.Parallel()

		registry := prometheus.NewRegistry()

		_, err := New(&gerrit.Config{URL: "https://gerrit.example.com/", MetricsRegisterer: registry})
		require.NoError(t, err)

		_, err = New(&gerrit.Config{URL: "https://gerrit.example.com/", MetricsRegisterer: registry})
		require.Error(t, err)
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Get(t *testing.T) {
	t.Parallel()

	t.Run("decodes prefixed JSON", func(t *testing.T) {
		t.Parallel()

		server := NewTestServer(t, GerritJSON(http.StatusOK, `[{"_number":1}]`))
		client := NewTestClient(server.URL)

		value, err := client.Get(context.Background(), "/changes/?q=owner:self")
		require.NoError(t, err)
		assert.Equal(t, 200, value.StatusCode)
		assert.Equal(t, []interface{}{map[string]interface{}{"_number": float64(1)}}, value.Data)

		requests := server.Requests()
		require.Len(t, requests, 1)
		assert.Equal(t, "/changes/", requests[0].Path)
		assert.Equal(t, "q=owner:self", requests[0].Query)
	})

	t.Run("non-2xx is not an error", func(t *testing.T) {
		t.Parallel()

		server := NewTestServer(t, TestResponse{
			StatusCode:  http.StatusNotFound,
			ContentType: "text/plain; charset=UTF-8",
			Body:        "Not found: demo",
		})
		client := NewTestClient(server.URL)

		value, err := client.Get(context.Background(), "/a/projects/demo")
		require.NoError(t, err)
		assert.Equal(t, 404, value.StatusCode)
		assert.True(t, value.IsEmpty())
		assert.Equal(t, "Not found: demo", string(value.Body))
	})

	t.Run("decode error keeps raw body", func(t *testing.T) {
		t.Parallel()

		server := NewTestServer(t, GerritJSON(http.StatusOK, `{not json`))
		client := NewTestClient(server.URL)

		_, err := client.Get(context.Background(), "/a/projects/")
		require.Error(t, err)

		raw, ok := gerrit.RawBody(err)
		require.True(t, ok)
		assert.Equal(t, gerrit.MagicPrefix+`{not json`, string(raw))
	})

	t.Run("transport error", func(t *testing.T) {
		t.Parallel()

		server := NewTestServer(t, GerritJSON(http.StatusOK, `{}`))
		serverURL := server.URL
		server.Close()

		client := NewTestClient(serverURL)

		_, err := client.Get(context.Background(), "/a/projects/")
		require.Error(t, err)
		assert.True(t, gerrit.IsTransportError(err))
	})

	t.Run("runs in read-only mode", func(t *testing.T) {
		t.Parallel()

		server := NewTestServer(t, GerritJSON(http.StatusOK, `{}`))
		client := NewTestClientWithPolicy(server.URL, gerrit.ReadOnlyStrict)
		client.SetReadOnly()

		_, err := client.Get(context.Background(), "/a/projects/")
		require.NoError(t, err)
		assert.Len(t, server.Requests(), 1)
	})
}

func TestClient_Put(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		expected bool
	}{
		{name: "created", status: http.StatusCreated, expected: true},
		{name: "ok is not created", status: http.StatusOK, expected: false},
		{name: "conflict", status: http.StatusConflict, expected: false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			server := NewTestServer(t, GerritJSON(testCase.status, `{}`))
			client := NewTestClient(server.URL)

			created, err := client.Put(context.Background(), "/a/projects/demo/branches/x", map[string]string{"ref": "x"})
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, created)

			requests := server.Requests()
			require.Len(t, requests, 1)
			assert.Equal(t, http.MethodPut, requests[0].Method)
			assert.Equal(t, "application/json", requests[0].ContentType)
			assert.JSONEq(t, `{"ref":"x"}`, string(requests[0].Body))
		})
	}
}

func TestClient_Post(t *testing.T) {
	t.Parallel()

	server := NewTestServer(t, GerritJSON(http.StatusOK, `{"done":true}`))
	client := NewTestClient(server.URL)

	value, err := client.Post(context.Background(), "/a/config/server/caches/", url.Values{"operation": []string{"FLUSH_ALL"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"done": true}, value.Data)

	requests := server.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, http.MethodPost, requests[0].Method)
	assert.Equal(t, "application/x-www-form-urlencoded", requests[0].ContentType)
	assert.Equal(t, "operation=FLUSH_ALL", string(requests[0].Body))
}

func TestClient_Delete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		expected bool
	}{
		{name: "no content", status: http.StatusNoContent, expected: true},
		{name: "ok is not no content", status: http.StatusOK, expected: false},
		{name: "not found", status: http.StatusNotFound, expected: false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			server := NewTestServer(t, TestResponse{StatusCode: testCase.status})
			client := NewTestClient(server.URL)

			deleted, err := client.Delete(context.Background(), "/projects/demo/branches/x")
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, deleted)
		})
	}
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_ReadOnlyCompat(t *testing.T) {
	t.Parallel()

	t.Run("put and post send nothing, get and delete still go out", func(t *testing.T) {
		t.Parallel()

		server := NewTestServer(t, TestResponse{StatusCode: http.StatusNoContent})
		client := NewTestClient(server.URL)
		client.SetReadOnly()

		_, err := client.Put(context.Background(), "/a/projects/demo/branches/x", &gerrit.BranchInput{Ref: "x"})
		require.NoError(t, err)

		value, err := client.Post(context.Background(), "/a/projects/demo/branches:delete", url.Values{"a": []string{"b"}})
		require.NoError(t, err)
		assert.True(t, value.IsEmpty())

		value, err = client.PostJSON(context.Background(), "/a/projects/demo/branches:delete", &gerrit.DeleteBranchesInput{Branches: []string{"x"}})
		require.NoError(t, err)
		assert.True(t, value.IsEmpty())

		assert.Empty(t, server.Requests())

		_, err = client.Get(context.Background(), "/a/projects/demo/branches/")
		require.NoError(t, err)

		deleted, err := client.Delete(context.Background(), "/projects/demo/branches/x")
		require.NoError(t, err)
		assert.True(t, deleted)

		requests := server.Requests()
		require.Len(t, requests, 2)
		assert.Equal(t, http.MethodGet, requests[0].Method)
		assert.Equal(t, http.MethodDelete, requests[1].Method)
	})

	t.Run("skipped put reports the previous 201", func(t *testing.T) {
		t.Parallel()

		server := NewTestServer(t, GerritJSON(http.StatusCreated, `{}`))
		client := NewTestClient(server.URL)

		created, err := client.Put(context.Background(), "/a/projects/demo/branches/a", &gerrit.BranchInput{Ref: "a"})
		require.NoError(t, err)
		require.True(t, created)

		client.SetReadOnly()

		created, err = client.Put(context.Background(), "/a/projects/demo/branches/b", &gerrit.BranchInput{Ref: "b"})
		require.NoError(t, err)
		assert.True(t, created, "a skipped PUT repeats the previous request's 201 comparison")
		assert.Len(t, server.Requests(), 1)
	})

	t.Run("skipped put reports the previous non-201", func(t *testing.T) {
		t.Parallel()

		server := NewTestServer(t, GerritJSON(http.StatusOK, `{}`))
		client := NewTestClient(server.URL)

		_, err := client.Get(context.Background(), "/a/projects/demo/branches/")
		require.NoError(t, err)

		client.SetReadOnly()

		created, err := client.Put(context.Background(), "/a/projects/demo/branches/b", &gerrit.BranchInput{Ref: "b"})
		require.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("skipped put without previous request", func(t *testing.T) {
		t.Parallel()

		client := NewTestClient("http://127.0.0.1:1")
		client.SetReadOnly()

		created, err := client.Put(context.Background(), "/a/projects/demo/branches/b", nil)
		require.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("skipped put reports the last sent put", func(t *testing.T) {
		t.Parallel()

		server := NewTestServer(t, GerritJSON(http.StatusCreated, `{"ref":"refs/heads/b"}`))
		client := NewTestClient(server.URL)

		created, err := client.Put(context.Background(), "/a/projects/demo/branches/b", nil)
		require.NoError(t, err)
		assert.True(t, created)

		client.SetReadOnly()

		created, err = client.Put(context.Background(), "/a/projects/demo/branches/c", nil)
		require.NoError(t, err)
		assert.True(t, created)

		assert.Len(t, server.Requests(), 1)
	})

	t.Run("skips are logged", func(t *testing.T) {
		t.Parallel()

		logger := &RecordingLogger{}
		client := NewTestClient("http://127.0.0.1:1")
		client.SetLogger(logger)
		client.SetReadOnly()

		_, err := client.Put(context.Background(), "/a/x", nil)
		require.NoError(t, err)

		_, err = client.Post(context.Background(), "/a/y", nil)
		require.NoError(t, err)

		assert.Equal(t, []string{"skipping PUT", "skipping POST"}, logger.Messages())
		assert.Equal(t, "/a/x", logger.entries[0].Fields["endpoint"])
		assert.Equal(t, "debug", logger.entries[0].Level)
	})
}

func TestClient_ReadOnlyStrict(t *testing.T) {
	t.Parallel()

	server := NewTestServer(t, GerritJSON(http.StatusCreated, `{}`))
	client := NewTestClientWithPolicy(server.URL, gerrit.ReadOnlyStrict)

	created, err := client.Put(context.Background(), "/a/projects/demo/branches/a", nil)
	require.NoError(t, err)
	require.True(t, created)

	client.SetReadOnly()

	created, err = client.Put(context.Background(), "/a/projects/demo/branches/b", nil)
	require.NoError(t, err)
	assert.False(t, created)

	deleted, err := client.Delete(context.Background(), "/projects/demo/branches/a")
	require.NoError(t, err)
	assert.False(t, deleted)

	value, err := client.Post(context.Background(), "/a/x", nil)
	require.NoError(t, err)
	assert.True(t, value.IsEmpty())

	assert.Len(t, server.Requests(), 1)
}

func TestClient_IsActive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		expected bool
	}{
		{name: "active", status: http.StatusOK, expected: true},
		{name: "inactive", status: http.StatusNoContent, expected: false},
		{name: "unknown account", status: http.StatusNotFound, expected: false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			server := NewTestServer(t, TestResponse{StatusCode: testCase.status, ContentType: "text/plain", Body: "ok"})
			client := NewTestClient(server.URL)
			client.SetReadOnly()

			active, err := client.IsActive(context.Background(), "john.doe@example.com")
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, active)

			requests := server.Requests()
			require.Len(t, requests, 1)
			assert.Equal(t, "/a/accounts/john.doe@example.com/active", requests[0].Path)
		})
	}

	t.Run("missing account", func(t *testing.T) {
		t.Parallel()

		client := NewTestClient("http://127.0.0.1:1")

		_, err := client.IsActive(context.Background(), "")
		require.ErrorIs(t, err, gerrit.ErrAccountIDRequired)
	})
}

func TestClient_SetLogger(t *testing.T) {
	t.Parallel()

	server := NewTestServer(t, GerritJSON(http.StatusOK, `{}`))
	client := NewTestClient(server.URL)

	first := &RecordingLogger{}
	client.SetLogger(first)

	_, err := client.Get(context.Background(), "/a/x")
	require.NoError(t, err)

	second := &RecordingLogger{}
	client.SetLogger(second)

	_, err = client.Get(context.Background(), "/a/x")
	require.NoError(t, err)

	assert.Equal(t, []string{"decoded response"}, first.Messages())
	assert.Equal(t, []string{"decoded response"}, second.Messages())
	assert.Equal(t, "utf-8", second.entries[0].Fields["charset"])
}
