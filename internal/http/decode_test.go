package http_test

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrithttp "github.com/fivetwenty-io/gerrit-client/internal/http"
	"github.com/fivetwenty-io/gerrit-client/pkg/gerrit"
)

func TestParseContentType(t *testing.T) {
	t.Parallel()

	t.Run("media type and charset", func(t *testing.T) {
		t.Parallel()

		contentType := gerrithttp.ParseContentType(http.Header{"Content-Type": {"application/json; charset=UTF-8"}})
		assert.Equal(t, "application/json", contentType.MediaType)
		assert.Equal(t, "utf-8", contentType.Charset)
		assert.Equal(t, map[string]string{"charset": "utf-8"}, contentType.Params)
	})

	t.Run("absent header", func(t *testing.T) {
		t.Parallel()

		contentType := gerrithttp.ParseContentType(http.Header{})
		assert.Empty(t, contentType.MediaType)
		assert.Equal(t, gerrit.CharsetUnknown, contentType.Charset)
		assert.NotNil(t, contentType.Params)
		assert.Empty(t, contentType.Params)
	})

	t.Run("no charset", func(t *testing.T) {
		t.Parallel()

		contentType := gerrithttp.ParseContentType(http.Header{"Content-Type": {"text/plain"}})
		assert.Equal(t, "text/plain", contentType.MediaType)
		assert.Equal(t, gerrit.CharsetUnknown, contentType.Charset)
	})

	t.Run("several params", func(t *testing.T) {
		t.Parallel()

		contentType := gerrithttp.ParseContentType(http.Header{"Content-Type": {"text/html; Charset=ISO-8859-1;; boundary= X=Y ;flag"}})
		assert.Equal(t, "text/html", contentType.MediaType)
		assert.Equal(t, "iso-8859-1", contentType.Charset)
		assert.Equal(t, "x=y", contentType.Params["boundary"])
		assert.Contains(t, contentType.Params, "flag")
		assert.Empty(t, contentType.Params["flag"])
	})

	t.Run("non canonical header key", func(t *testing.T) {
		t.Parallel()

		contentType := gerrithttp.ParseContentType(http.Header{"content-type": {"application/json"}})
		assert.Equal(t, "application/json", contentType.MediaType)
	})
}

func TestParseContentEncoding(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{}, gerrithttp.ParseContentEncoding(http.Header{}))
	assert.Equal(t, []string{"gzip"}, gerrithttp.ParseContentEncoding(http.Header{"Content-Encoding": {"gzip"}}))
	assert.Equal(t, []string{"deflate", "gzip"}, gerrithttp.ParseContentEncoding(http.Header{"Content-Encoding": {"deflate, gzip"}}))
}

func TestStripMagicPrefix(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []byte(`{"a":1}`), gerrithttp.StripMagicPrefix([]byte(")]}'\n{\"a\":1}")))
	assert.Equal(t, []byte(")]}'\n"), gerrithttp.StripMagicPrefix([]byte(")]}'\n)]}'\n")))
	assert.Equal(t, []byte(")]}' {}"), gerrithttp.StripMagicPrefix([]byte(")]}' {}")))
	assert.Equal(t, []byte(")]}'"), gerrithttp.StripMagicPrefix([]byte(")]}'")))
	assert.Empty(t, gerrithttp.StripMagicPrefix(nil))
}

func jsonResponse(status int, body string) *gerrithttp.Response {
	return &gerrithttp.Response{
		StatusCode: status,
		Headers:    http.Header{"Content-Type": {"application/json; charset=UTF-8"}},
		Body:       []byte(body),
	}
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestDecodeResponse(t *testing.T) {
	t.Parallel()

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()

		value, err := gerrithttp.DecodeResponse(nil)
		require.NoError(t, err)
		assert.True(t, value.IsEmpty())
		assert.Equal(t, 0, value.StatusCode)
	})

	t.Run("prefixed json object", func(t *testing.T) {
		t.Parallel()

		value, err := gerrithttp.DecodeResponse(jsonResponse(200, ")]}'\n{\"master\":{\"ref\":\"refs/heads/master\"}}"))
		require.NoError(t, err)
		assert.Equal(t, 200, value.StatusCode)
		assert.Equal(t, "utf-8", value.ContentType.Charset)
		assert.Equal(t, `{"master":{"ref":"refs/heads/master"}}`, string(value.Body))

		data, ok := value.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Contains(t, data, "master")
	})

	t.Run("json without prefix", func(t *testing.T) {
		t.Parallel()

		value, err := gerrithttp.DecodeResponse(jsonResponse(200, `[1,2]`))
		require.NoError(t, err)
		assert.Equal(t, []interface{}{float64(1), float64(2)}, value.Data)
	})

	t.Run("near miss prefix is not stripped", func(t *testing.T) {
		t.Parallel()

		_, err := gerrithttp.DecodeResponse(jsonResponse(200, ")]}' {}"))
		require.Error(t, err)

		raw, ok := gerrit.RawBody(err)
		require.True(t, ok)
		assert.Equal(t, []byte(")]}' {}"), raw)
	})

	t.Run("invalid json carries raw body", func(t *testing.T) {
		t.Parallel()

		_, err := gerrithttp.DecodeResponse(jsonResponse(200, ")]}'\n{broken"))
		require.Error(t, err)

		var decodeErr *gerrit.DecodeError
		require.ErrorAs(t, err, &decodeErr)
		assert.Equal(t, []byte(")]}'\n{broken"), decodeErr.Body)
	})

	t.Run("non json is returned undecoded", func(t *testing.T) {
		t.Parallel()

		value, err := gerrithttp.DecodeResponse(&gerrithttp.Response{
			StatusCode: 404,
			Headers:    http.Header{"Content-Type": {"text/plain; charset=ISO-8859-1"}},
			Body:       []byte("Not found: demo"),
		})
		require.NoError(t, err)
		assert.True(t, value.IsEmpty())
		assert.Equal(t, 404, value.StatusCode)
		assert.Equal(t, "text/plain", value.ContentType.MediaType)
		assert.Equal(t, "Not found: demo", string(value.Body))
	})

	t.Run("missing content type", func(t *testing.T) {
		t.Parallel()

		value, err := gerrithttp.DecodeResponse(&gerrithttp.Response{StatusCode: 204})
		require.NoError(t, err)
		assert.True(t, value.IsEmpty())
		assert.Equal(t, gerrit.CharsetUnknown, value.ContentType.Charset)
		assert.Equal(t, []string{}, value.Encoding)
	})

	t.Run("gzip body", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		writer := gzip.NewWriter(&buf)
		_, err := writer.Write([]byte(")]}'\n{\"ref\":\"refs/heads/main\"}"))
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		resp := jsonResponse(200, "")
		resp.Body = buf.Bytes()
		resp.Headers.Set("Content-Encoding", "gzip")

		value, err := gerrithttp.DecodeResponse(resp)
		require.NoError(t, err)
		assert.Equal(t, []string{"gzip"}, value.Encoding)
		assert.Equal(t, map[string]interface{}{"ref": "refs/heads/main"}, value.Data)
	})

	t.Run("gzip header with plain body", func(t *testing.T) {
		t.Parallel()

		resp := jsonResponse(200, `{"a":"b"}`)
		resp.Headers.Set("Content-Encoding", "gzip")

		value, err := gerrithttp.DecodeResponse(resp)
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{"a": "b"}, value.Data)
	})
}
