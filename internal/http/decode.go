package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/fivetwenty-io/gerrit-client/internal/constants"
	"github.com/fivetwenty-io/gerrit-client/pkg/gerrit"
)

var gzipMagic = []byte{0x1f, 0x8b}

// headerValues returns the values of name, matching the key without regard
// to case even when the map was not built with canonical keys.
func headerValues(headers http.Header, name string) []string {
	if values := headers.Values(name); len(values) > 0 {
		return values
	}

	for key, values := range headers {
		if strings.EqualFold(key, name) && len(values) > 0 {
			return values
		}
	}

	return nil
}

// ParseContentType parses the first Content-Type header value. The first
// ";" separated segment is the media type; every following segment is split
// on its first "=" into a lower-cased name and value.
func ParseContentType(headers http.Header) gerrit.ContentType {
	contentType := gerrit.ContentType{
		Charset: gerrit.CharsetUnknown,
		Params:  make(map[string]string),
	}

	values := headerValues(headers, constants.HeaderContentType)
	if len(values) == 0 {
		return contentType
	}

	segments := strings.Split(values[0], ";")
	contentType.MediaType = strings.TrimSpace(segments[0])

	for _, segment := range segments[1:] {
		if strings.TrimSpace(segment) == "" {
			continue
		}

		name, value, _ := strings.Cut(segment, "=")
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.ToLower(strings.TrimSpace(value))

		contentType.Params[name] = value
		if name == "charset" {
			contentType.Charset = value
		}
	}

	return contentType
}

// ParseContentEncoding splits the first Content-Encoding header value on ",".
func ParseContentEncoding(headers http.Header) []string {
	values := headerValues(headers, constants.HeaderContentEncoding)
	if len(values) == 0 {
		return []string{}
	}

	tokens := strings.Split(values[0], ",")
	for i, token := range tokens {
		tokens[i] = strings.TrimSpace(token)
	}

	return tokens
}

// StripMagicPrefix removes Gerrit's ")]}'\n" prefix once when body starts
// with exactly that sequence.
func StripMagicPrefix(body []byte) []byte {
	stripped, _ := bytes.CutPrefix(body, []byte(gerrit.MagicPrefix))

	return stripped
}

// DecodeResponse turns a raw response into a Value. A nil response yields an
// empty Value. Only an application/json body is parsed; anything else is
// returned undecoded. A parse failure returns a *gerrit.DecodeError holding
// the raw body.
func DecodeResponse(resp *Response) (*gerrit.Value, error) {
	if resp == nil {
		return &gerrit.Value{
			ContentType: gerrit.ContentType{Charset: gerrit.CharsetUnknown, Params: map[string]string{}},
			Encoding:    []string{},
		}, nil
	}

	value := &gerrit.Value{
		StatusCode:  resp.StatusCode,
		ContentType: ParseContentType(resp.Headers),
		Encoding:    ParseContentEncoding(resp.Headers),
	}

	body, err := inflate(resp.Body, value.Encoding)
	if err != nil {
		return nil, &gerrit.DecodeError{Body: resp.Body, Err: err}
	}

	value.Body = StripMagicPrefix(body)

	if value.ContentType.MediaType != gerrit.MediaTypeJSON {
		return value, nil
	}

	var data interface{}

	err = json.Unmarshal(value.Body, &data)
	if err != nil {
		return nil, &gerrit.DecodeError{Body: resp.Body, Err: err}
	}

	value.Data = data

	return value, nil
}

func inflate(body []byte, encodings []string) ([]byte, error) {
	gzipped := slices.ContainsFunc(encodings, func(encoding string) bool {
		return strings.EqualFold(encoding, constants.EncodingGzip)
	})
	if !gzipped || !bytes.HasPrefix(body, gzipMagic) {
		return body, nil
	}

	reader, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("opening gzip body: %w", err)
	}
	defer reader.Close()

	inflated, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading gzip body: %w", err)
	}

	return inflated, nil
}
