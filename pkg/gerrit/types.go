package gerrit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"

	"gopkg.in/yaml.v3"
)

// MagicPrefix is prepended by Gerrit to JSON responses to block cross-site
// script inclusion.
const MagicPrefix = ")]}'\n"

// MediaTypeJSON is the only media type whose body gets decoded.
const MediaTypeJSON = "application/json"

// CharsetUnknown is reported when the Content-Type carries no charset.
const CharsetUnknown = "unknown"

// Entity is implemented by every record that can be decoded from a Gerrit
// response object.
type Entity interface {
	EntityName() string
}

// BranchInfo represents a branch of a project.
type BranchInfo struct {
	Ref       string        `json:"ref"                  yaml:"ref"`
	Revision  string        `json:"revision"             yaml:"revision"`
	CanDelete bool          `json:"can_delete,omitempty" yaml:"can_delete,omitempty"`
	WebLinks  []WebLinkInfo `json:"web_links,omitempty"  yaml:"web_links,omitempty"`
}

// EntityName implements Entity.
func (BranchInfo) EntityName() string { return "BranchInfo" }

// BranchInput is the request body for creating a branch.
type BranchInput struct {
	Ref      string `json:"ref,omitempty"      yaml:"ref,omitempty"`
	Revision string `json:"revision,omitempty" yaml:"revision,omitempty"`
	Message  string `json:"message,omitempty"  yaml:"message,omitempty"`
}

// DeleteBranchesInput is the request body for deleting several branches at once.
type DeleteBranchesInput struct {
	Branches []string `json:"branches" yaml:"branches"`
}

// FileInfo describes a file touched by a commit.
type FileInfo struct {
	Status        string `json:"status,omitempty"         yaml:"status,omitempty"`
	Binary        bool   `json:"binary,omitempty"         yaml:"binary,omitempty"`
	OldPath       string `json:"old_path,omitempty"       yaml:"old_path,omitempty"`
	LinesInserted int    `json:"lines_inserted,omitempty" yaml:"lines_inserted,omitempty"`
	LinesDeleted  int    `json:"lines_deleted,omitempty"  yaml:"lines_deleted,omitempty"`
	SizeDelta     int64  `json:"size_delta"               yaml:"size_delta"`
	Size          int64  `json:"size"                     yaml:"size"`
}

// EntityName implements Entity.
func (FileInfo) EntityName() string { return "FileInfo" }

// WebLinkInfo is a link to an external site.
type WebLinkInfo struct {
	Name     string `json:"name"                yaml:"name"`
	URL      string `json:"url"                 yaml:"url"`
	ImageURL string `json:"image_url,omitempty" yaml:"image_url,omitempty"`
}

// BranchListOptions filters the branch listing. A nil value lists everything.
type BranchListOptions struct {
	// Match limits the result to refs containing this substring.
	Match string
	// Regex limits the result to refs matching this regular expression.
	Regex string
}

// ContentType is a parsed Content-Type header.
type ContentType struct {
	// MediaType is empty when the header was absent.
	MediaType string
	// Charset is CharsetUnknown unless the header carried one.
	Charset string
	// Params holds every parameter with a lower-cased name and value.
	Params map[string]string
}

// Value is a decoded response body.
type Value struct {
	StatusCode  int
	ContentType ContentType
	Encoding    []string

	// Body is the payload with the magic prefix removed.
	Body []byte
	// Data holds the parsed JSON (a map or a slice) when the media type was
	// application/json, and nil otherwise.
	Data interface{}
}

// IsEmpty reports whether the value carries no decoded JSON.
func (v *Value) IsEmpty() bool {
	return v == nil || v.Data == nil
}

// JSON returns the JSON payload, or nil when nothing was decoded.
func (v *Value) JSON() json.RawMessage {
	if v.IsEmpty() {
		return nil
	}

	return json.RawMessage(v.Body)
}

// Decode unmarshals the JSON payload into dst.
func (v *Value) Decode(dst interface{}) error {
	if v.IsEmpty() {
		return ErrEmptyValue
	}

	err := json.Unmarshal(v.Body, dst)
	if err != nil {
		return &DecodeError{Body: v.Body, Err: err}
	}

	return nil
}

// OrderedMap is a string keyed map that remembers insertion order.
type OrderedMap[V any] struct {
	keys   []string
	values map[string]V
}

// NewOrderedMap creates an empty map.
func NewOrderedMap[V any]() *OrderedMap[V] {
	return &OrderedMap[V]{values: make(map[string]V)}
}

// Set stores value under key. Overwriting keeps the original position.
func (m *OrderedMap[V]) Set(key string, value V) {
	if m.values == nil {
		m.values = make(map[string]V)
	}

	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}

	m.values[key] = value
}

// Get returns the value stored under key.
func (m *OrderedMap[V]) Get(key string) (V, bool) {
	var zero V
	if m == nil {
		return zero, false
	}

	value, ok := m.values[key]

	return value, ok
}

// Len returns the number of entries.
func (m *OrderedMap[V]) Len() int {
	if m == nil {
		return 0
	}

	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *OrderedMap[V]) Keys() []string {
	if m == nil {
		return nil
	}

	keys := make([]string, len(m.keys))
	copy(keys, m.keys)

	return keys
}

// Values returns the values in insertion order.
func (m *OrderedMap[V]) Values() []V {
	if m == nil {
		return nil
	}

	values := make([]V, 0, len(m.keys))
	for _, key := range m.keys {
		values = append(values, m.values[key])
	}

	return values
}

// All iterates over the entries in insertion order.
func (m *OrderedMap[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		if m == nil {
			return
		}

		for _, key := range m.keys {
			if !yield(key, m.values[key]) {
				return
			}
		}
	}
}

// MarshalJSON encodes the map as a JSON object keeping the insertion order.
func (m *OrderedMap[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, key := range m.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}

		keyJSON, err := json.Marshal(key)
		if err != nil {
			return nil, fmt.Errorf("encoding key %q: %w", key, err)
		}

		valueJSON, err := json.Marshal(m.values[key])
		if err != nil {
			return nil, fmt.Errorf("encoding value for %q: %w", key, err)
		}

		buf.Write(keyJSON)
		buf.WriteByte(':')
		buf.Write(valueJSON)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// MarshalYAML encodes the map as a YAML mapping keeping the insertion order.
func (m *OrderedMap[V]) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	for key, value := range m.All() {
		valueNode := &yaml.Node{}

		err := valueNode.Encode(value)
		if err != nil {
			return nil, fmt.Errorf("encoding value for %q: %w", key, err)
		}

		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			valueNode,
		)
	}

	return node, nil
}
