package gerrit

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errCause = errors.New("cause")

func TestDecodeError(t *testing.T) {
	err := &DecodeError{Body: []byte(")]}'\n{oops"), Err: errCause}

	assert.Equal(t, "decoding JSON response (10 bytes): cause", err.Error())
	assert.ErrorIs(t, err, errCause)

	body, ok := RawBody(fmt.Errorf("listing branches: %w", err))
	assert.True(t, ok)
	assert.Equal(t, []byte(")]}'\n{oops"), body)

	_, ok = RawBody(errCause)
	assert.False(t, ok)
}

func TestEntityError(t *testing.T) {
	tests := []struct {
		name     string
		err      *EntityError
		expected string
	}{
		{
			name:     "single entity",
			err:      &EntityError{Entity: "BranchInfo", Err: errCause},
			expected: "decoding BranchInfo: cause",
		},
		{
			name:     "keyed entity",
			err:      &EntityError{Entity: "BranchInfo", Key: "refs/heads/main", Err: errCause},
			expected: `decoding BranchInfo "refs/heads/main": cause`,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, testCase.err.Error())
			assert.ErrorIs(t, testCase.err, errCause)
		})
	}
}

func TestTransportError(t *testing.T) {
	err := &TransportError{Method: "GET", URL: "https://gerrit.example.com/a/projects/", Err: errCause}

	assert.Equal(t, "GET https://gerrit.example.com/a/projects/: cause", err.Error())
	assert.True(t, IsTransportError(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsTransportError(errCause))
}

func TestStatusError(t *testing.T) {
	err := fmt.Errorf("deleting branches: %w", &StatusError{StatusCode: 409, Body: []byte("it is the current HEAD")})

	assert.Equal(t, "deleting branches: unexpected status code: 409", err.Error())
	assert.ErrorIs(t, err, ErrUnexpectedStatus)

	body, ok := RawBody(err)
	assert.True(t, ok)
	assert.Equal(t, []byte("it is the current HEAD"), body)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(fmt.Errorf("%w: refs/heads/x", ErrBranchNotFound)))
	assert.False(t, IsNotFound(ErrProjectRequired))
	assert.False(t, IsNotFound(nil))
}
