package dto

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoteError(t *testing.T) {
	tests := []struct {
		name string
		err  *RemoteError
		want string
	}{
		{
			name: "status",
			err:  &RemoteError{Op: "execute", StatusCode: 502, Body: "bad gateway"},
			want: "execute: request failed with status 502: bad gateway",
		},
		{
			name: "transport",
			err:  &RemoteError{Op: "optimize", Err: io.ErrUnexpectedEOF},
			want: "optimize: unexpected EOF",
		},
		{
			name: "bare",
			err:  &RemoteError{Op: "execute"},
			want: "execute: remote call failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.ErrorIs(t, tt.err, ErrRemoteCallFailed)
		})
	}

	wrapped := &RemoteError{Op: "optimize", Err: io.ErrUnexpectedEOF}
	assert.True(t, errors.Is(wrapped, io.ErrUnexpectedEOF))
	assert.False(t, errors.Is(wrapped, ErrInvalidInput))
}
