package emload

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitSuccess},
		{"invalid config", ErrInvalidConfig, ExitConfigError},
		{"wrapped invalid config", fmt.Errorf("loading: %w", ErrInvalidConfig), ExitConfigError},
		{"connection failed", ErrConnectionFailed, ExitConnectionError},
		{"permission denied", ErrPermissionDenied, ExitPermissionDenied},
		{"csv not found", ErrCSVNotFound, ExitCSVMissing},
		{"bad header", ErrBadHeader, ExitCSVMissing},
		{"load failed", fmt.Errorf("%w: insert", ErrLoadFailed), ExitLoadFailed},
		{"unclassified", errors.New("something else"), ExitGeneralError},
		{"connection refused by message", errors.New("dial tcp: connection refused"), ExitConnectionError},
		{"no such host by message", errors.New("lookup dbhost: no such host"), ExitConnectionError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeForError(tt.err))
		})
	}
}

func TestExitCodeForError_PermissionWinsOverConnection(t *testing.T) {
	// A permission failure wrapped in connection context must still exit 12.
	err := fmt.Errorf("failed to connect: %w", ErrPermissionDenied)
	assert.Equal(t, ExitPermissionDenied, ExitCodeForError(err))
}
