package integration

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// UpstreamError Tests
// ---------------------------------------------------------------------------

func TestUpstreamError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *UpstreamError
		expected string
	}{
		{
			name:     "platform reported error",
			err:      &UpstreamError{Method: "getInventories", Code: "ERROR_BAD_TOKEN", Message: "Invalid user token", Err: ErrPlatformRequestFailed},
			expected: "BaseLinker API error: Invalid user token (ERROR_BAD_TOKEN)",
		},
		{
			name:     "non-2xx response",
			err:      &UpstreamError{Method: "getOrders", HTTPStatus: 503, Err: ErrPlatformRequestFailed},
			expected: "HTTP error! status: 503",
		},
		{
			name:     "platform error without code",
			err:      &UpstreamError{Method: "getOrders", Message: "Unknown method", Err: ErrPlatformRequestFailed},
			expected: "BaseLinker API error: Unknown method ()",
		},
		{
			name:     "invalid response",
			err:      &UpstreamError{Method: "getOrders", Message: "unexpected end of JSON input", Err: ErrPlatformInvalidResponse},
			expected: "unexpected end of JSON input",
		},
		{
			name:     "transport failure",
			err:      &UpstreamError{Method: "getOrders", Message: "dial tcp: connection refused", Err: ErrPlatformUnavailable},
			expected: "dial tcp: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestUpstreamError_Unwrap(t *testing.T) {
	err := fmt.Errorf("aggregate: %w", &UpstreamError{Code: "X", Message: "boom", Err: ErrPlatformRequestFailed})

	assert.True(t, errors.Is(err, ErrPlatformRequestFailed))
	assert.False(t, errors.Is(err, ErrPlatformUnavailable))

	upstreamErr, ok := AsUpstreamError(err)
	require.True(t, ok)
	assert.Equal(t, "X", upstreamErr.Code)
	assert.Equal(t, "boom", upstreamErr.Message)
}

func TestAsUpstreamError_NotUpstream(t *testing.T) {
	_, ok := AsUpstreamError(errors.New("plain"))
	assert.False(t, ok)
}
