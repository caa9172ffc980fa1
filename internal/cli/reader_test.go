package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNonBlockingReader_ReadLine(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		expectedValue string
		expectError   bool
	}{
		{
			name:          "successful read",
			input:         "test input\n",
			expectedValue: "test input",
		},
		{
			name:          "read with extra whitespace",
			input:         "  test input  \n",
			expectedValue: "test input",
		},
		{
			name:        "empty input",
			input:       "",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := NewNonBlockingReader(strings.NewReader(tt.input))

			value, err := reader.ReadLine(context.Background())
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedValue, value)
		})
	}
}

func TestNonBlockingReader_ContextCancellation(t *testing.T) {
	// A reader that never produces input.
	blocked, unblock := newBlockedReader()
	defer unblock()

	reader := NewNonBlockingReader(blocked)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := reader.ReadLine(ctx)
	assert.ErrorIs(t, err, ErrInputCancelled)
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "yes", input: "y\n", want: true},
		{name: "yes word", input: "YES\n", want: true},
		{name: "no", input: "n\n", want: false},
		{name: "default is no", input: "\n", want: false},
		{name: "garbage is no", input: "maybe\n", want: false},
		{name: "eof is no", input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out strings.Builder
			c := NewConfirmer(strings.NewReader(tt.input), &out)

			got, err := c.Confirm(context.Background(), "Delete shirt_1?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Delete shirt_1?")
		})
	}
}

// blockedReader blocks until unblocked, simulating a terminal with no input.
type blockedReader struct {
	ch chan struct{}
}

func newBlockedReader() (*blockedReader, func()) {
	r := &blockedReader{ch: make(chan struct{})}
	var once func()
	done := false
	once = func() {
		if !done {
			done = true
			close(r.ch)
		}
	}
	return r, once
}

func (r *blockedReader) Read(p []byte) (int, error) {
	<-r.ch
	return 0, context.Canceled
}
