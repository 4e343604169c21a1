// Package clipboard reads text from the system clipboard.
package clipboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrUnsupported is returned when no clipboard utility is available
var ErrUnsupported = errors.New("clipboard is not supported on this system")

// SystemReader reads the OS clipboard through atotto/clipboard
type SystemReader struct {
	readAll     func() (string, error)
	unsupported bool
}

// NewSystemReader creates a reader for the OS clipboard
func NewSystemReader() *SystemReader {
	return &SystemReader{
		readAll:     clipboard.ReadAll,
		unsupported: clipboard.Unsupported,
	}
}

// ReadText returns the current clipboard text
func (r *SystemReader) ReadText(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if r.unsupported {
		return "", ErrUnsupported
	}

	text, err := r.readAll()
	if err != nil {
		return "", fmt.Errorf("failed to read clipboard: %w", err)
	}
	return text, nil
}

// StaticReader always returns the same text or error. The web server uses
// it because the browser owns the clipboard there.
type StaticReader struct {
	Text string
	Err  error
}

// ReadText returns the configured text or error
func (r StaticReader) ReadText(ctx context.Context) (string, error) {
	if r.Err != nil {
		return "", r.Err
	}
	return r.Text, nil
}
