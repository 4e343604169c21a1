package clipboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemReaderReadText(t *testing.T) {
	r := &SystemReader{readAll: func() (string, error) {
		return "https://www.instagram.com/reels/abc/", nil
	}}

	text, err := r.ReadText(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://www.instagram.com/reels/abc/", text)
}

func TestSystemReaderErrors(t *testing.T) {
	boom := errors.New("xclip missing")

	t.Run("read failure", func(t *testing.T) {
		r := &SystemReader{readAll: func() (string, error) { return "", boom }}
		_, err := r.ReadText(context.Background())
		assert.ErrorIs(t, err, boom)
	})

	t.Run("unsupported", func(t *testing.T) {
		r := &SystemReader{unsupported: true, readAll: func() (string, error) { return "x", nil }}
		_, err := r.ReadText(context.Background())
		assert.ErrorIs(t, err, ErrUnsupported)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		r := &SystemReader{readAll: func() (string, error) { return "x", nil }}
		_, err := r.ReadText(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestStaticReader(t *testing.T) {
	text, err := StaticReader{Text: "hello"}.ReadText(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello", text)

	_, err = StaticReader{Err: ErrUnsupported}.ReadText(context.Background())
	assert.ErrorIs(t, err, ErrUnsupported)
}
