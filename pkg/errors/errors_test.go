package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorString(t *testing.T) {
	assert.Equal(t, "validation error: "+MsgEmptyURL, New(ErrorTypeValidation, MsgEmptyURL).Error())
	assert.Equal(t,
		"network error: "+MsgNetwork+": unexpected EOF",
		Wrap(ErrorTypeNetwork, MsgNetwork, io.ErrUnexpectedEOF).Error())
}

func TestUnwrapAndAs(t *testing.T) {
	base := Wrap(ErrorTypeNetwork, MsgNetwork, io.ErrUnexpectedEOF)
	wrapped := fmt.Errorf("extract: %w", base)

	assert.True(t, stderrors.Is(wrapped, io.ErrUnexpectedEOF))

	typed, ok := As(wrapped)
	require.True(t, ok)
	assert.Same(t, base, typed)
	assert.Equal(t, ErrorTypeNetwork, TypeOf(wrapped))
	assert.True(t, Is(wrapped, ErrorTypeNetwork))
	assert.False(t, Is(wrapped, ErrorTypeRemote))
}

func TestTypeOfForeignError(t *testing.T) {
	assert.Equal(t, ErrorTypeUnknown, TypeOf(io.EOF))
	assert.False(t, Is(nil, ErrorTypeUnknown))
}

func TestWithCodeCopies(t *testing.T) {
	orig := New(ErrorTypeRemote, "Invalid link")
	coded := orig.WithCode(422)

	assert.Equal(t, 422, coded.Code)
	assert.Equal(t, 0, orig.Code)
	assert.Equal(t, orig.Message, coded.Message)
}

func TestIsLocal(t *testing.T) {
	tests := []struct {
		errorType ErrorType
		expected  bool
	}{
		{ErrorTypeValidation, true},
		{ErrorTypeClipboard, true},
		{ErrorTypeNetwork, false},
		{ErrorTypeRemote, false},
		{ErrorTypeMissingAsset, false},
		{ErrorTypeStorage, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.errorType), func(t *testing.T) {
			assert.Equal(t, tt.expected, IsLocal(tt.errorType))
		})
	}
}
