package fault

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"bare", New(Runtime, "mixing bowl 1 is empty"), "[RUNTIME] mixing bowl 1 is empty"},
		{"section", New(Format, "missing section").In("serves"), "[FORMAT] serves: missing section"},
		{"line", Newf(Format, "ingredient not found: %s", "sugar").In("method").At(7), "[FORMAT] method: line 7: ingredient not found: sugar"},
		{"cause", Wrap(Input, "take failed", io.EOF), "[INPUT] take failed: EOF"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestClassification(t *testing.T) {
	wrapped := fmt.Errorf("bake: %w", New(Input, "no more input"))

	assert.Equal(t, Input, CodeOf(wrapped))
	assert.True(t, IsRuntime(wrapped))
	assert.False(t, IsFormat(wrapped))
	assert.True(t, IsFormat(New(Format, "x")))
	assert.Equal(t, Code(""), CodeOf(errors.New("plain")))
}

func TestUnwrap(t *testing.T) {
	err := Wrap(Store, "save failed", io.ErrUnexpectedEOF)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)

	var fe *Error
	require.ErrorAs(t, fmt.Errorf("outer: %w", err), &fe)
	assert.Equal(t, Store, fe.Code)
}
