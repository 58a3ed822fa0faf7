package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "bad parcel key", New(CodeBadRequest, "bad parcel key").Error())

	cause := errors.New("connection refused")
	wrapped := Wrap(cause, CodeUpstream, "fetch documents")
	assert.Equal(t, "fetch documents: connection refused", wrapped.Error())
	assert.Equal(t, cause, errors.Unwrap(wrapped))
}

func TestWrapNilIsNil(t *testing.T) {
	require.Nil(t, Wrap(nil, CodeUpstream, "fetch documents"))
}

func TestHasCode(t *testing.T) {
	cause := errors.New("timeout awaiting headers")
	inner := Wrap(cause, CodeTimeout, "valuation query")
	outer := Wrap(inner, CodeUpstream, "derive tax history")

	assert.True(t, HasCode(outer, CodeUpstream))
	assert.True(t, HasCode(outer, CodeTimeout), "codes deeper in the chain are visible")
	assert.False(t, HasCode(outer, CodeNotFound))
	assert.False(t, HasCode(cause, CodeTimeout), "plain errors carry no code")
	assert.False(t, HasCode(nil, CodeInternal))
}

func TestHasCodeThroughFmtWrapping(t *testing.T) {
	coded := New(CodeNotFound, "no such parcel")
	wrapped := fmt.Errorf("lookup: %w", coded)

	assert.True(t, HasCode(wrapped, CodeNotFound))
	assert.True(t, Is(wrapped, CodeNotFound))
}
