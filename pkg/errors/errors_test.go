package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := stderrors.New("unexpected end of JSON input")
	err := NewParseError("invalid dataset JSON", cause)

	assert.Equal(t, "PARSE: invalid dataset JSON: unexpected end of JSON input", err.Error())
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, "FORMAT: root must be an object or array", NewFormatError("root must be an object or array").Error())
}

func TestIsType(t *testing.T) {
	wrapped := fmt.Errorf("load: %w", NewFormatError("bad root"))

	assert.True(t, IsType(wrapped, ErrorTypeFormat))
	assert.False(t, IsType(wrapped, ErrorTypeParse))
	assert.False(t, IsType(stderrors.New("plain"), ErrorTypeFormat))
	assert.True(t, IsType(NewExternalError("geocoder down", nil), ErrorTypeExternal))
	assert.True(t, IsType(NewNotFoundError("place"), ErrorTypeNotFound))
}
