package imgreformer_test

import (
	"errors"
	"testing"

	"github.com/dargueta/imgreformer"
	"github.com/stretchr/testify/assert"
)

func TestReformerErrorWithMessage(t *testing.T) {
	newErr := imgreformer.ErrUnsupportedFormat.WithMessage("3 bits per pixel")
	assert.Equal(
		t, "Unsupported image format: 3 bits per pixel", newErr.Error(), "error message is wrong")
	assert.ErrorIs(t, newErr, imgreformer.ErrUnsupportedFormat)
	assert.NotErrorIs(t, newErr, imgreformer.ErrInvalidInput)
}

func TestReformerErrorWithMessageChained(t *testing.T) {
	newErr := imgreformer.ErrInvalidInput.WithMessage("sample 4").WithMessage("too big")
	assert.Equal(t, "Invalid input: sample 4: too big", newErr.Error())
	assert.ErrorIs(t, newErr, imgreformer.ErrInvalidInput)
}

func TestReformerErrorWrap(t *testing.T) {
	originalErr := errors.New("original error")
	newErr := imgreformer.ErrOutOfRange.Wrap(originalErr)
	expectedMessage := "Sample index out of range: original error"

	assert.EqualValues(t, expectedMessage, newErr.Error(), "error message is wrong")
	assert.ErrorIs(t, newErr, originalErr, "original error not set as parent")
	assert.ErrorIs(t, newErr, imgreformer.ErrOutOfRange, "sentinel not set as parent")
}
