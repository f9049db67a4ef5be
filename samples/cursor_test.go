package samples_test

import (
	"testing"

	"github.com/dargueta/imgreformer"
	"github.com/dargueta/imgreformer/samples"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor__Walk(t *testing.T) {
	stream, err := samples.New(2, []uint8{3, 1, 2})
	require.NoError(t, err)

	cursor := stream.Cursor()
	var seen []uint8
	for cursor.HasNext() {
		peeked, err := cursor.Peek()
		require.NoError(t, err)

		value, err := cursor.Next()
		require.NoError(t, err)
		require.Equal(t, peeked, value, "Peek and Next disagree")
		seen = append(seen, value)
	}

	assert.Equal(t, []uint8{3, 1, 2}, seen)
	assert.Equal(t, 3, cursor.Position())
	assert.Equal(t, 0, cursor.Remaining())
}

func TestCursor__ExhaustedIsOutOfRange(t *testing.T) {
	stream, err := samples.New(8, []uint8{42})
	require.NoError(t, err)

	cursor := stream.Cursor()
	_, err = cursor.Next()
	require.NoError(t, err)

	_, err = cursor.Peek()
	assert.ErrorIs(t, err, imgreformer.ErrOutOfRange)
	_, err = cursor.Next()
	assert.ErrorIs(t, err, imgreformer.ErrOutOfRange)
	assert.Equal(t, 1, cursor.Position(), "failed read must not advance the cursor")
}

func TestCursor__Independent(t *testing.T) {
	stream, err := samples.New(8, []uint8{1, 2})
	require.NoError(t, err)

	first := stream.Cursor()
	second := stream.Cursor()
	_, _ = first.Next()

	assert.Equal(t, 1, first.Remaining())
	assert.Equal(t, 2, second.Remaining())
}
