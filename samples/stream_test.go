package samples_test

import (
	"testing"

	"github.com/dargueta/imgreformer"
	"github.com/dargueta/imgreformer/samples"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew__CopiesInput(t *testing.T) {
	input := []uint8{1, 0, 1, 1}
	stream, err := samples.New(1, input)
	require.NoError(t, err)

	input[0] = 0
	assert.Equal(t, []uint8{1, 0, 1, 1}, stream.Samples())
	assert.EqualValues(t, 1, stream.BitWidth())
	assert.Equal(t, 4, stream.Len())
	assert.Equal(t, 4, stream.Width())
	assert.Equal(t, 1, stream.Height())
}

func TestNew__Empty(t *testing.T) {
	stream, err := samples.New(8, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, stream.Len())
	assert.Equal(t, 0, stream.Height())
	assert.False(t, stream.Cursor().HasNext())
}

func TestNew__UnsupportedBitWidth(t *testing.T) {
	for _, width := range []uint{0, 3, 5, 16} {
		_, err := samples.New(width, []uint8{0})
		assert.ErrorIs(t, err, imgreformer.ErrUnsupportedFormat, "bit width %d", width)
	}
}

func TestNew__SampleTooWide(t *testing.T) {
	tests := []struct {
		Name     string
		BitWidth uint
		Samples  []uint8
	}{
		{"1bpp", 1, []uint8{0, 1, 2}},
		{"2bpp", 2, []uint8{3, 4}},
		{"4bpp", 4, []uint8{15, 16}},
	}

	for _, test := range tests {
		t.Run(
			test.Name,
			func(t *testing.T) {
				stream, err := samples.New(test.BitWidth, test.Samples)
				assert.Nil(t, stream)
				assert.ErrorIs(t, err, imgreformer.ErrInvalidInput)
			},
		)
	}
}

func TestNew__ManyBadSamplesAreSummarized(t *testing.T) {
	bad := make([]uint8, 100)
	for i := range bad {
		bad[i] = 0xff
	}

	_, err := samples.New(1, bad)
	require.ErrorIs(t, err, imgreformer.ErrInvalidInput)
	assert.Contains(t, err.Error(), "sample 0 is 255")
	assert.Contains(t, err.Error(), "92 more samples out of range")
	assert.NotContains(t, err.Error(), "sample 8 is")
}

func TestNewRaster__SizeMismatch(t *testing.T) {
	_, err := samples.NewRaster(8, 3, 2, []uint8{1, 2, 3, 4, 5})
	assert.ErrorIs(t, err, imgreformer.ErrInvalidInput)

	_, err = samples.NewRaster(8, -1, 0, nil)
	assert.ErrorIs(t, err, imgreformer.ErrInvalidInput)
}

func TestFromPacked(t *testing.T) {
	tests := []struct {
		Name     string
		BitWidth uint
		Width    int
		Height   int
		Packed   []byte
		Expected []uint8
	}{
		{
			"1bpp full byte",
			1, 8, 1,
			[]byte{0b10110001},
			[]uint8{1, 0, 1, 1, 0, 0, 0, 1},
		},
		{
			"1bpp partial row ignores padding",
			1, 3, 2,
			[]byte{0b10111111, 0b01011111},
			[]uint8{1, 0, 1, 0, 1, 0},
		},
		{
			"2bpp",
			2, 5, 1,
			[]byte{0b00011011, 0b11_101010},
			[]uint8{0, 1, 2, 3, 3},
		},
		{
			"4bpp",
			4, 3, 1,
			[]byte{0x5a, 0x3f},
			[]uint8{5, 10, 3},
		},
		{
			"8bpp",
			8, 2, 2,
			[]byte{9, 8, 7, 6},
			[]uint8{9, 8, 7, 6},
		},
	}

	for _, test := range tests {
		t.Run(
			test.Name,
			func(t *testing.T) {
				stream, err := samples.FromPacked(test.BitWidth, test.Width, test.Height, test.Packed)
				require.NoError(t, err)
				assert.Equal(t, test.Expected, stream.Samples())
				assert.Equal(t, test.Width, stream.Width())
				assert.Equal(t, test.Height, stream.Height())
			},
		)
	}
}

func TestFromPacked__WrongLength(t *testing.T) {
	_, err := samples.FromPacked(1, 9, 1, []byte{0xff})
	assert.ErrorIs(t, err, imgreformer.ErrInvalidInput)

	_, err = samples.FromPacked(3, 9, 1, []byte{0xff, 0xff, 0xff, 0xff})
	assert.ErrorIs(t, err, imgreformer.ErrUnsupportedFormat)
}

func TestRowStride(t *testing.T) {
	assert.Equal(t, 0, samples.RowStride(1, 0))
	assert.Equal(t, 1, samples.RowStride(1, 8))
	assert.Equal(t, 2, samples.RowStride(1, 9))
	assert.Equal(t, 3, samples.RowStride(2, 9))
	assert.Equal(t, 5, samples.RowStride(4, 9))
	assert.Equal(t, 9, samples.RowStride(8, 9))
}

func TestAt(t *testing.T) {
	stream, err := samples.New(4, []uint8{3, 9})
	require.NoError(t, err)

	value, err := stream.At(1)
	require.NoError(t, err)
	assert.EqualValues(t, 9, value)

	_, err = stream.At(2)
	assert.ErrorIs(t, err, imgreformer.ErrOutOfRange)
	_, err = stream.At(-1)
	assert.ErrorIs(t, err, imgreformer.ErrOutOfRange)
}
