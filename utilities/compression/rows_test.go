package compression_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/dargueta/imgreformer"
	"github.com/dargueta/imgreformer/samples"
	rtesting "github.com/dargueta/imgreformer/testing"
	c "github.com/dargueta/imgreformer/utilities/compression"
	"github.com/noxer/bytewriter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackRows(t *testing.T) {
	tests := []struct {
		Name     string
		BitWidth uint
		Width    int
		Height   int
		Samples  []uint8
		Expected []byte
	}{
		{"empty", 1, 0, 0, []uint8{}, []byte{}},
		{"1bpp full byte", 1, 8, 1, []uint8{1, 0, 1, 1, 0, 0, 0, 1}, []byte{0b1011_0001}},
		{"1bpp padded rows", 1, 3, 2, []uint8{1, 1, 1, 0, 1, 0}, []byte{0b1110_0000, 0b0100_0000}},
		{"2bpp", 2, 5, 1, []uint8{3, 2, 1, 0, 3}, []byte{0b11_10_01_00, 0b11_000000}},
		{"4bpp odd width", 4, 3, 2, []uint8{1, 2, 3, 4, 5, 6}, []byte{0x12, 0x30, 0x45, 0x60}},
		{"8bpp", 8, 2, 2, []uint8{9, 8, 7, 6}, []byte{9, 8, 7, 6}},
	}

	for _, test := range tests {
		t.Run(
			test.Name,
			func(t *testing.T) {
				stream, err := samples.NewRaster(test.BitWidth, test.Width, test.Height, test.Samples)
				require.NoError(t, err)

				packed, err := c.PackRows(stream)
				require.NoError(t, err)
				assert.Equal(t, test.Expected, packed)

				unpacked, err := samples.FromPacked(test.BitWidth, test.Width, test.Height, packed)
				require.NoError(t, err)
				assert.Equal(t, test.Samples, unpacked.Samples())
			},
		)
	}
}

func TestDecodeRows__MultipleRows(t *testing.T) {
	output := make([]byte, 6)
	n, err := c.DecodeRows(
		bytes.NewReader([]byte{0b1110_0000, 0b0100_0000}),
		bytewriter.New(output),
		1,
		3,
	)
	require.NoError(t, err)
	assert.EqualValues(t, 6, n)
	assert.Equal(t, []byte{1, 1, 1, 0, 1, 0}, output)
}

func TestDecodeRows__PartialRow(t *testing.T) {
	output := make([]byte, 16)
	_, err := c.DecodeRows(bytes.NewReader([]byte{0x12, 0x34, 0x56}), bytewriter.New(output), 4, 3)
	assert.ErrorIs(t, err, imgreformer.ErrInvalidInput)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestDecodeRows__BadArguments(t *testing.T) {
	output := make([]byte, 16)

	_, err := c.DecodeRows(bytes.NewReader([]byte{0}), bytewriter.New(output), 3, 1)
	assert.ErrorIs(t, err, imgreformer.ErrUnsupportedFormat)

	_, err = c.DecodeRows(bytes.NewReader([]byte{0}), bytewriter.New(output), 8, -1)
	assert.ErrorIs(t, err, imgreformer.ErrInvalidInput)

	n, err := c.DecodeRows(bytes.NewReader([]byte{}), bytewriter.New(output), 8, 0)
	assert.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestPackRowsRoundTrip(t *testing.T) {
	for _, bitWidth := range []uint{1, 2, 4, 8} {
		data := rtesting.RandomSamples(bitWidth, 77*13, int64(bitWidth)+100)
		stream, err := samples.NewRaster(bitWidth, 77, 13, data)
		require.NoError(t, err)

		packed := rtesting.AssertRoundTrip(
			t, stream, imgreformer.Format{BitDepth: bitWidth, Mode: imgreformer.Uncompressed})
		assert.Len(t, packed, samples.RowStride(bitWidth, 77)*13)
	}
}
