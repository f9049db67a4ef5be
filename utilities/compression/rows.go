package compression

import (
	"errors"
	"fmt"
	"io"

	"github.com/dargueta/imgreformer"
	"github.com/dargueta/imgreformer/samples"
)

// PackRows stores a stream uncompressed: samples are packed MSB-first, 8 / bpp
// to a byte, and every row is padded with zero bits to a byte boundary.
func PackRows(stream *samples.Stream) ([]byte, error) {
	bitWidth := stream.BitWidth()
	width := stream.Width()
	stride := samples.RowStride(bitWidth, width)
	output := make([]byte, stride*stream.Height())

	samplesPerByte := int(8 / bitWidth)
	cursor := stream.Cursor()

	for y := 0; y < stream.Height(); y++ {
		row := output[y*stride : (y+1)*stride]
		for x := 0; x < width; x++ {
			sample, err := cursor.Next()
			if err != nil {
				return nil, err
			}
			shift := uint(samplesPerByte-1-x%samplesPerByte) * bitWidth
			row[x/samplesPerByte] |= sample << shift
		}
	}
	return output, nil
}

// DecodeRows unpacks rows produced by [PackRows], writing one sample per byte
// to the output. The input must hold a whole number of rows.
func DecodeRows(input io.Reader, output io.Writer, bitWidth uint, width int) (int64, error) {
	if !imgreformer.IsSupportedBitDepth(bitWidth) {
		return 0, imgreformer.ErrUnsupportedFormat.WithMessage(
			fmt.Sprintf("bit depth must be 1, 2, 4, or 8, got %d", bitWidth))
	}
	if width < 0 {
		return 0, imgreformer.ErrInvalidInput.WithMessage(
			fmt.Sprintf("row width can't be negative, got %d", width))
	} else if width == 0 {
		// Zero-width rows hold no samples, so there's nothing to unpack.
		return 0, nil
	}

	rowBuffer := make([]byte, samples.RowStride(bitWidth, width))
	totalWritten := int64(0)

	for rowIndex := 0; ; rowIndex++ {
		_, err := io.ReadFull(input, rowBuffer)
		if errors.Is(err, io.EOF) {
			return totalWritten, nil
		} else if errors.Is(err, io.ErrUnexpectedEOF) {
			return totalWritten, imgreformer.ErrInvalidInput.Wrap(
				fmt.Errorf("%w: row %d is incomplete", io.ErrUnexpectedEOF, rowIndex))
		} else if err != nil {
			return totalWritten, fmt.Errorf("error reading input: %w", err)
		}

		row, err := samples.FromPacked(bitWidth, width, 1, rowBuffer)
		if err != nil {
			return totalWritten, err
		}

		n, err := output.Write(row.Samples())
		totalWritten += int64(n)
		if err != nil {
			return totalWritten, fmt.Errorf("failed to write to output: %w", err)
		}
	}
}
