package compression

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/dargueta/imgreformer"
	"github.com/dargueta/imgreformer/samples"
)

// maxNibbleRun is the most repeats one RLE4 record can describe. The length
// nibble stores repeats - 1.
const maxNibbleRun = 16

// EncodeRLE4 run-length encodes a 1, 2, or 4 bpp stream. Each run of up to 16
// identical samples becomes one byte: the high nibble is the number of repeats
// minus one, the low nibble is the sample value.
//
// The output is never longer than the number of samples in the stream.
func EncodeRLE4(stream *samples.Stream) ([]byte, error) {
	switch stream.BitWidth() {
	case 1, 2, 4:
	default:
		return nil, imgreformer.ErrUnsupportedFormat.WithMessage(
			fmt.Sprintf("RLE4 requires 1, 2, or 4 bpp, got %d", stream.BitWidth()))
	}

	output := make([]byte, 0, stream.Len())
	grouper := NewRunGrouper(stream.Cursor())

	for {
		run, err := grouper.GetNextRun(maxNibbleRun)
		if errors.Is(err, io.EOF) {
			return output, nil
		} else if err != nil {
			return nil, err
		}
		output = append(output, byte(run.RunLength-1)<<4|run.Value)
	}
}

// DecodeRLE4 expands RLE4 records from the input, writing one sample per byte
// to the output until the input is exhausted. The return value is the number
// of samples written.
func DecodeRLE4(input io.Reader, output io.Writer, bitWidth uint) (int64, error) {
	switch bitWidth {
	case 1, 2, 4:
	default:
		return 0, imgreformer.ErrUnsupportedFormat.WithMessage(
			fmt.Sprintf("RLE4 requires 1, 2, or 4 bpp, got %d", bitWidth))
	}

	source := bufio.NewReader(input)
	maxValue := byte(1)<<bitWidth - 1
	totalWritten := int64(0)

	for {
		record, err := source.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return totalWritten, nil
			}
			return totalWritten, fmt.Errorf("error reading input: %w", err)
		}

		value := record & 0x0f
		if value > maxValue {
			return totalWritten, imgreformer.ErrInvalidInput.WithMessage(
				fmt.Sprintf(
					"record %#02x has value %d, max for %dbpp is %d",
					record,
					value,
					bitWidth,
					maxValue,
				),
			)
		}

		n, err := output.Write(bytes.Repeat([]byte{value}, int(record>>4)+1))
		totalWritten += int64(n)
		if err != nil {
			return totalWritten, fmt.Errorf("failed to write to output: %w", err)
		}
	}
}
