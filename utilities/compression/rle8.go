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

// maxByteRun is the most repeats one RLE8 record can describe. The length byte
// stores repeats - 1.
const maxByteRun = 256

// EncodeRLE8 run-length encodes an 8 bpp stream as (repeats - 1, value) byte
// pairs. Runs longer than 256 samples are split across several records, and the
// last sample of the stream is always part of some record.
//
// The output is never longer than twice the number of samples in the stream.
func EncodeRLE8(stream *samples.Stream) ([]byte, error) {
	if stream.BitWidth() != 8 {
		return nil, imgreformer.ErrUnsupportedFormat.WithMessage(
			fmt.Sprintf("RLE8 requires 8 bpp, got %d", stream.BitWidth()))
	}

	output := make([]byte, 0, 2*stream.Len())
	grouper := NewRunGrouper(stream.Cursor())

	for {
		run, err := grouper.GetNextRun(maxByteRun)
		if errors.Is(err, io.EOF) {
			return output, nil
		} else if err != nil {
			return nil, err
		}
		output = append(output, byte(run.RunLength-1), run.Value)
	}
}

// DecodeRLE8 expands (repeats - 1, value) pairs from the input until it's
// exhausted. The return value is the number of samples written, only valid if
// no error occurred.
func DecodeRLE8(input io.Reader, output io.Writer) (int64, error) {
	source := bufio.NewReader(input)
	totalWritten := int64(0)

	for {
		lengthByte, err := source.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return totalWritten, nil
			}
			return totalWritten, fmt.Errorf("error reading input: %w", err)
		}

		value, err := source.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return totalWritten, imgreformer.ErrInvalidInput.Wrap(
					fmt.Errorf(
						"%w: missing value after run length %d",
						io.ErrUnexpectedEOF,
						lengthByte,
					),
				)
			}
			return totalWritten, fmt.Errorf("error reading input: %w", err)
		}

		n, err := output.Write(bytes.Repeat([]byte{value}, int(lengthByte)+1))
		totalWritten += int64(n)
		if err != nil {
			return totalWritten, fmt.Errorf("failed to write to output: %w", err)
		}
	}
}
