package compression

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dargueta/imgreformer"
	"github.com/dargueta/imgreformer/samples"
)

// Encode encodes the stream in the given format. The stream's bit width must
// match the format's bit depth.
//
// The returned buffer is newly allocated and owned by the caller. On error no
// buffer is returned.
func Encode(stream *samples.Stream, format imgreformer.Format) ([]byte, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	if stream.BitWidth() != format.BitDepth {
		return nil, imgreformer.ErrUnsupportedFormat.WithMessage(
			fmt.Sprintf(
				"can't encode a %dbpp stream as %s",
				stream.BitWidth(),
				format.Tag(),
			),
		)
	}

	switch format.Mode {
	case imgreformer.Uncompressed:
		return PackRows(stream)
	case imgreformer.Compressed:
		if format.BitDepth == 8 {
			return EncodeRLE8(stream)
		}
		return EncodeRLE4(stream)
	default:
		return EncodeRLEBlit(stream)
	}
}

// Decode expands encoded data in the given format from the input, writing one
// sample per byte to the output. `width` is only used by uncompressed formats,
// which need the row length to skip padding.
//
// The returned int64 gives the number of samples written. If an error occurred,
// the value is undefined and should not be used.
func Decode(format imgreformer.Format, input io.Reader, output io.Writer, width int) (int64, error) {
	if err := format.Validate(); err != nil {
		return 0, err
	}

	switch format.Mode {
	case imgreformer.Uncompressed:
		return DecodeRows(input, output, format.BitDepth, width)
	case imgreformer.Compressed:
		if format.BitDepth == 8 {
			return DecodeRLE8(input, output)
		}
		return DecodeRLE4(input, output, format.BitDepth)
	default:
		return DecodeRLEBlit(input, output)
	}
}

// DecodeToBytes is a convenience function wrapping [Decode]. It functions
// identically, except it returns the samples in a new byte slice instead of
// writing to an [io.Writer].
func DecodeToBytes(format imgreformer.Format, encoded []byte, width int) ([]byte, error) {
	output := bytes.NewBuffer(make([]byte, 0, len(encoded)))
	_, err := Decode(format, bytes.NewReader(encoded), output, width)
	if err != nil {
		return nil, err
	}
	return output.Bytes(), nil
}
