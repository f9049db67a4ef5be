// Package samples provides the read-only stream of palette indices the encoders
// consume.
//
// A [Stream] holds N samples of a fixed bit width (1, 2, 4, or 8). Samples are
// stored one per byte no matter how many would fit into a byte of the packed
// image, so positions in the stream are sample positions, never byte offsets.
// Encoders read a stream through a [Cursor], which refuses to move past the
// last sample.
package samples

import (
	"fmt"

	"github.com/dargueta/imgreformer"
	"github.com/hashicorp/go-multierror"
)

// maxReportedSamples limits how many bad samples are listed in a validation
// error. An 8bpp image fed to a 1bpp stream would otherwise produce one error
// per pixel.
const maxReportedSamples = 8

// Stream is an immutable sequence of samples with a fixed bit width. It also
// records the dimensions of the raster it came from so that row-oriented
// consumers (the row packer, the source emitter) can describe the image.
type Stream struct {
	bitWidth uint
	width    int
	height   int
	samples  []uint8
}

// New creates a single-row stream from one sample per element. The input slice
// is copied.
func New(bitWidth uint, samples []uint8) (*Stream, error) {
	height := 1
	if len(samples) == 0 {
		height = 0
	}
	return NewRaster(bitWidth, len(samples), height, samples)
}

// NewRaster creates a stream for an image of the given dimensions. The number
// of samples must be exactly width * height. The input slice is copied.
func NewRaster(bitWidth uint, width, height int, samples []uint8) (*Stream, error) {
	if !imgreformer.IsSupportedBitDepth(bitWidth) {
		return nil, imgreformer.ErrUnsupportedFormat.WithMessage(
			fmt.Sprintf("sample width must be 1, 2, 4, or 8 bits, got %d", bitWidth))
	}
	if width < 0 || height < 0 {
		return nil, imgreformer.ErrInvalidInput.WithMessage(
			fmt.Sprintf("image dimensions can't be negative, got %dx%d", width, height))
	}
	if width*height != len(samples) {
		return nil, imgreformer.ErrInvalidInput.WithMessage(
			fmt.Sprintf(
				"a %dx%d image has %d samples, got %d",
				width,
				height,
				width*height,
				len(samples),
			),
		)
	}

	err := validateSamples(bitWidth, samples)
	if err != nil {
		return nil, err
	}

	stream := &Stream{
		bitWidth: bitWidth,
		width:    width,
		height:   height,
		samples:  make([]uint8, len(samples)),
	}
	copy(stream.samples, samples)
	return stream, nil
}

// FromPacked unpacks an image stored MSB-first with each row padded to a whole
// byte, the layout of an uncompressed image in the graphics library. Padding
// bits after the last sample of each row are never read.
func FromPacked(bitWidth uint, width, height int, packed []byte) (*Stream, error) {
	if !imgreformer.IsSupportedBitDepth(bitWidth) {
		return nil, imgreformer.ErrUnsupportedFormat.WithMessage(
			fmt.Sprintf("sample width must be 1, 2, 4, or 8 bits, got %d", bitWidth))
	}
	if width < 0 || height < 0 {
		return nil, imgreformer.ErrInvalidInput.WithMessage(
			fmt.Sprintf("image dimensions can't be negative, got %dx%d", width, height))
	}

	stride := RowStride(bitWidth, width)
	if len(packed) != stride*height {
		return nil, imgreformer.ErrInvalidInput.WithMessage(
			fmt.Sprintf(
				"a %dx%d image at %dbpp is %d bytes packed, got %d",
				width,
				height,
				bitWidth,
				stride*height,
				len(packed),
			),
		)
	}

	samplesPerByte := int(8 / bitWidth)
	mask := byte(0xFF >> (8 - bitWidth))
	unpacked := make([]uint8, 0, width*height)

	for y := 0; y < height; y++ {
		row := packed[y*stride : (y+1)*stride]
		for x := 0; x < width; x++ {
			shift := uint(samplesPerByte-1-x%samplesPerByte) * bitWidth
			unpacked = append(unpacked, (row[x/samplesPerByte]>>shift)&mask)
		}
	}

	return &Stream{
		bitWidth: bitWidth,
		width:    width,
		height:   height,
		samples:  unpacked,
	}, nil
}

// RowStride returns the number of bytes one packed row of `width` samples
// occupies.
func RowStride(bitWidth uint, width int) int {
	bits := int(bitWidth) * width
	return (bits + 7) / 8
}

func validateSamples(bitWidth uint, samples []uint8) error {
	maxValue := uint(1)<<bitWidth - 1
	var result *multierror.Error
	totalBad := 0

	for i, sample := range samples {
		if uint(sample) <= maxValue {
			continue
		}
		totalBad++
		if totalBad <= maxReportedSamples {
			result = multierror.Append(
				result,
				fmt.Errorf("sample %d is %d, max for %d bits is %d", i, sample, bitWidth, maxValue),
			)
		}
	}

	if result == nil {
		return nil
	}
	if totalBad > maxReportedSamples {
		result = multierror.Append(
			result,
			fmt.Errorf("%d more samples out of range", totalBad-maxReportedSamples),
		)
	}
	return imgreformer.ErrInvalidInput.Wrap(result)
}

// BitWidth returns the number of bits in each sample.
func (s *Stream) BitWidth() uint {
	return s.bitWidth
}

// Len returns the number of samples in the stream.
func (s *Stream) Len() int {
	return len(s.samples)
}

// Width returns the width of the source raster in samples.
func (s *Stream) Width() int {
	return s.width
}

// Height returns the height of the source raster in rows.
func (s *Stream) Height() int {
	return s.height
}

// At returns the sample at `index`, or ErrOutOfRange if the index is outside
// the stream.
func (s *Stream) At(index int) (uint8, error) {
	if index < 0 || index >= len(s.samples) {
		return 0, imgreformer.ErrOutOfRange.WithMessage(
			fmt.Sprintf("index %d not in [0, %d)", index, len(s.samples)))
	}
	return s.samples[index], nil
}

// Samples returns a copy of every sample in the stream.
func (s *Stream) Samples() []uint8 {
	out := make([]uint8, len(s.samples))
	copy(out, s.samples)
	return out
}

// Cursor returns a new cursor positioned at the first sample.
func (s *Stream) Cursor() *Cursor {
	return &Cursor{stream: s}
}
