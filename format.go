package imgreformer

import (
	"fmt"
	"strings"
)

// CompressionMode selects how the pixel array of an image is stored. The
// numeric values of Uncompressed and Compressed match the mode flag the
// graphics library uses.
type CompressionMode int

const (
	// Uncompressed stores samples packed MSB-first, each row padded to a byte.
	Uncompressed CompressionMode = 0
	// Compressed selects RLE4 for 1/2/4 bpp and the simple RLE8 for 8 bpp.
	Compressed CompressionMode = 1
	// CompressedAdaptive selects the two-stage RLE8 packer. Only valid for 8 bpp.
	CompressedAdaptive CompressionMode = 2
)

func (m CompressionMode) String() string {
	switch m {
	case Uncompressed:
		return "uncompressed"
	case Compressed:
		return "compressed"
	case CompressedAdaptive:
		return "compressed-adaptive"
	}
	return fmt.Sprintf("CompressionMode(%d)", int(m))
}

// Format is a (bit depth, compression mode) pair. Encoded buffers carry no
// header, so the format is the only thing that tells a decoder how to read one.
type Format struct {
	BitDepth uint
	Mode     CompressionMode
}

// IsSupportedBitDepth returns true for the bit widths a sample stream may have.
func IsSupportedBitDepth(bitDepth uint) bool {
	switch bitDepth {
	case 1, 2, 4, 8:
		return true
	}
	return false
}

// Validate returns ErrUnsupportedFormat if no encoding is defined for the
// format.
func (f Format) Validate() error {
	if !IsSupportedBitDepth(f.BitDepth) {
		return ErrUnsupportedFormat.WithMessage(
			fmt.Sprintf("bit depth must be 1, 2, 4, or 8, got %d", f.BitDepth))
	}

	switch f.Mode {
	case Uncompressed, Compressed:
		return nil
	case CompressedAdaptive:
		if f.BitDepth != 8 {
			return ErrUnsupportedFormat.WithMessage(
				fmt.Sprintf("adaptive RLE is only defined for 8bpp, got %dbpp", f.BitDepth))
		}
		return nil
	}
	return ErrUnsupportedFormat.WithMessage(
		fmt.Sprintf("unknown compression mode %d", int(f.Mode)))
}

// EncodingName returns the short name of the encoding, e.g. "RLE4" or "UNCOMP".
func (f Format) EncodingName() string {
	switch f.Mode {
	case Uncompressed:
		return "UNCOMP"
	case Compressed:
		if f.BitDepth == 8 {
			return "COMP_RLE8"
		}
		return "COMP_RLE4"
	case CompressedAdaptive:
		return "COMP_RLEBLIT"
	}
	return "UNKNOWN"
}

// Tag returns the graphics library's image format identifier, for example
// IMAGE_FMT_4BPP_COMP_RLE4.
func (f Format) Tag() string {
	return fmt.Sprintf("IMAGE_FMT_%dBPP_%s", f.BitDepth, f.EncodingName())
}

// String returns the format in the form ParseFormat accepts.
func (f Format) String() string {
	switch f.Mode {
	case Uncompressed:
		return fmt.Sprintf("%dbpp", f.BitDepth)
	case Compressed:
		if f.BitDepth == 8 {
			return "8bpp-rle8"
		}
		return fmt.Sprintf("%dbpp-rle4", f.BitDepth)
	case CompressedAdaptive:
		return fmt.Sprintf("%dbpp-rleblit", f.BitDepth)
	}
	return fmt.Sprintf("%dbpp-mode%d", f.BitDepth, int(f.Mode))
}

// ParseFormat parses names like "1bpp", "4bpp-rle4", "8bpp-rle8" and
// "8bpp-rleblit". The result is validated.
func ParseFormat(name string) (Format, error) {
	depthPart, encodingPart, _ := strings.Cut(strings.ToLower(strings.TrimSpace(name)), "-")

	var depth uint
	_, err := fmt.Sscanf(depthPart, "%dbpp", &depth)
	// Sscanf stops matching after "bpp", so trailing junk has to be caught here.
	if err != nil || depthPart != fmt.Sprintf("%dbpp", depth) {
		return Format{}, ErrUnsupportedFormat.WithMessage(
			fmt.Sprintf("can't parse bit depth from %q", name))
	}

	format := Format{BitDepth: depth}
	switch encodingPart {
	case "", "uncomp", "raw":
		format.Mode = Uncompressed
	case "rle", "rle4", "rle8":
		format.Mode = Compressed
	case "rleblit", "adaptive":
		format.Mode = CompressedAdaptive
	default:
		return Format{}, ErrUnsupportedFormat.WithMessage(
			fmt.Sprintf("unknown encoding %q", encodingPart))
	}

	if encodingPart == "rle4" && depth == 8 || encodingPart == "rle8" && depth != 8 {
		return Format{}, ErrUnsupportedFormat.WithMessage(
			fmt.Sprintf("%s is not defined for %dbpp", encodingPart, depth))
	}

	if err := format.Validate(); err != nil {
		return Format{}, err
	}
	return format, nil
}

// FormatsForBitDepth returns every supported format for the given bit depth, in
// a stable order.
func FormatsForBitDepth(bitDepth uint) []Format {
	if !IsSupportedBitDepth(bitDepth) {
		return nil
	}
	formats := []Format{
		{BitDepth: bitDepth, Mode: Uncompressed},
		{BitDepth: bitDepth, Mode: Compressed},
	}
	if bitDepth == 8 {
		formats = append(formats, Format{BitDepth: bitDepth, Mode: CompressedAdaptive})
	}
	return formats
}
