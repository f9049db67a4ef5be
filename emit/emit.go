// Package emit renders encoded images as C source for the graphics library.
//
// Each image becomes three definitions: a pixel array, a palette array of
// 0x00RRGGBB words, and a Graphics_Image record tying them together with the
// format tag and dimensions.
package emit

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/dargueta/imgreformer"
	"github.com/dargueta/imgreformer/raster"
	"github.com/dargueta/imgreformer/utilities/compression"
)

const (
	bytesPerLine   = 16
	colorsPerLine  = 8
	defaultName    = "image"
	headerFileName = "grlib.h"
)

// Source is an encoded image ready to be written out.
type Source struct {
	// Name is the base identifier. It must already be a valid C identifier; see
	// [SanitizeName].
	Name    string
	Format  imgreformer.Format
	Width   int
	Height  int
	Palette color.Palette
	Pixels  []byte
}

// NewSource encodes a quantized image in the given format.
func NewSource(name string, img raster.Image, format imgreformer.Format) (Source, error) {
	pixels, err := compression.Encode(img.Stream, format)
	if err != nil {
		return Source{}, err
	}
	return Source{
		Name:    SanitizeName(name),
		Format:  format,
		Width:   img.Stream.Width(),
		Height:  img.Stream.Height(),
		Palette: img.Palette,
		Pixels:  pixels,
	}, nil
}

// Identifier returns the name of the Graphics_Image record, e.g.
// "logo4BPP_COMP_RLE4".
func (s Source) Identifier() string {
	return s.Name + strings.TrimPrefix(s.Format.Tag(), "IMAGE_FMT_")
}

// SanitizeName turns a file name or path into a C identifier. The directory
// and extension are dropped, and every character that can't appear in an
// identifier is replaced with an underscore.
func SanitizeName(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "." || base == string(filepath.Separator) {
		base = ""
	}

	var builder strings.Builder
	for _, char := range base {
		if char < unicode.MaxASCII && (unicode.IsLetter(char) || unicode.IsDigit(char) || char == '_') {
			builder.WriteRune(char)
		} else {
			builder.WriteByte('_')
		}
	}

	identifier := builder.String()
	if identifier == "" {
		return defaultName
	}
	if identifier[0] >= '0' && identifier[0] <= '9' {
		return "_" + identifier
	}
	return identifier
}

// PaletteWord packs a color into the graphics library's 0x00RRGGBB form.
func PaletteWord(c color.Color) uint32 {
	r, g, b, _ := c.RGBA()
	return (r>>8)<<16 | (g>>8)<<8 | b>>8
}

// WriteSource writes the C definitions for `src` to `w`.
func WriteSource(w io.Writer, src Source) error {
	if err := src.Format.Validate(); err != nil {
		return err
	}
	if len(src.Pixels) == 0 {
		return imgreformer.ErrInvalidInput.WithMessage("image has no pixel data")
	}
	if len(src.Palette) == 0 || len(src.Palette) > 1<<src.Format.BitDepth {
		return imgreformer.ErrInvalidInput.WithMessage(
			fmt.Sprintf(
				"a %dbpp image needs 1 to %d palette entries, got %d",
				src.Format.BitDepth,
				1<<src.Format.BitDepth,
				len(src.Palette),
			),
		)
	}

	id := src.Identifier()
	out := bufio.NewWriter(w)

	fmt.Fprintf(out, "#include \"%s\"\n\n", headerFileName)

	fmt.Fprintf(out, "static const uint8_t pixel_%s[] =\n{\n", id)
	for start := 0; start < len(src.Pixels); start += bytesPerLine {
		end := min(start+bytesPerLine, len(src.Pixels))
		writeLine(out, src.Pixels[start:end], "0x%02x")
	}
	fmt.Fprint(out, "};\n\n")

	words := make([]uint32, len(src.Palette))
	for i, c := range src.Palette {
		words[i] = PaletteWord(c)
	}
	fmt.Fprintf(out, "static const uint32_t palette_%s[%d] =\n{\n", id, len(words))
	for start := 0; start < len(words); start += colorsPerLine {
		end := min(start+colorsPerLine, len(words))
		writeLine(out, words[start:end], "0x%06x")
	}
	fmt.Fprint(out, "};\n\n")

	fmt.Fprintf(out, "const Graphics_Image %s =\n{\n", id)
	fmt.Fprintf(out, "\t%s,\n", src.Format.Tag())
	fmt.Fprintf(out, "\t%d,\n", src.Width)
	fmt.Fprintf(out, "\t%d,\n", src.Height)
	fmt.Fprintf(out, "\t%d,\n", len(words))
	fmt.Fprintf(out, "\tpalette_%s,\n", id)
	fmt.Fprintf(out, "\tpixel_%s,\n", id)
	fmt.Fprint(out, "};\n")

	return out.Flush()
}

func writeLine[T uint8 | uint32](out *bufio.Writer, values []T, verb string) {
	out.WriteByte('\t')
	for i, value := range values {
		if i > 0 {
			out.WriteByte(' ')
		}
		fmt.Fprintf(out, verb, value)
		out.WriteByte(',')
	}
	out.WriteByte('\n')
}
