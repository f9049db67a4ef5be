// Package raster turns image files into sample streams the encoders accept.
//
// Images already using a small enough palette are taken as-is. Anything else is
// dithered onto a fixed palette. That is the caller's Options.Palette if given,
// such as Palette16, or else an evenly spaced gray ramp for 1 and 2 and 4 bpp and
// the Plan 9 palette for 8 bpp.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"io"

	"github.com/dargueta/imgreformer"
	"github.com/dargueta/imgreformer/samples"
	"github.com/disintegration/imaging"
)

// Options controls how an image is mapped to samples.
type Options struct {
	// BitDepth is the number of bits per sample in the result.
	BitDepth uint
	// Width and Height resize the image before it's quantized. If one of them is
	// zero the aspect ratio is kept. If both are zero the image isn't resized.
	Width  int
	Height int
	// Palette, if set, is what images are dithered onto instead of the default
	// gray ramp or Plan 9 palette. It can't have more than 2^BitDepth colors.
	Palette color.Palette
}

// Palette16 is the graphics library's default 16-color palette. Dithering onto
// it keeps the hues of a 4 bpp image, which the gray ramp loses.
var Palette16 = color.Palette{
	color.RGBA{0x00, 0x00, 0x00, 0xff}, // black
	color.RGBA{0x80, 0x00, 0x00, 0xff}, // dark red
	color.RGBA{0x00, 0x80, 0x00, 0xff}, // dark green
	color.RGBA{0x80, 0x80, 0x00, 0xff}, // dark yellow
	color.RGBA{0x00, 0x00, 0x80, 0xff}, // dark blue
	color.RGBA{0x80, 0x00, 0x80, 0xff}, // dark magenta
	color.RGBA{0x00, 0x80, 0x80, 0xff}, // dark cyan
	color.RGBA{0x80, 0x80, 0x80, 0xff}, // dark grey
	color.RGBA{0xc0, 0xc0, 0xc0, 0xff}, // light grey
	color.RGBA{0xff, 0x00, 0x00, 0xff}, // red
	color.RGBA{0x00, 0xff, 0x00, 0xff}, // green
	color.RGBA{0xff, 0xff, 0x00, 0xff}, // yellow
	color.RGBA{0x00, 0x00, 0xff, 0xff}, // blue
	color.RGBA{0xff, 0x00, 0xff, 0xff}, // magenta
	color.RGBA{0x00, 0xff, 0xff, 0xff}, // cyan
	color.RGBA{0xff, 0xff, 0xff, 0xff}, // white
}

// Image is a quantized image: one palette index per pixel, plus the palette.
type Image struct {
	Stream  *samples.Stream
	Palette color.Palette
}

// Load reads and quantizes the image file at `path`. EXIF orientation is
// applied.
func Load(path string, opts Options) (Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return Image{}, fmt.Errorf("failed to load image %q: %w", path, err)
	}
	return Quantize(img, opts)
}

// Decode reads and quantizes an image from a stream. EXIF orientation is
// applied.
func Decode(r io.Reader, opts Options) (Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return Image{}, imgreformer.ErrInvalidInput.Wrap(err)
	}
	return Quantize(img, opts)
}

// Quantize maps every pixel of `img` to a palette index of opts.BitDepth bits.
func Quantize(img image.Image, opts Options) (Image, error) {
	if !imgreformer.IsSupportedBitDepth(opts.BitDepth) {
		return Image{}, imgreformer.ErrUnsupportedFormat.WithMessage(
			fmt.Sprintf("bit depth must be 1, 2, 4, or 8, got %d", opts.BitDepth))
	}
	if opts.Width < 0 || opts.Height < 0 {
		return Image{}, imgreformer.ErrInvalidInput.WithMessage(
			fmt.Sprintf("can't resize to %dx%d", opts.Width, opts.Height))
	}
	if len(opts.Palette) > 1<<opts.BitDepth {
		return Image{}, imgreformer.ErrInvalidInput.WithMessage(
			fmt.Sprintf(
				"a %d color palette doesn't fit in %d bpp",
				len(opts.Palette),
				opts.BitDepth,
			),
		)
	}

	if opts.Width != 0 || opts.Height != 0 {
		img = imaging.Resize(img, opts.Width, opts.Height, imaging.Lanczos)
	}

	paletted, ok := img.(*image.Paletted)
	if !ok || len(paletted.Palette) > 1<<opts.BitDepth {
		paletted = dither(img, opts)
	}
	return fromPaletted(paletted, opts.BitDepth)
}

// GrayRamp returns 2^bitDepth evenly spaced shades of gray, from black to
// white. A bit depth of 0 gives a single black entry.
func GrayRamp(bitDepth uint) color.Palette {
	count := 1 << bitDepth
	if count < 2 {
		return color.Palette{color.Gray{Y: 0}}
	}
	ramp := make(color.Palette, count)
	for i := range ramp {
		ramp[i] = color.Gray{Y: uint8(i * 255 / (count - 1))}
	}
	return ramp
}

func dither(img image.Image, opts Options) *image.Paletted {
	var source image.Image
	var targetPalette color.Palette

	switch {
	case len(opts.Palette) > 0:
		source = img
		targetPalette = opts.Palette
	case opts.BitDepth == 8:
		source = img
		targetPalette = palette.Plan9
	default:
		source = imaging.Grayscale(img)
		targetPalette = GrayRamp(opts.BitDepth)
	}

	bounds := source.Bounds()
	dest := image.NewPaletted(image.Rect(0, 0, bounds.Dx(), bounds.Dy()), targetPalette)
	draw.FloydSteinberg.Draw(dest, dest.Bounds(), source, bounds.Min)
	return dest
}

func fromPaletted(img *image.Paletted, bitDepth uint) (Image, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	indices := make([]uint8, 0, width*height)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		start := img.PixOffset(bounds.Min.X, y)
		indices = append(indices, img.Pix[start:start+width]...)
	}

	stream, err := samples.NewRaster(bitDepth, width, height, indices)
	if err != nil {
		return Image{}, err
	}

	imagePalette := make(color.Palette, len(img.Palette))
	copy(imagePalette, img.Palette)
	return Image{Stream: stream, Palette: imagePalette}, nil
}
