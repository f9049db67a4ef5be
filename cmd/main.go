package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

const formatEnvVar = "IMGREFORMER_FORMAT"

func formatFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "format",
		Aliases:  []string{"f"},
		Usage:    "output format, e.g. 1bpp, 4bpp-rle4, 8bpp-rle8, 8bpp-rleblit",
		EnvVars:  []string{formatEnvVar},
		Required: true,
	}
}

func color16Flag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:  "color16",
		Usage: "dither onto the library's 16-color palette instead of grays (needs 4 or 8 bpp)",
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "imgreformer",
		Usage: "Convert images into compressed pixel arrays for the embedded graphics library",
		Commands: []*cli.Command{
			{
				Name:      "convert",
				Usage:     "Quantize an image and write it out as C source",
				Action:    convertImage,
				ArgsUsage: "IMAGE_FILE  OUTPUT_C_FILE",
				Flags: []cli.Flag{
					formatFlag(),
					&cli.IntFlag{Name: "width", Usage: "resize to this width before converting"},
					&cli.IntFlag{Name: "height", Usage: "resize to this height before converting"},
					&cli.StringFlag{Name: "name", Usage: "C identifier to use instead of the file name"},
					color16Flag(),
				},
			},
			{
				Name:      "encode",
				Usage:     "Encode raw samples, one per byte",
				Action:    encodeSamples,
				ArgsUsage: "RAW_FILE  OUTPUT_FILE",
				Flags: []cli.Flag{
					formatFlag(),
					&cli.IntFlag{Name: "width", Usage: "samples per row; defaults to the whole file as one row"},
				},
			},
			{
				Name:      "decode",
				Usage:     "Decode an encoded pixel array back to raw samples, one per byte",
				Action:    decodeSamples,
				ArgsUsage: "ENCODED_FILE  OUTPUT_FILE",
				Flags: []cli.Flag{
					formatFlag(),
					&cli.IntFlag{Name: "width", Usage: "samples per row; required for uncompressed formats"},
				},
			},
			{
				Name:      "stats",
				Usage:     "Print a CSV report comparing every encoding for an image",
				Action:    printStats,
				ArgsUsage: "IMAGE_FILE",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "bpp", Value: 8, Usage: "bits per pixel to quantize to"},
					&cli.IntFlag{Name: "width", Usage: "resize to this width first"},
					&cli.IntFlag{Name: "height", Usage: "resize to this height first"},
					color16Flag(),
				},
			},
		},
	}
}

func main() {
	err := newApp().Run(os.Args)
	if err != nil {
		log.Fatalf("fatal error: %s", err.Error())
	}
}
