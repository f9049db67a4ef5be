package main

import (
	"bytes"
	"fmt"
	"log"
	"os"

	"github.com/dargueta/imgreformer"
	"github.com/dargueta/imgreformer/emit"
	"github.com/dargueta/imgreformer/raster"
	"github.com/dargueta/imgreformer/report"
	"github.com/dargueta/imgreformer/samples"
	"github.com/dargueta/imgreformer/utilities/compression"
	"github.com/urfave/cli/v2"
)

func checkArgs(context *cli.Context, count int) error {
	if context.NArg() != count {
		return cli.Exit(
			fmt.Sprintf(
				"expected %d arguments, got %d\nUsage: %s %s",
				count,
				context.NArg(),
				context.Command.FullName(),
				context.Command.ArgsUsage,
			),
			1,
		)
	}
	return nil
}

func parseFormat(context *cli.Context) (imgreformer.Format, error) {
	format, err := imgreformer.ParseFormat(context.String("format"))
	if err != nil {
		return imgreformer.Format{}, cli.Exit(err.Error(), 1)
	}
	return format, nil
}

func rasterOptions(context *cli.Context, bitDepth uint) raster.Options {
	opts := raster.Options{
		BitDepth: bitDepth,
		Width:    context.Int("width"),
		Height:   context.Int("height"),
	}
	if context.Bool("color16") {
		opts.Palette = raster.Palette16
	}
	return opts
}

func convertImage(context *cli.Context) error {
	if err := checkArgs(context, 2); err != nil {
		return err
	}
	format, err := parseFormat(context)
	if err != nil {
		return err
	}

	sourceFilePath := context.Args().Get(0)
	outputFilePath := context.Args().Get(1)

	img, err := raster.Load(sourceFilePath, rasterOptions(context, format.BitDepth))
	if err != nil {
		return err
	}

	name := context.String("name")
	if name == "" {
		name = sourceFilePath
	}
	src, err := emit.NewSource(name, img, format)
	if err != nil {
		return err
	}

	outFile, err := os.Create(outputFilePath)
	if err != nil {
		return fmt.Errorf("failed to open file for writing: `%v`: %w", outputFilePath, err)
	}
	defer outFile.Close()

	if err = emit.WriteSource(outFile, src); err != nil {
		return err
	}

	log.Printf(
		"Wrote %s (%dx%d, %d samples) as %d bytes.",
		src.Identifier(),
		src.Width,
		src.Height,
		img.Stream.Len(),
		len(src.Pixels),
	)
	return outFile.Close()
}

func encodeSamples(context *cli.Context) error {
	if err := checkArgs(context, 2); err != nil {
		return err
	}
	format, err := parseFormat(context)
	if err != nil {
		return err
	}

	sourceFilePath := context.Args().Get(0)
	outputFilePath := context.Args().Get(1)

	rawSamples, err := os.ReadFile(sourceFilePath)
	if err != nil {
		return fmt.Errorf("failed to read `%v`: %w", sourceFilePath, err)
	}

	width := context.Int("width")
	if width == 0 {
		width = len(rawSamples)
	}
	if width < 0 || (width > 0 && len(rawSamples)%width != 0) {
		return cli.Exit(
			fmt.Sprintf("%d samples can't be split into rows of %d", len(rawSamples), width),
			1,
		)
	}
	height := 0
	if width > 0 {
		height = len(rawSamples) / width
	}

	stream, err := samples.NewRaster(format.BitDepth, width, height, rawSamples)
	if err != nil {
		return err
	}

	encoded, err := compression.Encode(stream, format)
	if err != nil {
		return err
	}

	if err = os.WriteFile(outputFilePath, encoded, 0o644); err != nil {
		return fmt.Errorf("failed to write `%v`: %w", outputFilePath, err)
	}

	log.Printf("Encoded %d samples to %d bytes.", stream.Len(), len(encoded))
	return nil
}

func decodeSamples(context *cli.Context) error {
	if err := checkArgs(context, 2); err != nil {
		return err
	}
	format, err := parseFormat(context)
	if err != nil {
		return err
	}

	width := context.Int("width")
	if format.Mode == imgreformer.Uncompressed && width <= 0 {
		return cli.Exit("--width is required to decode uncompressed data", 1)
	}

	sourceFilePath := context.Args().Get(0)
	outputFilePath := context.Args().Get(1)

	sourceFile, err := os.Open(sourceFilePath)
	if err != nil {
		return fmt.Errorf("failed to open file for reading: `%v`: %w", sourceFilePath, err)
	}
	defer sourceFile.Close()

	// Nothing is written until the whole input decodes, so bad input never
	// leaves a truncated output file behind.
	decoded := bytes.Buffer{}
	nWritten, err := compression.Decode(format, sourceFile, &decoded, width)
	if err != nil {
		return fmt.Errorf("error expanding file: %w", err)
	}

	if err = os.WriteFile(outputFilePath, decoded.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write `%v`: %w", outputFilePath, err)
	}

	log.Printf("Decoded input file to %d samples.", nWritten)
	return nil
}

func printStats(context *cli.Context) error {
	if err := checkArgs(context, 1); err != nil {
		return err
	}

	img, err := raster.Load(context.Args().Get(0), rasterOptions(context, context.Uint("bpp")))
	if err != nil {
		return err
	}

	rows, err := report.Build(img.Stream)
	if err != nil {
		return err
	}
	if err = report.WriteCSV(context.App.Writer, rows); err != nil {
		return err
	}

	if best, ok := report.Best(rows); ok {
		log.Printf("Smallest encoding: %s (%d bytes).", best.Format, best.EncodedBytes)
	}
	return nil
}
