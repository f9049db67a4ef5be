// Package report compares how well each encoding does on an image.
package report

import (
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/dargueta/imgreformer"
	"github.com/dargueta/imgreformer/samples"
	"github.com/dargueta/imgreformer/utilities/compression"
	"github.com/gocarina/gocsv"
)

// Row is one line of the report: the result of encoding a stream in a single
// format. The reference columns are the same on every row of a report; they
// give the size of the packed, uncompressed image after a general-purpose
// compressor.
type Row struct {
	Format       string  `csv:"format"`
	BitDepth     uint    `csv:"bpp"`
	Samples      int     `csv:"samples"`
	PackedBytes  int     `csv:"packed_bytes"`
	EncodedBytes int     `csv:"encoded_bytes"`
	Ratio        float64 `csv:"ratio"`
	Checksum     string  `csv:"xxhash64"`
	ZstdBytes    int     `csv:"zstd_bytes"`
	LZ4Bytes     int     `csv:"lz4_bytes"`
	S2Bytes      int     `csv:"s2_bytes"`
}

// Build encodes the stream in every format defined for its bit depth and
// returns one row per format, in the order [imgreformer.FormatsForBitDepth]
// gives them.
func Build(stream *samples.Stream) ([]Row, error) {
	packed, err := compression.PackRows(stream)
	if err != nil {
		return nil, err
	}

	references, err := measureReferences(packed)
	if err != nil {
		return nil, err
	}

	formats := imgreformer.FormatsForBitDepth(stream.BitWidth())
	rows := make([]Row, 0, len(formats))

	for _, format := range formats {
		encoded, err := compression.Encode(stream, format)
		if err != nil {
			return nil, fmt.Errorf("failed to encode as %s: %w", format.Tag(), err)
		}

		ratio := 0.0
		if len(packed) > 0 {
			ratio = float64(len(encoded)) / float64(len(packed))
		}

		rows = append(
			rows,
			Row{
				Format:       format.String(),
				BitDepth:     format.BitDepth,
				Samples:      stream.Len(),
				PackedBytes:  len(packed),
				EncodedBytes: len(encoded),
				Ratio:        ratio,
				Checksum:     fmt.Sprintf("%016x", xxhash.Sum64(encoded)),
				ZstdBytes:    references.zstd,
				LZ4Bytes:     references.lz4,
				S2Bytes:      references.s2,
			},
		)
	}
	return rows, nil
}

// Best returns the row with the smallest encoded size. Ties go to the earlier
// row. It returns false if there are no rows.
func Best(rows []Row) (Row, bool) {
	if len(rows) == 0 {
		return Row{}, false
	}
	best := rows[0]
	for _, row := range rows[1:] {
		if row.EncodedBytes < best.EncodedBytes {
			best = row
		}
	}
	return best, true
}

// WriteCSV writes the rows as CSV with a header line.
func WriteCSV(w io.Writer, rows []Row) error {
	return gocsv.Marshal(rows, w)
}

// ReadCSV parses a report written by [WriteCSV].
func ReadCSV(r io.Reader) ([]Row, error) {
	var rows []Row
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, imgreformer.ErrInvalidInput.Wrap(err)
	}
	return rows, nil
}
