// Package compression implements the pixel array encodings of the embedded
// graphics library.
//
// Images are stored as palette indices of 1, 2, 4, or 8 bits each. Flash on the
// targets is small, so most images are run-length encoded. There are three
// encodings, and the caller has to know which one a buffer uses; none of them
// carry a header.
//
// RLE4 is used for 1, 2, and 4 bpp. Every byte is one run: the high nibble is
// the number of repeats minus one, the low nibble the sample. Runs are counted
// in samples, not bytes, so for 1 bpp a single record can stand for two bytes
// of the packed image. A run of 17 identical samples is two records:
//
//	samples: 1 x17
//	RLE4:    0xF1 0x01
//
// RLE8 is the same idea for 8 bpp, with a whole byte for the repeat count and a
// whole byte for the value, so one record covers up to 256 samples.
//
// RLEBLIT, the "adaptive" 8 bpp encoding, is a PackBits variant. A control byte
// with the top bit set means the next byte is repeated (control & 0x7F) times;
// with the top bit clear, the control byte is a count of literal bytes that
// follow. Runs of fewer than three bytes are stored as literals since a repeat
// segment would be no smaller:
//
//	samples: 9 7 7 7 7 7 3 1
//	RLEBLIT: 0x01 9  0x85 7  0x02 3 1
//
// Uncompressed images are packed MSB-first with every row padded to a byte.
//
// Decoders are provided for every encoding, mostly so that encoders can be
// tested by round trip.
package compression
