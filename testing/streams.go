package testing

import (
	"io"
	"math/rand"
	"testing"

	"github.com/dargueta/imgreformer"
	"github.com/dargueta/imgreformer/samples"
	"github.com/dargueta/imgreformer/utilities/compression"
	"github.com/noxer/bytewriter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"
)

// NewStream creates a single-row stream, failing the test if the samples are
// invalid.
func NewStream(t *testing.T, bitWidth uint, data []uint8) *samples.Stream {
	stream, err := samples.New(bitWidth, data)
	require.NoError(t, err, "failed to create %dbpp stream of %d samples", bitWidth, len(data))
	return stream
}

// RandomSamples returns `count` random samples that fit in `bitWidth` bits. The
// generator is seeded so failures are reproducible.
func RandomSamples(bitWidth uint, count int, seed int64) []uint8 {
	generator := rand.New(rand.NewSource(seed))
	data := make([]uint8, count)
	for i := range data {
		data[i] = uint8(generator.Intn(1 << bitWidth))
	}
	return data
}

// RunsOf builds a sample slice from (value, length) pairs. It panics if given an
// odd number of arguments.
func RunsOf(pairs ...int) []uint8 {
	if len(pairs)%2 != 0 {
		panic("RunsOf needs (value, length) pairs")
	}

	var data []uint8
	for i := 0; i < len(pairs); i += 2 {
		for j := 0; j < pairs[i+1]; j++ {
			data = append(data, uint8(pairs[i]))
		}
	}
	return data
}

// OpenEncoded returns a seekable stream over a copy of the encoded bytes.
//
// Writes to the stream do not affect `encoded`, and the stream can't grow past
// its original size.
func OpenEncoded(t *testing.T, encoded []byte) io.ReadWriteSeeker {
	dataCopy := make([]byte, len(encoded))
	copy(dataCopy, encoded)
	return bytesextra.NewReadWriteSeeker(dataCopy)
}

// AssertRoundTrip encodes the stream in the given format, decodes the result,
// and checks that the samples survived unchanged. It returns the encoded
// buffer so callers can make further assertions about it.
func AssertRoundTrip(t *testing.T, stream *samples.Stream, format imgreformer.Format) []byte {
	encoded, err := compression.Encode(stream, format)
	require.NoError(t, err, "failed to encode as %s", format.Tag())
	t.Logf("%s: %d samples -> %d bytes", format.Tag(), stream.Len(), len(encoded))

	decodedBuffer := make([]byte, stream.Len())
	decodedWriter := bytewriter.New(decodedBuffer)

	n, err := compression.Decode(format, OpenEncoded(t, encoded), decodedWriter, stream.Width())
	require.NoError(t, err, "failed to decode %s", format.Tag())
	assert.EqualValues(t, stream.Len(), n, "decoded sample count is wrong")
	assert.Equal(t, stream.Samples(), decodedBuffer, "decoded samples are wrong")
	return encoded
}
