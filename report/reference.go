package report

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

var zstdEncoderPool = sync.Pool{
	New: func() any {
		encoder, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderCRC(false),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd encoder for pool: %v", err))
		}
		return encoder
	},
}

var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// referenceSizes holds the size of the packed image after going through each
// general-purpose compressor. It gives the RLE results something to be
// measured against.
type referenceSizes struct {
	zstd int
	lz4  int
	s2   int
}

func measureReferences(data []byte) (referenceSizes, error) {
	if len(data) == 0 {
		return referenceSizes{}, nil
	}

	encoder := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(encoder)
	zstdSize := len(encoder.EncodeAll(data, nil))

	lz4Size, err := lz4BlockSize(data)
	if err != nil {
		return referenceSizes{}, err
	}

	return referenceSizes{
		zstd: zstdSize,
		lz4:  lz4Size,
		s2:   len(s2.Encode(nil, data)),
	}, nil
}

func lz4BlockSize(data []byte) (int, error) {
	compressor := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(compressor)

	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := compressor.CompressBlock(data, dst)
	if err != nil {
		return 0, fmt.Errorf("lz4 compression failed: %w", err)
	}
	// Zero means the block is incompressible and would be stored as-is.
	if n == 0 {
		return len(data), nil
	}
	return n, nil
}
