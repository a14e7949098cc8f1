package codec

import (
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Zstd compresses with Zstandard at the default level. It is the best
// trade-off for module artifacts: identifier blobs and record streams
// compress well, and decompression stays fast enough for cold loads.
type Zstd struct{}

var (
	zstdOnce sync.Once
	zstdEnc  *zstd.Encoder
	zstdDec  *zstd.Decoder
)

// The encoder and decoder are stateless in EncodeAll/DecodeAll mode and
// safe for concurrent use, so one of each serves the whole process.
func zstdInit() {
	zstdEnc, _ = zstd.NewWriter(nil)
	zstdDec, _ = zstd.NewReader(nil)
}

// Compress encodes data as a Zstandard frame.
func (Zstd) Compress(data []byte) ([]byte, error) {
	zstdOnce.Do(zstdInit)
	return zstdEnc.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

// Decompress decodes a Zstandard frame.
func (Zstd) Decompress(data []byte) ([]byte, error) {
	zstdOnce.Do(zstdInit)
	return zstdDec.DecodeAll(data, nil)
}

// Name returns the stable codec name.
func (Zstd) Name() string { return "zstd" }
