// Package codec centralizes artifact compression.
//
// Codec selection is intentionally a breaking-change boundary: cached
// artifacts record the codec name that produced them, and bytes written
// by one codec never decode under another.
package codec

// Codec compresses and decompresses artifact bytes.
// Implementations must be safe for concurrent use.
type Codec interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
	Name() string
}

// Default is the codec used when none is configured.
var Default Codec = Zstd{}

// ByName returns a built-in codec by its stable name.
//
// Cache files are self-describing: they store the codec name alongside
// the payload so a cache written under one configuration stays readable
// under another.
func ByName(name string) (Codec, bool) {
	switch name {
	case "zstd":
		return Zstd{}, true
	case "lz4":
		return LZ4{}, true
	case "none":
		return None{}, true
	default:
		return nil, false
	}
}

// None passes bytes through unchanged.
type None struct{}

// Compress returns the input unchanged.
func (None) Compress(data []byte) ([]byte, error) { return data, nil }

// Decompress returns the input unchanged.
func (None) Decompress(data []byte) ([]byte, error) { return data, nil }

// Name returns the stable codec name.
func (None) Name() string { return "none" }
