package codec

import (
	"bytes"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("entity record stream with repetitive structure "), 64)

	for _, name := range []string{"zstd", "lz4", "none"} {
		t.Run(name, func(t *testing.T) {
			c, ok := ByName(name)
			if !ok {
				t.Fatalf("ByName(%q) not found", name)
			}
			if c.Name() != name {
				t.Errorf("Name mismatch: got %q", c.Name())
			}

			compressed, err := c.Compress(payload)
			if err != nil {
				t.Fatalf("Compress failed: %v", err)
			}
			out, err := c.Decompress(compressed)
			if err != nil {
				t.Fatalf("Decompress failed: %v", err)
			}
			if !bytes.Equal(out, payload) {
				t.Error("round trip mismatch")
			}
		})
	}
}

func TestByNameUnknown(t *testing.T) {
	if _, ok := ByName("snappy"); ok {
		t.Error("unknown codec name should not resolve")
	}
}

func TestCompressionHelps(t *testing.T) {
	payload := bytes.Repeat([]byte("aaaabbbbcccc"), 1024)
	for _, c := range []Codec{Zstd{}, LZ4{}} {
		compressed, err := c.Compress(payload)
		if err != nil {
			t.Fatalf("%s Compress failed: %v", c.Name(), err)
		}
		if len(compressed) >= len(payload) {
			t.Errorf("%s did not shrink a repetitive payload", c.Name())
		}
	}
}
