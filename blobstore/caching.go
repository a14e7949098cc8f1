package blobstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/symgraph/symgraph/codec"
)

// CachingStore wraps a remote Store with a compressed on-disk cache.
// Artifacts are immutable, so a cache hit never needs revalidation; Put
// and Delete drop the cached copy.
type CachingStore struct {
	inner   Store
	dir     string
	codec   codec.Codec
	limiter *rate.Limiter
	group   singleflight.Group
}

// CachingOptions configures a CachingStore.
type CachingOptions struct {
	// Codec compresses cached artifacts; defaults to codec.Default.
	Codec codec.Codec

	// Limiter throttles remote fetches, shielding the backend from a
	// cold-cache stampede. Nil means unlimited.
	Limiter *rate.Limiter
}

// NewCachingStore creates a caching wrapper storing compressed copies
// under dir.
func NewCachingStore(inner Store, dir string, optFns ...func(*CachingOptions)) *CachingStore {
	opts := CachingOptions{Codec: codec.Default}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &CachingStore{
		inner:   inner,
		dir:     dir,
		codec:   opts.Codec,
		limiter: opts.Limiter,
	}
}

func (s *CachingStore) cachePath(name string) string {
	sum := sha256.Sum256([]byte(name))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:16]))
}

// Open returns the artifact, fetching it from the inner store on a
// cache miss. Concurrent misses for the same artifact share one fetch.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	if data, err := s.readCache(name); err == nil {
		return &memoryBlob{data: data}, nil
	}

	v, err, _ := s.group.Do(name, func() (any, error) {
		// Recheck: another caller may have filled the cache while this
		// one waited in the group.
		if data, err := s.readCache(name); err == nil {
			return data, nil
		}
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}
		data, err := ReadAll(ctx, s.inner, name)
		if err != nil {
			return nil, err
		}
		s.writeCache(name, data)
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return &memoryBlob{data: v.([]byte)}, nil
}

// readCache loads and decompresses a cached artifact. The cache file is
// self-describing: a one-byte codec name length, the codec name, then
// the compressed payload.
func (s *CachingStore) readCache(name string) ([]byte, error) {
	raw, err := os.ReadFile(s.cachePath(name))
	if err != nil {
		return nil, err
	}
	if len(raw) < 1 || len(raw) < 1+int(raw[0]) {
		return nil, fmt.Errorf("blobstore: cache entry for %s is corrupt", name)
	}
	codecName := string(raw[1 : 1+raw[0]])
	c, ok := codec.ByName(codecName)
	if !ok {
		return nil, fmt.Errorf("blobstore: cache entry for %s uses unknown codec %q", name, codecName)
	}
	return c.Decompress(raw[1+raw[0]:])
}

// writeCache is best-effort: a failed cache write costs a refetch later,
// not an error now.
func (s *CachingStore) writeCache(name string, data []byte) {
	compressed, err := s.codec.Compress(data)
	if err != nil {
		return
	}
	codecName := s.codec.Name()
	entry := make([]byte, 0, 1+len(codecName)+len(compressed))
	entry = append(entry, byte(len(codecName)))
	entry = append(entry, codecName...)
	entry = append(entry, compressed...)

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return
	}
	tmp, err := os.CreateTemp(s.dir, "cache-*")
	if err != nil {
		return
	}
	if _, err := tmp.Write(entry); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return
	}
	if err := os.Rename(tmp.Name(), s.cachePath(name)); err != nil {
		_ = os.Remove(tmp.Name())
	}
}

func (s *CachingStore) dropCache(name string) {
	_ = os.Remove(s.cachePath(name))
}

// Put writes through to the inner store and drops the cached copy.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.dropCache(name)
	return s.inner.Put(ctx, name, data)
}

// Delete removes the artifact and its cached copy.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.dropCache(name)
	return s.inner.Delete(ctx, name)
}

// List passes through to the inner store.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}
