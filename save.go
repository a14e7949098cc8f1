package symgraph

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/symgraph/symgraph/blobstore"
	"github.com/symgraph/symgraph/graph"
	"github.com/symgraph/symgraph/serial"
)

// Encode serializes a module graph to artifact bytes.
func Encode(m *graph.Module, optFns ...func(*serial.WriterOptions)) ([]byte, error) {
	return serial.NewWriter(m, optFns...).Serialize()
}

// Save encodes the module and stores its artifact under the module's
// name. A previously cached load of the same name is invalidated, so
// the next Load observes the new artifact.
func (s *Session) Save(ctx context.Context, m *graph.Module, optFns ...func(*serial.WriterOptions)) error {
	start := time.Now()

	data, err := Encode(m, optFns...)
	if err != nil {
		s.opts.metrics.RecordSave(0, time.Since(start), err)
		s.opts.logger.LogSave(ctx, m.Name, 0, time.Since(start), err)
		return err
	}

	err = s.store.Put(ctx, m.Name+s.opts.suffix, data)
	s.opts.metrics.RecordSave(len(data), time.Since(start), err)
	s.opts.logger.LogSave(ctx, m.Name, len(data), time.Since(start), err)
	if err != nil {
		return err
	}

	s.Invalidate(m.Name)
	return nil
}

// SaveFile encodes the module and writes the artifact to path
// atomically.
func SaveFile(path string, m *graph.Module, optFns ...func(*serial.WriterOptions)) error {
	data, err := Encode(m, optFns...)
	if err != nil {
		return err
	}
	store := blobstore.NewLocalStore(filepath.Dir(path))
	return store.Put(context.Background(), filepath.Base(path), data)
}

// LoadFile loads a standalone module artifact from disk. The module
// name is the file's base name without the artifact suffix.
// Cross-module references are unresolvable without a session; use
// Session.Load when the module imports others.
func LoadFile(path string, optFns ...func(*serial.ModuleOptions)) (*serial.Module, error) {
	store := blobstore.NewLocalStore(filepath.Dir(path))
	base := filepath.Base(path)

	data, err := blobstore.ReadAll(context.Background(), store, base)
	if err != nil {
		return nil, translateError(base, err)
	}

	name := strings.TrimSuffix(base, ArtifactSuffix)
	return serial.Load(name, data, optFns...)
}
