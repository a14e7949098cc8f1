// Package blobstore provides storage abstraction for serialized module
// artifacts.
//
// Store is the interface for reading and writing artifacts. Artifacts
// are immutable once written; Put replaces atomically. Implementations
// must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem with mmap-backed reads
//   - MemoryStore: in-memory store for testing
//   - CachingStore: wraps a remote store with a compressed disk cache
//   - s3.Store: Amazon S3 with range reads and managed uploads
//   - minio.Store: MinIO and other S3-compatible object stores
//
// # Custom Implementations
//
// Implement the Store interface to support other backends. Blobs that
// can expose their bytes without copying should also implement Mappable;
// the module loader takes the zero-copy path when it is available.
package blobstore
