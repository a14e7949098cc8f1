// Package minio provides an artifact store for MinIO and other
// S3-compatible object storage, using the native MinIO client.
package minio
