// Package s3 provides an Amazon S3 backed artifact store.
//
// Reads use ranged GETs, so a lazily decoded module only fetches the
// byte ranges its decoded entities live in. Uploads go through the SDK's
// multipart upload manager.
package s3
