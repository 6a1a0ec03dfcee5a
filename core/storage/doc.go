// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client so reference datasets can be streamed straight
// out of a bucket and classification output can be streamed back in, without
// staging either on local disk. Both AWS S3 and self-hosted MinIO work.
//
// Locations are written as "s3://bucket/key"; ParseURI splits them and IsURI
// tells callers whether a location belongs here or on the local filesystem.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	obj, err := client.GetObject(ctx, "npi-reference", "npidata.csv", minio.GetObjectOptions{})
package storage
