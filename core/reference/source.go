package reference

import (
	"context"
	"fmt"
	"io"
	"os"

	"npi-linker/core/storage"

	"github.com/minio/minio-go/v7"
)

// Source opens the reference dataset for one sequential pass.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	// Size returns the source size in bytes, or -1 when unknown.
	Size(ctx context.Context) int64
	String() string
}

// FileSource reads the reference dataset from the local filesystem.
type FileSource struct {
	Path string
}

func (f FileSource) Open(_ context.Context) (io.ReadCloser, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return fh, nil
}

func (f FileSource) Size(_ context.Context) int64 {
	info, err := os.Stat(f.Path)
	if err != nil {
		return -1
	}
	return info.Size()
}

func (f FileSource) String() string {
	return f.Path
}

// ObjectSource streams the reference dataset out of object storage.
type ObjectSource struct {
	Client storage.Client
	Bucket string
	Key    string
}

func (o ObjectSource) Open(ctx context.Context) (io.ReadCloser, error) {
	exists, err := o.Client.BucketExists(ctx, o.Bucket)
	if err != nil {
		return nil, fmt.Errorf("%w: check bucket %s: %v", ErrSourceUnavailable, o.Bucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: bucket %s does not exist", ErrSourceUnavailable, o.Bucket)
	}

	obj, err := o.Client.GetObject(ctx, o.Bucket, o.Key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", ErrSourceUnavailable, o, err)
	}
	return obj, nil
}

func (o ObjectSource) Size(ctx context.Context) int64 {
	info, err := o.Client.StatObject(ctx, o.Bucket, o.Key, minio.StatObjectOptions{})
	if err != nil {
		return -1
	}
	return info.Size
}

func (o ObjectSource) String() string {
	return storage.SchemePrefix + o.Bucket + "/" + o.Key
}

// ParseSource picks a Source for location: "s3://bucket/key" goes through
// client, anything else is a local path.
func ParseSource(location string, client storage.Client) (Source, error) {
	if !storage.IsURI(location) {
		if location == "" {
			return nil, fmt.Errorf("%w: no location given", ErrSourceUnavailable)
		}
		return FileSource{Path: location}, nil
	}
	bucket, key, ok := storage.ParseURI(location)
	if !ok {
		return nil, fmt.Errorf("%w: malformed object location %q", ErrSourceUnavailable, location)
	}
	if client == nil {
		return nil, fmt.Errorf("%w: storage is not configured for %s", ErrSourceUnavailable, location)
	}
	return ObjectSource{Client: client, Bucket: bucket, Key: key}, nil
}
