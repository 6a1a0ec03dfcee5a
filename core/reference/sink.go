package reference

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"npi-linker/core/storage"

	"github.com/minio/minio-go/v7"
)

// Sink receives qualifying raw records in source order. The header is
// written once, ahead of the first record. A sink that never receives a
// record produces no output at all.
type Sink interface {
	Append(records [][]string) error
	Close() error
	// Written returns the number of records appended so far.
	Written() int64
	String() string
}

type csvSink struct {
	header  []string
	writer  *csv.Writer
	written int64
}

func (c *csvSink) write(w io.Writer, records [][]string) error {
	if c.writer == nil {
		c.writer = csv.NewWriter(w)
		if err := c.writer.Write(c.header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	if err := c.writer.WriteAll(records); err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	c.written += int64(len(records))
	return nil
}

// FileSink writes CSV output to a local file, created on the first append.
type FileSink struct {
	csvSink
	path string
	file *os.File
}

// NewFileSink prepares a sink for path.
func NewFileSink(path string, header []string) *FileSink {
	return &FileSink{csvSink: csvSink{header: header}, path: path}
}

func (f *FileSink) Append(records [][]string) error {
	if len(records) == 0 {
		return nil
	}
	if f.file == nil {
		if dir := filepath.Dir(f.path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
		}
		fh, err := os.Create(f.path)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		f.file = fh
	}
	return f.write(f.file, records)
}

func (f *FileSink) Close() error {
	if f.file == nil {
		return nil
	}
	f.writer.Flush()
	werr := f.writer.Error()
	cerr := f.file.Close()
	if werr != nil {
		return werr
	}
	return cerr
}

func (f *FileSink) Written() int64 { return f.written }

func (f *FileSink) String() string { return f.path }

// ObjectSink streams CSV output into object storage. The upload starts on
// the first append and completes on Close.
type ObjectSink struct {
	csvSink
	ctx    context.Context
	client storage.Client
	bucket string
	key    string

	pw   *io.PipeWriter
	done chan error
	info minio.UploadInfo
}

// NewObjectSink prepares a sink that uploads to bucket/key.
func NewObjectSink(ctx context.Context, client storage.Client, bucket, key string, header []string) *ObjectSink {
	return &ObjectSink{
		csvSink: csvSink{header: header},
		ctx:     ctx,
		client:  client,
		bucket:  bucket,
		key:     key,
	}
}

func (o *ObjectSink) Append(records [][]string) error {
	if len(records) == 0 {
		return nil
	}
	if o.pw == nil {
		pr, pw := io.Pipe()
		o.pw = pw
		o.done = make(chan error, 1)
		go func() {
			info, err := o.client.PutObject(o.ctx, o.bucket, o.key, pr, -1, minio.PutObjectOptions{
				ContentType: "text/csv",
			})
			o.info = info
			pr.CloseWithError(err)
			o.done <- err
		}()
	}
	if err := o.write(o.pw, records); err != nil {
		return err
	}
	o.writer.Flush()
	return o.writer.Error()
}

func (o *ObjectSink) Close() error {
	if o.pw == nil {
		return nil
	}
	o.writer.Flush()
	if err := o.writer.Error(); err != nil {
		o.pw.CloseWithError(err)
		<-o.done
		return err
	}
	o.pw.Close()
	if err := <-o.done; err != nil {
		return fmt.Errorf("upload %s: %w", o, err)
	}
	return nil
}

func (o *ObjectSink) Written() int64 { return o.written }

// Uploaded returns the upload result once Close has returned.
func (o *ObjectSink) Uploaded() minio.UploadInfo { return o.info }

func (o *ObjectSink) String() string {
	return storage.SchemePrefix + o.bucket + "/" + o.key
}

// ParseSink picks a Sink for location, mirroring ParseSource.
func ParseSink(ctx context.Context, location string, client storage.Client, header []string) (Sink, error) {
	if !storage.IsURI(location) {
		if location == "" {
			return nil, fmt.Errorf("no output location given")
		}
		return NewFileSink(location, header), nil
	}
	bucket, key, ok := storage.ParseURI(location)
	if !ok {
		return nil, fmt.Errorf("malformed object location %q", location)
	}
	if client == nil {
		return nil, fmt.Errorf("storage is not configured for %s", location)
	}
	return NewObjectSink(ctx, client, bucket, key, header), nil
}
