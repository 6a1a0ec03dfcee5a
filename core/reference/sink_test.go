package reference_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"npi-linker/core/reference"
	"npi-linker/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFileSink_HeaderOnceAndLazyCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "filtered.csv")
	sink := reference.NewFileSink(path, []string{"NPI", "Name"})

	require.NoError(t, sink.Append(nil))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "no file before the first record")

	require.NoError(t, sink.Append([][]string{{"1", "A"}}))
	require.NoError(t, sink.Append([][]string{{"2", "B"}, {"3", "C"}}))
	require.NoError(t, sink.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "NPI,Name\n1,A\n2,B\n3,C\n", string(data))
	assert.Equal(t, int64(3), sink.Written())
}

func TestFileSink_CloseWithoutRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	sink := reference.NewFileSink(path, []string{"NPI"})

	require.NoError(t, sink.Close())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestObjectSink_StreamsUpload(t *testing.T) {
	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "out", "filtered.csv", []byte("NPI\n1\n2\n"), int64(-1), mock.Anything).
		Return(minio.UploadInfo{Size: 8}, nil)

	sink := reference.NewObjectSink(context.Background(), client, "out", "filtered.csv", []string{"NPI"})
	require.NoError(t, sink.Append([][]string{{"1"}}))
	require.NoError(t, sink.Append([][]string{{"2"}}))
	require.NoError(t, sink.Close())

	assert.Equal(t, int64(8), sink.Uploaded().Size)
	assert.Equal(t, "s3://out/filtered.csv", sink.String())
	client.AssertExpectations(t)
}

func TestObjectSink_UploadFailure(t *testing.T) {
	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "out", "filtered.csv", mock.Anything, int64(-1), mock.Anything).
		Return(minio.UploadInfo{}, errors.New("access denied"))

	sink := reference.NewObjectSink(context.Background(), client, "out", "filtered.csv", []string{"NPI"})
	_ = sink.Append([][]string{{"1"}})

	err := sink.Close()
	assert.Error(t, err)
}

func TestObjectSink_NoRecordsNoUpload(t *testing.T) {
	client := new(mocks.Client)

	sink := reference.NewObjectSink(context.Background(), client, "out", "filtered.csv", []string{"NPI"})
	require.NoError(t, sink.Close())

	client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestParseSourceAndSink(t *testing.T) {
	client := new(mocks.Client)

	src, err := reference.ParseSource("data/npidata.csv", nil)
	require.NoError(t, err)
	assert.Equal(t, reference.FileSource{Path: "data/npidata.csv"}, src)

	src, err = reference.ParseSource("s3://npi/npidata.csv", client)
	require.NoError(t, err)
	assert.Equal(t, "s3://npi/npidata.csv", src.String())

	_, err = reference.ParseSource("s3://npi/npidata.csv", nil)
	assert.ErrorIs(t, err, reference.ErrSourceUnavailable)

	_, err = reference.ParseSource("s3://npi", client)
	assert.ErrorIs(t, err, reference.ErrSourceUnavailable)

	sink, err := reference.ParseSink(context.Background(), "s3://npi/out.csv", client, []string{"NPI"})
	require.NoError(t, err)
	assert.IsType(t, &reference.ObjectSink{}, sink)

	_, err = reference.ParseSink(context.Background(), "", nil, nil)
	assert.Error(t, err)
}

func TestObjectSource_Open(t *testing.T) {
	t.Run("MissingBucket", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "npi").Return(false, nil)

		_, err := reference.ObjectSource{Client: client, Bucket: "npi", Key: "a.csv"}.Open(context.Background())
		assert.ErrorIs(t, err, reference.ErrSourceUnavailable)
	})

	t.Run("StreamsObject", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "npi").Return(true, nil)
		client.On("GetObject", mock.Anything, "npi", "a.csv", mock.Anything).
			Return(nopCloser{}, nil)
		client.On("StatObject", mock.Anything, "npi", "a.csv", mock.Anything).
			Return(minio.ObjectInfo{Size: 42}, nil)

		src := reference.ObjectSource{Client: client, Bucket: "npi", Key: "a.csv"}
		rc, err := src.Open(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, rc)
		assert.Equal(t, int64(42), src.Size(context.Background()))
	})
}

type nopCloser struct{}

func (nopCloser) Read([]byte) (int, error) { return 0, nil }
func (nopCloser) Close() error { return nil }
