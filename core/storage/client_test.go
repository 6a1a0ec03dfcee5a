package storage_test

import (
	"testing"

	"npi-linker/core/storage"

	"github.com/stretchr/testify/assert"
)

func TestNewClient(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			Bucket:    "test-bucket",
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithScheme", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:       "https://s3.amazonaws.com",
			AccessKey:      "testkey",
			SecretKey:      "testsecret",
			UseSSL:         true,
			TimeoutSeconds: 5,
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})
}

func TestParseURI(t *testing.T) {
	tests := []struct {
		name       string
		uri        string
		wantBucket string
		wantKey    string
		wantOK     bool
	}{
		{"Object", "s3://npi/2024/npidata.csv", "npi", "2024/npidata.csv", true},
		{"Local path", "data/npidata.csv", "", "", false},
		{"Bucket only", "s3://npi", "", "", false},
		{"Empty key", "s3://npi/", "", "", false},
		{"Empty bucket", "s3:///key.csv", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, key, ok := storage.ParseURI(tt.uri)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantBucket, bucket)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.uri[:min(len(tt.uri), 5)] == "s3://", storage.IsURI(tt.uri))
		})
	}
}
