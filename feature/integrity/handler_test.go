package integrity

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"npi-linker/core/storage"
	"npi-linker/core/storage/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func readCloser(s string) io.ReadCloser {
	return io.NopCloser(strings.NewReader(s))
}

// setupMockDB creates a mock GORM DB for testing.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func setupTestApp(t *testing.T, ref string) (*fiber.App, *mocks.Client, sqlmock.Sqlmock) {
	app := fiber.New()
	mockClient := new(mocks.Client)
	db, sqlMock := setupMockDB(t)
	svc := NewService(mockClient, storage.Config{Bucket: "test-bucket"}, db, ref, zap.NewNop())
	NewHandler(svc).RegisterRoutes(app)
	return app, mockClient, sqlMock
}

func decode(t *testing.T, body io.Reader) map[string]any {
	var out map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestHandleSourceCheck(t *testing.T) {
	app, _, _ := setupTestApp(t, writeReference(t))

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/source", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "ok", decode(t, resp.Body)["status"])

	resp, err = app.Test(httptest.NewRequest("GET", "/integrity/source?location=s3://", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandleSourceCheck_LocationConfined(t *testing.T) {
	app, _, _ := setupTestApp(t, writeReference(t))

	tests := []struct {
		location string
		status   int
	}{
		{"data.csv", 200},
		{"../data.csv", 400},
		{"/etc/passwd", 400},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", "/integrity/source?location="+url.QueryEscape(tt.location), nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestHandleStorageCheck(t *testing.T) {
	app, mockClient, _ := setupTestApp(t, "")

	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(emptyListing())

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/storage", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decode(t, resp.Body)
	assert.Equal(t, true, body["exists"])
	assert.Equal(t, "test-bucket", body["bucket"])
}

func TestHandleStorageCheck_Fix(t *testing.T) {
	app, mockClient, _ := setupTestApp(t, "")

	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(false, nil)
	mockClient.On("MakeBucket", mock.Anything, "test-bucket", mock.Anything).Return(nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/storage?fix=true", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "fixed", decode(t, resp.Body)["status"])
	mockClient.AssertCalled(t, "MakeBucket", mock.Anything, "test-bucket", mock.Anything)
}

func TestHandleStorageCheck_Error(t *testing.T) {
	app, mockClient, _ := setupTestApp(t, "")
	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(false, assert.AnError)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/storage", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}

func TestHandleSchemaCheck(t *testing.T) {
	app, _, sqlMock := setupTestApp(t, "")

	sqlMock.ExpectQuery("SHOW COLUMNS FROM `match_runs`").WillReturnError(assert.AnError)
	sqlMock.ExpectQuery("SHOW COLUMNS FROM `match_results`").WillReturnError(assert.AnError)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/schema", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decode(t, resp.Body)
	assert.Equal(t, false, body["matched"])
	assert.Len(t, body["errors"], 2)
}

func TestHandleIntegrityCheck(t *testing.T) {
	app, mockClient, sqlMock := setupTestApp(t, writeReference(t))

	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(emptyListing())
	sqlMock.ExpectQuery(".*").WillReturnError(assert.AnError)
	sqlMock.ExpectQuery(".*").WillReturnError(assert.AnError)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decode(t, resp.Body)
	assert.Contains(t, body, "source")
	assert.Contains(t, body, "storage")
	assert.Contains(t, body, "schema")
}
