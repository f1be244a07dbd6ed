package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/quotevoice/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testConfig(endpoint string) *config.StorageConfig {
	return &config.StorageConfig{
		Enabled:         true,
		Bucket:          "qv-archive",
		Region:          "eu-west-1",
		Endpoint:        endpoint,
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		UsePathStyle:    true,
		Prefix:          "/exports/",
	}
}

func TestNewS3Archive_Validation(t *testing.T) {
	ctx := context.Background()

	_, err := NewS3Archive(ctx, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration is required")

	cfg := testConfig("http://localhost:9000")
	cfg.Bucket = ""
	_, err = NewS3Archive(ctx, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket is required")

	cfg = testConfig("http://localhost:9000")
	cfg.SecretAccessKey = ""
	_, err = NewS3Archive(ctx, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be set together")

	archive, err := NewS3Archive(ctx, testConfig("localhost:9000"),
		WithLogger(zaptest.NewLogger(t)),
		WithPresignExpiration(time.Minute),
	)
	require.NoError(t, err)
	assert.Equal(t, "qv-archive", archive.Bucket())
	assert.Equal(t, "exports", archive.prefix)
	assert.Equal(t, time.Minute, archive.presignExpiration)
}

func TestS3Archive_InvoiceKey(t *testing.T) {
	archive, err := NewS3Archive(context.Background(), testConfig("http://localhost:9000"))
	require.NoError(t, err)

	tenant := uuid.MustParse("7d9f1c3e-0000-4000-8000-000000000001")
	assert.Equal(t,
		"exports/7d9f1c3e-0000-4000-8000-000000000001/2024/INV-2024-00042.xml",
		archive.InvoiceKey(tenant, 2024, "INV-2024-00042", "xml"))
	assert.Equal(t,
		"exports/7d9f1c3e-0000-4000-8000-000000000001/2024/A_B_C.pdf",
		archive.InvoiceKey(tenant, 2024, "A/B C", "pdf"))
}

func TestS3Archive_DownloadURL(t *testing.T) {
	archive, err := NewS3Archive(context.Background(), testConfig("http://localhost:9000"))
	require.NoError(t, err)

	url, expires, err := archive.DownloadURL(context.Background(), "exports/t/2024/INV.xml")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:9000/qv-archive/exports/t/2024/INV.xml?"))
	assert.Contains(t, url, "X-Amz-Signature=")
	assert.WithinDuration(t, time.Now().Add(defaultPresignExpiration), expires, 5*time.Second)

	_, _, err = archive.DownloadURL(context.Background(), "")
	assert.Error(t, err)
}

// fakeS3 accepts path-style PUT and HEAD requests
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = body
		f.types[r.URL.Path] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodHead:
		if _, ok := f.objects[r.URL.Path]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestS3Archive_PutAndExists(t *testing.T) {
	fake := newFakeS3()
	srv := httptest.NewServer(fake)
	defer srv.Close()

	ctx := context.Background()
	archive, err := NewS3Archive(ctx, testConfig(srv.URL))
	require.NoError(t, err)

	key := "exports/tenant/2024/INV-2024-00001.xml"
	exists, err := archive.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	doc := []byte(`<?xml version="1.0"?><Invoice/>`)
	require.NoError(t, archive.Put(ctx, key, doc, ContentTypeXML))

	fake.mu.Lock()
	assert.Equal(t, doc, fake.objects["/qv-archive/"+key])
	assert.Equal(t, ContentTypeXML, fake.types["/qv-archive/"+key])
	fake.mu.Unlock()

	exists, err = archive.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	assert.Error(t, archive.Put(ctx, "", doc, ContentTypeXML))
	_, err = archive.Exists(ctx, "")
	assert.Error(t, err)
}
