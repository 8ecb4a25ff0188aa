package file

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	appcfg "github.com/inkpress/core/internal/config"
	"github.com/inkpress/core/internal/models"
	"github.com/inkpress/core/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n0000")

func uploadRequest(t *testing.T, filename string, payload []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestLocalUpload(t *testing.T) {
	db := testutil.NewDB(t)
	dir := t.TempDir()
	store := NewLocalStorage(filepath.Join(dir, uploadDir), "")
	h := NewHandler(db, store, appcfg.UploadConfig{MaxSizeMB: 1, AllowedFormats: "png,jpg"}, nil)
	r := gin.New()
	h.RegisterRoutes(r.Group(""))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "Avatar.PNG", pngHeader))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, strings.HasPrefix(resp.URL, "/uploads/"), resp.URL)
	assert.True(t, strings.HasSuffix(resp.URL, ".png"))

	name := strings.TrimPrefix(resp.URL, "/uploads/")
	saved, err := os.ReadFile(filepath.Join(dir, uploadDir, name))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, saved)

	var ref models.FileReferenceModel
	require.NoError(t, db.First(&ref, "file_name = ?", name).Error)
	assert.Equal(t, appcfg.UploadLocal, ref.Storage)
	assert.EqualValues(t, len(pngHeader), ref.Size)

	gw := httptest.NewRecorder()
	r.ServeHTTP(gw, httptest.NewRequest(http.MethodGet, resp.URL, nil))
	require.Equal(t, http.StatusOK, gw.Code)
	assert.Equal(t, pngHeader, gw.Body.Bytes())

	mw := httptest.NewRecorder()
	r.ServeHTTP(mw, httptest.NewRequest(http.MethodGet, "/uploads/missing.png", nil))
	assert.Equal(t, http.StatusNotFound, mw.Code)
}

func TestUploadRejects(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewLocalStorage(t.TempDir(), "")
	h := NewHandler(db, store, appcfg.UploadConfig{MaxSizeMB: 1, AllowedFormats: "png"}, nil)
	r := gin.New()
	h.RegisterRoutes(r.Group(""))

	cases := []struct {
		name     string
		filename string
		payload  []byte
	}{
		{"disallowed extension", "script.exe", []byte("MZ")},
		{"missing extension", "README", []byte("text")},
		{"too large", "big.png", bytes.Repeat([]byte{0}, 1024*1024+1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, uploadRequest(t, tc.filename, tc.payload))
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/upload", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.FileReferenceModel{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestS3StoragePut(t *testing.T) {
	var (
		mu     sync.Mutex
		method string
		path   string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		method, path = r.Method, r.URL.Path
		mu.Unlock()
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store, err := NewS3Storage(appcfg.S3Config{
		Bucket:          "media",
		Region:          "us-east-1",
		Endpoint:        srv.URL,
		AccessKeyID:     "AKID",
		SecretAccessKey: "secret",
		Prefix:          "/blog/",
	})
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "a.png", pngHeader, "image/png")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/media/blog/a.png", url)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/media/blog/a.png", path)
}

func TestNewS3StorageRequiresCredentials(t *testing.T) {
	_, err := NewS3Storage(appcfg.S3Config{Bucket: "media", Region: "us-east-1"})
	assert.Error(t, err)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "", safeName("../"))
	assert.Equal(t, "", safeName("a b.png"))
	assert.Equal(t, "ok.png", safeName("dir/ok.png"))
	assert.Equal(t, "a/b", normalizeObjectKey("//a\\\\b/"))
	assert.Equal(t, "image/png", detectContentType("x.png", nil, "application/octet-stream"))

	name := buildFileName("photo.JPEG")
	assert.True(t, strings.HasSuffix(name, ".jpeg"))
	assert.Len(t, name, 36+len(".jpeg"))
}
