package storage_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"go-hrms/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestFSStorage_UploadAndSignedURL(t *testing.T) {
	ctx := context.Background()
	fs := storage.NewFSStorage(t.TempDir(), "http://localhost:3000", []byte("test-secret"))

	_, err := fs.Upload(ctx, "invoices/INV-202506-0001.pdf", []byte("%PDF-1.4 test"), "application/pdf")
	assert.NoError(t, err)

	signed, err := fs.SignedURL(ctx, "invoices/INV-202506-0001.pdf", 60*time.Second)
	assert.NoError(t, err)

	u, err := url.Parse(signed)
	assert.NoError(t, err)
	exp, err := strconv.ParseInt(u.Query().Get("exp"), 10, 64)
	assert.NoError(t, err)
	sig := u.Query().Get("sig")

	assert.True(t, fs.VerifySignature("invoices/INV-202506-0001.pdf", exp, sig))
	assert.False(t, fs.VerifySignature("invoices/INV-202506-0002.pdf", exp, sig), "signature must be bound to the key")
	assert.False(t, fs.VerifySignature("invoices/INV-202506-0001.pdf", time.Now().Add(-time.Minute).Unix(), sig), "expired token must fail")
}

func TestFSStorage_RejectsTraversalKeys(t *testing.T) {
	ctx := context.Background()
	fs := storage.NewFSStorage(t.TempDir(), "http://localhost:3000", []byte("test-secret"))

	_, err := fs.Upload(ctx, "../etc/passwd", []byte("x"), "text/plain")
	assert.Error(t, err)

	_, err = fs.SignedURL(ctx, "/absolute", time.Minute)
	assert.Error(t, err)
}

func TestServeSigned(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	fs := storage.NewFSStorage(t.TempDir(), "http://localhost:3000", []byte("test-secret"))
	_, err := fs.Upload(ctx, "invoices/INV-202506-0001.pdf", []byte("%PDF-1.4 test"), "application/pdf")
	assert.NoError(t, err)

	router := gin.New()
	storage.RegisterRoutes(router, fs)

	t.Run("valid signature streams pdf", func(t *testing.T) {
		signed, err := fs.SignedURL(ctx, "invoices/INV-202506-0001.pdf", time.Minute)
		assert.NoError(t, err)
		u, _ := url.Parse(signed)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, u.Path+"?"+u.RawQuery, nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Equal(t, "%PDF-1.4 test", w.Body.String())
	})

	t.Run("missing signature is rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/files/invoices/INV-202506-0001.pdf", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
