package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "object-updater/internal/errors"
	"object-updater/internal/memstore"
	"object-updater/internal/models"
	"object-updater/internal/uploader"
	"object-updater/mocks"
)

func setUpRouter(t *testing.T) (http.Handler, *memstore.Store) {
	t.Helper()

	store := memstore.New()
	u, err := uploader.New(store, "test-bucket")
	require.NoError(t, err)

	return NewRouter(NewAPIHandler(u, zerolog.Nop(), 1024)), store
}

func putObject(router http.Handler, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, target, bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestHandlePutObject_WriteThenUnchanged(t *testing.T) {
	router, store := setUpRouter(t)

	rr := putObject(router, "/objects/resources/problems.json?type=json", []byte(`[{"id":"abc001_a"}]`))

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["updated"])
	assert.Equal(t, "resources/problems.json", resp["key"])
	assert.Equal(t, "test-bucket", resp["bucket"])
	assert.Equal(t, "json", resp["content_type"])
	assert.Equal(t, uploader.Digest([]byte(`[{"id":"abc001_a"}]`)), resp["sha256"])

	obj, ok := store.Object("test-bucket", "resources/problems.json")
	require.True(t, ok)
	assert.Equal(t, models.MIMEJSON, obj.ContentType)

	rr = putObject(router, "/objects/resources/problems.json?type=json", []byte(`[{"id":"abc001_a"}]`))

	assert.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["updated"])
	assert.Equal(t, 1, store.Uploads())
}

func TestHandlePutObject_DefaultTypeIsOther(t *testing.T) {
	router, store := setUpRouter(t)

	rr := putObject(router, "/objects/blob.bin", []byte{0, 1, 2})

	assert.Equal(t, http.StatusOK, rr.Code)
	obj, ok := store.Object("test-bucket", "blob.bin")
	require.True(t, ok)
	assert.Empty(t, obj.ContentType)
}

func TestHandlePutObject_EscapedKey(t *testing.T) {
	router, store := setUpRouter(t)

	rr := putObject(router, "/objects/a%2Fb%20c.json?type=json", []byte("{}"))

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "a/b c.json", resp["key"])

	_, ok := store.Object("test-bucket", "a/b c.json")
	assert.True(t, ok)
	_, ok = store.Object("test-bucket", "a%2Fb%20c.json")
	assert.False(t, ok)
}

func TestHandlePutObject_InvalidKeyEscape(t *testing.T) {
	router, store := setUpRouter(t)

	req := httptest.NewRequest(http.MethodPut, "/objects/bad", bytes.NewReader([]byte("x")))
	req.URL.RawPath = "/objects/bad%zz"
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, 0, store.Uploads())
}

func TestHandlePutObject_BadRequests(t *testing.T) {
	testCases := []struct {
		name   string
		target string
		body   []byte
		status int
	}{
		{name: "missing key", target: "/objects/", body: []byte("x"), status: http.StatusBadRequest},
		{name: "unknown type", target: "/objects/a.txt?type=text", body: []byte("x"), status: http.StatusBadRequest},
		{name: "too large", target: "/objects/a.txt", body: bytes.Repeat([]byte("x"), 2048), status: http.StatusRequestEntityTooLarge},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router, store := setUpRouter(t)

			rr := putObject(router, tc.target, tc.body)

			assert.Equal(t, tc.status, rr.Code)
			assert.Contains(t, rr.Body.String(), `"error"`)
			assert.Equal(t, 0, store.Uploads())
		})
	}
}

func TestHandlePutObject_UpdateErrors(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		status int
	}{
		{name: "upload failed", err: &uploader.UploadError{Bucket: "test-bucket", Key: "a.json"}, status: http.StatusBadGateway},
		{name: "lock held", err: fmt.Errorf("failed to lock: %w", apperrors.ErrLockNotAcquired), status: http.StatusConflict},
		{name: "other", err: errors.New("boom"), status: http.StatusBadGateway},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockUpdater := new(mocks.MockUpdater)
			mockUpdater.On("Update", mock.Anything, []byte("{}"), "a.json", models.ContentTypeJSON).Return(false, tc.err)

			router := NewRouter(NewAPIHandler(mockUpdater, zerolog.Nop(), 0))

			rr := putObject(router, "/objects/a.json?type=json", []byte("{}"))

			assert.Equal(t, tc.status, rr.Code)
			assert.False(t, strings.Contains(rr.Body.String(), "boom"))
			mockUpdater.AssertExpectations(t)
		})
	}
}

func TestHandleHealth(t *testing.T) {
	router, _ := setUpRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}
