package api

import (
	"bytes"
	"encoding/json/v2"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 5), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// uploadImage sends raw bytes through the router, which humatest cannot do.
func uploadImage(ts *testServer, method, path, token string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Authorization", token)
	req.Header.Set("Content-Type", "image/png")
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func TestUploadAndServeCover(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.registerUser(t, "alice@example.com", "Alice")
	book := createBook(t, ts, token, "A Wizard of Earthsea")

	rec := uploadImage(ts, http.MethodPut, "/api/v1/books/"+book.ID+"/cover", token, pngBytes(t, 120, 80))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out testEnvelope[UploadImageResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "/api/v1/books/"+book.ID+"/cover", out.Data.URL)
	assert.NotEmpty(t, out.Data.BlurHash)
	assert.Equal(t, 120, out.Data.Width)
	assert.Equal(t, 80, out.Data.Height)

	resp := ts.api.Get("/api/v1/books/"+book.ID, "Authorization: "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	got := decodeData[BookResponse](t, resp.Body.Bytes())
	assert.Equal(t, out.Data.URL, got.CoverImageURL)
	assert.Equal(t, out.Data.BlurHash, got.CoverBlurHash)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/books/"+book.ID+"/cover", nil)
	rec = httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Body.Bytes())
	assert.NotEmpty(t, rec.Header().Get("ETag"))
	assert.Equal(t, CacheOneDay, rec.Header().Get("Cache-Control"))

	etag := rec.Header().Get("ETag")
	req = httptest.NewRequest(http.MethodGet, "/api/v1/books/"+book.ID+"/cover", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
}

func TestUploadCover_Ownership(t *testing.T) {
	ts := newTestServer(t)
	aliceToken, _ := ts.registerUser(t, "alice@example.com", "Alice")
	bobToken, _ := ts.registerUser(t, "bob@example.com", "Bob")
	book := createBook(t, ts, aliceToken, "Alice's Book")

	rec := uploadImage(ts, http.MethodPut, "/api/v1/books/"+book.ID+"/cover", bobToken, pngBytes(t, 10, 10))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unauthorized to edit this book")
}

func TestUploadCover_RejectsBadPayloads(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.registerUser(t, "alice@example.com", "Alice")
	book := createBook(t, ts, token, "A Book")

	rec := uploadImage(ts, http.MethodPut, "/api/v1/books/"+book.ID+"/cover", token, []byte("not an image"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = uploadImage(ts, http.MethodPut, "/api/v1/books/"+book.ID+"/cover", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadProfilePhoto(t *testing.T) {
	ts := newTestServer(t)
	token, userID := ts.registerUser(t, "alice@example.com", "Alice")

	rec := uploadImage(ts, http.MethodPut, "/api/v1/users/me/photo", token, pngBytes(t, 64, 64))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out testEnvelope[UploadImageResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "/api/v1/users/"+userID+"/photo", out.Data.URL)
	assert.NotEmpty(t, out.Data.BlurHash)

	resp := ts.api.Get("/api/v1/users/me", "Authorization: "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	profile := decodeData[ProfileResponse](t, resp.Body.Bytes())
	assert.Equal(t, out.Data.URL, profile.PhotoURL)
	assert.Equal(t, out.Data.BlurHash, profile.PhotoBlurHash)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/"+userID+"/photo", nil)
	serveRec := httptest.NewRecorder()
	ts.router.ServeHTTP(serveRec, req)
	assert.Equal(t, http.StatusOK, serveRec.Code)
}

func TestServeCover_MissingImage(t *testing.T) {
	ts := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/books/nope/cover", nil)
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
