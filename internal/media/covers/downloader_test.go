package covers

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookhiveapp/bookhive-server/internal/media/images"
)

func newTestDownloader(t *testing.T) (*Downloader, *images.Storage) {
	t.Helper()
	storage, err := images.NewStorage(t.TempDir())
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewDownloader(images.NewProcessor(storage, logger), logger), storage
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: uint8(x), B: uint8(y), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDownload_FetchesAndStoresCover(t *testing.T) {
	data := pngBytes(t, 60, 90)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer srv.Close()

	downloader, storage := newTestDownloader(t)
	result := downloader.Download(context.Background(), "book-1", srv.URL)

	require.True(t, result.Success, "download failed: %v", result.Error)
	assert.Equal(t, 60, result.Width)
	assert.Equal(t, 90, result.Height)
	assert.Equal(t, int64(len(data)), result.Size)
	assert.NotEmpty(t, result.BlurHash)
	assert.True(t, storage.Exists("book-1"))
}

func TestDownload_FailsOnBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	downloader, storage := newTestDownloader(t)
	result := downloader.Download(context.Background(), "book-1", srv.URL)

	assert.False(t, result.Success)
	assert.Error(t, result.Error)
	assert.False(t, storage.Exists("book-1"))
}

func TestDownload_FailsOnNonImagePayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not a cover</html>"))
	}))
	defer srv.Close()

	downloader, _ := newTestDownloader(t)
	result := downloader.Download(context.Background(), "book-1", srv.URL)

	assert.False(t, result.Success)
	assert.Error(t, result.Error)
}

func TestDownload_RejectsNonRemoteURLs(t *testing.T) {
	downloader, _ := newTestDownloader(t)

	assert.Error(t, downloader.Download(context.Background(), "book-1", "").Error)
	assert.Error(t, downloader.Download(context.Background(), "book-1", "/covers/local.jpg").Error)
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("https://covers.example.com/a.jpg"))
	assert.True(t, IsRemote("http://covers.example.com/a.jpg"))
	assert.False(t, IsRemote("file:///tmp/a.jpg"))
	assert.False(t, IsRemote(""))
}
