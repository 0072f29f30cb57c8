package images

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 11), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestStorage_SaveGetDelete(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	data := testPNG(t, 8, 8)
	require.NoError(t, storage.Save("book-1", data))
	assert.True(t, storage.Exists("book-1"))

	got, err := storage.Get("book-1")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	require.NoError(t, storage.Delete("book-1"))
	assert.False(t, storage.Exists("book-1"))
}

func TestStorage_HashIsStable(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	data := testPNG(t, 8, 8)
	require.NoError(t, storage.Save("book-1", data))

	h1, err := storage.Hash("book-1")
	require.NoError(t, err)
	h2, err := storage.Hash("book-1")
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)

	require.NoError(t, storage.Save("book-1", testPNG(t, 16, 16)))
	h3, err := storage.Hash("book-1")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}

func TestStorage_RejectsEmptyInput(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, storage.Save("", testPNG(t, 4, 4)))
	assert.Error(t, storage.Save("book-1", nil))

	_, err = NewStorage("")
	assert.Error(t, err)
}

func TestProcessor_StoresAndDescribesCover(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	require.NoError(t, err)
	processor := NewProcessor(storage, slog.New(slog.NewTextHandler(io.Discard, nil)))

	result, err := processor.Process("book-1", testPNG(t, 120, 80))
	require.NoError(t, err)

	assert.Equal(t, 120, result.Width)
	assert.Equal(t, 80, result.Height)
	assert.NotEmpty(t, result.Hash)
	assert.NotEmpty(t, result.BlurHash)
	assert.True(t, storage.Exists("book-1"))
}

func TestProcessor_RejectsNonImageData(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	require.NoError(t, err)
	processor := NewProcessor(storage, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err = processor.Process("book-1", []byte("not an image"))
	assert.Error(t, err)
	assert.False(t, storage.Exists("book-1"))
}

func TestComputeBlurHash(t *testing.T) {
	hash, err := ComputeBlurHash(testPNG(t, 64, 64))
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	_, err = ComputeBlurHash([]byte("garbage"))
	assert.Error(t, err)
}
