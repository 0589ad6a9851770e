package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/descheck/internal/core/domain"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestLoadFile_Image(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cat.png")
	data := pngBytes(t, 3, 2)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	input, err := LoadFile(path, "a cat")

	require.NoError(t, err)
	assert.Equal(t, domain.SourceFile, input.Kind)
	assert.Equal(t, "image/png", input.MediaType)
	assert.Equal(t, int64(len(data)), input.Size)
	assert.Equal(t, data, input.Data)
	assert.Equal(t, path, input.FileName)
	assert.Equal(t, "a cat", input.Text)
}

func TestLoadFile_TypeFromContentNotExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.png")
	require.NoError(t, os.WriteFile(path, []byte("just some text"), 0o600))

	input, err := LoadFile(path, "")

	require.NoError(t, err)
	assert.Equal(t, "text/plain", input.MediaType)
}

func TestLoadFile_Oversized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.png")
	data := append(pngBytes(t, 1, 1), make([]byte, domain.MaxContentSize)...)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	input, err := LoadFile(path, "")

	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), input.Size)
	assert.Len(t, input.Data, sniffLen)
	assert.Equal(t, "image/png", input.MediaType)
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.png"), "")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadFile(dir, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoadFile_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.png")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	input, err := LoadFile(path, "")

	require.NoError(t, err)
	assert.Empty(t, input.Data)
	assert.Empty(t, input.MediaType)
}

func TestResolve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cat.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t, 2, 2), 0o600))

	tests := []struct {
		name     string
		ref      string
		wantKind domain.SourceKind
		wantLoc  string
	}{
		{"empty", "  ", domain.SourceFile, ""},
		{"https url", "https://example.com/cat.png", domain.SourceURL, "https://example.com/cat.png"},
		{"upper-case scheme", "HTTP://example.com/a.jpg", domain.SourceURL, "HTTP://example.com/a.jpg"},
		{"local file", path, domain.SourceFile, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, err := Resolve(tt.ref, "a cat")

			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, input.Kind)
			assert.Equal(t, tt.wantLoc, input.Location)
			assert.Equal(t, "a cat", input.Text)
		})
	}
}

func TestResolve_MissingFile(t *testing.T) {
	_, err := Resolve(filepath.Join(t.TempDir(), "nope.png"), "")

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestHTTPFetcher(t *testing.T) {
	img := pngBytes(t, 2, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			_, _ = w.Write(img)
		case "/page":
			_, _ = io.WriteString(w, "<html><body>hello</body></html>")
		case "/empty":
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	f := NewHTTPFetcher(nil)

	t.Run("image", func(t *testing.T) {
		rc, err := f.Fetch(context.Background(), srv.URL+"/ok.png")
		require.NoError(t, err)
		defer rc.Close()
		got, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, img, got)
	})

	t.Run("not an image", func(t *testing.T) {
		_, err := f.Fetch(context.Background(), srv.URL+"/page")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := f.Fetch(context.Background(), srv.URL+"/missing")
		var rerr *domain.RemoteError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, http.StatusNotFound, rerr.StatusCode)
	})

	t.Run("empty body", func(t *testing.T) {
		rc, err := f.Fetch(context.Background(), srv.URL+"/empty")
		require.NoError(t, err)
		defer rc.Close()
		got, _ := io.ReadAll(rc)
		assert.Empty(t, got)
	})
}

func TestInspector(t *testing.T) {
	preview, err := Inspector{}.Inspect(bytes.NewReader(pngBytes(t, 7, 5)))

	require.NoError(t, err)
	assert.Equal(t, &domain.Preview{Format: "png", Width: 7, Height: 5}, preview)

	_, err = Inspector{}.Inspect(bytes.NewReader([]byte("nope")))
	assert.Error(t, err)
}
