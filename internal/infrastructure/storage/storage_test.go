package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

func newLocal(t *testing.T) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/storage/")
	require.NoError(t, err)
	return s
}

func TestLocalStorage_PutExistsDelete(t *testing.T) {
	ctx := context.Background()
	s := newLocal(t)

	require.NoError(t, s.Put(ctx, "books/covers/a.png", []byte("x"), "image/png"))

	ok, err := s.Exists(ctx, "books/covers/a.png")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Delete(ctx, "books/covers/a.png"))
	ok, err = s.Exists(ctx, "books/covers/a.png")
	require.NoError(t, err)
	assert.False(t, ok)

	// Missing files are not an error.
	assert.NoError(t, s.Delete(ctx, "books/covers/a.png"))
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	s := newLocal(t)
	err := s.Put(context.Background(), "../outside.txt", []byte("x"), "text/plain")
	assert.Error(t, err)
}

func TestLocalStorage_List(t *testing.T) {
	ctx := context.Background()
	s := newLocal(t)

	require.NoError(t, s.Put(ctx, "books/covers/a.png", []byte("a"), "image/png"))
	require.NoError(t, s.Put(ctx, "books/previews/b.pdf", []byte("bb"), "application/pdf"))

	objects, err := s.List(ctx, "books/covers")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "books/covers/a.png", objects[0].Key)
	assert.Equal(t, int64(1), objects[0].Size)
	assert.False(t, objects[0].LastModified.IsZero())

	objects, err = s.List(ctx, "books/missing")
	require.NoError(t, err)
	assert.Empty(t, objects)
}

func TestLocalStorage_URL(t *testing.T) {
	s := newLocal(t)
	assert.Equal(t, "http://localhost:8080/storage/books/covers/a.png", s.URL("books/covers/a.png"))
}

func TestMediaStore_StoreUsesGeneratedName(t *testing.T) {
	ctx := context.Background()
	s := newLocal(t)
	m := NewMediaStore(s)

	p1, err := m.Store(ctx, &Upload{Filename: "My Cover.PNG", ContentType: "image/png", Data: []byte("a")}, BucketCovers)
	require.NoError(t, err)
	p2, err := m.Store(ctx, &Upload{Filename: "My Cover.PNG", ContentType: "image/png", Data: []byte("a")}, BucketCovers)
	require.NoError(t, err)

	assert.NotEqual(t, p1, p2)
	assert.True(t, strings.HasPrefix(p1, "books/covers/"))
	assert.True(t, strings.HasSuffix(p1, ".png"))
	assert.NotContains(t, p1, "My Cover")

	ok, err := m.Exists(ctx, p1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUpload_ExtFollowsSniffedType(t *testing.T) {
	cases := []struct {
		name     string
		upload   Upload
		expected string
	}{
		{"matching name", Upload{Filename: "cover.PNG", ContentType: "image/png"}, ".png"},
		{"jpeg alias kept", Upload{Filename: "cover.jpeg", ContentType: "image/jpeg"}, ".jpeg"},
		{"misleading name", Upload{Filename: "cover.html", ContentType: "image/png"}, ".png"},
		{"no extension", Upload{Filename: "cover", ContentType: "application/pdf"}, ".pdf"},
		{"no content type", Upload{Filename: "notes.txt"}, ".txt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.upload.Ext())
		})
	}
}

func TestMediaStore_StoresCoverUnderSniffedExtension(t *testing.T) {
	ctx := context.Background()
	m := NewMediaStore(newLocal(t))
	v := NewUploadValidator(2048, 100, 10240)

	cover, err := v.Cover(&Upload{Filename: "cover.html", ContentType: "text/html", Data: pngBytes(t, 20, 20)})
	require.NoError(t, err)

	p, err := m.Store(ctx, cover, BucketCovers)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(p, ".png"), p)
}

func TestMediaStore_DeleteIgnoresEmptyAndMissing(t *testing.T) {
	m := NewMediaStore(newLocal(t))
	assert.NoError(t, m.Delete(context.Background(), ""))
	assert.NoError(t, m.Delete(context.Background(), "books/covers/nope.jpg"))
	assert.Equal(t, "", m.URL(""))
}

func TestUploadValidator_Cover(t *testing.T) {
	v := NewUploadValidator(2048, 100, 10240)

	t.Run("accepts png", func(t *testing.T) {
		out, err := v.Cover(&Upload{Filename: "c.png", Data: pngBytes(t, 40, 60)})
		require.NoError(t, err)
		assert.Equal(t, "image/png", out.ContentType)
	})

	t.Run("downscales large image", func(t *testing.T) {
		out, err := v.Cover(&Upload{Filename: "c.png", Data: pngBytes(t, 400, 200)})
		require.NoError(t, err)

		cfg, _, err := image.DecodeConfig(bytes.NewReader(out.Data))
		require.NoError(t, err)
		assert.Equal(t, 100, cfg.Width)
		assert.Equal(t, 50, cfg.Height)
	})

	t.Run("rejects pdf", func(t *testing.T) {
		_, err := v.Cover(&Upload{Filename: "c.png", Data: pdfBytes})
		var ue *UploadError
		require.ErrorAs(t, err, &ue)
		assert.Equal(t, "must be a file of type: jpeg, png, gif", ue.Message)
	})

	t.Run("rejects oversized", func(t *testing.T) {
		small := NewUploadValidator(1, 2000, 1)
		_, err := small.Cover(&Upload{Filename: "c.png", Data: make([]byte, 2048)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 kilobytes")
	})
}

func TestUploadValidator_Preview(t *testing.T) {
	v := NewUploadValidator(2048, 2000, 10240)

	out, err := v.Preview(&Upload{Filename: "p.pdf", Data: pdfBytes})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", out.ContentType)

	_, err = v.Preview(&Upload{Filename: "p.pdf", Data: pngBytes(t, 2, 2)})
	assert.Error(t, err)
}
