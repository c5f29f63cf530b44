package upload

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog_service/internal/domain"
)

func newTestPipeline(store FileStore) *Pipeline {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewPipeline(store, Config{PublicPrefix: "/public/uploads/"}, logger)
}

func TestExtensionFor(t *testing.T) {
	cases := map[string]string{
		"image/png":  "png",
		"image/jpg":  "jpg",
		"image/jpeg": "jpeg",
	}
	for mediaType, want := range cases {
		ext, err := ExtensionFor(mediaType)
		require.NoError(t, err)
		assert.Equal(t, want, ext)
	}

	for _, mediaType := range []string{"image/gif", "text/plain", "application/pdf", ""} {
		_, err := ExtensionFor(mediaType)
		assert.ErrorIs(t, err, domain.ErrUnsupportedMediaType, mediaType)
	}
}

func TestStoredName(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	name := StoredName("red shirt.png", "png", now)
	assert.Equal(t, "red-shirt.png-1700000000000.png", name)
	assert.NotContains(t, name, " ")

	// Re-sanitizing an already sanitized base changes nothing.
	again := StoredName("red-shirt.png-1700000000000.png", "png", now)
	assert.NotContains(t, again, " ")

	tabbed := StoredName("a\tb  c.jpeg", "jpeg", now)
	assert.Equal(t, "a-b-c.jpeg-1700000000000.jpeg", tabbed)
}

type recordingStore struct {
	saved   []string
	content map[string]string
	failOn  string
}

func (s *recordingStore) Save(_ context.Context, name string, r io.Reader) error {
	if s.failOn != "" && strings.Contains(name, s.failOn) {
		return errors.New("disk full")
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return err
	}
	if s.content == nil {
		s.content = map[string]string{}
	}
	s.saved = append(s.saved, name)
	s.content[name] = buf.String()
	return nil
}

func TestIngestSingle(t *testing.T) {
	t.Run("stores the file and returns its URL", func(t *testing.T) {
		for mediaType, ext := range map[string]string{"image/png": "png", "image/jpg": "jpg", "image/jpeg": "jpeg"} {
			store := &recordingStore{}
			p := newTestPipeline(store)

			url, err := p.IngestSingle(context.Background(), &File{
				Name:      "shirt." + ext,
				MediaType: mediaType,
				Content:   strings.NewReader("bytes"),
			}, "http://localhost:3000")

			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(url, "http://localhost:3000/public/uploads/"))
			assert.True(t, strings.HasSuffix(url, "."+ext), "url %s should end in .%s", url, ext)
			require.Len(t, store.saved, 1)
			assert.Equal(t, "bytes", store.content[store.saved[0]])
		}
	})

	t.Run("rejects unsupported media type without writing", func(t *testing.T) {
		store := &recordingStore{}
		p := newTestPipeline(store)

		_, err := p.IngestSingle(context.Background(), &File{
			Name:      "doc.pdf",
			MediaType: "application/pdf",
			Content:   strings.NewReader("bytes"),
		}, "http://localhost:3000")

		assert.ErrorIs(t, err, domain.ErrUnsupportedMediaType)
		assert.Empty(t, store.saved)
	})

	t.Run("surfaces store write failures", func(t *testing.T) {
		store := &recordingStore{failOn: "broken"}
		p := newTestPipeline(store)

		_, err := p.IngestSingle(context.Background(), &File{
			Name:      "broken.png",
			MediaType: "image/png",
			Content:   strings.NewReader("bytes"),
		}, "http://localhost:3000")

		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrUnsupportedMediaType)
	})

	t.Run("fails when no file is attached", func(t *testing.T) {
		store := &recordingStore{}
		p := newTestPipeline(store)

		_, err := p.IngestSingle(context.Background(), nil, "http://localhost:3000")
		assert.ErrorIs(t, err, domain.ErrMissingFile)
		assert.Empty(t, store.saved)
	})
}

func TestIngestGallery(t *testing.T) {
	t.Run("preserves input order", func(t *testing.T) {
		store := &recordingStore{}
		p := newTestPipeline(store)

		files := []*File{
			{Name: "first.png", MediaType: "image/png", Content: strings.NewReader("1")},
			{Name: "second.jpeg", MediaType: "image/jpeg", Content: strings.NewReader("2")},
			{Name: "third.jpg", MediaType: "image/jpg", Content: strings.NewReader("3")},
		}

		urls, err := p.IngestGallery(context.Background(), files, "http://localhost:3000")
		require.NoError(t, err)
		require.Len(t, urls, 3)
		assert.Contains(t, urls[0], "first")
		assert.Contains(t, urls[1], "second")
		assert.Contains(t, urls[2], "third")
	})

	t.Run("empty input yields empty slice", func(t *testing.T) {
		p := newTestPipeline(&recordingStore{})

		urls, err := p.IngestGallery(context.Background(), nil, "http://localhost:3000")
		require.NoError(t, err)
		assert.Empty(t, urls)
		assert.NotNil(t, urls)
	})

	t.Run("keeps earlier files when a later one is rejected", func(t *testing.T) {
		store := &recordingStore{}
		p := newTestPipeline(store)

		files := []*File{
			{Name: "ok.png", MediaType: "image/png", Content: strings.NewReader("1")},
			{Name: "bad.gif", MediaType: "image/gif", Content: strings.NewReader("2")},
		}

		_, err := p.IngestGallery(context.Background(), files, "http://localhost:3000")
		assert.ErrorIs(t, err, domain.ErrUnsupportedMediaType)
		assert.Len(t, store.saved, 1)
	})
}

func TestDiskStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir + "/uploads")
	require.NoError(t, err)

	p := newTestPipeline(store)
	url, err := p.IngestSingle(context.Background(), &File{
		Name:      "cover art.png",
		MediaType: "image/png",
		Content:   strings.NewReader("png-bytes"),
	}, "http://shop.example.com")

	require.NoError(t, err)
	assert.Contains(t, url, "cover-art")
	assert.NotContains(t, url, " ")
}
