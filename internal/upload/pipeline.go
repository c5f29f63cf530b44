package upload

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"catalog_service/internal/domain"
)

// File is a single uploaded file as seen by the pipeline: the declared
// metadata plus the byte stream. It is consumed once and not retained.
type File struct {
	Name      string
	MediaType string
	Content   io.Reader
}

// Config carries the pipeline's explicit configuration; there is no
// ambient upload-directory or URL state.
type Config struct {
	// PublicPrefix is the mount point under which stored files are served,
	// e.g. "/public/uploads/".
	PublicPrefix string
}

// Pipeline validates, names and stores uploaded images, producing publicly
// resolvable URLs of the form baseURL + PublicPrefix + storedName.
type Pipeline struct {
	store FileStore
	cfg   Config
	log   *logrus.Logger
	now   func() time.Time
}

func NewPipeline(store FileStore, cfg Config, logger *logrus.Logger) *Pipeline {
	return &Pipeline{
		store: store,
		cfg:   cfg,
		log:   logger,
		now:   time.Now,
	}
}

// IngestSingle runs the validate, name, store sequence for one file and
// returns its URL. Nothing is written when validation fails.
func (p *Pipeline) IngestSingle(ctx context.Context, f *File, baseURL string) (string, error) {
	if f == nil {
		p.log.Warn("Ingest: no file attached to the request")
		return "", domain.ErrMissingFile
	}

	ext, err := ExtensionFor(f.MediaType)
	if err != nil {
		p.log.Warnf("Ingest: rejected file '%s': %v", f.Name, err)
		return "", err
	}

	stored := StoredName(f.Name, ext, p.now())
	if err := p.store.Save(ctx, stored, f.Content); err != nil {
		p.log.Errorf("Ingest: failed to store file '%s' as '%s': %v", f.Name, stored, err)
		return "", fmt.Errorf("could not store uploaded file: %w", err)
	}

	url := baseURL + p.cfg.PublicPrefix + stored
	p.log.Infof("Ingest: stored '%s' as '%s'", f.Name, stored)
	return url, nil
}

// IngestGallery ingests each file in order and returns one URL per file.
// An empty input yields an empty slice. Files already written stay on disk
// when a later file in the batch fails; the caller sees the error and no
// URLs. The count bound is enforced by the HTTP binding, not here.
func (p *Pipeline) IngestGallery(ctx context.Context, files []*File, baseURL string) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, f := range files {
		url, err := p.IngestSingle(ctx, f, baseURL)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}
