// Package fs reads offer documents from a local directory.
package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/perkdex/internal/domain"
	"github.com/kailas-cloud/perkdex/internal/domain/ingest"
)

// DefaultWorkers is the read pool size when Config.Workers is unset.
const DefaultWorkers = 4

// DefaultExtensions are read when Config.Extensions is empty.
var DefaultExtensions = []string{".txt", ".pdf"}

// readers maps extensions that need a text extractor. Any other configured
// extension is read as plain text.
var readers = map[string]func(path string) (string, error){
	".pdf": extractPDF,
}

// unsupportedFormats are binary offer formats we recognise but cannot extract
// text from. Listing one in Config.Extensions yields ErrUnsupportedFormat.
var unsupportedFormats = map[string]struct{}{
	".doc":  {},
	".docx": {},
	".rtf":  {},
}

// Config describes where documents live and which files count as documents.
type Config struct {
	Dir        string
	Extensions []string
	Workers    int
}

// Source lists a directory and reads matching files with a bounded worker pool.
type Source struct {
	dir        string
	extensions map[string]struct{}
	workers    int
	logger     *zap.Logger
}

// New creates a filesystem source. Extensions are matched case-insensitively
// and default to DefaultExtensions.
func New(cfg Config, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	exts := cfg.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	set := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		e = strings.ToLower(e)
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		set[e] = struct{}{}
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Source{dir: cfg.Dir, extensions: set, workers: workers, logger: logger}
}

// Dir returns the watched directory.
func (s *Source) Dir() string { return s.dir }

// Relevant reports whether a file name would be picked up by Load.
func (s *Source) Relevant(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	_, ok := s.extensions[strings.ToLower(filepath.Ext(base))]
	return ok
}

// Load reads every relevant file in the directory. Results are sorted by file
// name; a file that cannot be read carries its error instead of text.
func (s *Source) Load(ctx context.Context) ([]ingest.RawDocument, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w: %w", s.dir, domain.ErrSourceUnavailable, err)
	}

	var docs []ingest.RawDocument
	for _, e := range entries {
		if e.IsDir() || !s.Relevant(e.Name()) {
			continue
		}
		docs = append(docs, ingest.RawDocument{ID: e.Name()})
	}
	if len(docs) == 0 {
		return docs, nil
	}

	pool, err := ants.NewPool(min(s.workers, len(docs)))
	if err != nil {
		return nil, fmt.Errorf("create read pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := range docs {
		d := &docs[i]
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			d.Text, d.Err = s.read(ctx, d.ID)
		})
		if submitErr != nil {
			wg.Done()
			d.Err = domain.NewSourceError(d.ID, fmt.Errorf("%w: %w", domain.ErrUnreadableSource, submitErr))
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load %s: %w", s.dir, err)
	}

	s.logger.Debug("Source listed", zap.String("dir", s.dir), zap.Int("documents", len(docs)))
	return docs, nil
}

func (s *Source) read(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := unsupportedFormats[ext]; ok {
		return "", domain.NewSourceError(name, domain.ErrUnsupportedFormat)
	}

	path := filepath.Join(s.dir, name)
	if extract, ok := readers[ext]; ok {
		text, err := extract(path)
		if err != nil {
			s.logger.Warn("Text extraction failed", zap.String("file", name), zap.Error(err))
			return "", domain.NewSourceError(name, fmt.Errorf("%w: %w", domain.ErrUnreadableSource, err))
		}
		return strings.ToValidUTF8(text, ""), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("File vanished before read", zap.String("file", name))
		}
		return "", domain.NewSourceError(name, fmt.Errorf("%w: %w", domain.ErrUnreadableSource, err))
	}
	return strings.ToValidUTF8(string(data), ""), nil
}
