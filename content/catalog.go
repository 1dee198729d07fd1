package content

import (
	"context"
	"edunova/common"
	"edunova/models"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Loader fetches the raw record sets. source.Fixture and source.Client implement it.
type Loader interface {
	Documents(ctx context.Context) ([]models.Document, error)
	Videos(ctx context.Context) ([]models.Video, error)
}

// Catalog memoizes each raw record set after its first successful load and
// filters it on every call. Failed loads are not cached, so a later call retries.
type Catalog struct {
	loader Loader
	logger *zap.Logger

	mu        sync.Mutex
	documents []models.Document
	videos    []models.Video
	docsOK    bool
	videosOK  bool
}

func NewCatalog(loader Loader, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{loader: loader, logger: logger}
}

// Documents returns the documents matching f.
func (c *Catalog) Documents(ctx context.Context, f Filter) ([]models.Document, error) {
	all, err := c.allDocuments(ctx)
	if err != nil {
		return nil, err
	}
	return Query(all, f), nil
}

// Videos returns the videos matching f. Filter.Type is ignored for videos.
func (c *Catalog) Videos(ctx context.Context, f Filter) ([]models.Video, error) {
	all, err := c.allVideos(ctx)
	if err != nil {
		return nil, err
	}
	return Query(all, f), nil
}

// Document looks up one document by ID.
func (c *Catalog) Document(ctx context.Context, id int) (models.Document, error) {
	all, err := c.allDocuments(ctx)
	if err != nil {
		return models.Document{}, err
	}
	for _, d := range all {
		if d.ID == id {
			return d, nil
		}
	}
	return models.Document{}, fmt.Errorf("document %d: %w", id, common.ErrNotFound)
}

// Video looks up one video by ID.
func (c *Catalog) Video(ctx context.Context, id int) (models.Video, error) {
	all, err := c.allVideos(ctx)
	if err != nil {
		return models.Video{}, err
	}
	for _, v := range all {
		if v.ID == id {
			return v, nil
		}
	}
	return models.Video{}, fmt.Errorf("video %d: %w", id, common.ErrNotFound)
}

// Facets lists the distinct subjects and levels across documents and videos, sorted.
func (c *Catalog) Facets(ctx context.Context) (subjects, levels []string, err error) {
	docs, err := c.allDocuments(ctx)
	if err != nil {
		return nil, nil, err
	}
	videos, err := c.allVideos(ctx)
	if err != nil {
		return nil, nil, err
	}

	subjectSet := make(map[string]struct{})
	levelSet := make(map[string]struct{})
	collect := func(f models.ContentFacets) {
		if f.Subject != "" {
			subjectSet[f.Subject] = struct{}{}
		}
		if f.Level != "" {
			levelSet[f.Level] = struct{}{}
		}
	}
	for _, d := range docs {
		collect(d.Facets())
	}
	for _, v := range videos {
		collect(v.Facets())
	}
	return sortedKeys(subjectSet), sortedKeys(levelSet), nil
}

// Invalidate drops both cached record sets.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.documents, c.docsOK = nil, false
	c.videos, c.videosOK = nil, false
}

func (c *Catalog) allDocuments(ctx context.Context) ([]models.Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.docsOK {
		return c.documents, nil
	}
	docs, err := c.loader.Documents(ctx)
	if err != nil {
		c.logger.Warn("failed to load documents", zap.Error(err))
		return nil, wrapUnavailable("documents", err)
	}
	c.documents, c.docsOK = docs, true
	c.logger.Debug("documents loaded", zap.Int("count", len(docs)))
	return c.documents, nil
}

func (c *Catalog) allVideos(ctx context.Context) ([]models.Video, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.videosOK {
		return c.videos, nil
	}
	videos, err := c.loader.Videos(ctx)
	if err != nil {
		c.logger.Warn("failed to load videos", zap.Error(err))
		return nil, wrapUnavailable("videos", err)
	}
	c.videos, c.videosOK = videos, true
	c.logger.Debug("videos loaded", zap.Int("count", len(videos)))
	return c.videos, nil
}

func wrapUnavailable(resource string, err error) error {
	if errors.Is(err, common.ErrDataSourceUnavailable) {
		return err
	}
	return fmt.Errorf("%s: %w: %v", resource, common.ErrDataSourceUnavailable, err)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
