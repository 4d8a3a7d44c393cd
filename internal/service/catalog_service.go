package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/jrvillar/campus-console-api/internal/models"
	appErrors "github.com/jrvillar/campus-console-api/pkg/errors"
	"github.com/jrvillar/campus-console-api/pkg/response"
)

const (
	catalogSnapshotKey     = "catalog:snapshot"
	catalogInvalidationPat = "catalog:*"
)

type sectionCatalogReader interface {
	ListAll(ctx context.Context) ([]models.SectionRecord, error)
}

// CatalogService supplies normalized catalog snapshots to the enrollment
// engine and to admin screens. Mutating services call Invalidate after every
// write so the next snapshot is refetched instead of served stale; the cache
// TTL is a short backstop, not the consistency mechanism.
type CatalogService struct {
	sections sectionCatalogReader
	cache    *CacheService
	logger   *zap.Logger
}

// NewCatalogService constructs CatalogService.
func NewCatalogService(sections sectionCatalogReader, cache *CacheService, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{sections: sections, cache: cache, logger: logger}
}

// Snapshot returns every section in canonical form, legacy single-slot rows
// included.
func (s *CatalogService) Snapshot(ctx context.Context) ([]models.Section, error) {
	var cached []models.Section
	if hit, err := s.cache.Get(ctx, catalogSnapshotKey, &cached); err == nil && hit {
		response.SetMeta(ctx, "cache_hit", true)
		return cached, nil
	}
	response.SetMeta(ctx, "cache_hit", false)

	records, err := s.sections.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "failed to fetch catalog")
	}
	catalog := make([]models.Section, 0, len(records))
	for _, rec := range records {
		catalog = append(catalog, models.NormalizeSection(rec))
	}

	if err := s.cache.Set(ctx, catalogSnapshotKey, catalog, 0); err != nil {
		s.logger.Warn("catalog snapshot cache write failed", zap.Error(err))
	}
	return catalog, nil
}

// Invalidate drops cached snapshots after a catalog mutation.
func (s *CatalogService) Invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, catalogInvalidationPat); err != nil {
		s.logger.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}
