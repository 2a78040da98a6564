package services

import (
	"context"
	"fmt"

	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/domain"
	"github.com/comitanigiacomo/khatma-sync-engine/internal/logger"
)

// CatalogService copies the 114-surah reference catalog from the scripture
// index into the store.
type CatalogService struct {
	index domain.ScriptureIndex
	repo  domain.CatalogRepository
}

func NewCatalogService(index domain.ScriptureIndex, repo domain.CatalogRepository) *CatalogService {
	return &CatalogService{index: index, repo: repo}
}

func (s *CatalogService) Seed(ctx context.Context) (int, error) {
	surahs, err := s.index.Surahs(ctx)
	if err != nil {
		return 0, fmt.Errorf("catalog service: fetch: %w", err)
	}

	if len(surahs) != domain.SurahCount {
		return 0, fmt.Errorf("%w: catalog has %d surahs, want %d", domain.ErrExternalLookup, len(surahs), domain.SurahCount)
	}

	for _, sr := range surahs {
		if !domain.ValidSurahNumber(sr.Number) || sr.NumberOfAyahs <= 0 {
			return 0, fmt.Errorf("%w: malformed catalog entry %d", domain.ErrExternalLookup, sr.Number)
		}
	}

	if err := s.repo.UpsertSurahs(ctx, surahs); err != nil {
		return 0, fmt.Errorf("catalog service: store: %w", err)
	}

	logger.Info("Surah catalog seeded", "surahs", len(surahs))
	return len(surahs), nil
}
