package services

import (
	"context"
	"fmt"

	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/domain"
	"github.com/comitanigiacomo/khatma-sync-engine/internal/logger"
)

// PageService moves the global page pointer and reconciles the per-surah
// ayah counts with it (Page→Ayahs). The reverse direction runs in
// workers.PageSyncWorker.
type PageService struct {
	index    domain.ScriptureIndex
	streaks  domain.StreakRepository
	progress *ProgressService
	activity *ActivityService
	sync     PageSyncScheduler
}

func NewPageService(index domain.ScriptureIndex, streaks domain.StreakRepository, progress *ProgressService, activity *ActivityService, sync PageSyncScheduler) *PageService {
	return &PageService{
		index:    index,
		streaks:  streaks,
		progress: progress,
		activity: activity,
		sync:     sync,
	}
}

func (s *PageService) suppress(userID string) {
	if s.sync != nil {
		s.sync.Suppress(userID)
	}
}

// UpdateQuranPage persists the clamped page and, when the scripture index
// answers, redistributes ayah progress up to the last verse on that page.
// Lookup failures never block the page update.
func (s *PageService) UpdateQuranPage(ctx context.Context, userID string, page int) (*domain.UserStreak, error) {
	page = domain.ClampPage(page)
	s.suppress(userID)

	before, err := s.activity.GetStreak(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.redistribute(ctx, userID, page); err != nil {
		return nil, err
	}

	if err := s.streaks.SetCurrentPage(ctx, userID, page); err != nil {
		return nil, fmt.Errorf("page service: set page: %w", err)
	}
	s.suppress(userID)

	if err := s.activity.LogActivity(ctx, userID, 0, page-before.CurrentPage); err != nil {
		return nil, err
	}

	return s.activity.GetStreak(ctx, userID)
}

func (s *PageService) redistribute(ctx context.Context, userID string, page int) error {
	verses, err := s.index.VersesOnPage(ctx, page)
	if err != nil {
		logger.Warn("Page lookup failed, keeping ayah progress", "user", userID, "page", page, "err", err)
		return nil
	}
	if len(verses) == 0 {
		logger.Warn("Page lookup returned no verses", "user", userID, "page", page)
		return nil
	}

	last := verses[len(verses)-1]

	surahs, err := s.progress.ListProgress(ctx, userID)
	if err != nil {
		return err
	}

	total := domain.CumulativeAyahs(surahs, last.SurahNumber, last.NumberInSurah)
	if _, err := s.progress.DistributeTotal(ctx, userID, total); err != nil {
		return err
	}
	return nil
}

// PageVerses returns the verses printed on page for display.
func (s *PageService) PageVerses(ctx context.Context, page int) ([]domain.Verse, error) {
	return s.index.VersesOnPage(ctx, domain.ClampPage(page))
}
