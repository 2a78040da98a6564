package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/domain"
)

const (
	maxMutationAttempts = 3
	distributeWorkers   = 8
)

// PageSyncScheduler drives the Ayahs→Page reconciliation direction.
type PageSyncScheduler interface {
	// Enqueue requests a debounced page recomputation after an ayah mutation.
	Enqueue(userID string)

	// Suppress blocks Enqueue for a short window while a Page→Ayahs update
	// is in flight and discards lookups already running.
	Suppress(userID string)
}

// ProgressService implements the surah mutation operations. Every operation
// keeps the per-surah invariants and fires the streak, log and badge side
// effects through ActivityService.
type ProgressService struct {
	repo     domain.ProgressRepository
	streaks  domain.StreakRepository
	activity *ActivityService
	sync     PageSyncScheduler
}

func NewProgressService(repo domain.ProgressRepository, streaks domain.StreakRepository, activity *ActivityService, sync PageSyncScheduler) *ProgressService {
	return &ProgressService{
		repo:     repo,
		streaks:  streaks,
		activity: activity,
		sync:     sync,
	}
}

func (s *ProgressService) enqueueSync(userID string) {
	if s.sync != nil {
		s.sync.Enqueue(userID)
	}
}

// mutate runs read → apply → conditional write, re-reading on a version
// conflict. apply returns false when there is nothing to write.
func (s *ProgressService) mutate(ctx context.Context, userID string, number int, apply func(p *domain.SurahProgress) bool) (*domain.SurahProgress, bool, error) {
	if !domain.ValidSurahNumber(number) {
		return nil, false, domain.ErrInvalidSurahNumber
	}

	for attempt := 0; attempt < maxMutationAttempts; attempt++ {
		p, err := s.repo.GetSurah(ctx, userID, number)
		if err != nil {
			return nil, false, err
		}

		if !apply(p) {
			return p, false, nil
		}

		err = s.repo.Update(ctx, p)
		if errors.Is(err, domain.ErrProgressConflict) {
			continue
		}
		if err != nil {
			return nil, false, err
		}
		return p, true, nil
	}

	return nil, false, fmt.Errorf("%w: surah %d after %d attempts", domain.ErrProgressConflict, number, maxMutationAttempts)
}

// recordProgress logs forward progress and grants the halfway badge when the
// caller reports that the step reached it.
func (s *ProgressService) recordProgress(ctx context.Context, userID string, added int, halfway bool) error {
	if added <= 0 {
		return nil
	}
	if err := s.activity.LogActivity(ctx, userID, added, 0); err != nil {
		return err
	}
	if halfway {
		return s.activity.GrantBadge(ctx, userID, domain.BadgeHalfwayThere)
	}
	return nil
}

func (s *ProgressService) afterMutation(ctx context.Context, userID string) error {
	if _, err := s.activity.UpdateStreak(ctx, userID); err != nil {
		return err
	}
	s.enqueueSync(userID)
	return nil
}

func (s *ProgressService) ListProgress(ctx context.Context, userID string) ([]*domain.SurahProgress, error) {
	return s.repo.ListByUserID(ctx, userID)
}

func (s *ProgressService) InitializeUser(ctx context.Context, userID string) ([]*domain.SurahProgress, error) {
	if _, err := s.repo.InitializeUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("progress service: initialize: %w", err)
	}
	return s.repo.ListByUserID(ctx, userID)
}

func (s *ProgressService) MarkDone(ctx context.Context, userID string, number int) (*domain.SurahProgress, error) {
	var added int
	p, _, err := s.mutate(ctx, userID, number, func(p *domain.SurahProgress) bool {
		wasCompleted := p.Completed
		added = p.MarkDone()
		return added != 0 || !wasCompleted
	})
	if err != nil {
		return nil, err
	}

	if err := s.recordProgress(ctx, userID, added, p.Number == domain.HalfwaySurah); err != nil {
		return nil, err
	}
	if err := s.afterMutation(ctx, userID); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProgressService) MarkUndone(ctx context.Context, userID string, number int) (*domain.SurahProgress, error) {
	p, changed, err := s.mutate(ctx, userID, number, func(p *domain.SurahProgress) bool {
		changed := p.CompletedAyahs != 0 || p.Completed
		p.MarkUndone()
		return changed
	})
	if err != nil {
		return nil, err
	}

	if !changed {
		return p, nil
	}

	if err := s.afterMutation(ctx, userID); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProgressService) IncrementAyahs(ctx context.Context, userID string, number int) (*domain.SurahProgress, error) {
	p, changed, err := s.mutate(ctx, userID, number, func(p *domain.SurahProgress) bool {
		return p.Increment()
	})
	if err != nil {
		return nil, err
	}
	if !changed {
		return p, nil
	}

	if err := s.recordProgress(ctx, userID, 1, p.Number == domain.HalfwaySurah && p.Completed); err != nil {
		return nil, err
	}
	if err := s.afterMutation(ctx, userID); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProgressService) DecrementAyahs(ctx context.Context, userID string, number int) (*domain.SurahProgress, error) {
	p, changed, err := s.mutate(ctx, userID, number, func(p *domain.SurahProgress) bool {
		return p.Decrement()
	})
	if err != nil {
		return nil, err
	}
	if !changed {
		return p, nil
	}

	if err := s.afterMutation(ctx, userID); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProgressService) SetAyahs(ctx context.Context, userID string, number, count int) (*domain.SurahProgress, error) {
	var delta int
	p, _, err := s.mutate(ctx, userID, number, func(p *domain.SurahProgress) bool {
		wasCompleted := p.Completed
		delta = p.SetCompletedAyahs(count)
		return delta != 0 || wasCompleted != p.Completed
	})
	if err != nil {
		return nil, err
	}

	if err := s.recordProgress(ctx, userID, delta, p.Number == domain.HalfwaySurah); err != nil {
		return nil, err
	}
	if err := s.afterMutation(ctx, userID); err != nil {
		return nil, err
	}
	return p, nil
}

// ResetAll zeroes every surah and the streak and moves the page pointer back
// to the first page. Reading logs and badges are permanent.
func (s *ProgressService) ResetAll(ctx context.Context, userID string) ([]*domain.SurahProgress, error) {
	if err := s.repo.ResetAll(ctx, userID); err != nil {
		return nil, fmt.Errorf("progress service: reset surahs: %w", err)
	}
	if err := s.streaks.Reset(ctx, userID); err != nil {
		return nil, fmt.Errorf("progress service: reset streak: %w", err)
	}
	return s.repo.ListByUserID(ctx, userID)
}

// DistributeTotal fills surahs left to right from a single absolute ayah
// count. The list only supplies surah lengths; every row is compared with its
// stored state before writing. Rows are written independently and
// concurrently; an interrupted run leaves every row valid on its own while the
// aggregate may fall short.
func (s *ProgressService) DistributeTotal(ctx context.Context, userID string, total int) ([]*domain.SurahProgress, error) {
	surahs, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	domain.DistributeAyahs(surahs, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(distributeWorkers)

	for _, row := range surahs {
		row := row
		g.Go(func() error {
			target := row.CompletedAyahs
			saved, _, err := s.mutate(gctx, userID, row.Number, func(p *domain.SurahProgress) bool {
				wasCompleted := p.Completed
				return p.SetCompletedAyahs(target) != 0 || wasCompleted != p.Completed
			})
			if err != nil {
				return fmt.Errorf("surah %d: %w", row.Number, err)
			}
			*row = *saved
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("progress service: distribute total: %w", err)
	}

	if err := s.afterMutation(ctx, userID); err != nil {
		return nil, err
	}
	return surahs, nil
}
