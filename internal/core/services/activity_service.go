package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/domain"
	"github.com/comitanigiacomo/khatma-sync-engine/internal/logger"
)

// ActivityService owns the side effects shared by every progress mutation:
// the login-day streak, the daily reading log and badge grants.
type ActivityService struct {
	streaks  domain.StreakRepository
	activity domain.ActivityRepository
	loc      *time.Location
	now      func() time.Time
}

func NewActivityService(streaks domain.StreakRepository, activity domain.ActivityRepository, loc *time.Location) *ActivityService {
	if loc == nil {
		loc = time.UTC
	}
	return &ActivityService{
		streaks:  streaks,
		activity: activity,
		loc:      loc,
		now:      time.Now,
	}
}

// SetClock replaces the time source.
func (s *ActivityService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *ActivityService) Today() time.Time {
	return domain.DateOnly(s.now(), s.loc)
}

// GetStreak returns the stored streak row or the defaults of a fresh one.
func (s *ActivityService) GetStreak(ctx context.Context, userID string) (*domain.UserStreak, error) {
	streak, err := s.streaks.Get(ctx, userID)
	if errors.Is(err, domain.ErrStreakNotFound) {
		return domain.NewUserStreak(userID), nil
	}
	if err != nil {
		return nil, err
	}
	return streak, nil
}

// UpdateStreak counts today as an active day.
func (s *ActivityService) UpdateStreak(ctx context.Context, userID string) (*domain.UserStreak, error) {
	streak, err := s.GetStreak(ctx, userID)
	if err != nil {
		return nil, err
	}

	outcome := streak.RecordActivity(s.Today())
	if outcome == domain.StreakUnchanged {
		return streak, nil
	}

	if err := s.streaks.SaveStreak(ctx, streak); err != nil {
		return nil, fmt.Errorf("activity service: save streak: %w", err)
	}

	if streak.EarnsConsistencyBadge(outcome) {
		if err := s.GrantBadge(ctx, userID, domain.BadgeConsistencyKing); err != nil {
			return nil, err
		}
	}

	return streak, nil
}

// PredictStreak returns what UpdateStreak would produce today without writing.
// The result is advisory; the value returned by a mutation always wins.
func (s *ActivityService) PredictStreak(ctx context.Context, userID string) (*domain.UserStreak, error) {
	streak, err := s.GetStreak(ctx, userID)
	if err != nil {
		return nil, err
	}
	streak.RecordActivity(s.Today())
	return streak, nil
}

// GrantBadge is insert-if-absent; duplicate grants are swallowed.
func (s *ActivityService) GrantBadge(ctx context.Context, userID, key string) error {
	badge := &domain.UserBadge{
		ID:        uuid.NewString(),
		UserID:    userID,
		BadgeKey:  key,
		AwardedAt: s.now().UTC(),
	}

	err := s.activity.CreateBadge(ctx, badge)
	if errors.Is(err, domain.ErrDuplicateBadge) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("activity service: grant %s: %w", key, err)
	}

	logger.Info("Badge granted", "user", userID, "badge", key)
	return nil
}

// LogActivity adds forward progress to today's reading log. Negative deltas
// are ignored.
func (s *ActivityService) LogActivity(ctx context.Context, userID string, ayahs, pages int) error {
	ayahs, pages = max(0, ayahs), max(0, pages)
	if ayahs == 0 && pages == 0 {
		return nil
	}

	entry, err := s.activity.AddToDailyLog(ctx, userID, s.Today(), ayahs, pages)
	if err != nil {
		return fmt.Errorf("activity service: log activity: %w", err)
	}

	if entry.AyahsRead >= domain.SprinterDailyAyahs {
		return s.GrantBadge(ctx, userID, domain.BadgeTheSprinter)
	}
	return nil
}

func (s *ActivityService) ListBadges(ctx context.Context, userID string) ([]domain.UserBadge, error) {
	return s.activity.ListBadges(ctx, userID)
}
