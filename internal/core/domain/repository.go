package domain

import (
	"context"
	"time"
)

type CatalogRepository interface {
	// UpsertSurahs stores the reference catalog, replacing existing entries.
	UpsertSurahs(ctx context.Context, surahs []SurahInfo) error

	ListSurahs(ctx context.Context) ([]SurahInfo, error)
}

type ProgressRepository interface {
	// InitializeUser creates a zeroed row for every catalog surah the user
	// does not have yet and returns how many were created.
	InitializeUser(ctx context.Context, userID string) (int, error)

	GetSurah(ctx context.Context, userID string, number int) (*SurahProgress, error)

	// ListByUserID returns the user's rows ordered by ascending surah number.
	ListByUserID(ctx context.Context, userID string) ([]*SurahProgress, error)

	// Update persists p if the stored version still equals p.Version, then
	// bumps p.Version. A stale version yields ErrProgressConflict.
	Update(ctx context.Context, p *SurahProgress) error

	// ResetAll zeroes every row of the user.
	ResetAll(ctx context.Context, userID string) error
}

type StreakRepository interface {
	Get(ctx context.Context, userID string) (*UserStreak, error)

	// SaveStreak upserts streak_count and last_date only.
	SaveStreak(ctx context.Context, s *UserStreak) error

	SetCurrentPage(ctx context.Context, userID string, page int) error
	SetDailyGoal(ctx context.Context, userID string, goal int) error
	SetTargetDate(ctx context.Context, userID string, date *time.Time) error

	// Reset clears the streak and moves the page pointer back to the first
	// page. Goal settings survive.
	Reset(ctx context.Context, userID string) error
}

type ActivityRepository interface {
	// AddToDailyLog upserts the (user, day) row, adds the deltas and returns
	// the row after the increment.
	AddToDailyLog(ctx context.Context, userID string, day time.Time, ayahs, pages int) (*UserReadingLog, error)

	ListLogs(ctx context.Context, userID string, from, to time.Time) ([]UserReadingLog, error)

	// CreateBadge inserts a badge row or fails with ErrDuplicateBadge.
	CreateBadge(ctx context.Context, badge *UserBadge) error

	ListBadges(ctx context.Context, userID string) ([]UserBadge, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}
