package domain

import (
	"errors"
	"time"
)

var (
	ErrStreakNotFound = errors.New("user streak not found")
)

const (
	DefaultDailyGoal = 20
	MinDailyGoal     = 20
	MaxDailyGoal     = 180

	// ConsistencyStreakDays is the streak length that earns BadgeConsistencyKing.
	ConsistencyStreakDays = 7
)

type StreakOutcome int

const (
	StreakUnchanged StreakOutcome = iota
	StreakExtended
	StreakStarted
)

// UserStreak is the per-user singleton holding the streak, the reading page
// pointer and the Ramadan goal settings.
type UserStreak struct {
	UserID      string     `json:"-" db:"user_id"`
	StreakCount int        `json:"streak_count" db:"streak_count"`
	LastDate    *time.Time `json:"last_date,omitempty" db:"last_date"`
	CurrentPage int        `json:"current_page" db:"current_page"`
	DailyGoal   int        `json:"daily_goal" db:"daily_goal"`
	TargetDate  *time.Time `json:"target_date,omitempty" db:"target_date"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

func NewUserStreak(userID string) *UserStreak {
	return &UserStreak{
		UserID:      userID,
		CurrentPage: FirstPage,
		DailyGoal:   DefaultDailyGoal,
		UpdatedAt:   time.Now().UTC(),
	}
}

// DateOnly truncates t to midnight in loc.
func DateOnly(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// NextStreak computes the streak after a qualifying activity on today.
// Both dates are compared by calendar day in today's location.
func NextStreak(today time.Time, lastDate *time.Time, count int) (int, StreakOutcome) {
	today = DateOnly(today, today.Location())

	if lastDate == nil {
		return 1, StreakStarted
	}

	// last_date is a calendar day; keep its components regardless of the
	// location it was scanned in.
	y, m, d := lastDate.Date()
	last := time.Date(y, m, d, 0, 0, 0, 0, today.Location())

	switch {
	case sameDay(last, today):
		return count, StreakUnchanged
	case sameDay(last.AddDate(0, 0, 1), today):
		return count + 1, StreakExtended
	default:
		return 1, StreakStarted
	}
}

// RecordActivity applies NextStreak to s.
func (s *UserStreak) RecordActivity(today time.Time) StreakOutcome {
	next, outcome := NextStreak(today, s.LastDate, s.StreakCount)
	if outcome == StreakUnchanged {
		return outcome
	}

	day := DateOnly(today, today.Location())
	s.StreakCount = next
	s.LastDate = &day
	s.UpdatedAt = time.Now().UTC()
	return outcome
}

// EarnsConsistencyBadge reports whether outcome pushed the streak onto the
// consistency milestone.
func (s *UserStreak) EarnsConsistencyBadge(outcome StreakOutcome) bool {
	return outcome == StreakExtended && s.StreakCount == ConsistencyStreakDays
}

func ClampDailyGoal(pages int) int {
	if pages < MinDailyGoal {
		return MinDailyGoal
	}
	if pages > MaxDailyGoal {
		return MaxDailyGoal
	}
	return pages
}
