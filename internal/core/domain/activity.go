package domain

import (
	"errors"
	"time"
)

var (
	ErrDuplicateBadge = errors.New("badge already granted")
)

const (
	BadgeHalfwayThere    = "halfway_there"
	BadgeConsistencyKing = "consistency_king"
	BadgeTheSprinter     = "the_sprinter"

	// SprinterDailyAyahs is the per-day ayah count that earns BadgeTheSprinter.
	SprinterDailyAyahs = 50
)

// UserReadingLog accumulates forward progress for one user on one calendar day.
type UserReadingLog struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"-" db:"user_id"`
	Day       time.Time `json:"day" db:"day"`
	AyahsRead int       `json:"ayahs_read" db:"ayahs_read"`
	PagesRead int       `json:"pages_read" db:"pages_read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// UserBadge is append-only; at most one row exists per (user, badge key).
type UserBadge struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"-" db:"user_id"`
	BadgeKey  string    `json:"badge_key" db:"badge_key"`
	AwardedAt time.Time `json:"awarded_at" db:"awarded_at"`
}
