package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrSurahNotFound      = errors.New("surah progress not found")
	ErrInvalidSurahNumber = errors.New("invalid surah number (must be 1-114)")
	ErrProgressConflict   = errors.New("surah progress version conflict")
)

const (
	SurahCount = 114

	// HalfwaySurah is the conventional halfway point of the scripture.
	HalfwaySurah = 18
)

// SurahInfo is one entry of the fixed 114-surah reference catalog.
type SurahInfo struct {
	Number                 int    `json:"number" db:"number"`
	Name                   string `json:"name" db:"name"`
	EnglishName            string `json:"english_name" db:"english_name"`
	EnglishNameTranslation string `json:"english_name_translation" db:"english_name_translation"`
	NumberOfAyahs          int    `json:"number_of_ayahs" db:"number_of_ayahs"`
	RevelationType         string `json:"revelation_type" db:"revelation_type"`
}

// SurahProgress is a user's completion state for a single surah.
type SurahProgress struct {
	UserID         string    `json:"-" db:"user_id"`
	Number         int       `json:"number" db:"number"`
	EnglishName    string    `json:"english_name" db:"english_name"`
	NumberOfAyahs  int       `json:"number_of_ayahs" db:"number_of_ayahs"`
	CompletedAyahs int       `json:"completed_ayahs" db:"completed_ayahs"`
	Completed      bool      `json:"completed" db:"completed"`
	Version        int       `json:"version" db:"version"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

func ValidSurahNumber(n int) bool {
	return n >= 1 && n <= SurahCount
}

func NewSurahProgress(userID string, info SurahInfo) *SurahProgress {
	return &SurahProgress{
		UserID:        userID,
		Number:        info.Number,
		EnglishName:   info.EnglishName,
		NumberOfAyahs: info.NumberOfAyahs,
		Version:       1,
		UpdatedAt:     time.Now().UTC(),
	}
}

func (p *SurahProgress) clampAyahs(count int) int {
	if count < 0 {
		return 0
	}
	if count > p.NumberOfAyahs {
		return p.NumberOfAyahs
	}
	return count
}

func (p *SurahProgress) set(count int) {
	p.CompletedAyahs = count
	p.Completed = count == p.NumberOfAyahs
	p.UpdatedAt = time.Now().UTC()
}

// MarkDone saturates the surah and returns how many ayahs were added.
func (p *SurahProgress) MarkDone() int {
	added := p.NumberOfAyahs - p.CompletedAyahs
	p.set(p.NumberOfAyahs)
	return added
}

func (p *SurahProgress) MarkUndone() {
	p.CompletedAyahs = 0
	p.Completed = false
	p.UpdatedAt = time.Now().UTC()
}

// Increment is a no-op at saturation.
func (p *SurahProgress) Increment() bool {
	if p.CompletedAyahs >= p.NumberOfAyahs {
		return false
	}
	p.set(p.CompletedAyahs + 1)
	return true
}

// Decrement is a no-op at zero. A decrement never leaves the surah completed.
func (p *SurahProgress) Decrement() bool {
	if p.CompletedAyahs <= 0 {
		return false
	}
	p.CompletedAyahs--
	p.Completed = false
	p.UpdatedAt = time.Now().UTC()
	return true
}

// SetCompletedAyahs clamps count into [0, NumberOfAyahs] and returns the
// signed difference from the previous value.
func (p *SurahProgress) SetCompletedAyahs(count int) int {
	clamped := p.clampAyahs(count)
	delta := clamped - p.CompletedAyahs
	p.set(clamped)
	return delta
}

func (p *SurahProgress) Validate() error {
	if !ValidSurahNumber(p.Number) {
		return ErrInvalidSurahNumber
	}
	if p.CompletedAyahs < 0 || p.CompletedAyahs > p.NumberOfAyahs {
		return fmt.Errorf("surah %d: completed ayahs %d out of range [0, %d]", p.Number, p.CompletedAyahs, p.NumberOfAyahs)
	}
	if p.Completed != (p.CompletedAyahs == p.NumberOfAyahs) {
		return fmt.Errorf("surah %d: completed flag out of sync with ayah count", p.Number)
	}
	return nil
}
