package domain

import (
	"context"
	"errors"
)

var (
	ErrExternalLookup = errors.New("scripture index lookup failed")
)

// Verse is a single ayah as located by the scripture index.
type Verse struct {
	Number        int    `json:"number"`
	SurahNumber   int    `json:"surah_number"`
	NumberInSurah int    `json:"number_in_surah"`
	Page          int    `json:"page"`
	Juz           int    `json:"juz"`
	Text          string `json:"text,omitempty"`
}

// ScriptureIndex is the read-only remote page/verse/catalog service.
// Every method may fail with an error wrapping ErrExternalLookup.
type ScriptureIndex interface {
	// VersesOnPage returns the ordered verses printed on page.
	VersesOnPage(ctx context.Context, page int) ([]Verse, error)

	// PageOfVerse returns the page containing the given verse.
	PageOfVerse(ctx context.Context, surahNumber, verseNumber int) (int, error)

	// Surahs returns the 114-entry catalog.
	Surahs(ctx context.Context) ([]SurahInfo, error)
}
