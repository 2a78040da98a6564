package domain

import "sort"

const (
	FirstPage = 1
	LastPage  = 604
)

func ClampPage(page int) int {
	if page < FirstPage {
		return FirstPage
	}
	if page > LastPage {
		return LastPage
	}
	return page
}

// SortSurahs orders rows by ascending surah number in place.
func SortSurahs(surahs []*SurahProgress) {
	sort.Slice(surahs, func(i, j int) bool {
		return surahs[i].Number < surahs[j].Number
	})
}

// DistributeAyahs fills surahs greedily in ascending number order, saturating
// each one before moving on. Rows are mutated in place; the returned slice
// holds only the rows whose state changed.
func DistributeAyahs(surahs []*SurahProgress, total int) []*SurahProgress {
	ordered := make([]*SurahProgress, len(surahs))
	copy(ordered, surahs)
	SortSurahs(ordered)

	remaining := max(0, total)
	var changed []*SurahProgress

	for _, s := range ordered {
		fill := min(remaining, s.NumberOfAyahs)
		remaining -= fill

		if s.CompletedAyahs == fill && s.Completed == (fill == s.NumberOfAyahs) {
			continue
		}
		s.SetCompletedAyahs(fill)
		changed = append(changed, s)
	}

	return changed
}

// CumulativeAyahs returns the number of ayahs up to and including the given
// verse: every ayah of the surahs strictly before it plus its in-surah position.
func CumulativeAyahs(surahs []*SurahProgress, surahNumber, numberInSurah int) int {
	total := 0
	for _, s := range surahs {
		if s.Number < surahNumber {
			total += s.NumberOfAyahs
		}
	}
	return total + max(0, numberInSurah)
}

// LastCompletedVerse scans surahs from the highest number down and returns the
// first one with any completed ayahs.
func LastCompletedVerse(surahs []*SurahProgress) (surahNumber, ayah int, ok bool) {
	best := -1
	for i, s := range surahs {
		if s.CompletedAyahs <= 0 {
			continue
		}
		if best == -1 || s.Number > surahs[best].Number {
			best = i
		}
	}
	if best == -1 {
		return 0, 0, false
	}
	return surahs[best].Number, surahs[best].CompletedAyahs, true
}

func TotalCompletedAyahs(surahs []*SurahProgress) int {
	total := 0
	for _, s := range surahs {
		total += s.CompletedAyahs
	}
	return total
}
