package domain

import (
	"context"
	"math"
	"time"
)

const (
	RamadanDays    = 30
	DailyPrayers   = 5
	MaxKhatmas     = 9
	PagesPerKhatma = 20
)

// Khatma is one row of the goal table: completing the scripture Khatmas times
// during the month.
type Khatma struct {
	Khatmas        int    `json:"khatmas"`
	Label          string `json:"label"`
	PagesPerPrayer int    `json:"pages_per_prayer"`
	PagesPerDay    int    `json:"pages_per_day"`
}

var khatmaLabels = [MaxKhatmas]string{
	"ختمة", "ختمتين", "ثلاث ختمات", "اربع ختمات", "خمس ختمات",
	"سته ختمات", "سبعة ختمات", "ثمانية ختمات", "تسعة ختمات",
}

func KhatmaTable() []Khatma {
	table := make([]Khatma, 0, MaxKhatmas)
	for k := 1; k <= MaxKhatmas; k++ {
		table = append(table, Khatma{
			Khatmas:        k,
			Label:          khatmaLabels[k-1],
			PagesPerPrayer: k * PagesPerKhatma / DailyPrayers,
			PagesPerDay:    k * PagesPerKhatma,
		})
	}
	return table
}

// KhatmaForGoal returns the table row matching a daily goal, if any.
func KhatmaForGoal(pagesPerDay int) (Khatma, bool) {
	for _, k := range KhatmaTable() {
		if k.PagesPerDay == pagesPerDay {
			return k, true
		}
	}
	return Khatma{}, false
}

// RamadanDay is 0 before the month starts, otherwise the 1-based day capped at 30.
func RamadanDay(today, start time.Time) int {
	ty, tm, td := today.Date()
	sy, sm, sd := start.Date()
	t := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	s := time.Date(sy, sm, sd, 0, 0, 0, 0, time.UTC)

	diff := int(t.Sub(s).Hours() / 24)
	if diff < 0 {
		return 0
	}
	return min(max(diff+1, 1), RamadanDays)
}

func TodayTargetPage(day, dailyGoal int) int {
	return min(day*dailyGoal, LastPage)
}

type RamadanOverview struct {
	Day             int        `json:"day"`
	DailyGoal       int        `json:"daily_goal"`
	KhatmaLabel     string     `json:"khatma_label"`
	CurrentPage     int        `json:"current_page"`
	TodayTarget     int        `json:"today_target"`
	GoalReached     bool       `json:"goal_reached"`
	ProgressPercent int        `json:"progress_percent"`
	RemainingPages  int        `json:"remaining_pages"`
	TargetDate      *time.Time `json:"target_date,omitempty"`
	Khatmas         []Khatma   `json:"khatmas"`
}

func NewRamadanOverview(today, start time.Time, streak *UserStreak) *RamadanOverview {
	day := RamadanDay(today, start)
	target := TodayTargetPage(day, streak.DailyGoal)

	percent := 0
	if target > 0 {
		percent = min(int(math.Round(float64(streak.CurrentPage)/float64(target)*100)), 100)
	}

	label := "Custom"
	if k, ok := KhatmaForGoal(streak.DailyGoal); ok {
		label = k.Label
	}

	return &RamadanOverview{
		Day:             day,
		DailyGoal:       streak.DailyGoal,
		KhatmaLabel:     label,
		CurrentPage:     streak.CurrentPage,
		TodayTarget:     target,
		GoalReached:     streak.CurrentPage >= target,
		ProgressPercent: percent,
		RemainingPages:  max(0, target-streak.CurrentPage),
		TargetDate:      streak.TargetDate,
		Khatmas:         KhatmaTable(),
	}
}

var PrayerNames = [DailyPrayers]string{"Fajr", "Dhuhr", "Asr", "Maghrib", "Isha"}

type PrayerSlot struct {
	Name  string `json:"name"`
	Time  string `json:"time"`
	Pages int    `json:"pages"`
}

type PrayerPlan struct {
	Date    string       `json:"date"`
	Address string       `json:"address"`
	Slots   []PrayerSlot `json:"slots"`
}

// PrayerTimesProvider resolves today's prayer times for an address.
// Failures wrap ErrExternalLookup.
type PrayerTimesProvider interface {
	Timings(ctx context.Context, date time.Time, address string) (map[string]string, error)
}
