package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/domain"
)

type RamadanService struct {
	streaks  domain.StreakRepository
	activity *ActivityService
	prayers  domain.PrayerTimesProvider
	start    time.Time
}

func NewRamadanService(streaks domain.StreakRepository, activity *ActivityService, prayers domain.PrayerTimesProvider, start time.Time) *RamadanService {
	return &RamadanService{
		streaks:  streaks,
		activity: activity,
		prayers:  prayers,
		start:    start,
	}
}

// SetDailyGoal clamps pages into the 1 to 9 khatma range and stores it.
func (s *RamadanService) SetDailyGoal(ctx context.Context, userID string, pagesPerDay int) (*domain.UserStreak, error) {
	goal := domain.ClampDailyGoal(pagesPerDay)
	if err := s.streaks.SetDailyGoal(ctx, userID, goal); err != nil {
		return nil, fmt.Errorf("ramadan service: set goal: %w", err)
	}
	return s.activity.GetStreak(ctx, userID)
}

// SetTargetDate stores the completion deadline; nil clears it.
func (s *RamadanService) SetTargetDate(ctx context.Context, userID string, date *time.Time) (*domain.UserStreak, error) {
	if date != nil {
		d := domain.DateOnly(*date, date.Location())
		date = &d
	}
	if err := s.streaks.SetTargetDate(ctx, userID, date); err != nil {
		return nil, fmt.Errorf("ramadan service: set target date: %w", err)
	}
	return s.activity.GetStreak(ctx, userID)
}

func (s *RamadanService) Overview(ctx context.Context, userID string) (*domain.RamadanOverview, error) {
	streak, err := s.activity.GetStreak(ctx, userID)
	if err != nil {
		return nil, err
	}
	return domain.NewRamadanOverview(s.activity.Today(), s.start, streak), nil
}

// PrayerPlan spreads the daily goal over today's five prayers.
func (s *RamadanService) PrayerPlan(ctx context.Context, userID, city, country string) (*domain.PrayerPlan, error) {
	address := strings.TrimSpace(city)
	if c := strings.TrimSpace(country); c != "" {
		address = address + ", " + c
	}

	streak, err := s.activity.GetStreak(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := s.activity.Today()
	timings, err := s.prayers.Timings(ctx, today, address)
	if err != nil {
		return nil, err
	}

	perPrayer := streak.DailyGoal / domain.DailyPrayers
	plan := &domain.PrayerPlan{
		Date:    today.Format("2006-01-02"),
		Address: address,
		Slots:   make([]domain.PrayerSlot, 0, domain.DailyPrayers),
	}
	for _, name := range domain.PrayerNames {
		plan.Slots = append(plan.Slots, domain.PrayerSlot{
			Name:  name,
			Time:  timings[name],
			Pages: perPrayer,
		})
	}
	return plan, nil
}
