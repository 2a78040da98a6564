package services

import (
	"context"
	"time"

	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/domain"
)

type StatsService struct {
	activity domain.ActivityRepository
}

func NewStatsService(activity domain.ActivityRepository) *StatsService {
	return &StatsService{activity: activity}
}

func (s *StatsService) GetWeeklySummary(ctx context.Context, input domain.StatsInput) (*domain.WeeklySummary, error) {
	startDate := domain.DateOnly(input.StartDate, input.StartDate.Location())
	endDate := domain.DateOnly(input.EndDate, input.EndDate.Location())

	logs, err := s.activity.ListLogs(ctx, input.UserID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]domain.UserReadingLog, len(logs))
	for _, l := range logs {
		key := l.Day.Format("2006-01-02")
		acc := byDay[key]
		acc.AyahsRead += l.AyahsRead
		acc.PagesRead += l.PagesRead
		byDay[key] = acc
	}

	summary := &domain.WeeklySummary{
		StartDate: startDate.Format("2006-01-02"),
		EndDate:   endDate.Format("2006-01-02"),
		Days:      make([]domain.DailyReading, 0),
	}

	for day := startDate; !day.After(endDate); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		l := byDay[key]

		summary.Days = append(summary.Days, domain.DailyReading{
			Date:      key,
			AyahsRead: l.AyahsRead,
			PagesRead: l.PagesRead,
		})
		summary.TotalAyahs += l.AyahsRead
		summary.TotalPages += l.PagesRead
		if l.AyahsRead > 0 || l.PagesRead > 0 {
			summary.ActiveDays++
		}
	}

	return summary, nil
}

// DefaultWeek is the seven days ending today.
func DefaultWeek(today time.Time) (time.Time, time.Time) {
	return today.AddDate(0, 0, -6), today
}
