package domain

import "time"

type DailyReading struct {
	Date      string `json:"date"`
	AyahsRead int    `json:"ayahs_read"`
	PagesRead int    `json:"pages_read"`
}

type WeeklySummary struct {
	StartDate  string         `json:"start_date"`
	EndDate    string         `json:"end_date"`
	TotalAyahs int            `json:"total_ayahs"`
	TotalPages int            `json:"total_pages"`
	ActiveDays int            `json:"active_days"`
	Days       []DailyReading `json:"days"`
}

type StatsInput struct {
	UserID    string
	StartDate time.Time
	EndDate   time.Time
}
