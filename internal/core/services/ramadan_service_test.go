package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/domain"
	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/services"
)

func newRamadanService(env *testEnv, prayers domain.PrayerTimesProvider) *services.RamadanService {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return services.NewRamadanService(env.streaks, env.activitySvc, prayers, start)
}

func TestRamadanService_SetDailyGoal(t *testing.T) {
	env := newTestEnv(t, "")
	svc := newRamadanService(env, nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		input int
		want  int
	}{
		{"Valid goal", 60, 60},
		{"Below the minimum", 5, domain.MinDailyGoal},
		{"Above the maximum", 400, domain.MaxDailyGoal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			streak, err := svc.SetDailyGoal(ctx, userID, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, streak.DailyGoal)
		})
	}
}

func TestRamadanService_SetTargetDate(t *testing.T) {
	env := newTestEnv(t, "")
	svc := newRamadanService(env, nil)
	ctx := context.Background()

	target := time.Date(2026, 3, 29, 18, 45, 0, 0, time.UTC)
	streak, err := svc.SetTargetDate(ctx, userID, &target)
	require.NoError(t, err)
	require.NotNil(t, streak.TargetDate)
	assert.Equal(t, time.Date(2026, 3, 29, 0, 0, 0, 0, time.UTC), *streak.TargetDate)

	streak, err = svc.SetTargetDate(ctx, userID, nil)
	require.NoError(t, err)
	assert.Nil(t, streak.TargetDate)
}

func TestRamadanService_Overview(t *testing.T) {
	env := newTestEnv(t, "")
	svc := newRamadanService(env, nil)
	ctx := context.Background()

	require.NoError(t, env.streaks.SetDailyGoal(ctx, userID, 20))
	require.NoError(t, env.streaks.SetCurrentPage(ctx, userID, 150))

	overview, err := svc.Overview(ctx, userID)
	require.NoError(t, err)

	assert.Equal(t, 10, overview.Day)
	assert.Equal(t, 200, overview.TodayTarget)
	assert.Equal(t, 75, overview.ProgressPercent)
	assert.Equal(t, 50, overview.RemainingPages)
	assert.False(t, overview.GoalReached)
	assert.Equal(t, "ختمة", overview.KhatmaLabel)
	assert.Len(t, overview.Khatmas, domain.MaxKhatmas)
}

func TestRamadanService_PrayerPlan(t *testing.T) {
	ctx := context.Background()

	t.Run("Splits the goal over five prayers", func(t *testing.T) {
		env := newTestEnv(t, "")
		prayers := new(MockPrayerTimes)
		svc := newRamadanService(env, prayers)
		require.NoError(t, env.streaks.SetDailyGoal(ctx, userID, 40))

		prayers.On("Timings", mock.Anything, mock.AnythingOfType("time.Time"), "Cairo, Egypt").Return(map[string]string{
			"Fajr": "04:21", "Dhuhr": "12:03", "Asr": "15:30", "Maghrib": "18:02", "Isha": "19:20",
		}, nil).Once()

		plan, err := svc.PrayerPlan(ctx, userID, " Cairo ", "Egypt")
		require.NoError(t, err)

		assert.Equal(t, "2026-03-10", plan.Date)
		require.Len(t, plan.Slots, domain.DailyPrayers)
		assert.Equal(t, "Fajr", plan.Slots[0].Name)
		assert.Equal(t, "04:21", plan.Slots[0].Time)
		for _, slot := range plan.Slots {
			assert.Equal(t, 8, slot.Pages)
		}
		prayers.AssertExpectations(t)
	})

	t.Run("Provider errors surface", func(t *testing.T) {
		env := newTestEnv(t, "")
		prayers := new(MockPrayerTimes)
		svc := newRamadanService(env, prayers)

		prayers.On("Timings", mock.Anything, mock.Anything, "Nowhere").Return(nil, domain.ErrExternalLookup).Once()

		_, err := svc.PrayerPlan(ctx, userID, "Nowhere", "")
		assert.ErrorIs(t, err, domain.ErrExternalLookup)
	})
}
