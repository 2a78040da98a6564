package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/khatma-sync-engine/internal/adapters/repository"
	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/domain"
	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/services"
)

type MockScriptureIndex struct {
	mock.Mock
}

func (m *MockScriptureIndex) VersesOnPage(ctx context.Context, page int) ([]domain.Verse, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Verse), args.Error(1)
}

func (m *MockScriptureIndex) PageOfVerse(ctx context.Context, surahNumber, verseNumber int) (int, error) {
	args := m.Called(ctx, surahNumber, verseNumber)
	return args.Int(0), args.Error(1)
}

func (m *MockScriptureIndex) Surahs(ctx context.Context) ([]domain.SurahInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SurahInfo), args.Error(1)
}

type MockPrayerTimes struct {
	mock.Mock
}

func (m *MockPrayerTimes) Timings(ctx context.Context, date time.Time, address string) (map[string]string, error) {
	args := m.Called(ctx, date, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

// recordingScheduler counts page sync requests instead of running them.
type recordingScheduler struct {
	mu         sync.Mutex
	enqueued   int
	suppressed int
}

func (r *recordingScheduler) Enqueue(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enqueued++
}

func (r *recordingScheduler) Suppress(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.suppressed++
}

func (r *recordingScheduler) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enqueued, r.suppressed
}

// testCatalog mirrors the real catalog shape: 114 surahs, the first five with
// their real ayah counts.
func testCatalog() []domain.SurahInfo {
	known := map[int]int{1: 7, 2: 286, 3: 200, 4: 176, 5: 120, 18: 110}
	surahs := make([]domain.SurahInfo, 0, domain.SurahCount)
	for n := 1; n <= domain.SurahCount; n++ {
		ayahs, ok := known[n]
		if !ok {
			ayahs = 10
		}
		surahs = append(surahs, domain.SurahInfo{
			Number:        n,
			Name:          "surah",
			EnglishName:   "Surah",
			NumberOfAyahs: ayahs,
		})
	}
	return surahs
}

var testToday = time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)

type testEnv struct {
	catalog  *repository.InMemoryCatalogRepository
	progress *repository.InMemoryProgressRepository
	streaks  *repository.InMemoryStreakRepository
	activity *repository.InMemoryActivityRepository
	sched    *recordingScheduler
	index    *MockScriptureIndex

	activitySvc *services.ActivityService
	progressSvc *services.ProgressService
	pageSvc     *services.PageService
}

func newTestEnv(t *testing.T, userID string) *testEnv {
	t.Helper()
	ctx := context.Background()

	env := &testEnv{
		catalog:  repository.NewInMemoryCatalogRepository(),
		streaks:  repository.NewInMemoryStreakRepository(),
		activity: repository.NewInMemoryActivityRepository(),
		sched:    &recordingScheduler{},
		index:    new(MockScriptureIndex),
	}
	require.NoError(t, env.catalog.UpsertSurahs(ctx, testCatalog()))
	env.progress = repository.NewInMemoryProgressRepository(env.catalog)

	env.activitySvc = services.NewActivityService(env.streaks, env.activity, time.UTC)
	env.activitySvc.SetClock(func() time.Time { return testToday })
	env.progressSvc = services.NewProgressService(env.progress, env.streaks, env.activitySvc, env.sched)
	env.pageSvc = services.NewPageService(env.index, env.streaks, env.progressSvc, env.activitySvc, env.sched)

	if userID != "" {
		_, err := env.progressSvc.InitializeUser(ctx, userID)
		require.NoError(t, err)
	}
	return env
}

func (e *testEnv) todayLog(t *testing.T, userID string) domain.UserReadingLog {
	t.Helper()
	logs, err := e.activity.ListLogs(context.Background(), userID, testToday, testToday)
	require.NoError(t, err)
	if len(logs) == 0 {
		return domain.UserReadingLog{}
	}
	return logs[0]
}

func (e *testEnv) badgeKeys(t *testing.T, userID string) []string {
	t.Helper()
	badges, err := e.activity.ListBadges(context.Background(), userID)
	require.NoError(t, err)
	keys := make([]string, 0, len(badges))
	for _, b := range badges {
		keys = append(keys, b.BadgeKey)
	}
	return keys
}

func (e *testEnv) seedStreak(t *testing.T, userID string, count int, last time.Time) {
	t.Helper()
	require.NoError(t, e.streaks.SaveStreak(context.Background(), &domain.UserStreak{
		UserID:      userID,
		StreakCount: count,
		LastDate:    &last,
	}))
}

func daysBefore(n int) time.Time {
	return domain.DateOnly(testToday, time.UTC).AddDate(0, 0, -n)
}
