package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/khatma-sync-engine/internal/adapters/repository"
	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/domain"
	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/services"
)

const (
	testUser  = "user-1"
	testToken = "token-user-1"
)

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

// tokenResolver accepts "token-<userID>".
type tokenResolver struct{}

func (tokenResolver) ResolveUser(ctx context.Context, token string) (string, error) {
	if len(token) > len("token-") && token[:len("token-")] == "token-" {
		return token[len("token-"):], nil
	}
	return "", domain.ErrUnauthenticated
}

// stubIndex answers page lookups from verses; verse lookups always fail.
type stubIndex struct {
	verses map[int][]domain.Verse
	err    error
}

func (s *stubIndex) VersesOnPage(ctx context.Context, page int) ([]domain.Verse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.verses[page], nil
}

func (s *stubIndex) PageOfVerse(ctx context.Context, surahNumber, verseNumber int) (int, error) {
	return 0, domain.ErrExternalLookup
}

func (s *stubIndex) Surahs(ctx context.Context) ([]domain.SurahInfo, error) {
	return handlerCatalog(), nil
}

type stubPrayers struct {
	err error
}

func (s stubPrayers) Timings(ctx context.Context, date time.Time, address string) (map[string]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return map[string]string{
		"Fajr": "04:40", "Dhuhr": "12:15", "Asr": "15:30", "Maghrib": "18:05", "Isha": "19:25",
	}, nil
}

type nopScheduler struct{}

func (nopScheduler) Enqueue(string)  {}
func (nopScheduler) Suppress(string) {}

func handlerCatalog() []domain.SurahInfo {
	surahs := make([]domain.SurahInfo, 0, domain.SurahCount)
	for n := 1; n <= domain.SurahCount; n++ {
		ayahs := 10
		if n == 1 {
			ayahs = 7
		}
		surahs = append(surahs, domain.SurahInfo{Number: n, Name: "surah", EnglishName: "Surah", NumberOfAyahs: ayahs})
	}
	return surahs
}

type handlerEnv struct {
	router   *gin.Engine
	index    *stubIndex
	prayers  *stubPrayers
	streaks  *repository.InMemoryStreakRepository
	activity *repository.InMemoryActivityRepository
}

func newHandlerEnv(t *testing.T) *handlerEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	catalog := repository.NewInMemoryCatalogRepository()
	require.NoError(t, catalog.UpsertSurahs(ctx, handlerCatalog()))

	env := &handlerEnv{
		index:    &stubIndex{verses: map[int][]domain.Verse{}},
		prayers:  &stubPrayers{},
		streaks:  repository.NewInMemoryStreakRepository(),
		activity: repository.NewInMemoryActivityRepository(),
	}
	progress := repository.NewInMemoryProgressRepository(catalog)
	users := repository.NewInMemoryUserRepository()

	activitySvc := services.NewActivityService(env.streaks, env.activity, time.UTC)
	activitySvc.SetClock(func() time.Time { return testNow })
	progressSvc := services.NewProgressService(progress, env.streaks, activitySvc, nopScheduler{})
	pageSvc := services.NewPageService(env.index, env.streaks, progressSvc, activitySvc, nopScheduler{})
	ramadanSvc := services.NewRamadanService(env.streaks, activitySvc, env.prayers, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	tokens := services.NewTokenService("test-secret", "khatma-test", time.Hour, users)
	authSvc := services.NewAuthService(users, progress, tokens)

	env.router = NewRouter(RouterDependencies{
		AuthHandler:     NewAuthHandler(authSvc),
		ProgressHandler: NewProgressHandler(progressSvc),
		StreakHandler:   NewStreakHandler(activitySvc),
		PageHandler:     NewPageHandler(pageSvc),
		RamadanHandler:  NewRamadanHandler(ramadanSvc, time.UTC),
		StatsHandler:    NewStatsHandler(services.NewStatsService(env.activity), activitySvc.Today),
		Resolver:        tokenResolver{},
		StartTime:       testNow,
	})

	_, err := progressSvc.InitializeUser(ctx, testUser)
	require.NoError(t, err)
	return env
}

func (e *handlerEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, "/api/v1"+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+testToken)

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func recorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}

func wrapLookup() error {
	return fmt.Errorf("scripture: page 3: %w", domain.ErrExternalLookup)
}
