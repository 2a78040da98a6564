package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/domain"
)

// The in-memory repositories back the unit tests and the local development
// mode. Every read returns a copy so callers cannot bypass the version check.

type InMemoryCatalogRepository struct {
	store map[int]domain.SurahInfo

	mu sync.RWMutex
}

func NewInMemoryCatalogRepository() *InMemoryCatalogRepository {
	return &InMemoryCatalogRepository{
		store: make(map[int]domain.SurahInfo),
	}
}

func (r *InMemoryCatalogRepository) UpsertSurahs(ctx context.Context, surahs []domain.SurahInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range surahs {
		r.store[s.Number] = s
	}
	return nil
}

func (r *InMemoryCatalogRepository) ListSurahs(ctx context.Context) ([]domain.SurahInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	surahs := make([]domain.SurahInfo, 0, len(r.store))
	for _, s := range r.store {
		surahs = append(surahs, s)
	}
	sort.Slice(surahs, func(i, j int) bool {
		return surahs[i].Number < surahs[j].Number
	})
	return surahs, nil
}

type progressKey struct {
	userID string
	number int
}

type InMemoryProgressRepository struct {
	catalog domain.CatalogRepository
	store   map[progressKey]domain.SurahProgress

	mu sync.RWMutex
}

func NewInMemoryProgressRepository(catalog domain.CatalogRepository) *InMemoryProgressRepository {
	return &InMemoryProgressRepository{
		catalog: catalog,
		store:   make(map[progressKey]domain.SurahProgress),
	}
}

func (r *InMemoryProgressRepository) InitializeUser(ctx context.Context, userID string) (int, error) {
	surahs, err := r.catalog.ListSurahs(ctx)
	if err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	created := 0
	for _, info := range surahs {
		key := progressKey{userID, info.Number}
		if _, ok := r.store[key]; ok {
			continue
		}
		r.store[key] = *domain.NewSurahProgress(userID, info)
		created++
	}
	return created, nil
}

func (r *InMemoryProgressRepository) GetSurah(ctx context.Context, userID string, number int) (*domain.SurahProgress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.store[progressKey{userID, number}]
	if !ok {
		return nil, domain.ErrSurahNotFound
	}
	return &p, nil
}

func (r *InMemoryProgressRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.SurahProgress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var rows []*domain.SurahProgress
	for key, p := range r.store {
		if key.userID == userID {
			row := p
			rows = append(rows, &row)
		}
	}
	domain.SortSurahs(rows)
	return rows, nil
}

func (r *InMemoryProgressRepository) Update(ctx context.Context, p *domain.SurahProgress) error {
	if err := p.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := progressKey{p.UserID, p.Number}
	current, ok := r.store[key]
	if !ok {
		return domain.ErrSurahNotFound
	}
	if current.Version != p.Version {
		return domain.ErrProgressConflict
	}

	p.Version++
	p.UpdatedAt = time.Now().UTC()
	r.store[key] = *p
	return nil
}

func (r *InMemoryProgressRepository) ResetAll(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for key, p := range r.store {
		if key.userID != userID {
			continue
		}
		p.CompletedAyahs = 0
		p.Completed = false
		p.Version++
		p.UpdatedAt = now
		r.store[key] = p
	}
	return nil
}

type InMemoryStreakRepository struct {
	store map[string]domain.UserStreak

	mu sync.RWMutex
}

func NewInMemoryStreakRepository() *InMemoryStreakRepository {
	return &InMemoryStreakRepository{
		store: make(map[string]domain.UserStreak),
	}
}

func (r *InMemoryStreakRepository) Get(ctx context.Context, userID string) (*domain.UserStreak, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.store[userID]
	if !ok {
		return nil, domain.ErrStreakNotFound
	}
	return &s, nil
}

// upsert applies fn to the user's row, creating it with defaults first.
func (r *InMemoryStreakRepository) upsert(userID string, fn func(s *domain.UserStreak)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.store[userID]
	if !ok {
		s = *domain.NewUserStreak(userID)
	}
	fn(&s)
	s.UpdatedAt = time.Now().UTC()
	r.store[userID] = s
}

func (r *InMemoryStreakRepository) SaveStreak(ctx context.Context, streak *domain.UserStreak) error {
	r.upsert(streak.UserID, func(s *domain.UserStreak) {
		s.StreakCount = streak.StreakCount
		s.LastDate = streak.LastDate
	})
	return nil
}

func (r *InMemoryStreakRepository) SetCurrentPage(ctx context.Context, userID string, page int) error {
	r.upsert(userID, func(s *domain.UserStreak) {
		s.CurrentPage = page
	})
	return nil
}

func (r *InMemoryStreakRepository) SetDailyGoal(ctx context.Context, userID string, goal int) error {
	r.upsert(userID, func(s *domain.UserStreak) {
		s.DailyGoal = goal
	})
	return nil
}

func (r *InMemoryStreakRepository) SetTargetDate(ctx context.Context, userID string, date *time.Time) error {
	r.upsert(userID, func(s *domain.UserStreak) {
		s.TargetDate = date
	})
	return nil
}

func (r *InMemoryStreakRepository) Reset(ctx context.Context, userID string) error {
	r.upsert(userID, func(s *domain.UserStreak) {
		s.StreakCount = 0
		s.LastDate = nil
		s.CurrentPage = domain.FirstPage
	})
	return nil
}

type logKey struct {
	userID string
	day    string
}

type InMemoryActivityRepository struct {
	logs   map[logKey]domain.UserReadingLog
	badges map[string]map[string]domain.UserBadge

	mu sync.RWMutex
}

func NewInMemoryActivityRepository() *InMemoryActivityRepository {
	return &InMemoryActivityRepository{
		logs:   make(map[logKey]domain.UserReadingLog),
		badges: make(map[string]map[string]domain.UserBadge),
	}
}

func dayKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

func (r *InMemoryActivityRepository) AddToDailyLog(ctx context.Context, userID string, day time.Time, ayahs, pages int) (*domain.UserReadingLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	key := logKey{userID, dayKey(day)}
	entry, ok := r.logs[key]
	if !ok {
		y, m, d := day.Date()
		entry = domain.UserReadingLog{
			ID:        uuid.NewString(),
			UserID:    userID,
			Day:       time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
			CreatedAt: now,
		}
	}
	entry.AyahsRead += ayahs
	entry.PagesRead += pages
	entry.UpdatedAt = now
	r.logs[key] = entry
	return &entry, nil
}

func (r *InMemoryActivityRepository) ListLogs(ctx context.Context, userID string, from, to time.Time) ([]domain.UserReadingLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lo, hi := dayKey(from), dayKey(to)
	var logs []domain.UserReadingLog
	for key, entry := range r.logs {
		if key.userID == userID && key.day >= lo && key.day <= hi {
			logs = append(logs, entry)
		}
	}
	sort.Slice(logs, func(i, j int) bool {
		return logs[i].Day.Before(logs[j].Day)
	})
	return logs, nil
}

func (r *InMemoryActivityRepository) CreateBadge(ctx context.Context, badge *domain.UserBadge) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	owned, ok := r.badges[badge.UserID]
	if !ok {
		owned = make(map[string]domain.UserBadge)
		r.badges[badge.UserID] = owned
	}
	if _, exists := owned[badge.BadgeKey]; exists {
		return domain.ErrDuplicateBadge
	}
	owned[badge.BadgeKey] = *badge
	return nil
}

func (r *InMemoryActivityRepository) ListBadges(ctx context.Context, userID string) ([]domain.UserBadge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	badges := make([]domain.UserBadge, 0, len(r.badges[userID]))
	for _, b := range r.badges[userID] {
		badges = append(badges, b)
	}
	sort.Slice(badges, func(i, j int) bool {
		return badges[i].AwardedAt.Before(badges[j].AwardedAt)
	})
	return badges, nil
}

type InMemoryUserRepository struct {
	byID map[string]domain.User

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		byID: make(map[string]domain.User),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.byID[user.ID] = *user
	return nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}
