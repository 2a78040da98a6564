package workers

import (
	"context"
	"sync"
	"time"

	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/domain"
	"github.com/comitanigiacomo/khatma-sync-engine/internal/logger"
)

type ProgressRepository interface {
	ListByUserID(ctx context.Context, userID string) ([]*domain.SurahProgress, error)
}

type StreakRepository interface {
	Get(ctx context.Context, userID string) (*domain.UserStreak, error)
	SetCurrentPage(ctx context.Context, userID string, page int) error
}

type PageLocator interface {
	PageOfVerse(ctx context.Context, surah, verse int) (int, error)
}

type PageSyncJob struct {
	UserID     string
	Generation uint64
}

const pruneInterval = time.Minute

// userState tracks the debounce timer, the suppression window and the
// generation of a single user. A nil timer means no job is pending.
type userState struct {
	timer         *time.Timer
	generation    uint64
	suppressUntil time.Time
}

// PageSyncWorker derives the page pointer from the ayah progress (Ayahs→Page).
// Enqueue calls are coalesced per user; only the last one after a quiet
// period of debounce reaches the scripture index.
type PageSyncWorker struct {
	progressRepo ProgressRepository
	streakRepo   StreakRepository
	locator      PageLocator
	debounce     time.Duration
	suppress     time.Duration
	jobs         chan PageSyncJob

	mu    sync.Mutex
	users map[string]*userState
	seq   uint64
	now   func() time.Time
}

func NewPageSyncWorker(pRepo ProgressRepository, sRepo StreakRepository, locator PageLocator, debounce, suppress time.Duration) *PageSyncWorker {
	return &PageSyncWorker{
		progressRepo: pRepo,
		streakRepo:   sRepo,
		locator:      locator,
		debounce:     debounce,
		suppress:     suppress,
		jobs:         make(chan PageSyncJob, 100),
		users:        make(map[string]*userState),
		now:          time.Now,
	}
}

func (w *PageSyncWorker) Start(ctx context.Context) {
	go func() {
		logger.Info("Page sync worker started in background")
		ticker := time.NewTicker(pruneInterval)
		defer ticker.Stop()

		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ticker.C:
				w.prune()
			case <-ctx.Done():
				w.stopTimers()
				logger.Info("Page sync worker shutting down")
				return
			}
		}
	}()
}

func (w *PageSyncWorker) state(userID string) *userState {
	st, ok := w.users[userID]
	if !ok {
		st = &userState{}
		w.users[userID] = st
	}
	return st
}

// Enqueue schedules a recomputation for userID, replacing any pending one.
// It is ignored while the user is inside a suppression window.
func (w *PageSyncWorker) Enqueue(userID string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	st := w.state(userID)
	if w.now().Before(st.suppressUntil) {
		logger.Debug("Page sync suppressed", "user", userID)
		return
	}

	if st.timer != nil {
		st.timer.Stop()
	}
	w.seq++
	st.generation = w.seq
	gen := st.generation

	st.timer = time.AfterFunc(w.debounce, func() {
		w.dispatch(PageSyncJob{UserID: userID, Generation: gen})
	})
}

// Suppress opens a suppression window for userID, cancels the pending timer
// and invalidates any lookup already in flight.
func (w *PageSyncWorker) Suppress(userID string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	st := w.state(userID)
	if st.timer != nil {
		st.timer.Stop()
		st.timer = nil
	}
	w.seq++
	st.generation = w.seq
	st.suppressUntil = w.now().Add(w.suppress)
}

func (w *PageSyncWorker) dispatch(job PageSyncJob) {
	select {
	case w.jobs <- job:
	default:
		logger.Warn("Page sync queue full, dropping job", "user", job.UserID)
		w.finish(job)
	}
}

// idle reports whether st has no pending job and no open suppression window.
func (w *PageSyncWorker) idle(st *userState) bool {
	return st.timer == nil && !w.now().Before(st.suppressUntil)
}

// finish marks job as consumed and drops the user's state once it is idle.
func (w *PageSyncWorker) finish(job PageSyncJob) {
	w.mu.Lock()
	defer w.mu.Unlock()

	st, ok := w.users[job.UserID]
	if !ok {
		return
	}
	if st.generation == job.Generation {
		st.timer = nil
	}
	if w.idle(st) {
		delete(w.users, job.UserID)
	}
}

// prune drops users whose suppression window closed with nothing pending.
func (w *PageSyncWorker) prune() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for userID, st := range w.users {
		if w.idle(st) {
			delete(w.users, userID)
		}
	}
}

func (w *PageSyncWorker) current(job PageSyncJob) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	st, ok := w.users[job.UserID]
	if !ok {
		return false
	}
	return st.generation == job.Generation && !w.now().Before(st.suppressUntil)
}

func (w *PageSyncWorker) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, st := range w.users {
		if st.timer != nil {
			st.timer.Stop()
		}
	}
}

func (w *PageSyncWorker) processJob(ctx context.Context, job PageSyncJob) {
	defer w.finish(job)

	if !w.current(job) {
		return
	}

	surahs, err := w.progressRepo.ListByUserID(ctx, job.UserID)
	if err != nil {
		logger.Error("Page sync failed to list progress", "user", job.UserID, "err", err)
		return
	}

	surah, ayah, ok := domain.LastCompletedVerse(surahs)
	if !ok {
		return
	}

	page, err := w.locator.PageOfVerse(ctx, surah, ayah)
	if err != nil {
		logger.Warn("Page sync lookup failed", "user", job.UserID, "surah", surah, "ayah", ayah, "err", err)
		return
	}
	page = domain.ClampPage(page)

	// A newer mutation or a page update may have landed during the lookup.
	if !w.current(job) {
		logger.Debug("Discarding stale page sync result", "user", job.UserID, "page", page)
		return
	}

	streak, err := w.streakRepo.Get(ctx, job.UserID)
	if err == nil && streak.CurrentPage == page {
		return
	}

	if err := w.streakRepo.SetCurrentPage(ctx, job.UserID, page); err != nil {
		logger.Error("Page sync failed to store page", "user", job.UserID, "page", page, "err", err)
		return
	}
	logger.Info("Page pointer synced", "user", job.UserID, "surah", surah, "ayah", ayah, "page", page)
}
