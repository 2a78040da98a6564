package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/domain"
)

func TestPageService_UpdateQuranPage(t *testing.T) {
	ctx := context.Background()

	t.Run("Redistributes ayahs up to the last verse on the page", func(t *testing.T) {
		env := newTestEnv(t, userID)
		env.index.On("VersesOnPage", mock.Anything, 2).Return([]domain.Verse{
			{SurahNumber: 2, NumberInSurah: 1, Page: 2},
			{SurahNumber: 2, NumberInSurah: 5, Page: 2},
		}, nil).Once()

		streak, err := env.pageSvc.UpdateQuranPage(ctx, userID, 2)
		require.NoError(t, err)
		assert.Equal(t, 2, streak.CurrentPage)
		assert.Equal(t, 1, streak.StreakCount)

		rows, err := env.progress.ListByUserID(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 7, rows[0].CompletedAyahs)
		assert.True(t, rows[0].Completed)
		assert.Equal(t, 5, rows[1].CompletedAyahs)

		entry := env.todayLog(t, userID)
		assert.Equal(t, 1, entry.PagesRead)

		_, suppressed := env.sched.counts()
		assert.Equal(t, 2, suppressed)
		env.index.AssertExpectations(t)
	})

	t.Run("Lookup failure still stores the page", func(t *testing.T) {
		env := newTestEnv(t, userID)
		_, err := env.progressSvc.SetAyahs(ctx, userID, 3, 12)
		require.NoError(t, err)

		env.index.On("VersesOnPage", mock.Anything, 50).
			Return(nil, fmt.Errorf("%w: status 503", domain.ErrExternalLookup)).Once()

		streak, err := env.pageSvc.UpdateQuranPage(ctx, userID, 50)
		require.NoError(t, err)
		assert.Equal(t, 50, streak.CurrentPage)

		p, err := env.progress.GetSurah(ctx, userID, 3)
		require.NoError(t, err)
		assert.Equal(t, 12, p.CompletedAyahs, "ayah progress is untouched without a lookup")
	})

	t.Run("Empty page keeps the ayah progress", func(t *testing.T) {
		env := newTestEnv(t, userID)
		env.index.On("VersesOnPage", mock.Anything, 7).Return([]domain.Verse{}, nil).Once()

		streak, err := env.pageSvc.UpdateQuranPage(ctx, userID, 7)
		require.NoError(t, err)
		assert.Equal(t, 7, streak.CurrentPage)

		rows, err := env.progress.ListByUserID(ctx, userID)
		require.NoError(t, err)
		assert.Zero(t, domain.TotalCompletedAyahs(rows))
	})

	t.Run("Clamps the requested page", func(t *testing.T) {
		env := newTestEnv(t, userID)
		env.index.On("VersesOnPage", mock.Anything, domain.LastPage).Return(nil, domain.ErrExternalLookup).Once()
		env.index.On("VersesOnPage", mock.Anything, domain.FirstPage).Return(nil, domain.ErrExternalLookup).Once()

		streak, err := env.pageSvc.UpdateQuranPage(ctx, userID, 9999)
		require.NoError(t, err)
		assert.Equal(t, domain.LastPage, streak.CurrentPage)

		streak, err = env.pageSvc.UpdateQuranPage(ctx, userID, -3)
		require.NoError(t, err)
		assert.Equal(t, domain.FirstPage, streak.CurrentPage)
	})

	t.Run("Moving backwards logs no pages", func(t *testing.T) {
		env := newTestEnv(t, userID)
		require.NoError(t, env.streaks.SetCurrentPage(ctx, userID, 40))
		env.index.On("VersesOnPage", mock.Anything, 10).Return(nil, domain.ErrExternalLookup).Once()

		_, err := env.pageSvc.UpdateQuranPage(ctx, userID, 10)
		require.NoError(t, err)

		assert.Zero(t, env.todayLog(t, userID).PagesRead)
	})
}

func TestPageService_PageVerses(t *testing.T) {
	env := newTestEnv(t, "")
	verses := []domain.Verse{{Number: 1, SurahNumber: 1, NumberInSurah: 1, Page: 1, Text: "..."}}
	env.index.On("VersesOnPage", mock.Anything, 1).Return(verses, nil).Once()

	got, err := env.pageSvc.PageVerses(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, verses, got)
	env.index.AssertExpectations(t)
}
