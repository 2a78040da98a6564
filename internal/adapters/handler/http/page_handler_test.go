package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/domain"
)

func TestPageHandler_UpdatePage(t *testing.T) {
	t.Run("Ayah progress follows the last verse on the page", func(t *testing.T) {
		env := newHandlerEnv(t)
		env.index.verses[2] = []domain.Verse{
			{SurahNumber: 2, NumberInSurah: 1, Page: 2},
			{SurahNumber: 2, NumberInSurah: 3, Page: 2},
		}

		w := env.do(t, http.MethodPut, "/page", map[string]int{"page": 2})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, 2, decode[domain.UserStreak](t, w).CurrentPage)

		rows := decode[[]domain.SurahProgress](t, env.do(t, http.MethodGet, "/progress", nil))
		assert.True(t, rows[0].Completed)
		assert.Equal(t, 3, rows[1].CompletedAyahs)
		assert.Zero(t, rows[2].CompletedAyahs)
	})

	t.Run("Lookup failure still moves the page", func(t *testing.T) {
		env := newHandlerEnv(t)
		env.index.err = domain.ErrExternalLookup

		w := env.do(t, http.MethodPut, "/page", map[string]int{"page": 900})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, domain.LastPage, decode[domain.UserStreak](t, w).CurrentPage)

		rows := decode[[]domain.SurahProgress](t, env.do(t, http.MethodGet, "/progress", nil))
		assert.Zero(t, rows[0].CompletedAyahs)
	})

	t.Run("Missing page is a bad request", func(t *testing.T) {
		env := newHandlerEnv(t)

		w := env.do(t, http.MethodPut, "/page", map[string]any{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPageHandler_PageVerses(t *testing.T) {
	env := newHandlerEnv(t)
	env.index.verses[1] = []domain.Verse{{Number: 1, SurahNumber: 1, NumberInSurah: 1, Page: 1}}

	w := env.do(t, http.MethodGet, "/pages/1/verses", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.Verse](t, w), 1)

	env.index.err = domain.ErrExternalLookup
	w = env.do(t, http.MethodGet, "/pages/1/verses", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = env.do(t, http.MethodGet, "/pages/one/verses", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
