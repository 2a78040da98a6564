package scripture

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/domain"
)

const pageTwoBody = `{
  "code": 200,
  "status": "OK",
  "data": {
    "number": 2,
    "ayahs": [
      {"number": 8, "text": "بِسْمِ", "surah": {"number": 2}, "numberInSurah": 1, "juz": 1, "page": 2},
      {"number": 12, "text": "أُولَٰئِكَ", "surah": {"number": 2}, "numberInSurah": 5, "juz": 1, "page": 2}
    ]
  }
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/page/2/quran-uthmani", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(pageTwoBody))
	})
	mux.HandleFunc("/v1/page/3/quran-uthmani", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": 200, "data": {"ayahs": [{"surah": {"number": 0}, "numberInSurah": 0}]}}`))
	})
	mux.HandleFunc("/v1/page/4/quran-uthmani", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})
	mux.HandleFunc("/v1/page/5/quran-uthmani", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	})
	mux.HandleFunc("/v1/ayah/2:5", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": 200, "data": {"number": 12, "surah": {"number": 2}, "numberInSurah": 5, "page": 2}}`))
	})
	mux.HandleFunc("/v1/ayah/2:999", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"code": 404, "status": "Not Found", "data": "Please specify a valid surah reference"}`))
	})
	mux.HandleFunc("/v1/surah", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": 200, "data": [
			{"number": 1, "name": "سُورَةُ ٱلْفَاتِحَةِ", "englishName": "Al-Faatiha", "englishNameTranslation": "The Opening", "numberOfAyahs": 7, "revelationType": "Meccan"},
			{"number": 2, "name": "سورة البقرة", "englishName": "Al-Baqara", "englishNameTranslation": "The Cow", "numberOfAyahs": 286, "revelationType": "Medinan"}
		]}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_VersesOnPage(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient(srv.URL+"/v1/", 2*time.Second)
	ctx := context.Background()

	t.Run("Decodes the ordered verse list", func(t *testing.T) {
		verses, err := client.VersesOnPage(ctx, 2)
		require.NoError(t, err)
		require.Len(t, verses, 2)

		last := verses[len(verses)-1]
		assert.Equal(t, 2, last.SurahNumber)
		assert.Equal(t, 5, last.NumberInSurah)
		assert.Equal(t, 12, last.Number)
		assert.Equal(t, 2, last.Page)
	})

	tests := []struct {
		name string
		page int
	}{
		{"Malformed verse", 3},
		{"Malformed body", 4},
		{"Non-200 status", 5},
		{"Unknown route", 6},
		{"Out of range page", 605},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.VersesOnPage(ctx, tt.page)
			assert.ErrorIs(t, err, domain.ErrExternalLookup)
		})
	}
}

func TestClient_PageOfVerse(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient(srv.URL+"/v1", 2*time.Second)
	ctx := context.Background()

	page, err := client.PageOfVerse(ctx, 2, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, page)

	_, err = client.PageOfVerse(ctx, 2, 999)
	assert.ErrorIs(t, err, domain.ErrExternalLookup)
}

func TestClient_Surahs(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient(srv.URL+"/v1", 2*time.Second)

	surahs, err := client.Surahs(context.Background())
	require.NoError(t, err)
	require.Len(t, surahs, 2)
	assert.Equal(t, domain.SurahInfo{
		Number:                 2,
		Name:                   "سورة البقرة",
		EnglishName:            "Al-Baqara",
		EnglishNameTranslation: "The Cow",
		NumberOfAyahs:          286,
		RevelationType:         "Medinan",
	}, surahs[1])
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(pageTwoBody))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 20*time.Millisecond)
	_, err := client.VersesOnPage(context.Background(), 2)
	assert.ErrorIs(t, err, domain.ErrExternalLookup)
}
