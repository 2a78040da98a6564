package scripture

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/domain"
)

const (
	DefaultBaseURL = "https://api.alquran.cloud/v1"
	DefaultEdition = "quran-uthmani"

	maxBodyBytes = 4 << 20
)

var _ domain.ScriptureIndex = (*Client)(nil)

// Client talks to the alquran.cloud REST API. Any non-200 answer or malformed
// payload is reported as domain.ErrExternalLookup.
type Client struct {
	baseURL    string
	edition    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		edition:    DefaultEdition,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type envelope struct {
	Code   int             `json:"code"`
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

type apiSurahRef struct {
	Number int `json:"number"`
}

type apiAyah struct {
	Number        int         `json:"number"`
	Text          string      `json:"text"`
	Surah         apiSurahRef `json:"surah"`
	NumberInSurah int         `json:"numberInSurah"`
	Juz           int         `json:"juz"`
	Page          int         `json:"page"`
}

type apiPage struct {
	Number int       `json:"number"`
	Ayahs  []apiAyah `json:"ayahs"`
}

type apiSurah struct {
	Number                 int    `json:"number"`
	Name                   string `json:"name"`
	EnglishName            string `json:"englishName"`
	EnglishNameTranslation string `json:"englishNameTranslation"`
	NumberOfAyahs          int    `json:"numberOfAyahs"`
	RevelationType         string `json:"revelationType"`
}

func (c *Client) get(ctx context.Context, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrExternalLookup, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrExternalLookup, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned %d", domain.ErrExternalLookup, path, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&env); err != nil {
		return fmt.Errorf("%w: decode %s: %v", domain.ErrExternalLookup, path, err)
	}
	if env.Code != http.StatusOK {
		return fmt.Errorf("%w: %s answered code %d", domain.ErrExternalLookup, path, env.Code)
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return fmt.Errorf("%w: decode %s data: %v", domain.ErrExternalLookup, path, err)
	}
	return nil
}

func toVerse(a apiAyah) domain.Verse {
	return domain.Verse{
		Number:        a.Number,
		SurahNumber:   a.Surah.Number,
		NumberInSurah: a.NumberInSurah,
		Page:          a.Page,
		Juz:           a.Juz,
		Text:          a.Text,
	}
}

func (c *Client) VersesOnPage(ctx context.Context, page int) ([]domain.Verse, error) {
	if page < domain.FirstPage || page > domain.LastPage {
		return nil, fmt.Errorf("%w: page %d out of range", domain.ErrExternalLookup, page)
	}

	var p apiPage
	if err := c.get(ctx, fmt.Sprintf("/page/%d/%s", page, url.PathEscape(c.edition)), &p); err != nil {
		return nil, err
	}

	verses := make([]domain.Verse, 0, len(p.Ayahs))
	for _, a := range p.Ayahs {
		if !domain.ValidSurahNumber(a.Surah.Number) || a.NumberInSurah <= 0 {
			return nil, fmt.Errorf("%w: malformed verse on page %d", domain.ErrExternalLookup, page)
		}
		verses = append(verses, toVerse(a))
	}
	return verses, nil
}

func (c *Client) PageOfVerse(ctx context.Context, surahNumber, verseNumber int) (int, error) {
	var a apiAyah
	if err := c.get(ctx, fmt.Sprintf("/ayah/%d:%d", surahNumber, verseNumber), &a); err != nil {
		return 0, err
	}
	if a.Page < domain.FirstPage || a.Page > domain.LastPage {
		return 0, fmt.Errorf("%w: verse %d:%d has no page", domain.ErrExternalLookup, surahNumber, verseNumber)
	}
	return a.Page, nil
}

func (c *Client) Surahs(ctx context.Context) ([]domain.SurahInfo, error) {
	var raw []apiSurah
	if err := c.get(ctx, "/surah", &raw); err != nil {
		return nil, err
	}

	surahs := make([]domain.SurahInfo, 0, len(raw))
	for _, s := range raw {
		surahs = append(surahs, domain.SurahInfo{
			Number:                 s.Number,
			Name:                   s.Name,
			EnglishName:            s.EnglishName,
			EnglishNameTranslation: s.EnglishNameTranslation,
			NumberOfAyahs:          s.NumberOfAyahs,
			RevelationType:         s.RevelationType,
		})
	}
	return surahs, nil
}
