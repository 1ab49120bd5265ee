package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/filmgraph-labs/filmgraph/internal/config"
)

// Client is a read-only TMDB API client. The read access token is
// attached as a bearer credential on every request; there are no
// retries — any transport error, non-2xx status, or unparsable body
// fails the request.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// SearchHit is one film result from the search endpoint.
type SearchHit struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	Popularity  float64 `json:"popularity"`
}

type searchResponse struct {
	Results []SearchHit `json:"results"`
}

// FilmDetail is the film attributes needed for a merge.
type FilmDetail struct {
	Title       string  `json:"title"`
	Popularity  float64 `json:"popularity"`
	ReleaseDate string  `json:"release_date"`
}

// CastEntry is one member of a film's credits. Adult is a pointer so
// an absent flag is distinguishable from an explicit false.
type CastEntry struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	Popularity         float64 `json:"popularity"`
	KnownForDepartment string  `json:"known_for_department"`
	Adult              *bool   `json:"adult"`
	Character          string  `json:"character"`
	CreditID           string  `json:"credit_id"`
}

type creditsResponse struct {
	Cast []CastEntry `json:"cast"`
}

// NewClient creates a TMDB client from configuration.
func NewClient(cfg config.CatalogConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.ReadAccessToken,
		http:    &http.Client{Timeout: timeout},
	}
}

// SearchFilms queries the catalog for films matching the free-text
// query. Results are returned in catalog order (unsorted).
func (c *Client) SearchFilms(ctx context.Context, query string) ([]SearchHit, error) {
	u := c.baseURL + "/search/movie?query=" + url.QueryEscape(query)
	var resp searchResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// FilmDetail fetches title, popularity and release date for a film.
func (c *Client) FilmDetail(ctx context.Context, filmID int64) (*FilmDetail, error) {
	var resp FilmDetail
	if err := c.getJSON(ctx, fmt.Sprintf("%s/movie/%d", c.baseURL, filmID), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FilmCredits fetches the ordered cast list for a film.
func (c *Client) FilmCredits(ctx context.Context, filmID int64) ([]CastEntry, error) {
	var resp creditsResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s/movie/%d/credits", c.baseURL, filmID), &resp); err != nil {
		return nil, err
	}
	return resp.Cast, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read catalog response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("catalog API error (status %d): %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal catalog response: %w", err)
	}
	return nil
}

// ParseYear extracts the year from a catalog release date such as
// "1999-03-19". Missing or malformed dates yield nil, never an error.
func ParseYear(releaseDate string) *int {
	t, err := time.Parse("2006-01-02", releaseDate)
	if err != nil {
		return nil
	}
	y := t.Year()
	return &y
}
