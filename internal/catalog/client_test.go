package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/filmgraph-labs/filmgraph/internal/config"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.CatalogConfig{
		BaseURL:         srv.URL,
		ReadAccessToken: "test-token",
		Timeout:         5 * time.Second,
	})
}

func TestClient_FilmDetail(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/603" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("unexpected auth header %q", got)
		}
		w.Write([]byte(`{"title":"The Matrix","popularity":98.1,"release_date":"1999-03-31"}`))
	})

	detail, err := c.FilmDetail(context.Background(), 603)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.Title != "The Matrix" {
		t.Errorf("expected title The Matrix, got %q", detail.Title)
	}
	if y := ParseYear(detail.ReleaseDate); y == nil || *y != 1999 {
		t.Errorf("expected year 1999, got %v", y)
	}
}

func TestClient_FilmCredits(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/603/credits" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"cast":[
			{"id":6384,"name":"Keanu Reeves","popularity":10.5,"known_for_department":"Acting","adult":false,"character":"Neo","credit_id":"52fe425bc3a36847f80181c1"},
			{"id":999,"name":"Extra","popularity":0.1,"known_for_department":"Acting","character":"Bystander","credit_id":"abc123"}
		]}`))
	})

	cast, err := c.FilmCredits(context.Background(), 603)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cast) != 2 {
		t.Fatalf("expected 2 cast entries, got %d", len(cast))
	}
	if cast[0].CreditID != "52fe425bc3a36847f80181c1" {
		t.Errorf("unexpected credit id %q", cast[0].CreditID)
	}
	if cast[1].Adult != nil {
		t.Errorf("expected absent adult flag to decode as nil")
	}
}

func TestClient_SearchFilms(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("query"); got != "the matrix" {
			t.Errorf("unexpected query %q", got)
		}
		w.Write([]byte(`{"results":[{"id":603,"title":"The Matrix","release_date":"1999-03-31","popularity":98.1}]}`))
	})

	hits, err := c.SearchFilms(context.Background(), "the matrix")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != 603 {
		t.Fatalf("unexpected hits: %+v", hits)
	}
}

func TestClient_Non2xxIsFatal(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status_message":"not found"}`))
	})

	if _, err := c.FilmDetail(context.Background(), 1); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestClient_MalformedBodyIsFatal(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"title": 12`))
	})

	if _, err := c.FilmDetail(context.Background(), 1); err == nil {
		t.Fatal("expected error for malformed body")
	}
}
