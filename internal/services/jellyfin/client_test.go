package jellyfin_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"seasonsweep/internal/inventory"
	"seasonsweep/internal/services"
	"seasonsweep/internal/services/jellyfin"
)

func TestAllTVSeasons(t *testing.T) {
	var userLookups atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/jf/Users", func(w http.ResponseWriter, r *http.Request) {
		userLookups.Add(1)
		if r.Header.Get("X-Emby-Token") != "key" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `[{"Name":"other","Id":"u1"},{"Name":"viewer","Id":"u2"}]`)
	})
	mux.HandleFunc("/jf/Users/u2/Items", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("Recursive") != "true" || q.Get("IncludeItemTypes") != "Season" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		_, _ = io.WriteString(w, `{"Items":[
			{"Name":"Season 1","SeriesName":"Show","Id":"s1","UserData":{"UnplayedItemCount":0}},
			{"Name":"Season 2","SeriesName":"Show","Id":"s2","UserData":{"UnplayedItemCount":3}}
		],"TotalRecordCount":2}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := jellyfin.New(srv.URL+"/jf", "key", "viewer")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for range 2 {
		seasons, err := client.AllTVSeasons(context.Background())
		if err != nil {
			t.Fatalf("AllTVSeasons: %v", err)
		}
		want := []inventory.WatchedSeason{
			{SeriesTitle: "Show", SeasonLabel: "Season 1", FullyWatched: true},
			{SeriesTitle: "Show", SeasonLabel: "Season 2", FullyWatched: false},
		}
		if len(seasons) != 2 || seasons[0] != want[0] || seasons[1] != want[1] {
			t.Fatalf("unexpected seasons: %+v", seasons)
		}
	}
	if userLookups.Load() != 1 {
		t.Fatalf("expected cached user id, got %d lookups", userLookups.Load())
	}
}

func TestUnknownUserIsConfigurationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"Name":"other","Id":"u1"}]`)
	}))
	defer srv.Close()

	client, err := jellyfin.New(srv.URL, "key", "viewer")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = client.AllTVSeasons(context.Background())
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestNewValidatesInputs(t *testing.T) {
	if _, err := jellyfin.New("http://localhost:8096/", "", "viewer"); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error for missing key, got %v", err)
	}
	if _, err := jellyfin.New("http://localhost:8096/", "key", ""); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error for missing user, got %v", err)
	}
}
