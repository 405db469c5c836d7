package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPlaylistClientSuccess(t *testing.T) {
	t.Parallel()

	var gotID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/playlist" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotID = r.URL.Query().Get("playlistId")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"videos":[{"id":"v1","title":"One","thumbnail":"t1"},{"id":"v2","title":"Two","thumbnail":""}]}`))
	}))
	defer srv.Close()

	c := NewPlaylistClient(srv.URL+"/", nil)
	videos, err := c.GetPlaylistVideos(context.Background(), "PL&1")
	if err != nil {
		t.Fatalf("GetPlaylistVideos() error = %v", err)
	}
	if gotID != "PL&1" {
		t.Errorf("playlistId = %q, want escaped round trip", gotID)
	}
	if len(videos) != 2 || videos[0].ID != "v1" || videos[1].Title != "Two" {
		t.Errorf("videos = %+v", videos)
	}
}

func TestPlaylistClientErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"resolver message", http.StatusBadRequest, `{"error":"Playlist ID is required"}`, "Playlist ID is required"},
		{"upstream status", http.StatusNotFound, `{"error":"Playlist not found"}`, "Playlist not found"},
		{"no message", http.StatusBadGateway, `gateway down`, "Failed to fetch playlist videos"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewPlaylistClient(srv.URL, srv.Client()).GetPlaylistVideos(context.Background(), "PL1")
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("error = %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestPlaylistClientNullVideos(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"videos":null}`))
	}))
	defer srv.Close()

	videos, err := NewPlaylistClient(srv.URL, nil).GetPlaylistVideos(context.Background(), "PL1")
	if err != nil {
		t.Fatal(err)
	}
	if videos == nil {
		t.Error("videos = nil, want empty slice")
	}
}

func TestPlaylistClientUnreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	if _, err := NewPlaylistClient(base, nil).GetPlaylistVideos(context.Background(), "PL1"); err == nil {
		t.Error("expected error for unreachable resolver")
	}
}
