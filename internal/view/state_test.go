package view

import (
	"context"
	"errors"
	"testing"

	"github.com/sangnt1552314/ytloop/internal/models"
	"github.com/sangnt1552314/ytloop/internal/services"
)

func videos(ids ...string) []models.Video {
	out := make([]models.Video, len(ids))
	for i, id := range ids {
		out[i] = models.Video{ID: id, Title: "Video " + id}
	}
	return out
}

type fakeFetcher struct {
	videos []models.Video
	err    error
	calls  []string
}

func (f *fakeFetcher) GetPlaylistVideos(_ context.Context, playlistID string) ([]models.Video, error) {
	f.calls = append(f.calls, playlistID)
	return f.videos, f.err
}

func TestExtractPlaylistID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		url    string
		wantID string
		wantOK bool
	}{
		{"playlist page", "https://www.youtube.com/playlist?list=PL123", "PL123", true},
		{"followed by other params", "https://www.youtube.com/playlist?list=PL123&si=abc", "PL123", true},
		{"after video id", "https://www.youtube.com/watch?v=abc&list=PLxyz&index=2", "PLxyz", true},
		{"first occurrence wins", "https://youtube.com/watch?list=A&list=B", "A", true},
		{"no list param", "https://youtube.com/watch?v=abc", "", false},
		{"empty value", "https://youtube.com/playlist?list=", "", false},
		{"list without separator", "https://youtube.com/playlistlist=PL1", "", false},
		{"empty input", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			id, ok := ExtractPlaylistID(tt.url)
			if id != tt.wantID || ok != tt.wantOK {
				t.Errorf("ExtractPlaylistID(%q) = (%q, %v), want (%q, %v)", tt.url, id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestSubmitSuccess(t *testing.T) {
	t.Parallel()

	s := New()
	if s.Phase() != PhaseIdle {
		t.Fatalf("initial phase = %v, want idle", s.Phase())
	}

	s.URLInput = "https://www.youtube.com/playlist?list=PL123"
	s.Index = 3
	fetcher := &fakeFetcher{videos: videos("a", "b")}

	id, ok, err := s.BeginSubmit()
	if err != nil || !ok || id != "PL123" {
		t.Fatalf("BeginSubmit() = (%q, %v, %v)", id, ok, err)
	}
	if s.Phase() != PhaseLoading {
		t.Fatalf("phase after BeginSubmit = %v, want loading", s.Phase())
	}

	got, fetchErr := fetcher.GetPlaylistVideos(context.Background(), id)
	s.FinishSubmit(got, fetchErr)

	if s.Phase() != PhaseLoaded {
		t.Errorf("phase = %v, want loaded", s.Phase())
	}
	if len(s.Videos) != 2 || s.Videos[0].ID != "a" || s.Videos[1].ID != "b" {
		t.Errorf("Videos = %+v", s.Videos)
	}
	if s.Index != 0 {
		t.Errorf("Index = %d, want 0", s.Index)
	}
	if s.Loading {
		t.Error("Loading still set")
	}
}

func TestSubmitInvalidURLSkipsFetch(t *testing.T) {
	t.Parallel()

	s := New()
	s.URLInput = "https://youtube.com/watch?v=abc"
	fetcher := &fakeFetcher{videos: videos("a")}

	if err := s.Submit(context.Background(), fetcher); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if len(fetcher.calls) != 0 {
		t.Errorf("fetcher called %d times, want 0", len(fetcher.calls))
	}
	if s.Error != MsgInvalidPlaylistURL {
		t.Errorf("Error = %q", s.Error)
	}
	if s.Phase() != PhaseError {
		t.Errorf("phase = %v, want error", s.Phase())
	}
}

func TestSubmitEmptyPlaylist(t *testing.T) {
	t.Parallel()

	s := New()
	s.URLInput = "https://www.youtube.com/playlist?list=PL123"

	if err := s.Submit(context.Background(), &fakeFetcher{videos: []models.Video{}}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if s.Error != MsgNoVideosFound {
		t.Errorf("Error = %q", s.Error)
	}
	if s.Videos == nil || len(s.Videos) != 0 {
		t.Errorf("Videos = %#v, want empty non-nil list", s.Videos)
	}
	if s.Phase() != PhaseError {
		t.Errorf("phase = %v, want error", s.Phase())
	}
}

func TestSubmitFailureClearsList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"message from resolver", errors.New("Playlist ID is required"), "Playlist ID is required"},
		{"no message", errors.New(""), MsgLoadFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := New()
			s.Videos = videos("old1", "old2")
			s.Index = 1
			s.URLInput = "https://www.youtube.com/playlist?list=PL123"

			if err := s.Submit(context.Background(), &fakeFetcher{err: tt.err}); err != nil {
				t.Fatalf("Submit() error = %v", err)
			}
			if s.Error != tt.wantMsg {
				t.Errorf("Error = %q, want %q", s.Error, tt.wantMsg)
			}
			if len(s.Videos) != 0 {
				t.Errorf("Videos = %+v, want cleared", s.Videos)
			}
			if s.Loading {
				t.Error("Loading still set")
			}
		})
	}
}

func TestSubmitClearsPreviousError(t *testing.T) {
	t.Parallel()

	s := New()
	s.Error = "old error"
	s.URLInput = "https://www.youtube.com/playlist?list=PL123"

	if err := s.Submit(context.Background(), &fakeFetcher{videos: videos("a")}); err != nil {
		t.Fatal(err)
	}
	if s.Error != "" {
		t.Errorf("Error = %q, want cleared", s.Error)
	}
}

func TestSubmitWhileLoading(t *testing.T) {
	t.Parallel()

	s := New()
	s.URLInput = "https://www.youtube.com/playlist?list=PL123"
	if _, ok, err := s.BeginSubmit(); !ok || err != nil {
		t.Fatalf("first BeginSubmit() = (%v, %v)", ok, err)
	}

	fetcher := &fakeFetcher{videos: videos("a")}
	if err := s.Submit(context.Background(), fetcher); !errors.Is(err, ErrBusy) {
		t.Errorf("Submit() while loading error = %v, want ErrBusy", err)
	}
	if len(fetcher.calls) != 0 {
		t.Error("fetcher called while a load was in progress")
	}
}

func TestEnded(t *testing.T) {
	t.Parallel()

	t.Run("empty list", func(t *testing.T) {
		s := New()
		if got := s.Ended(); got != ActionNone {
			t.Errorf("Ended() = %v, want ActionNone", got)
		}
	})

	t.Run("single video restarts", func(t *testing.T) {
		s := New()
		s.Videos = videos("only")
		for i := 0; i < 3; i++ {
			if got := s.Ended(); got != ActionRestart {
				t.Errorf("Ended() = %v, want ActionRestart", got)
			}
			if s.Index != 0 {
				t.Errorf("Index = %d, want 0", s.Index)
			}
		}
	})

	t.Run("advances and wraps", func(t *testing.T) {
		s := New()
		s.Videos = videos("a", "b", "c")
		want := []int{1, 2, 0, 1}
		for _, w := range want {
			if got := s.Ended(); got != ActionAdvance {
				t.Fatalf("Ended() = %v, want ActionAdvance", got)
			}
			if s.Index != w {
				t.Errorf("Index = %d, want %d", s.Index, w)
			}
		}
	})
}

func TestSelect(t *testing.T) {
	t.Parallel()

	s := New()
	s.Videos = videos("a", "b", "c")

	if !s.Select(2) || s.Index != 2 {
		t.Errorf("Select(2): Index = %d", s.Index)
	}
	if s.Select(3) || s.Select(-1) {
		t.Error("out of range Select reported success")
	}
	if s.Index != 2 {
		t.Errorf("Index changed by invalid Select: %d", s.Index)
	}

	s.Ended()
	if s.Index != 0 {
		t.Errorf("Ended() after Select(2): Index = %d, want 0", s.Index)
	}

	v, ok := s.Current()
	if !ok || v.ID != "a" {
		t.Errorf("Current() = (%+v, %v)", v, ok)
	}
}

func TestDismissErrorKeepsList(t *testing.T) {
	t.Parallel()

	s := New()
	s.Videos = videos("a", "b")
	s.Index = 1
	s.Error = "boom"

	s.DismissError()

	if s.Error != "" {
		t.Errorf("Error = %q", s.Error)
	}
	if len(s.Videos) != 2 || s.Index != 1 {
		t.Errorf("list or index changed: %+v %d", s.Videos, s.Index)
	}
	if s.Phase() != PhaseLoaded {
		t.Errorf("phase = %v, want loaded", s.Phase())
	}
}

func TestPlayerOptions(t *testing.T) {
	t.Parallel()

	s := New()
	s.Videos = videos("a", "b")
	opts := s.PlayerOptions()
	if !opts.Autoplay || !opts.Controls || opts.Related || !opts.ModestBranding {
		t.Errorf("unexpected base options: %+v", opts)
	}
	if opts.Loop || opts.Playlist != "" {
		t.Errorf("multi-video options loop: %+v", opts)
	}

	s.Videos = videos("solo")
	opts = s.PlayerOptions()
	if !opts.Loop || opts.Playlist != "solo" {
		t.Errorf("single-video options = %+v, want loop on solo", opts)
	}
}

func TestReady(t *testing.T) {
	t.Parallel()

	s := New()
	handle := &services.Playback{VideoID: "a"}
	s.Ready(handle)
	if s.Player != handle {
		t.Error("Ready did not store the player handle")
	}
}

func TestFetcherFunc(t *testing.T) {
	t.Parallel()

	var gotID string
	f := FetcherFunc(func(_ context.Context, id string) ([]models.Video, error) {
		gotID = id
		return videos("x"), nil
	})

	s := New()
	s.URLInput = "https://www.youtube.com/playlist?list=PLfn"
	if err := s.Submit(context.Background(), f); err != nil {
		t.Fatal(err)
	}
	if gotID != "PLfn" || len(s.Videos) != 1 {
		t.Errorf("gotID = %q, videos = %+v", gotID, s.Videos)
	}
}
