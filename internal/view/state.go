// Package view holds the playback view state: the playlist URL the user
// typed, the resolved videos, which one is playing, and the error banner.
//
// State is not safe for concurrent use. The terminal UI mutates it only from
// its event loop.
package view

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/sangnt1552314/ytloop/internal/models"
	"github.com/sangnt1552314/ytloop/internal/services"
)

const (
	MsgInvalidPlaylistURL = "Invalid playlist URL. Please enter a valid YouTube playlist URL."
	MsgNoVideosFound      = "No videos found in this playlist."
	MsgLoadFailed         = "Failed to load playlist videos."
)

// ErrorTimeout is how long an error stays visible before it is dismissed
// automatically.
const ErrorTimeout = 6 * time.Second

// ErrBusy is returned by Submit while a previous load is still running.
var ErrBusy = errors.New("playlist load already in progress")

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Action tells the UI what to do with the player after a video ended.
type Action int

const (
	ActionNone Action = iota
	// ActionRestart replays the current video.
	ActionRestart
	// ActionAdvance plays the video at the new Index.
	ActionAdvance
)

// Fetcher loads the videos of a playlist.
type Fetcher interface {
	GetPlaylistVideos(ctx context.Context, playlistID string) ([]models.Video, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, playlistID string) ([]models.Video, error)

func (f FetcherFunc) GetPlaylistVideos(ctx context.Context, playlistID string) ([]models.Video, error) {
	return f(ctx, playlistID)
}

// PlayerOptions mirrors the embed parameters of the active player.
type PlayerOptions struct {
	Autoplay       bool
	Controls       bool
	Related        bool
	ModestBranding bool
	PlaysInline    bool
	Loop           bool
	// Playlist is set with Loop: a one-item playlist of the same video.
	Playlist string
}

type State struct {
	URLInput string
	Videos   []models.Video
	Index    int
	Loading  bool
	Error    string

	// Player is the playback reported by the last Ready event. End events
	// from any other playback are stale.
	Player *services.Playback
}

func New() *State {
	return &State{}
}

var playlistIDPattern = regexp.MustCompile(`[&?]list=([^&]+)`)

// ExtractPlaylistID returns the value of the first list= query parameter.
func ExtractPlaylistID(rawURL string) (string, bool) {
	m := playlistIDPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Phase derives the current phase. An empty playlist keeps its (empty) list
// and reports error until the message is dismissed.
func (s *State) Phase() Phase {
	switch {
	case s.Loading:
		return PhaseLoading
	case s.Error != "":
		return PhaseError
	case len(s.Videos) > 0:
		return PhaseLoaded
	default:
		return PhaseIdle
	}
}

// Current returns the video at Index.
func (s *State) Current() (models.Video, bool) {
	if s.Index < 0 || s.Index >= len(s.Videos) {
		return models.Video{}, false
	}
	return s.Videos[s.Index], true
}

// BeginSubmit validates URLInput and switches to loading. It returns the
// playlist ID to fetch, or ok=false when there is nothing to fetch.
func (s *State) BeginSubmit() (playlistID string, ok bool, err error) {
	if s.Loading {
		return "", false, ErrBusy
	}
	s.Error = ""

	id, found := ExtractPlaylistID(s.URLInput)
	if !found {
		s.Error = MsgInvalidPlaylistURL
		return "", false, nil
	}

	s.Loading = true
	return id, true, nil
}

// FinishSubmit applies the outcome of the fetch started by BeginSubmit.
func (s *State) FinishSubmit(videos []models.Video, err error) {
	s.Loading = false

	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = MsgLoadFailed
		}
		s.Error = msg
		s.Videos = nil
		s.Index = 0
		return
	}

	if videos == nil {
		videos = []models.Video{}
	}
	s.Videos = videos
	s.Index = 0
	if len(videos) == 0 {
		s.Error = MsgNoVideosFound
	}
}

// Submit runs a whole submission synchronously.
func (s *State) Submit(ctx context.Context, fetcher Fetcher) error {
	id, ok, err := s.BeginSubmit()
	if err != nil || !ok {
		return err
	}
	videos, err := fetcher.GetPlaylistVideos(ctx, id)
	s.FinishSubmit(videos, err)
	return nil
}

// Ended handles the end of the current video. A single video is replayed;
// otherwise playback moves on and wraps after the last video.
func (s *State) Ended() Action {
	switch n := len(s.Videos); {
	case n == 0:
		return ActionNone
	case n == 1:
		return ActionRestart
	default:
		s.Index = (s.Index + 1) % n
		return ActionAdvance
	}
}

// Ready records the playback that is now active.
func (s *State) Ready(player *services.Playback) {
	s.Player = player
}

// Select jumps to video k. Out of range values are ignored.
func (s *State) Select(k int) bool {
	if k < 0 || k >= len(s.Videos) {
		return false
	}
	s.Index = k
	return true
}

func (s *State) DismissError() {
	s.Error = ""
}

// PlayerOptions returns the embed parameters for the current list. Native
// looping is only enabled for single-video playlists, alongside the restart
// done by Ended.
func (s *State) PlayerOptions() PlayerOptions {
	opts := PlayerOptions{
		Autoplay:       true,
		Controls:       true,
		Related:        false,
		ModestBranding: true,
		PlaysInline:    true,
	}
	if len(s.Videos) == 1 {
		opts.Loop = true
		opts.Playlist = s.Videos[0].ID
	}
	return opts
}
