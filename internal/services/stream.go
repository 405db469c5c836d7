package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/kkdai/youtube/v2"
	ytdlp "github.com/lrstanley/go-ytdlp"

	"github.com/sangnt1552314/ytloop/internal/logging"
)

// StreamResolver turns a video ID into a URL a media player can open
// directly.
type StreamResolver interface {
	StreamURL(ctx context.Context, videoID string) (string, error)
}

// WatchURL is the canonical page URL of a video.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// YouTubeStreamResolver resolves stream URLs with the kkdai/youtube client,
// preferring muxed mp4 formats so the player gets both picture and sound.
type YouTubeStreamResolver struct {
	Client youtube.Client
}

func (r *YouTubeStreamResolver) StreamURL(ctx context.Context, videoID string) (string, error) {
	logging.Debug("Getting stream url for videoId: %s", videoID)

	video, err := r.Client.GetVideoContext(ctx, videoID)
	if err != nil {
		return "", fmt.Errorf("failed to get video: %w", err)
	}

	formats := video.Formats.WithAudioChannels()
	if muxed := formats.Type("video/mp4"); len(muxed) > 0 {
		formats = muxed
	}
	if len(formats) == 0 {
		return "", fmt.Errorf("no playable format for video %s", videoID)
	}
	formats.Sort()

	return r.Client.GetStreamURLContext(ctx, video, &formats[0])
}

// YtDlpStreamResolver asks yt-dlp for the best stream URL. Path overrides
// the executable; otherwise a bundled tools/yt-dlp is used when present and
// go-ytdlp falls back to its own lookup.
type YtDlpStreamResolver struct {
	Path string
}

func DefaultYtDlpPath() string {
	if runtime.GOOS == "windows" {
		return "tools/yt-dlp.exe"
	}
	return "tools/yt-dlp"
}

func (r *YtDlpStreamResolver) StreamURL(ctx context.Context, videoID string) (string, error) {
	cmd := ytdlp.New().
		Format("best").
		NoWarnings().
		NoPlaylist().
		Quiet().
		GetURL()

	path := r.Path
	if path == "" {
		if _, err := os.Stat(DefaultYtDlpPath()); err == nil {
			path = DefaultYtDlpPath()
		}
	}
	if path != "" {
		cmd = cmd.SetExecutable(path)
	}

	res, err := cmd.Run(ctx, WatchURL(videoID))
	if err != nil {
		if res != nil && res.Stderr != "" {
			logging.Warn("yt-dlp failed with stderr: %s", res.Stderr)
		}
		return "", fmt.Errorf("yt-dlp: %w", err)
	}

	for _, line := range strings.Split(res.Stdout, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			return s, nil
		}
	}
	return "", fmt.Errorf("yt-dlp returned no url for video %s", videoID)
}

// FallbackStreamResolver tries each resolver in order and returns the first
// URL obtained.
type FallbackStreamResolver []StreamResolver

func (f FallbackStreamResolver) StreamURL(ctx context.Context, videoID string) (string, error) {
	var errs []error
	for _, r := range f {
		u, err := r.StreamURL(ctx, videoID)
		if err == nil {
			return u, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return "", errors.New("no stream resolver configured")
	}
	return "", errors.Join(errs...)
}
