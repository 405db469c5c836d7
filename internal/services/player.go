package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/sangnt1552314/ytloop/internal/logging"
)

const (
	PlayerStopped = "stopped"
	PlayerPlaying = "playing"
)

// ErrStopped is delivered on Playback.Done when the process was stopped by
// the caller instead of reaching the end of the video.
var ErrStopped = errors.New("playback stopped")

// ErrSuperseded is returned by Play when a later Play, Begin or Stop call was
// made before this one could start its process.
var ErrSuperseded = errors.New("playback superseded")

// PlayOptions controls how the media player process is started.
type PlayOptions struct {
	// Loop asks the player to repeat the video natively.
	Loop bool
}

// Playback is one running player process. Done receives exactly one value
// when the process exits: nil when the video played to the end.
type Playback struct {
	VideoID string
	Done    <-chan error

	cmd     *exec.Cmd
	stopped bool
}

// MediaPlayer plays videos in an external player (mpv, vlc or mplayer). Only
// one video plays at a time; starting another stops the current one.
type MediaPlayer struct {
	mu      sync.Mutex
	binary  string
	streams StreamResolver
	current *Playback
	// gen is bumped by Begin and Stop; only the newest Begin may start a
	// process.
	gen uint64
}

// NewMediaPlayer uses binary when set, otherwise the first supported player
// found on this system. streams is used for players that cannot open YouTube
// watch pages themselves.
func NewMediaPlayer(binary string, streams StreamResolver) (*MediaPlayer, error) {
	if binary == "" {
		binary = detectPlayer()
	}
	if binary == "" {
		return nil, fmt.Errorf("no suitable media player found")
	}
	return &MediaPlayer{binary: binary, streams: streams}, nil
}

func (p *MediaPlayer) Binary() string {
	return p.binary
}

// Play stops whatever is playing and starts videoID. When another Play call
// begins while this one is still resolving the stream, this one returns
// ErrSuperseded without touching the running playback.
func (p *MediaPlayer) Play(ctx context.Context, videoID string, opts PlayOptions) (*Playback, error) {
	return p.PlayAs(ctx, p.Begin(), videoID, opts)
}

// Begin claims the player for the next video and returns the generation to
// pass to PlayAs. Callers that start playback from goroutines take the
// generation first so the order of their requests is kept.
func (p *MediaPlayer) Begin() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	return p.gen
}

// PlayAs is Play for a generation obtained from Begin.
func (p *MediaPlayer) PlayAs(ctx context.Context, gen uint64, videoID string, opts PlayOptions) (*Playback, error) {
	target := WatchURL(videoID)
	kind := playerKind(p.binary)
	if needsStreamURL(kind) && p.streams != nil {
		streamURL, err := p.streams.StreamURL(ctx, videoID)
		if err != nil {
			return nil, fmt.Errorf("resolve stream for %s: %w", videoID, err)
		}
		target = streamURL
	}
	return p.start(gen, videoID, target, opts)
}

func (p *MediaPlayer) start(gen uint64, videoID, target string, opts PlayOptions) (*Playback, error) {
	kind := playerKind(p.binary)

	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.gen {
		logging.Debug("Not starting %s: a newer video was requested", videoID)
		return nil, ErrSuperseded
	}
	p.stopLocked()

	cmd := exec.Command(p.binary, playerArgs(kind, target, opts)...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", p.binary, err)
	}

	done := make(chan error, 1)
	playback := &Playback{VideoID: videoID, Done: done, cmd: cmd}
	p.current = playback
	logging.Info("Playing %s with %s (loop=%t)", videoID, filepath.Base(p.binary), opts.Loop)

	go func() {
		err := cmd.Wait()
		p.mu.Lock()
		if playback.stopped {
			err = ErrStopped
		}
		if p.current == playback {
			p.current = nil
		}
		p.mu.Unlock()
		done <- err
	}()

	return playback, nil
}

// Stop ends the current playback, if any, and cancels pending Play calls.
func (p *MediaPlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	p.stopLocked()
}

// State returns PlayerPlaying while a process is running.
func (p *MediaPlayer) State() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return PlayerStopped
	}
	return PlayerPlaying
}

func (p *MediaPlayer) stopLocked() {
	if p.current == nil {
		return
	}
	cur := p.current
	cur.stopped = true
	p.current = nil
	if cur.cmd.Process == nil {
		return
	}
	if runtime.GOOS != "windows" {
		_ = cur.cmd.Process.Kill()
	} else {
		_ = exec.Command("taskkill", "/F", "/T", "/PID", fmt.Sprint(cur.cmd.Process.Pid)).Run()
	}
}

func playerKind(binary string) string {
	name := strings.ToLower(filepath.Base(binary))
	name = strings.TrimSuffix(name, ".exe")
	switch name {
	case "mpv":
		return "mpv"
	case "vlc", "cvlc":
		return "vlc"
	case "mplayer":
		return "mplayer"
	default:
		return name
	}
}

// needsStreamURL reports whether the player cannot open watch pages itself.
// mpv hands them to its ytdl hook.
func needsStreamURL(kind string) bool {
	return kind == "vlc" || kind == "mplayer"
}

func playerArgs(kind, target string, opts PlayOptions) []string {
	var args []string
	switch kind {
	case "mpv":
		args = append(args, "--really-quiet", "--force-window=yes")
		if opts.Loop {
			args = append(args, "--loop-file=inf")
		}
	case "vlc":
		args = append(args, "--play-and-exit", "--no-video-title-show")
		if opts.Loop {
			args = append(args, "--repeat")
		}
	case "mplayer":
		args = append(args, "-really-quiet")
		if opts.Loop {
			args = append(args, "-loop", "0")
		}
	}
	return append(args, target)
}

func detectPlayer() string {
	switch runtime.GOOS {
	case "darwin":
		candidates := []string{
			"/Applications/VLC.app/Contents/MacOS/VLC",
			filepath.Join(os.Getenv("HOME"), "Applications/VLC.app/Contents/MacOS/VLC"),
		}
		if path, err := exec.LookPath("mpv"); err == nil {
			return path
		}
		for _, path := range candidates {
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	case "windows":
		candidates := []string{
			filepath.Join(os.Getenv("ProgramFiles"), "mpv", "mpv.exe"),
			filepath.Join(os.Getenv("ProgramFiles(x86)"), "VideoLAN", "VLC", "vlc.exe"),
			filepath.Join(os.Getenv("ProgramFiles"), "VideoLAN", "VLC", "vlc.exe"),
		}
		for _, path := range candidates {
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	default:
		for _, player := range []string{"mpv", "vlc", "mplayer"} {
			if path, err := exec.LookPath(player); err == nil {
				return path
			}
		}
	}
	return ""
}
