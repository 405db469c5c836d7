package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/sangnt1552314/ytloop/internal/config"
	"github.com/sangnt1552314/ytloop/internal/logging"
	"github.com/sangnt1552314/ytloop/internal/services"
	"github.com/sangnt1552314/ytloop/internal/view"
)

const loadLabel = "Load Playlist"

// Player is the part of services.MediaPlayer the UI drives.
type Player interface {
	Begin() uint64
	PlayAs(ctx context.Context, gen uint64, videoID string, opts services.PlayOptions) (*services.Playback, error)
	Stop()
	State() string
}

type App struct {
	app    *tview.Application
	ctx    context.Context
	state  *view.State
	client view.Fetcher
	player Player

	// queue runs f on the UI goroutine.
	queue func(f func())
	// play_gen is the player generation of the latest playCurrent.
	play_gen uint64

	url_input   *tview.InputField
	load_button *tview.Button
	video_list  *tview.List
	playing_box *tview.TextView
	status_box  *tview.TextView
}

func NewApp(ctx context.Context, client view.Fetcher, player Player) *App {
	button := tview.NewButton(loadLabel)
	button.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack))
	button.SetActivatedStyle(tcell.StyleDefault.Background(tcell.ColorDarkGreen))

	a := &App{
		app:         tview.NewApplication(),
		ctx:         ctx,
		state:       view.New(),
		client:      client,
		player:      player,
		url_input:   tview.NewInputField(),
		load_button: button,
		video_list:  tview.NewList(),
		playing_box: tview.NewTextView().SetTextAlign(tview.AlignCenter),
		status_box:  tview.NewTextView().SetDynamicColors(true),
	}
	a.queue = func(f func()) { a.app.QueueUpdateDraw(f) }
	return a
}

func (a *App) submit() {
	if a.state.Loading {
		return
	}
	a.state.URLInput = a.url_input.GetText()

	playlistID, ok, err := a.state.BeginSubmit()
	if err != nil {
		logging.Debug("Submit ignored: %v", err)
		return
	}
	if !ok {
		a.showError()
		return
	}

	a.setLoading(true)
	a.renderStatus()

	go func() {
		videos, err := a.client.GetPlaylistVideos(a.ctx, playlistID)
		a.queue(func() {
			a.state.FinishSubmit(videos, err)
			a.setLoading(false)
			a.renderList()
			if a.state.Error != "" {
				a.showError()
			}
			if len(a.state.Videos) == 0 {
				a.player.Stop()
				a.renderNowPlaying()
				return
			}
			a.renderStatus()
			a.app.SetFocus(a.video_list)
			a.playCurrent()
		})
	}()
}

func (a *App) setLoading(loading bool) {
	a.url_input.SetDisabled(loading)
	a.load_button.SetDisabled(loading)
	if loading {
		a.load_button.SetLabel("Loading...")
	} else {
		a.load_button.SetLabel(loadLabel)
	}
}

// playCurrent starts the video at the current index. Player start-up (and
// stream resolution for some players) happens off the UI goroutine; results
// of an older playCurrent are dropped.
func (a *App) playCurrent() {
	video, ok := a.state.Current()
	if !ok {
		return
	}
	opts := services.PlayOptions{Loop: a.state.PlayerOptions().Loop}
	gen := a.player.Begin()
	a.play_gen = gen
	a.renderNowPlaying()

	go func() {
		playback, err := a.player.PlayAs(a.ctx, gen, video.ID, opts)
		a.queue(func() {
			if gen != a.play_gen || errors.Is(err, services.ErrSuperseded) {
				return
			}
			if err != nil {
				logging.Error("Error playing %s: %v", video.ID, err)
				a.state.Error = fmt.Sprintf("Could not play %q: %v", video.Title, err)
				a.showError()
				return
			}
			a.state.Ready(playback)
			a.renderNowPlaying()
		})
		if err == nil {
			a.watch(playback)
		}
	}()
}

// watch waits for the player process and feeds its end into the state.
func (a *App) watch(playback *services.Playback) {
	err := <-playback.Done
	a.queue(func() {
		if a.state.Player != playback || errors.Is(err, services.ErrStopped) {
			return
		}
		if err != nil {
			logging.Warn("Player exited with error for %s: %v", playback.VideoID, err)
			a.state.Error = "Playback stopped: " + err.Error()
			a.showError()
			a.renderNowPlaying()
			return
		}

		switch a.state.Ended() {
		case view.ActionRestart:
			a.playCurrent()
		case view.ActionAdvance:
			a.video_list.SetCurrentItem(a.state.Index)
			a.playCurrent()
		}
	})
}

// selectVideo jumps to the chosen entry right away, cutting the current
// video short.
func (a *App) selectVideo(index int) {
	if a.state.Select(index) {
		a.playCurrent()
	}
}

func (a *App) renderList() {
	a.video_list.Clear()
	for i, video := range a.state.Videos {
		a.video_list.AddItem(fmt.Sprintf("%d. %s", i+1, video.Title), video.Thumbnail, 0, nil)
	}
	if len(a.state.Videos) > 0 {
		a.video_list.SetCurrentItem(a.state.Index)
	}
	a.video_list.SetTitle(fmt.Sprintf("Playlist Videos (%d)", len(a.state.Videos)))
}

func (a *App) renderNowPlaying() {
	video, ok := a.state.Current()
	if !ok {
		a.playing_box.SetText("No Playing Video")
		a.playing_box.SetTextColor(tcell.ColorYellow)
		a.playing_box.SetTitle(" 0 / 0 ")
		return
	}

	text := "Now Playing: " + video.Title
	if a.state.PlayerOptions().Loop {
		text += " (looping)"
	}
	a.playing_box.SetText(text)
	if a.player.State() == services.PlayerPlaying {
		a.playing_box.SetTextColor(tcell.ColorGreen)
	} else {
		a.playing_box.SetTextColor(tcell.ColorYellow)
	}
	a.playing_box.SetTitle(fmt.Sprintf(" %d / %d ", a.state.Index+1, len(a.state.Videos)))
}

func (a *App) renderStatus() {
	switch a.state.Phase() {
	case view.PhaseLoading:
		a.status_box.SetText("[yellow]Loading playlist...")
	case view.PhaseError:
		a.status_box.SetText("[red]" + tview.Escape(a.state.Error) + " [gray](Esc to dismiss)")
	case view.PhaseLoaded:
		a.status_box.SetText(fmt.Sprintf("[green]%d videos loaded", len(a.state.Videos)))
	default:
		a.status_box.SetText("Enter a playlist URL and press Enter")
	}
}

// showError renders the current error and dismisses it after
// view.ErrorTimeout unless it was replaced or dismissed in the meantime.
func (a *App) showError() {
	a.renderStatus()
	message := a.state.Error
	if message == "" {
		return
	}
	time.AfterFunc(view.ErrorTimeout, func() {
		a.queue(func() {
			if a.state.Error == message {
				a.dismissError()
			}
		})
	})
}

func (a *App) dismissError() {
	a.state.DismissError()
	a.renderStatus()
}

func (a *App) quit() {
	a.player.Stop()
	a.app.Stop()
}

func main() {
	config.LoadEnvFile()

	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to tview, so logs go to a file
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		panic(fmt.Errorf("failed to create logs directory: %w", err))
	}
	logFile, err := os.OpenFile(cfg.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		panic(err)
	}
	defer logFile.Close()
	logging.SetOutput(logFile)
	logging.SetLevel(cfg.LogLevel)

	streams := services.FallbackStreamResolver{
		&services.YouTubeStreamResolver{},
		&services.YtDlpStreamResolver{},
	}
	player, err := services.NewMediaPlayer(cfg.MediaPlayer, streams)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v: install mpv or vlc, or set MEDIA_PLAYER\n", err)
		os.Exit(1)
	}
	logging.Info("Using media player %s, resolver %s", player.Binary(), cfg.ResolverURL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := services.NewPlaylistClient(cfg.ResolverURL, &http.Client{})
	app := NewApp(ctx, client, player)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		sig := <-c
		logging.Info("Received signal %v, cleaning up...", sig)
		cancel()
		app.quit()
	}()

	app.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch {
		case event.Key() == tcell.KeyCtrlC:
			app.quit()
			return nil
		case event.Key() == tcell.KeyEscape && app.state.Error != "":
			app.dismissError()
			return nil
		case event.Key() == tcell.KeyTab:
			if app.url_input.HasFocus() {
				app.app.SetFocus(app.video_list)
			} else {
				app.app.SetFocus(app.url_input)
			}
			return nil
		case event.Rune() == 'q' && !app.url_input.HasFocus():
			app.quit()
			return nil
		}
		return event
	})

	// Header - URL input and load button
	app.url_input.SetLabel("Playlist URL: ")
	app.url_input.SetPlaceholder("https://www.youtube.com/playlist?list=...")
	app.url_input.SetFieldBackgroundColor(tcell.ColorNone)
	app.url_input.SetFieldTextColor(tcell.ColorWhite)
	app.url_input.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			app.submit()
		}
	})
	app.load_button.SetSelectedFunc(app.submit)

	header_box := tview.NewFlex().SetDirection(tview.FlexColumn)
	header_box.SetBorder(true)
	header_box.SetTitle("YouTube Playlist Streamer")
	header_box.SetTitleAlign(tview.AlignLeft)
	header_box.AddItem(app.url_input, 0, 5, true)
	header_box.AddItem(app.load_button, len(loadLabel)+4, 0, false)

	// Playlist
	app.video_list.ShowSecondaryText(false)
	app.video_list.SetBorder(true)
	app.video_list.SetTitle("Playlist Videos")
	app.video_list.SetTitleAlign(tview.AlignLeft)
	app.video_list.SetSelectedFunc(func(index int, _ string, _ string, _ rune) {
		app.selectVideo(index)
	})

	// Player
	app.playing_box.SetBorder(true)
	app.renderNowPlaying()

	app.status_box.SetBorder(true)
	app.status_box.SetTitle("Status")
	app.status_box.SetTitleAlign(tview.AlignLeft)
	app.renderStatus()

	main_box := tview.NewFlex().SetDirection(tview.FlexRow)
	main_box.AddItem(header_box, 3, 0, true)
	main_box.AddItem(app.video_list, 0, 1, false)
	main_box.AddItem(app.playing_box, 3, 0, false)
	main_box.AddItem(app.status_box, 3, 0, false)

	if err := app.app.
		SetRoot(main_box, true).
		EnableMouse(true).
		Run(); err != nil {
		panic(err)
	}
}
