package services

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/andybalholm/brotli"

	"github.com/sangnt1552314/ytloop/internal/logging"
	"github.com/sangnt1552314/ytloop/internal/metrics"
	"github.com/sangnt1552314/ytloop/internal/models"
)

// MaxPlaylistResults is the page size requested from playlistItems.list.
// Only the first page is fetched.
const MaxPlaylistResults = 50

type ResolverConfig struct {
	APIKey  string
	BaseURL string
	// HTTPClient defaults to a client without timeout.
	HTTPClient *http.Client
}

// Resolver turns a playlist ID into the list of videos in that playlist using
// the YouTube Data API. It holds no per-request state and is safe for
// concurrent use.
type Resolver struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewResolver(cfg ResolverConfig) *Resolver {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	return &Resolver{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  client,
	}
}

// Resolve fetches the first page of the playlist and maps it to videos in
// upstream order. Every failure is a *ResolveError.
func (r *Resolver) Resolve(ctx context.Context, playlistID string) ([]models.Video, error) {
	videos, err := r.resolve(ctx, playlistID)
	if err != nil {
		re := AsResolveError(err)
		metrics.PlaylistResolvesTotal.WithLabelValues(string(re.Kind)).Inc()
		if re.Kind == KindInternalError {
			logging.Error("Error fetching playlist %q: %v", playlistID, re.Cause)
		} else {
			logging.Warn("Playlist %q not resolved: %v", playlistID, re)
		}
		return nil, re
	}

	metrics.PlaylistResolvesTotal.WithLabelValues("ok").Inc()
	metrics.PlaylistVideosReturned.Observe(float64(len(videos)))
	logging.Debug("Resolved playlist %q to %d videos", playlistID, len(videos))
	return videos, nil
}

func (r *Resolver) resolve(ctx context.Context, playlistID string) ([]models.Video, error) {
	if playlistID == "" {
		return nil, newInvalidRequest()
	}
	if r.apiKey == "" {
		return nil, newConfigurationError()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.playlistItemsURL(playlistID), nil)
	if err != nil {
		return nil, newInternalError(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "br, gzip")

	start := time.Now()
	resp, err := r.client.Do(req)
	metrics.UpstreamRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, newInternalError(fmt.Errorf("youtube request failed: %w", err))
	}
	defer resp.Body.Close()

	var payload models.PlaylistItemsResponse
	body, decodeErr := decodedBody(resp)
	if decodeErr == nil {
		decodeErr = json.NewDecoder(body).Decode(&payload)
	}

	// An unreadable error body still reports the upstream status.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var message string
		if decodeErr == nil && payload.Error != nil {
			message = payload.Error.Message
		}
		return nil, newUpstreamError(resp.StatusCode, message)
	}
	if decodeErr != nil {
		return nil, newInternalError(fmt.Errorf("decode playlist response: %w", decodeErr))
	}

	if !payload.HasItemList() {
		return nil, newInvalidResponse()
	}
	items, err := payload.DecodeItems()
	if err != nil {
		logging.Debug("Playlist %q items did not match schema: %v", playlistID, err)
		return nil, newInvalidResponse()
	}

	videos := make([]models.Video, 0, len(items))
	for _, item := range items {
		if video, ok := item.ToVideo(); ok {
			videos = append(videos, video)
		}
	}
	return videos, nil
}

func (r *Resolver) playlistItemsURL(playlistID string) string {
	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("maxResults", strconv.Itoa(MaxPlaylistResults))
	q.Set("playlistId", playlistID)
	q.Set("key", r.apiKey)
	return r.baseURL + "/playlistItems?" + q.Encode()
}

// decodedBody unwraps the response body according to Content-Encoding. The
// transport does not do this itself because Accept-Encoding is set by hand.
func decodedBody(resp *http.Response) (io.Reader, error) {
	switch strings.ToLower(resp.Header.Get("Content-Encoding")) {
	case "br":
		return brotli.NewReader(resp.Body), nil
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return gz, nil
	default:
		return resp.Body, nil
	}
}
