package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sangnt1552314/ytloop/internal/logging"
	"github.com/sangnt1552314/ytloop/internal/models"
)

// PlaylistClient calls the resolver endpoint. It is what the player uses to
// load a playlist and never sees the YouTube API key.
type PlaylistClient struct {
	baseURL string
	client  *http.Client
}

func NewPlaylistClient(baseURL string, client *http.Client) *PlaylistClient {
	if client == nil {
		client = &http.Client{}
	}
	return &PlaylistClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// GetPlaylistVideos returns the videos of a playlist. On failure the error
// text is the resolver's own message when it sent one.
func (c *PlaylistClient) GetPlaylistVideos(ctx context.Context, playlistID string) ([]models.Video, error) {
	endpoint := c.baseURL + "/api/playlist?playlistId=" + url.QueryEscape(playlistID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		logging.Error("Error in GetPlaylistVideos: %v", err)
		return nil, fmt.Errorf("resolver request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body models.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&body)
		if body.Error == "" {
			body.Error = MsgFetchVideosFailed
		}
		logging.Warn("Resolver returned %d for playlist %q: %s", resp.StatusCode, playlistID, body.Error)
		return nil, errors.New(body.Error)
	}

	var body models.PlaylistResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		logging.Error("Error decoding resolver response: %v", err)
		return nil, fmt.Errorf("decode resolver response: %w", err)
	}
	if body.Videos == nil {
		body.Videos = []models.Video{}
	}
	return body.Videos, nil
}
