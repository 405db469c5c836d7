package models

import (
	"bytes"
	"encoding/json"
)

const (
	DefaultVideoTitle     = "Untitled Video"
	DefaultVideoThumbnail = ""
)

type Video struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
}

// PlaylistResponse is the body returned by the resolver endpoint on success.
type PlaylistResponse struct {
	Videos []Video `json:"videos"`
}

// ErrorResponse is the body returned by the resolver endpoint on failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

// PlaylistItemsResponse mirrors the playlistItems.list response of the
// YouTube Data API. Items stays raw so its shape can be checked before
// decoding the entries.
type PlaylistItemsResponse struct {
	Items json.RawMessage `json:"items"`
	Error *YouTubeAPIError `json:"error,omitempty"`
}

type YouTubeAPIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type PlaylistItem struct {
	Snippet struct {
		Title      string `json:"title"`
		ResourceID struct {
			VideoID string `json:"videoId"`
		} `json:"resourceId"`
		Thumbnails struct {
			Default struct {
				Url string `json:"url"`
			} `json:"default"`
		} `json:"thumbnails"`
	} `json:"snippet"`
}

// HasItemList reports whether the payload carries an items array.
func (r *PlaylistItemsResponse) HasItemList() bool {
	trimmed := bytes.TrimSpace(r.Items)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// DecodeItems decodes the items array. Callers check HasItemList first.
func (r *PlaylistItemsResponse) DecodeItems() ([]PlaylistItem, error) {
	var items []PlaylistItem
	if err := json.Unmarshal(r.Items, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ToVideo maps an upstream item, filling in the default title and thumbnail.
// ok is false when the item has no usable id or title.
func (item PlaylistItem) ToVideo() (Video, bool) {
	video := Video{
		ID:        item.Snippet.ResourceID.VideoID,
		Title:     item.Snippet.Title,
		Thumbnail: item.Snippet.Thumbnails.Default.Url,
	}
	if video.Title == "" {
		video.Title = DefaultVideoTitle
	}
	if video.Thumbnail == "" {
		video.Thumbnail = DefaultVideoThumbnail
	}
	return video, video.ID != "" && video.Title != ""
}
