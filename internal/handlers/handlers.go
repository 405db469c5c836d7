package handlers

import (
	"context"
	"net/http"

	"github.com/sangnt1552314/ytloop/internal/models"
	"github.com/sangnt1552314/ytloop/internal/services"
)

// PlaylistResolver is the part of services.Resolver the handlers need.
type PlaylistResolver interface {
	Resolve(ctx context.Context, playlistID string) ([]models.Video, error)
}

type Handlers struct {
	resolver PlaylistResolver
}

func New(resolver PlaylistResolver) *Handlers {
	return &Handlers{resolver: resolver}
}

// GetPlaylist serves GET /api/playlist?playlistId=...
func (h *Handlers) GetPlaylist(w http.ResponseWriter, r *http.Request) {
	playlistID := r.URL.Query().Get("playlistId")

	videos, err := h.resolver.Resolve(r.Context(), playlistID)
	if err != nil {
		re := services.AsResolveError(err)
		writeJSONError(w, re.Message, re.Status)
		return
	}

	if videos == nil {
		videos = []models.Video{}
	}
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, models.PlaylistResponse{Videos: videos})
}

// HealthCheck reports that the process is serving requests.
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSONStatus(w, "ok")
}
