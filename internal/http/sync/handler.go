package sync

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pocket/internal/cloudsync"
	"github.com/MrJamesThe3rd/pocket/internal/remote"
)

type Handler struct {
	svc *cloudsync.Service
}

func NewHandler(svc *cloudsync.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.run(h.svc.Sync))
	r.Post("/push", h.run(h.svc.Push))
	r.Post("/pull", h.run(h.svc.Pull))
}

type syncResponse struct {
	SyncID   string    `json:"sync_id"`
	Local    int       `json:"local"`
	Remote   int       `json:"remote"`
	Merged   int       `json:"merged"`
	SyncedAt time.Time `json:"synced_at"`
	Warning  string    `json:"warning,omitempty"`
}

func (h *Handler) run(op func(context.Context) (*cloudsync.Result, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := op(r.Context())
		if err != nil {
			switch {
			case errors.Is(err, cloudsync.ErrSyncDisabled):
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
			case errors.Is(err, remote.ErrNoSnapshot):
				http.Error(w, err.Error(), http.StatusNotFound)
			default:
				slog.Error("sync failed", "error", err)
				http.Error(w, err.Error(), http.StatusBadGateway)
			}

			return
		}

		resp := syncResponse{
			SyncID:   res.SyncID,
			Local:    res.Local,
			Remote:   res.Remote,
			Merged:   res.Merged,
			SyncedAt: res.SyncedAt,
			Warning:  res.Warning(),
		}

		w.Header().Set("Content-Type", "application/json")

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}
