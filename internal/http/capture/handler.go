package capture

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pocket/internal/capture"
	"github.com/MrJamesThe3rd/pocket/internal/encoding"
)

const maxTextBytes = 64 << 10

type Handler struct {
	svc *capture.Service
}

func NewHandler(svc *capture.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/parse", h.parse)
	r.Post("/", h.capture)
	r.Get("/prefill", h.prefill)
}

type textRequest struct {
	Text string `json:"text"`
}

// readText accepts either a JSON {"text": ...} body or raw text in any
// charset the encoding package understands.
func readText(w http.ResponseWriter, r *http.Request) (string, error) {
	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		mediaType = "text/plain"
	}

	if mediaType == "application/json" {
		var req textRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxTextBytes)).Decode(&req); err != nil {
			return "", err
		}

		return req.Text, nil
	}

	return encoding.ReadString(r.Body, params["charset"], maxTextBytes)
}

func (h *Handler) parse(w http.ResponseWriter, r *http.Request) {
	text, err := readText(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(h.svc.Parse(text)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) capture(w http.ResponseWriter, r *http.Request) {
	text, err := readText(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := h.svc.Capture(r.Context(), text)
	if err != nil {
		if errors.Is(err, capture.ErrUnparsed) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(rec); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) prefill(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(h.svc.Prefill(r.URL.Query())); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
