package categories

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pocket/internal/record"
)

type Handler struct {
	svc *record.Service
}

func NewHandler(svc *record.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Put("/custom", h.setCustom)
}

type categoriesResponse struct {
	Expense []record.Category `json:"expense"`
	Income  []record.Category `json:"income"`
	Custom  []json.RawMessage `json:"custom"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	custom, err := h.svc.CustomCategories(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if custom == nil {
		custom = []json.RawMessage{}
	}

	catalog := h.svc.Catalog()

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(categoriesResponse{
		Expense: catalog[record.KindExpense],
		Income:  catalog[record.KindIncome],
		Custom:  custom,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// setCustom stores the custom categories as given; they travel with the
// remote snapshot but are not interpreted.
func (h *Handler) setCustom(w http.ResponseWriter, r *http.Request) {
	var custom []json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&custom); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.SetCustomCategories(r.Context(), custom); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
