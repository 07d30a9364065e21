package dashboard

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/innledger/internal/dashboard"
)

type Summarizer interface {
	Summary(ctx context.Context) dashboard.Summary
}

type Handler struct {
	svc Summarizer
}

func NewHandler(svc Summarizer) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.summary)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(h.svc.Summary(r.Context())); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
