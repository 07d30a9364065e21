package payment

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/innledger/internal/payment"
)

type Lister interface {
	List(ctx context.Context) payment.Result
}

type Handler struct {
	payments Lister
}

func NewHandler(payments Lister) *Handler {
	return &Handler{payments: payments}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
}

// list always answers 200: sources that failed are reported under "failures".
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	res := h.payments.List(r.Context())
	if res.Payments == nil {
		res.Payments = []payment.View{}
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(res); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
