package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/innledger/internal/auth"
	"github.com/MrJamesThe3rd/innledger/internal/http/middleware"
	"github.com/MrJamesThe3rd/innledger/internal/ledger"
)

type Service interface {
	Post(ctx context.Context, rec ledger.PaymentRecord) (*ledger.Posting, error)
	List(ctx context.Context, filter ledger.ListFilter) ([]*ledger.Entry, error)
	Get(ctx context.Context, id uuid.UUID) (*ledger.Entry, error)
	Categories(ctx context.Context) ([]*ledger.Category, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/categories", h.categories)
	r.Get("/entries", h.list)
	r.Get("/entries/{id}", h.get)
	r.With(middleware.RequireRole(auth.RoleAccountant, auth.RoleAdmin)).Post("/entries", h.post)
}

type postRequest struct {
	Amount          decimal.Decimal   `json:"amount"`
	Description     string            `json:"description"`
	SourceType      ledger.SourceType `json:"source_type"`
	SourceID        string            `json:"source_id"`
	ReferenceNumber string            `json:"reference_number"`
	PaymentMethod   string            `json:"payment_method"`
	GuestName       string            `json:"guest_name"`
	OccurredAt      *time.Time        `json:"occurred_at"`
}

type postResponse struct {
	Created bool          `json:"created"`
	Entry   EntryResponse `json:"entry"`
}

// post creates the entry for a payment record, or returns the existing one
// when the source was already posted.
func (h *Handler) post(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec := ledger.PaymentRecord{
		Amount:          req.Amount,
		Description:     req.Description,
		SourceType:      req.SourceType,
		SourceID:        req.SourceID,
		ReferenceNumber: req.ReferenceNumber,
		PaymentMethod:   req.PaymentMethod,
		GuestName:       req.GuestName,
	}
	if req.OccurredAt != nil {
		rec.OccurredAt = *req.OccurredAt
	}

	posting, err := h.svc.Post(r.Context(), rec)
	if err != nil {
		http.Error(w, err.Error(), PostingStatus(err))
		return
	}

	status := http.StatusOK
	if posting.Created {
		status = http.StatusCreated
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(postResponse{
		Created: posting.Created,
		Entry:   ToEntryResponse(posting.Entry),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// PostingStatus maps a posting failure to an HTTP status code.
func PostingStatus(err error) int {
	switch {
	case errors.Is(err, ledger.ErrUnmappedSource), errors.Is(err, ledger.ErrInvalidPayment):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrCategoryNotFound):
		return http.StatusUnprocessableEntity
	case ledger.IsRetryable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entries, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(ToEntryResponseList(entries)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func parseFilter(r *http.Request) (ledger.ListFilter, error) {
	var filter ledger.ListFilter

	q := r.URL.Query()

	if s := q.Get("source_type"); s != "" {
		st := ledger.SourceType(s)
		if !st.Valid() {
			return filter, errors.New("unknown source_type")
		}

		filter.SourceType = &st
	}

	if s := q.Get("category_type"); s != "" {
		ct := ledger.CategoryType(s)
		if ct != ledger.CategoryRevenue && ct != ledger.CategoryExpense {
			return filter, errors.New("category_type must be revenue or expense")
		}

		filter.CategoryType = &ct
	}

	if s := q.Get("start_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, errors.New("start_date must be YYYY-MM-DD")
		}

		filter.StartDate = &t
	}

	if s := q.Get("end_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, errors.New("end_date must be YYYY-MM-DD")
		}

		filter.EndDate = &t
	}

	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return filter, errors.New("limit must be a non-negative integer")
		}

		filter.Limit = n
	}

	return filter, nil
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	entry, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "entry not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(ToEntryResponse(entry)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.Categories(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]categoryResponse, len(cats))
	for i, c := range cats {
		resp[i] = categoryResponse{ID: c.ID, Code: c.Code, Name: c.Name, Type: c.Type}
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
