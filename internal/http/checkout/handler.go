package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/innledger/internal/auth"
	"github.com/MrJamesThe3rd/innledger/internal/checkout"
	"github.com/MrJamesThe3rd/innledger/internal/http/middleware"
)

type Service interface {
	SettleOrder(ctx context.Context, orderID uuid.UUID, method string) (*checkout.Result, error)
	CloseGymSession(ctx context.Context, checkinID uuid.UUID, fee decimal.Decimal, method string) (*checkout.Result, error)
	CloseGameSession(ctx context.Context, sessionID uuid.UUID, method string) (*checkout.Result, error)
	RecordSupplierPayment(ctx context.Context, params checkout.SupplierPaymentParams) (*checkout.Result, error)
	AddHallBookingToOrder(ctx context.Context, orderID, hallBookingID uuid.UUID) (*checkout.Order, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/orders/{id}/settle", h.settleOrder)
	r.Post("/orders/{id}/hall-bookings", h.addHallBooking)
	r.Post("/gym-sessions/{id}/close", h.closeGymSession)
	r.Post("/game-sessions/{id}/close", h.closeGameSession)
	r.With(middleware.RequireRole(auth.RoleAccountant, auth.RoleAdmin)).
		Post("/supplier-payments", h.recordSupplierPayment)
}

type settleRequest struct {
	PaymentMethod string `json:"payment_method"`
}

type closeGymRequest struct {
	Fee           decimal.Decimal `json:"fee"`
	PaymentMethod string          `json:"payment_method"`
}

type supplierPaymentRequest struct {
	SupplierName    string          `json:"supplier_name"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentMethod   string          `json:"payment_method"`
	ReferenceNumber string          `json:"reference_number"`
	BankReference   string          `json:"bank_reference"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
}

type addHallBookingRequest struct {
	HallBookingID uuid.UUID `json:"hall_booking_id"`
}

func (h *Handler) settleOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req settleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.svc.SettleOrder(r.Context(), id, req.PaymentMethod)
	writeResult(w, res, err, http.StatusOK)
}

func (h *Handler) closeGymSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req closeGymRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.svc.CloseGymSession(r.Context(), id, req.Fee, req.PaymentMethod)
	writeResult(w, res, err, http.StatusOK)
}

func (h *Handler) closeGameSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req settleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.svc.CloseGameSession(r.Context(), id, req.PaymentMethod)
	writeResult(w, res, err, http.StatusOK)
}

func (h *Handler) recordSupplierPayment(w http.ResponseWriter, r *http.Request) {
	var req supplierPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := checkout.SupplierPaymentParams{
		SupplierName:    req.SupplierName,
		Description:     req.Description,
		Amount:          req.Amount,
		PaymentMethod:   req.PaymentMethod,
		ReferenceNumber: req.ReferenceNumber,
		BankReference:   req.BankReference,
	}

	if req.PaidAt != nil {
		params.PaidAt = *req.PaidAt
	}

	res, err := h.svc.RecordSupplierPayment(r.Context(), params)
	writeResult(w, res, err, http.StatusCreated)
}

func (h *Handler) addHallBooking(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req addHallBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	order, err := h.svc.AddHallBookingToOrder(r.Context(), id, req.HallBookingID)
	if err != nil {
		http.Error(w, err.Error(), errorStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toOrderResponse(order)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeResult answers 202 when the domain write succeeded but its ledger
// posting did not.
func writeResult(w http.ResponseWriter, res *checkout.Result, err error, okStatus int) {
	if err != nil {
		http.Error(w, err.Error(), errorStatus(err))
		return
	}

	status := okStatus
	if res.PostingErr != nil {
		status = http.StatusAccepted
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(toResultResponse(res)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, checkout.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, checkout.ErrAlreadySettled), errors.Is(err, checkout.ErrAlreadyAttached):
		return http.StatusConflict
	case errors.Is(err, checkout.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
