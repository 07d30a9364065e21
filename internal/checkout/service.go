package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/innledger/internal/event"
	"github.com/MrJamesThe3rd/innledger/internal/ledger"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=checkout
type Repository interface {
	// SettleOrder marks a pending order completed.
	SettleOrder(ctx context.Context, orderID uuid.UUID, method string, paidAt time.Time) (*Order, error)
	CloseGymCheckin(ctx context.Context, checkinID uuid.UUID, fee decimal.Decimal, method string, at time.Time) (*GymCheckin, error)
	CloseGameSession(ctx context.Context, sessionID uuid.UUID, method string, at time.Time) (*GameSession, error)

	// InsertSupplierPayment reports false when a payment with the same bank reference
	// already exists; p is then overwritten with the stored payment.
	InsertSupplierPayment(ctx context.Context, p *SupplierPayment) (bool, error)
	AddHallBookingToOrder(ctx context.Context, orderID, hallBookingID uuid.UUID) (*Order, error)
}

type Poster interface {
	Post(ctx context.Context, rec ledger.PaymentRecord) (*ledger.Posting, error)
}

type Publisher interface {
	Publish(topic event.Topic, payload any)
}

type Service struct {
	repo      Repository
	poster    Poster
	publisher Publisher
	now       func() time.Time
}

func NewService(repo Repository, poster Poster, publisher Publisher) *Service {
	return &Service{
		repo:      repo,
		poster:    poster,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *Service) SettleOrder(ctx context.Context, orderID uuid.UUID, method string) (*Result, error) {
	if strings.TrimSpace(method) == "" {
		return nil, fmt.Errorf("%w: payment method is required", ErrInvalidInput)
	}

	order, err := s.repo.SettleOrder(ctx, orderID, method, s.now())
	if err != nil {
		return nil, fmt.Errorf("settling order: %w", err)
	}

	rec := ledger.PaymentRecord{
		Amount:          order.Total,
		Description:     "POS order " + order.Number,
		SourceType:      ledger.SourcePOSOrder,
		SourceID:        order.ID.String(),
		ReferenceNumber: order.Number,
		PaymentMethod:   method,
		GuestName:       order.CustomerName,
	}
	if order.PaidAt != nil {
		rec.OccurredAt = *order.PaidAt
	}

	return s.post(ctx, rec), nil
}

// CloseGymSession checks a member out. A zero fee closes the session without a
// ledger posting; a paid session needs a payment method.
func (s *Service) CloseGymSession(ctx context.Context, checkinID uuid.UUID, fee decimal.Decimal, method string) (*Result, error) {
	if fee.IsNegative() {
		return nil, fmt.Errorf("%w: fee must not be negative", ErrInvalidInput)
	}

	if fee.IsPositive() && strings.TrimSpace(method) == "" {
		return nil, fmt.Errorf("%w: payment method is required for a paid session", ErrInvalidInput)
	}

	checkin, err := s.repo.CloseGymCheckin(ctx, checkinID, fee, method, s.now())
	if err != nil {
		return nil, fmt.Errorf("closing gym session: %w", err)
	}

	if checkin.Fee.IsZero() {
		return &Result{Reference: checkin.ID.String(), Amount: checkin.Fee}, nil
	}

	rec := ledger.PaymentRecord{
		Amount:          checkin.Fee,
		Description:     "Gym session - " + checkin.MemberName,
		SourceType:      ledger.SourceGymSession,
		SourceID:        checkin.ID.String(),
		ReferenceNumber: "GYM-" + checkin.ID.String()[:8],
		PaymentMethod:   method,
		GuestName:       checkin.MemberName,
		OccurredAt:      checkin.CheckoutTime,
	}

	return s.post(ctx, rec), nil
}

func (s *Service) CloseGameSession(ctx context.Context, sessionID uuid.UUID, method string) (*Result, error) {
	if strings.TrimSpace(method) == "" {
		return nil, fmt.Errorf("%w: payment method is required", ErrInvalidInput)
	}

	session, err := s.repo.CloseGameSession(ctx, sessionID, method, s.now())
	if err != nil {
		return nil, fmt.Errorf("closing game session: %w", err)
	}

	rec := ledger.PaymentRecord{
		Amount:          session.Total,
		Description:     fmt.Sprintf("Game session %s - %s", session.Number, session.GameName),
		SourceType:      ledger.SourceGameSession,
		SourceID:        session.ID.String(),
		ReferenceNumber: session.Number,
		PaymentMethod:   method,
		GuestName:       session.CustomerName,
		OccurredAt:      session.EndedAt,
	}

	return s.post(ctx, rec), nil
}

func (s *Service) RecordSupplierPayment(ctx context.Context, params SupplierPaymentParams) (*Result, error) {
	if strings.TrimSpace(params.SupplierName) == "" {
		return nil, fmt.Errorf("%w: supplier name is required", ErrInvalidInput)
	}

	if !params.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	paidAt := params.PaidAt
	if paidAt.IsZero() {
		paidAt = s.now()
	}

	ref := params.ReferenceNumber
	if ref == "" {
		ref = "SP-" + paidAt.Format("20060102") + "-" + uuid.NewString()[:8]
	}

	p := &SupplierPayment{
		SupplierName:    params.SupplierName,
		Description:     params.Description,
		Amount:          params.Amount,
		PaymentMethod:   params.PaymentMethod,
		ReferenceNumber: ref,
		BankReference:   params.BankReference,
		PaidAt:          paidAt,
	}

	created, err := s.repo.InsertSupplierPayment(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("recording supplier payment: %w", err)
	}

	if !created {
		slog.Info("supplier payment already recorded", "bank_reference", p.BankReference, "id", p.ID)
	}

	description := "Payment to " + p.SupplierName
	if p.Description != "" {
		description += ": " + p.Description
	}

	rec := ledger.PaymentRecord{
		Amount:          p.Amount,
		Description:     description,
		SourceType:      ledger.SourceSupplierPayment,
		SourceID:        p.ID.String(),
		ReferenceNumber: p.ReferenceNumber,
		PaymentMethod:   p.PaymentMethod,
		OccurredAt:      p.PaidAt,
	}

	return s.post(ctx, rec), nil
}

// AddHallBookingToOrder bills a hall booking through a pending POS order.
func (s *Service) AddHallBookingToOrder(ctx context.Context, orderID, hallBookingID uuid.UUID) (*Order, error) {
	order, err := s.repo.AddHallBookingToOrder(ctx, orderID, hallBookingID)
	if err != nil {
		return nil, fmt.Errorf("adding hall booking to order: %w", err)
	}

	s.publisher.Publish(event.TopicHallBookingAdded, HallBookingAdded{
		OrderID:       order.ID,
		OrderNumber:   order.Number,
		HallBookingID: hallBookingID,
		OrderTotal:    order.Total,
	})

	return order, nil
}

// post never fails the caller: the domain write has already happened.
func (s *Service) post(ctx context.Context, rec ledger.PaymentRecord) *Result {
	res := &Result{Reference: rec.ReferenceNumber, Amount: rec.Amount}
	res.Posting, res.PostingErr = s.poster.Post(ctx, rec)

	settled := Settled{
		SourceType: rec.SourceType,
		SourceID:   rec.SourceID,
		Reference:  rec.ReferenceNumber,
		Amount:     rec.Amount,
		Method:     rec.PaymentMethod,
		Posted:     res.PostingErr == nil,
	}

	if res.PostingErr != nil {
		settled.PostingError = res.PostingErr.Error()
	}

	s.publisher.Publish(event.TopicPaymentSettled, settled)

	return res
}
