package checkout_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/innledger/internal/checkout"
	"github.com/MrJamesThe3rd/innledger/internal/event"
	"github.com/MrJamesThe3rd/innledger/internal/ledger"
)

type mocks struct {
	repo   *checkout.MockRepository
	poster *checkout.MockPoster
	pub    *checkout.MockPublisher
}

func newService(t *testing.T) (*checkout.Service, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := mocks{
		repo:   checkout.NewMockRepository(ctrl),
		poster: checkout.NewMockPoster(ctrl),
		pub:    checkout.NewMockPublisher(ctrl),
	}

	return checkout.NewService(m.repo, m.poster, m.pub), m
}

var paidAt = time.Date(2024, 1, 15, 21, 30, 0, 0, time.UTC)

func TestService_SettleOrder(t *testing.T) {
	orderID := uuid.New()
	order := &checkout.Order{
		ID:           orderID,
		Number:       "ORD-0042",
		CustomerName: "Room 12",
		Total:        decimal.NewFromInt(1200),
		Status:       "completed",
		PaidAt:       &paidAt,
	}

	type testCase struct {
		name      string
		method    string
		setupMock func(m mocks)
		wantErr   error
		check     func(t *testing.T, res *checkout.Result)
	}

	tests := []testCase{
		{
			name:   "Success",
			method: "cash",
			setupMock: func(m mocks) {
				m.repo.EXPECT().SettleOrder(gomock.Any(), orderID, "cash", gomock.Any()).Return(order, nil)
				m.poster.EXPECT().
					Post(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, rec ledger.PaymentRecord) (*ledger.Posting, error) {
						assert.Equal(t, ledger.SourcePOSOrder, rec.SourceType)
						assert.Equal(t, orderID.String(), rec.SourceID)
						assert.Equal(t, "ORD-0042", rec.ReferenceNumber)
						assert.True(t, rec.Amount.Equal(decimal.NewFromInt(1200)))
						assert.Equal(t, paidAt, rec.OccurredAt)

						return &ledger.Posting{Entry: &ledger.Entry{CategoryCode: "REV-002"}, Created: true}, nil
					})
				m.pub.EXPECT().
					Publish(event.TopicPaymentSettled, gomock.Any()).
					Do(func(_ event.Topic, payload any) {
						s, ok := payload.(checkout.Settled)
						require.True(t, ok)
						assert.True(t, s.Posted)
						assert.Empty(t, s.PostingError)
					})
			},
			check: func(t *testing.T, res *checkout.Result) {
				assert.NoError(t, res.PostingErr)
				require.NotNil(t, res.Posting)
				assert.Equal(t, "REV-002", res.Posting.Entry.CategoryCode)
				assert.Equal(t, "ORD-0042", res.Reference)
			},
		},
		{
			name:   "PostingFailsAfterSettle",
			method: "card",
			setupMock: func(m mocks) {
				m.repo.EXPECT().SettleOrder(gomock.Any(), orderID, "card", gomock.Any()).Return(order, nil)
				m.poster.EXPECT().Post(gomock.Any(), gomock.Any()).Return(nil, &ledger.PostingError{
					Stage: ledger.StageLookup,
					Err:   ledger.ErrCategoryNotFound,
				})
				m.pub.EXPECT().
					Publish(event.TopicPaymentSettled, gomock.Any()).
					Do(func(_ event.Topic, payload any) {
						s := payload.(checkout.Settled)
						assert.False(t, s.Posted)
						assert.NotEmpty(t, s.PostingError)
					})
			},
			check: func(t *testing.T, res *checkout.Result) {
				assert.ErrorIs(t, res.PostingErr, ledger.ErrCategoryNotFound)
				assert.Nil(t, res.Posting)
			},
		},
		{
			name:   "AlreadySettled",
			method: "cash",
			setupMock: func(m mocks) {
				m.repo.EXPECT().SettleOrder(gomock.Any(), orderID, "cash", gomock.Any()).Return(nil, checkout.ErrAlreadySettled)
			},
			wantErr: checkout.ErrAlreadySettled,
		},
		{
			name:    "MissingMethod",
			method:  " ",
			wantErr: checkout.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)

			if tt.setupMock != nil {
				tt.setupMock(m)
			}

			res, err := svc.SettleOrder(context.Background(), orderID, tt.method)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, res)

				return
			}

			require.NoError(t, err)
			tt.check(t, res)
		})
	}
}

func TestService_CloseGymSession(t *testing.T) {
	id := uuid.New()

	t.Run("PostsFee", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().
			CloseGymCheckin(gomock.Any(), id, decimal.NewFromInt(8), "cash", gomock.Any()).
			Return(&checkout.GymCheckin{ID: id, MemberName: "Rui", Fee: decimal.NewFromInt(8), CheckoutTime: paidAt}, nil)
		m.poster.EXPECT().
			Post(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, rec ledger.PaymentRecord) (*ledger.Posting, error) {
				assert.Equal(t, ledger.SourceGymSession, rec.SourceType)
				assert.Equal(t, "Rui", rec.GuestName)
				assert.Equal(t, "cash", rec.PaymentMethod)
				assert.Equal(t, paidAt, rec.OccurredAt)

				return &ledger.Posting{Entry: &ledger.Entry{}, Created: true}, nil
			})
		m.pub.EXPECT().Publish(event.TopicPaymentSettled, gomock.Any())

		res, err := svc.CloseGymSession(context.Background(), id, decimal.NewFromInt(8), "cash")
		require.NoError(t, err)
		assert.NotNil(t, res.Posting)
	})

	t.Run("ZeroFeeSkipsPosting", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().
			CloseGymCheckin(gomock.Any(), id, decimal.Zero, "", gomock.Any()).
			Return(&checkout.GymCheckin{ID: id, MemberName: "Rui"}, nil)

		res, err := svc.CloseGymSession(context.Background(), id, decimal.Zero, "")
		require.NoError(t, err)
		assert.Nil(t, res.Posting)
		assert.NoError(t, res.PostingErr)
	})

	t.Run("PaidSessionNeedsMethod", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.CloseGymSession(context.Background(), id, decimal.NewFromInt(8), " ")
		assert.ErrorIs(t, err, checkout.ErrInvalidInput)
	})

	t.Run("NegativeFee", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.CloseGymSession(context.Background(), id, decimal.NewFromInt(-1), "cash")
		assert.ErrorIs(t, err, checkout.ErrInvalidInput)
	})

	t.Run("NotFound", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().CloseGymCheckin(gomock.Any(), id, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, checkout.ErrNotFound)

		_, err := svc.CloseGymSession(context.Background(), id, decimal.NewFromInt(5), "cash")
		assert.ErrorIs(t, err, checkout.ErrNotFound)
	})
}

func TestService_CloseGameSession(t *testing.T) {
	svc, m := newService(t)

	id := uuid.New()

	m.repo.EXPECT().
		CloseGameSession(gomock.Any(), id, "card", gomock.Any()).
		Return(&checkout.GameSession{ID: id, Number: "GS-7", GameName: "Billiards", Total: decimal.NewFromInt(15), EndedAt: paidAt}, nil)
	m.poster.EXPECT().
		Post(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rec ledger.PaymentRecord) (*ledger.Posting, error) {
			assert.Equal(t, ledger.SourceGameSession, rec.SourceType)
			assert.Equal(t, "Game session GS-7 - Billiards", rec.Description)
			assert.Equal(t, paidAt, rec.OccurredAt)

			return &ledger.Posting{Entry: &ledger.Entry{}, Created: true}, nil
		})
	m.pub.EXPECT().Publish(event.TopicPaymentSettled, gomock.Any())

	res, err := svc.CloseGameSession(context.Background(), id, "card")
	require.NoError(t, err)
	assert.Equal(t, "GS-7", res.Reference)
	assert.True(t, res.Amount.Equal(decimal.NewFromInt(15)))
}

func TestService_RecordSupplierPayment(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc, m := newService(t)

		id := uuid.New()

		m.repo.EXPECT().
			InsertSupplierPayment(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p *checkout.SupplierPayment) (bool, error) {
				assert.Equal(t, "Coffee Co", p.SupplierName)
				assert.NotEmpty(t, p.ReferenceNumber)
				assert.False(t, p.PaidAt.IsZero())
				p.ID = id

				return true, nil
			})
		m.poster.EXPECT().
			Post(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, rec ledger.PaymentRecord) (*ledger.Posting, error) {
				assert.Equal(t, ledger.SourceSupplierPayment, rec.SourceType)
				assert.Equal(t, id.String(), rec.SourceID)
				assert.Equal(t, "Payment to Coffee Co: Coffee beans", rec.Description)

				return &ledger.Posting{Entry: &ledger.Entry{Amount: decimal.NewFromInt(-500)}, Created: true}, nil
			})
		m.pub.EXPECT().Publish(event.TopicPaymentSettled, gomock.Any())

		res, err := svc.RecordSupplierPayment(context.Background(), checkout.SupplierPaymentParams{
			SupplierName:  "Coffee Co",
			Description:   "Coffee beans",
			Amount:        decimal.NewFromInt(500),
			PaymentMethod: "bank_transfer",
		})
		require.NoError(t, err)
		assert.True(t, res.Posting.Entry.Amount.Equal(decimal.NewFromInt(-500)))
	})

	t.Run("DatedFromStatementLine", func(t *testing.T) {
		svc, m := newService(t)

		statementDay := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

		m.repo.EXPECT().
			InsertSupplierPayment(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p *checkout.SupplierPayment) (bool, error) {
				assert.Equal(t, statementDay, p.PaidAt)
				p.ID = uuid.New()

				return true, nil
			})
		m.poster.EXPECT().
			Post(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, rec ledger.PaymentRecord) (*ledger.Posting, error) {
				assert.Equal(t, statementDay, rec.OccurredAt)
				return &ledger.Posting{Entry: &ledger.Entry{}, Created: true}, nil
			})
		m.pub.EXPECT().Publish(event.TopicPaymentSettled, gomock.Any())

		_, err := svc.RecordSupplierPayment(context.Background(), checkout.SupplierPaymentParams{
			SupplierName:  "Lavandaria Norte",
			Amount:        decimal.NewFromInt(42),
			PaymentMethod: "bank_transfer",
			BankReference: "cgd-0001",
			PaidAt:        statementDay,
		})
		require.NoError(t, err)
	})

	t.Run("DuplicateBankReferenceRepostsIdempotently", func(t *testing.T) {
		svc, m := newService(t)

		existing := uuid.New()

		m.repo.EXPECT().
			InsertSupplierPayment(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p *checkout.SupplierPayment) (bool, error) {
				p.ID = existing
				return false, nil
			})
		m.poster.EXPECT().
			Post(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, rec ledger.PaymentRecord) (*ledger.Posting, error) {
				assert.Equal(t, existing.String(), rec.SourceID)
				return &ledger.Posting{Entry: &ledger.Entry{}, Created: false}, nil
			})
		m.pub.EXPECT().Publish(event.TopicPaymentSettled, gomock.Any())

		res, err := svc.RecordSupplierPayment(context.Background(), checkout.SupplierPaymentParams{
			SupplierName:  "Coffee Co",
			Amount:        decimal.NewFromInt(500),
			BankReference: "cgd-abc",
		})
		require.NoError(t, err)
		assert.False(t, res.Posting.Created)
	})

	t.Run("Validation", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.RecordSupplierPayment(context.Background(), checkout.SupplierPaymentParams{Amount: decimal.NewFromInt(5)})
		assert.ErrorIs(t, err, checkout.ErrInvalidInput)

		_, err = svc.RecordSupplierPayment(context.Background(), checkout.SupplierPaymentParams{SupplierName: "X"})
		assert.ErrorIs(t, err, checkout.ErrInvalidInput)
	})

	t.Run("StoreFails", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().InsertSupplierPayment(gomock.Any(), gomock.Any()).Return(false, errors.New("disk full"))

		_, err := svc.RecordSupplierPayment(context.Background(), checkout.SupplierPaymentParams{
			SupplierName: "X",
			Amount:       decimal.NewFromInt(5),
		})
		assert.ErrorContains(t, err, "recording supplier payment")
	})
}

func TestService_AddHallBookingToOrder(t *testing.T) {
	svc, m := newService(t)

	orderID := uuid.New()
	hallID := uuid.New()

	m.repo.EXPECT().
		AddHallBookingToOrder(gomock.Any(), orderID, hallID).
		Return(&checkout.Order{ID: orderID, Number: "ORD-9", Total: decimal.NewFromInt(900)}, nil)
	m.pub.EXPECT().
		Publish(event.TopicHallBookingAdded, gomock.Any()).
		Do(func(_ event.Topic, payload any) {
			added := payload.(checkout.HallBookingAdded)
			assert.Equal(t, hallID, added.HallBookingID)
			assert.True(t, added.OrderTotal.Equal(decimal.NewFromInt(900)))
		})

	order, err := svc.AddHallBookingToOrder(context.Background(), orderID, hallID)
	require.NoError(t, err)
	assert.Equal(t, "ORD-9", order.Number)
}

func TestService_AddHallBookingToOrder_AlreadyAttached(t *testing.T) {
	svc, m := newService(t)

	m.repo.EXPECT().AddHallBookingToOrder(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, checkout.ErrAlreadyAttached)

	_, err := svc.AddHallBookingToOrder(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, checkout.ErrAlreadyAttached)
}
