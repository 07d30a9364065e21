package ledger_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/innledger/internal/ledger"
)

func fixedClock() time.Time {
	// 23:30 UTC on the 9th is already the 10th in Asia/Tokyo.
	return time.Date(2024, 3, 9, 23, 30, 0, 0, time.UTC)
}

func TestService_Post(t *testing.T) {
	type testCase struct {
		name      string
		rec       ledger.PaymentRecord
		setupMock func(repo *ledger.MockRepository, pub *ledger.MockPublisher)
		wantStage ledger.Stage
		wantErr   error
		check     func(t *testing.T, p *ledger.Posting)
	}

	posRecord := ledger.PaymentRecord{
		Amount:          decimal.NewFromInt(1200),
		Description:     "POS order ORD-0042",
		SourceType:      ledger.SourcePOSOrder,
		SourceID:        "order-42",
		ReferenceNumber: "ORD-0042",
		PaymentMethod:   "cash",
	}

	tests := []testCase{
		{
			name: "Success",
			rec:  posRecord,
			setupMock: func(repo *ledger.MockRepository, pub *ledger.MockPublisher) {
				repo.EXPECT().FindCategoryByCode(gomock.Any(), "REV-002").Return(&revenueCategory, nil)
				repo.EXPECT().
					InsertEntry(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, e *ledger.Entry) (bool, error) {
						e.ID = uuid.New()
						e.CreatedAt = time.Now()
						return true, nil
					})
				pub.EXPECT().PublishPosted(gomock.Any())
			},
			check: func(t *testing.T, p *ledger.Posting) {
				assert.True(t, p.Created)
				assert.NotEqual(t, uuid.Nil, p.Entry.ID)
				assert.Equal(t, "REV-002", p.Entry.CategoryCode)
				assert.True(t, p.Entry.Amount.Equal(decimal.NewFromInt(1200)))
				assert.True(t, p.Entry.CreditAmount.Equal(decimal.NewFromInt(1200)))
				assert.True(t, p.Entry.DebitAmount.IsZero())
				assert.Equal(t, ledger.StatusPosted, p.Entry.Status)
				assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), p.Entry.EntryDate)
			},
		},
		{
			name: "SupplierPayment",
			rec: ledger.PaymentRecord{
				Amount:     decimal.NewFromInt(500),
				SourceType: ledger.SourceSupplierPayment,
				SourceID:   "sp-9",
			},
			setupMock: func(repo *ledger.MockRepository, pub *ledger.MockPublisher) {
				repo.EXPECT().FindCategoryByCode(gomock.Any(), "EXP-003").Return(&expenseCategory, nil)
				repo.EXPECT().InsertEntry(gomock.Any(), gomock.Any()).Return(true, nil)
				pub.EXPECT().PublishPosted(gomock.Any())
			},
			check: func(t *testing.T, p *ledger.Posting) {
				assert.True(t, p.Entry.Amount.Equal(decimal.NewFromInt(-500)))
				assert.True(t, p.Entry.DebitAmount.Equal(decimal.NewFromInt(500)))
				assert.True(t, p.Entry.CreditAmount.IsZero())
			},
		},
		{
			name: "DatedFromOccurredAt",
			rec: ledger.PaymentRecord{
				Amount:     decimal.NewFromInt(75),
				SourceType: ledger.SourceSupplierPayment,
				SourceID:   "sp-jan",
				// Still the 15th in UTC, already the 16th in Tokyo.
				OccurredAt: time.Date(2024, 1, 15, 20, 0, 0, 0, time.UTC),
			},
			setupMock: func(repo *ledger.MockRepository, pub *ledger.MockPublisher) {
				repo.EXPECT().FindCategoryByCode(gomock.Any(), "EXP-003").Return(&expenseCategory, nil)
				repo.EXPECT().InsertEntry(gomock.Any(), gomock.Any()).Return(true, nil)
				pub.EXPECT().PublishPosted(gomock.Any())
			},
			check: func(t *testing.T, p *ledger.Posting) {
				assert.Equal(t, time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC), p.Entry.EntryDate)
			},
		},
		{
			name: "AlreadyPosted",
			rec:  posRecord,
			setupMock: func(repo *ledger.MockRepository, _ *ledger.MockPublisher) {
				repo.EXPECT().FindCategoryByCode(gomock.Any(), "REV-002").Return(&revenueCategory, nil)
				repo.EXPECT().InsertEntry(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			check: func(t *testing.T, p *ledger.Posting) {
				assert.False(t, p.Created)
			},
		},
		{
			name:      "UnmappedSource",
			rec:       ledger.PaymentRecord{Amount: decimal.NewFromInt(10), SourceType: "spa", SourceID: "s"},
			wantStage: ledger.StageResolve,
			wantErr:   ledger.ErrUnmappedSource,
		},
		{
			name: "CategoryNotFound",
			rec:  posRecord,
			setupMock: func(repo *ledger.MockRepository, _ *ledger.MockPublisher) {
				repo.EXPECT().FindCategoryByCode(gomock.Any(), "REV-002").Return(nil, ledger.ErrCategoryNotFound)
			},
			wantStage: ledger.StageLookup,
			wantErr:   ledger.ErrCategoryNotFound,
		},
		{
			name: "InvalidAmount",
			rec: ledger.PaymentRecord{
				Amount:     decimal.Zero,
				SourceType: ledger.SourcePOSOrder,
				SourceID:   "order-1",
			},
			setupMock: func(repo *ledger.MockRepository, _ *ledger.MockPublisher) {
				repo.EXPECT().FindCategoryByCode(gomock.Any(), "REV-002").Return(&revenueCategory, nil)
			},
			wantStage: ledger.StageBuild,
			wantErr:   ledger.ErrInvalidPayment,
		},
		{
			name: "InsertFails",
			rec:  posRecord,
			setupMock: func(repo *ledger.MockRepository, _ *ledger.MockPublisher) {
				repo.EXPECT().FindCategoryByCode(gomock.Any(), "REV-002").Return(&revenueCategory, nil)
				repo.EXPECT().InsertEntry(gomock.Any(), gomock.Any()).Return(false, errors.New("connection reset"))
			},
			wantStage: ledger.StageInsert,
		},
		{
			name: "SubCentAmount",
			rec: ledger.PaymentRecord{
				Amount:     decimal.RequireFromString("0.004"),
				SourceType: ledger.SourcePOSOrder,
				SourceID:   "order-2",
			},
			setupMock: func(repo *ledger.MockRepository, _ *ledger.MockPublisher) {
				repo.EXPECT().FindCategoryByCode(gomock.Any(), "REV-002").Return(&revenueCategory, nil)
			},
			wantStage: ledger.StageBuild,
			wantErr:   ledger.ErrInvalidPayment,
		},
	}

	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := ledger.NewMockRepository(ctrl)
			pub := ledger.NewMockPublisher(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo, pub)
			}

			svc := ledger.NewService(repo,
				ledger.WithPublisher(pub),
				ledger.WithLocation(tokyo),
				ledger.WithClock(fixedClock),
			)

			got, err := svc.Post(context.Background(), tt.rec)

			if tt.wantStage != "" {
				require.Error(t, err)
				assert.Nil(t, got)

				var perr *ledger.PostingError
				require.ErrorAs(t, err, &perr)
				assert.Equal(t, tt.wantStage, perr.Stage)
				assert.Equal(t, tt.rec.SourceID, perr.SourceID)

				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			tt.check(t, got)
		})
	}
}

func TestService_PostBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	svc := ledger.NewService(repo)

	recs := []ledger.PaymentRecord{
		{Amount: decimal.NewFromInt(80), SourceType: ledger.SourceRoomBooking, SourceID: "rb-1"},
		{Amount: decimal.NewFromInt(80), SourceType: "unknown", SourceID: "x-1"},
	}

	roomCategory := ledger.Category{ID: uuid.New(), Code: "REV-001", Type: ledger.CategoryRevenue}

	repo.EXPECT().FindCategoryByCode(gomock.Any(), "REV-001").Return(&roomCategory, nil)
	repo.EXPECT().InsertEntry(gomock.Any(), gomock.Any()).Return(true, nil)

	postings, errs := svc.PostBatch(context.Background(), recs)
	require.Len(t, postings, 2)
	require.Len(t, errs, 2)

	assert.NoError(t, errs[0])
	assert.NotNil(t, postings[0])
	assert.ErrorIs(t, errs[1], ledger.ErrUnmappedSource)
	assert.Nil(t, postings[1])
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	svc := ledger.NewService(repo)

	expense := ledger.CategoryExpense
	filter := ledger.ListFilter{CategoryType: &expense}

	repo.EXPECT().ListEntries(gomock.Any(), filter).Return([]*ledger.Entry{{ID: uuid.New()}}, nil)

	got, err := svc.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, ledger.IsRetryable(&ledger.PostingError{Stage: ledger.StageInsert, Err: errors.New("timeout")}))
	assert.True(t, ledger.IsRetryable(&ledger.PostingError{Stage: ledger.StageLookup, Err: errors.New("timeout")}))
	assert.False(t, ledger.IsRetryable(&ledger.PostingError{Stage: ledger.StageLookup, Err: ledger.ErrCategoryNotFound}))
	assert.False(t, ledger.IsRetryable(&ledger.PostingError{Stage: ledger.StageBuild, Err: ledger.ErrInvalidPayment}))
	assert.False(t, ledger.IsRetryable(errors.New("plain")))

	checkViolation := fmt.Errorf("inserting entry: %w", &pgconn.PgError{Code: "23514", ConstraintName: "account_entries_one_side"})
	assert.False(t, ledger.IsRetryable(&ledger.PostingError{Stage: ledger.StageInsert, Err: checkViolation}))

	overflow := fmt.Errorf("inserting entry: %w", &pgconn.PgError{Code: "22003"})
	assert.False(t, ledger.IsRetryable(&ledger.PostingError{Stage: ledger.StageInsert, Err: overflow}))

	serialization := fmt.Errorf("inserting entry: %w", &pgconn.PgError{Code: "40001"})
	assert.True(t, ledger.IsRetryable(&ledger.PostingError{Stage: ledger.StageInsert, Err: serialization}))
}
