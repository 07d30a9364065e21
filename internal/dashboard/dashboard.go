package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

type Summary struct {
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TodayRevenue  decimal.Decimal `json:"today_revenue"`
	RoomRevenue   decimal.Decimal `json:"room_revenue"`
	HallRevenue   decimal.Decimal `json:"hall_revenue"`
	POSRevenue    decimal.Decimal `json:"pos_revenue"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetIncome     decimal.Decimal `json:"net_income"`
}

// Period is a half-open time range [From, To). A zero bound is unbounded.
type Period struct {
	From time.Time
	To   time.Time
}

// Today returns the calendar day containing now in loc.
func Today(now time.Time, loc *time.Location) Period {
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	return Period{From: start, To: start.AddDate(0, 0, 1)}
}

//go:generate mockgen -source=dashboard.go -destination=repository_mock.go -package=dashboard
type Repository interface {
	RoomRevenue(ctx context.Context, p Period) (decimal.Decimal, error)
	HallRevenue(ctx context.Context, p Period) (decimal.Decimal, error)
	POSRevenue(ctx context.Context, p Period) (decimal.Decimal, error)

	// Expenses sums the debit side of entries in expense categories.
	Expenses(ctx context.Context, p Period) (decimal.Decimal, error)
}

type Service struct {
	repo Repository
	loc  *time.Location
	now  func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, loc *time.Location, opts ...Option) *Service {
	if loc == nil {
		loc = time.UTC
	}

	s := &Service{repo: repo, loc: loc, now: time.Now}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Summary never fails: any query error yields an all-zero summary.
func (s *Service) Summary(ctx context.Context) Summary {
	sum, err := s.summary(ctx)
	if err != nil {
		slog.Warn("failed to compute dashboard summary", "error", err)
		return Summary{}
	}

	return sum
}

func (s *Service) summary(ctx context.Context) (Summary, error) {
	var (
		all   Period
		today = Today(s.now(), s.loc)
		sum   Summary
		err   error
	)

	if sum.RoomRevenue, err = s.repo.RoomRevenue(ctx, all); err != nil {
		return Summary{}, err
	}

	if sum.HallRevenue, err = s.repo.HallRevenue(ctx, all); err != nil {
		return Summary{}, err
	}

	if sum.POSRevenue, err = s.repo.POSRevenue(ctx, all); err != nil {
		return Summary{}, err
	}

	todayParts := make([]decimal.Decimal, 0, 3)

	for _, q := range []func(context.Context, Period) (decimal.Decimal, error){
		s.repo.RoomRevenue, s.repo.HallRevenue, s.repo.POSRevenue,
	} {
		v, err := q(ctx, today)
		if err != nil {
			return Summary{}, err
		}

		todayParts = append(todayParts, v)
	}

	if sum.TotalExpenses, err = s.repo.Expenses(ctx, all); err != nil {
		return Summary{}, err
	}

	sum.TotalRevenue = sum.RoomRevenue.Add(sum.HallRevenue).Add(sum.POSRevenue)
	sum.TodayRevenue = decimal.Sum(decimal.Zero, todayParts...)
	sum.NetIncome = sum.TotalRevenue.Sub(sum.TotalExpenses)

	return sum, nil
}
