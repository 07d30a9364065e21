package payment_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/innledger/internal/ledger"
	"github.com/MrJamesThe3rd/innledger/internal/payment"
)

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newSource(ctrl *gomock.Controller, name string, views []payment.View, err error) *payment.MockSource {
	src := payment.NewMockSource(ctrl)
	src.EXPECT().Name().Return(name).AnyTimes()
	src.EXPECT().Fetch(gomock.Any()).Return(views, err)

	return src
}

func TestAggregator_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rooms := newSource(ctrl, "room_bookings", []payment.View{
		{ID: "room-1", Type: ledger.SourceRoomBooking, Amount: decimal.NewFromInt(300), Date: base.Add(-48 * time.Hour)},
		{ID: "room-2", Type: ledger.SourceRoomBooking, Amount: decimal.NewFromInt(150), Date: base},
	}, nil)
	orders := newSource(ctrl, "orders", []payment.View{
		{ID: "pos-1", Type: ledger.SourcePOSOrder, Amount: decimal.NewFromInt(12), Date: base.Add(time.Hour)},
	}, nil)
	gym := newSource(ctrl, "gym_member_checkins", []payment.View{
		{ID: "gym-1", Type: ledger.SourceGymSession, Date: base},
	}, nil)

	agg := payment.NewAggregator(2, rooms, orders, gym)

	res := agg.List(context.Background())
	require.Len(t, res.Payments, 4)
	assert.Empty(t, res.Failures)

	ids := make([]string, len(res.Payments))
	for i, v := range res.Payments {
		ids[i] = v.ID
	}

	assert.Equal(t, []string{"pos-1", "gym-1", "room-2", "room-1"}, ids)
}

func TestAggregator_List_SourceFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	healthy := []string{
		"room_bookings", "hall_bookings", "orders",
		"gym_member_checkins", "gym_trainer_bookings", "game_bookings",
	}

	var sources []payment.Source

	for i, name := range healthy {
		sources = append(sources, newSource(ctrl, name, []payment.View{
			{ID: name + "-1", Date: base.Add(time.Duration(i) * time.Minute)},
		}, nil))
	}

	sources = append(sources, newSource(ctrl, "game_sessions", nil, errors.New("relation does not exist")))

	res := payment.NewAggregator(4, sources...).List(context.Background())

	require.Len(t, res.Payments, len(healthy))

	got := make([]string, len(res.Payments))
	for i, v := range res.Payments {
		got[i] = v.ID
	}

	for _, name := range healthy {
		assert.Contains(t, got, name+"-1")
	}

	require.Len(t, res.Failures, 1)
	assert.Equal(t, "game_sessions", res.Failures[0].Source)
	assert.Contains(t, res.Failures[0].Error, "relation does not exist")
}

func TestAggregator_List_AllSources(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	const perSource = 3

	names := []string{
		"room_bookings", "hall_bookings", "orders", "game_sessions",
		"gym_member_checkins", "gym_trainer_bookings", "game_bookings",
	}

	var sources []payment.Source

	for i, name := range names {
		views := make([]payment.View, perSource)
		for j := range views {
			views[j] = payment.View{
				ID:   fmt.Sprintf("%s-%d", name, j),
				Date: base.Add(time.Duration(i*perSource+j) * time.Minute),
			}
		}

		sources = append(sources, newSource(ctrl, name, views, nil))
	}

	res := payment.NewAggregator(3, sources...).List(context.Background())
	require.Len(t, res.Payments, perSource*len(names))

	for i := 1; i < len(res.Payments); i++ {
		assert.False(t, res.Payments[i].Date.After(res.Payments[i-1].Date))
	}
}

func TestAggregator_List_NoSources(t *testing.T) {
	res := payment.NewAggregator(0).List(context.Background())
	assert.Empty(t, res.Payments)
	assert.Empty(t, res.Failures)
}

func TestSort_TiesByID(t *testing.T) {
	views := []payment.View{
		{ID: "b", Date: base},
		{ID: "a", Date: base},
		{ID: "c", Date: base.Add(time.Second)},
	}

	payment.Sort(views)

	assert.Equal(t, "c", views[0].ID)
	assert.Equal(t, "a", views[1].ID)
	assert.Equal(t, "b", views[2].ID)
}

func TestNormalizeStatus(t *testing.T) {
	tests := map[string]payment.Status{
		"paid":      payment.StatusCompleted,
		"confirmed": payment.StatusCompleted,
		"completed": payment.StatusCompleted,
		"active":    payment.StatusPending,
		"pending":   payment.StatusPending,
		"refunded":  payment.StatusUnknown,
		"":          payment.StatusUnknown,
	}

	for raw, want := range tests {
		t.Run(raw, func(t *testing.T) {
			assert.Equal(t, want, payment.NormalizeStatus(raw))
		})
	}
}
