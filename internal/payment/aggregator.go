package payment

import (
	"context"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"
)

type Aggregator struct {
	sources     []Source
	concurrency int
}

func NewAggregator(concurrency int, sources ...Source) *Aggregator {
	if concurrency <= 0 {
		concurrency = 1
	}

	return &Aggregator{sources: sources, concurrency: concurrency}
}

// List queries every source and merges the rows, newest first. A failing source is
// logged and reported in Result.Failures; it never fails the whole feed.
func (a *Aggregator) List(ctx context.Context) Result {
	views := make([][]View, len(a.sources))
	errs := make([]error, len(a.sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	for i, src := range a.sources {
		g.Go(func() error {
			views[i], errs[i] = src.Fetch(gctx)
			return nil
		})
	}

	_ = g.Wait()

	var res Result

	for i, src := range a.sources {
		if errs[i] != nil {
			slog.Warn("payment source failed", "source", src.Name(), "error", errs[i])

			res.Failures = append(res.Failures, Failure{Source: src.Name(), Error: errs[i].Error()})

			continue
		}

		res.Payments = append(res.Payments, views[i]...)
	}

	Sort(res.Payments)

	return res
}

// Sort orders views by date, newest first, breaking ties by id.
func Sort(views []View) {
	sort.SliceStable(views, func(i, j int) bool {
		if !views[i].Date.Equal(views[j].Date) {
			return views[i].Date.After(views[j].Date)
		}

		return views[i].ID < views[j].ID
	})
}
