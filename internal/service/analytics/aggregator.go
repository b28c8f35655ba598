package analytics

import (
	"context"
	"fmt"
	"sort"

	"trendpulse/internal/domain/engagement"
)

// RecordStore defines the record fetch boundary the analytics core
// depends on. Window filters in the same Filter are OR-combined by
// the store so a lookback crossing a year boundary stays one query.
type RecordStore interface {
	FetchRecords(ctx context.Context, filter engagement.Filter) ([]engagement.Record, error)
}

// Aggregator groups raw engagement records into per-category period
// buckets
type Aggregator struct {
	store RecordStore
}

// NewAggregator creates a new aggregator
func NewAggregator(store RecordStore) *Aggregator {
	return &Aggregator{store: store}
}

// AggregateWeekly returns per-category weekly buckets for the
// lookback window ending at (year, week), oldest first. Periods with
// no matching records are omitted; callers must handle sparse series.
func (a *Aggregator) AggregateWeekly(ctx context.Context, platform engagement.Platform, year, week, lookback int) ([]engagement.PeriodBucket, error) {
	filter := engagement.Filter{
		Platform: platform,
		Windows:  weeklyWindows(year, week, lookback),
	}

	records, err := a.store.FetchRecords(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching records: %w", err)
	}

	return bucketize(records, true), nil
}

// AggregateMonthly returns per-category monthly buckets for the
// lookback window ending at (year, month), oldest first.
func (a *Aggregator) AggregateMonthly(ctx context.Context, platform engagement.Platform, year, month, lookback int) ([]engagement.PeriodBucket, error) {
	filter := engagement.Filter{
		Platform: platform,
		Windows:  monthlyWindows(year, month, lookback),
	}

	records, err := a.store.FetchRecords(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching records: %w", err)
	}

	return bucketize(records, false), nil
}

// weeklyWindows builds the store windows for a weekly lookback,
// walking back one per-year range at a time for as many prior years
// as the lookback spans. Windows are emitted newest year first.
func weeklyWindows(year, week, lookback int) []engagement.PeriodWindow {
	var windows []engagement.PeriodWindow

	from := week - lookback
	to := week
	for {
		windows = append(windows, engagement.PeriodWindow{
			Year:     year,
			WeekFrom: max(1, from),
			WeekTo:   to,
		})
		if from >= 1 {
			return windows
		}
		from += 52
		to = 52
		year--
	}
}

// monthlyWindows builds the store windows for a monthly lookback
func monthlyWindows(year, month, lookback int) []engagement.PeriodWindow {
	var windows []engagement.PeriodWindow

	from := month - lookback
	to := month
	for {
		windows = append(windows, engagement.PeriodWindow{
			Year:      year,
			MonthFrom: max(1, from),
			MonthTo:   to,
		})
		if from >= 1 {
			return windows
		}
		from += 12
		to = 12
		year--
	}
}

// bucketize groups records by category and period and sums their
// counters. Output is sorted by (year, period, category) ascending.
func bucketize(records []engagement.Record, weekly bool) []engagement.PeriodBucket {
	type key struct {
		category string
		year     int
		period   int
	}

	buckets := make(map[key]*engagement.PeriodBucket)
	for i := range records {
		r := records[i]
		r.Normalize()

		period := r.MonthNumber
		if weekly {
			period = r.WeekNumber
		}

		k := key{category: r.Category, year: r.Year, period: period}
		b, ok := buckets[k]
		if !ok {
			b = &engagement.PeriodBucket{Category: r.Category, Year: r.Year}
			if weekly {
				b.Week = period
			} else {
				b.Month = period
			}
			buckets[k] = b
		}

		b.Views += r.Views
		b.Likes += r.Likes
		b.Comments += r.Comments
		b.Shares += r.Shares
	}

	out := make([]engagement.PeriodBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		pi, pj := out[i].Week+out[i].Month, out[j].Week+out[j].Month
		if pi != pj {
			return pi < pj
		}
		return out[i].Category < out[j].Category
	})

	return out
}

// GroupByCategory splits a chronological bucket sequence into
// per-category series, preserving order within each category.
func GroupByCategory(buckets []engagement.PeriodBucket) map[string][]engagement.PeriodBucket {
	grouped := make(map[string][]engagement.PeriodBucket)
	for _, b := range buckets {
		grouped[b.Category] = append(grouped[b.Category], b)
	}
	return grouped
}
