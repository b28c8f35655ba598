package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendpulse/internal/domain/engagement"
)

// stubRecordStore serves canned records and captures the last filter
// it was queried with
type stubRecordStore struct {
	records    []engagement.Record
	err        error
	lastFilter engagement.Filter
}

func (s *stubRecordStore) FetchRecords(_ context.Context, filter engagement.Filter) ([]engagement.Record, error) {
	s.lastFilter = filter
	return s.records, s.err
}

func record(category string, created time.Time, views, likes, comments, shares int64) engagement.Record {
	r := engagement.Record{
		Platform:  engagement.PlatformYouTube,
		Category:  category,
		Views:     views,
		Likes:     likes,
		Comments:  comments,
		Shares:    shares,
		CreatedAt: created,
	}
	r.Normalize()
	return r
}

func TestAggregateWeeklySumsCounters(t *testing.T) {
	week1 := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	week2 := week1.AddDate(0, 0, 7)

	store := &stubRecordStore{records: []engagement.Record{
		record("Gaming", week1, 100, 10, 1, 1),
		record("Gaming", week1, 200, 20, 2, 2),
		record("Gaming", week2, 400, 40, 4, 4),
		record("Music", week2, 50, 5, 1, 0),
	}}

	buckets, err := NewAggregator(store).AggregateWeekly(context.Background(), engagement.PlatformYouTube, 2025, 24, 8)
	require.NoError(t, err)
	require.Len(t, buckets, 3)

	// Oldest first; within a period, categories sort alphabetically
	assert.Equal(t, "Gaming", buckets[0].Category)
	assert.Equal(t, int64(300), buckets[0].Views)
	assert.Equal(t, int64(30), buckets[0].Likes)

	assert.Equal(t, "Gaming", buckets[1].Category)
	assert.Equal(t, int64(400), buckets[1].Views)

	assert.Equal(t, "Music", buckets[2].Category)
	assert.Equal(t, int64(50), buckets[2].Views)
}

func TestAggregateWeeklyRoundTrip(t *testing.T) {
	created := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	store := &stubRecordStore{records: []engagement.Record{
		record("Gaming", created, 100, 10, 0, 0),
		record("Gaming", created, 200, 20, 0, 0),
		record("Gaming", created, 300, 30, 0, 0),
	}}

	buckets, err := NewAggregator(store).AggregateWeekly(context.Background(), engagement.PlatformYouTube, 2025, 23, 8)
	require.NoError(t, err)
	require.Len(t, buckets, 1)

	assert.Equal(t, int64(600), buckets[0].Views)
	assert.Equal(t, int64(60), buckets[0].Likes)
	assert.InDelta(t, 10.0, buckets[0].Rate(), 0.0001)
}

func TestAggregateWeeklyWindowsCrossYearBoundary(t *testing.T) {
	store := &stubRecordStore{}

	_, err := NewAggregator(store).AggregateWeekly(context.Background(), engagement.PlatformTikTok, 2025, 3, 8)
	require.NoError(t, err)

	require.Len(t, store.lastFilter.Windows, 2)
	assert.Equal(t, engagement.PeriodWindow{Year: 2025, WeekFrom: 1, WeekTo: 3}, store.lastFilter.Windows[0])
	assert.Equal(t, engagement.PeriodWindow{Year: 2024, WeekFrom: 47, WeekTo: 52}, store.lastFilter.Windows[1])
}

func TestAggregateMonthlyWindowsWithinYear(t *testing.T) {
	store := &stubRecordStore{}

	_, err := NewAggregator(store).AggregateMonthly(context.Background(), engagement.PlatformTikTok, 2025, 9, 6)
	require.NoError(t, err)

	require.Len(t, store.lastFilter.Windows, 1)
	assert.Equal(t, engagement.PeriodWindow{Year: 2025, MonthFrom: 3, MonthTo: 9}, store.lastFilter.Windows[0])
}

func TestAggregateMonthlyWindowsCrossYearBoundary(t *testing.T) {
	store := &stubRecordStore{}

	_, err := NewAggregator(store).AggregateMonthly(context.Background(), engagement.PlatformInstagram, 2025, 2, 6)
	require.NoError(t, err)

	require.Len(t, store.lastFilter.Windows, 2)
	assert.Equal(t, engagement.PeriodWindow{Year: 2025, MonthFrom: 1, MonthTo: 2}, store.lastFilter.Windows[0])
	assert.Equal(t, engagement.PeriodWindow{Year: 2024, MonthFrom: 8, MonthTo: 12}, store.lastFilter.Windows[1])
}

func TestAggregateMonthlyLongLookbackSpansMultipleYears(t *testing.T) {
	store := &stubRecordStore{}

	// A 24-month lookback ending mid-year needs two full prior years
	_, err := NewAggregator(store).AggregateMonthly(context.Background(), engagement.PlatformYouTube, 2025, 6, 24)
	require.NoError(t, err)

	require.Len(t, store.lastFilter.Windows, 3)
	assert.Equal(t, engagement.PeriodWindow{Year: 2025, MonthFrom: 1, MonthTo: 6}, store.lastFilter.Windows[0])
	assert.Equal(t, engagement.PeriodWindow{Year: 2024, MonthFrom: 1, MonthTo: 12}, store.lastFilter.Windows[1])
	assert.Equal(t, engagement.PeriodWindow{Year: 2023, MonthFrom: 6, MonthTo: 12}, store.lastFilter.Windows[2])

	for _, w := range store.lastFilter.Windows {
		assert.GreaterOrEqual(t, w.MonthFrom, 1)
	}
}

func TestAggregateWeeklyLongLookbackSpansMultipleYears(t *testing.T) {
	store := &stubRecordStore{}

	_, err := NewAggregator(store).AggregateWeekly(context.Background(), engagement.PlatformYouTube, 2025, 10, 64)
	require.NoError(t, err)

	require.Len(t, store.lastFilter.Windows, 3)
	assert.Equal(t, engagement.PeriodWindow{Year: 2025, WeekFrom: 1, WeekTo: 10}, store.lastFilter.Windows[0])
	assert.Equal(t, engagement.PeriodWindow{Year: 2024, WeekFrom: 1, WeekTo: 52}, store.lastFilter.Windows[1])
	assert.Equal(t, engagement.PeriodWindow{Year: 2023, WeekFrom: 50, WeekTo: 52}, store.lastFilter.Windows[2])
}

func TestAggregateStoreErrorPropagates(t *testing.T) {
	store := &stubRecordStore{err: errors.New("connection refused")}

	_, err := NewAggregator(store).AggregateWeekly(context.Background(), engagement.PlatformYouTube, 2025, 10, 8)
	assert.Error(t, err)
}

func TestGroupByCategoryPreservesOrder(t *testing.T) {
	buckets := []engagement.PeriodBucket{
		{Category: "Gaming", Year: 2025, Week: 1, Views: 10},
		{Category: "Music", Year: 2025, Week: 1, Views: 20},
		{Category: "Gaming", Year: 2025, Week: 2, Views: 30},
	}

	grouped := GroupByCategory(buckets)

	require.Len(t, grouped["Gaming"], 2)
	assert.Equal(t, int64(10), grouped["Gaming"][0].Views)
	assert.Equal(t, int64(30), grouped["Gaming"][1].Views)
	require.Len(t, grouped["Music"], 1)
}
