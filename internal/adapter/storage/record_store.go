package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v4/pgxpool"

	"trendpulse/internal/domain/engagement"
)

// RecordStore implements read access to ingested engagement records
type RecordStore struct {
	db *pgxpool.Pool
}

// NewRecordStore creates a new record store
func NewRecordStore(db *pgxpool.Pool) *RecordStore {
	return &RecordStore{
		db: db,
	}
}

// FetchRecords returns records matching the filter, newest first.
// Period windows inside one filter are OR-combined so a lookback that
// crosses a year boundary stays a single query.
func (s *RecordStore) FetchRecords(ctx context.Context, filter engagement.Filter) ([]engagement.Record, error) {
	query := `
		SELECT
			id, platform, category, views, likes, comments, shares,
			created_at, week_number, month_number, year
		FROM engagement_records
		WHERE 1=1
	`

	args := []interface{}{}
	argIndex := 1

	if filter.Platform != "" {
		query += fmt.Sprintf(" AND platform = $%d", argIndex)
		args = append(args, string(filter.Platform))
		argIndex++
	}

	if filter.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", argIndex)
		args = append(args, filter.Category)
		argIndex++
	}

	if len(filter.Windows) > 0 {
		clauses := make([]string, 0, len(filter.Windows))
		for _, w := range filter.Windows {
			if w.WeekTo > 0 {
				clauses = append(clauses, fmt.Sprintf(
					"(year = $%d AND week_number BETWEEN $%d AND $%d)",
					argIndex, argIndex+1, argIndex+2,
				))
				args = append(args, w.Year, w.WeekFrom, w.WeekTo)
			} else {
				clauses = append(clauses, fmt.Sprintf(
					"(year = $%d AND month_number BETWEEN $%d AND $%d)",
					argIndex, argIndex+1, argIndex+2,
				))
				args = append(args, w.Year, w.MonthFrom, w.MonthTo)
			}
			argIndex += 3
		}
		query += " AND (" + strings.Join(clauses, " OR ") + ")"
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filter.Limit)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var records []engagement.Record
	for rows.Next() {
		var r engagement.Record
		var platform string

		err := rows.Scan(
			&r.ID,
			&platform,
			&r.Category,
			&r.Views,
			&r.Likes,
			&r.Comments,
			&r.Shares,
			&r.CreatedAt,
			&r.WeekNumber,
			&r.MonthNumber,
			&r.Year,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning record: %w", err)
		}

		r.Platform = engagement.Platform(platform)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	return records, nil
}
