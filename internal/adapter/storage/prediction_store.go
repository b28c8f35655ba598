package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"trendpulse/internal/domain/engagement"
	"trendpulse/internal/domain/forecast"
)

// defaultPredictionLimit bounds history listings without an explicit
// limit
const defaultPredictionLimit = 50

// PredictionStore implements append-only storage for predictions
type PredictionStore struct {
	db *pgxpool.Pool
}

// NewPredictionStore creates a new prediction store
func NewPredictionStore(db *pgxpool.Pool) *PredictionStore {
	return &PredictionStore{
		db: db,
	}
}

// SavePrediction writes one prediction record. Predictions are never
// updated in place; each forecast run inserts a new row.
func (s *PredictionStore) SavePrediction(ctx context.Context, p forecast.Prediction) error {
	query := `
		INSERT INTO predictions (
			id, type, platform, categories, accuracy, insights, generated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if p.GeneratedAt.IsZero() {
		p.GeneratedAt = time.Now()
	}

	categoriesJSON, err := json.Marshal(p.Categories)
	if err != nil {
		return fmt.Errorf("error marshaling categories: %w", err)
	}

	_, err = s.db.Exec(
		ctx,
		query,
		p.ID,
		string(p.Type),
		string(p.Platform),
		categoriesJSON,
		p.Accuracy,
		p.Insights,
		p.GeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// FindPredictionByID returns a single stored prediction
func (s *PredictionStore) FindPredictionByID(ctx context.Context, id string) (*forecast.Prediction, error) {
	query := `
		SELECT id, type, platform, categories, accuracy, insights, generated_at
		FROM predictions
		WHERE id = $1
	`

	var p forecast.Prediction
	var horizon, platform string
	var categoriesJSON []byte

	err := s.db.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&horizon,
		&platform,
		&categoriesJSON,
		&p.Accuracy,
		&p.Insights,
		&p.GeneratedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, forecast.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying prediction: %w", err)
	}

	p.Type = forecast.Horizon(horizon)
	p.Platform = engagement.Platform(platform)

	if err := json.Unmarshal(categoriesJSON, &p.Categories); err != nil {
		return nil, fmt.Errorf("error unmarshaling categories: %w", err)
	}

	return &p, nil
}

// FindPredictions returns stored predictions matching the filter,
// newest first
func (s *PredictionStore) FindPredictions(ctx context.Context, filter forecast.Filter) ([]forecast.Prediction, error) {
	query := `
		SELECT id, type, platform, categories, accuracy, insights, generated_at
		FROM predictions
		WHERE 1=1
	`

	args := []interface{}{}
	argIndex := 1

	if filter.Platform != "" {
		query += fmt.Sprintf(" AND platform = $%d", argIndex)
		args = append(args, string(filter.Platform))
		argIndex++
	}

	if filter.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", argIndex)
		args = append(args, string(filter.Type))
		argIndex++
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultPredictionLimit
	}
	query += fmt.Sprintf(" ORDER BY generated_at DESC LIMIT $%d", argIndex)
	args = append(args, limit)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var predictions []forecast.Prediction
	for rows.Next() {
		var p forecast.Prediction
		var horizon, platform string
		var categoriesJSON []byte

		err := rows.Scan(
			&p.ID,
			&horizon,
			&platform,
			&categoriesJSON,
			&p.Accuracy,
			&p.Insights,
			&p.GeneratedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning prediction: %w", err)
		}

		p.Type = forecast.Horizon(horizon)
		p.Platform = engagement.Platform(platform)

		if err := json.Unmarshal(categoriesJSON, &p.Categories); err != nil {
			return nil, fmt.Errorf("error unmarshaling categories: %w", err)
		}

		predictions = append(predictions, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating predictions: %w", err)
	}

	return predictions, nil
}
