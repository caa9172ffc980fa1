package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/loomcli/loom/internal/model"
)

// SaveRatings replaces the cached recent ratings wholesale. The cache holds
// whatever the last refresh produced, nothing older.
func (s *SQLiteCache) SaveRatings(ctx context.Context, ratings []model.Rating) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM recent_ratings"); err != nil {
		return fmt.Errorf("failed to clear cached ratings: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO recent_ratings (id, shirt_id, pants_id, shoes_id, rating, notes, rated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range ratings {
		if _, err := stmt.ExecContext(ctx, r.ID, r.ShirtID, r.PantsID, r.ShoesID, r.Stars, r.Notes, r.RatedAt); err != nil {
			return fmt.Errorf("failed to insert rating %d: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ratings: %w", err)
	}
	return nil
}

// RecentRatings returns up to limit cached ratings, newest first.
func (s *SQLiteCache) RecentRatings(ctx context.Context, limit int) ([]model.Rating, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, shirt_id, pants_id, shoes_id, rating, IFNULL(notes, ''), rated_at
		FROM recent_ratings
		ORDER BY rated_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query cached ratings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ratings []model.Rating
	for rows.Next() {
		var r model.Rating
		if err := rows.Scan(&r.ID, &r.ShirtID, &r.PantsID, &r.ShoesID, &r.Stars, &r.Notes, &r.RatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cached ratings: %w", err)
	}

	return ratings, nil
}

// SaveStats stores the latest stats snapshot, replacing any previous one.
func (s *SQLiteCache) SaveStats(ctx context.Context, stats *model.Stats) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if stats == nil {
		return fmt.Errorf("stats cannot be nil")
	}

	payload, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO stats_snapshot (id, payload, cached_at) VALUES (1, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, cached_at = excluded.cached_at`,
		string(payload))
	if err != nil {
		return fmt.Errorf("failed to store stats snapshot: %w", err)
	}
	return nil
}

// LastStats returns the most recently cached stats snapshot, or nil when
// the cache is cold.
func (s *SQLiteCache) LastStats(ctx context.Context) (*model.Stats, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var payload string
	err := s.db.QueryRowContext(ctx, "SELECT payload FROM stats_snapshot WHERE id = 1").Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read stats snapshot: %w", err)
	}

	var stats model.Stats
	if err := json.Unmarshal([]byte(payload), &stats); err != nil {
		return nil, fmt.Errorf("failed to decode stats snapshot: %w", err)
	}
	return &stats, nil
}
