package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists the per-user profile data kept by the listing service.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

type SavedOpportunity struct {
	OpportunityID string    `json:"opportunity_id"`
	SavedAt       time.Time `json:"saved_at"`
}

type SavedParams struct {
	Limit  int
	Offset int
}

type SavedCount struct {
	UserID uuid.UUID
	Count  int
	Latest time.Time
}

func (s *Store) SaveOpportunity(ctx context.Context, userID uuid.UUID, oppID string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO saved_opportunities (user_id, opportunity_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, opportunity_id) DO NOTHING
	`, userID, oppID)
	if err != nil {
		return fmt.Errorf("save opportunity: %w", err)
	}
	return nil
}

func (s *Store) UnsaveOpportunity(ctx context.Context, userID uuid.UUID, oppID string) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM saved_opportunities
		WHERE user_id = $1 AND opportunity_id = $2
	`, userID, oppID)
	if err != nil {
		return fmt.Errorf("unsave opportunity: %w", err)
	}
	return nil
}

func (s *Store) ListSaved(ctx context.Context, userID uuid.UUID, params SavedParams) ([]SavedOpportunity, error) {
	query, args := buildSavedQuery(userID, params)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	saved := []SavedOpportunity{}
	for rows.Next() {
		var so SavedOpportunity
		if err := rows.Scan(&so.OpportunityID, &so.SavedAt); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		saved = append(saved, so)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return saved, nil
}

// CountsByUser summarises saved opportunities per user, most active first.
func (s *Store) CountsByUser(ctx context.Context, limit int) ([]SavedCount, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT user_id, COUNT(*), MAX(saved_at)
		FROM saved_opportunities
		GROUP BY user_id
		ORDER BY COUNT(*) DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var counts []SavedCount
	for rows.Next() {
		var sc SavedCount
		if err := rows.Scan(&sc.UserID, &sc.Count, &sc.Latest); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		counts = append(counts, sc)
	}
	return counts, rows.Err()
}

func buildSavedQuery(userID uuid.UUID, params SavedParams) (string, []interface{}) {
	var b strings.Builder
	b.WriteString("SELECT opportunity_id, saved_at FROM saved_opportunities WHERE user_id = $1 ORDER BY saved_at DESC, opportunity_id ASC")
	args := []interface{}{userID}

	limit := params.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	args = append(args, limit)
	b.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))

	if params.Offset > 0 {
		args = append(args, params.Offset)
		b.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))
	}
	return b.String(), args
}
