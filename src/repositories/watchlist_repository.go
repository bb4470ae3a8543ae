package repositories

import (
	"context"
	"errors"
	"fmt"

	"finboard/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type WatchlistRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.WatchlistItem, error)
	// Create reports false when the user already watches the symbol.
	Create(ctx context.Context, item *models.WatchlistItem, tx pgx.Tx) (bool, error)
	Delete(ctx context.Context, userID string, symbol string, tx pgx.Tx) (bool, error)
}

type watchlistRepo struct {
	db *pgxpool.Pool
}

func NewWatchlistRepository(db *pgxpool.Pool) WatchlistRepository {
	return &watchlistRepo{db: db}
}

func (r *watchlistRepo) ListByUser(ctx context.Context, userID string) ([]models.WatchlistItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, symbol, name, created_at
		FROM watchlist_items
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}
	defer rows.Close()

	items := []models.WatchlistItem{}
	for rows.Next() {
		var item models.WatchlistItem
		if err := rows.Scan(&item.ID, &item.UserID, &item.Symbol, &item.Name, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *watchlistRepo) Create(ctx context.Context, item *models.WatchlistItem, tx pgx.Tx) (bool, error) {
	query := `
		INSERT INTO watchlist_items (user_id, symbol, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, symbol) DO NOTHING
		RETURNING id, created_at`

	created := false
	err := inTx(ctx, r.db, tx, func(q querier) error {
		err := q.QueryRow(ctx, query, item.UserID, item.Symbol, item.Name).Scan(&item.ID, &item.CreatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to add %s to watchlist: %w", item.Symbol, err)
		}
		created = true
		return nil
	})
	return created, err
}

func (r *watchlistRepo) Delete(ctx context.Context, userID string, symbol string, tx pgx.Tx) (bool, error) {
	found := false
	err := inTx(ctx, r.db, tx, func(q querier) error {
		tag, err := q.Exec(ctx, `DELETE FROM watchlist_items WHERE user_id = $1 AND symbol = $2`, userID, symbol)
		if err != nil {
			return fmt.Errorf("failed to remove %s from watchlist: %w", symbol, err)
		}
		found = tag.RowsAffected() > 0
		return nil
	})
	return found, err
}
