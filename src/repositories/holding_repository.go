package repositories

import (
	"context"
	"errors"
	"fmt"

	"finboard/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HoldingRepository reads and writes holdings. Every lookup joins portfolios
// so a holding is only visible through its owner's user id.
type HoldingRepository interface {
	ListByPortfolio(ctx context.Context, userID string, portfolioID int64) ([]models.Holding, error)
	GetByID(ctx context.Context, userID string, portfolioID, holdingID int64, tx pgx.Tx) (*models.Holding, error)
	GetBySymbol(ctx context.Context, portfolioID int64, symbol string, tx pgx.Tx) (*models.Holding, error)
	Create(ctx context.Context, h *models.Holding, tx pgx.Tx) error
	CreateIfAbsent(ctx context.Context, h *models.Holding, tx pgx.Tx) (bool, error)
	Update(ctx context.Context, h *models.Holding, tx pgx.Tx) error
	Delete(ctx context.Context, userID string, portfolioID, holdingID int64, tx pgx.Tx) (bool, error)
}

type holdingRepo struct {
	db *pgxpool.Pool
}

func NewHoldingRepository(db *pgxpool.Pool) HoldingRepository {
	return &holdingRepo{db: db}
}

func (r *holdingRepo) ListByPortfolio(ctx context.Context, userID string, portfolioID int64) ([]models.Holding, error) {
	rows, err := r.db.Query(ctx,
		`SELECT h.id, h.portfolio_id, h.symbol, h.quantity, h.average_price, h.created_at, h.updated_at
		FROM holdings h
		JOIN portfolios p ON p.id = h.portfolio_id
		WHERE h.portfolio_id = $1 AND p.user_id = $2
		ORDER BY h.symbol`,
		portfolioID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}
	defer rows.Close()

	holdings := []models.Holding{}
	for rows.Next() {
		var h models.Holding
		if err := rows.Scan(&h.ID, &h.PortfolioID, &h.Symbol, &h.Quantity, &h.AveragePrice, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		holdings = append(holdings, h)
	}
	return holdings, rows.Err()
}

func (r *holdingRepo) GetByID(ctx context.Context, userID string, portfolioID, holdingID int64, tx pgx.Tx) (*models.Holding, error) {
	var h models.Holding
	err := pick(r.db, tx).QueryRow(ctx,
		`SELECT h.id, h.portfolio_id, h.symbol, h.quantity, h.average_price, h.created_at, h.updated_at
		FROM holdings h
		JOIN portfolios p ON p.id = h.portfolio_id
		WHERE h.id = $1 AND h.portfolio_id = $2 AND p.user_id = $3`,
		holdingID, portfolioID, userID).Scan(&h.ID, &h.PortfolioID, &h.Symbol, &h.Quantity, &h.AveragePrice, &h.CreatedAt, &h.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get holding %d: %w", holdingID, err)
	}
	return &h, nil
}

// GetBySymbol locks the row when called inside a transaction so concurrent merges serialize.
func (r *holdingRepo) GetBySymbol(ctx context.Context, portfolioID int64, symbol string, tx pgx.Tx) (*models.Holding, error) {
	query := `SELECT id, portfolio_id, symbol, quantity, average_price, created_at, updated_at
		FROM holdings
		WHERE portfolio_id = $1 AND symbol = $2`
	if tx != nil {
		query += ` FOR UPDATE`
	}

	var h models.Holding
	err := pick(r.db, tx).QueryRow(ctx, query, portfolioID, symbol).
		Scan(&h.ID, &h.PortfolioID, &h.Symbol, &h.Quantity, &h.AveragePrice, &h.CreatedAt, &h.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get holding %s: %w", symbol, err)
	}
	return &h, nil
}

func (r *holdingRepo) Create(ctx context.Context, h *models.Holding, tx pgx.Tx) error {
	query := `
		INSERT INTO holdings (portfolio_id, symbol, quantity, average_price)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	return inTx(ctx, r.db, tx, func(q querier) error {
		err := q.QueryRow(ctx, query, h.PortfolioID, h.Symbol, h.Quantity, h.AveragePrice).
			Scan(&h.ID, &h.CreatedAt, &h.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create holding: %w", err)
		}
		return nil
	})
}

// CreateIfAbsent inserts h unless the portfolio already holds the symbol.
// A concurrent insert of the same symbol waits for the other transaction
// and then reports false instead of a unique violation.
func (r *holdingRepo) CreateIfAbsent(ctx context.Context, h *models.Holding, tx pgx.Tx) (bool, error) {
	query := `
		INSERT INTO holdings (portfolio_id, symbol, quantity, average_price)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (portfolio_id, symbol) DO NOTHING
		RETURNING id, created_at, updated_at`

	created := false
	err := inTx(ctx, r.db, tx, func(q querier) error {
		err := q.QueryRow(ctx, query, h.PortfolioID, h.Symbol, h.Quantity, h.AveragePrice).
			Scan(&h.ID, &h.CreatedAt, &h.UpdatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to create holding: %w", err)
		}
		created = true
		return nil
	})
	return created, err
}

func (r *holdingRepo) Update(ctx context.Context, h *models.Holding, tx pgx.Tx) error {
	query := `
		UPDATE holdings
		SET quantity = $1, average_price = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at`

	return inTx(ctx, r.db, tx, func(q querier) error {
		if err := q.QueryRow(ctx, query, h.Quantity, h.AveragePrice, h.ID).Scan(&h.UpdatedAt); err != nil {
			return fmt.Errorf("failed to update holding %d: %w", h.ID, err)
		}
		return nil
	})
}

func (r *holdingRepo) Delete(ctx context.Context, userID string, portfolioID, holdingID int64, tx pgx.Tx) (bool, error) {
	query := `
		DELETE FROM holdings h
		USING portfolios p
		WHERE h.id = $1 AND h.portfolio_id = $2 AND p.id = h.portfolio_id AND p.user_id = $3`

	found := false
	err := inTx(ctx, r.db, tx, func(q querier) error {
		tag, err := q.Exec(ctx, query, holdingID, portfolioID, userID)
		if err != nil {
			return fmt.Errorf("failed to delete holding %d: %w", holdingID, err)
		}
		found = tag.RowsAffected() > 0
		return nil
	})
	return found, err
}
