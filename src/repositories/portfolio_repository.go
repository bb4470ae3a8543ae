package repositories

import (
	"context"
	"errors"
	"fmt"

	"finboard/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PortfolioRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.Portfolio, error)
	GetByID(ctx context.Context, userID string, id int64, tx pgx.Tx) (*models.Portfolio, error)
	Create(ctx context.Context, p *models.Portfolio, tx pgx.Tx) error
	Update(ctx context.Context, p *models.Portfolio, tx pgx.Tx) (bool, error)
	Delete(ctx context.Context, userID string, id int64, tx pgx.Tx) (bool, error)
}

type portfolioRepo struct {
	db *pgxpool.Pool
}

func NewPortfolioRepository(db *pgxpool.Pool) PortfolioRepository {
	return &portfolioRepo{db: db}
}

func (r *portfolioRepo) ListByUser(ctx context.Context, userID string) ([]models.Portfolio, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, name, description, created_at, updated_at
		FROM portfolios
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}
	defer rows.Close()

	portfolios := []models.Portfolio{}
	for rows.Next() {
		var p models.Portfolio
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		portfolios = append(portfolios, p)
	}
	return portfolios, rows.Err()
}

// GetByID returns nil without error when the portfolio does not exist or belongs to another user.
func (r *portfolioRepo) GetByID(ctx context.Context, userID string, id int64, tx pgx.Tx) (*models.Portfolio, error) {
	var p models.Portfolio
	err := pick(r.db, tx).QueryRow(ctx,
		`SELECT id, user_id, name, description, created_at, updated_at
		FROM portfolios
		WHERE id = $1 AND user_id = $2`,
		id, userID).Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get portfolio %d: %w", id, err)
	}
	return &p, nil
}

func (r *portfolioRepo) Create(ctx context.Context, p *models.Portfolio, tx pgx.Tx) error {
	query := `
		INSERT INTO portfolios (user_id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	return inTx(ctx, r.db, tx, func(q querier) error {
		if err := q.QueryRow(ctx, query, p.UserID, p.Name, p.Description).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return fmt.Errorf("failed to create portfolio: %w", err)
		}
		return nil
	})
}

func (r *portfolioRepo) Update(ctx context.Context, p *models.Portfolio, tx pgx.Tx) (bool, error) {
	query := `
		UPDATE portfolios
		SET name = $1, description = $2, updated_at = NOW()
		WHERE id = $3 AND user_id = $4
		RETURNING created_at, updated_at`

	found := false
	err := inTx(ctx, r.db, tx, func(q querier) error {
		err := q.QueryRow(ctx, query, p.Name, p.Description, p.ID, p.UserID).Scan(&p.CreatedAt, &p.UpdatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to update portfolio %d: %w", p.ID, err)
		}
		found = true
		return nil
	})
	return found, err
}

// Delete removes the portfolio; its holdings go with it through ON DELETE CASCADE.
func (r *portfolioRepo) Delete(ctx context.Context, userID string, id int64, tx pgx.Tx) (bool, error) {
	found := false
	err := inTx(ctx, r.db, tx, func(q querier) error {
		tag, err := q.Exec(ctx, `DELETE FROM portfolios WHERE id = $1 AND user_id = $2`, id, userID)
		if err != nil {
			return fmt.Errorf("failed to delete portfolio %d: %w", id, err)
		}
		found = tag.RowsAffected() > 0
		return nil
	})
	return found, err
}
