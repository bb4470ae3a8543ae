package services

import (
	"context"
	"fmt"
	"strings"

	"finboard/src/models"
	"finboard/src/repositories"
	"finboard/src/utils"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

// Beginner opens a transaction. *pgxpool.Pool satisfies it.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type PortfolioUpdate struct {
	Name        *string
	Description *string
}

type HoldingUpdate struct {
	Quantity     *float64
	AveragePrice *float64
}

type HoldingsResult struct {
	Holdings []HoldingValuation `json:"holdings"`
	Degraded bool               `json:"degraded"`
}

type AllocationResult struct {
	Allocation []AllocationEntry `json:"allocation"`
	TotalValue float64           `json:"total_value"`
	Degraded   bool              `json:"degraded"`
}

type RebalanceResult struct {
	Suggestions []RebalanceSuggestion `json:"suggestions"`
	Allocation  []AllocationEntry     `json:"current_allocation"`
	Degraded    bool                  `json:"degraded"`
}

type PortfolioSummary struct {
	Portfolio     *models.Portfolio  `json:"portfolio"`
	Holdings      []HoldingValuation `json:"holdings"`
	Performance   *Performance       `json:"performance"`
	HoldingsCount int                `json:"holdings_count"`
	Degraded      bool               `json:"degraded"`
}

type PortfolioServiceI interface {
	ListPortfolios(ctx context.Context, userID string) ([]models.Portfolio, error)
	CreatePortfolio(ctx context.Context, userID, name, description string) (*models.Portfolio, error)
	GetPortfolio(ctx context.Context, userID string, portfolioID int64) (*models.Portfolio, error)
	UpdatePortfolio(ctx context.Context, userID string, portfolioID int64, update PortfolioUpdate) (*models.Portfolio, error)
	DeletePortfolio(ctx context.Context, userID string, portfolioID int64) error
	AddHolding(ctx context.Context, userID string, portfolioID int64, symbol string, quantity, price float64) (*models.Holding, error)
	ListHoldings(ctx context.Context, userID string, portfolioID int64) (*HoldingsResult, error)
	UpdateHolding(ctx context.Context, userID string, portfolioID, holdingID int64, update HoldingUpdate) (*models.Holding, error)
	RemoveHolding(ctx context.Context, userID string, portfolioID, holdingID int64) error
	ComputePerformance(ctx context.Context, userID string, portfolioID int64) (*Performance, error)
	ComputeAllocation(ctx context.Context, userID string, portfolioID int64) (*AllocationResult, error)
	SuggestRebalance(ctx context.Context, userID string, portfolioID int64, targets map[string]float64) (*RebalanceResult, error)
	GetPortfolioSummary(ctx context.Context, userID string, portfolioID int64) (*PortfolioSummary, error)
}

type PortfolioService struct {
	db         Beginner
	portfolios repositories.PortfolioRepository
	holdings   repositories.HoldingRepository
	quotes     QuoteServiceI
}

func NewPortfolioService(db Beginner, portfolios repositories.PortfolioRepository, holdings repositories.HoldingRepository, quotes QuoteServiceI) *PortfolioService {
	return &PortfolioService{
		db:         db,
		portfolios: portfolios,
		holdings:   holdings,
		quotes:     quotes,
	}
}

// withTx commits when fn succeeds and rolls everything back otherwise.
func (s *PortfolioService) withTx(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				utils.LoggerFromContext(ctx).WithError(rbErr).Error("Failed to roll back transaction")
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func validatePortfolioName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", newValidationError("name", "is required")
	}
	if len([]rune(name)) > 100 {
		return "", newValidationError("name", "must have at most 100 characters")
	}
	return name, nil
}

func validateAmount(field string, value float64) error {
	if value < 0 {
		return newValidationError(field, "must not be negative")
	}
	return nil
}

func (s *PortfolioService) ListPortfolios(ctx context.Context, userID string) ([]models.Portfolio, error) {
	portfolios, err := s.portfolios.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if portfolios == nil {
		portfolios = []models.Portfolio{}
	}
	return portfolios, nil
}

func (s *PortfolioService) CreatePortfolio(ctx context.Context, userID, name, description string) (*models.Portfolio, error) {
	name, err := validatePortfolioName(name)
	if err != nil {
		return nil, err
	}

	portfolio := &models.Portfolio{UserID: userID, Name: name, Description: strings.TrimSpace(description)}
	if err := s.portfolios.Create(ctx, portfolio, nil); err != nil {
		return nil, err
	}
	return portfolio, nil
}

func (s *PortfolioService) GetPortfolio(ctx context.Context, userID string, portfolioID int64) (*models.Portfolio, error) {
	portfolio, err := s.portfolios.GetByID(ctx, userID, portfolioID, nil)
	if err != nil {
		return nil, err
	}
	if portfolio == nil {
		return nil, ErrPortfolioNotFound
	}
	return portfolio, nil
}

func (s *PortfolioService) UpdatePortfolio(ctx context.Context, userID string, portfolioID int64, update PortfolioUpdate) (*models.Portfolio, error) {
	var portfolio *models.Portfolio
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		existing, err := s.portfolios.GetByID(ctx, userID, portfolioID, tx)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrPortfolioNotFound
		}

		if update.Name != nil {
			if existing.Name, err = validatePortfolioName(*update.Name); err != nil {
				return err
			}
		}
		if update.Description != nil {
			existing.Description = strings.TrimSpace(*update.Description)
		}

		found, err := s.portfolios.Update(ctx, existing, tx)
		if err != nil {
			return err
		}
		if !found {
			return ErrPortfolioNotFound
		}
		portfolio = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return portfolio, nil
}

func (s *PortfolioService) DeletePortfolio(ctx context.Context, userID string, portfolioID int64) error {
	found, err := s.portfolios.Delete(ctx, userID, portfolioID, nil)
	if err != nil {
		return err
	}
	if !found {
		return ErrPortfolioNotFound
	}
	return nil
}

// AddHolding creates the position or merges the lot into the existing one
// at weighted average cost, all inside one transaction.
func (s *PortfolioService) AddHolding(ctx context.Context, userID string, portfolioID int64, symbol string, quantity, price float64) (*models.Holding, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, newValidationError("symbol", "is required")
	}
	if err := validateAmount("quantity", quantity); err != nil {
		return nil, err
	}
	if err := validateAmount("average_price", price); err != nil {
		return nil, err
	}

	var holding *models.Holding
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		portfolio, err := s.portfolios.GetByID(ctx, userID, portfolioID, tx)
		if err != nil {
			return err
		}
		if portfolio == nil {
			return ErrPortfolioNotFound
		}

		existing, err := s.holdings.GetBySymbol(ctx, portfolioID, symbol, tx)
		if err != nil {
			return err
		}
		if existing == nil {
			holding = &models.Holding{PortfolioID: portfolioID, Symbol: symbol, Quantity: quantity, AveragePrice: price}
			created, err := s.holdings.CreateIfAbsent(ctx, holding, tx)
			if err != nil || created {
				return err
			}
			// Another request inserted the symbol first; merge into its row.
			existing, err = s.holdings.GetBySymbol(ctx, portfolioID, symbol, tx)
			if err != nil {
				return err
			}
			if existing == nil {
				return fmt.Errorf("holding %s vanished during merge", symbol)
			}
		}

		existing.Quantity, existing.AveragePrice = MergeHolding(existing.Quantity, existing.AveragePrice, quantity, price)
		holding = existing
		return s.holdings.Update(ctx, holding, tx)
	})
	if err != nil {
		return nil, err
	}
	return holding, nil
}

func (s *PortfolioService) UpdateHolding(ctx context.Context, userID string, portfolioID, holdingID int64, update HoldingUpdate) (*models.Holding, error) {
	if update.Quantity == nil && update.AveragePrice == nil {
		return nil, newValidationError("holding", "quantity or average_price is required")
	}
	if update.Quantity != nil {
		if err := validateAmount("quantity", *update.Quantity); err != nil {
			return nil, err
		}
	}
	if update.AveragePrice != nil {
		if err := validateAmount("average_price", *update.AveragePrice); err != nil {
			return nil, err
		}
	}

	var holding *models.Holding
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		existing, err := s.holdings.GetByID(ctx, userID, portfolioID, holdingID, tx)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrHoldingNotFound
		}
		if update.Quantity != nil {
			existing.Quantity = *update.Quantity
		}
		if update.AveragePrice != nil {
			existing.AveragePrice = *update.AveragePrice
		}
		holding = existing
		return s.holdings.Update(ctx, holding, tx)
	})
	if err != nil {
		return nil, err
	}
	return holding, nil
}

func (s *PortfolioService) RemoveHolding(ctx context.Context, userID string, portfolioID, holdingID int64) error {
	found, err := s.holdings.Delete(ctx, userID, portfolioID, holdingID, nil)
	if err != nil {
		return err
	}
	if !found {
		return ErrHoldingNotFound
	}
	return nil
}

// valuedHoldings loads the portfolio's holdings and prices each distinct
// symbol once. Quote failures value the holding at zero.
func (s *PortfolioService) valuedHoldings(ctx context.Context, userID string, portfolioID int64) ([]HoldingValuation, error) {
	if _, err := s.GetPortfolio(ctx, userID, portfolioID); err != nil {
		return nil, err
	}
	holdings, err := s.holdings.ListByPortfolio(ctx, userID, portfolioID)
	if err != nil {
		return nil, err
	}

	logger := utils.LoggerFromContext(ctx)
	type price struct {
		value float64
		ok    bool
	}
	prices := make(map[string]price)
	valuations := make([]HoldingValuation, 0, len(holdings))
	for _, holding := range holdings {
		p, seen := prices[holding.Symbol]
		if !seen {
			quote, err := s.quotes.GetQuote(ctx, holding.Symbol)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, ctxErr
				}
				logger.WithError(err).WithFields(logrus.Fields{
					"symbol":       holding.Symbol,
					"portfolio_id": portfolioID,
				}).Warn("Valuing holding at zero")
			} else {
				p = price{value: quote.CurrentPrice, ok: true}
			}
			prices[holding.Symbol] = p
		}
		valuations = append(valuations, ValueHolding(holding, p.value, p.ok))
	}
	return valuations, nil
}

func (s *PortfolioService) ListHoldings(ctx context.Context, userID string, portfolioID int64) (*HoldingsResult, error) {
	valuations, err := s.valuedHoldings(ctx, userID, portfolioID)
	if err != nil {
		return nil, err
	}
	return &HoldingsResult{Holdings: valuations, Degraded: anyUnpriced(valuations)}, nil
}

func (s *PortfolioService) ComputePerformance(ctx context.Context, userID string, portfolioID int64) (*Performance, error) {
	valuations, err := s.valuedHoldings(ctx, userID, portfolioID)
	if err != nil {
		return nil, err
	}
	return ComputePerformance(valuations), nil
}

func (s *PortfolioService) ComputeAllocation(ctx context.Context, userID string, portfolioID int64) (*AllocationResult, error) {
	valuations, err := s.valuedHoldings(ctx, userID, portfolioID)
	if err != nil {
		return nil, err
	}
	performance := ComputePerformance(valuations)
	return &AllocationResult{
		Allocation: ComputeAllocation(valuations),
		TotalValue: performance.TotalValue,
		Degraded:   performance.Degraded,
	}, nil
}

func (s *PortfolioService) SuggestRebalance(ctx context.Context, userID string, portfolioID int64, targets map[string]float64) (*RebalanceResult, error) {
	if err := validateTargets(targets); err != nil {
		return nil, err
	}
	valuations, err := s.valuedHoldings(ctx, userID, portfolioID)
	if err != nil {
		return nil, err
	}
	allocation := ComputeAllocation(valuations)
	return &RebalanceResult{
		Suggestions: SuggestRebalance(allocation, targets),
		Allocation:  allocation,
		Degraded:    anyUnpriced(valuations),
	}, nil
}

func (s *PortfolioService) GetPortfolioSummary(ctx context.Context, userID string, portfolioID int64) (*PortfolioSummary, error) {
	portfolio, err := s.GetPortfolio(ctx, userID, portfolioID)
	if err != nil {
		return nil, err
	}
	valuations, err := s.valuedHoldings(ctx, userID, portfolioID)
	if err != nil {
		return nil, err
	}
	performance := ComputePerformance(valuations)
	return &PortfolioSummary{
		Portfolio:     portfolio,
		Holdings:      valuations,
		Performance:   performance,
		HoldingsCount: len(valuations),
		Degraded:      performance.Degraded,
	}, nil
}

func anyUnpriced(valuations []HoldingValuation) bool {
	for _, v := range valuations {
		if v.PriceUnavailable {
			return true
		}
	}
	return false
}
