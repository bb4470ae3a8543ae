package controllers

import (
	"context"

	"finboard/src/schemas"
	"finboard/src/services"
)

type PortfoliosControllerI interface {
	ListPortfolios(ctx context.Context, userID string) (*schemas.Response, error)
	CreatePortfolio(ctx context.Context, userID string, req *schemas.CreatePortfolioRequest) (*schemas.Response, error)
	GetPortfolio(ctx context.Context, userID string, portfolioID int64) (*schemas.Response, error)
	UpdatePortfolio(ctx context.Context, userID string, portfolioID int64, req *schemas.UpdatePortfolioRequest) (*schemas.Response, error)
	DeletePortfolio(ctx context.Context, userID string, portfolioID int64) (*schemas.Response, error)
	GetPortfolioSummary(ctx context.Context, userID string, portfolioID int64) (*schemas.Response, error)
	ListHoldings(ctx context.Context, userID string, portfolioID int64) (*schemas.Response, error)
	AddHolding(ctx context.Context, userID string, portfolioID int64, req *schemas.AddHoldingRequest) (*schemas.Response, error)
	UpdateHolding(ctx context.Context, userID string, portfolioID, holdingID int64, req *schemas.UpdateHoldingRequest) (*schemas.Response, error)
	RemoveHolding(ctx context.Context, userID string, portfolioID, holdingID int64) (*schemas.Response, error)
	GetPerformance(ctx context.Context, userID string, portfolioID int64) (*schemas.Response, error)
	GetAllocation(ctx context.Context, userID string, portfolioID int64) (*schemas.Response, error)
	SuggestRebalance(ctx context.Context, userID string, portfolioID int64, req *schemas.RebalanceRequest) (*schemas.Response, error)
}

type PortfoliosController struct {
	Portfolios services.PortfolioServiceI
}

func NewPortfoliosController(portfolios services.PortfolioServiceI) *PortfoliosController {
	return &PortfoliosController{Portfolios: portfolios}
}

func (c *PortfoliosController) ListPortfolios(ctx context.Context, userID string) (*schemas.Response, error) {
	portfolios, err := c.Portfolios.ListPortfolios(ctx, userID)
	if err != nil {
		return nil, err
	}
	return schemas.NewListResponse(portfolios, len(portfolios), false), nil
}

func (c *PortfoliosController) CreatePortfolio(ctx context.Context, userID string, req *schemas.CreatePortfolioRequest) (*schemas.Response, error) {
	portfolio, err := c.Portfolios.CreatePortfolio(ctx, userID, req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	return schemas.NewResponse(portfolio), nil
}

func (c *PortfoliosController) GetPortfolio(ctx context.Context, userID string, portfolioID int64) (*schemas.Response, error) {
	portfolio, err := c.Portfolios.GetPortfolio(ctx, userID, portfolioID)
	if err != nil {
		return nil, err
	}
	return schemas.NewResponse(portfolio), nil
}

func (c *PortfoliosController) UpdatePortfolio(ctx context.Context, userID string, portfolioID int64, req *schemas.UpdatePortfolioRequest) (*schemas.Response, error) {
	portfolio, err := c.Portfolios.UpdatePortfolio(ctx, userID, portfolioID, services.PortfolioUpdate{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return nil, err
	}
	return schemas.NewResponse(portfolio), nil
}

func (c *PortfoliosController) DeletePortfolio(ctx context.Context, userID string, portfolioID int64) (*schemas.Response, error) {
	if err := c.Portfolios.DeletePortfolio(ctx, userID, portfolioID); err != nil {
		return nil, err
	}
	return schemas.NewResponse(map[string]int64{"deleted": portfolioID}), nil
}

func (c *PortfoliosController) GetPortfolioSummary(ctx context.Context, userID string, portfolioID int64) (*schemas.Response, error) {
	summary, err := c.Portfolios.GetPortfolioSummary(ctx, userID, portfolioID)
	if err != nil {
		return nil, err
	}
	response := schemas.NewResponse(summary)
	response.Degraded = summary.Degraded
	return response, nil
}

func (c *PortfoliosController) ListHoldings(ctx context.Context, userID string, portfolioID int64) (*schemas.Response, error) {
	result, err := c.Portfolios.ListHoldings(ctx, userID, portfolioID)
	if err != nil {
		return nil, err
	}
	return schemas.NewListResponse(result.Holdings, len(result.Holdings), result.Degraded), nil
}

func (c *PortfoliosController) AddHolding(ctx context.Context, userID string, portfolioID int64, req *schemas.AddHoldingRequest) (*schemas.Response, error) {
	holding, err := c.Portfolios.AddHolding(ctx, userID, portfolioID, req.Symbol, req.Quantity, req.AveragePrice)
	if err != nil {
		return nil, err
	}
	return schemas.NewResponse(holding), nil
}

func (c *PortfoliosController) UpdateHolding(ctx context.Context, userID string, portfolioID, holdingID int64, req *schemas.UpdateHoldingRequest) (*schemas.Response, error) {
	holding, err := c.Portfolios.UpdateHolding(ctx, userID, portfolioID, holdingID, services.HoldingUpdate{
		Quantity:     req.Quantity,
		AveragePrice: req.AveragePrice,
	})
	if err != nil {
		return nil, err
	}
	return schemas.NewResponse(holding), nil
}

func (c *PortfoliosController) RemoveHolding(ctx context.Context, userID string, portfolioID, holdingID int64) (*schemas.Response, error) {
	if err := c.Portfolios.RemoveHolding(ctx, userID, portfolioID, holdingID); err != nil {
		return nil, err
	}
	return schemas.NewResponse(map[string]int64{"deleted": holdingID}), nil
}

func (c *PortfoliosController) GetPerformance(ctx context.Context, userID string, portfolioID int64) (*schemas.Response, error) {
	performance, err := c.Portfolios.ComputePerformance(ctx, userID, portfolioID)
	if err != nil {
		return nil, err
	}
	response := schemas.NewResponse(performance)
	response.Degraded = performance.Degraded
	return response, nil
}

func (c *PortfoliosController) GetAllocation(ctx context.Context, userID string, portfolioID int64) (*schemas.Response, error) {
	allocation, err := c.Portfolios.ComputeAllocation(ctx, userID, portfolioID)
	if err != nil {
		return nil, err
	}
	return schemas.NewListResponse(allocation, len(allocation.Allocation), allocation.Degraded), nil
}

func (c *PortfoliosController) SuggestRebalance(ctx context.Context, userID string, portfolioID int64, req *schemas.RebalanceRequest) (*schemas.Response, error) {
	result, err := c.Portfolios.SuggestRebalance(ctx, userID, portfolioID, req.TargetAllocation)
	if err != nil {
		return nil, err
	}
	return schemas.NewListResponse(result, len(result.Suggestions), result.Degraded), nil
}
