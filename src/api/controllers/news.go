package controllers

import (
	"context"
	"net/url"

	"finboard/src/schemas"
	"finboard/src/services"
)

type NewsControllerI interface {
	GetNews(ctx context.Context, query url.Values) (*schemas.Response, error)
	GetAssetNews(ctx context.Context, symbol string, query url.Values) (*schemas.Response, error)
	SearchNews(ctx context.Context, query url.Values) (*schemas.Response, error)
	ListNewsCategories() *schemas.Response
	ListNewsSources() *schemas.Response
}

type NewsController struct {
	News services.NewsServiceI
}

func NewNewsController(news services.NewsServiceI) *NewsController {
	return &NewsController{News: news}
}

func newsResponse(result *services.NewsResult) *schemas.Response {
	return schemas.NewListResponse(result.Items, len(result.Items), result.Degraded)
}

func (c *NewsController) GetNews(ctx context.Context, query url.Values) (*schemas.Response, error) {
	limit, err := intParam(query, "limit", 20)
	if err != nil {
		return nil, err
	}
	result, err := c.News.GetNews(ctx, limit, query.Get("category"))
	if err != nil {
		return nil, err
	}
	return newsResponse(result), nil
}

func (c *NewsController) GetAssetNews(ctx context.Context, symbol string, query url.Values) (*schemas.Response, error) {
	limit, err := intParam(query, "limit", 10)
	if err != nil {
		return nil, err
	}
	result, err := c.News.GetAssetNews(ctx, symbol, limit)
	if err != nil {
		return nil, err
	}
	return newsResponse(result), nil
}

func (c *NewsController) SearchNews(ctx context.Context, query url.Values) (*schemas.Response, error) {
	limit, err := intParam(query, "limit", 10)
	if err != nil {
		return nil, err
	}
	result, err := c.News.SearchNews(ctx, searchQuery(query), limit)
	if err != nil {
		return nil, err
	}
	return newsResponse(result), nil
}

func (c *NewsController) ListNewsCategories() *schemas.Response {
	categories := c.News.ListCategories()
	return schemas.NewListResponse(categories, len(categories), false)
}

func (c *NewsController) ListNewsSources() *schemas.Response {
	sources := c.News.ListSources()
	names := make([]string, 0, len(sources))
	for _, source := range sources {
		names = append(names, source.Name)
	}
	return schemas.NewListResponse(names, len(names), false)
}
