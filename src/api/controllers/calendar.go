package controllers

import (
	"context"
	"net/url"

	"finboard/src/schemas"
	"finboard/src/services"
)

type CalendarControllerI interface {
	GetEvents(ctx context.Context, query url.Values) (*schemas.Response, error)
	GetTodayEvents(ctx context.Context, query url.Values) (*schemas.Response, error)
	GetWeekEvents(ctx context.Context, query url.Values) (*schemas.Response, error)
	GetUpcomingEvents(ctx context.Context, query url.Values) (*schemas.Response, error)
	SearchEvents(ctx context.Context, query url.Values) (*schemas.Response, error)
	GetCalendarSummary(ctx context.Context) (*schemas.Response, error)
	ListCountries() *schemas.Response
	ListImportanceLevels() *schemas.Response
}

type CalendarController struct {
	Calendar services.CalendarServiceI
}

func NewCalendarController(calendar services.CalendarServiceI) *CalendarController {
	return &CalendarController{Calendar: calendar}
}

func eventsResponse(result *services.EventsResult) *schemas.Response {
	return schemas.NewListResponse(result.Events, len(result.Events), result.Degraded)
}

func (c *CalendarController) GetEvents(ctx context.Context, query url.Values) (*schemas.Response, error) {
	limit, err := intParam(query, "limit", 50)
	if err != nil {
		return nil, err
	}
	result, err := c.Calendar.GetEvents(ctx, services.EventQuery{
		StartDate:  query.Get("start_date"),
		EndDate:    query.Get("end_date"),
		Country:    query.Get("country"),
		Importance: query.Get("importance"),
		Category:   query.Get("category"),
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}
	return eventsResponse(result), nil
}

func (c *CalendarController) GetTodayEvents(ctx context.Context, query url.Values) (*schemas.Response, error) {
	result, err := c.Calendar.GetTodayEvents(ctx, query.Get("country"), query.Get("importance"))
	if err != nil {
		return nil, err
	}
	return eventsResponse(result), nil
}

func (c *CalendarController) GetWeekEvents(ctx context.Context, query url.Values) (*schemas.Response, error) {
	result, err := c.Calendar.GetWeekEvents(ctx, query.Get("country"), query.Get("importance"))
	if err != nil {
		return nil, err
	}
	return eventsResponse(result), nil
}

func (c *CalendarController) GetUpcomingEvents(ctx context.Context, query url.Values) (*schemas.Response, error) {
	days, err := intParam(query, "days", 7)
	if err != nil {
		return nil, err
	}
	limit, err := intParam(query, "limit", 50)
	if err != nil {
		return nil, err
	}
	result, err := c.Calendar.GetUpcomingEvents(ctx, days, query.Get("country"), query.Get("importance"), limit)
	if err != nil {
		return nil, err
	}
	return eventsResponse(result), nil
}

func (c *CalendarController) SearchEvents(ctx context.Context, query url.Values) (*schemas.Response, error) {
	limit, err := intParam(query, "limit", 20)
	if err != nil {
		return nil, err
	}
	result, err := c.Calendar.SearchEvents(ctx, searchQuery(query), limit)
	if err != nil {
		return nil, err
	}
	return schemas.NewListResponse(result, len(result.Events), result.Degraded), nil
}

func (c *CalendarController) GetCalendarSummary(ctx context.Context) (*schemas.Response, error) {
	summary, err := c.Calendar.GetSummary(ctx)
	if err != nil {
		return nil, err
	}
	response := schemas.NewResponse(summary)
	response.Degraded = summary.Degraded
	return response, nil
}

func (c *CalendarController) ListCountries() *schemas.Response {
	countries := c.Calendar.ListCountries()
	return schemas.NewListResponse(countries, len(countries), false)
}

func (c *CalendarController) ListImportanceLevels() *schemas.Response {
	levels := c.Calendar.ListImportanceLevels()
	return schemas.NewListResponse(levels, len(levels), false)
}
