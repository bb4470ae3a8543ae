package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"finboard/src/clients/bcb"
	"finboard/src/clients/fred"
	"finboard/src/models"
	"finboard/src/utils"
)

// EventSource is one economic-data provider normalized to EconomicEvent.
type EventSource interface {
	Name() string
	FetchEvents(ctx context.Context) ([]models.EconomicEvent, error)
}

type seriesInfo struct {
	Code       string
	Title      string
	Category   string
	Importance string
	Unit       string
}

var bcbSeries = []seriesInfo{
	{Code: "432", Title: "Selic Rate", Category: "Central Bank", Importance: utils.ImportanceHigh, Unit: "%"},
	{Code: "433", Title: "DI Rate", Category: "Interest Rates", Importance: utils.ImportanceMedium, Unit: "%"},
	{Code: "24363", Title: "IBC-Br Economic Activity Index", Category: "GDP", Importance: utils.ImportanceHigh},
	{Code: "13522", Title: "IPCA Inflation (12 months)", Category: "Inflation", Importance: utils.ImportanceHigh, Unit: "%"},
	{Code: "4390", Title: "IGP-M Inflation", Category: "Inflation", Importance: utils.ImportanceMedium, Unit: "%"},
}

var fredSeries = []seriesInfo{
	{Code: "UNRATE", Title: "Unemployment Rate", Category: "Employment", Importance: utils.ImportanceHigh, Unit: "%"},
	{Code: "CPIAUCSL", Title: "Consumer Price Index (CPI)", Category: "Inflation", Importance: utils.ImportanceHigh},
	{Code: "GDP", Title: "Gross Domestic Product", Category: "GDP", Importance: utils.ImportanceHigh},
	{Code: "FEDFUNDS", Title: "Federal Funds Rate", Category: "Interest Rates", Importance: utils.ImportanceHigh, Unit: "%"},
	{Code: "PAYEMS", Title: "Non-Farm Payrolls", Category: "Employment", Importance: utils.ImportanceHigh},
}

func formatValue(value, unit string) string {
	value = strings.TrimSpace(value)
	if value == "" || value == "." {
		return ""
	}
	return value + unit
}

// releaseTime places an observation date at noon UTC so date filters never shift it.
func releaseTime(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

// BCBEventSource turns the latest SGS observations into events dated at their reference date.
type BCBEventSource struct {
	client bcb.BCBServiceClientI
}

func NewBCBEventSource(client bcb.BCBServiceClientI) *BCBEventSource {
	return &BCBEventSource{client: client}
}

func (s *BCBEventSource) Name() string { return "BCB" }

func (s *BCBEventSource) FetchEvents(ctx context.Context) ([]models.EconomicEvent, error) {
	logger := utils.LoggerFromContext(ctx)
	events := []models.EconomicEvent{}
	var lastErr error

	for _, series := range bcbSeries {
		code, err := strconv.Atoi(series.Code)
		if err != nil {
			continue
		}

		points, err := s.client.GetLatest(ctx, code, 2)
		if err != nil {
			logger.WithError(err).WithField("series", series.Code).Warn("BCB series fetch failed")
			lastErr = err
			continue
		}
		if len(points) == 0 {
			continue
		}

		latest := points[len(points)-1]
		date, err := time.Parse(utils.BCBDateLayout, latest.Data)
		if err != nil {
			logger.WithError(err).WithField("series", series.Code).Warn("BCB series has an invalid date")
			continue
		}

		event := models.EconomicEvent{
			ID:          "bcb_" + series.Code,
			Title:       series.Title,
			Description: fmt.Sprintf("%s released by Banco Central do Brasil", series.Title),
			Country:     utils.CountryBrazil,
			Category:    series.Category,
			Importance:  series.Importance,
			Date:        releaseTime(date),
			Actual:      formatValue(latest.Valor, series.Unit),
			Currency:    utils.CurrencyBRL,
			Source:      s.Name(),
		}
		if len(points) > 1 {
			event.Previous = formatValue(points[len(points)-2].Valor, series.Unit)
		}
		events = append(events, event)
	}

	if len(events) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return events, nil
}

// FREDEventSource reads the latest FRED observations. Without an API key it yields nothing.
type FREDEventSource struct {
	client fred.FREDServiceClientI
}

func NewFREDEventSource(client fred.FREDServiceClientI) *FREDEventSource {
	return &FREDEventSource{client: client}
}

func (s *FREDEventSource) Name() string { return "FRED" }

func (s *FREDEventSource) FetchEvents(ctx context.Context) ([]models.EconomicEvent, error) {
	if !s.client.Enabled() {
		return []models.EconomicEvent{}, nil
	}

	logger := utils.LoggerFromContext(ctx)
	events := []models.EconomicEvent{}
	var lastErr error

	for _, series := range fredSeries {
		observations, err := s.client.GetLatest(ctx, series.Code, 2)
		if err != nil {
			logger.WithError(err).WithField("series", series.Code).Warn("FRED series fetch failed")
			lastErr = err
			continue
		}
		if len(observations) == 0 {
			continue
		}

		latest := observations[0]
		date, err := time.Parse(utils.ShortDashDateLayout, latest.Date)
		if err != nil {
			logger.WithError(err).WithField("series", series.Code).Warn("FRED series has an invalid date")
			continue
		}

		event := models.EconomicEvent{
			ID:          "fred_" + strings.ToLower(series.Code),
			Title:       series.Title,
			Description: fmt.Sprintf("%s from the Federal Reserve Economic Data service", series.Title),
			Country:     utils.CountryUnitedStates,
			Category:    series.Category,
			Importance:  series.Importance,
			Date:        releaseTime(date),
			Actual:      formatValue(latest.Value, series.Unit),
			Currency:    utils.CurrencyUSD,
			Source:      s.Name(),
		}
		if len(observations) > 1 {
			event.Previous = formatValue(observations[1].Value, series.Unit)
		}
		events = append(events, event)
	}

	if len(events) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return events, nil
}
