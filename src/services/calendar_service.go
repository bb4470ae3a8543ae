package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"finboard/src/config"
	"finboard/src/models"
	"finboard/src/utils"

	"github.com/sirupsen/logrus"
)

const (
	calendarCacheKey    = "calendar:events"
	maxEventLimit       = 200
	maxUpcomingDays     = 30
	summaryTodayPreview = 5
)

// EventQuery holds raw caller filters; dates are YYYY-MM-DD and optional.
type EventQuery struct {
	StartDate  string
	EndDate    string
	Country    string
	Importance string
	Category   string
	Limit      int
}

type eventFilter struct {
	start      time.Time
	end        time.Time
	country    string
	importance string
	category   string
	limit      int
}

type EventsResult struct {
	Events   []models.EconomicEvent `json:"events"`
	Degraded bool                   `json:"degraded"`
}

type ScoredEvent struct {
	models.EconomicEvent
	RelevanceScore int `json:"relevance_score"`
}

type EventSearchResult struct {
	Events     []ScoredEvent `json:"events"`
	TotalFound int           `json:"total_found"`
	Query      string        `json:"query"`
	Degraded   bool          `json:"degraded"`
}

type ImportanceCounts struct {
	Total            int `json:"total"`
	HighImportance   int `json:"high_importance"`
	MediumImportance int `json:"medium_importance"`
	LowImportance    int `json:"low_importance"`
}

type TodaySummary struct {
	ImportanceCounts
	Events []models.EconomicEvent `json:"events"`
}

type CalendarSummary struct {
	Today          TodaySummary          `json:"today"`
	Week           ImportanceCounts      `json:"week"`
	NextHighImpact *models.EconomicEvent `json:"next_high_impact"`
	Degraded       bool                  `json:"degraded"`
}

type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type ImportanceLevel struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

var calendarCountries = []Country{
	{Code: "US", Name: "United States"},
	{Code: "BR", Name: "Brazil"},
	{Code: "EU", Name: "European Union"},
	{Code: "GB", Name: "United Kingdom"},
	{Code: "JP", Name: "Japan"},
	{Code: "CN", Name: "China"},
	{Code: "CA", Name: "Canada"},
	{Code: "AU", Name: "Australia"},
	{Code: "DE", Name: "Germany"},
	{Code: "FR", Name: "France"},
	{Code: "IT", Name: "Italy"},
	{Code: "ES", Name: "Spain"},
}

var importanceLevels = []ImportanceLevel{
	{ID: utils.ImportanceLow, Name: "Low", Description: "Events with low market impact", Color: "#10B981"},
	{ID: utils.ImportanceMedium, Name: "Medium", Description: "Events with moderate market impact", Color: "#F59E0B"},
	{ID: utils.ImportanceHigh, Name: "High", Description: "Events with high market impact", Color: "#EF4444"},
}

type CalendarServiceI interface {
	GetEvents(ctx context.Context, query EventQuery) (*EventsResult, error)
	GetTodayEvents(ctx context.Context, country, importance string) (*EventsResult, error)
	GetWeekEvents(ctx context.Context, country, importance string) (*EventsResult, error)
	GetUpcomingEvents(ctx context.Context, days int, country, importance string, limit int) (*EventsResult, error)
	SearchEvents(ctx context.Context, query string, limit int) (*EventSearchResult, error)
	GetSummary(ctx context.Context) (*CalendarSummary, error)
	ListCountries() []Country
	ListImportanceLevels() []ImportanceLevel
	Refresh(ctx context.Context) error
}

type CalendarService struct {
	sources []EventSource
	cache   utils.CacheHandlerI
	ttl     time.Duration
	now     func() time.Time
}

func NewCalendarService(cfg config.CalendarConfig, cache utils.CacheHandlerI, sources ...EventSource) *CalendarService {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CalendarService{sources: sources, cache: cache, ttl: ttl, now: time.Now}
}

func (s *CalendarService) today() time.Time {
	return utils.TruncateToDay(s.now().UTC())
}

// allEvents merges every source. A failing source is skipped; when nothing
// comes back the synthetic calendar is used and flagged degraded.
func (s *CalendarService) allEvents(ctx context.Context) ([]models.EconomicEvent, bool) {
	var cached []models.EconomicEvent
	if err := s.cache.Get(calendarCacheKey, &cached); err == nil {
		return cached, false
	}

	events := s.fetchAll(ctx)
	if len(events) == 0 {
		utils.LoggerFromContext(ctx).Warn("No calendar source returned events, serving synthetic calendar")
		return GenerateSyntheticEvents(s.today()), true
	}

	if err := s.cache.Set(calendarCacheKey, events, s.ttl); err != nil {
		utils.LoggerFromContext(ctx).WithError(err).Warn("Failed to cache calendar")
	}
	return events, false
}

func (s *CalendarService) fetchAll(ctx context.Context) []models.EconomicEvent {
	logger := utils.LoggerFromContext(ctx)

	events := []models.EconomicEvent{}
	for _, source := range s.sources {
		sourceEvents, err := source.FetchEvents(ctx)
		if err != nil {
			logger.WithError(err).WithFields(logrus.Fields{"source": source.Name()}).Warn("Calendar source failed")
			continue
		}
		for _, event := range sourceEvents {
			event.Importance = strings.ToLower(event.Importance)
			events = append(events, event)
		}
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Date.Before(events[j].Date) })
	return events
}

// Refresh refetches all sources and replaces the cached calendar.
func (s *CalendarService) Refresh(ctx context.Context) error {
	events := s.fetchAll(ctx)
	if len(events) == 0 {
		return nil
	}
	return s.cache.Set(calendarCacheKey, events, s.ttl)
}

func normalizeImportance(importance string) (string, error) {
	importance = strings.ToLower(strings.TrimSpace(importance))
	if importance == "" {
		return "", nil
	}
	if utils.ImportanceRank(importance) == 0 {
		return "", newValidationError("importance", "must be one of %s", strings.Join(utils.ImportanceLevels, ", "))
	}
	return importance, nil
}

func (s *CalendarService) parseQuery(query EventQuery) (eventFilter, error) {
	filter := eventFilter{
		country:  strings.TrimSpace(query.Country),
		category: strings.TrimSpace(query.Category),
		limit:    query.Limit,
	}

	var err error
	if query.StartDate != "" {
		if filter.start, err = utils.ParseShortDate(query.StartDate, time.UTC); err != nil {
			return filter, newValidationError("start_date", "%s", err.Error())
		}
	}
	if query.EndDate != "" {
		if filter.end, err = utils.ParseShortDate(query.EndDate, time.UTC); err != nil {
			return filter, newValidationError("end_date", "%s", err.Error())
		}
	}
	if !filter.start.IsZero() && !filter.end.IsZero() && filter.start.After(filter.end) {
		return filter, newValidationError("start_date", "must not be after end_date")
	}
	if filter.importance, err = normalizeImportance(query.Importance); err != nil {
		return filter, err
	}
	if err := validateLimit(filter.limit, 1, maxEventLimit); err != nil {
		return filter, err
	}
	return filter, nil
}

// applyFilter runs date range, country, importance, category, then the limit.
func applyFilter(events []models.EconomicEvent, filter eventFilter) []models.EconomicEvent {
	result := []models.EconomicEvent{}
	for _, event := range events {
		if !utils.DateInRange(event.Date.UTC(), filter.start, filter.end) {
			continue
		}
		if filter.country != "" && !strings.EqualFold(event.Country, filter.country) {
			continue
		}
		if filter.importance != "" && !strings.EqualFold(event.Importance, filter.importance) {
			continue
		}
		if filter.category != "" && !strings.EqualFold(event.Category, filter.category) {
			continue
		}
		result = append(result, event)
	}
	if filter.limit > 0 && len(result) > filter.limit {
		result = result[:filter.limit]
	}
	return result
}

func (s *CalendarService) GetEvents(ctx context.Context, query EventQuery) (*EventsResult, error) {
	filter, err := s.parseQuery(query)
	if err != nil {
		return nil, err
	}
	events, degraded := s.allEvents(ctx)
	return &EventsResult{Events: applyFilter(events, filter), Degraded: degraded}, nil
}

func (s *CalendarService) rangeEvents(ctx context.Context, start, end time.Time, country, importance string, limit int) (*EventsResult, error) {
	normalized, err := normalizeImportance(importance)
	if err != nil {
		return nil, err
	}
	filter := eventFilter{start: start, end: end, country: strings.TrimSpace(country), importance: normalized, limit: limit}
	events, degraded := s.allEvents(ctx)
	return &EventsResult{Events: applyFilter(events, filter), Degraded: degraded}, nil
}

func (s *CalendarService) GetTodayEvents(ctx context.Context, country, importance string) (*EventsResult, error) {
	today := s.today()
	return s.rangeEvents(ctx, today, today, country, importance, 0)
}

// GetWeekEvents covers Monday through Sunday of the current week.
func (s *CalendarService) GetWeekEvents(ctx context.Context, country, importance string) (*EventsResult, error) {
	start, end := utils.WeekBounds(s.today())
	return s.rangeEvents(ctx, start, end, country, importance, 0)
}

func (s *CalendarService) GetUpcomingEvents(ctx context.Context, days int, country, importance string, limit int) (*EventsResult, error) {
	if days < 1 || days > maxUpcomingDays {
		return nil, newValidationError("days", "must be between 1 and %d", maxUpcomingDays)
	}
	if err := validateLimit(limit, 1, maxEventLimit); err != nil {
		return nil, err
	}
	today := s.today()
	return s.rangeEvents(ctx, today, today.AddDate(0, 0, days), country, importance, limit)
}

// SearchEvents scores events by where query appears: title 3, description 2, country 1.
// Ties are broken by importance.
func (s *CalendarService) SearchEvents(ctx context.Context, query string, limit int) (*EventSearchResult, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if len([]rune(needle)) < 2 {
		return nil, newValidationError("query", "must have at least 2 characters")
	}
	if err := validateLimit(limit, 1, maxEventLimit); err != nil {
		return nil, err
	}

	events, degraded := s.allEvents(ctx)
	hits := []ScoredEvent{}
	for _, event := range events {
		score := 0
		if strings.Contains(strings.ToLower(event.Title), needle) {
			score += 3
		}
		if strings.Contains(strings.ToLower(event.Description), needle) {
			score += 2
		}
		if strings.Contains(strings.ToLower(event.Country), needle) {
			score++
		}
		if score > 0 {
			hits = append(hits, ScoredEvent{EconomicEvent: event, RelevanceScore: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].RelevanceScore != hits[j].RelevanceScore {
			return hits[i].RelevanceScore > hits[j].RelevanceScore
		}
		return utils.ImportanceRank(hits[i].Importance) > utils.ImportanceRank(hits[j].Importance)
	})

	total := len(hits)
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return &EventSearchResult{Events: hits, TotalFound: total, Query: query, Degraded: degraded}, nil
}

func countByImportance(events []models.EconomicEvent) ImportanceCounts {
	counts := ImportanceCounts{Total: len(events)}
	for _, event := range events {
		switch event.Importance {
		case utils.ImportanceHigh:
			counts.HighImportance++
		case utils.ImportanceMedium:
			counts.MediumImportance++
		case utils.ImportanceLow:
			counts.LowImportance++
		}
	}
	return counts
}

func (s *CalendarService) GetSummary(ctx context.Context) (*CalendarSummary, error) {
	today, err := s.GetTodayEvents(ctx, "", "")
	if err != nil {
		return nil, err
	}
	week, err := s.GetWeekEvents(ctx, "", "")
	if err != nil {
		return nil, err
	}

	preview := today.Events
	if len(preview) > summaryTodayPreview {
		preview = preview[:summaryTodayPreview]
	}
	summary := &CalendarSummary{
		Today:    TodaySummary{ImportanceCounts: countByImportance(today.Events), Events: preview},
		Week:     countByImportance(week.Events),
		Degraded: today.Degraded || week.Degraded,
	}

	startOfToday := s.today()
	for i := range week.Events {
		event := week.Events[i]
		if event.Importance == utils.ImportanceHigh && !utils.TruncateToDay(event.Date.UTC()).Before(startOfToday) {
			summary.NextHighImpact = &event
			break
		}
	}
	return summary, nil
}

func (s *CalendarService) ListCountries() []Country {
	return append([]Country(nil), calendarCountries...)
}

func (s *CalendarService) ListImportanceLevels() []ImportanceLevel {
	return append([]ImportanceLevel(nil), importanceLevels...)
}
