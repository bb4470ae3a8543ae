package services

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"finboard/src/clients/feeds"
	"finboard/src/config"
	"finboard/src/models"
	"finboard/src/utils"

	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
)

const (
	aggregateSize     = 100
	maxNewsLimit      = 100
	maxNewsSearchSize = 50
)

var assetAliases = map[string][]string{
	"AAPL":  {"Apple", "iPhone", "iPad", "Mac"},
	"GOOGL": {"Google", "Alphabet", "YouTube", "Android"},
	"MSFT":  {"Microsoft", "Windows", "Office", "Azure"},
	"AMZN":  {"Amazon", "AWS", "Prime", "Alexa"},
	"TSLA":  {"Tesla", "Elon Musk", "Model", "Electric Vehicle"},
	"META":  {"Meta", "Facebook", "Instagram", "WhatsApp"},
	"NVDA":  {"NVIDIA", "GPU", "AI chip", "graphics"},
	"NFLX":  {"Netflix", "streaming", "subscriber"},
	"BABA":  {"Alibaba", "Jack Ma", "China e-commerce"},
	"V":     {"Visa", "payment", "credit card"},
}

// NewsResult is an aggregate answer; Degraded marks fallback content.
type NewsResult struct {
	Items    []models.NewsItem `json:"items"`
	Degraded bool              `json:"degraded"`
}

type NewsServiceI interface {
	GetNews(ctx context.Context, limit int, category string) (*NewsResult, error)
	GetAssetNews(ctx context.Context, symbol string, limit int) (*NewsResult, error)
	SearchNews(ctx context.Context, query string, limit int) (*NewsResult, error)
	ListCategories() []string
	ListSources() []config.FeedSource
	Refresh(ctx context.Context) error
}

type NewsService struct {
	fetcher     feeds.FetcherI
	sources     []config.FeedSource
	cache       utils.CacheHandlerI
	categorizer *Categorizer
	policy      *bluemonday.Policy
	cfg         config.NewsConfig
	now         func() time.Time
}

func NewNewsService(cfg config.NewsConfig, fetcher feeds.FetcherI, cache utils.CacheHandlerI) *NewsService {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 5 * time.Second
	}
	if cfg.OverallTimeout <= 0 {
		cfg.OverallTimeout = 8 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.MinTitleLength <= 0 {
		cfg.MinTitleLength = 10
	}
	if cfg.DescriptionLimit <= 3 {
		cfg.DescriptionLimit = 300
	}
	sources := cfg.Feeds
	if len(sources) == 0 {
		sources = config.DefaultFeeds
	}

	return &NewsService{
		fetcher:     fetcher,
		sources:     sources,
		cache:       cache,
		categorizer: NewCategorizer(cfg.CategoryKeywords),
		policy:      bluemonday.StrictPolicy(),
		cfg:         cfg,
		now:         time.Now,
	}
}

func newsCacheKey(operation string, limit int) string {
	return fmt.Sprintf("news:%s:%d", operation, limit)
}

// cached serves key from the cache or computes it. Degraded results are never stored.
func (s *NewsService) cached(ctx context.Context, key string, compute func() (*NewsResult, error)) (*NewsResult, error) {
	var items []models.NewsItem
	if err := s.cache.Get(key, &items); err == nil {
		return &NewsResult{Items: items}, nil
	}

	result, err := compute()
	if err != nil {
		return nil, err
	}
	if !result.Degraded {
		if err := s.cache.Set(key, result.Items, s.cfg.CacheTTL); err != nil {
			utils.LoggerFromContext(ctx).WithError(err).WithField("key", key).Warn("Failed to cache news")
		}
	}
	return result, nil
}

// GetNews returns the latest deduplicated news, optionally restricted to one category.
func (s *NewsService) GetNews(ctx context.Context, limit int, category string) (*NewsResult, error) {
	if err := validateLimit(limit, 1, maxNewsLimit); err != nil {
		return nil, err
	}
	category = strings.ToLower(strings.TrimSpace(category))
	if category != "" && !IsNewsCategory(category) {
		return nil, newValidationError("category", "must be one of %s", strings.Join(NewsCategories, ", "))
	}

	operation := "latest"
	if category != "" {
		operation = "category:" + category
	}
	return s.cached(ctx, newsCacheKey(operation, limit), func() (*NewsResult, error) {
		aggregate := s.aggregate(ctx)
		items := aggregate.Items
		if category != "" {
			items = filterNews(items, func(item models.NewsItem) bool { return item.Category == category })
		}
		return &NewsResult{Items: truncateNews(items, limit), Degraded: aggregate.Degraded}, nil
	})
}

// GetAssetNews filters the aggregate by symbol and known aliases. When nothing
// matches it returns two placeholder articles flagged as degraded.
func (s *NewsService) GetAssetNews(ctx context.Context, symbol string, limit int) (*NewsResult, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, newValidationError("symbol", "is required")
	}
	if err := validateLimit(limit, 1, maxNewsLimit); err != nil {
		return nil, err
	}

	return s.cached(ctx, newsCacheKey("asset:"+symbol, limit), func() (*NewsResult, error) {
		aggregate := s.aggregate(ctx)
		match := assetMatcher(symbol)

		items := []models.NewsItem{}
		for _, item := range aggregate.Items {
			if match(item.Title) || match(item.Description) {
				item.RelatedSymbol = symbol
				items = append(items, item)
				if len(items) >= limit {
					break
				}
			}
		}
		if len(items) == 0 {
			return &NewsResult{Items: truncateNews(s.placeholderNews(symbol), limit), Degraded: true}, nil
		}
		return &NewsResult{Items: items, Degraded: aggregate.Degraded}, nil
	})
}

// SearchNews ranks aggregate items by occurrences of query: title hits count double.
func (s *NewsService) SearchNews(ctx context.Context, query string, limit int) (*NewsResult, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if utf8.RuneCountInString(query) < 2 {
		return nil, newValidationError("query", "must have at least 2 characters")
	}
	if err := validateLimit(limit, 1, maxNewsSearchSize); err != nil {
		return nil, err
	}

	return s.cached(ctx, newsCacheKey("search:"+query, limit), func() (*NewsResult, error) {
		aggregate := s.aggregate(ctx)

		type scored struct {
			item      models.NewsItem
			relevance int
		}
		var hits []scored
		for _, item := range aggregate.Items {
			relevance := 2*strings.Count(strings.ToLower(item.Title), query) + strings.Count(strings.ToLower(item.Description), query)
			if relevance > 0 {
				hits = append(hits, scored{item: item, relevance: relevance})
			}
		}
		sort.SliceStable(hits, func(i, j int) bool { return hits[i].relevance > hits[j].relevance })

		items := make([]models.NewsItem, 0, len(hits))
		for _, hit := range hits {
			items = append(items, hit.item)
		}
		return &NewsResult{Items: truncateNews(items, limit), Degraded: aggregate.Degraded}, nil
	})
}

func (s *NewsService) ListCategories() []string {
	return append([]string(nil), NewsCategories...)
}

func (s *NewsService) ListSources() []config.FeedSource {
	return append([]config.FeedSource(nil), s.sources...)
}

// Refresh fetches every feed and overwrites the cached aggregate.
func (s *NewsService) Refresh(ctx context.Context) error {
	result := s.fetchAll(ctx)
	if result.Degraded {
		return fmt.Errorf("news refresh: every feed failed")
	}
	return s.cache.Set(newsCacheKey("aggregate", aggregateSize), result.Items, s.cfg.CacheTTL)
}

// aggregate returns the merged feed list, from cache when fresh.
func (s *NewsService) aggregate(ctx context.Context) *NewsResult {
	result, _ := s.cached(ctx, newsCacheKey("aggregate", aggregateSize), func() (*NewsResult, error) {
		return s.fetchAll(ctx), nil
	})
	return result
}

type feedResult struct {
	source string
	items  []models.NewsItem
	err    error
}

// fetchAll fans out over the configured feeds. Feeds that fail or miss the
// overall deadline are dropped; if all of them fail the static fallback is returned.
func (s *NewsService) fetchAll(ctx context.Context) *NewsResult {
	logger := utils.LoggerFromContext(ctx)
	fetchedAt := s.now().UTC()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.OverallTimeout)
	defer cancel()

	// The join stops at the overall deadline with whatever arrived, even if a
	// fetcher ignores ctx.
	results := make(chan feedResult, len(s.sources))
	p := pool.New().WithMaxGoroutines(s.cfg.Workers).WithContext(ctx)
	go func() {
		for _, source := range s.sources {
			source := source
			p.Go(func(ctx context.Context) error {
				results <- s.fetchSource(ctx, source, fetchedAt)
				return nil
			})
		}
		_ = p.Wait()
		close(results)
	}()

	var collected []feedResult
collect:
	for {
		select {
		case result, ok := <-results:
			if !ok {
				break collect
			}
			collected = append(collected, result)
		case <-ctx.Done():
			logger.WithField("received", len(collected)).Warn("News fan-out hit the overall deadline")
			break collect
		}
	}

	var merged []models.NewsItem
	succeeded := 0
	for _, result := range collected {
		if result.err != nil {
			continue
		}
		succeeded++
		merged = append(merged, result.items...)
	}

	if succeeded == 0 {
		logger.WithField("sources", len(s.sources)).Warn("Every news feed failed, serving fallback")
		return &NewsResult{Items: s.fallbackNews(), Degraded: true}
	}
	return &NewsResult{Items: truncateNews(dedupeNews(merged), aggregateSize)}
}

func (s *NewsService) fetchSource(ctx context.Context, source config.FeedSource, fetchedAt time.Time) feedResult {
	reqCtx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	entries, err := s.fetcher.FetchFeed(reqCtx, source.URL)
	if err != nil {
		utils.LoggerFromContext(ctx).WithError(err).WithFields(logrus.Fields{"source": source.Name, "url": source.URL}).Warn("Feed fetch failed")
		return feedResult{source: source.Name, err: err}
	}

	items := make([]models.NewsItem, 0, len(entries))
	for _, entry := range entries {
		if item, ok := s.normalize(entry, source.Name, fetchedAt); ok {
			items = append(items, item)
		}
	}
	return feedResult{source: source.Name, items: items}
}

func (s *NewsService) normalize(entry feeds.Entry, source string, fetchedAt time.Time) (models.NewsItem, bool) {
	title := s.clean(entry.Title)
	if utf8.RuneCountInString(title) < s.cfg.MinTitleLength {
		return models.NewsItem{}, false
	}
	description := truncateText(s.clean(entry.Description), s.cfg.DescriptionLimit)

	published := fetchedAt
	if entry.Published != nil && !entry.Published.IsZero() {
		published = entry.Published.UTC()
	}

	return models.NewsItem{
		Title:       title,
		Description: description,
		URL:         strings.TrimSpace(entry.Link),
		PublishedAt: published,
		Source:      source,
		Category:    s.categorizer.Categorize(title, description),
	}, true
}

// clean strips markup, decodes entities and collapses whitespace.
func (s *NewsService) clean(text string) string {
	text = html.UnescapeString(s.policy.Sanitize(text))
	return strings.Join(strings.Fields(text), " ")
}

func truncateText(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-3]) + "..."
}

// dedupeNews sorts by recency and keeps the first item of each case-insensitive title.
func dedupeNews(items []models.NewsItem) []models.NewsItem {
	sorted := append([]models.NewsItem(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].PublishedAt.After(sorted[j].PublishedAt) })

	seen := make(map[string]bool, len(sorted))
	unique := make([]models.NewsItem, 0, len(sorted))
	for _, item := range sorted {
		key := strings.ToLower(item.Title)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, item)
	}
	return unique
}

func filterNews(items []models.NewsItem, keep func(models.NewsItem) bool) []models.NewsItem {
	filtered := []models.NewsItem{}
	for _, item := range items {
		if keep(item) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func truncateNews(items []models.NewsItem, limit int) []models.NewsItem {
	if items == nil {
		return []models.NewsItem{}
	}
	if len(items) > limit {
		return items[:limit]
	}
	return items
}

// assetMatcher matches the symbol as a whole word and aliases as case-insensitive substrings.
func assetMatcher(symbol string) func(string) bool {
	symbolPattern := regexp.MustCompile(`(?i)(^|[^\pL\pN])` + regexp.QuoteMeta(symbol) + `($|[^\pL\pN])`)
	aliases := make([]string, 0, len(assetAliases[symbol]))
	for _, alias := range assetAliases[symbol] {
		aliases = append(aliases, strings.ToLower(alias))
	}

	return func(text string) bool {
		if symbolPattern.MatchString(text) {
			return true
		}
		lower := strings.ToLower(text)
		for _, alias := range aliases {
			if strings.Contains(lower, alias) {
				return true
			}
		}
		return false
	}
}

func (s *NewsService) placeholderNews(symbol string) []models.NewsItem {
	now := s.now().UTC()
	lower := strings.ToLower(symbol)
	return []models.NewsItem{
		{
			Title:         fmt.Sprintf("%s Stock Analysis: Market Performance Update", symbol),
			Description:   fmt.Sprintf("Latest analysis and market performance data for %s stock, including price movements and trading volume.", symbol),
			URL:           fmt.Sprintf("https://example.com/news/%s-analysis", lower),
			PublishedAt:   now,
			Source:        "Market Analysis",
			Category:      CategoryFinancial,
			RelatedSymbol: symbol,
		},
		{
			Title:         fmt.Sprintf("%s Quarterly Earnings Preview", symbol),
			Description:   fmt.Sprintf("Preview of upcoming quarterly earnings for %s, including analyst expectations and key metrics to watch.", symbol),
			URL:           fmt.Sprintf("https://example.com/news/%s-earnings", lower),
			PublishedAt:   now.Add(-2 * time.Hour),
			Source:        "Earnings Preview",
			Category:      CategoryFinancial,
			RelatedSymbol: symbol,
		},
	}
}

func (s *NewsService) fallbackNews() []models.NewsItem {
	now := s.now().UTC()
	return []models.NewsItem{
		{
			Title:       "Markets await central bank decisions",
			Description: "Investors are watching upcoming interest rate decisions for signals on the direction of monetary policy.",
			URL:         "https://example.com/news/central-banks",
			PublishedAt: now,
			Source:      "Finboard",
			Category:    CategoryForex,
		},
		{
			Title:       "Earnings season sets the tone for equities",
			Description: "Quarterly results from large companies continue to drive stock market sentiment.",
			URL:         "https://example.com/news/earnings-season",
			PublishedAt: now.Add(-1 * time.Hour),
			Source:      "Finboard",
			Category:    CategoryStocks,
		},
		{
			Title:       "Commodity prices move with global demand outlook",
			Description: "Oil and metals react to the latest readings on global growth and supply.",
			URL:         "https://example.com/news/commodities-outlook",
			PublishedAt: now.Add(-2 * time.Hour),
			Source:      "Finboard",
			Category:    CategoryCommodities,
		},
	}
}
