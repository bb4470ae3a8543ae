package services

import (
	"regexp"
	"strings"
)

const (
	CategoryStocks      = "stocks"
	CategoryCrypto      = "crypto"
	CategoryForex       = "forex"
	CategoryCommodities = "commodities"
	CategoryEconomy     = "economy"
	CategoryFinancial   = "financial"
)

// NewsCategories is the fixed category set; financial is the default.
var NewsCategories = []string{
	CategoryStocks, CategoryCrypto, CategoryForex, CategoryCommodities, CategoryEconomy, CategoryFinancial,
}

type categoryRule struct {
	name     string
	weight   int
	keywords []string
	patterns []*regexp.Regexp
}

var defaultCategoryRules = []struct {
	name     string
	weight   int
	keywords []string
}{
	{CategoryStocks, 1, []string{"stock", "stocks", "shares", "equity", "ipo", "earnings", "dividend", "market cap", "nasdaq", "nyse", "s&p", "dow jones", "wall street", "trading", "investor", "shareholder", "quarterly", "revenue", "profit", "loss", "analyst", "upgrade", "downgrade"}},
	{CategoryCrypto, 2, []string{"bitcoin", "ethereum", "crypto", "cryptocurrency", "blockchain", "defi", "nft", "binance", "coinbase", "altcoin", "mining", "btc", "eth", "digital currency", "token", "wallet"}},
	{CategoryForex, 2, []string{"forex", "currency", "dollar", "euro", "yen", "pound", "exchange rate", "fed", "federal reserve", "central bank", "interest rate", "monetary policy", "usd", "eur", "gbp", "jpy"}},
	{CategoryCommodities, 2, []string{"gold", "silver", "oil", "crude", "copper", "wheat", "corn", "natural gas", "commodity", "commodities", "futures", "brent", "wti", "precious metals", "agriculture", "energy"}},
	{CategoryEconomy, 1, []string{"gdp", "unemployment", "inflation", "recession", "economic growth", "trade war", "tariff", "export", "import", "manufacturing", "factory", "industrial", "economic data", "consumer", "retail"}},
}

// Categorizer assigns a news category by weighted keyword hits.
// The highest score wins; no hit or a tie for first place yields financial.
type Categorizer struct {
	rules []categoryRule
}

// NewCategorizer builds the default rules, replacing a category's keyword list
// when overrides has an entry for it.
func NewCategorizer(overrides map[string][]string) *Categorizer {
	c := &Categorizer{}
	for _, def := range defaultCategoryRules {
		keywords := def.keywords
		if custom, ok := overrides[def.name]; ok && len(custom) > 0 {
			keywords = custom
		}
		rule := categoryRule{name: def.name, weight: def.weight, keywords: keywords}
		for _, keyword := range keywords {
			keyword = strings.ToLower(strings.TrimSpace(keyword))
			if keyword == "" {
				continue
			}
			rule.patterns = append(rule.patterns, regexp.MustCompile(`(?i)(^|[^\pL\pN])`+regexp.QuoteMeta(keyword)+`($|[^\pL\pN])`))
		}
		c.rules = append(c.rules, rule)
	}
	return c
}

func (c *Categorizer) Categorize(title, description string) string {
	content := title + " " + description

	best, bestScore, tie := CategoryFinancial, 0, false
	for _, rule := range c.rules {
		score := 0
		for _, pattern := range rule.patterns {
			if pattern.MatchString(content) {
				score += rule.weight
			}
		}
		switch {
		case score == 0:
		case score > bestScore:
			best, bestScore, tie = rule.name, score, false
		case score == bestScore:
			tie = true
		}
	}
	if bestScore == 0 || tie {
		return CategoryFinancial
	}
	return best
}

// IsNewsCategory reports whether category belongs to the fixed set.
func IsNewsCategory(category string) bool {
	for _, c := range NewsCategories {
		if c == category {
			return true
		}
	}
	return false
}
