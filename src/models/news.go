package models

import "time"

type NewsItem struct {
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	URL           string    `json:"url"`
	PublishedAt   time.Time `json:"published_at"`
	Source        string    `json:"source"`
	Category      string    `json:"category"`
	RelatedSymbol string    `json:"related_symbol,omitempty"`
}
