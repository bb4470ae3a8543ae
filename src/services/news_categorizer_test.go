package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorizer(t *testing.T) {
	c := NewCategorizer(nil)

	t.Run("Picks the highest weighted category", func(t *testing.T) {
		assert.Equal(t, CategoryCrypto, c.Categorize("Bitcoin rallies past record", "Crypto traders cheer"))
		assert.Equal(t, CategoryCommodities, c.Categorize("Crude oil climbs", ""))
	})

	t.Run("Falls back to financial without keyword hits", func(t *testing.T) {
		assert.Equal(t, CategoryFinancial, c.Categorize("Company opens new headquarters", "A ribbon cutting ceremony"))
	})

	t.Run("Falls back to financial on a tie", func(t *testing.T) {
		// one crypto hit (weight 2) against one forex hit (weight 2)
		assert.Equal(t, CategoryFinancial, c.Categorize("Bitcoin and the euro", ""))
	})

	t.Run("Matches keywords on word boundaries only", func(t *testing.T) {
		// "oil" inside "turmoil" must not count as a commodity hit
		assert.Equal(t, CategoryFinancial, c.Categorize("Political turmoil continues", ""))
	})

	t.Run("Overrides replace a category keyword list", func(t *testing.T) {
		custom := NewCategorizer(map[string][]string{CategoryEconomy: {"widget index"}})
		assert.Equal(t, CategoryEconomy, custom.Categorize("Widget index rises", ""))
		assert.Equal(t, CategoryFinancial, custom.Categorize("Inflation slows", ""))
	})

	t.Run("IsNewsCategory checks the fixed set", func(t *testing.T) {
		assert.True(t, IsNewsCategory(CategoryForex))
		assert.False(t, IsNewsCategory("sports"))
	})
}
