package services

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"finboard/src/models"
	"finboard/src/utils"
)

type eventTemplate struct {
	Title       string
	Country     string
	Importance  string
	Category    string
	Description string
}

var sampleEventTemplates = []eventTemplate{
	{"Non-Farm Payrolls", "US", utils.ImportanceHigh, "Employment", "Monthly change in the number of employed people during the previous month, excluding the farming industry."},
	{"Consumer Price Index (CPI)", "US", utils.ImportanceHigh, "Inflation", "Measures the change in the price of goods and services purchased by consumers."},
	{"Federal Reserve Interest Rate Decision", "US", utils.ImportanceHigh, "Central Bank", "Federal Reserve's decision on the federal funds rate."},
	{"GDP Growth Rate", "US", utils.ImportanceHigh, "GDP", "Quarterly change in the inflation-adjusted value of all goods and services produced."},
	{"Unemployment Rate", "US", utils.ImportanceMedium, "Employment", "Percentage of the total work force that is unemployed and actively seeking employment."},
	{"Retail Sales", "US", utils.ImportanceMedium, "Consumer Spending", "Monthly change in the total value of sales at the retail level."},
	{"Industrial Production", "US", utils.ImportanceMedium, "Manufacturing", "Monthly change in the total value of output produced by manufacturers, mines, and utilities."},
	{"Consumer Confidence Index", "US", utils.ImportanceMedium, "Consumer Sentiment", "Measures the degree of optimism that consumers feel about the overall state of the economy."},
	{"ECB Interest Rate Decision", "EU", utils.ImportanceHigh, "Central Bank", "European Central Bank's decision on the main refinancing rate."},
	{"Bank of England Interest Rate Decision", "GB", utils.ImportanceHigh, "Central Bank", "Bank of England's decision on the official bank rate."},
	{"Bank of Japan Interest Rate Decision", "JP", utils.ImportanceHigh, "Central Bank", "Bank of Japan's decision on the overnight call rate."},
	{"Chinese GDP", "CN", utils.ImportanceHigh, "GDP", "Quarterly change in the inflation-adjusted value of all goods and services produced in China."},
	{"German IFO Business Climate", "DE", utils.ImportanceMedium, "Business Sentiment", "Survey of about 7,000 businesses on their assessment of the current business situation."},
	{"UK Inflation Rate", "GB", utils.ImportanceMedium, "Inflation", "Measures the change in the price of goods and services purchased by consumers in the UK."},
	{"Japanese Core CPI", "JP", utils.ImportanceMedium, "Inflation", "Change in the price of goods and services purchased by consumers, excluding fresh food."},
	{"Copom Selic Decision", "BR", utils.ImportanceHigh, "Central Bank", "Banco Central do Brasil monetary policy committee decision on the Selic rate."},
	{"IPCA-15 Inflation Preview", "BR", utils.ImportanceMedium, "Inflation", "Mid-month preview of Brazil's benchmark consumer inflation index."},
	{"Weekly Jobless Claims", "US", utils.ImportanceLow, "Employment", "Number of individuals who filed for unemployment insurance for the first time."},
}

const syntheticDays = 30

// GenerateSyntheticEvents builds a plausible 30-day calendar starting on day.
// The generator is seeded by the date, so the same day always yields the same calendar.
func GenerateSyntheticEvents(day time.Time) []models.EconomicEvent {
	start := utils.TruncateToDay(day.UTC())
	rng := rand.New(rand.NewSource(int64(start.Year()*10000 + int(start.Month())*100 + start.Day())))

	events := []models.EconomicEvent{}
	for i := 0; i < syntheticDays; i++ {
		date := start.AddDate(0, 0, i)
		count := rng.Intn(4)
		for j := 0; j < count; j++ {
			tpl := sampleEventTemplates[rng.Intn(len(sampleEventTemplates))]
			hour := 8 + rng.Intn(10)
			minute := []int{0, 15, 30, 45}[rng.Intn(4)]

			event := models.EconomicEvent{
				ID:          fmt.Sprintf("sample_%d", len(events)+1),
				Title:       tpl.Title,
				Description: tpl.Description,
				Country:     tpl.Country,
				Category:    tpl.Category,
				Importance:  tpl.Importance,
				Date:        time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, time.UTC),
				Source:      "sample",
			}
			switch tpl.Title {
			case "Non-Farm Payrolls":
				event.Forecast = fmt.Sprintf("%dK", 150+rng.Intn(151))
				event.Previous = fmt.Sprintf("%dK", 150+rng.Intn(151))
			case "Unemployment Rate":
				event.Forecast = fmt.Sprintf("%.1f%%", 3.5+rng.Float64()*1.5)
				event.Previous = fmt.Sprintf("%.1f%%", 3.5+rng.Float64()*1.5)
			case "GDP Growth Rate":
				event.Forecast = fmt.Sprintf("%.1f%%", 1.5+rng.Float64()*2)
				event.Previous = fmt.Sprintf("%.1f%%", 1.5+rng.Float64()*2)
			}
			events = append(events, event)
		}
	}

	sort.SliceStable(events, func(i, j int) bool { return events[i].Date.Before(events[j].Date) })
	return events
}
