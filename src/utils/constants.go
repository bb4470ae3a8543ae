package utils

const ShortSlashDateLayout = "2006/01/02"
const ShortDashDateLayout = "2006-01-02"

// BCB SGS publishes dates as dd/mm/yyyy.
const BCBDateLayout = "02/01/2006"

const (
	CurrencyBRL = "BRL"
	CurrencyUSD = "USD"
)

const (
	CountryBrazil       = "BR"
	CountryUnitedStates = "US"
)

const (
	ImportanceLow    = "low"
	ImportanceMedium = "medium"
	ImportanceHigh   = "high"
)

// ImportanceLevels lists the accepted event importance values, lowest first.
var ImportanceLevels = []string{ImportanceLow, ImportanceMedium, ImportanceHigh}

// ImportanceRank orders importance levels for sorting; unknown levels rank 0.
func ImportanceRank(importance string) int {
	switch importance {
	case ImportanceHigh:
		return 3
	case ImportanceMedium:
		return 2
	case ImportanceLow:
		return 1
	default:
		return 0
	}
}
