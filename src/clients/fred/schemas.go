package fred

type ObservationsResponse struct {
	Observations []Observation `json:"observations"`
}

// Observation values are strings; FRED uses "." for a missing value.
type Observation struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}
