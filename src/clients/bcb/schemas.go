package bcb

// SeriesPoint is one SGS observation; both fields arrive as strings.
type SeriesPoint struct {
	Data  string `json:"data"`
	Valor string `json:"valor"`
}
