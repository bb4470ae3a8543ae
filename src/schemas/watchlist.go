package schemas

type AddWatchlistRequest struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}
