package schemas

type MultipleQuotesRequest struct {
	Symbols []string `json:"symbols"`
}

type HistoryResponse struct {
	Symbol   string      `json:"symbol"`
	Period   string      `json:"period"`
	Interval string      `json:"interval"`
	Data     interface{} `json:"data"`
}
