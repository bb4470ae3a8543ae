package schemas

// Response is the success envelope every endpoint answers with.
type Response struct {
	Success  bool        `json:"success"`
	Data     interface{} `json:"data"`
	Count    *int        `json:"count,omitempty"`
	Degraded bool        `json:"degraded,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func NewResponse(data interface{}) *Response {
	return &Response{Success: true, Data: data}
}

// NewListResponse attaches the item count to the envelope.
func NewListResponse(data interface{}, count int, degraded bool) *Response {
	return &Response{Success: true, Data: data, Count: &count, Degraded: degraded}
}
