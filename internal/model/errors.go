package model

// ErrorResponse is the JSON shape returned on failure.
type ErrorResponse struct {
	Error      string `json:"error"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
}

// BackendError is the JSON shape the crawl backend returns when it rejects
// a request.
type BackendError struct {
	Error string `json:"error"`
}
