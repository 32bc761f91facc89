package api

// ErrorResponse is the body of every fault response.
type ErrorResponse struct {
	Error string `json:"error" description:"Human-readable error message"`
	Code  int    `json:"code"  description:"HTTP status code"`
}
