package types

// ErrorResponse is the flat error body used across the customer API.
type ErrorResponse struct {
	Error string `json:"error"`
}
