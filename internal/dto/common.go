package dto

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse is returned by endpoints with nothing else to say.
type SuccessResponse struct {
	Success bool `json:"success"`
}

type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services,omitempty"`
}
