// Package api holds the response envelopes and request validation shared
// by every handler package.
package api

// ErrorResponse is the uniform error body; the message never carries
// internal detail.
type ErrorResponse struct {
	Error string `json:"error" example:"insufficient wallet balance"`
}

type MessageResponse struct {
	Message string `json:"message" example:"user registered successfully"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
