package dto

import "time"

// Health states
const (
	HealthStatusHealthy  = "healthy"
	HealthStatusDegraded = "degraded"
)

// DatabaseHealth reports the pricing store
type DatabaseHealth struct {
	Enabled bool   `json:"enabled"`
	Status  string `json:"status" example:"up" enums:"up,down,disabled"`
	Error   string `json:"error,omitempty"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status        string         `json:"status" example:"healthy" enums:"healthy,degraded"`
	Timestamp     time.Time      `json:"timestamp"`
	Uptime        string         `json:"uptime" example:"1h 2m 3s"`
	UptimeSeconds int64          `json:"uptimeSeconds" example:"3723"`
	Trainings     int            `json:"trainings" example:"6"`
	BlogPosts     int            `json:"blogPosts" example:"5"`
	Database      DatabaseHealth `json:"database"`
}
