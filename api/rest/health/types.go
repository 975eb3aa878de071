package health

// Response represents the health check response
type Response struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version,omitempty"`
}

// ReadinessResponse reports dependency status
type ReadinessResponse struct {
	Status     string          `json:"status"`
	Database   string          `json:"database"`
	Components map[string]bool `json:"components,omitempty"`
}
