package dto

// UpdateTutoringSettingsRequest settings change
type UpdateTutoringSettingsRequest struct {
	RiskThreshold           *float64 `json:"risk_threshold"            binding:"omitempty,gt=0,lte=10"`
	DefaultRequiredSessions *int     `json:"default_required_sessions" binding:"omitempty,min=1"`
}

// TutoringSettingsResponse effective settings
type TutoringSettingsResponse struct {
	RiskThreshold           float64 `json:"risk_threshold"`
	DefaultRequiredSessions int     `json:"default_required_sessions"`
	MaxRequiredSessions     int     `json:"max_required_sessions"`
	UpdatedAt               string  `json:"updated_at,omitempty"`
}
