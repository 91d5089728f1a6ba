package model

// TutoringSettings single-row settings editable at runtime (table tutoring_settings)
type TutoringSettings struct {
	Singleton               bool    `gorm:"primaryKey;default:true"                json:"-"`
	RiskThreshold           float64 `gorm:"type:numeric(4,2);not null;default:7"   json:"risk_threshold"`
	DefaultRequiredSessions int     `gorm:"not null;default:3"                     json:"default_required_sessions"`
	BaseModel
}

// TableName table name
func (TutoringSettings) TableName() string { return "tutoring_settings" }
