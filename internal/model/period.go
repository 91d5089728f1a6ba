package model

import "time"

// Period academic period, e.g. "2025-2026 CI" (table periods)
type Period struct {
	PeriodID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"period_id"`
	Name      string    `gorm:"type:varchar(100);not null"                     json:"name"`
	StartDate time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null"                             json:"end_date"`
	IsActive  bool      `gorm:"not null;default:false"                         json:"is_active"`
	Timestamps
}

// TableName table name
func (Period) TableName() string { return "periods" }

// SemesterPeriod a level ("Nivel 3") offered within a period (table semester_periods)
type SemesterPeriod struct {
	SemesterPeriodID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"semester_period_id"`
	PeriodID         string `gorm:"type:uuid;not null"                             json:"period_id"`
	Name             string `gorm:"type:varchar(50);not null"                      json:"name"`
	Level            int    `gorm:"not null"                                       json:"level"`
	Timestamps

	Period *Period `gorm:"foreignKey:PeriodID;references:PeriodID" json:"period,omitempty"`
}

// TableName table name
func (SemesterPeriod) TableName() string { return "semester_periods" }

// Section class group of a semester-period; its name carries the shift ("Mañana") (table sections)
type Section struct {
	SectionID        string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"section_id"`
	SemesterPeriodID string  `gorm:"type:uuid;not null"                             json:"semester_period_id"`
	Name             string  `gorm:"type:varchar(50);not null"                      json:"name"`
	Shift            *string `gorm:"type:varchar(20)"                               json:"shift,omitempty"` // explicit jornada, overrides the name mapping
	Timestamps
}

// TableName table name
func (Section) TableName() string { return "sections" }
