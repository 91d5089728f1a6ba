package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sai-tutoria/internal/model"
)

// SettingsRepository the single tutoring_settings row
type SettingsRepository interface {
	Get(ctx context.Context) (*model.TutoringSettings, error)
	Save(ctx context.Context, settings *model.TutoringSettings) error
}

type settingsRepo struct {
	db *gorm.DB
}

// NewSettingsRepo creates a SettingsRepository
func NewSettingsRepo(db *gorm.DB) SettingsRepository {
	return &settingsRepo{db: db}
}

func (r *settingsRepo) Get(ctx context.Context) (*model.TutoringSettings, error) {
	var s model.TutoringSettings
	if err := r.db.WithContext(ctx).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// Save upserts the singleton row
func (r *settingsRepo) Save(ctx context.Context, settings *model.TutoringSettings) error {
	settings.Singleton = true
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "singleton"}},
			DoUpdates: clause.AssignmentColumns([]string{"risk_threshold", "default_required_sessions", "updated_by", "updated_at"}),
		}).
		Create(settings).Error
}
