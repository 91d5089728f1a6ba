package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregate of every repository
type Repository struct {
	db *gorm.DB

	User           UserRepository
	Reference      ReferenceRepository
	Grade          GradeRepository
	Settings       SettingsRepository
	Candidate      CandidateRepository
	Tutoring       TutoringRepository
	Session        SessionRepository
	Notification   NotificationRepository
	DocumentType   DocumentTypeRepository
	ScheduleEntry  ScheduleEntryRepository
	ReportDocument ReportDocumentRepository
	Stats          StatsRepository
}

// NewRepository builds the aggregate over db
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:             db,
		User:           NewUserRepo(db),
		Reference:      NewReferenceRepo(db),
		Grade:          NewGradeRepo(db),
		Settings:       NewSettingsRepo(db),
		Candidate:      NewCandidateRepo(db),
		Tutoring:       NewTutoringRepo(db),
		Session:        NewSessionRepo(db),
		Notification:   NewNotificationRepo(db),
		DocumentType:   NewDocumentTypeRepo(db),
		ScheduleEntry:  NewScheduleEntryRepo(db),
		ReportDocument: NewReportDocumentRepo(db),
		Stats:          NewStatsRepo(db),
	}
}

// Transaction runs fn inside a transaction, committing when fn returns nil.
// Without a database fn runs directly against r.
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
