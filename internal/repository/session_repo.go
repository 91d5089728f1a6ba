package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sai-tutoria/internal/model"
)

// SessionRepository tutoring sessions
type SessionRepository interface {
	Create(ctx context.Context, s *model.TutoringSession) error
	GetByID(ctx context.Context, id string) (*model.TutoringSession, error)
	GetByIDForUpdate(ctx context.Context, id string) (*model.TutoringSession, error)
	ListByTutoring(ctx context.Context, tutoringID string) ([]model.TutoringSession, error)
	CountByTutoring(ctx context.Context, tutoringID string) (int64, error)
	CountByTutorings(ctx context.Context, tutoringIDs []string) (map[string]int64, error)
	Update(ctx context.Context, s *model.TutoringSession) error
	Delete(ctx context.Context, id string) error
	// MarkOverdue moves every pending session dated before `before` to incomplete
	MarkOverdue(ctx context.Context, before time.Time) (int64, error)
}

type sessionRepo struct {
	db *gorm.DB
}

// NewSessionRepo creates a SessionRepository
func NewSessionRepo(db *gorm.DB) SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) Create(ctx context.Context, s *model.TutoringSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *sessionRepo) GetByID(ctx context.Context, id string) (*model.TutoringSession, error) {
	var s model.TutoringSession
	if err := r.db.WithContext(ctx).Where("session_id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.TutoringSession, error) {
	var s model.TutoringSession
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("session_id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepo) ListByTutoring(ctx context.Context, tutoringID string) ([]model.TutoringSession, error) {
	var sessions []model.TutoringSession
	err := r.db.WithContext(ctx).
		Where("tutoring_id = ?", tutoringID).
		Order("session_date ASC, created_at ASC").
		Find(&sessions).Error
	return sessions, err
}

func (r *sessionRepo) CountByTutoring(ctx context.Context, tutoringID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.TutoringSession{}).
		Where("tutoring_id = ?", tutoringID).
		Count(&n).Error
	return n, err
}

func (r *sessionRepo) CountByTutorings(ctx context.Context, tutoringIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(tutoringIDs))
	if len(tutoringIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		TutoringID string
		N          int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.TutoringSession{}).
		Select("tutoring_id, COUNT(*) AS n").
		Where("tutoring_id IN ?", tutoringIDs).
		Group("tutoring_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.TutoringID] = row.N
	}
	return out, nil
}

func (r *sessionRepo) Update(ctx context.Context, s *model.TutoringSession) error {
	return r.db.WithContext(ctx).
		Model(&model.TutoringSession{}).
		Where("session_id = ?", s.SessionID).
		Updates(map[string]interface{}{
			"session_date": s.SessionDate,
			"motive":       s.Motive,
			"observations": s.Observations,
			"status":       s.Status,
			"updated_by":   s.UpdatedBy,
			"updated_at":   time.Now(),
		}).Error
}

func (r *sessionRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("session_id = ?", id).
		Delete(&model.TutoringSession{}).Error
}

func (r *sessionRepo) MarkOverdue(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.TutoringSession{}).
		Where("status = ? AND session_date < ?", model.SessionPending, before.Format("2006-01-02")).
		Updates(map[string]interface{}{
			"status":     model.SessionIncomplete,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}
