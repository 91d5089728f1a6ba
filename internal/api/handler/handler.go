package handler

import "sai-tutoria/internal/service"

// Handler aggregate of every HTTP handler
type Handler struct {
	Auth       *AuthHandler
	User       *UserHandler
	Reference  *ReferenceHandler
	Settings   *SettingsHandler
	Grade      *GradeHandler
	Assignment *AssignmentHandler
	Tutoring   *TutoringHandler
	Cronograma *CronogramaHandler
	Export     *ExportHandler
	Document   *DocumentHandler
}

// NewHandler builds the aggregate
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		User:       NewUserHandler(svc.User),
		Reference:  NewReferenceHandler(svc.Reference),
		Settings:   NewSettingsHandler(svc.Settings),
		Grade:      NewGradeHandler(svc.Grade),
		Assignment: NewAssignmentHandler(svc.Risk, svc.Assignment),
		Tutoring:   NewTutoringHandler(svc.Tutoring, svc.Stats),
		Cronograma: NewCronogramaHandler(svc.Cronograma),
		Export:     NewExportHandler(svc.Export),
		Document:   NewDocumentHandler(svc.Document),
	}
}
