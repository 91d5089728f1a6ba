package service

import "sai-tutoria/internal/model"

// Actor the authenticated caller of an operation
type Actor struct {
	UserID    string
	Role      string
	TeacherID string // DOCENTE accounts only
}

// canAccessTeacher coordinators and admins see everything, teachers only their own records
func (a Actor) canAccessTeacher(teacherID string) bool {
	if a.Role == model.RoleAdmin || a.Role == model.RoleCoordinator {
		return true
	}
	return a.TeacherID != "" && a.TeacherID == teacherID
}
