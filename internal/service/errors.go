package service

import (
	"errors"
	"fmt"
)

// ── error families ──
// Module errors wrap one of these so handlers can map them by family.

var (
	ErrValidation        = errors.New("datos inválidos")
	ErrCapacityExceeded  = errors.New("se alcanzó el número de sesiones requeridas")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
)

// ── tutoring ──

var (
	ErrTutoringNotFound     = errors.New("tutoría no encontrada")
	ErrSessionNotFound      = errors.New("sesión no encontrada")
	ErrAssignmentExists     = errors.New("el estudiante ya tiene tutoría asignada en esta asignatura")
	ErrGradeNotFound        = errors.New("nota no encontrada")
	ErrNotAtRisk            = errors.New("el estudiante no está en riesgo en esta asignatura")
	ErrIncompleteSelection  = fmt.Errorf("%w: seleccione período y nivel", ErrValidation)
	ErrObjectiveRequired    = fmt.Errorf("%w: el objetivo es obligatorio", ErrValidation)
	ErrRequiredSessionsLow  = fmt.Errorf("%w: el número de sesiones debe ser al menos 1", ErrValidation)
	ErrRequiredSessionsHigh = fmt.Errorf("%w: el número de sesiones excede el máximo permitido", ErrValidation)
	ErrShrinkBelowCount     = fmt.Errorf("%w: el número de sesiones no puede ser menor a las ya registradas", ErrValidation)
	ErrMotiveRequired       = fmt.Errorf("%w: el motivo es obligatorio", ErrValidation)
	ErrInvalidDate          = fmt.Errorf("%w: fecha inválida, use AAAA-MM-DD", ErrValidation)
	ErrPastSessionDate      = fmt.Errorf("%w: la fecha no puede ser anterior a hoy", ErrValidation)
	ErrNotRegistered        = fmt.Errorf("%w: registre el objetivo de la tutoría antes de agregar sesiones", ErrValidation)
	ErrUnknownStatus        = fmt.Errorf("%w: estado desconocido", ErrInvalidTransition)
	ErrSessionLocked        = fmt.Errorf("%w: la sesión está bloqueada", ErrInvalidTransition)
	ErrStatusNotSelectable  = fmt.Errorf("%w: el estado no puede asignarse manualmente", ErrInvalidTransition)
	ErrSessionNotDeletable  = fmt.Errorf("%w: solo se pueden eliminar sesiones pendientes", ErrInvalidTransition)
)

// ── access ──

var (
	ErrNoPermission   = errors.New("no tiene permiso para esta operación")
	ErrNotTeacherUser = errors.New("el usuario no está vinculado a un docente")
)

// ── reference data ──

var (
	ErrPeriodNotFound  = errors.New("período no encontrado")
	ErrLevelNotFound   = errors.New("nivel no encontrado")
	ErrSectionNotFound = errors.New("sección no encontrada")
	ErrSubjectNotFound = errors.New("asignatura no encontrada")
	ErrTeacherNotFound = errors.New("docente no encontrado")
	ErrStudentNotFound = errors.New("estudiante no encontrado")
)
