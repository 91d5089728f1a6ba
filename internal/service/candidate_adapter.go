package service

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"sai-tutoria/internal/dto"
	"sai-tutoria/internal/model"
)

// titleName "LUIS  andrade" → "Luis Andrade"
func titleName(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	// cases.Caser is stateful; one per call
	return cases.Title(language.Spanish).String(s)
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

// normalizeCandidate maps one scanned row onto the canonical candidate.
// Missing names become empty strings; a missing grade reads as 0.
func normalizeCandidate(row *model.CandidateRow) dto.RiskCandidate {
	c := dto.RiskCandidate{
		GradeID:     row.GradeID,
		StudentID:   row.StudentID,
		StudentName: titleName(deref(row.StudentName)),
		Email:       strings.ToLower(deref(row.Email)),
		SubjectID:   row.SubjectID,
		SubjectName: deref(row.SubjectName),
		TeacherID:   row.TeacherID,
		TeacherName: titleName(deref(row.TeacherName)),
		SectionID:   row.SectionID,
		SectionName: deref(row.SectionName),
		Shift:       string(model.ClassifyShift(row.Jornada, deref(row.SectionName))),
	}
	if row.GradeP1 != nil {
		c.GradeP1 = *row.GradeP1
	}
	return c
}

// partitionByShift buckets candidates keeping their input order. Slices are
// never nil so an empty bucket serializes as [].
func partitionByShift(candidates []dto.RiskCandidate) *dto.CandidatePartition {
	p := &dto.CandidatePartition{
		Matutina:     []dto.RiskCandidate{},
		Vespertina:   []dto.RiskCandidate{},
		Nocturna:     []dto.RiskCandidate{},
		Unclassified: []dto.RiskCandidate{},
		Total:        len(candidates),
	}
	for _, c := range candidates {
		switch model.Shift(c.Shift) {
		case model.ShiftMorning:
			p.Matutina = append(p.Matutina, c)
		case model.ShiftAfternoon:
			p.Vespertina = append(p.Vespertina, c)
		case model.ShiftNight:
			p.Nocturna = append(p.Nocturna, c)
		default:
			p.Unclassified = append(p.Unclassified, c)
		}
	}
	return p
}
