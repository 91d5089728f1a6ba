package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"sai-tutoria/internal/dto"
	"sai-tutoria/internal/model"
	"sai-tutoria/internal/repository"
)

func TestShiftStats(t *testing.T) {
	night := "Nocturna"
	rows := []repository.SessionStatusCount{
		{SectionName: "Mañana", Status: model.SessionDone, Count: 4},
		{SectionName: "Mañana", Status: model.SessionIncomplete, Count: 1},
		{SectionName: "Tarde", Status: model.SessionPending, Count: 2},
		{SectionName: "B", Jornada: &night, Status: model.SessionAbsence, Count: 3},
	}

	got := shiftStats(rows)
	if len(got) != 3 {
		t.Fatalf("unclassified must be omitted when empty, got %d buckets", len(got))
	}
	if got[0].Shift != string(model.ShiftMorning) || got[0].Done != 4 || got[0].Incomplete != 1 || got[0].Total != 5 {
		t.Errorf("morning %+v", got[0])
	}
	if got[1].Pending != 2 || got[1].Total != 2 {
		t.Errorf("afternoon %+v", got[1])
	}
	if got[2].Absence != 3 || got[2].Name != "Nocturna" {
		t.Errorf("night %+v", got[2])
	}

	rows = append(rows, repository.SessionStatusCount{SectionName: "Paralelo X", Status: model.SessionDone, Count: 1})
	got = shiftStats(rows)
	if len(got) != 4 || got[3].Shift != string(model.ShiftUnclassified) || got[3].Total != 1 {
		t.Errorf("expected a trailing unclassified bucket, got %+v", got)
	}
}

func TestShiftStats_EmptyKeepsClassified(t *testing.T) {
	got := shiftStats(nil)
	if len(got) != 3 {
		t.Fatalf("expected the three shifts, got %d", len(got))
	}
	for _, s := range got {
		if s.Total != 0 {
			t.Errorf("%s should be zero", s.Shift)
		}
	}
}

func TestStatsService_Summary(t *testing.T) {
	repos := newTestRepos()
	repos.stats.subjects = []repository.SubjectCount{{SubjectID: fxSubject, SubjectName: "Cálculo Diferencial", Count: 7}}
	repos.stats.teachers = []repository.TeacherCount{{TeacherID: fxTeacher, TeacherName: "ANA pérez", Count: 2}}
	svc := NewStatsService(repos.toRepository(), zap.NewNop())

	resp, err := svc.Summary(context.Background(), &dto.StatsQuery{})
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if len(resp.ByShift) != 3 || len(resp.TopSubjects) != 1 || resp.TopSubjects[0].Tutorings != 7 {
		t.Errorf("unexpected summary %+v", resp)
	}
	if resp.Teachers[0].TeacherName != "Ana Pérez" || resp.Teachers[0].Incomplete != 2 {
		t.Errorf("teacher %+v", resp.Teachers[0])
	}

	repos.stats.err = errors.New("db down")
	if _, err := svc.Summary(context.Background(), &dto.StatsQuery{}); err == nil {
		t.Error("expected the repository error")
	}
}
