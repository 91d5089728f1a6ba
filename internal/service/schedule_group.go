package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"sai-tutoria/internal/dto"
	"sai-tutoria/internal/model"
)

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// FormatSpanishDate "10 de mayo de 2024"
func FormatSpanishDate(t time.Time) string {
	return fmt.Sprintf("%02d de %s de %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
}

// SortScheduleEntries orders by due day, keeping insertion order within a day
func SortScheduleEntries(entries []model.ScheduleEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].DueDate.Format(dateLayout) < entries[j].DueDate.Format(dateLayout)
	})
}

// GroupScheduleEntries annotates entries, already sorted by due date, for
// row-span rendering. Each run of consecutive entries due on the same day is a
// group whose first row carries IsFirstInGroup and the group's size. The input
// is not reordered.
func GroupScheduleEntries(entries []model.ScheduleEntry) []dto.GroupedRow {
	rows := make([]dto.GroupedRow, 0, len(entries))

	for i := 0; i < len(entries); {
		day := entries[i].DueDate.Format(dateLayout)
		n := 1
		for i+n < len(entries) && entries[i+n].DueDate.Format(dateLayout) == day {
			n++
		}

		label := FormatSpanishDate(entries[i].DueDate)
		for j := 0; j < n; j++ {
			e := &entries[i+j]
			row := dto.GroupedRow{
				ScheduleEntryID: e.ScheduleEntryID,
				DueDate:         day,
				DateLabel:       label,
				Description:     e.Description,
				IsFirstInGroup:  j == 0,
			}
			if e.DocumentType != nil {
				row.DocumentTypeName = e.DocumentType.Name
			}
			if j == 0 {
				row.GroupSize = n
			}
			rows = append(rows, row)
		}
		i += n
	}
	return rows
}

// documentLabel text of the document column
func documentLabel(r *dto.GroupedRow) string {
	name := strings.TrimSpace(r.DocumentTypeName)
	if name == "" {
		name = "Documento"
	}
	desc := strings.TrimSpace(r.Description)
	if desc == "" {
		return name
	}
	return name + " - " + desc
}
