package model

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Shift time-of-day grouping (jornada) of a section
type Shift string

const (
	ShiftMorning      Shift = "matutina"
	ShiftAfternoon    Shift = "vespertina"
	ShiftNight        Shift = "nocturna"
	ShiftUnclassified Shift = "unclassified"
)

// Shifts the classified buckets in display order
var Shifts = []Shift{ShiftMorning, ShiftAfternoon, ShiftNight}

var shiftNames = map[Shift]string{
	ShiftMorning:      "Matutina",
	ShiftAfternoon:    "Vespertina",
	ShiftNight:        "Nocturna",
	ShiftUnclassified: "Sin clasificar",
}

// DisplayName Spanish label
func (s Shift) DisplayName() string {
	return shiftNames[s]
}

// jornada names and section names, accent-folded and lower-cased
var shiftAliases = map[string]Shift{
	"matutina":   ShiftMorning,
	"vespertina": ShiftAfternoon,
	"nocturna":   ShiftNight,
	"manana":     ShiftMorning,
	"tarde":      ShiftAfternoon,
	"noche":      ShiftNight,
}

// ClassifyShift uses the explicit jornada when it names a shift, otherwise the
// section name (Mañana, Tarde, Noche). Anything else is ShiftUnclassified.
func ClassifyShift(jornada *string, sectionName string) Shift {
	if jornada != nil {
		if s := lookupShift(*jornada); s != ShiftUnclassified {
			return s
		}
	}
	return lookupShift(sectionName)
}

func lookupShift(name string) Shift {
	if s, ok := shiftAliases[foldName(name)]; ok {
		return s
	}
	return ShiftUnclassified
}

func foldName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}
