// Package normalize maps raw portal strings to canonical employee names,
// friendly display names and leave type metadata.
package normalize

import (
	"regexp"
	"strings"

	"github.com/Tiliavir/leave-calendar/internal/model"
)

var periodSuffix = regexp.MustCompile(`(?i)^(.*?)\s*\((AM|PM)\)\s*$`)

// Name is a canonicalized employee name with its optional half-day period.
type Name struct {
	Name   string
	Period *model.Period
}

// Canonicalize strips a trailing "(AM)" or "(PM)" qualifier from raw. Any
// further trailing qualifiers are stripped too so that canonicalizing the
// result again is a no-op; the outermost one determines the period.
func Canonicalize(raw string) Name {
	name := strings.TrimSpace(raw)
	var period *model.Period
	for {
		m := periodSuffix.FindStringSubmatch(name)
		if m == nil || strings.TrimSpace(m[1]) == "" {
			break
		}
		if period == nil {
			p := model.Period(strings.ToUpper(m[2]))
			period = &p
		}
		name = strings.TrimSpace(m[1])
	}
	return Name{Name: name, Period: period}
}

// Directory maps full portal names to short friendly names.
type Directory map[string]string

// DefaultDirectory is the built-in friendly name table.
func DefaultDirectory() Directory {
	return Directory{
		"JOHN YANG JIA HAN":        "John",
		"LEE CHIN HAI (EDDY)":      "Eddy",
		"MOHD ELIYAZAR BIN ISMAIL": "Eliyazar",
		"SARFARAZ ABDULLAH":        "Abdullah",
		"LIM YI HWEE (JOEY)":       "Joey",
		"TAN WEN XIAN (ALLEN)":     "Allen",
		"CHUA SIN HAI":             "Sin Hai",
	}
}

// DisplayName returns the friendly name for canonical, or canonical itself
// when no mapping exists.
func (d Directory) DisplayName(canonical string) string {
	if short, ok := d[canonical]; ok && short != "" {
		return short
	}
	return canonical
}
