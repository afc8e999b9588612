package config

import (
	"fmt"
	"maps"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/leave-calendar/internal/normalize"
)

// Roster holds the static lookup tables used to enrich scraped entries.
//
//	names:
//	  TAN WEN XIAN (ALLEN): Allen
//	leave_types:
//	  ANNU: {label: Annual Leave, color: "#3498db"}
//	aliases:
//	  WFH 2: WFH
//	holidays:
//	  - {day: 19, month: 2, year: 2026, name: CNY (Company Holiday)}
type Roster struct {
	Names      map[string]string          `yaml:"names"`
	LeaveTypes map[string]normalize.Meta  `yaml:"leave_types"`
	Aliases    map[string]string          `yaml:"aliases"`
	Holidays   []normalize.CompanyHoliday `yaml:"holidays"`
}

// DefaultRoster returns the built-in tables.
func DefaultRoster() Roster {
	lt := normalize.DefaultLeaveTypes()
	return Roster{
		Names:      normalize.DefaultDirectory(),
		LeaveTypes: lt.Types,
		Aliases:    lt.Aliases,
		Holidays:   normalize.DefaultCompanyHolidays(),
	}
}

// LoadRoster reads a roster YAML file.
func LoadRoster(path string) (Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Roster{}, fmt.Errorf("reading roster file %s: %w", path, err)
	}
	var r Roster
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Roster{}, fmt.Errorf("parsing roster file %s: %w", path, err)
	}
	return r, nil
}

// Merge returns r overlaid with other. Map entries in other win; holidays
// are appended.
func (r Roster) Merge(other Roster) Roster {
	names := maps.Clone(r.Names)
	if names == nil {
		names = map[string]string{}
	}
	maps.Copy(names, other.Names)
	types := r.Types().Merge(other.Types())
	return Roster{
		Names:      names,
		LeaveTypes: types.Types,
		Aliases:    types.Aliases,
		Holidays:   append(append([]normalize.CompanyHoliday(nil), r.Holidays...), other.Holidays...),
	}
}

// Directory returns the friendly name table.
func (r Roster) Directory() normalize.Directory {
	return normalize.Directory(r.Names)
}

// Types returns the leave type table.
func (r Roster) Types() normalize.LeaveTypes {
	return normalize.LeaveTypes{Types: r.LeaveTypes, Aliases: r.Aliases}
}

// Normalizer returns a normalizer over the roster tables.
func (r Roster) Normalizer() *normalize.Normalizer {
	return normalize.New(r.Directory(), r.Types())
}
