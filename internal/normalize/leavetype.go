package normalize

import "strings"

// DefaultColor is used for leave codes missing from the table.
const DefaultColor = "#999999"

// Meta is the human label and display color of a leave code.
type Meta struct {
	Label string `yaml:"label"`
	Color string `yaml:"color"`
}

// LeaveTypes resolves leave codes to metadata. Variant codes are declared as
// aliases of a primary code instead of duplicating its metadata.
type LeaveTypes struct {
	Types   map[string]Meta
	Aliases map[string]string
}

// DefaultLeaveTypes returns the portal's known leave codes.
func DefaultLeaveTypes() LeaveTypes {
	return LeaveTypes{
		Types: map[string]Meta{
			"ANNU": {Label: "Annual Leave", Color: "#3498db"},
			"SL":   {Label: "Sick Leave", Color: "#e74c3c"},
			"WFH":  {Label: "Work From Home", Color: "#9b59b6"},
			"NSL":  {Label: "National Service Leave", Color: "#1abc9c"},
			"CCL":  {Label: "Childcare Leave", Color: "#f39c12"},
			"ML":   {Label: "Medical Leave", Color: "#e91e63"},
			"PL":   {Label: "Paternity Leave", Color: "#00bcd4"},
			"UL":   {Label: "Unpaid Leave", Color: "#607d8b"},
			"CL":   {Label: "Compassionate Leave", Color: "#795548"},
			"HL":   {Label: "Hospitalization Leave", Color: "#ff5722"},
		},
		Aliases: map[string]string{
			"WFH 2": "WFH",
		},
	}
}

// Meta returns the label and color for code. Unknown codes fall back to the
// code itself and DefaultColor.
func (lt LeaveTypes) Meta(code string) Meta {
	key := strings.TrimSpace(code)
	if primary, ok := lt.Aliases[key]; ok {
		key = primary
	}
	if m, ok := lt.Types[key]; ok {
		if m.Label == "" {
			m.Label = key
		}
		if m.Color == "" {
			m.Color = DefaultColor
		}
		return m
	}
	return Meta{Label: code, Color: DefaultColor}
}

// Merge returns a copy of lt with the entries of other added or replaced.
func (lt LeaveTypes) Merge(other LeaveTypes) LeaveTypes {
	out := LeaveTypes{
		Types:   make(map[string]Meta, len(lt.Types)+len(other.Types)),
		Aliases: make(map[string]string, len(lt.Aliases)+len(other.Aliases)),
	}
	for k, v := range lt.Types {
		out.Types[k] = v
	}
	for k, v := range other.Types {
		out.Types[k] = v
	}
	for k, v := range lt.Aliases {
		out.Aliases[k] = v
	}
	for k, v := range other.Aliases {
		out.Aliases[k] = v
	}
	return out
}
