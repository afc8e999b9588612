package normalize

import (
	"github.com/Tiliavir/leave-calendar/internal/model"
	"github.com/Tiliavir/leave-calendar/internal/timecalc"
)

// Normalizer turns raw (employee, code, period) triples into LeaveRecords.
type Normalizer struct {
	Directory  Directory
	LeaveTypes LeaveTypes
}

// New returns a Normalizer using the given tables.
func New(dir Directory, types LeaveTypes) *Normalizer {
	return &Normalizer{Directory: dir, LeaveTypes: types}
}

// Record builds the LeaveRecord for one raw entry on (year, month, day).
// An explicit period wins over one embedded in the employee string.
func (n *Normalizer) Record(year, month, day int, employee, code string, period *model.Period) model.LeaveRecord {
	canon := Canonicalize(employee)
	if period == nil {
		period = canon.Period
	}
	meta := n.LeaveTypes.Meta(code)
	return model.LeaveRecord{
		Day:           day,
		FullDate:      timecalc.FullDate(year, month, day),
		Month:         month,
		Year:          year,
		Employee:      canon.Name,
		EmployeeRaw:   employee,
		LeaveType:     code,
		Period:        period,
		DisplayName:   n.Directory.DisplayName(canon.Name),
		LeaveTypeName: meta.Label,
		Color:         meta.Color,
	}
}
