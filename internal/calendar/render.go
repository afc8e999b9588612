package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Tiliavir/leave-calendar/internal/model"
	"github.com/Tiliavir/leave-calendar/internal/timecalc"
)

// Render writes a text view of (year, month): the grid, the day-by-day
// leave list, today's panel and the month stats.
func (c *Calendar) Render(w io.Writer, year, month int, today time.Time) {
	fmt.Fprintf(w, "%s %d\n", timecalc.MonthName(month), year)
	fmt.Fprintln(w, "--------------------------------------------------------")
	fmt.Fprintln(w, "   Sun     Mon     Tue     Wed     Thu     Fri     Sat")

	grid := c.MonthGrid(year, month, today)
	for _, week := range grid {
		var sb strings.Builder
		for _, d := range week {
			sb.WriteString(cellLabel(d))
		}
		fmt.Fprintln(w, strings.TrimRight(sb.String(), " "))
	}
	fmt.Fprintln(w, "  [ ] today   * holiday   +N people on leave")
	fmt.Fprintln(w)

	for _, week := range grid {
		for _, d := range week {
			if d.OtherMonth || (d.Holiday == nil && len(d.Leaves) == 0) {
				continue
			}
			fmt.Fprintf(w, "%s\n", d.Date.Format("Mon 02 Jan"))
			if d.Holiday != nil {
				fmt.Fprintf(w, "    * %s\n", d.Holiday.Name)
			}
			for _, l := range d.Leaves {
				fmt.Fprintf(w, "    %-20s%s\n", c.DisplayName(l), leaveLabel(l.LeaveType, l.LeaveTypeName, periodOf(l.Period)))
			}
		}
	}

	fmt.Fprintln(w)
	c.RenderToday(w, today)

	s := c.Stats(year, month)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "--------------------------------")
	fmt.Fprintf(w, "%-20s%d\n", "Leaves", s.TotalLeaves)
	fmt.Fprintf(w, "%-20s%d\n", "People on leave", s.UniqueEmployees)
	fmt.Fprintf(w, "%-20s%d\n", "Working days", s.WorkingDays)
	if !c.ScrapedAt().IsZero() {
		fmt.Fprintf(w, "%-20s%s\n", "Updated", c.ScrapedAt().Local().Format("2006-01-02 15:04"))
	}
}

// RenderToday writes who is out on today.
func (c *Calendar) RenderToday(w io.Writer, today time.Time) {
	fmt.Fprintf(w, "Today, %s\n", today.Format("Monday, Jan 2"))
	h, holiday := c.HolidayOn(today)
	if holiday {
		fmt.Fprintf(w, "    * %s\n", h.Name)
	}
	leaves := c.LeavesOn(today)
	if len(leaves) == 0 && !holiday {
		fmt.Fprintln(w, "    Everyone is in today")
		return
	}
	for _, l := range leaves {
		fmt.Fprintf(w, "    %-20s%s\n", c.DisplayName(l), leaveLabel(l.LeaveType, l.LeaveTypeName, periodOf(l.Period)))
	}
}

func cellLabel(d Day) string {
	if d.OtherMonth {
		return strings.Repeat(" ", 8)
	}
	num := fmt.Sprintf("%2d", d.Date.Day())
	if d.Today {
		num = "[" + num + "]"
	} else {
		num = " " + num + " "
	}
	mark := ""
	if d.Holiday != nil {
		mark = "*"
	}
	if n := len(d.Leaves); n > 0 {
		mark += fmt.Sprintf("+%d", n)
	}
	return fmt.Sprintf("%-8s", num+mark)
}

func leaveLabel(code, name, period string) string {
	label := code
	if name != "" && name != code {
		label = fmt.Sprintf("%s (%s)", name, code)
	}
	if period != "" {
		label += " " + period
	}
	return label
}

func periodOf(p *model.Period) string {
	if p == nil {
		return ""
	}
	return string(*p)
}
