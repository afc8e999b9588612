package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/leave-calendar/internal/calendar"
	"github.com/Tiliavir/leave-calendar/internal/storage"
	"github.com/Tiliavir/leave-calendar/internal/timecalc"
)

var (
	showMonth string
	showToday bool
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the leave calendar from the last scrape",
	Args:  cobra.NoArgs,
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&showMonth, "month", "", "Month to show as YYYY-MM (default current month)")
	showCmd.Flags().BoolVar(&showToday, "today", false, "Only show who is out today")
}

func runShow(cmd *cobra.Command, args []string) error {
	ym, err := parseMonth(showMonth, time.Now())
	if err != nil {
		return err
	}
	return renderCached(os.Stdout, ym, showToday)
}

// renderCached reads the aggregate file and renders one month of it. A
// missing aggregate is reported inline rather than as an error.
func renderCached(w io.Writer, ym timecalc.YearMonth, todayOnly bool) error {
	store, err := storage.LoadAggregate(cfg.Storage.DataDir)
	if errors.Is(err, storage.ErrNoData) {
		fmt.Fprintln(w, "No leave data available yet. Run 'lcal scrape' first.")
		return nil
	}
	if err != nil {
		return err
	}

	cal := calendar.New(store, cfg.Roster.Directory())
	today := timecalc.StartOfDay(time.Now())
	if todayOnly {
		cal.RenderToday(w, today)
		return nil
	}
	cal.Render(w, ym.Year, ym.Month, today)
	return nil
}

// parseMonth reads a YYYY-MM flag value; empty means the month of now.
func parseMonth(s string, now time.Time) (timecalc.YearMonth, error) {
	if s == "" {
		return timecalc.YearMonth{Year: now.Year(), Month: int(now.Month())}, nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return timecalc.YearMonth{}, fmt.Errorf("invalid month %q, expected YYYY-MM", s)
	}
	return timecalc.YearMonth{Year: t.Year(), Month: int(t.Month())}, nil
}
