package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/leave-calendar/internal/model"
	"github.com/Tiliavir/leave-calendar/internal/storage"
)

var (
	exportFormat string
	exportMonth  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the leaves of one month to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, md")
	exportCmd.Flags().StringVar(&exportMonth, "month", "", "Month to export as YYYY-MM (default current month)")
}

func runExport(cmd *cobra.Command, args []string) error {
	ym, err := parseMonth(exportMonth, time.Now())
	if err != nil {
		return err
	}

	a, err := storage.LoadMonth(cfg.Storage.DataDir, ym)
	if err != nil {
		return fmt.Errorf("load %s: %w", ym, err)
	}

	switch exportFormat {
	case "json":
		data, err := json.MarshalIndent(a, "", "  ")
		if err != nil {
			return fmt.Errorf("encode JSON: %w", err)
		}
		fmt.Println(string(data))
	case "md":
		printMarkdown(a)
	case "csv":
		printCSV(a.Leaves)
	default:
		return fmt.Errorf("unknown format %q", exportFormat)
	}
	return nil
}

func printCSV(leaves []model.LeaveRecord) {
	fmt.Println("date,employee,display_name,leave_type,leave_type_name,period")
	for _, l := range leaves {
		period := ""
		if l.Period != nil {
			period = string(*l.Period)
		}
		fmt.Printf("%s,%s,%s,%s,%s,%s\n",
			csvEscape(l.FullDate),
			csvEscape(l.Employee),
			csvEscape(l.DisplayName),
			csvEscape(l.LeaveType),
			csvEscape(l.LeaveTypeName),
			csvEscape(period),
		)
	}
}

func printMarkdown(a model.MonthArchive) {
	fmt.Printf("## %s %d\n\n", a.MonthName, a.Year)
	if len(a.Holidays) > 0 {
		fmt.Println("| Date | Holiday |")
		fmt.Println("|------|---------|")
		for _, h := range a.Holidays {
			fmt.Printf("| %s | %s |\n", h.FullDate, mdEscape(h.Name))
		}
		fmt.Println()
	}
	fmt.Println("| Date | Employee | Leave | Period |")
	fmt.Println("|------|----------|-------|--------|")
	for _, l := range a.Leaves {
		period := ""
		if l.Period != nil {
			period = string(*l.Period)
		}
		fmt.Printf("| %s | %s | %s | %s |\n", l.FullDate, mdEscape(l.DisplayName), mdEscape(l.LeaveTypeName), period)
	}
}

func mdEscape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
