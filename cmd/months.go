package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/leave-calendar/internal/storage"
)

var monthsCmd = &cobra.Command{
	Use:   "months",
	Short: "List archived months",
	Args:  cobra.NoArgs,
	RunE:  runMonths,
}

func runMonths(cmd *cobra.Command, args []string) error {
	months, err := storage.ListMonths(cfg.Storage.DataDir)
	if err != nil {
		return err
	}
	if len(months) == 0 {
		fmt.Println("No archived months.")
		return nil
	}

	fmt.Printf("%-20s%-10s%-10s%s\n", "Month", "Leaves", "Holidays", "Scraped")
	for _, ym := range months {
		label := fmt.Sprintf("%s %d", ym.Name(), ym.Year)
		a, err := storage.LoadMonth(cfg.Storage.DataDir, ym)
		if err != nil {
			fmt.Printf("%-20s%s\n", label, err)
			continue
		}
		fmt.Printf("%-20s%-10d%-10d%s\n",
			label, len(a.Leaves), len(a.Holidays), a.ScrapedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}
