package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/leave-calendar/internal/browser"
	"github.com/Tiliavir/leave-calendar/internal/config"
	"github.com/Tiliavir/leave-calendar/internal/pipeline"
)

var scrapeHeaded bool

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape the leave calendar and write the JSON files",
	Args:  cobra.NoArgs,
	RunE:  runScrape,
}

func init() {
	scrapeCmd.Flags().BoolVar(&scrapeHeaded, "headed", false, "Show the browser window")
}

func runScrape(cmd *cobra.Command, args []string) error {
	start := time.Now()
	p := newPipeline(cfg, scrapeHeaded || cfg.Browser.Headed)

	fmt.Println("Scraping leave calendar...")
	res, err := p.Run(cmd.Context())
	if err != nil {
		fmt.Printf("Scrape failed after %s.\n", formatElapsed(int64(time.Since(start).Seconds())))
		return err
	}

	fmt.Printf("Scrape complete in %s (run %s)\n", formatElapsed(int64(time.Since(start).Seconds())), res.RunID)
	fmt.Println("--------------------------------")
	for _, m := range res.Months {
		fmt.Printf("  %s %d\n", m.MonthName, m.Year)
	}
	fmt.Println("--------------------------------")
	fmt.Printf("%-20s%d\n", "Leave entries", res.Entries)
	fmt.Printf("%-20s%d\n", "Holidays", res.Holidays)
	if res.Stats.SkippedRows > 0 {
		fmt.Printf("%-20s%d\n", "Skipped rows", res.Stats.SkippedRows)
	}
	if res.Stats.OverflowFailed > 0 {
		fmt.Printf("%-20s%d (visible entries kept)\n", "Unresolved +more", res.Stats.OverflowFailed)
	}
	fmt.Printf("Saved to %s\n", cfg.Storage.DataDir)
	return nil
}

// newPipeline wires the scrape pipeline to a Chrome browser.
func newPipeline(c *config.Config, headed bool) *pipeline.Pipeline {
	launch := func(ctx context.Context) (pipeline.Browser, error) {
		b, err := browser.Launch(ctx, browser.Options{
			Headless: !headed,
			ExecPath: c.Browser.ExecPath,
		}, logger)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
	return pipeline.New(c, launch, logger)
}

func formatElapsed(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
