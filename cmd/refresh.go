package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/leave-calendar/internal/webhook"
)

var (
	refreshMonth   string
	refreshTimeout time.Duration
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Trigger a scrape on the trigger server, then show the calendar",
	Long: `refresh asks the trigger server configured in webhook.url (or
HRIQ_WEBHOOK_URL) to run a scrape and then shows the stored calendar. When the
trigger fails the cached data is shown anyway.`,
	Args: cobra.NoArgs,
	RunE: runRefresh,
}

func init() {
	refreshCmd.Flags().StringVar(&refreshMonth, "month", "", "Month to show as YYYY-MM (default current month)")
	refreshCmd.Flags().DurationVar(&refreshTimeout, "timeout", 5*time.Minute, "How long to wait for the scrape")
}

func runRefresh(cmd *cobra.Command, args []string) error {
	ym, err := parseMonth(refreshMonth, time.Now())
	if err != nil {
		return err
	}

	if cfg.Webhook.URL == "" {
		fmt.Println("No trigger server configured, showing cached data.")
	} else {
		ctx, cancel := context.WithTimeout(cmd.Context(), refreshTimeout)
		defer cancel()

		fmt.Printf("Triggering scrape on %s...\n", cfg.Webhook.URL)
		client := webhook.NewClient(ctx, cfg.Webhook.URL, cfg.Webhook.Token)
		res, err := client.Scrape(ctx)
		if err != nil {
			fmt.Printf("Refresh failed: %v\n", err)
			fmt.Println("Showing cached data.")
		} else {
			fmt.Println(res.Message)
		}
		fmt.Println()
	}

	return renderCached(os.Stdout, ym, false)
}
