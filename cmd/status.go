package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/leave-calendar/internal/webhook"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the trigger server",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	if cfg.Webhook.URL == "" {
		fmt.Println("No trigger server configured.")
		return nil
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()
	client := webhook.NewClient(ctx, cfg.Webhook.URL, cfg.Webhook.Token)

	health, err := client.Health(ctx)
	if err != nil {
		fmt.Printf("Trigger server %s is not reachable: %v\n", cfg.Webhook.URL, err)
		return nil
	}
	st, err := client.Status(ctx)
	if err != nil {
		return fmt.Errorf("read status: %w", err)
	}

	fmt.Printf("%-20s%s\n", "Server", cfg.Webhook.URL)
	fmt.Printf("%-20s%s\n", "Health", health.Status)
	if st.Running {
		fmt.Printf("%-20s%s\n", "Scraper", "running")
	} else {
		fmt.Printf("%-20s%s\n", "Scraper", "idle")
	}
	if st.LastRun == nil {
		fmt.Printf("%-20s%s\n", "Last run", "never")
		return nil
	}
	ago := int64(time.Since(*st.LastRun).Seconds())
	fmt.Printf("%-20s%s (%s ago)\n", "Last run", st.LastRun.Local().Format("2006-01-02 15:04"), formatElapsed(ago))
	if st.LastResult != nil {
		fmt.Printf("%-20s%s\n", "Result", *st.LastResult)
	}
	if st.LastError != nil {
		fmt.Printf("%-20s%s\n", "Error", *st.LastError)
	}
	if st.RunID != "" {
		fmt.Printf("%-20s%s\n", "Run ID", st.RunID)
	}
	return nil
}
