package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show platform statistics (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := apiClient.Stats(context.Background())
			if err != nil {
				return err
			}

			if getOutputFormat() != "table" {
				return printOutput(stats)
			}

			t := NewTable("METRIC", "VALUE")
			t.AddRow("Total users", fmt.Sprintf("%d", stats.TotalUsers))
			t.AddRow("Subscriptions", fmt.Sprintf("%d", stats.Subscriptions))
			t.AddRow("Monthly revenue", fmt.Sprintf("$%.2f", stats.MonthlyRevenue))
			t.AddRow("Readings generated", fmt.Sprintf("%d", stats.ReadingsGenerated))
			t.Render()
			return nil
		},
	}
}
