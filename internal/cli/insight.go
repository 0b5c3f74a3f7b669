package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lunaria-app/lunaria/pkg/client"
)

func newInsightCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insight",
		Short: "Daily insight commands",
	}

	cmd.AddCommand(newInsightTodayCmd())
	cmd.AddCommand(newInsightCreateCmd())
	cmd.AddCommand(newInsightListCmd())

	return cmd
}

func newInsightTodayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's insight",
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := apiClient.DailyInsight(context.Background())
			if err != nil {
				return err
			}

			if getOutputFormat() != "table" {
				return printOutput(i)
			}

			fmt.Printf("%s (%s)\n\n%s\n", i.Title, i.Date, i.Content)
			return nil
		},
	}
}

func newInsightCreateCmd() *cobra.Command {
	var title, content, date, sign string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a daily insight (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" || content == "" {
				return fmt.Errorf("--title and --content are required")
			}

			i, err := apiClient.CreateInsight(context.Background(), client.InsightRequest{
				Title:      title,
				Content:    content,
				Date:       date,
				ZodiacSign: sign,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Created insight %d for %s\n", i.ID, i.Date)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "insight title")
	cmd.Flags().StringVar(&content, "content", "", "insight body")
	cmd.Flags().StringVar(&date, "date", "", "date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&sign, "sign", "", "zodiac sign scope")

	return cmd
}

func newInsightListCmd() *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List insights (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			insights, err := apiClient.ListInsights(context.Background(), page, pageSize)
			if err != nil {
				return err
			}

			if getOutputFormat() != "table" {
				return printOutput(insights)
			}

			t := NewTable("ID", "DATE", "TITLE", "SIGN", "ACTIVE")
			for _, i := range insights {
				t.AddRow(
					fmt.Sprintf("%d", i.ID),
					i.Date,
					i.Title,
					orDash(i.ZodiacSign),
					fmt.Sprintf("%t", i.IsActive),
				)
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "entries per page")

	return cmd
}
