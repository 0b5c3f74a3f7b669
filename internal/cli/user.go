package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "User administration (admin)",
	}

	cmd.AddCommand(newUserListCmd())

	return cmd
}

func newUserListCmd() *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered users",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := apiClient.ListUsers(context.Background(), page, pageSize)
			if err != nil {
				return err
			}

			if getOutputFormat() != "table" {
				return printOutput(users)
			}

			t := NewTable("ID", "USERNAME", "EMAIL", "ADMIN", "SUBSCRIPTION", "CREATED")
			for _, u := range users {
				t.AddRow(
					fmt.Sprintf("%d", u.ID),
					u.Username,
					u.Email,
					fmt.Sprintf("%t", u.IsAdmin),
					orDash(u.SubscriptionStatus),
					u.CreatedAt.Format("2006-01-02"),
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
