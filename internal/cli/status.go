package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			live, err := apiClient.Healthz(ctx)
			if err != nil {
				return fmt.Errorf("server unreachable: %w", err)
			}

			ready, err := apiClient.Readyz(ctx)
			if err != nil {
				fmt.Printf("Live: %s, but not ready: %v\n", live.Status, err)
				return nil
			}

			fmt.Printf("Live: %s, ready: %s\n", live.Status, ready.Status)
			return nil
		},
	}
}
