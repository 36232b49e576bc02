package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show account summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			session, err := apiClient.Me(ctx)
			if err != nil {
				return fmt.Errorf("failed to load account: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				summary := map[string]interface{}{
					"user":         session.User,
					"subscription": session.Subscription,
				}
				projects, perr := apiClient.Projects().List(ctx, 1, 1)
				if perr == nil {
					summary["projects"] = projects.TotalItems
				}
				return printOutput(summary)
			}

			fmt.Println("CodeLab Account")
			fmt.Println(strings.Repeat("=", 40))

			u := session.User
			fmt.Printf("  User:          %s", u.Email)
			if !u.EmailVerified {
				fmt.Print(" (unverified)")
			}
			fmt.Println()

			if sub := session.Subscription; sub != nil {
				fmt.Printf("  Plan:          %s %s\n", sub.Plan, formatStatus(sub.Status))
				if sub.EndDate != nil {
					fmt.Printf("  Renews:        %s\n", sub.EndDate.Format("2006-01-02"))
				}
			} else {
				fmt.Println("  Plan:          free")
			}

			fmt.Printf("  Usage:         %d requests this month\n", u.TotalRequests)

			projects, err := apiClient.Projects().List(ctx, 1, 1)
			if err != nil {
				fmt.Printf("  Projects:      (error: %v)\n", err)
			} else {
				fmt.Printf("  Projects:      %d\n", projects.TotalItems)
			}

			return nil
		},
	}
}
