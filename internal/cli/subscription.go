package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newSubscriptionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subscription",
		Aliases: []string{"sub"},
		Short:   "Manage your subscription",
	}

	cmd.AddCommand(newSubscriptionPlansCmd())
	cmd.AddCommand(newSubscriptionShowCmd())
	cmd.AddCommand(newSubscriptionActivateCmd())
	cmd.AddCommand(newSubscriptionCancelCmd())

	return cmd
}

func newSubscriptionPlansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "List available plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			plans, err := apiClient.Subscription().Plans(ctx)
			if err != nil {
				return fmt.Errorf("failed to list plans: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(plans)
			}

			table := NewTable("ID", "NAME", "PRICE", "PROJECTS", "REQUESTS/MONTH")
			for _, p := range plans {
				price := "free"
				if p.Price > 0 {
					price = fmt.Sprintf("%.2f %s", p.Price, p.Currency)
				}
				table.AddRow(
					p.ID,
					p.Name,
					price,
					p.Features["maxProjects"],
					p.Features["maxRequestsPerMonth"],
				)
			}
			table.Render()
			return nil
		},
	}
}

func newSubscriptionShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current subscription and payment history",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			details, err := apiClient.Subscription().Get(ctx)
			if err != nil {
				return fmt.Errorf("failed to get subscription: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(details)
			}

			fmt.Printf("Plan:   %s\n", details.Plan.Name)
			if details.Subscription != nil {
				fmt.Printf("Status: %s\n", formatStatus(details.Subscription.Status))
				if details.Subscription.EndDate != nil {
					fmt.Printf("Until:  %s\n", details.Subscription.EndDate.Format("2006-01-02"))
				}
			} else {
				fmt.Println("Status: no paid subscription")
			}

			if len(details.Payments) > 0 {
				fmt.Println()
				table := NewTable("PAYMENT", "AMOUNT", "TRANSACTION", "DATE")
				for _, p := range details.Payments {
					table.AddRow(
						p.ID,
						fmt.Sprintf("%.2f %s", p.Amount, p.Currency),
						truncate(p.TransactionID, 24),
						p.PaidAt.Format("2006-01-02"),
					)
				}
				table.Render()
			}
			return nil
		},
	}
}

func newSubscriptionActivateCmd() *cobra.Command {
	var testPayment bool

	cmd := &cobra.Command{
		Use:   "activate <plan>",
		Short: "Activate a plan (free, pro or enterprise)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			planID := args[0]

			if testPayment {
				result, err := apiClient.Subscription().TestPayment(ctx, planID)
				if err != nil {
					return fmt.Errorf("payment failed: %w", err)
				}
				fmt.Printf("Payment %s charged %.2f %s (transaction %s)\n",
					result.Payment.ID, result.Payment.Amount,
					result.Payment.Currency, result.Payment.TransactionID)
				if result.Subscription != nil {
					fmt.Printf("Subscription active on plan %s\n", result.Subscription.Plan)
				}
				return nil
			}

			sub, err := apiClient.Subscription().Activate(ctx, planID)
			if err != nil {
				return fmt.Errorf("activation failed: %w", err)
			}

			fmt.Printf("Subscription active on plan %s", sub.Plan)
			if sub.EndDate != nil {
				fmt.Printf(" until %s", sub.EndDate.Format("2006-01-02"))
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().BoolVar(&testPayment, "test-payment", false, "run the simulated payment flow")

	return cmd
}

func newSubscriptionCancelCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel the current subscription",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				answer := promptInput("Cancel your subscription? [y/N]: ")
				if answer != "y" && answer != "Y" {
					fmt.Println("Aborted")
					return nil
				}
			}

			ctx := context.Background()
			sub, err := apiClient.Subscription().Cancel(ctx)
			if err != nil {
				return fmt.Errorf("cancel failed: %w", err)
			}

			fmt.Printf("Subscription cancelled (%s)\n", sub.Status)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")

	return cmd
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid ID %q", arg)
	}
	return id, nil
}
