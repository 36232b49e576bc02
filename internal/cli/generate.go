package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devforge/codelab/pkg/client"
)

func newGenerateCmd() *cobra.Command {
	var language string
	var projectID int64

	cmd := &cobra.Command{
		Use:   "generate <prompt...>",
		Short: "Generate code with AI",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := strings.Join(args, " ")

			ctx := context.Background()
			content, err := apiClient.AI().Generate(ctx, client.GenerateRequest{
				Prompt:    prompt,
				Language:  language,
				ProjectID: projectID,
			})
			if err != nil {
				if apiErr, ok := err.(*client.APIError); ok {
					if apiErr.RequiresUpgrade() {
						return fmt.Errorf("monthly request limit reached. Upgrade your plan with 'codelab subscription activate pro'")
					}
					if apiErr.RequiresSubscription() {
						return fmt.Errorf("subscription expired. Renew with 'codelab subscription activate'")
					}
				}
				return fmt.Errorf("generation failed: %w", err)
			}

			fmt.Println(content)
			return nil
		},
	}

	cmd.Flags().StringVar(&language, "language", "", "target language")
	cmd.Flags().Int64Var(&projectID, "project", 0, "record the exchange in this project's history")

	return cmd
}
