package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/devforge/codelab/pkg/client"
)

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project", "p"},
		Short:   "Manage your projects",
	}

	cmd.AddCommand(newProjectListCmd())
	cmd.AddCommand(newProjectCreateCmd())
	cmd.AddCommand(newProjectGetCmd())
	cmd.AddCommand(newProjectDeleteCmd())
	cmd.AddCommand(newProjectMessagesCmd())

	return cmd
}

func newProjectListCmd() *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			result, err := apiClient.Projects().List(ctx, page, pageSize)
			if err != nil {
				return fmt.Errorf("failed to list projects: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(result)
			}

			table := NewTable("ID", "NAME", "LANGUAGE", "DESCRIPTION", "UPDATED")
			for _, p := range result.Data {
				table.AddRow(
					strconv.FormatInt(p.ID, 10),
					truncate(p.Name, 32),
					p.Language,
					truncate(p.Description, 40),
					p.UpdatedAt.Format("2006-01-02"),
				)
			}
			table.Render()

			if result.TotalPages > 1 {
				fmt.Printf("\nPage %d of %d (%d projects)\n", result.Page, result.TotalPages, result.TotalItems)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "items per page")

	return cmd
}

func newProjectCreateCmd() *cobra.Command {
	var description, language string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := apiClient.Projects().Create(ctx, client.CreateProjectRequest{
				Name:        args[0],
				Description: description,
				Language:    language,
			})
			if err != nil {
				return fmt.Errorf("failed to create project: %w", err)
			}

			fmt.Printf("Created project %d (%s)\n", p.ID, p.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "project description")
	cmd.Flags().StringVar(&language, "language", "", "primary language")

	return cmd
}

func newProjectGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx := context.Background()
			p, err := apiClient.Projects().Get(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get project: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(p)
			}

			fmt.Printf("ID:          %d\n", p.ID)
			fmt.Printf("Name:        %s\n", p.Name)
			if p.Language != "" {
				fmt.Printf("Language:    %s\n", p.Language)
			}
			if p.Description != "" {
				fmt.Printf("Description: %s\n", p.Description)
			}
			fmt.Printf("Created:     %s\n", p.CreatedAt.Format("2006-01-02 15:04"))
			fmt.Printf("Updated:     %s\n", p.UpdatedAt.Format("2006-01-02 15:04"))
			return nil
		},
	}
}

func newProjectDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project and its messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if !yes {
				answer := promptInput(fmt.Sprintf("Delete project %d and its history? [y/N]: ", id))
				if answer != "y" && answer != "Y" {
					fmt.Println("Aborted")
					return nil
				}
			}

			ctx := context.Background()
			if err := apiClient.Projects().Delete(ctx, id); err != nil {
				return fmt.Errorf("failed to delete project: %w", err)
			}

			fmt.Printf("Deleted project %d\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")

	return cmd
}

func newProjectMessagesCmd() *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "messages <project-id>",
		Short: "Show a project's chat history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx := context.Background()
			result, err := apiClient.Messages().ListByProject(ctx, id, page, pageSize)
			if err != nil {
				return fmt.Errorf("failed to list messages: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(result)
			}

			for _, m := range result.Data {
				fmt.Printf("[%s] %s\n%s\n\n", m.CreatedAt.Format("15:04"), m.Role, m.Content)
			}
			if result.TotalPages > 1 {
				fmt.Printf("Page %d of %d (%d messages)\n", result.Page, result.TotalPages, result.TotalItems)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 50, "items per page")

	return cmd
}
