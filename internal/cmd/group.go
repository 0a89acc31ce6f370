package cmd

import (
	"fmt"

	"yatube/internal/service"

	"github.com/spf13/cobra"
)

var (
	groupTitle       string
	groupSlug        string
	groupDescription string
)

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Manage post groups",
}

var groupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a group",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		g, err := service.NewGroupService(a.db).Create(cmd.Context(), groupTitle, groupSlug, groupDescription)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created group %q (/group/%s/)\n", g.Title, g.Slug)
		return nil
	},
}

var groupDeleteCmd = &cobra.Command{
	Use:   "delete <slug>",
	Short: "Delete a group; its posts are kept without a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := service.NewGroupService(a.db).Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted group %s\n", args[0])
		return nil
	},
}

var groupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List groups",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		groups, err := service.NewGroupService(a.db).List(cmd.Context())
		if err != nil {
			return err
		}
		for _, g := range groups {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", g.Slug, g)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(groupCmd)
	groupCmd.AddCommand(groupCreateCmd, groupDeleteCmd, groupListCmd)

	groupCreateCmd.Flags().StringVar(&groupTitle, "title", "", "Group title (required)")
	groupCreateCmd.Flags().StringVar(&groupSlug, "slug", "", "URL slug (required)")
	groupCreateCmd.Flags().StringVar(&groupDescription, "description", "", "Group description")
	_ = groupCreateCmd.MarkFlagRequired("title")
	_ = groupCreateCmd.MarkFlagRequired("slug")
}
