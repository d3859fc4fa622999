package cli

import (
	"fmt"

	"inventory-manager/internal/domain"
	"inventory-manager/internal/view"

	"github.com/spf13/cobra"
)

func (a *app) categoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"cat"},
		Short:   "Manage categories",
	}
	cmd.AddCommand(a.categoryAdd(), a.categoryList(), a.categoryUpdate(), a.categoryRemove())
	return cmd
}

func (a *app) categoryAdd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.svc.CreateCategory(args[0], description)
			if err != nil {
				return err
			}
			if ok, err := a.writeJSON(cmd.OutOrStdout(), c); ok {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Category %d created: %s\n", c.ID, c.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "Category description")
	return cmd
}

func (a *app) categoryList() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			categories := a.svc.ListCategories()
			if ok, err := a.writeJSON(cmd.OutOrStdout(), categories); ok {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), view.CategoryTable(categories))
			return nil
		},
	}
}

func (a *app) categoryUpdate() *cobra.Command {
	var name, description string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename or re-describe a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("category", args[0])
			if err != nil {
				return err
			}

			patch := groupPatch(cmd, name, description)
			if patch.IsEmpty() {
				return fmt.Errorf("nothing to update: pass --name or --description")
			}

			c, err := a.svc.UpdateCategory(id, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Category %d updated: %s\n", c.ID, c.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "New name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	return cmd
}

func (a *app) categoryRemove() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a category with all its subgroups and products",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("category", args[0])
			if err != nil {
				return err
			}
			if err := a.svc.RemoveCategory(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Category %d removed\n", id)
			return nil
		},
	}
}

// groupPatch sets only the fields whose flags were given, so an explicit
// empty description clears it.
func groupPatch(cmd *cobra.Command, name, description string) domain.GroupPatch {
	var patch domain.GroupPatch
	if cmd.Flags().Changed("name") {
		patch.Name = &name
	}
	if cmd.Flags().Changed("description") {
		patch.Description = &description
	}
	return patch
}
