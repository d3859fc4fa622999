package cli

import (
	"fmt"

	"inventory-manager/internal/view"

	"github.com/spf13/cobra"
)

func (a *app) subgroupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subgroup",
		Aliases: []string{"sub"},
		Short:   "Manage subgroups",
	}
	cmd.AddCommand(a.subgroupAdd(), a.subgroupList(), a.subgroupUpdate(), a.subgroupRemove())
	return cmd
}

func (a *app) subgroupAdd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add <category-id> <name>",
		Short: "Create a subgroup inside a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			categoryID, err := parseID("category", args[0])
			if err != nil {
				return err
			}

			sub, err := a.svc.CreateSubgroup(categoryID, args[1], description)
			if err != nil {
				return err
			}
			if ok, err := a.writeJSON(cmd.OutOrStdout(), sub); ok {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Subgroup %d created in category %d: %s\n", sub.ID, categoryID, sub.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "Subgroup description")
	return cmd
}

func (a *app) subgroupList() *cobra.Command {
	return &cobra.Command{
		Use:   "list <category-id>",
		Short: "List the subgroups of a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			categoryID, err := parseID("category", args[0])
			if err != nil {
				return err
			}

			subgroups, err := a.svc.ListSubgroups(categoryID)
			if err != nil {
				return err
			}
			if ok, err := a.writeJSON(cmd.OutOrStdout(), subgroups); ok {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), view.SubgroupTable(subgroups))
			return nil
		},
	}
}

func (a *app) subgroupUpdate() *cobra.Command {
	var name, description string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename or re-describe a subgroup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("subgroup", args[0])
			if err != nil {
				return err
			}

			patch := groupPatch(cmd, name, description)
			if patch.IsEmpty() {
				return fmt.Errorf("nothing to update: pass --name or --description")
			}

			sub, err := a.svc.UpdateSubgroup(id, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Subgroup %d updated: %s\n", sub.ID, sub.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "New name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	return cmd
}

func (a *app) subgroupRemove() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a subgroup with all its products",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("subgroup", args[0])
			if err != nil {
				return err
			}
			if err := a.svc.RemoveSubgroup(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Subgroup %d removed\n", id)
			return nil
		},
	}
}
