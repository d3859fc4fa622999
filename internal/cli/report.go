package cli

import (
	"fmt"
	"strconv"

	"inventory-manager/internal/query"
	"inventory-manager/internal/view"

	"github.com/spf13/cobra"
)

func (a *app) searchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search products",
	}
	cmd.AddCommand(a.searchName(), a.searchPrice(), a.searchQuantity())
	return cmd
}

func (a *app) searchName() *cobra.Command {
	var categoryID int32

	cmd := &cobra.Command{
		Use:   "name [text]",
		Short: "Products whose name contains text, ignoring case",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			if len(args) == 1 {
				text = args[0]
			}

			if cmd.Flags().Changed("category") {
				result, err := a.svc.SearchInCategory(categoryID, text)
				if err != nil {
					return err
				}
				return a.printResult(cmd, result)
			}
			return a.printResult(cmd, a.svc.SearchByName(text))
		},
	}
	cmd.Flags().Int32Var(&categoryID, "category", 0, "Search only this category")
	return cmd
}

func (a *app) searchPrice() *cobra.Command {
	return &cobra.Command{
		Use:   "price <min> <max>",
		Short: "Products priced within [min, max]",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			low, err := strconv.ParseFloat(args[0], 32)
			if err != nil {
				return fmt.Errorf("invalid minimum price %q", args[0])
			}
			high, err := strconv.ParseFloat(args[1], 32)
			if err != nil {
				return fmt.Errorf("invalid maximum price %q", args[1])
			}

			result, err := a.svc.SearchByPriceRange(float32(low), float32(high))
			if err != nil {
				return err
			}
			return a.printResult(cmd, result)
		},
	}
}

func (a *app) searchQuantity() *cobra.Command {
	return &cobra.Command{
		Use:   "quantity <min> <max>",
		Short: "Products whose quantity is within [min, max]",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			low, err := strconv.ParseInt(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid minimum quantity %q", args[0])
			}
			high, err := strconv.ParseInt(args[1], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid maximum quantity %q", args[1])
			}

			result, err := a.svc.SearchByQuantityRange(int32(low), int32(high))
			if err != nil {
				return err
			}
			return a.printResult(cmd, result)
		},
	}
}

func (a *app) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Totals across the whole inventory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats := a.svc.Statistics()
			if ok, err := a.writeJSON(cmd.OutOrStdout(), stats); ok {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), view.Statistics(stats, a.svc.LastSaved(), a.svc.HasUnsavedChanges()))
			return nil
		},
	}
}

func (a *app) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "The whole tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			categories := a.svc.ListCategories()
			if ok, err := a.writeJSON(cmd.OutOrStdout(), categories); ok {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), view.All(categories))
			return nil
		},
	}
}

func (a *app) printResult(cmd *cobra.Command, result query.SearchResult) error {
	if ok, err := a.writeJSON(cmd.OutOrStdout(), result); ok {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d product(s) found\n", result.Count())
	fmt.Fprint(cmd.OutOrStdout(), view.ProductTable(result.Products))
	return nil
}
