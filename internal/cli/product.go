package cli

import (
	"errors"
	"fmt"

	"inventory-manager/internal/domain"
	"inventory-manager/internal/store"
	"inventory-manager/internal/view"

	"github.com/spf13/cobra"
)

func (a *app) productCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "product",
		Aliases: []string{"prod"},
		Short:   "Manage products",
	}
	cmd.AddCommand(a.productAdd(), a.productList(), a.productShow(), a.productUpdate(),
		a.productReplace(), a.productRemove())
	return cmd
}

func (a *app) productAdd() *cobra.Command {
	var in store.ProductInput

	cmd := &cobra.Command{
		Use:   "add <subgroup-id>",
		Short: "Create a product inside a subgroup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subgroupID, err := parseID("subgroup", args[0])
			if err != nil {
				return err
			}

			p, err := a.svc.CreateProduct(subgroupID, in)
			if err != nil {
				return err
			}
			if ok, err := a.writeJSON(cmd.OutOrStdout(), p); ok {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Product %d created in subgroup %d: %s\n", p.ID, subgroupID, p.Name)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&in.Name, "name", "n", "", "Product name (required)")
	flags.StringVarP(&in.Code, "code", "c", "", "Product code")
	flags.StringVarP(&in.Description, "description", "d", "", "Product description")
	flags.Float32VarP(&in.Price, "price", "p", 0, "Unit price")
	flags.Int32VarP(&in.Quantity, "quantity", "q", 0, "Quantity in stock")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (a *app) productList() *cobra.Command {
	var categoryID int32

	cmd := &cobra.Command{
		Use:   "list [subgroup-id]",
		Short: "List the products of a subgroup, or of a category with --category",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				products []*domain.Product
				err      error
			)

			switch {
			case len(args) == 1:
				subgroupID, perr := parseID("subgroup", args[0])
				if perr != nil {
					return perr
				}
				products, err = a.svc.ListProducts(subgroupID)
			case cmd.Flags().Changed("category"):
				products, err = a.svc.ProductsInCategory(categoryID)
			default:
				return errors.New("pass a subgroup id or --category")
			}
			if err != nil {
				return err
			}

			if ok, err := a.writeJSON(cmd.OutOrStdout(), products); ok {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), view.ProductTable(values(products)))
			return nil
		},
	}
	cmd.Flags().Int32Var(&categoryID, "category", 0, "List every product of this category")
	return cmd
}

func (a *app) productShow() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show every field of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("product", args[0])
			if err != nil {
				return err
			}

			p, err := a.svc.GetProduct(id)
			if err != nil {
				return err
			}
			if ok, err := a.writeJSON(cmd.OutOrStdout(), p); ok {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), view.ProductDetail(p))
			return nil
		},
	}
}

func (a *app) productUpdate() *cobra.Command {
	var (
		code, name, description string
		price                   float32
		quantity                int32
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change product fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("product", args[0])
			if err != nil {
				return err
			}

			var patch domain.ProductPatch
			flags := cmd.Flags()
			if flags.Changed("code") {
				patch.Code = &code
			}
			if flags.Changed("name") {
				patch.Name = &name
			}
			if flags.Changed("description") {
				patch.Description = &description
			}
			if flags.Changed("price") {
				patch.Price = &price
			}
			if flags.Changed("quantity") {
				patch.Quantity = &quantity
			}
			if patch.IsEmpty() {
				return errors.New("nothing to update: pass at least one field flag")
			}

			p, err := a.svc.UpdateProduct(id, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Product %d updated: %s\n", p.ID, p.Name)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&code, "code", "c", "", "New code")
	flags.StringVarP(&name, "name", "n", "", "New name")
	flags.StringVarP(&description, "description", "d", "", "New description")
	flags.Float32VarP(&price, "price", "p", 0, "New unit price")
	flags.Int32VarP(&quantity, "quantity", "q", 0, "New quantity")
	return cmd
}

func (a *app) productReplace() *cobra.Command {
	var in store.ProductInput

	cmd := &cobra.Command{
		Use:   "replace <id>",
		Short: "Overwrite every field of a product",
		Long:  "Overwrite every field of a product. Fields without a flag are reset to empty or zero.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("product", args[0])
			if err != nil {
				return err
			}

			p, err := a.svc.ReplaceProduct(id, in)
			if err != nil {
				return err
			}
			if ok, err := a.writeJSON(cmd.OutOrStdout(), p); ok {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Product %d replaced: %s\n", p.ID, p.Name)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&in.Name, "name", "n", "", "Product name (required)")
	flags.StringVarP(&in.Code, "code", "c", "", "Product code")
	flags.StringVarP(&in.Description, "description", "d", "", "Product description")
	flags.Float32VarP(&in.Price, "price", "p", 0, "Unit price")
	flags.Int32VarP(&in.Quantity, "quantity", "q", 0, "Quantity in stock")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (a *app) productRemove() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("product", args[0])
			if err != nil {
				return err
			}
			if err := a.svc.RemoveProduct(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Product %d removed\n", id)
			return nil
		},
	}
}

func values(products []*domain.Product) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		out = append(out, *p)
	}
	return out
}
