// Package cli wires the inventory service to cobra commands. Every
// invocation opens the data file, runs one operation and saves the file
// again when the operation changed something.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"inventory-manager/internal/config"
	"inventory-manager/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type app struct {
	cfg    *config.Config
	logger *zap.Logger
	svc    service.InventoryService

	dataFile   string
	backupFile string
	noSave     bool
	jsonOutput bool
}

// NewRootCommand builds the inventory command tree.
func NewRootCommand(cfg *config.Config, logger *zap.Logger) *cobra.Command {
	a := &app{cfg: cfg, logger: logger}

	root := &cobra.Command{
		Use:   "inventory",
		Short: "Hierarchical product inventory",
		Long: `
Inventory keeps products in a three-level tree: categories hold subgroups,
subgroups hold products. The tree lives in a single binary data file that is
loaded at the start of every command and saved again when it changed.

CATEGORIES:
  category add       Create a category
  category list      List all categories
  category update    Rename or re-describe a category
  category remove    Delete a category with all its subgroups and products

SUBGROUPS:
  subgroup add       Create a subgroup inside a category
  subgroup list      List the subgroups of a category
  subgroup update    Rename or re-describe a subgroup
  subgroup remove    Delete a subgroup with all its products

PRODUCTS:
  product add        Create a product inside a subgroup
  product list       List the products of a subgroup or category
  product show       Show every field of a product
  product update     Change product fields
  product replace    Overwrite every field of a product
  product remove     Delete a product

REPORTS:
  search name        Case-insensitive name search
  search price       Products within a price range
  search quantity    Products within a quantity range
  stats              Totals across the whole inventory
  show               The whole tree

EXAMPLES:
  inventory category add Electronics --description "Devices"
  inventory subgroup add 1 Laptops
  inventory product add 1 --name "ThinkPad X1" --code X1 --price 999 --quantity 3
  inventory search price 100 1000
  inventory stats --json
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !needsStore(cmd) {
				return nil
			}
			return a.open()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.finish(cmd.OutOrStdout())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.dataFile, "data", cfg.Storage.DataFile, "Path of the data file")
	flags.StringVar(&a.backupFile, "backup", cfg.Storage.BackupFile, "Path of the backup file, empty to skip the backup")
	flags.BoolVar(&a.noSave, "no-save", !cfg.Storage.AutoSave, "Do not write changes back to the data file")
	flags.BoolVarP(&a.jsonOutput, "json", "j", false, "Output as JSON")

	root.AddCommand(
		a.categoryCommand(),
		a.subgroupCommand(),
		a.productCommand(),
		a.searchCommand(),
		a.statsCommand(),
		a.showCommand(),
	)
	return root
}

// Execute runs the command tree with the process arguments. Cancelling ctx
// is visible to commands through cmd.Context().
func Execute(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	return NewRootCommand(cfg, logger).ExecuteContext(ctx)
}

func (a *app) open() error {
	a.svc = service.NewInventoryService(a.dataFile, a.backupFile, a.logger)
	if err := a.svc.Open(); err != nil {
		return fmt.Errorf("open inventory: %w", err)
	}
	return nil
}

func (a *app) finish(out io.Writer) error {
	if a.svc == nil {
		return nil
	}
	defer a.svc.Close()

	if a.noSave {
		if a.svc.HasUnsavedChanges() {
			fmt.Fprintln(out, "Changes not saved (--no-save).")
		}
		return nil
	}

	if _, err := a.svc.SaveIfModified(); err != nil {
		return fmt.Errorf("save inventory: %w", err)
	}
	return nil
}

// needsStore reports whether cmd reads or writes the inventory. Help and
// shell completion must work even when the data file cannot be loaded.
func needsStore(cmd *cobra.Command) bool {
	if cmd == cmd.Root() {
		return false
	}
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

// writeJSON prints v as indented JSON when --json is set and reports
// whether it did.
func (a *app) writeJSON(out io.Writer, v interface{}) (bool, error) {
	if !a.jsonOutput {
		return false, nil
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return true, enc.Encode(v)
}

func parseID(what, s string) (int32, error) {
	id, err := strconv.ParseInt(s, 10, 32)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, s)
	}
	return int32(id), nil
}
