package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"inventory-manager/internal/config"
	"inventory-manager/internal/domain"
	"inventory-manager/internal/query"
	"inventory-manager/internal/storage"
	"inventory-manager/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		App: config.AppConfig{Env: "development"},
		Storage: config.StorageConfig{
			DataFile:   filepath.Join(dir, "data", "products.dat"),
			BackupFile: filepath.Join(dir, "data", "products.bak"),
			AutoSave:   true,
		},
	}
}

func run(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCommand(cfg, zap.NewNop())
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, cfg *config.Config, args ...string) string {
	t.Helper()
	out, err := run(t, cfg, args...)
	require.NoError(t, err, out)
	return out
}

func TestCLI_BuildAndPersistTree(t *testing.T) {
	cfg := testConfig(t)

	out := mustRun(t, cfg, "category", "add", "Electronics", "-d", "Devices")
	assert.Contains(t, out, "Category 1 created")
	mustRun(t, cfg, "subgroup", "add", "1", "Laptops")
	out = mustRun(t, cfg, "product", "add", "1", "--name", "ThinkPad X1", "--code", "X1", "--price", "999", "--quantity", "3")
	assert.Contains(t, out, "Product 1 created")

	_, err := os.Stat(cfg.Storage.DataFile)
	require.NoError(t, err)

	out = mustRun(t, cfg, "stats", "--json")
	var stats query.Statistics
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 2997.0, stats.TotalValue)
	assert.Equal(t, 1, stats.TotalProducts)

	out = mustRun(t, cfg, "show")
	assert.Contains(t, out, "ThinkPad X1")
	assert.Contains(t, out, "Laptops")
}

func TestCLI_DuplicateNameFails(t *testing.T) {
	cfg := testConfig(t)
	mustRun(t, cfg, "category", "add", "Electronics")

	_, err := run(t, cfg, "category", "add", "ELECTRONICS")
	assert.Error(t, err)

	out := mustRun(t, cfg, "category", "list", "--json")
	var categories []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &categories))
	assert.Len(t, categories, 1)
}

func TestCLI_NoSaveDiscardsChanges(t *testing.T) {
	cfg := testConfig(t)
	mustRun(t, cfg, "category", "add", "Electronics")

	out := mustRun(t, cfg, "--no-save", "category", "remove", "1")
	assert.Contains(t, out, "Changes not saved")

	out = mustRun(t, cfg, "category", "list")
	assert.Contains(t, out, "Electronics")
}

func TestCLI_UpdateAndSearch(t *testing.T) {
	cfg := testConfig(t)
	mustRun(t, cfg, "category", "add", "Electronics")
	mustRun(t, cfg, "subgroup", "add", "1", "Phones")
	mustRun(t, cfg, "product", "add", "1", "-n", "Pixel 8", "-p", "699", "-q", "10")

	mustRun(t, cfg, "product", "update", "1", "--quantity", "4")
	out := mustRun(t, cfg, "search", "quantity", "0", "5", "--json")
	var result query.SearchResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Products, 1)
	assert.Equal(t, int32(4), result.Products[0].Quantity)

	out = mustRun(t, cfg, "search", "name", "pixel")
	assert.Contains(t, out, "1 product(s) found")

	_, err := run(t, cfg, "search", "price", "10", "1")
	assert.ErrorIs(t, err, query.ErrInvalidRange)

	_, err = run(t, cfg, "product", "update", "1")
	assert.Error(t, err)
}

func TestCLI_RemoveCascadesAcrossRuns(t *testing.T) {
	cfg := testConfig(t)
	mustRun(t, cfg, "category", "add", "Electronics")
	mustRun(t, cfg, "subgroup", "add", "1", "Laptops")
	mustRun(t, cfg, "product", "add", "1", "-n", "X1", "-p", "999", "-q", "3")

	mustRun(t, cfg, "category", "remove", "1")

	_, err := run(t, cfg, "product", "show", "1")
	assert.ErrorIs(t, err, store.ErrProductNotFound)

	// The backup holds the tree as it was before the last save
	_, err = os.Stat(cfg.Storage.BackupFile)
	assert.NoError(t, err)
}

func TestCLI_InvalidID(t *testing.T) {
	cfg := testConfig(t)
	_, err := run(t, cfg, "category", "remove", "abc")
	assert.Error(t, err)
	_, err = run(t, cfg, "category", "remove", "0")
	assert.Error(t, err)
}

func TestCLI_HelpIgnoresUnreadableDataFile(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.Storage.DataFile), 0o755))
	require.NoError(t, os.WriteFile(cfg.Storage.DataFile, []byte("garbage"), 0o644))

	out := mustRun(t, cfg, "help")
	assert.Contains(t, out, "category add")
	mustRun(t, cfg, "completion", "bash")

	_, err := run(t, cfg, "category", "list")
	assert.ErrorIs(t, err, storage.ErrCorrupt)
}

func TestCLI_RejectsInfinitePrice(t *testing.T) {
	cfg := testConfig(t)
	mustRun(t, cfg, "category", "add", "Electronics")
	mustRun(t, cfg, "subgroup", "add", "1", "Laptops")

	_, err := run(t, cfg, "product", "add", "1", "-n", "X1", "-p", "Inf")
	assert.ErrorIs(t, err, domain.ErrNegativePrice)

	mustRun(t, cfg, "product", "add", "1", "-n", "X1", "-p", "999", "-q", "3")
	_, err = run(t, cfg, "product", "update", "1", "-p", "+Inf")
	assert.ErrorIs(t, err, domain.ErrNegativePrice)

	out := mustRun(t, cfg, "stats", "--json")
	var stats query.Statistics
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 2997.0, stats.TotalValue)
}

func TestCLI_ReplaceProduct(t *testing.T) {
	cfg := testConfig(t)
	mustRun(t, cfg, "category", "add", "Electronics")
	mustRun(t, cfg, "subgroup", "add", "1", "Laptops")
	mustRun(t, cfg, "product", "add", "1", "-n", "X1", "-c", "X1", "-d", "old", "-p", "999", "-q", "3")

	out := mustRun(t, cfg, "product", "replace", "1", "-n", "X1 Carbon", "-p", "1200", "-q", "2")
	assert.Contains(t, out, "Product 1 replaced: X1 Carbon")

	out = mustRun(t, cfg, "product", "show", "1", "--json")
	var p domain.Product
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, "X1 Carbon", p.Name)
	assert.Empty(t, p.Code)
	assert.Empty(t, p.Description)
	assert.Equal(t, int32(2), p.Quantity)

	_, err := run(t, cfg, "product", "replace", "7", "-n", "ghost")
	assert.ErrorIs(t, err, store.ErrProductNotFound)
}
