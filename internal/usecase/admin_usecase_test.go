package usecase

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/yourusername/shop-catalog/internal/domain/entity"
	"github.com/yourusername/shop-catalog/internal/infrastructure/parser"
	"github.com/yourusername/shop-catalog/internal/infrastructure/storage"
)

func newAdmin(env *testEnv) CatalogAdminUseCase {
	return NewCatalogAdminUseCase(
		env.products,
		env.repo,
		storage.NewTextFileStore(env.path),
		parser.NewExcelParser(),
		env.events,
		env.clock.Now,
	)
}

func writeSheet(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellName, &row))
	}
	path := filepath.Join(t.TempDir(), "import.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestCatalogAdmin_ImportSkipsDuplicates(t *testing.T) {
	env := newTestEnv(t, content("1\n1;Soap;100;0.2\n"))
	ctx := context.Background()
	env.products.Load(ctx)
	admin := newAdmin(env)

	path := writeSheet(t, [][]any{
		{"Tipo", "Descrição", "Preço de custo", "Margem de lucro", "Validade"},
		{"1", "SOAP", "5", "0.1", ""},
		{"1", "Rice", "10,5", "", ""},
		{"2", "Milk", "4.5", "0.3", "20/03/2026"},
		{"1", "rice", "11", "", ""},
		{"1", "Xy", "11", "", ""},
	})

	result, err := admin.ImportSpreadsheet(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, []string{"SOAP", "rice"}, result.Skipped)
	require.Len(t, result.RowErrors, 1)
	assert.Equal(t, 6, result.RowErrors[0].Row)

	all, err := env.products.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Soap", all[0].Description())
	assert.Equal(t, "Rice", all[1].Description())
	assert.Equal(t, "Milk", all[2].Description())

	events, err := admin.History(ctx, 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, entity.ActionImport, events[0].Action)
}

func TestCatalogAdmin_ImportMissingFile(t *testing.T) {
	env := newTestEnv(t, nil)
	_, err := newAdmin(env).ImportSpreadsheet(context.Background(), filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
}

func TestCatalogAdmin_ExportThenImportIntoEmptyCatalog(t *testing.T) {
	env := newTestEnv(t, content("2\n1;Soap;100;0.2\n2;Milk;100;0.2;13/03/2026\n"))
	ctx := context.Background()
	env.products.Load(ctx)

	path := filepath.Join(t.TempDir(), "produtos.xlsx")
	n, err := newAdmin(env).ExportSpreadsheet(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	other := newTestEnv(t, nil)
	other.products.Load(ctx)
	result, err := newAdmin(other).ImportSpreadsheet(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Empty(t, result.RowErrors)
}

func TestCatalogAdmin_GetCatalogInfo(t *testing.T) {
	env := newTestEnv(t, content("4\n1;Soap;100;0.2\n2;Milk;100;0.2;13/03/2026\n2;Cheese;50;0.2;30/03/2026\n2;Bread;5;0.2;11/03/2026\n"))
	ctx := context.Background()
	env.products.Load(ctx)
	admin := newAdmin(env)

	env.clock.now = testNow.AddDate(0, 0, 1)
	info, err := admin.GetCatalogInfo(ctx)
	require.NoError(t, err)

	assert.Equal(t, 4, info.Total)
	assert.Equal(t, 1, info.NonPerishable)
	assert.Equal(t, 3, info.Perishable)
	assert.Equal(t, 1, info.Discounted)
	assert.Equal(t, 1, info.Expired)
	assert.Equal(t, env.path, info.Source)
	assert.Equal(t, testNow, info.LoadedAt)
}

func TestCatalogAdmin_History(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.products.Load(ctx)
	_, err := env.products.Register(ctx, RegisterInput{Kind: entity.NonPerishable, Description: "Rice", CostPrice: 1})
	require.NoError(t, err)
	require.NoError(t, env.products.Save(ctx))

	events, err := newAdmin(env).History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, entity.ActionSave, events[0].Action)
	assert.Equal(t, entity.ActionRegister, events[1].Action)
	assert.Equal(t, entity.ActionLoad, events[2].Action)
}

func TestCatalogAdmin_HistoryWithoutJournal(t *testing.T) {
	env := newTestEnv(t, nil)
	admin := NewCatalogAdminUseCase(env.products, env.repo, storage.NewTextFileStore(env.path), parser.NewExcelParser(), nil, nil)

	events, err := admin.History(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, events)
}
