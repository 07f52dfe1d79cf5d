package parser

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/yourusername/shop-catalog/internal/core/errx"
	"github.com/yourusername/shop-catalog/internal/domain/entity"
)

func newTestParser() *excelParser {
	return &excelParser{}
}

func TestExcelParser_ExportThenParse(t *testing.T) {
	rice, err := entity.NewNonPerishable("Rice", 10.5, 0.2)
	require.NoError(t, err)
	milk, err := entity.NewPerishable("Milk", 4.5, 0.3, testNow.AddDate(0, 0, 3), testNow)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", "produtos.xlsx")
	codec := NewExcelParser()
	require.NoError(t, codec.ExportProducts(context.Background(), path, []entity.Product{rice, milk}, testNow))

	products, rowErrs, err := codec.ParseProducts(context.Background(), path, testNow)
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, products, 2)
	assertSameProduct(t, rice, products[0])
	assertSameProduct(t, milk, products[1])
}

func TestExcelParser_ExportMarksExpiredProducts(t *testing.T) {
	milk, err := entity.NewPerishable("Milk", 4.5, 0.3, testNow.AddDate(0, 0, 3), testNow)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "produtos.xlsx")
	later := testNow.AddDate(0, 0, 5)
	require.NoError(t, NewExcelParser().ExportProducts(context.Background(), path, []entity.Product{milk}, later))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(ExportSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Tipo", header)

	sale, err := f.GetCellValue(ExportSheet, "F2")
	require.NoError(t, err)
	assert.Equal(t, ExpiredLabel, sale)

	expiry, err := f.GetCellValue(ExportSheet, "E2")
	require.NoError(t, err)
	assert.Equal(t, "13/03/2026", expiry)
}

func TestExcelParser_ParseRowsWithHeaderKeywords(t *testing.T) {
	rows := [][]string{
		{"Nome do produto", "Preço", "Margem", "Vencimento"},
		{"Arroz", "R$ 10,50", "0,20", ""},
		{"Iogurte", "3,20", "", "20/03/2026"},
		{"", "", "", ""},
		{"Pão", "0", "0,1", ""},
		{"Arroz\nbranco", "5", "", ""},
	}

	products, rowErrs, err := newTestParser().parseRows(rows, testNow)
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "Arroz", products[0].Description())
	assert.Equal(t, entity.NonPerishable, products[0].Kind())
	assert.Equal(t, 10.5, products[0].CostPrice())

	assert.Equal(t, "Iogurte", products[1].Description())
	assert.Equal(t, entity.Perishable, products[1].Kind())
	assert.Equal(t, entity.DefaultProfitMargin, products[1].ProfitMargin())

	require.Len(t, rowErrs, 2)
	assert.Equal(t, 5, rowErrs[0].Row)
	assert.True(t, errx.Is(rowErrs[0].Err, errx.InvalidArgument))
	assert.Equal(t, 6, rowErrs[1].Row)
	assert.Contains(t, rowErrs[1].Error(), "line breaks")
}

func TestExcelParser_ParseRowsWithoutHeader(t *testing.T) {
	rows := [][]string{
		{"1", "Feijão", "8", "0.25"},
		{"2", "Leite", "4.5", "0.3", "2026-03-20"},
		{"7", "Estranho", "1", "1"},
	}

	products, rowErrs, err := newTestParser().parseRows(rows, testNow)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Feijão", products[0].Description())
	exp, ok := products[1].ExpiresOn()
	require.True(t, ok)
	assert.Equal(t, "20/03/2026", exp.Format(entity.DateLayout))

	require.Len(t, rowErrs, 1)
	assert.Equal(t, 3, rowErrs[0].Row)
	assert.Contains(t, rowErrs[0].Error(), "row 3")
}

func TestExcelParser_ParseRowsNeedsDescriptionAndCost(t *testing.T) {
	_, _, err := newTestParser().parseRows([][]string{{"Tipo", "Validade"}, {"1", ""}}, testNow)
	require.Error(t, err)
	assert.True(t, errx.Is(err, errx.FormatError))

	_, _, err = newTestParser().parseRows(nil, testNow)
	assert.True(t, errx.Is(err, errx.FormatError))
}

func TestExcelParser_MissingFile(t *testing.T) {
	_, _, err := NewExcelParser().ParseProducts(context.Background(), filepath.Join(t.TempDir(), "nope.xlsx"), testNow)
	require.Error(t, err)
	assert.True(t, errx.Is(err, errx.IOFailure))
}

func TestParseKind(t *testing.T) {
	cases := []struct {
		raw, expiry string
		want        entity.Kind
	}{
		{"1", "", entity.NonPerishable},
		{"2", "", entity.Perishable},
		{"Não perecível", "", entity.NonPerishable},
		{"Perecível", "", entity.Perishable},
		{"non-perishable", "", entity.NonPerishable},
		{"", "20/03/2026", entity.Perishable},
		{"", "", entity.NonPerishable},
	}
	for _, tc := range cases {
		got, err := parseKind(tc.raw, tc.expiry)
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}

	_, err := parseKind("3", "")
	assert.Error(t, err)
}
