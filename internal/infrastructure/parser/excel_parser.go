package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"github.com/yourusername/shop-catalog/internal/core/errx"
	"github.com/yourusername/shop-catalog/internal/domain/entity"
	"github.com/yourusername/shop-catalog/internal/domain/repository"
	logx "github.com/yourusername/shop-catalog/pkg/logger"
)

// ExportSheet is the sheet written by ExportProducts.
const ExportSheet = "Produtos"

// ExpiredLabel replaces the sale value of expired products in exports.
const ExpiredLabel = "VENCIDO"

var exportHeader = []any{"Tipo", "Descrição", "Preço de custo", "Margem de lucro", "Validade", "Valor de venda"}

// Date layouts accepted in spreadsheet cells, besides entity.DateLayout.
var cellDateLayouts = []string{entity.DateLayout, "2006-01-02", "01-02-06", "2/1/2006"}

type excelParser struct{}

// NewExcelParser spreadsheet import/export of the catalog
func NewExcelParser() repository.SpreadsheetCodec {
	return &excelParser{}
}

// ParseProducts reads products from the first sheet of an .xlsx file
func (e *excelParser) ParseProducts(ctx context.Context, filePath string, now time.Time) ([]entity.Product, []repository.RowError, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, nil, errx.Wrap(err, errx.IOFailure, "open spreadsheet")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, errx.New(errx.FormatError, "spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, errx.Wrap(err, errx.FormatError, "read spreadsheet rows")
	}

	return e.parseRows(rows, now)
}

func (e *excelParser) parseRows(rows [][]string, now time.Time) ([]entity.Product, []repository.RowError, error) {
	if len(rows) == 0 {
		return nil, nil, errx.New(errx.FormatError, "spreadsheet is empty")
	}

	// A numeric first cell means the sheet starts with data, in export column order.
	startRow := 1
	var columnMap map[string]int
	if len(rows[0]) > 0 && isInteger(rows[0][0]) {
		startRow = 0
		columnMap = map[string]int{"type": 0, "description": 1, "cost": 2, "margin": 3, "expiry": 4}
		logx.Debug().Msg("spreadsheet has no header, using export column order")
	} else {
		columnMap = e.mapColumns(rows[0])
	}

	descCol, hasDesc := columnMap["description"]
	costCol, hasCost := columnMap["cost"]
	if !hasDesc || !hasCost {
		return nil, nil, errx.New(errx.FormatError, "spreadsheet needs description and cost columns")
	}

	var products []entity.Product
	var rowErrs []repository.RowError

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		expiry := cell(row, columnMap, "expiry")
		kind, err := parseKind(cell(row, columnMap, "type"), expiry)
		if err != nil {
			rowErrs = append(rowErrs, repository.RowError{Row: i + 1, Err: err})
			continue
		}

		margin := cleanPrice(cell(row, columnMap, "margin"))
		if margin == "" {
			margin = strconv.FormatFloat(entity.DefaultProfitMargin, 'f', -1, 64)
		}

		description := cellAt(row, descCol)
		if strings.ContainsAny(description, "\r\n") {
			rowErrs = append(rowErrs, repository.RowError{Row: i + 1,
				Err: errx.New(errx.InvalidArgument, "description must not contain line breaks")})
			continue
		}

		fields := []string{
			strconv.Itoa(int(kind)),
			description,
			cleanPrice(cellAt(row, costCol)),
			margin,
		}
		if kind == entity.Perishable {
			fields = append(fields, normalizeDate(expiry))
		}

		product, err := ParseRecord(strings.Join(fields, fieldSeparator), now)
		if err != nil {
			rowErrs = append(rowErrs, repository.RowError{Row: i + 1, Err: err})
			continue
		}
		products = append(products, product)
	}

	logx.Info().Int("products", len(products)).Int("rejected", len(rowErrs)).Msg("spreadsheet parsed")
	return products, rowErrs, nil
}

// mapColumns header keywords to column indexes
func (e *excelParser) mapColumns(header []string) map[string]int {
	columnMap := make(map[string]int)

	for i, col := range header {
		colName := strings.ToLower(strings.TrimSpace(col))

		var key string
		switch {
		case contains(colName, "venda", "sale"):
			continue
		case contains(colName, "tipo", "type", "kind"):
			key = "type"
		case contains(colName, "validade", "vencimento", "expir"):
			key = "expiry"
		case contains(colName, "margem", "margin", "lucro"):
			key = "margin"
		case contains(colName, "custo", "cost", "preço", "preco", "price"):
			key = "cost"
		case contains(colName, "descri", "nome", "name", "produto", "product"):
			key = "description"
		default:
			continue
		}
		if _, taken := columnMap[key]; !taken {
			columnMap[key] = i
		}
	}

	logx.Debug().Interface("columns", columnMap).Msg("spreadsheet header mapped")
	return columnMap
}

// ExportProducts writes the catalog to an .xlsx file, one row per product
func (e *excelParser) ExportProducts(ctx context.Context, filePath string, products []entity.Product, now time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ExportSheet); err != nil {
		return errx.Wrap(err, errx.IOFailure, "prepare spreadsheet")
	}
	if err := f.SetSheetRow(ExportSheet, "A1", &exportHeader); err != nil {
		return errx.Wrap(err, errx.IOFailure, "write spreadsheet header")
	}
	_ = f.SetColWidth(ExportSheet, "B", "B", 32)

	for i, p := range products {
		var expiry string
		if date, ok := p.ExpiresOn(); ok {
			expiry = date.Format(entity.DateLayout)
		}

		var sale any
		if v, err := p.SaleValue(now); err != nil {
			sale = ExpiredLabel
		} else {
			sale = decimal.NewFromFloat(v).Round(2).InexactFloat64()
		}

		row := []any{int(p.Kind()), p.Description(), p.CostPrice(), p.ProfitMargin(), expiry, sale}
		cellName, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errx.Wrap(err, errx.IOFailure, "address spreadsheet row")
		}
		if err := f.SetSheetRow(ExportSheet, cellName, &row); err != nil {
			return errx.Wrap(err, errx.IOFailure, fmt.Sprintf("write spreadsheet row %d", i+2))
		}
	}

	if dir := filepath.Dir(filePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errx.Wrap(err, errx.IOFailure, "create export directory")
		}
	}
	if err := f.SaveAs(filePath); err != nil {
		return errx.Wrap(err, errx.IOFailure, "save spreadsheet")
	}
	return nil
}

func parseKind(raw, expiry string) (entity.Kind, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case v == "":
		if strings.TrimSpace(expiry) != "" {
			return entity.Perishable, nil
		}
		return entity.NonPerishable, nil
	case v == "1", contains(v, "não", "nao", "non"):
		return entity.NonPerishable, nil
	case v == "2", contains(v, "perec", "perish"):
		return entity.Perishable, nil
	default:
		return 0, errx.Newf(errx.InvalidArgument, "unknown product type %q", raw)
	}
}

func normalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range cellDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(entity.DateLayout)
		}
	}
	return raw
}

// cleanPrice strips currency symbols and blanks, keeping separators
func cleanPrice(s string) string {
	s = strings.TrimSpace(s)
	for _, r := range []string{"R$", "$", "€", " ", "\u00a0"} {
		s = strings.ReplaceAll(s, r, "")
	}
	return s
}

func cell(row []string, columnMap map[string]int, key string) string {
	idx, ok := columnMap[key]
	if !ok {
		return ""
	}
	return cellAt(row, idx)
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isInteger(s string) bool {
	_, err := strconv.Atoi(strings.TrimSpace(s))
	return err == nil
}

// isEmptyRow reports whether every cell is blank
func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// contains reports whether str has any of the keywords
func contains(str string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(str, keyword) {
			return true
		}
	}
	return false
}
