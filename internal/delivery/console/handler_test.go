package console

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/shop-catalog/internal/domain/entity"
	"github.com/yourusername/shop-catalog/internal/infrastructure/parser"
	"github.com/yourusername/shop-catalog/internal/infrastructure/storage"
	"github.com/yourusername/shop-catalog/internal/usecase"
)

var testNow = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

type plainMoney struct{}

func (plainMoney) Format(amount float64) string {
	return "$" + strconv.FormatFloat(amount, 'f', 2, 64)
}

type session struct {
	dataFile string
	dir      string
}

func newSession(t *testing.T, data string) *session {
	t.Helper()
	dir := t.TempDir()
	s := &session{dataFile: filepath.Join(dir, "dadosProdutos.csv"), dir: dir}
	if data != "" {
		require.NoError(t, os.WriteFile(s.dataFile, []byte(data), 0o644))
	}
	return s
}

// run loads the catalog, feeds input to the menu and returns the output.
func (s *session) run(t *testing.T, input string) (string, error) {
	t.Helper()
	return runWith(t, s.dataFile, filepath.Join(s.dir, "produtos.xlsx"), input)
}

func runWith(t *testing.T, dataFile, exportFile, input string) (string, error) {
	t.Helper()
	clock := func() time.Time { return testNow }
	repo := storage.NewMemoryProductRepository()
	store := storage.NewTextFileStore(dataFile)
	events := storage.NewMemoryEventRepository()

	products := usecase.NewProductUseCase(repo, store, events, plainMoney{}, clock)
	admin := usecase.NewCatalogAdminUseCase(products, repo, store, parser.NewExcelParser(), events, clock)
	products.Load(context.Background())

	var out bytes.Buffer
	err := NewHandler(strings.NewReader(input), &out, products, admin, exportFile).Run(context.Background())
	return out.String(), err
}

func (s *session) saved(t *testing.T) string {
	t.Helper()
	raw, err := os.ReadFile(s.dataFile)
	require.NoError(t, err)
	return string(raw)
}

func TestHandler_ListThenExit(t *testing.T) {
	s := newSession(t, "2\n1;Soap;100;0.2\n2;Milk;100;0.2;13/03/2026\n")

	out, err := s.run(t, "1\n\n0\n\n")
	require.NoError(t, err)

	assert.Contains(t, out, "AEDII COMÉRCIO DE COISINHAS")
	assert.Contains(t, out, "PRODUTOS CADASTRADOS:")
	assert.Contains(t, out, "01 - NOME: Soap: $120.00\n")
	assert.Contains(t, out, "02 - NOME: Milk: $90.00 | Validade: 13/03/2026\n")
	assert.Contains(t, out, "Digite enter para continuar...")
	assert.Contains(t, out, "Produtos salvos.")
	assert.Equal(t, "2\n1;Soap;100;0.2\n2;Milk;100.00;0.20;13/03/2026\n", s.saved(t))
}

func TestHandler_EndOfInputExitsAndSaves(t *testing.T) {
	s := newSession(t, "")

	out, err := s.run(t, "")
	require.NoError(t, err)
	assert.Contains(t, out, "Produtos salvos.")
	assert.Equal(t, "0\n", s.saved(t))
}

func TestHandler_InvalidOptions(t *testing.T) {
	s := newSession(t, "")

	out, err := s.run(t, "9\n\nabc\n\n\n\n0\n")
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, "Opção inválida."))
}

func TestHandler_Search(t *testing.T) {
	s := newSession(t, "1\n1;Soap;100;0.2\n")

	out, err := s.run(t, "2\n  soap \n\n2\nRice\n\n0\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Produto encontrado:\nNOME: Soap: $120.00\n")
	assert.Contains(t, out, "Produto não encontrado.")
}

func TestHandler_RegisterPerishableWithCommaDecimals(t *testing.T) {
	s := newSession(t, "")

	out, err := s.run(t, "3\n2\nMilk\n4,5\n0,3\n20/03/2026\n\n0\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Produto cadastrado:")
	assert.Equal(t, "1\n2;Milk;4.50;0.30;20/03/2026\n", s.saved(t))
}

func TestHandler_RegisterDefaultMargin(t *testing.T) {
	s := newSession(t, "")

	_, err := s.run(t, "3\n1\nRice\n10\n\n\n0\n")
	require.NoError(t, err)
	assert.Equal(t, "1\n1;Rice;10;0.2\n", s.saved(t))
}

func TestHandler_RegisterRejectsBadInput(t *testing.T) {
	s := newSession(t, "1\n1;Soap;100;0.2\n")

	out, err := s.run(t, "3\n1\nRice\nabc\n\n3\n1\nSOAP\n1\n\n\n3\n5\n\n0\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Valor inválido: preço de custo \"abc\"")
	assert.Contains(t, out, "Não foi possível cadastrar o produto:")
	assert.Contains(t, out, "Valor inválido: tipo \"5\"")
	assert.Equal(t, "1\n1;Soap;100;0.2\n", s.saved(t))
}

func TestHandler_ExportAndImport(t *testing.T) {
	s := newSession(t, "1\n1;Soap;100;0.2\n")
	sheet := filepath.Join(s.dir, "out", "catalogo.xlsx")

	out, err := s.run(t, "4\n"+sheet+"\n\n0\n")
	require.NoError(t, err)
	assert.Contains(t, out, "1 produtos exportados para "+sheet)

	other := newSession(t, "")
	out, err = runWith(t, other.dataFile, sheet, "5\n\n\n5\n\n\n0\n")
	require.NoError(t, err)
	assert.Contains(t, out, "1 produtos importados de "+sheet)
	assert.Contains(t, out, "Já cadastrados (ignorados): Soap")
	assert.Equal(t, "1\n1;Soap;100;0.2\n", other.saved(t))
}

func TestHandler_Info(t *testing.T) {
	s := newSession(t, "2\n1;Soap;100;0.2\n2;Milk;100;0.2;13/03/2026\n")

	out, err := s.run(t, "6\n\n0\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Total de produtos: 2")
	assert.Contains(t, out, "Em promoção (validade próxima): 1")
	assert.Contains(t, out, "ÚLTIMAS OPERAÇÕES:")
	assert.Contains(t, out, "load - 2 products from "+s.dataFile)
}

func TestHandler_SaveFailureIsReturned(t *testing.T) {
	// a directory cannot be read or replaced as a data file
	dir := t.TempDir()

	out, err := runWith(t, dir, filepath.Join(dir, "produtos.xlsx"), "0\n")
	require.Error(t, err)
	assert.Contains(t, out, "Erro ao salvar os produtos")
}

func TestFormatCatalogInfo(t *testing.T) {
	text := formatCatalogInfo(entity.CatalogInfo{
		Total: 4, NonPerishable: 1, Perishable: 3, Discounted: 1, Expired: 1,
		Source: "dadosProdutos.csv", LoadedAt: testNow,
	})

	assert.Equal(t, "Arquivo: dadosProdutos.csv\n"+
		"Carregado em: 10/03/2026 09:00\n"+
		"Total de produtos: 4\n"+
		"  Não perecíveis: 1\n"+
		"  Perecíveis: 3\n"+
		"  Em promoção (validade próxima): 1\n"+
		"  Vencidos: 1\n", text)

	assert.NotContains(t, formatCatalogInfo(entity.CatalogInfo{}), "Carregado em")
}
