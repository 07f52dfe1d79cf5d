package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/yourusername/shop-catalog/internal/domain/entity"
	"github.com/yourusername/shop-catalog/internal/domain/repository"
	"github.com/yourusername/shop-catalog/internal/usecase"
	logx "github.com/yourusername/shop-catalog/pkg/logger"
)

const (
	optionExit = iota
	optionList
	optionSearch
	optionRegister
	optionExport
	optionImport
	optionInfo
)

const historyLines = 10

// Handler interactive menu over a line oriented reader and a writer
type Handler struct {
	in  *bufio.Scanner
	out io.Writer

	productUseCase usecase.ProductUseCase
	adminUseCase   usecase.CatalogAdminUseCase
	exportPath     string
}

// NewHandler console driver; exportPath is the default spreadsheet file
func NewHandler(
	in io.Reader,
	out io.Writer,
	productUseCase usecase.ProductUseCase,
	adminUseCase usecase.CatalogAdminUseCase,
	exportPath string,
) *Handler {
	return &Handler{
		in:             bufio.NewScanner(in),
		out:            out,
		productUseCase: productUseCase,
		adminUseCase:   adminUseCase,
		exportPath:     exportPath,
	}
}

// Run shows the menu until the user exits or input ends, then saves the catalog.
// The save error, if any, is returned.
func (h *Handler) Run(ctx context.Context) error {
	for {
		option, ok := h.menu()
		if !ok {
			option = optionExit
		}

		switch option {
		case optionExit:
		case optionList:
			h.handleList(ctx)
		case optionSearch:
			h.handleSearch(ctx)
		case optionRegister:
			h.handleRegister(ctx)
		case optionExport:
			h.handleExport(ctx)
		case optionImport:
			h.handleImport(ctx)
		case optionInfo:
			h.handleInfo(ctx)
		default:
			h.println("Opção inválida.")
		}

		h.pause()
		if option == optionExit {
			break
		}
	}

	if err := h.productUseCase.Save(ctx); err != nil {
		h.printf("Erro ao salvar os produtos: %v\n", err)
		return err
	}
	h.println("Produtos salvos.")
	return nil
}

func (h *Handler) header() {
	h.println("AEDII COMÉRCIO DE COISINHAS")
	h.println("===========================")
}

// menu returns the chosen option, -1 for unreadable input and false at end of input
func (h *Handler) menu() (int, bool) {
	h.header()
	h.println("1 - Listar todos os produtos")
	h.println("2 - Procurar e listar um produto")
	h.println("3 - Cadastrar novo produto")
	h.println("4 - Exportar produtos para planilha")
	h.println("5 - Importar produtos de planilha")
	h.println("6 - Informações e histórico do catálogo")
	h.println("0 - Sair")
	h.print("Digite sua opção: ")

	line, ok := h.readLine()
	if !ok {
		return optionExit, false
	}
	option, err := parseInt(line)
	if err != nil {
		return -1, true
	}
	return option, true
}

func (h *Handler) pause() {
	h.println("Digite enter para continuar...")
	h.readLine()
}

func (h *Handler) handleList(ctx context.Context) {
	h.header()
	h.println("\nPRODUTOS CADASTRADOS:")

	lines, err := h.productUseCase.DisplayLines(ctx)
	if err != nil {
		logx.Error().Err(err).Msg("failed to list products")
		h.printf("Erro ao listar produtos: %v\n", err)
		return
	}
	if len(lines) == 0 {
		h.println("Nenhum produto cadastrado.")
		return
	}
	for _, line := range lines {
		h.println(line)
	}
}

func (h *Handler) handleSearch(ctx context.Context) {
	h.print("Digite a descrição do produto a ser localizado: ")
	description, ok := h.readLine()
	if !ok {
		return
	}

	product, err := h.productUseCase.Search(ctx, description)
	if errors.Is(err, repository.ErrProductNotFound) {
		h.println("Produto não encontrado.")
		return
	}
	if err != nil {
		h.printf("Erro ao procurar produto: %v\n", err)
		return
	}

	h.println("Produto encontrado:")
	h.println(h.productUseCase.ProductLine(product))
}

func (h *Handler) handleRegister(ctx context.Context) {
	input, err := h.readRegisterInput()
	if errors.Is(err, errInputEnded) {
		return
	}
	if err != nil {
		h.printf("Valor inválido: %v\n", err)
		return
	}

	product, err := h.productUseCase.Register(ctx, input)
	if err != nil {
		h.printf("Não foi possível cadastrar o produto: %v\n", err)
		return
	}
	h.println("Produto cadastrado:")
	h.println(h.productUseCase.ProductLine(product))
}

var errInputEnded = errors.New("input ended")

func (h *Handler) readRegisterInput() (usecase.RegisterInput, error) {
	var input usecase.RegisterInput

	kind, err := h.ask("Tipo do produto (1 - Não perecível, 2 - Perecível): ")
	if err != nil {
		return input, err
	}
	tag, err := parseInt(kind)
	if err != nil {
		return input, fmt.Errorf("tipo %q", kind)
	}
	input.Kind = entity.Kind(tag)
	if input.Kind != entity.NonPerishable && input.Kind != entity.Perishable {
		return input, fmt.Errorf("tipo %q", kind)
	}

	if input.Description, err = h.ask("Descrição: "); err != nil {
		return input, err
	}

	cost, err := h.ask("Preço de custo: ")
	if err != nil {
		return input, err
	}
	if input.CostPrice, err = parseDecimal(cost); err != nil {
		return input, fmt.Errorf("preço de custo %q", cost)
	}

	margin, err := h.ask(fmt.Sprintf("Margem de lucro (enter para %s): ", cast.ToString(entity.DefaultProfitMargin)))
	if err != nil {
		return input, err
	}
	if margin != "" {
		v, err := parseDecimal(margin)
		if err != nil {
			return input, fmt.Errorf("margem de lucro %q", margin)
		}
		input.ProfitMargin = &v
	}

	if input.Kind == entity.Perishable {
		date, err := h.ask("Data de validade (dd/mm/aaaa): ")
		if err != nil {
			return input, err
		}
		if input.ExpiresOn, err = time.Parse(entity.DateLayout, date); err != nil {
			return input, fmt.Errorf("data de validade %q", date)
		}
	}

	return input, nil
}

func (h *Handler) handleExport(ctx context.Context) {
	path, err := h.ask(fmt.Sprintf("Arquivo da planilha (enter para %s): ", h.exportPath))
	if err != nil {
		return
	}
	if path == "" {
		path = h.exportPath
	}

	n, err := h.adminUseCase.ExportSpreadsheet(ctx, path)
	if err != nil {
		h.printf("Erro ao exportar planilha: %v\n", err)
		return
	}
	h.printf("%d produtos exportados para %s\n", n, path)
}

func (h *Handler) handleImport(ctx context.Context) {
	path, err := h.ask(fmt.Sprintf("Planilha a importar (enter para %s): ", h.exportPath))
	if err != nil {
		return
	}
	if path == "" {
		path = h.exportPath
	}

	result, err := h.adminUseCase.ImportSpreadsheet(ctx, path)
	if err != nil {
		h.printf("Erro ao importar planilha: %v\n", err)
		return
	}

	h.printf("%d produtos importados de %s\n", result.Imported, path)
	if len(result.Skipped) > 0 {
		h.printf("Já cadastrados (ignorados): %s\n", strings.Join(result.Skipped, ", "))
	}
	for _, rowErr := range result.RowErrors {
		h.printf("Linha rejeitada: %v\n", rowErr)
	}
}

func (h *Handler) handleInfo(ctx context.Context) {
	info, err := h.adminUseCase.GetCatalogInfo(ctx)
	if err != nil {
		h.printf("Erro ao obter informações: %v\n", err)
		return
	}
	h.print(formatCatalogInfo(info))

	events, err := h.adminUseCase.History(ctx, historyLines)
	if err != nil {
		h.printf("Erro ao ler histórico: %v\n", err)
		return
	}
	if len(events) == 0 {
		return
	}
	h.println("\nÚLTIMAS OPERAÇÕES:")
	for _, ev := range events {
		h.printf("%s - %s - %s\n", ev.Timestamp.Format("02/01/2006 15:04"), ev.Action, ev.Details)
	}
}

// formatCatalogInfo catalog summary block
func formatCatalogInfo(info entity.CatalogInfo) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Arquivo: %s\n", info.Source)
	if !info.LoadedAt.IsZero() {
		fmt.Fprintf(&sb, "Carregado em: %s\n", info.LoadedAt.Format("02/01/2006 15:04"))
	}
	fmt.Fprintf(&sb, "Total de produtos: %d\n", info.Total)
	fmt.Fprintf(&sb, "  Não perecíveis: %d\n", info.NonPerishable)
	fmt.Fprintf(&sb, "  Perecíveis: %d\n", info.Perishable)
	fmt.Fprintf(&sb, "  Em promoção (validade próxima): %d\n", info.Discounted)
	fmt.Fprintf(&sb, "  Vencidos: %d\n", info.Expired)
	return sb.String()
}

// ask prints prompt and returns the trimmed answer
func (h *Handler) ask(prompt string) (string, error) {
	h.print(prompt)
	line, ok := h.readLine()
	if !ok {
		return "", errInputEnded
	}
	return strings.TrimSpace(line), nil
}

func (h *Handler) readLine() (string, bool) {
	if !h.in.Scan() {
		if err := h.in.Err(); err != nil {
			logx.Error().Err(err).Msg("failed to read console input")
		}
		return "", false
	}
	return strings.TrimSuffix(h.in.Text(), "\r"), true
}

func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty input")
	}
	return cast.ToIntE(s)
}

// parseDecimal accepts both ',' and '.' as decimal separator
func parseDecimal(s string) (float64, error) {
	return cast.ToFloat64E(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
}

func (h *Handler) print(s string) {
	fmt.Fprint(h.out, s)
}

func (h *Handler) println(s string) {
	fmt.Fprintln(h.out, s)
}

func (h *Handler) printf(format string, args ...any) {
	fmt.Fprintf(h.out, format, args...)
}
