package locale

import (
	"github.com/shopspring/decimal"
	"github.com/yourusername/shop-catalog/internal/core/errx"
	"github.com/yourusername/shop-catalog/internal/domain/entity"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

type currencyFormatter struct {
	printer *message.Printer
	symbol  string
}

// NewCurrencyFormatter money text for a BCP 47 locale (e.g. "pt-BR") and an ISO 4217 code (e.g. "BRL")
func NewCurrencyFormatter(locale, code string) (entity.MoneyFormatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, errx.Wrap(err, errx.InvalidArgument, "invalid locale "+locale)
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, errx.Wrap(err, errx.InvalidArgument, "invalid currency "+code)
	}

	p := message.NewPrinter(tag)
	return &currencyFormatter{
		printer: p,
		symbol:  p.Sprint(currency.Symbol(unit)),
	}, nil
}

// Format symbol, a space and the amount with two locale grouped decimals.
// Halves round away from zero.
func (f *currencyFormatter) Format(amount float64) string {
	rounded := decimal.NewFromFloat(amount).Round(2).InexactFloat64()
	return f.symbol + " " + f.printer.Sprint(number.Decimal(rounded, number.Scale(2)))
}
