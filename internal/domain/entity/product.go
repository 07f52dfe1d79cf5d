package entity

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/yourusername/shop-catalog/internal/core/errx"
)

const (
	// DefaultProfitMargin is applied when a product is built without a margin.
	DefaultProfitMargin = 0.2
	// NearExpiryDiscount is taken off the cost price of perishables close to expiry.
	NearExpiryDiscount = 0.25
	// NearExpiryWindowDays is how many days before expiry the discount starts.
	NearExpiryWindowDays = 7
	// DateLayout is the DD/MM/YYYY layout used in records and on screen.
	DateLayout = "02/01/2006"
)

// ErrExpired is returned when a perishable product is past its expiration date.
var ErrExpired = errx.New(errx.InvalidState, "product expired")

// Kind is the product variant tag, also used as the first record field.
type Kind int

const (
	NonPerishable Kind = 1
	Perishable    Kind = 2
)

func (k Kind) String() string {
	switch k {
	case NonPerishable:
		return "non-perishable"
	case Perishable:
		return "perishable"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// MoneyFormatter renders an amount as localized currency text.
type MoneyFormatter interface {
	Format(amount float64) string
}

// Product is a catalog item. It is immutable once built; use the New* constructors.
type Product struct {
	kind         Kind
	description  string
	costPrice    float64
	profitMargin float64
	expiresOn    time.Time // perishables only, midnight UTC of the calendar date
}

type productFields struct {
	Description  string  `validate:"min=3"`
	CostPrice    float64 `validate:"gt=0"`
	ProfitMargin float64 `validate:"gt=0"`
}

var validate = validator.New()

// NewNonPerishable builds a product without an expiration date.
func NewNonPerishable(description string, costPrice, profitMargin float64) (Product, error) {
	if err := validateFields(description, costPrice, profitMargin); err != nil {
		return Product{}, err
	}
	return Product{
		kind:         NonPerishable,
		description:  description,
		costPrice:    costPrice,
		profitMargin: profitMargin,
	}, nil
}

// NewNonPerishableDefaultMargin is NewNonPerishable with DefaultProfitMargin.
func NewNonPerishableDefaultMargin(description string, costPrice float64) (Product, error) {
	return NewNonPerishable(description, costPrice, DefaultProfitMargin)
}

// NewPerishable builds a product that expires on the calendar date of expiresOn.
// The date must be strictly after the calendar date of now. Cost and margin are
// stored with two decimals, so both must be at least 0.01 once rounded.
func NewPerishable(description string, costPrice, profitMargin float64, expiresOn, now time.Time) (Product, error) {
	if err := validateFields(description, costPrice, profitMargin); err != nil {
		return Product{}, err
	}
	if err := checkRecordPrecision(costPrice, profitMargin); err != nil {
		return Product{}, err
	}
	date := CalendarDate(expiresOn)
	if !date.After(CalendarDate(now)) {
		return Product{}, errx.Newf(errx.InvalidArgument,
			"expiration date %s must be after the current date", date.Format(DateLayout))
	}
	return Product{
		kind:         Perishable,
		description:  description,
		costPrice:    costPrice,
		profitMargin: profitMargin,
		expiresOn:    date,
	}, nil
}

// NewPerishableDefaultMargin is NewPerishable with DefaultProfitMargin.
func NewPerishableDefaultMargin(description string, costPrice float64, expiresOn, now time.Time) (Product, error) {
	return NewPerishable(description, costPrice, DefaultProfitMargin, expiresOn, now)
}

// checkRecordPrecision rejects perishable amounts that RecordText would write as 0.00.
func checkRecordPrecision(costPrice, profitMargin float64) error {
	var problems []string
	if !decimal.NewFromFloat(costPrice).Round(2).IsPositive() {
		problems = append(problems, "cost price must be at least 0.01")
	}
	if !decimal.NewFromFloat(profitMargin).Round(2).IsPositive() {
		problems = append(problems, "profit margin must be at least 0.01")
	}
	if len(problems) == 0 {
		return nil
	}
	return errx.New(errx.InvalidArgument, "invalid perishable data: "+strings.Join(problems, "; "))
}

func validateFields(description string, costPrice, profitMargin float64) error {
	if math.IsInf(costPrice, 0) || math.IsInf(profitMargin, 0) {
		return errx.New(errx.InvalidArgument, "invalid product data: prices must be finite")
	}
	err := validate.Struct(productFields{
		Description:  description,
		CostPrice:    costPrice,
		ProfitMargin: profitMargin,
	})
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errx.Wrap(err, errx.InvalidArgument, "invalid product data")
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Field() {
		case "Description":
			problems = append(problems, "description must have at least 3 characters")
		case "CostPrice":
			problems = append(problems, "cost price must be greater than zero")
		case "ProfitMargin":
			problems = append(problems, "profit margin must be greater than zero")
		default:
			problems = append(problems, fe.Error())
		}
	}
	return errx.New(errx.InvalidArgument, "invalid product data: "+strings.Join(problems, "; "))
}

func (p Product) Kind() Kind { return p.kind }

func (p Product) Description() string { return p.description }

func (p Product) CostPrice() float64 { return p.costPrice }

func (p Product) ProfitMargin() float64 { return p.profitMargin }

// ExpiresOn returns the expiration date and whether the product has one.
func (p Product) ExpiresOn() (time.Time, bool) {
	return p.expiresOn, p.kind == Perishable
}

// Equal reports whether both products share a description, ignoring case.
func (p Product) Equal(other Product) bool {
	return strings.EqualFold(p.description, other.description)
}

// SaleValue is the selling price at the moment now.
// Perishables expiring today or earlier fail with ErrExpired; those expiring
// within the next NearExpiryWindowDays (exclusive) get NearExpiryDiscount on cost.
func (p Product) SaleValue(now time.Time) (float64, error) {
	switch p.kind {
	case NonPerishable:
		return p.costPrice * (1 + p.profitMargin), nil
	case Perishable:
		if p.Expired(now) {
			return 0, ErrExpired
		}
		if p.Discounted(now) {
			return (p.costPrice - p.costPrice*NearExpiryDiscount) * (1 + p.profitMargin), nil
		}
		return p.costPrice * (1 + p.profitMargin), nil
	default:
		return 0, errx.Newf(errx.InvalidState, "unknown product kind %d", p.kind)
	}
}

// Expired reports whether a perishable expires today or earlier.
func (p Product) Expired(now time.Time) bool {
	return p.kind == Perishable && !p.expiresOn.After(CalendarDate(now))
}

// Discounted reports whether a perishable is still on sale but inside the near-expiry window.
func (p Product) Discounted(now time.Time) bool {
	if p.kind != Perishable || p.Expired(now) {
		return false
	}
	return p.expiresOn.Before(CalendarDate(now).AddDate(0, 0, NearExpiryWindowDays))
}

// DisplayText is the human readable line shown in listings.
func (p Product) DisplayText(now time.Time, money MoneyFormatter) (string, error) {
	value, err := p.SaleValue(now)
	if err != nil {
		return "", err
	}
	text := "NOME: " + p.description + ": " + money.Format(value)
	if p.kind == Perishable {
		text += " | Validade: " + p.expiresOn.Format(DateLayout)
	}
	return text, nil
}

// RecordText is the line written to the catalog data file.
func (p Product) RecordText() string {
	switch p.kind {
	case Perishable:
		return strings.Join([]string{
			"2",
			p.description,
			decimal.NewFromFloat(p.costPrice).StringFixed(2),
			decimal.NewFromFloat(p.profitMargin).StringFixed(2),
			p.expiresOn.Format(DateLayout),
		}, ";")
	default:
		return strings.Join([]string{
			"1",
			p.description,
			strconv.FormatFloat(p.costPrice, 'f', -1, 64),
			strconv.FormatFloat(p.profitMargin, 'f', -1, 64),
		}, ";")
	}
}

// CalendarDate drops the clock part of t, keeping its date in t's own location.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
