package parser

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/shop-catalog/internal/core/errx"
	"github.com/yourusername/shop-catalog/internal/domain/entity"
)

const (
	fieldSeparator = ";"
	maxLineBytes   = 1 << 20
	utf8BOM        = "\uFEFF"
)

// ParseRecord builds a product from one "type;description;cost;margin[;dd/mm/yyyy]" line.
// Empty trailing fields are dropped, so "1;Rice;10;0.2;" is a valid record.
//
// Every ',' in the line is replaced by '.' before splitting so that comma decimals
// parse. The replacement covers the description too: "Rice, white" loads as "Rice. white".
func ParseRecord(line string, now time.Time) (entity.Product, error) {
	line = strings.ReplaceAll(line, ",", ".")
	fields := strings.Split(line, fieldSeparator)
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	// trailing empty fields, as left by spreadsheet exports, are not fields
	for len(fields) > 0 && fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}
	if len(fields) == 0 {
		return entity.Product{}, errx.New(errx.FormatError, "empty record")
	}

	tag, err := strconv.Atoi(fields[0])
	if err != nil {
		return entity.Product{}, errx.Newf(errx.FormatError, "invalid product type %q", fields[0])
	}

	kind := entity.Kind(tag)
	switch kind {
	case entity.NonPerishable:
		if len(fields) != 4 {
			return entity.Product{}, errx.Newf(errx.FormatError,
				"non-perishable record needs 4 fields, got %d", len(fields))
		}
	case entity.Perishable:
		if len(fields) != 5 {
			return entity.Product{}, errx.Newf(errx.FormatError,
				"perishable record needs 5 fields, got %d", len(fields))
		}
	default:
		return entity.Product{}, errx.Newf(errx.InvalidArgument, "unknown product type %d", tag)
	}

	description := fields[1]
	costPrice, err := parseNumber("cost price", fields[2])
	if err != nil {
		return entity.Product{}, err
	}
	profitMargin, err := parseNumber("profit margin", fields[3])
	if err != nil {
		return entity.Product{}, err
	}

	if kind == entity.NonPerishable {
		return entity.NewNonPerishable(description, costPrice, profitMargin)
	}

	expiresOn, err := time.Parse(entity.DateLayout, fields[4])
	if err != nil {
		return entity.Product{}, errx.Wrap(err, errx.FormatError,
			fmt.Sprintf("invalid expiration date %q", fields[4]))
	}
	return entity.NewPerishable(description, costPrice, profitMargin, expiresOn, now)
}

func parseNumber(name, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errx.Newf(errx.FormatError, "invalid %s %q", name, raw)
	}
	return v, nil
}

// ReadCatalog parses a whole catalog: a count line followed by that many records.
// A missing trailing record is not an error; reading simply stops at end of input.
// Empty input yields an empty catalog.
func ReadCatalog(r io.Reader, now time.Time) ([]entity.Product, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, errx.Wrap(err, errx.IOFailure, "read catalog")
		}
		return []entity.Product{}, nil
	}

	header := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), utf8BOM))
	count, err := strconv.Atoi(header)
	if err != nil || count < 0 {
		return nil, errx.Newf(errx.FormatError, "invalid product count %q", header)
	}

	products := make([]entity.Product, 0, count)
	for line := 2; len(products) < count && scanner.Scan(); line++ {
		product, err := ParseRecord(scanner.Text(), now)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		products = append(products, product)
	}
	if err := scanner.Err(); err != nil {
		return nil, errx.Wrap(err, errx.IOFailure, "read catalog")
	}

	return products, nil
}

// WriteCatalog writes the count line followed by one record per product.
func WriteCatalog(w io.Writer, products []entity.Product) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%d\n", len(products)); err != nil {
		return errx.Wrap(err, errx.IOFailure, "write catalog")
	}
	for _, p := range products {
		if _, err := bw.WriteString(p.RecordText() + "\n"); err != nil {
			return errx.Wrap(err, errx.IOFailure, "write catalog")
		}
	}
	return errx.Wrap(bw.Flush(), errx.IOFailure, "write catalog")
}
