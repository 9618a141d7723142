// Package types - Currency value type
package types

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"tollgrid/internal/errors"
)

var currencyPattern = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?$`)

// Currency is an exact monetary amount held as a count of hundredths.
// Two values are equal when they represent the same amount, whatever
// the number of fraction digits they were written with.
type Currency struct {
	cents int64
}

// Zero is the zero amount
var Zero = Currency{}

// NewCurrency builds an amount from whole units and hundredths
func NewCurrency(units, cents int64) Currency {
	return Currency{cents: units*100 + cents}
}

// NewCurrencyFromCents builds an amount from a count of hundredths
func NewCurrencyFromCents(cents int64) Currency {
	return Currency{cents: cents}
}

// NewCurrencyFromFloat rounds v to the nearest hundredth
func NewCurrencyFromFloat(v float64) (Currency, error) {
	return NewCurrencyFromDecimal(decimal.NewFromFloat(v))
}

// NewCurrencyFromDecimal rounds d half away from zero to the nearest hundredth.
// Amounts whose hundredths do not fit in an int64 are a parsing error.
func NewCurrencyFromDecimal(d decimal.Decimal) (Currency, error) {
	cents := d.Round(2).Shift(2)
	if !cents.BigInt().IsInt64() {
		return Zero, errors.Newf(errors.TypeParsing, "amount %s out of range", d.String())
	}
	return Currency{cents: cents.IntPart()}, nil
}

// ParseCurrency parses "<int>" or "<int>.<frac>". The fraction is positional,
// so "1.3" and "1.30" are the same amount. Extra fraction digits are rounded.
func ParseCurrency(s string) (Currency, error) {
	text := strings.TrimSpace(s)
	if !currencyPattern.MatchString(text) {
		return Zero, errors.Newf(errors.TypeParsing, "invalid amount %q", s)
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return Zero, errors.Parsing("invalid amount "+strconv.Quote(s), err)
	}
	return NewCurrencyFromDecimal(d)
}

// ParseLocalizedCurrency parses an amount that may use "," as decimal point
func ParseLocalizedCurrency(s string) (Currency, error) {
	return ParseCurrency(strings.ReplaceAll(s, ",", "."))
}

// Units returns the whole-unit part
func (c Currency) Units() int64 {
	return c.cents / 100
}

// Cents returns the hundredths part
func (c Currency) Cents() int64 {
	return c.cents % 100
}

// InCents returns the whole amount as hundredths
func (c Currency) InCents() int64 {
	return c.cents
}

// IsZero reports whether the amount is zero
func (c Currency) IsZero() bool {
	return c.cents == 0
}

// Decimal returns the exact decimal value
func (c Currency) Decimal() decimal.Decimal {
	return decimal.New(c.cents, -2)
}

// String returns the canonical text: no fraction when it is zero,
// no trailing zeros otherwise ("12", "12.5", "12.05")
func (c Currency) String() string {
	return c.Decimal().String()
}

// MarshalJSON emits an integer when the fraction is zero, a decimal number otherwise
func (c Currency) MarshalJSON() ([]byte, error) {
	if c.Cents() == 0 {
		return []byte(strconv.FormatInt(c.Units(), 10)), nil
	}
	return []byte(c.String()), nil
}

// UnmarshalJSON accepts a JSON number (or a quoted one) and rounds it to hundredths
func (c *Currency) UnmarshalJSON(data []byte) error {
	text := string(bytes.TrimSpace(data))
	if text == "null" {
		*c = Zero
		return nil
	}
	if unquoted, err := strconv.Unquote(text); err == nil {
		text = unquoted
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return errors.Parsing("invalid amount "+strconv.Quote(text), err)
	}
	value, err := NewCurrencyFromDecimal(d)
	if err != nil {
		return err
	}
	*c = value
	return nil
}
