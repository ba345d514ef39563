// Package core holds the banking domain model shared by every component:
// accounts, transactions, transfer intents, dashboard snapshots and the
// cent-based money representation.
//
// Monetary amounts are int64 cents end to end. Wire values arrive as JSON
// numbers and are converted through their decimal string form; float64 is
// never used for money.
package core

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ParseDecimalToCents converts a decimal amount string to cents with
// half-up rounding on the third decimal place. Zero is a valid amount
// (balances can be zero); signs, empty strings and non-digit characters
// are rejected, so the result is never negative. Positivity of transfer
// amounts is enforced separately by the transfer guard.
//
// Examples:
//
//	ParseDecimalToCents("100.50") -> 10050, nil
//	ParseDecimalToCents("12.344") -> 1234, nil (rounds down)
//	ParseDecimalToCents("12.345") -> 1235, nil (rounds up)
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Guard the *100 below against overflow.
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		fracCents = d1 * 10
		if len(fracPart) > 1 {
			d2 := int64(fracPart[1] - '0')
			fracCents += d2
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	return iv*100 + fracCents, nil
}

// ParseNumberToCents converts a JSON number token to cents without ever
// materializing a float64. Backends send balances and amounts as plain
// JSON numbers (e.g. 100.5).
func ParseNumberToCents(n json.Number) (int64, error) {
	return ParseDecimalToCents(n.String())
}

// DecimalString renders the amount as a plain decimal string ("100.50"),
// the form sent back to the transaction service on initiation.
func (m Money) DecimalString() string {
	neg := m.Cents < 0
	c := m.Cents
	if neg {
		c = -c
	}
	s := fmt.Sprintf("%d.%02d", c/100, c%100)
	if neg {
		return "-" + s
	}
	return s
}

// Number returns the wire representation of the amount.
func (m Money) Number() json.Number {
	return json.Number(m.DecimalString())
}

// Format renders the amount for display, e.g. "$100.50".
func (m Money) Format() string {
	if m.Cents < 0 {
		return "-$" + Money{Cents: -m.Cents}.DecimalString()
	}
	return "$" + m.DecimalString()
}
