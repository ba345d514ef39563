package core

import (
	"encoding/json"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"100.50", 10050, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{"12.344", 1234, true},
		{"12.345", 1235, true},
		{" 2.50 ", 250, true},
		{"0", 0, true}, // zero balances are real balances
		{"0.00", 0, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestParseNumberToCents(t *testing.T) {
	// Decode the way the API layer does, so large and fractional values
	// never pass through float64.
	var payload struct {
		Balance json.Number `json:"balance"`
	}
	if err := json.Unmarshal([]byte(`{"balance": 100.5}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	cents, err := ParseNumberToCents(payload.Balance)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if cents != 10050 {
		t.Fatalf("expected 10050, got %d", cents)
	}
}

func TestMoneyDecimalString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{10050, "100.50"},
		{1, "0.01"},
		{100, "1.00"},
		{-250, "-2.50"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).DecimalString(); got != tc.want {
			t.Fatalf("%d cents expected %q, got %q", tc.cents, tc.want, got)
		}
	}
}

func TestMoneyFormat(t *testing.T) {
	if got := (Money{Cents: 10050}).Format(); got != "$100.50" {
		t.Fatalf("expected $100.50, got %q", got)
	}
	if got := (Money{Cents: -5}).Format(); got != "-$0.05" {
		t.Fatalf("expected -$0.05, got %q", got)
	}
}
