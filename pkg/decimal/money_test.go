package decimal

import (
	"testing"

	stddec "github.com/shopspring/decimal"
)

func TestConstructors(t *testing.T) {
	m := NewMoney(12.345)
	if m.String() != "12.35" {
		t.Fatalf("NewMoney display mismatch: got %s", m.String())
	}

	d := stddec.NewFromFloat(10.125)
	m2 := NewMoneyFromDecimal(d)
	if !m2.Decimal.Equal(d) {
		t.Fatalf("NewMoneyFromDecimal mismatch: got %s want %s", m2.Decimal, d)
	}

	m3, err := NewMoneyFromString("123.45")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m3.String() != "123.45" {
		t.Fatalf("NewMoneyFromString display mismatch: got %s", m3.String())
	}

	if _, err := NewMoneyFromString("not-a-number"); err == nil {
		t.Fatalf("expected error for invalid string")
	}
}

func TestRounding(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{"2.344", "2.34"},
		{"2.345", "2.35"},
		{"2.355", "2.36"},
	}
	for _, c := range cases {
		m, _ := NewMoneyFromString(c.in)
		got := m.Round().String()
		if got != c.out {
			t.Fatalf("round(%s) got %s want %s", c.in, got, c.out)
		}
	}
}

func TestArithmetic(t *testing.T) {
	a := NewMoney(100.10)
	b := NewMoney(0.25)
	if got := a.Add(b).String(); got != "100.35" {
		t.Fatalf("Add got %s", got)
	}
	if got := a.Sub(b).String(); got != "99.85" {
		t.Fatalf("Sub got %s", got)
	}
	if got := NewMoney(1.5).Float64(); got != 1.5 {
		t.Fatalf("Float64 got %v", got)
	}
	if !Zero().IsZero() {
		t.Fatalf("Zero should be zero")
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "MX$ 0.00"},
		{12.5, "MX$ 12.50"},
		{999.999, "MX$ 1,000.00"},
		{1234567.891, "MX$ 1,234,567.89"},
		{123456, "MX$ 123,456.00"},
		{-4321.5, "MX$ -4,321.50"},
		{-0.001, "MX$ 0.00"},
	}
	for _, c := range cases {
		if got := NewMoney(c.in).Format(); got != c.want {
			t.Fatalf("Format(%v) got %q want %q", c.in, got, c.want)
		}
	}
}
