package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoney_Arithmetic(t *testing.T) {
	a := MustParseMoney("0.10")
	b := MustParseMoney("0.20")

	if got := a.Add(b); !got.Equal(MustParseMoney("0.3")) {
		t.Fatalf("expected 0.30, got %s", got)
	}

	rate := MustParseMoney("50")
	if got := rate.Mul(decimal.RequireFromString("2.5")); got.String() != "125.00" {
		t.Fatalf("expected 125.00, got %s", got)
	}
}

func TestMoney_String(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1234.5", "1234.50"},
		{"0", "0.00"},
		{"-3.456", "-3.46"},
		{"10", "10.00"},
	}
	for _, tt := range tests {
		if got := MustParseMoney(tt.in).String(); got != tt.want {
			t.Errorf("Money(%s).String() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseMoney_Invalid(t *testing.T) {
	if _, err := ParseMoney("ten euros"); err == nil {
		t.Fatal("expected error for non-numeric input")
	}
}

func TestNullMoney(t *testing.T) {
	var absent NullMoney
	if absent.Valid {
		t.Fatal("zero NullMoney must be absent")
	}
	zero := SomeMoney(ZeroMoney())
	if !zero.Valid || !zero.Money.IsZero() {
		t.Fatal("SomeMoney(0) must be a present zero")
	}
}
