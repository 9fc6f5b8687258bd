package types

import "testing"

func TestMoneyString(t *testing.T) {
	cases := []struct {
		in   Money
		want string
	}{
		{MoneyFromFloat(12.345, CurrencyUSD), "US$ 12.35"},
		{MoneyFromFloat(7, CurrencyUSD), "US$ 7.00"},
		{MoneyFromFloat(0.004, ""), "US$ 0.00"},
		{MoneyFromFloat(3.5, "TWD"), "TWD 3.50"},
	}
	for _, tc := range cases {
		if got := tc.in.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestMoneyFromFloatRounds(t *testing.T) {
	m := MoneyFromFloat(10.499, CurrencyUSD)
	if m.Amount != 1050 {
		t.Fatalf("Amount = %d, want 1050", m.Amount)
	}
	if m.Float() != 10.5 {
		t.Fatalf("Float() = %v, want 10.5", m.Float())
	}
}

func TestFormatAmountRoundsOnce(t *testing.T) {
	cases := []struct {
		v        float64
		currency string
		want     string
	}{
		{2.675, CurrencyUSD, "US$ 2.67"},
		{1.115, "", "US$ 1.11"},
		{3.5, "TWD", "TWD 3.50"},
	}
	for _, tc := range cases {
		if got := FormatAmount(tc.v, tc.currency); got != tc.want {
			t.Errorf("FormatAmount(%v, %q) = %q, want %q", tc.v, tc.currency, got, tc.want)
		}
	}
}
