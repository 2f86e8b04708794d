package valueobjects

import "fmt"

type Currency string

const (
	CurrencyINR Currency = "INR"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

func (c Currency) IsValid() bool {
	switch c {
	case CurrencyINR, CurrencyUSD, CurrencyEUR:
		return true
	default:
		return false
	}
}

func (c Currency) String() string {
	return string(c)
}

// Money is an amount in the currency's minor unit (paise for INR).
type Money struct {
	amountMinor int64
	currency    Currency
}

func NewMoney(amountMinor int64, currency Currency) Money {
	if currency == "" {
		currency = CurrencyINR
	}
	return Money{
		amountMinor: amountMinor,
		currency:    currency,
	}
}

func (m Money) AmountMinor() int64 {
	return m.amountMinor
}

func (m Money) Currency() Currency {
	return m.currency
}

func (m Money) AmountMajor() float64 {
	return float64(m.amountMinor) / 100.0
}

func (m Money) IsPositive() bool {
	return m.amountMinor > 0
}

func (m Money) String() string {
	return fmt.Sprintf("%.2f %s", m.AmountMajor(), m.currency)
}
