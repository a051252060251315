package blackjack

import "fmt"

// Money is a currency amount in cents
type Money int64

// MinBet is the smallest wager a player can place
const MinBet = Money(100)

// Dollars converts a whole-dollar amount to Money
func Dollars(n int64) Money {
	return Money(n * 100)
}

// Dollars returns the whole-dollar part of m, truncated toward zero
func (m Money) Dollars() int64 {
	return int64(m) / 100
}

// IsWholeDollars reports whether m has no cents
func (m Money) IsWholeDollars() bool {
	return m%100 == 0
}

// String renders m as "$12" or "$12.50"
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	if v%100 == 0 {
		return fmt.Sprintf("%s$%d", sign, v/100)
	}
	return fmt.Sprintf("%s$%d.%02d", sign, v/100, v%100)
}

// MaxInsurance is the largest insurance stake allowed against bet: half the
// bet rounded down to whole dollars
func MaxInsurance(bet Money) Money {
	return Dollars(bet.Dollars() / 2)
}

// naturalCredit is the amount returned for a winning natural. The stake was
// already taken at bet time, so this is the stake plus the 3:2 win.
func naturalCredit(bet Money) Money {
	return bet * 5 / 2
}
