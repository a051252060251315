package blackjack

import "errors"

var (
	// ErrInsufficientFunds is returned when a bet, double, split or
	// insurance stake exceeds the player's balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidOperation is returned when an action is not legal for the
	// hand, such as splitting a non-pair.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrMalformedInput is returned for unparseable or out-of-range answers
	// at a decision point.
	ErrMalformedInput = errors.New("malformed input")
)

// IsRecoverable reports whether err should be answered by asking the same
// question again rather than ending the session
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrInvalidOperation) ||
		errors.Is(err, ErrMalformedInput)
}
