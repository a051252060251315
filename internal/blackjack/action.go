package blackjack

import (
	"fmt"
	"strconv"
	"strings"
)

// Action is a decision for a single hand
type Action int

const (
	Hit Action = iota
	Stand
	Double
	Split
)

// String returns the display name of the action
func (a Action) String() string {
	switch a {
	case Hit:
		return "Hit"
	case Stand:
		return "Stand"
	case Double:
		return "Double"
	case Split:
		return "Split"
	default:
		return "Unknown"
	}
}

// MenuKey is the number a person types to choose the action
func (a Action) MenuKey() string {
	return strconv.Itoa(int(a) + 1)
}

var actionTokens = map[string]Action{
	"1": Hit, "h": Hit, "hit": Hit,
	"2": Stand, "s": Stand, "stand": Stand,
	"3": Double, "d": Double, "double": Double,
	"4": Split, "sp": Split, "split": Split,
}

// ParseAction maps a typed token to an action. It does not check legality;
// the engine rejects actions that are not currently available.
func ParseAction(token string) (Action, error) {
	a, ok := actionTokens[strings.ToLower(strings.TrimSpace(token))]
	if !ok {
		return 0, fmt.Errorf("unknown action %q: %w", token, ErrMalformedInput)
	}
	return a, nil
}

// ParseAmount parses a non-negative whole-dollar amount such as "25" or "$25"
func ParseAmount(s string) (Money, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("amount %q is not a whole number: %w", s, ErrMalformedInput)
	}
	if n < 0 {
		return 0, fmt.Errorf("amount %d is negative: %w", n, ErrMalformedInput)
	}
	return Dollars(n), nil
}

// ParseYesNo parses y/yes/n/no
func ParseYesNo(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	}
	return false, fmt.Errorf("expected y or n, got %q: %w", s, ErrMalformedInput)
}

// ValidActions lists the actions open to hand given the player's balance:
// hit and stand always, double and split when allowed
func ValidActions(hand *Hand, balance Money) []Action {
	actions := []Action{Hit, Stand}
	if hand.CanDouble(balance) {
		actions = append(actions, Double)
	}
	if hand.CanSplit() {
		actions = append(actions, Split)
	}
	return actions
}
