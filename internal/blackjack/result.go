package blackjack

// Outcome is how a single player hand finished
type Outcome int

const (
	Lose Outcome = iota
	Win
	Push
	Bust
	Natural // two-card 21 paid at 3:2
)

// String returns the lowercase outcome name
func (o Outcome) String() string {
	switch o {
	case Lose:
		return "lose"
	case Win:
		return "win"
	case Push:
		return "push"
	case Bust:
		return "bust"
	case Natural:
		return "blackjack"
	default:
		return "unknown"
	}
}

// HandResult is the settlement of one player hand
type HandResult struct {
	Index   int
	Hand    HandView
	Dealer  int // dealer's final total
	Outcome Outcome
	Credit  Money // amount returned to the balance
}

// Net is the change this hand made to the balance, counting the stake
func (r HandResult) Net() Money {
	return r.Credit - r.Hand.Bet
}

// InsuranceResult is the settlement of the insurance side bet
type InsuranceResult struct {
	Stake           Money
	Paid            Money
	DealerBlackjack bool
}

// Net is the change the side bet made to the balance
func (r InsuranceResult) Net() Money {
	return r.Paid - r.Stake
}

// RoundResult records everything that happened in one round
type RoundResult struct {
	Bet           Money
	Hands         []HandResult
	Dealer        HandView
	Insurance     *InsuranceResult
	Natural       bool // the round ended at the natural check
	Splits        int
	Doubles       int
	BalanceBefore Money
	BalanceAfter  Money
}

// Net is the change the round made to the balance
func (r *RoundResult) Net() Money {
	return r.BalanceAfter - r.BalanceBefore
}

// Count returns how many hands finished with outcome o
func (r *RoundResult) Count(o Outcome) int {
	n := 0
	for _, h := range r.Hands {
		if h.Outcome == o {
			n++
		}
	}
	return n
}
