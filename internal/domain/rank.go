package domain

// rank spacing for edge inserts
const rankStep = 10

// RankForIndex computes the fractional rank for inserting at position index
// into a column whose existing ranks are given in ascending order. The moved
// card itself must not be in ranks.
//
// Empty column gets rankStep. Inserting at the front goes rankStep below the
// first card, past the end rankStep above the last, anywhere else the
// midpoint of the two neighbors.
func RankForIndex(ranks []float64, index int) float64 {
	if len(ranks) == 0 {
		return rankStep
	}
	if index <= 0 {
		return ranks[0] - rankStep
	}
	if index >= len(ranks) {
		return ranks[len(ranks)-1] + rankStep
	}
	prev := ranks[index-1]
	next := ranks[index]
	return prev + (next-prev)/2
}

// RanksOf extracts the ranks of already-sorted cards.
func RanksOf(cards []*Card) []float64 {
	ranks := make([]float64, 0, len(cards))
	for _, c := range cards {
		ranks = append(ranks, c.Rank)
	}
	return ranks
}
