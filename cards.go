package main

import (
	"math/rand"
)

// CardType discriminates the card union: a letter card or one of the
// four action cards.
type CardType string

const (
	CardLetter    CardType = "letter"
	CardCrackList CardType = "crack_list"
	CardStop      CardType = "stop"
	CardReverse   CardType = "reverse"
	CardSwap      CardType = "swap"
)

// Card is a single card in the draw pile or a hand. Letter and Penalty
// are only meaningful when Type is CardLetter.
type Card struct {
	Type    CardType `json:"type"`
	Letter  string   `json:"letter,omitempty"`
	Penalty int      `json:"penalty,omitempty"` // 0 = normal, 1/2/3 = bonus cards (+1, +2, +3)
}

// letterDistribution fixes the multiset of letter cards: 62 in total.
var letterDistribution = []struct {
	letter  string
	count   int
	penalty int
}{
	// Normal letters (penalty 0) - 3 copies each
	{"A", 3, 0},
	{"B", 3, 0},
	{"C", 3, 0},
	{"D", 3, 0},
	{"E", 3, 0},
	{"H", 3, 0},
	{"I", 3, 0},
	{"J", 3, 0},
	{"M", 3, 0},
	{"O", 3, 0},
	{"P", 3, 0},
	{"R", 3, 0},
	{"S", 3, 0},
	{"T", 3, 0},
	{"U", 3, 0},
	{"V", 3, 0},

	// +1 penalty letters
	{"F", 2, 1},
	{"G", 2, 1},
	{"L", 2, 1},
	{"N", 2, 1},

	// +2 penalty letters
	{"K", 1, 2},
	{"Q", 1, 2},
	{"W", 1, 2},
	{"Y", 1, 2},
	{"Z", 1, 2},

	// +3 penalty letter
	{"X", 1, 3},
}

// Action cards - 4 of each type (16 total)
var actionTypes = []CardType{CardCrackList, CardStop, CardReverse, CardSwap}

const actionCardCount = 4

// buildDeck generates the shuffled 78-card game deck:
// 62 letter cards and 16 action cards.
func buildDeck(rng *rand.Rand) []Card {
	deck := make([]Card, 0, 78)

	for _, d := range letterDistribution {
		for i := 0; i < d.count; i++ {
			deck = append(deck, Card{
				Type:    CardLetter,
				Letter:  d.letter,
				Penalty: d.penalty,
			})
		}
	}

	for _, actionType := range actionTypes {
		for i := 0; i < actionCardCount; i++ {
			deck = append(deck, Card{Type: actionType})
		}
	}

	return shuffleDeck(rng, deck)
}

// shuffleDeck returns a Fisher-Yates shuffled copy of the given deck.
func shuffleDeck[T any](rng *rand.Rand, deck []T) []T {
	shuffled := make([]T, len(deck))
	copy(shuffled, deck)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

// drawCards removes up to count cards from the top of the pile.
func drawCards(pile []Card, count int) (drawn []Card, remaining []Card) {
	if count > len(pile) {
		count = len(pile)
	}
	return pile[:count:count], pile[count:]
}

// dealCards deals handSize cards to each of playerCount hands, round-robin
// in deck order, one card per player per pass.
func dealCards(deck []Card, playerCount, handSize int) (hands [][]Card, remaining []Card) {
	hands = make([][]Card, playerCount)
	for p := range hands {
		hands[p] = make([]Card, 0, handSize)
	}

	remaining = deck
	for i := 0; i < handSize; i++ {
		for p := 0; p < playerCount; p++ {
			if len(remaining) == 0 {
				return hands, remaining
			}
			hands[p] = append(hands[p], remaining[0])
			remaining = remaining[1:]
		}
	}

	return hands, remaining
}
