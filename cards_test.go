package main

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDeckComposition(t *testing.T) {
	deck := buildDeck(rand.New(rand.NewSource(1)))

	require.Len(t, deck, 78)

	letters := make(map[string]int)
	penalties := make(map[string]int)
	actions := make(map[CardType]int)

	for _, card := range deck {
		if card.Type == CardLetter {
			letters[card.Letter]++
			penalties[card.Letter] = card.Penalty
		} else {
			actions[card.Type]++
		}
	}

	totalLetters := 0
	for _, d := range letterDistribution {
		assert.Equal(t, d.count, letters[d.letter], "letter %s", d.letter)
		assert.Equal(t, d.penalty, penalties[d.letter], "penalty of %s", d.letter)
		totalLetters += d.count
	}
	assert.Equal(t, 62, totalLetters)

	for _, actionType := range actionTypes {
		assert.Equal(t, 4, actions[actionType], "action %s", actionType)
	}
}

func TestShuffleDeckPreservesMultiset(t *testing.T) {
	original := buildDeck(rand.New(rand.NewSource(1)))
	shuffled := shuffleDeck(rand.New(rand.NewSource(2)), original)

	require.Len(t, shuffled, len(original))

	count := func(deck []Card) map[Card]int {
		m := make(map[Card]int)
		for _, c := range deck {
			m[c]++
		}
		return m
	}

	assert.Equal(t, count(original), count(shuffled))
}

func TestShuffleDeckDeterministicPerSeed(t *testing.T) {
	deck := buildDeck(rand.New(rand.NewSource(1)))

	first := shuffleDeck(rand.New(rand.NewSource(7)), deck)
	second := shuffleDeck(rand.New(rand.NewSource(7)), deck)

	assert.Equal(t, first, second)
}

func TestDrawCards(t *testing.T) {
	pile := []Card{
		{Type: CardLetter, Letter: "A"},
		{Type: CardLetter, Letter: "B"},
		{Type: CardStop},
	}

	drawn, remaining := drawCards(pile, 2)
	require.Len(t, drawn, 2)
	require.Len(t, remaining, 1)
	assert.Equal(t, "A", drawn[0].Letter)
	assert.Equal(t, "B", drawn[1].Letter)
	assert.Equal(t, CardStop, remaining[0].Type)

	// Over-draw clamps to what is left.
	drawn, remaining = drawCards(remaining, 5)
	assert.Len(t, drawn, 1)
	assert.Empty(t, remaining)

	drawn, remaining = drawCards(nil, 1)
	assert.Empty(t, drawn)
	assert.Empty(t, remaining)
}

func TestDealCardsRoundRobin(t *testing.T) {
	deck := buildDeck(rand.New(rand.NewSource(3)))

	hands, remaining := dealCards(deck, 3, 8)

	require.Len(t, hands, 3)
	for i, hand := range hands {
		assert.Len(t, hand, 8, "hand %d", i)
	}
	assert.Len(t, remaining, 78-3*8)

	// One card per player per pass, in deck order.
	assert.Equal(t, deck[0], hands[0][0])
	assert.Equal(t, deck[1], hands[1][0])
	assert.Equal(t, deck[2], hands[2][0])
	assert.Equal(t, deck[3], hands[0][1])
}

func TestDealCardsExhaustedDeck(t *testing.T) {
	deck := []Card{
		{Type: CardLetter, Letter: "A"},
		{Type: CardLetter, Letter: "B"},
		{Type: CardLetter, Letter: "C"},
	}

	hands, remaining := dealCards(deck, 2, 4)

	assert.Len(t, hands[0], 2)
	assert.Len(t, hands[1], 1)
	assert.Empty(t, remaining)
}
