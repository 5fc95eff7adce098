package main

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGame(t *testing.T, playerCount int) *Game {
	t.Helper()

	g := newGame(defaultRules(), rand.New(rand.NewSource(42)))
	for i := 0; i < playerCount; i++ {
		id := fmt.Sprintf("p%d", i+1)
		require.True(t, g.AddPlayer(id, strings.ToUpper(id), i == 0).OK)
	}
	return g
}

// playingGame starts a game and picks the first category face, leaving
// p1 as the turn holder in the playing phase.
func playingGame(t *testing.T, playerCount int) *Game {
	t.Helper()

	g := testGame(t, playerCount)
	require.True(t, g.Start("p1").OK)
	require.True(t, g.SelectCategory("p1", 0).OK)
	return g
}

func TestNextPlayerIndex(t *testing.T) {
	tests := []struct {
		current     int
		playerCount int
		direction   int
		skip        bool
		want        int
	}{
		{2, 4, 1, false, 3},
		{3, 4, 1, false, 0},
		{0, 4, 1, true, 2},
		{3, 4, 1, true, 1},
		{0, 4, -1, false, 3},
		{1, 4, -1, true, 3},
		{0, 2, -1, false, 1},
		{1, 2, 1, true, 1},
	}

	for _, tc := range tests {
		got := nextPlayerIndex(tc.current, tc.playerCount, tc.direction, tc.skip)
		assert.Equal(t, tc.want, got,
			"current=%d count=%d direction=%d skip=%t", tc.current, tc.playerCount, tc.direction, tc.skip)
	}
}

func TestCheckGameEnd(t *testing.T) {
	players := []*Player{
		{ID: "p1", RoundsWon: 2},
		{ID: "p2", RoundsWon: 1},
	}

	over, winner := checkGameEnd(players, 3)
	assert.False(t, over)
	assert.Empty(t, winner)

	players[0].RoundsWon = 3
	over, winner = checkGameEnd(players, 3)
	assert.True(t, over)
	assert.Equal(t, "p1", winner)
}

func TestAddPlayer(t *testing.T) {
	g := testGame(t, 2)

	assert.False(t, g.AddPlayer("p1", "P1", false).OK, "duplicate id")

	for i := 3; i <= 8; i++ {
		require.True(t, g.AddPlayer(fmt.Sprintf("p%d", i), "X", false).OK)
	}
	assert.False(t, g.AddPlayer("p9", "X", false).OK, "room full")

	g = testGame(t, 2)
	require.True(t, g.Start("p1").OK)
	assert.False(t, g.AddPlayer("p3", "X", false).OK, "no join after start")
}

func TestToggleReady(t *testing.T) {
	g := testGame(t, 2)

	require.True(t, g.ToggleReady("p2").OK)
	assert.True(t, g.playerByID("p2").Ready)

	require.True(t, g.ToggleReady("p2").OK)
	assert.False(t, g.playerByID("p2").Ready)

	assert.False(t, g.ToggleReady("ghost").OK)
}

func TestStartGame(t *testing.T) {
	g := testGame(t, 3)

	assert.False(t, g.Start("p2").OK, "guests cannot start")

	res := g.Start("p1")
	require.True(t, res.OK)

	assert.Equal(t, PhaseCategorySelection, g.Phase)
	assert.Equal(t, 0, g.CurrentPlayerIndex)
	assert.Equal(t, 1, g.CurrentRound)
	for _, p := range g.Players {
		assert.Len(t, p.Hand, 8)
	}
	assert.Len(t, g.DrawPile, 78-3*8)
	require.NotNil(t, g.CurrentCategoryCard)
	assert.Len(t, g.CategoryPile, len(categoryCards)-1)

	assert.False(t, g.Start("p1").OK, "cannot start twice")
}

func TestStartGameRequiresMinPlayers(t *testing.T) {
	g := newGame(defaultRules(), rand.New(rand.NewSource(1)))
	require.True(t, g.AddPlayer("p1", "P1", true).OK)

	assert.False(t, g.Start("p1").OK)
}

func TestSelectCategory(t *testing.T) {
	g := testGame(t, 3)
	require.True(t, g.Start("p1").OK)

	assert.False(t, g.SelectCategory("p2", 0).OK, "only the turn holder picks")
	assert.False(t, g.SelectCategory("p1", 3).OK, "index out of range")

	g.UsedAnswers = []string{"leftover"}

	res := g.SelectCategory("p1", 1)
	require.True(t, res.OK)

	assert.Equal(t, g.CurrentCategoryCard.Categories[1], g.CurrentCategory)
	assert.Equal(t, PhasePlaying, g.Phase)
	assert.Empty(t, g.UsedAnswers)
	assert.True(t, g.TimerActive)
	assert.Equal(t, 20, g.TimeLeft)

	assert.False(t, g.SelectCategory("p1", 0).OK, "no category to choose mid-turn")
}

func TestPlayCardValidation(t *testing.T) {
	g := playingGame(t, 3)
	g.Players[0].Hand = []Card{
		{Type: CardLetter, Letter: "C"},
		{Type: CardLetter, Letter: "C"},
	}

	assert.Equal(t, "Ce n'est pas votre tour", g.PlayCard("p2", 0, "chat").Reason)
	assert.Equal(t, "Carte invalide", g.PlayCard("p1", 5, "chat").Reason)
	assert.Equal(t, "Réponse requise", g.PlayCard("p1", 0, "").Reason)
	assert.Equal(t, `Ne commence pas par "C"`, g.PlayCard("p1", 0, "dauphin").Reason)

	res := g.PlayCard("p1", 0, "le chat")
	require.True(t, res.OK)

	assert.Len(t, g.Players[0].Hand, 1)
	assert.Equal(t, []string{"le chat"}, g.UsedAnswers)
	assert.Equal(t, 1, g.CurrentPlayerIndex)
	require.NotNil(t, g.LastPlayedCard)
	assert.Equal(t, "C", g.LastPlayedCard.Letter)

	g.CurrentPlayerIndex = 0
	assert.Equal(t, "Réponse déjà utilisée", g.PlayCard("p1", 0, "Le Chat ").Reason)
}

func TestStopCardSkipsNextPlayer(t *testing.T) {
	g := playingGame(t, 4)
	g.Players[0].Hand = []Card{{Type: CardStop}, {Type: CardLetter, Letter: "A"}}

	require.True(t, g.PlayCard("p1", 0, "").OK)

	assert.Equal(t, 2, g.CurrentPlayerIndex)
	assert.False(t, g.SkipNext, "skip consumed immediately")
}

func TestReverseCardFlipsDirection(t *testing.T) {
	g := playingGame(t, 4)
	g.Players[0].Hand = []Card{{Type: CardReverse}, {Type: CardLetter, Letter: "A"}}

	require.True(t, g.PlayCard("p1", 0, "").OK)

	assert.Equal(t, -1, g.Direction)
	assert.Equal(t, 3, g.CurrentPlayerIndex)
}

func TestCrackListReopensCategorySelection(t *testing.T) {
	g := playingGame(t, 3)
	g.Players[0].Hand = []Card{{Type: CardCrackList}, {Type: CardLetter, Letter: "A"}}
	g.UsedAnswers = []string{"ananas"}
	card := g.CurrentCategoryCard

	require.True(t, g.PlayCard("p1", 0, "").OK)

	assert.Equal(t, PhaseCategorySelection, g.Phase)
	require.NotNil(t, g.Pending)
	assert.Equal(t, PendingSelectCategory, g.Pending.Type)
	assert.Equal(t, 0, g.CurrentPlayerIndex, "turn held until the pick")

	require.True(t, g.SelectCategory("p1", 2).OK)
	assert.Equal(t, card.Categories[2], g.CurrentCategory)
	assert.Empty(t, g.UsedAnswers)
	assert.Equal(t, PhasePlaying, g.Phase)
	assert.Nil(t, g.Pending)
}

func TestCrackListCannotBeLastCard(t *testing.T) {
	g := playingGame(t, 3)
	g.Players[0].Hand = []Card{{Type: CardCrackList}}

	res := g.PlayCard("p1", 0, "")
	assert.Equal(t, "Impossible de finir avec CRACK LIST", res.Reason)
	assert.Len(t, g.Players[0].Hand, 1)
}

func TestSwapCard(t *testing.T) {
	g := playingGame(t, 3)
	g.Players[0].Hand = []Card{{Type: CardSwap}, {Type: CardLetter, Letter: "A"}}
	p2Hand := g.Players[1].Hand

	require.True(t, g.PlayCard("p1", 0, "").OK)

	require.NotNil(t, g.Pending)
	assert.Equal(t, PendingSelectSwapTarget, g.Pending.Type)
	assert.Equal(t, "Une action est en attente", g.PlayCard("p1", 0, "ananas").Reason)
	assert.Equal(t, "Une action est en attente", g.DrawCard("p1").Reason)

	assert.False(t, g.SelectSwapTarget("p1", "p1").OK, "cannot swap with yourself")
	assert.False(t, g.SelectSwapTarget("p2", "p1").OK, "only the player who played picks")

	require.True(t, g.SelectSwapTarget("p1", "p2").OK)

	assert.Equal(t, p2Hand, g.Players[0].Hand)
	assert.Len(t, g.Players[1].Hand, 1)
	assert.Nil(t, g.Pending)
	assert.Equal(t, 1, g.CurrentPlayerIndex)
}

func TestLastCardSwapHandsRoundToReceiver(t *testing.T) {
	g := playingGame(t, 3)
	g.Players[0].Hand = []Card{{Type: CardSwap}}

	require.True(t, g.PlayCard("p1", 0, "").OK)
	assert.NotEqual(t, PhaseRoundEnd, g.Phase, "round end waits for the swap target")

	require.True(t, g.SelectSwapTarget("p1", "p2").OK)

	assert.Equal(t, PhaseRoundEnd, g.Phase)
	assert.Equal(t, 1, g.Players[1].RoundsWon, "the receiver of the empty hand wins")
	assert.Equal(t, 0, g.Players[0].RoundsWon)
	assert.False(t, g.TimerActive)
}

func TestPenaltyCard(t *testing.T) {
	g := playingGame(t, 3)
	g.Players[0].Hand = []Card{
		{Type: CardLetter, Letter: "X", Penalty: 3},
		{Type: CardLetter, Letter: "A"},
	}
	targetHand := len(g.Players[2].Hand)
	pile := len(g.DrawPile)

	require.True(t, g.PlayCard("p1", 0, "xylophone").OK)

	require.NotNil(t, g.Pending)
	assert.Equal(t, PendingSelectPenaltyTarget, g.Pending.Type)
	assert.Equal(t, 3, g.Pending.Penalty)

	assert.False(t, g.SelectPenaltyTarget("p1", "p1").OK)

	require.True(t, g.SelectPenaltyTarget("p1", "p3").OK)

	assert.Len(t, g.Players[2].Hand, targetHand+3)
	assert.Len(t, g.DrawPile, pile-3)
	assert.Nil(t, g.Pending)
	assert.Equal(t, 1, g.CurrentPlayerIndex)
}

func TestLastCardPenaltyStillWinsRound(t *testing.T) {
	g := playingGame(t, 3)
	g.Players[0].Hand = []Card{{Type: CardLetter, Letter: "X", Penalty: 3}}

	require.True(t, g.PlayCard("p1", 0, "xylophone").OK)
	assert.NotEqual(t, PhaseRoundEnd, g.Phase, "round end waits for the penalty target")

	require.True(t, g.SelectPenaltyTarget("p1", "p2").OK)

	assert.Equal(t, PhaseRoundEnd, g.Phase)
	assert.Equal(t, 1, g.Players[0].RoundsWon)
}

func TestLastCardLetterEndsRound(t *testing.T) {
	g := playingGame(t, 3)
	g.Players[0].Hand = []Card{{Type: CardLetter, Letter: "C"}}

	require.True(t, g.PlayCard("p1", 0, "chat").OK)

	assert.Equal(t, PhaseRoundEnd, g.Phase)
	assert.Equal(t, 1, g.Players[0].RoundsWon)
	assert.False(t, g.TimerActive)
}

func TestGameEndAtThreshold(t *testing.T) {
	g := playingGame(t, 3)
	g.Players[0].RoundsWon = 2
	g.Players[0].Hand = []Card{{Type: CardLetter, Letter: "C"}}

	require.True(t, g.PlayCard("p1", 0, "chat").OK)

	assert.Equal(t, PhaseGameEnd, g.Phase)
	assert.Equal(t, 3, g.Players[0].RoundsWon)
}

func TestDrawCard(t *testing.T) {
	g := playingGame(t, 3)
	handLen := len(g.Players[0].Hand)
	pile := len(g.DrawPile)

	assert.Equal(t, "Ce n'est pas votre tour", g.DrawCard("p2").Reason)

	require.True(t, g.DrawCard("p1").OK)

	assert.Len(t, g.Players[0].Hand, handLen+1)
	assert.Len(t, g.DrawPile, pile-1)
	assert.Equal(t, 1, g.CurrentPlayerIndex)
	assert.Equal(t, 1, g.ConsecutiveDraws)
}

func TestDrawCardEmptyPileIsNoOp(t *testing.T) {
	g := playingGame(t, 3)
	g.DrawPile = nil
	handLen := len(g.Players[0].Hand)

	require.True(t, g.DrawCard("p1").OK)

	assert.Len(t, g.Players[0].Hand, handLen)
	assert.Equal(t, 0, g.CurrentPlayerIndex, "turn is not passed on an empty pile")
}

func TestCategoryAbandonedAfterFullTableOfDraws(t *testing.T) {
	g := playingGame(t, 3)

	require.True(t, g.DrawCard("p1").OK)
	require.True(t, g.DrawCard("p2").OK)
	assert.Equal(t, PhasePlaying, g.Phase)

	require.True(t, g.DrawCard("p3").OK)

	assert.Equal(t, PhaseCategorySelection, g.Phase)
	require.NotNil(t, g.Pending)
	assert.Equal(t, PendingSelectCategory, g.Pending.Type)
	assert.Equal(t, 0, g.ConsecutiveDraws)

	require.True(t, g.SelectCategory("p1", 1).OK)
	assert.Equal(t, PhasePlaying, g.Phase)
}

func TestPlayResetsConsecutiveDraws(t *testing.T) {
	g := playingGame(t, 3)
	require.True(t, g.DrawCard("p1").OK)

	g.Players[1].Hand = []Card{{Type: CardLetter, Letter: "A"}, {Type: CardLetter, Letter: "B"}}
	require.True(t, g.PlayCard("p2", 0, "ananas").OK)

	assert.Equal(t, 0, g.ConsecutiveDraws)
}

func TestNextRound(t *testing.T) {
	g := playingGame(t, 3)
	g.Players[0].Hand = []Card{{Type: CardLetter, Letter: "C"}}
	require.True(t, g.PlayCard("p1", 0, "chat").OK)
	require.Equal(t, PhaseRoundEnd, g.Phase)

	assert.False(t, g.NextRound("p2").OK, "guests cannot advance rounds")

	categoryPile := len(g.CategoryPile)

	require.True(t, g.NextRound("p1").OK)

	assert.Equal(t, PhaseCategorySelection, g.Phase)
	assert.Equal(t, 2, g.CurrentRound)
	for _, p := range g.Players {
		assert.Len(t, p.Hand, 8)
	}
	assert.Len(t, g.DrawPile, 78-3*8)
	assert.Len(t, g.CategoryPile, categoryPile-1, "the category pile continues across rounds")
	assert.Empty(t, g.UsedAnswers)
	assert.Nil(t, g.Pending)
	assert.False(t, g.SkipNext)
}

func TestEndGame(t *testing.T) {
	g := playingGame(t, 3)

	assert.False(t, g.EndGame("p2").OK)

	require.True(t, g.EndGame("p1").OK)
	assert.Equal(t, PhaseGameEnd, g.Phase)
	assert.False(t, g.TimerActive)
}

func TestReset(t *testing.T) {
	g := playingGame(t, 3)
	g.Players[0].RoundsWon = 2

	assert.False(t, g.Reset("p2").OK)

	require.True(t, g.Reset("p1").OK)

	assert.Equal(t, PhaseLobby, g.Phase)
	assert.Len(t, g.Players, 3)
	for _, p := range g.Players {
		assert.Empty(t, p.Hand)
		assert.Zero(t, p.RoundsWon)
		assert.False(t, p.Ready)
	}
	assert.Empty(t, g.DrawPile)
	assert.Nil(t, g.CurrentCategoryCard)
}

func TestTick(t *testing.T) {
	g := testGame(t, 3)
	assert.False(t, g.Tick(), "no countdown in the lobby")

	g = playingGame(t, 3)
	require.True(t, g.Tick())
	assert.Equal(t, 19, g.TimeLeft)

	g.Pending = &PendingAction{Type: PendingSelectSwapTarget}
	assert.False(t, g.Tick(), "countdown pauses on pending actions")
	g.Pending = nil

	g.TimeLeft = 1
	handLen := len(g.Players[0].Hand)

	require.True(t, g.Tick())

	assert.Len(t, g.Players[0].Hand, handLen+1, "expiry forces a draw")
	assert.Equal(t, 1, g.CurrentPlayerIndex)
	assert.Equal(t, 20, g.TimeLeft)
	assert.True(t, g.TimerActive, "timer stays armed for the next turn")
}

func TestRemovePlayer(t *testing.T) {
	g := testGame(t, 3)
	g.CurrentPlayerIndex = 2

	g.RemovePlayer("p1")
	assert.Len(t, g.Players, 2)
	assert.Equal(t, 1, g.CurrentPlayerIndex)

	g.RemovePlayer("p3")
	assert.Equal(t, 0, g.CurrentPlayerIndex, "index wraps when the tail is removed")

	g.RemovePlayer("ghost")
	assert.Len(t, g.Players, 1)
}

func TestRemovePlayerClearsOwnedPendingAction(t *testing.T) {
	g := playingGame(t, 3)
	g.Players[0].Hand = []Card{{Type: CardSwap}, {Type: CardLetter, Letter: "A"}}
	require.True(t, g.PlayCard("p1", 0, "").OK)
	require.NotNil(t, g.Pending)

	// A bystander leaving does not cancel the sub-action.
	g.RemovePlayer("p3")
	assert.NotNil(t, g.Pending)

	g.RemovePlayer("p1")

	assert.Nil(t, g.Pending)
	assert.Len(t, g.Players, 1)
	assert.Equal(t, 0, g.CurrentPlayerIndex)
}

func TestPlayerScore(t *testing.T) {
	p := &Player{RoundsWon: 2, Hand: make([]Card, 3)}
	assert.Equal(t, 170, playerScore(p))

	g := testGame(t, 2)
	g.Players[0].RoundsWon = 1
	g.refreshScores()
	assert.Equal(t, 100, g.Players[0].Score)
	assert.Equal(t, 0, g.Players[1].Score)
}
