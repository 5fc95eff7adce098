package main

import (
	"math/rand"
)

// Phase is the lifecycle stage of a game.
type Phase string

const (
	PhaseLobby             Phase = "lobby"
	PhaseCategorySelection Phase = "category-selection"
	PhasePlaying           Phase = "playing"
	PhaseRoundEnd          Phase = "round-end"
	PhaseGameEnd           Phase = "game-end"
)

// GameRules holds the per-room tunables.
type GameRules struct {
	HandSize     int // cards dealt per player per round
	TurnDuration int // seconds per turn
	RoundsToWin  int // round wins needed to win the game
	MinPlayers   int
	MaxPlayers   int
}

func defaultRules() GameRules {
	return GameRules{
		HandSize:     8,
		TurnDuration: 20,
		RoundsToWin:  3,
		MinPlayers:   2,
		MaxPlayers:   8,
	}
}

// Player is one participant. ID is the transport identity of the peer.
type Player struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Hand      []Card `json:"hand"`
	RoundsWon int    `json:"roundsWon"`
	IsHost    bool   `json:"isHost"`
	Ready     bool   `json:"ready"`
	Score     int    `json:"score"`
}

// PendingActionType discriminates the sub-states that suspend turn
// advancement until a specific player provides more input.
type PendingActionType string

const (
	PendingSelectCategory      PendingActionType = "select-category"
	PendingSelectSwapTarget    PendingActionType = "select-swap-target"
	PendingSelectPenaltyTarget PendingActionType = "select-penalty-target"
)

// PendingAction is a sub-state opened by a played card. At most one is
// active at a time.
type PendingAction struct {
	Type         PendingActionType `json:"type"`
	CategoryCard *CategoryCard     `json:"categoryCard,omitempty"`
	SwapCard     *Card             `json:"swapCard,omitempty"`
	Penalty      int               `json:"penalty,omitempty"`
}

// Game is the single authoritative aggregate. Only the owning room's hub
// goroutine mutates it; everyone else sees replicated snapshots.
type Game struct {
	Phase              Phase          `json:"phase"`
	Players            []*Player      `json:"players"`
	CurrentPlayerIndex int            `json:"currentPlayerIndex"`
	Direction          int            `json:"direction"` // 1 = clockwise, -1 = counter-clockwise
	CurrentCategory    string         `json:"currentCategory"`
	CurrentCategoryCard *CategoryCard `json:"currentCategoryCard"`
	UsedAnswers        []string       `json:"usedAnswers"` // normalized, current category only
	DrawPile           []Card         `json:"drawPile"`
	CategoryPile       []CategoryCard `json:"categoryPile"`
	CurrentRound       int            `json:"currentRound"`
	SkipNext           bool           `json:"skipNext"`
	TimeLeft           int            `json:"timeLeft"`
	TimerActive        bool           `json:"timerActive"`
	LastPlayedCard     *Card          `json:"lastPlayedCard"`
	Pending            *PendingAction `json:"pendingAction"`
	ConsecutiveDraws   int            `json:"consecutiveDraws"`

	rules GameRules
	rng   *rand.Rand
}

func newGame(rules GameRules, rng *rand.Rand) *Game {
	return &Game{
		Phase:        PhaseLobby,
		Direction:    1,
		CurrentRound: 1,
		TimeLeft:     rules.TurnDuration,
		rules:        rules,
		rng:          rng,
	}
}

// Result is the outcome of a player-facing operation. Rejections carry a
// human-readable reason and guarantee no state change happened.
type Result struct {
	OK     bool
	Reason string
}

func accepted() Result {
	return Result{OK: true}
}

func rejected(reason string) Result {
	return Result{Reason: reason}
}

// nextPlayerIndex computes the next turn holder. The step is direction,
// doubled when a skip is pending; the result wraps in both directions.
func nextPlayerIndex(current, playerCount, direction int, skip bool) int {
	step := direction
	if skip {
		step *= 2
	}
	return ((current+step)%playerCount + playerCount) % playerCount
}

// checkGameEnd reports whether some player reached the rounds-to-win
// threshold, and who.
func checkGameEnd(players []*Player, roundsToWin int) (over bool, winnerID string) {
	for _, p := range players {
		if p.RoundsWon >= roundsToWin {
			return true, p.ID
		}
	}
	return false, ""
}

func playerScore(p *Player) int {
	return p.RoundsWon*100 - len(p.Hand)*10
}

func (g *Game) refreshScores() {
	for _, p := range g.Players {
		p.Score = playerScore(p)
	}
}

func (g *Game) currentPlayer() *Player {
	if g.CurrentPlayerIndex < 0 || g.CurrentPlayerIndex >= len(g.Players) {
		return nil
	}
	return g.Players[g.CurrentPlayerIndex]
}

func (g *Game) playerByID(id string) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (g *Game) host() *Player {
	for _, p := range g.Players {
		if p.IsHost {
			return p
		}
	}
	return nil
}

// AddPlayer registers a joining peer. Joins are only accepted while the
// room sits in the lobby.
func (g *Game) AddPlayer(id, name string, isHost bool) Result {
	if g.Phase != PhaseLobby {
		return rejected("La partie a déjà commencé")
	}
	if len(g.Players) >= g.rules.MaxPlayers {
		return rejected("La partie est complète")
	}
	if g.playerByID(id) != nil {
		return rejected("Joueur déjà présent")
	}

	g.Players = append(g.Players, &Player{
		ID:     id,
		Name:   name,
		IsHost: isHost,
	})
	return accepted()
}

// RemovePlayer drops a disconnected peer and keeps CurrentPlayerIndex
// pointed at a valid player.
func (g *Game) RemovePlayer(id string) {
	for i, p := range g.Players {
		if p.ID != id {
			continue
		}

		// An open sub-action dies with the player who owed the input;
		// whoever inherits the turn starts it unencumbered.
		if g.Pending != nil && i == g.CurrentPlayerIndex {
			g.Pending = nil
		}

		g.Players = append(g.Players[:i], g.Players[i+1:]...)
		if i < g.CurrentPlayerIndex {
			g.CurrentPlayerIndex--
		}
		if g.CurrentPlayerIndex >= len(g.Players) {
			g.CurrentPlayerIndex = 0
		}
		return
	}
}

// ToggleReady flips a player's lobby readiness flag.
func (g *Game) ToggleReady(playerID string) Result {
	if g.Phase != PhaseLobby {
		return rejected("La partie a déjà commencé")
	}
	p := g.playerByID(playerID)
	if p == nil {
		return rejected("Joueur inconnu")
	}
	p.Ready = !p.Ready
	return accepted()
}

// Start deals the first round and enters category selection. Host only.
func (g *Game) Start(playerID string) Result {
	p := g.playerByID(playerID)
	if p == nil || !p.IsHost {
		return rejected("Seul l'hôte peut démarrer la partie")
	}
	if g.Phase != PhaseLobby {
		return rejected("La partie a déjà commencé")
	}
	if len(g.Players) < g.rules.MinPlayers {
		return rejected("Pas assez de joueurs")
	}

	deck := buildDeck(g.rng)
	hands, remaining := dealCards(deck, len(g.Players), g.rules.HandSize)
	for i, player := range g.Players {
		player.Hand = hands[i]
	}

	categoryDeck := buildCategoryDeck(g.rng)
	g.CurrentCategoryCard, g.CategoryPile = drawCategoryCard(categoryDeck)

	g.DrawPile = remaining
	g.Phase = PhaseCategorySelection
	g.CurrentPlayerIndex = 0
	g.CurrentRound = 1
	g.TimeLeft = g.rules.TurnDuration
	return accepted()
}

// Reset returns the room to the lobby, clearing hands and scores but
// keeping the players. Host only.
func (g *Game) Reset(playerID string) Result {
	p := g.playerByID(playerID)
	if p == nil || !p.IsHost {
		return rejected("Seul l'hôte peut réinitialiser la partie")
	}

	for _, player := range g.Players {
		player.Hand = nil
		player.RoundsWon = 0
		player.Ready = false
		player.Score = 0
	}

	g.Phase = PhaseLobby
	g.CurrentPlayerIndex = 0
	g.Direction = 1
	g.CurrentCategory = ""
	g.CurrentCategoryCard = nil
	g.UsedAnswers = nil
	g.DrawPile = nil
	g.CategoryPile = nil
	g.CurrentRound = 1
	g.SkipNext = false
	g.TimeLeft = g.rules.TurnDuration
	g.TimerActive = false
	g.LastPlayedCard = nil
	g.Pending = nil
	g.ConsecutiveDraws = 0
	return accepted()
}

// PlayCard plays the card at cardIndex from the acting player's hand,
// validating turn ownership, last-card restrictions and (for letter
// cards) the answer, then applies the card's effect.
func (g *Game) PlayCard(playerID string, cardIndex int, answer string) Result {
	if g.Phase != PhasePlaying {
		return rejected("La partie n'est pas en cours")
	}
	if g.Pending != nil {
		return rejected("Une action est en attente")
	}
	current := g.currentPlayer()
	if current == nil || current.ID != playerID {
		return rejected("Ce n'est pas votre tour")
	}
	if cardIndex < 0 || cardIndex >= len(current.Hand) {
		return rejected("Carte invalide")
	}

	card := current.Hand[cardIndex]

	// A round cannot end on a category change.
	if len(current.Hand) == 1 && card.Type == CardCrackList {
		return rejected("Impossible de finir avec CRACK LIST")
	}

	if card.Type == CardLetter {
		if answer == "" {
			return rejected("Réponse requise")
		}
		if ok, reason := validateAnswer(answer, card.Letter, g.UsedAnswers); !ok {
			return rejected(reason)
		}
	}

	current.Hand = append(current.Hand[:cardIndex:cardIndex], current.Hand[cardIndex+1:]...)
	played := card
	g.LastPlayedCard = &played
	if card.Type == CardLetter {
		g.UsedAnswers = append(g.UsedAnswers, normalizeAnswer(answer))
	}
	g.ConsecutiveDraws = 0

	skipJustSet := false
	switch card.Type {
	case CardStop:
		g.SkipNext = true
		skipJustSet = true
	case CardReverse:
		g.Direction = -g.Direction
	case CardCrackList:
		// The current card's other two faces become selectable again.
		g.Phase = PhaseCategorySelection
		g.Pending = &PendingAction{Type: PendingSelectCategory, CategoryCard: g.CurrentCategoryCard}
	case CardSwap:
		g.Pending = &PendingAction{Type: PendingSelectSwapTarget, SwapCard: &played}
	}

	if card.Type == CardLetter && card.Penalty > 0 {
		g.Pending = &PendingAction{Type: PendingSelectPenaltyTarget, Penalty: card.Penalty}
	}

	// When the played card both empties the hand and opens a sub-action,
	// the sub-action resolves first; the round ends once it does, credited
	// to whoever holds the empty hand at that point. A last-card SWAP can
	// therefore hand the round to the receiving player.
	if len(current.Hand) == 0 && g.Pending == nil {
		g.finishRound(current)
		return accepted()
	}

	if g.Pending == nil {
		g.advanceTurn(skipJustSet)
	}
	return accepted()
}

// DrawCard moves one card from the draw pile to the current player's hand
// and passes the turn. Drawing from an empty pile is a no-op.
func (g *Game) DrawCard(playerID string) Result {
	if g.Phase != PhasePlaying {
		return rejected("La partie n'est pas en cours")
	}
	if g.Pending != nil {
		return rejected("Une action est en attente")
	}
	current := g.currentPlayer()
	if current == nil || current.ID != playerID {
		return rejected("Ce n'est pas votre tour")
	}

	g.forceDraw()
	return accepted()
}

// forceDraw draws for the current player regardless of who asked; the
// turn timer uses it on expiry.
func (g *Game) forceDraw() {
	current := g.currentPlayer()
	if current == nil || len(g.DrawPile) == 0 {
		return
	}

	var drawn []Card
	drawn, g.DrawPile = drawCards(g.DrawPile, 1)
	current.Hand = append(current.Hand, drawn...)
	g.ConsecutiveDraws++
	g.advanceTurn(g.SkipNext)

	// Whole table drew in a row: the category is dead, pick a new one.
	if g.ConsecutiveDraws >= len(g.Players) {
		g.ConsecutiveDraws = 0
		g.Phase = PhaseCategorySelection
		g.Pending = &PendingAction{Type: PendingSelectCategory, CategoryCard: g.CurrentCategoryCard}
	}
}

// SelectCategory picks one of the three faces of the current category
// card, clears the used answers and starts the turn timer.
func (g *Game) SelectCategory(playerID string, categoryIndex int) Result {
	if g.Phase != PhaseCategorySelection {
		return rejected("Aucune catégorie à choisir")
	}
	current := g.currentPlayer()
	if current == nil || current.ID != playerID {
		return rejected("Ce n'est pas votre tour")
	}
	if categoryIndex < 0 || categoryIndex > 2 {
		return rejected("Catégorie invalide")
	}
	if g.CurrentCategoryCard == nil {
		return rejected("Catégorie invalide")
	}

	g.CurrentCategory = g.CurrentCategoryCard.Categories[categoryIndex]
	g.UsedAnswers = nil
	g.Phase = PhasePlaying
	g.Pending = nil
	g.TimeLeft = g.rules.TurnDuration
	g.TimerActive = true
	return accepted()
}

// SelectSwapTarget exchanges the current player's entire hand with the
// target's, then resolves any deferred round end.
func (g *Game) SelectSwapTarget(playerID, targetID string) Result {
	if g.Pending == nil || g.Pending.Type != PendingSelectSwapTarget {
		return rejected("Aucun échange en attente")
	}
	current := g.currentPlayer()
	if current == nil || current.ID != playerID {
		return rejected("Ce n'est pas votre tour")
	}
	target := g.playerByID(targetID)
	if target == nil || target == current {
		return rejected("Joueur invalide")
	}

	current.Hand, target.Hand = target.Hand, current.Hand
	g.Pending = nil

	for _, p := range g.Players {
		if len(p.Hand) == 0 {
			g.finishRound(p)
			return accepted()
		}
	}

	g.advanceTurn(false)
	return accepted()
}

// SelectPenaltyTarget makes the chosen victim draw the penalty amount,
// then resolves any deferred round end.
func (g *Game) SelectPenaltyTarget(playerID, targetID string) Result {
	if g.Pending == nil || g.Pending.Type != PendingSelectPenaltyTarget {
		return rejected("Aucune pénalité en attente")
	}
	current := g.currentPlayer()
	if current == nil || current.ID != playerID {
		return rejected("Ce n'est pas votre tour")
	}
	target := g.playerByID(targetID)
	if target == nil || target == current {
		return rejected("Joueur invalide")
	}

	var drawn []Card
	drawn, g.DrawPile = drawCards(g.DrawPile, g.Pending.Penalty)
	target.Hand = append(target.Hand, drawn...)
	g.Pending = nil

	if len(current.Hand) == 0 {
		g.finishRound(current)
		return accepted()
	}

	g.advanceTurn(g.SkipNext)
	return accepted()
}

// NextRound rebuilds the draw pile, re-deals, and moves to the next
// category card. Host only, from the round-end screen.
func (g *Game) NextRound(playerID string) Result {
	p := g.playerByID(playerID)
	if p == nil || !p.IsHost {
		return rejected("Seul l'hôte peut lancer la manche suivante")
	}
	if g.Phase != PhaseRoundEnd {
		return rejected("La manche n'est pas terminée")
	}

	deck := buildDeck(g.rng)
	hands, remaining := dealCards(deck, len(g.Players), g.rules.HandSize)
	for i, player := range g.Players {
		player.Hand = hands[i]
	}
	g.DrawPile = remaining

	// The category pile continues across rounds and is only rebuilt once
	// exhausted.
	if len(g.CategoryPile) == 0 {
		g.CategoryPile = buildCategoryDeck(g.rng)
	}
	g.CurrentCategoryCard, g.CategoryPile = drawCategoryCard(g.CategoryPile)

	g.Phase = PhaseCategorySelection
	g.CurrentRound++
	g.UsedAnswers = nil
	g.CurrentCategory = ""
	g.LastPlayedCard = nil
	g.Pending = nil
	g.SkipNext = false
	g.TimeLeft = g.rules.TurnDuration
	g.TimerActive = false
	g.ConsecutiveDraws = 0
	return accepted()
}

// EndGame moves straight to the game-end screen. Host only.
func (g *Game) EndGame(playerID string) Result {
	p := g.playerByID(playerID)
	if p == nil || !p.IsHost {
		return rejected("Seul l'hôte peut terminer la partie")
	}

	g.Phase = PhaseGameEnd
	g.TimerActive = false
	return accepted()
}

// Tick advances the turn countdown by one second. On expiry it forces a
// draw for the current player and re-arms for the new turn holder. The
// caller reports whether anything changed.
func (g *Game) Tick() bool {
	if !g.TimerActive || g.Phase != PhasePlaying || g.Pending != nil {
		return false
	}

	if g.TimeLeft <= 1 {
		g.forceDraw()
		g.TimeLeft = g.rules.TurnDuration
		return true
	}

	g.TimeLeft--
	return true
}

func (g *Game) finishRound(winner *Player) {
	winner.RoundsWon++
	g.TimerActive = false
	g.Pending = nil

	if over, _ := checkGameEnd(g.Players, g.rules.RoundsToWin); over {
		g.Phase = PhaseGameEnd
	} else {
		g.Phase = PhaseRoundEnd
	}
}

func (g *Game) advanceTurn(skip bool) {
	g.CurrentPlayerIndex = nextPlayerIndex(g.CurrentPlayerIndex, len(g.Players), g.Direction, skip)
	g.SkipNext = false
	g.TimeLeft = g.rules.TurnDuration
}
