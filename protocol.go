package main

// The wire protocol between a room's host hub and its peers. All
// messages are JSON objects with a "type" discriminator. Peers only ever
// send intents; the hub answers with full-state snapshots (never deltas),
// so a lost message is healed by the next successful broadcast.

// Intent message types (peer -> hub).
const (
	msgJoin           = "join"
	msgPlayCard       = "play-card"
	msgDrawCard       = "draw-card"
	msgChooseCategory = "choose-category"
	msgSwapTarget     = "swap-target"
	msgPenaltyTarget  = "penalty-target"
	msgStartGame      = "start-game"
	msgNextRound      = "next-round"
	msgEndGame        = "end-game"
	msgResetGame      = "reset-game"
	msgPlayerReady    = "player-ready"
)

// Replication message types (hub -> peers).
const (
	msgStateUpdate = "state-update"
	msgSessionInfo = "session-info"
	msgError       = "error"
)

// ClientMessage is the envelope for every peer intent.
type ClientMessage struct {
	Type           string `json:"type"`
	PlayerName     string `json:"playerName,omitempty"`     // join
	CardIndex      int    `json:"cardIndex"`                // play-card, swap-target (single-card variant, unused)
	Answer         string `json:"answer,omitempty"`         // play-card, letter cards only
	CategoryIndex  int    `json:"categoryIndex"`            // choose-category, 0|1|2
	TargetPlayerID string `json:"targetPlayerId,omitempty"` // swap-target, penalty-target
	SwapAll        bool   `json:"swapAll,omitempty"`        // swap-target
}

// StateUpdateMessage is the whole-snapshot broadcast. Seq increases
// monotonically per room; receivers drop anything at or below the last
// applied value, so stale out-of-order snapshots are never rendered.
type StateUpdateMessage struct {
	Type  string `json:"type"` // "state-update"
	Seq   uint64 `json:"seq"`
	State *Game  `json:"state"`
}

// SessionInfoMessage is sent to a single peer right after it connects, so
// it knows its identity before deciding whether to send a join.
type SessionInfoMessage struct {
	Type     string `json:"type"` // "session-info"
	PlayerID string `json:"playerId"`
	IsHost   bool   `json:"isHost"`
	RoomCode string `json:"roomCode"`
}

// ErrorMessage carries a rejected intent's reason back to the sender
// only. Rejections never mutate state, so nothing is broadcast.
type ErrorMessage struct {
	Type   string `json:"type"` // "error"
	Reason string `json:"reason"`
}
