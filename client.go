package main

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/gorilla/websocket"
)

// Guest is the peer-side view of a room. It holds no authority: it sends
// intents to the host's hub and mirrors the snapshots that come back.
// The mirrored state is replaced wholesale on every accepted snapshot,
// never patched.
type Guest struct {
	conn *websocket.Conn

	mu       sync.RWMutex
	state    *Game
	lastSeq  uint64
	playerID string
	isHost   bool
	roomCode string

	// Updates receives a signal after each applied snapshot; Errors
	// receives the reasons of rejected intents. Both are best-effort:
	// a slow consumer drops notifications, not state.
	Updates chan struct{}
	Errors  chan string

	closeOnce sync.Once
	done      chan struct{}
}

// JoinRoom dials the room's WebSocket endpoint and announces the given
// player name. The returned Guest is live: its read loop is already
// mirroring snapshots.
func JoinRoom(url, playerName string) (*Guest, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}

	g := &Guest{
		conn:    conn,
		Updates: make(chan struct{}, 1),
		Errors:  make(chan string, 8),
		done:    make(chan struct{}),
	}

	// The hub sends session info before anything else.
	var info SessionInfoMessage
	if err := conn.ReadJSON(&info); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if info.Type != msgSessionInfo {
		_ = conn.Close()
		return nil, errors.New("unexpected first message: " + info.Type)
	}

	g.playerID = info.PlayerID
	g.isHost = info.IsHost
	g.roomCode = info.RoomCode

	if err := g.sendIntent(ClientMessage{Type: msgJoin, PlayerName: playerName}); err != nil {
		_ = conn.Close()
		return nil, err
	}

	go g.readLoop()

	return g, nil
}

func (g *Guest) readLoop() {
	defer g.Close()

	for {
		_, raw, err := g.conn.ReadMessage()
		if err != nil {
			return
		}

		var header struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(raw, &header); err != nil {
			continue
		}

		switch header.Type {
		case msgStateUpdate:
			var msg StateUpdateMessage
			if err := json.Unmarshal(raw, &msg); err != nil {
				continue
			}
			if g.applyStateUpdate(msg) {
				select {
				case g.Updates <- struct{}{}:
				default:
				}
			}

		case msgError:
			var msg ErrorMessage
			if err := json.Unmarshal(raw, &msg); err != nil {
				continue
			}
			select {
			case g.Errors <- msg.Reason:
			default:
			}
		}
	}
}

// applyStateUpdate replaces the mirrored state if the snapshot is newer
// than the last applied one. Stale or duplicate snapshots are dropped,
// so out-of-order delivery can never roll the mirror backwards.
func (g *Guest) applyStateUpdate(msg StateUpdateMessage) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if msg.Seq <= g.lastSeq {
		return false
	}

	g.lastSeq = msg.Seq
	g.state = msg.State
	return true
}

// State returns the last mirrored snapshot, or nil before the first one
// arrives. Callers must treat it as read-only.
func (g *Guest) State() *Game {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.state
}

func (g *Guest) PlayerID() string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.playerID
}

func (g *Guest) IsHost() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.isHost
}

func (g *Guest) RoomCode() string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.roomCode
}

func (g *Guest) sendIntent(msg ClientMessage) error {
	return g.conn.WriteJSON(msg)
}

func (g *Guest) PlayCard(cardIndex int, answer string) error {
	return g.sendIntent(ClientMessage{Type: msgPlayCard, CardIndex: cardIndex, Answer: answer})
}

func (g *Guest) DrawCard() error {
	return g.sendIntent(ClientMessage{Type: msgDrawCard})
}

func (g *Guest) ChooseCategory(categoryIndex int) error {
	return g.sendIntent(ClientMessage{Type: msgChooseCategory, CategoryIndex: categoryIndex})
}

func (g *Guest) SwapTarget(targetPlayerID string) error {
	return g.sendIntent(ClientMessage{Type: msgSwapTarget, TargetPlayerID: targetPlayerID, SwapAll: true})
}

func (g *Guest) PenaltyTarget(targetPlayerID string) error {
	return g.sendIntent(ClientMessage{Type: msgPenaltyTarget, TargetPlayerID: targetPlayerID})
}

func (g *Guest) Ready() error {
	return g.sendIntent(ClientMessage{Type: msgPlayerReady})
}

func (g *Guest) StartGame() error {
	return g.sendIntent(ClientMessage{Type: msgStartGame})
}

func (g *Guest) NextRound() error {
	return g.sendIntent(ClientMessage{Type: msgNextRound})
}

func (g *Guest) EndGame() error {
	return g.sendIntent(ClientMessage{Type: msgEndGame})
}

func (g *Guest) ResetGame() error {
	return g.sendIntent(ClientMessage{Type: msgResetGame})
}

// Close tears the connection down; safe to call more than once.
func (g *Guest) Close() {
	g.closeOnce.Do(func() {
		close(g.done)
		_ = g.conn.Close()
	})
}

// Done is closed once the connection is gone.
func (g *Guest) Done() <-chan struct{} {
	return g.done
}
