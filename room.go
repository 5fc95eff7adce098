// Cracklist game rooms.
//
// Each room groups one host and up to seven guest peers around a single
// game. The room's hub goroutine is the only writer of the game state:
// every intent, local or remote, goes through the same validating entry
// points, and every accepted intent is followed by a broadcast of the
// entire resulting state to all connected peers. Guests overwrite their
// local copy wholesale, so the host's copy is the single source of truth
// and no incremental conflict resolution is ever needed.
//
// Features:
// - WebSockets per room code: /room/:code and /room/:code/ws
// - First connection to a room becomes the host
// - Room codes are random 6-char strings with server-side collision check
// - Peers identified by cookie (playerID)
// - Per-turn countdown enforced by the hub; expiry forces a draw
// - Rejected intents are answered to the offending peer only
// - Rooms auto-reaped after a configurable idle timeout
// - In-browser QR to share the current room, backed by go-qrcode

package main

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	mrand "math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

type wsClient struct {
	conn     *websocket.Conn
	send     chan any
	playerID string
}

type intentRequest struct {
	client *wsClient
	msg    ClientMessage
}

// Room owns one game and the peers connected to it.
type Room struct {
	code    string
	clients map[*wsClient]bool
	game    *Game

	register chan *wsClient
	unreg    chan *wsClient
	intents  chan intentRequest

	mu sync.RWMutex

	createdAt    time.Time
	lastActive   time.Time
	hostPlayerID string // cookie/playerID of the room creator
	seq          uint64 // snapshot counter, monotonically increasing
}

func newRoom(code string, rules GameRules) *Room {
	now := time.Now()
	return &Room{
		code:       code,
		clients:    make(map[*wsClient]bool),
		game:       newGame(rules, mrand.New(mrand.NewSource(now.UnixNano()))),
		register:   make(chan *wsClient),
		unreg:      make(chan *wsClient),
		intents:    make(chan intentRequest),
		createdAt:  now,
		lastActive: now,
	}
}

func (r *Room) run(cfg *Config) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case c := <-r.register:
			r.mu.Lock()
			r.lastActive = time.Now()

			// First connection becomes the host.
			if r.hostPlayerID == "" {
				r.hostPlayerID = c.playerID
			}

			r.clients[c] = true

			// Session info first, so the client knows its identity before
			// deciding whether to send a join.
			r.sendLocked(c, SessionInfoMessage{
				Type:     msgSessionInfo,
				PlayerID: c.playerID,
				IsHost:   c.playerID == r.hostPlayerID,
				RoomCode: r.code,
			})

			if raw, ok := r.encodeStateLocked(); ok {
				r.sendLocked(c, raw)
			}
			r.mu.Unlock()

		case c := <-r.unreg:
			r.mu.Lock()
			r.lastActive = time.Now()

			if _, ok := r.clients[c]; ok {
				delete(r.clients, c)
				close(c.send)
			}
			playerID := c.playerID
			isHost := playerID == r.hostPlayerID
			r.mu.Unlock()

			// The host "leaving" does not remove its player entry; a lost
			// host strands the room until the reaper collects it.
			if playerID != "" && !isHost {
				go r.scheduleRemoval(cfg, playerID, cfg.playerTimeout)
			}

		case ir := <-r.intents:
			r.handleIntent(cfg, ir)

		case <-ticker.C:
			r.mu.Lock()
			if r.game.Tick() {
				r.broadcastStateLocked()
			}
			r.mu.Unlock()
		}
	}
}

// handleIntent routes one peer intent through the game's validating
// entry points. Rejections go back to the sender alone; accepted intents
// are followed by a full-state broadcast.
func (r *Room) handleIntent(cfg *Config, ir intentRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastActive = time.Now()

	res := r.apply(ir.client.playerID, ir.msg)
	if !res.OK {
		logf(cfg, "ROOMS: Rejected %q from %s in %s: %s", ir.msg.Type, ir.client.playerID, r.code, res.Reason)
		r.sendLocked(ir.client, ErrorMessage{
			Type:   msgError,
			Reason: res.Reason,
		})
		return
	}

	if ir.msg.Type == msgJoin {
		logf(cfg, "ROOMS: Player %q joined %s", ir.msg.PlayerName, r.code)
	}

	r.broadcastStateLocked()
}

// apply maps an intent envelope onto a game operation for the given
// peer. Guests never reach the game through any other path, so a remote
// "already applied" state can never be smuggled in.
func (r *Room) apply(playerID string, msg ClientMessage) Result {
	switch msg.Type {
	case msgJoin:
		name := strings.TrimSpace(msg.PlayerName)
		if name == "" {
			return rejected("Nom de joueur requis")
		}
		return r.game.AddPlayer(playerID, name, playerID == r.hostPlayerID)
	case msgPlayerReady:
		return r.game.ToggleReady(playerID)
	case msgStartGame:
		return r.game.Start(playerID)
	case msgPlayCard:
		return r.game.PlayCard(playerID, msg.CardIndex, msg.Answer)
	case msgDrawCard:
		return r.game.DrawCard(playerID)
	case msgChooseCategory:
		return r.game.SelectCategory(playerID, msg.CategoryIndex)
	case msgSwapTarget:
		return r.game.SelectSwapTarget(playerID, msg.TargetPlayerID)
	case msgPenaltyTarget:
		return r.game.SelectPenaltyTarget(playerID, msg.TargetPlayerID)
	case msgNextRound:
		return r.game.NextRound(playerID)
	case msgEndGame:
		return r.game.EndGame(playerID)
	case msgResetGame:
		return r.game.Reset(playerID)
	default:
		return rejected("Message inconnu")
	}
}

// encodeStateLocked stamps the next sequence number and marshals the
// snapshot while the lock is held. Peers are handed the finished bytes,
// so later mutations by the hub can never show through a queued message.
// Assumes r.mu is held.
func (r *Room) encodeStateLocked() (json.RawMessage, bool) {
	r.seq++
	r.game.refreshScores()

	raw, err := json.Marshal(StateUpdateMessage{
		Type:  msgStateUpdate,
		Seq:   r.seq,
		State: r.game,
	})
	if err != nil {
		log.Println("snapshot encode error:", err)
		return nil, false
	}

	return raw, true
}

// broadcastStateLocked pushes the whole game state to every connected
// peer. Assumes r.mu is held.
func (r *Room) broadcastStateLocked() {
	raw, ok := r.encodeStateLocked()
	if !ok {
		return
	}

	for client := range r.clients {
		r.sendLocked(client, raw)
	}
}

// sendLocked delivers without blocking; a peer that cannot keep up is
// evicted. Assumes r.mu is held.
func (r *Room) sendLocked(c *wsClient, msg any) {
	select {
	case c.send <- msg:
	default:
		delete(r.clients, c)
		close(c.send)
	}
}

// scheduleRemoval waits for d, and if no client with this playerID has
// reconnected, removes that player from the game and broadcasts the
// updated state.
func (r *Room) scheduleRemoval(cfg *Config, playerID string, d time.Duration) {
	time.Sleep(d)

	r.mu.Lock()
	defer r.mu.Unlock()

	for client := range r.clients {
		if client.playerID == playerID {
			return
		}
	}

	r.game.RemovePlayer(playerID)
	r.lastActive = time.Now()
	logf(cfg, "ROOMS: Removed disconnected player %s from %s", playerID, r.code)

	r.broadcastStateLocked()
}

// closeAll disconnects all peers of this room (used by the reaper).
func (r *Room) closeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for c := range r.clients {
		close(c.send)
		_ = c.conn.Close()
		delete(r.clients, c)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const playerCookieName = "cracklist_id"

func getOrSetPlayerID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(playerCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		log.Println("rand.Read error:", err)
		return ""
	}
	id := hex.EncodeToString(buf)

	http.SetCookie(w, &http.Cookie{
		Name:     playerCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}

// RoomManager holds the set of live rooms keyed by room code.
type RoomManager struct {
	mu          sync.Mutex
	rooms       map[string]*Room
	idleTimeout time.Duration
}

func newRoomManager(idleTimeout time.Duration) *RoomManager {
	rm := &RoomManager{
		rooms:       make(map[string]*Room),
		idleTimeout: idleTimeout,
	}
	if idleTimeout > 0 {
		go rm.reaperLoop()
	}
	return rm
}

func (rm *RoomManager) getRoom(code string) (*Room, bool) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	room, ok := rm.rooms[code]
	return room, ok
}

func (rm *RoomManager) createRoom(cfg *Config) *Room {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	for {
		code := newRoomCode(6)
		if _, exists := rm.rooms[code]; exists {
			continue
		}

		room := newRoom(code, cfg.rules())
		rm.rooms[code] = room
		go room.run(cfg)
		return room
	}
}

// newRoomCode generates a crypto-random room code of length n, using
// rejection sampling to keep the distribution uniform.
func newRoomCode(n int) string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	const max = byte(255 - (256 % len(letters)))

	out := make([]byte, 0, n)
	buf := make([]byte, n*2)

	for {
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}

		for _, b := range buf {
			if b <= max {
				out = append(out, letters[int(b)%len(letters)])
				if len(out) == n {
					return string(out)
				}
			}
		}
	}
}

// reaperLoop periodically removes rooms idle longer than idleTimeout.
func (rm *RoomManager) reaperLoop() {
	ticker := time.NewTicker(rm.idleTimeout / 2)
	for range ticker.C {
		cutoff := time.Now().Add(-rm.idleTimeout)

		rm.mu.Lock()
		for code, room := range rm.rooms {
			room.mu.RLock()
			last := room.lastActive
			room.mu.RUnlock()

			if last.Before(cutoff) {
				delete(rm.rooms, code)
				go room.closeAll()
			}
		}
		rm.mu.Unlock()
	}
}

// serveWSForManager upgrades a peer connection for the room in :code.
func serveWSForManager(cfg *Config, rm *RoomManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		code := ps.ByName("code")
		room, ok := rm.getRoom(code)
		if !ok {
			http.Error(w, "no such room", http.StatusNotFound)
			return
		}

		playerID := getOrSetPlayerID(w, r)
		if playerID == "" {
			http.Error(w, "unable to assign player id", http.StatusInternalServerError)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error:", err)
			return
		}

		client := &wsClient{
			conn:     conn,
			send:     make(chan any, 8),
			playerID: playerID,
		}

		room.register <- client

		go client.writePump()
		client.readPump(room)
	}
}

func (c *wsClient) readPump(r *Room) {
	defer func() {
		r.unreg <- c
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		r.intents <- intentRequest{
			client: c,
			msg:    msg,
		}
	}
}

func (c *wsClient) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		var err error
		switch payload := msg.(type) {
		case json.RawMessage:
			err = c.conn.WriteMessage(websocket.TextMessage, payload)
		default:
			err = c.conn.WriteJSON(msg)
		}
		if err != nil {
			return
		}
	}
}

// qrHandler generates a PNG QR code for the current room URL.
func qrHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	code := ps.ByName("code")
	if code == "" {
		http.Error(w, "missing room code", http.StatusBadRequest)
		return
	}

	// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	// We are at /.../:code/qr; strip trailing "/qr" to get the room URL.
	path := strings.TrimSuffix(r.URL.Path, "/qr")

	url := scheme + "://" + r.Host + path

	const qrSize = 320 // mobile-friendly size
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

// serveRoomPage is the landing page for a room link; the room code on it
// is the out-of-band invitation.
func serveRoomPage(cfg *Config, rm *RoomManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		code := ps.ByName("code")
		if _, ok := rm.getRoom(code); !ok {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			securityHeaders(cfg, w)
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(newPage("Room not found", "This room does not exist or has been closed.")))
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(cfg, w)

		_ = getOrSetPlayerID(w, r)

		_, _ = w.Write([]byte(newPage("Room "+code, "Room code: "+code)))
	}
}

// redirectNewRoom handles GET /room by creating a new room and
// redirecting to /room/:code.
func redirectNewRoom(cfg *Config, path string, rm *RoomManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		room := rm.createRoom(cfg)
		logf(cfg, "ROOMS: Created room %s%s/%s", cfg.prefix, path, room.code)
		http.Redirect(w, r, cfg.prefix+path+"/"+room.code, http.StatusTemporaryRedirect)
	}
}

// registerRoomRoutes sets up routes so that:
//   - $path              → creates a room and redirects to it
//   - $path/:code        → landing page with the room code
//   - $path/:code/ws     → WebSocket for that room
//   - $path/:code/qr     → PNG QR code for that room URL
func registerRoomRoutes(cfg *Config, path string, mux *httprouter.Router) {
	rm := newRoomManager(cfg.sessionTimeout)

	mux.GET(cfg.prefix+path, redirectNewRoom(cfg, path, rm))

	mux.GET(cfg.prefix+path+"/:code", serveRoomPage(cfg, rm))

	mux.GET(cfg.prefix+path+"/:code/ws", serveWSForManager(cfg, rm))

	mux.GET(cfg.prefix+path+"/:code/qr", qrHandler)
}
