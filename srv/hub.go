package srv

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"royale/server/account"
	"royale/server/game"
	"royale/server/protocol"
)

type client struct {
	conn *websocket.Conn
	send chan []byte
	id   string // authenticated player id (username)
}

// Hub is the websocket gateway: it binds authenticated connections to
// player ids, feeds their commands into the matchmaker, and pushes view
// sync frames back out on the coordinator tick.
type Hub struct {
	mu       sync.Mutex
	clients  map[*client]struct{}
	mm       *Matchmaker
	accounts *account.Store

	ticks int // coordinator ticks since the last view sync
}

func NewHub(mm *Matchmaker, accounts *account.Store) *Hub {
	h := &Hub{
		clients:  make(map[*client]struct{}),
		mm:       mm,
		accounts: accounts,
	}
	mm.SetNotifier(h.send)
	return h
}

// Run drives the coordinator: pairing and the reward sweep every tick, plus
// a PlayerView sync frame per in-match client on the snapshot interval.
func (h *Hub) Run() {
	ticker := time.NewTicker(protocol.CoordinatorTickMs * time.Millisecond)
	defer ticker.Stop()
	for range ticker.C {
		h.tickOnce()
	}
}

func (h *Hub) tickOnce() {
	h.mm.Tick()

	h.ticks++
	if h.ticks*protocol.CoordinatorTickMs < protocol.SnapshotIntervalMs {
		return
	}
	h.ticks = 0
	h.syncViews()
}

func (h *Hub) syncViews() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		if matchID, ok := h.mm.MatchFor(c.id); ok {
			if view, ok := h.mm.ViewFor(matchID, c.id); ok {
				sendJSON(c, "PlayerView", view)
			}
		}
	}
}

// send delivers a message to whichever connections belong to playerID.
func (h *Hub) send(playerID, msgType string, v interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if c.id == playerID {
			sendJSON(c, msgType, v)
		}
	}
}

func sendJSON(c *client, typ string, v interface{}) {
	b, _ := json.Marshal(v)
	out, _ := json.Marshal(protocol.MsgEnvelope{Type: typ, Data: b})
	select {
	case c.send <- out:
	default:
	}
}

// HandleWS binds an authenticated connection and pumps messages. The
// username comes from the verified token at upgrade time.
func (h *Hub) HandleWS(conn *websocket.Conn, username string) {
	c := &client{conn: conn, send: make(chan []byte, 64), id: username}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go c.writer()

	// Send the profile immediately; include the live match id so a
	// reconnecting player can rejoin it.
	if acc, err := h.accounts.Load(username); err == nil {
		prof := protocol.Profile{
			PlayerID: acc.ID,
			Name:     acc.Name,
			Trophies: acc.Trophies,
			Deck:     acc.Deck,
		}
		if matchID, ok := h.mm.MatchFor(username); ok {
			prof.InBattle = matchID
		}
		sendJSON(c, "Profile", prof)
	}

	c.reader(h)
}

func (c *client) writer() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func (c *client) reader(h *Hub) {
	defer func() {
		c.conn.Close()
		h.mm.Cancel(c.id)
		h.mu.Lock()
		delete(h.clients, c)
		h.mu.Unlock()
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			log.Printf("ws: read from %s: %v", c.id, err)
			return
		}
		var env protocol.MsgEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			log.Printf("ws: bad envelope from %s", c.id)
			continue
		}
		h.dispatch(c, env)
	}
}

func (h *Hub) dispatch(c *client, env protocol.MsgEnvelope) {
	switch env.Type {

	case "MatchRequest":
		var msg protocol.MatchRequest
		if err := json.Unmarshal(env.Data, &msg); err != nil {
			log.Printf("ws: bad MatchRequest from %s", c.id)
			return
		}
		// Identity and trophies are server-authoritative.
		msg.PlayerID = c.id
		if acc, err := h.accounts.Load(c.id); err == nil {
			msg.Trophies = acc.Trophies
			if len(msg.Deck) == 0 {
				msg.Deck = acc.Deck
			}
		}
		h.mm.Submit(msg)

	case "CancelMatchRequest":
		h.mm.Cancel(c.id)

	case "DeployUnit":
		var msg protocol.DeployUnit
		if err := json.Unmarshal(env.Data, &msg); err != nil {
			log.Printf("ws: bad DeployUnit from %s", c.id)
			return
		}
		if _, err := h.mm.Deploy(msg.MatchID, c.id, msg.Card, game.Tile{X: msg.X, Y: msg.Y}); err != nil {
			log.Printf("deploy rejected: player=%s card=%s: %v", c.id, msg.Card, err)
			sendJSON(c, "DeployRejected", protocol.DeployRejected{
				MatchID: msg.MatchID,
				Card:    msg.Card,
				Reason:  err.Error(),
			})
		}

	case "GetMatchView":
		var msg protocol.GetMatchView
		if err := json.Unmarshal(env.Data, &msg); err != nil {
			log.Printf("ws: bad GetMatchView from %s", c.id)
			return
		}
		if view, ok := h.mm.ViewFor(msg.MatchID, c.id); ok {
			sendJSON(c, "PlayerView", view)
		}

	default:
		log.Printf("ws: unhandled msg type %q from %s", env.Type, c.id)
	}
}
