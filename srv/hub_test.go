package srv

import (
	"encoding/json"
	"math/rand"
	"testing"

	"royale/server/account"
	"royale/server/game"
	"royale/server/protocol"
)

func newTestHub(t *testing.T) (*Hub, *Matchmaker) {
	t.Helper()
	store := account.NewStore(t.TempDir())
	mm := NewMatchmaker(store, rand.New(rand.NewSource(1)))
	mm.startBattle = func(*game.Battle) {}
	return NewHub(mm, store), mm
}

// addClient registers a connection-less client; only its send channel is
// exercised here.
func addClient(h *Hub, id string) *client {
	c := &client{send: make(chan []byte, 64), id: id}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

func drain(t *testing.T, c *client) []protocol.MsgEnvelope {
	t.Helper()
	var out []protocol.MsgEnvelope
	for {
		select {
		case raw := <-c.send:
			var env protocol.MsgEnvelope
			if err := json.Unmarshal(raw, &env); err != nil {
				t.Fatalf("bad frame: %v", err)
			}
			out = append(out, env)
		default:
			return out
		}
	}
}

func TestHubSyncsViewsOnSnapshotInterval(t *testing.T) {
	h, mm := newTestHub(t)
	alice := addClient(h, "alice")
	addClient(h, "bob")
	mm.Submit(req("alice", 1000))
	mm.Submit(req("bob", 1010))

	ticksPerSnapshot := protocol.SnapshotIntervalMs / protocol.CoordinatorTickMs
	for i := 0; i < ticksPerSnapshot-1; i++ {
		h.tickOnce()
	}

	var views, found int
	for _, env := range drain(t, alice) {
		switch env.Type {
		case "PlayerView":
			views++
		case "MatchFound":
			found++
		}
	}
	if found != 1 {
		t.Fatalf("MatchFound frames %d, want 1", found)
	}
	if views != 0 {
		t.Fatalf("view frames %d before the snapshot interval, want 0", views)
	}

	h.tickOnce()
	views = 0
	for _, env := range drain(t, alice) {
		if env.Type == "PlayerView" {
			views++
		}
	}
	if views != 1 {
		t.Errorf("view frames %d on the snapshot interval, want 1", views)
	}
}
