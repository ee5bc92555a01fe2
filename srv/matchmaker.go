package srv

import (
	"errors"
	"log"
	"math/rand"
	"sync"

	"github.com/google/uuid"

	"royale/server/account"
	"royale/server/game"
	"royale/server/protocol"
)

var ErrUnknownMatch = errors.New("unknown match")

// Matchmaker owns the waiting list and the active-match table. It creates
// battles, hands them their tick loops, and settles trophies when they end.
// It never mutates battle internals; it only reads termination results.
type Matchmaker struct {
	mu       sync.Mutex
	waiting  []protocol.MatchRequest
	matches  map[string]*game.Battle
	accounts *account.Store
	rng      *rand.Rand // guarded by mu

	// notify delivers a message to a connected player; set by the hub.
	notify func(playerID, msgType string, v interface{})
	// startBattle launches the battle's loops; replaceable in tests.
	startBattle func(b *game.Battle)
}

func NewMatchmaker(accounts *account.Store, rng *rand.Rand) *Matchmaker {
	return &Matchmaker{
		matches:     make(map[string]*game.Battle),
		accounts:    accounts,
		rng:         rng,
		notify:      func(string, string, interface{}) {},
		startBattle: func(b *game.Battle) { b.Start() },
	}
}

func (m *Matchmaker) SetNotifier(fn func(playerID, msgType string, v interface{})) {
	m.notify = fn
}

// Submit enqueues a match request. Duplicate requests from a player already
// waiting or already in an active match are a no-op.
func (m *Matchmaker) Submit(req protocol.MatchRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.waiting {
		if w.PlayerID == req.PlayerID {
			return
		}
	}
	for _, b := range m.matches {
		if b.HasPlayer(req.PlayerID) {
			return
		}
	}
	m.waiting = append(m.waiting, req)
}

// Cancel removes a player's pending request, if any.
func (m *Matchmaker) Cancel(playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, w := range m.waiting {
		if w.PlayerID == playerID {
			m.waiting = append(m.waiting[:i], m.waiting[i+1:]...)
			return
		}
	}
}

func compatible(a, b protocol.MatchRequest) bool {
	diff := a.Trophies - b.Trophies
	if diff < 0 {
		diff = -diff
	}
	return diff <= protocol.MaxTrophyDiff
}

// Tick runs one coordinator pass: greedy first-compatible pairing over the
// waiting list, then a sweep of finished matches for reward settlement.
func (m *Matchmaker) Tick() {
	m.mu.Lock()

	used := make([]bool, len(m.waiting))
	for i := 0; i < len(m.waiting); i++ {
		if used[i] {
			continue
		}
		for j := i + 1; j < len(m.waiting); j++ {
			if used[j] {
				continue
			}
			if compatible(m.waiting[i], m.waiting[j]) {
				used[i], used[j] = true, true
				m.createMatch(m.waiting[i], m.waiting[j])
				break
			}
		}
	}
	rest := m.waiting[:0]
	for i, w := range m.waiting {
		if !used[i] {
			rest = append(rest, w)
		}
	}
	m.waiting = rest

	type outcome struct{ id, winner, loser string }
	var finished []outcome
	for id, b := range m.matches {
		if winner, loser, ok := b.Result(); ok {
			finished = append(finished, outcome{id, winner, loser})
			delete(m.matches, id)
		}
	}
	m.mu.Unlock()

	for _, o := range finished {
		m.settle(o.id, o.winner, o.loser)
	}
}

// createMatch is called with m.mu held.
func (m *Matchmaker) createMatch(a, b protocol.MatchRequest) {
	id := uuid.NewString()
	// Each battle gets its own RNG so concurrent matches never contend.
	rng := rand.New(rand.NewSource(m.rng.Int63()))
	battle := game.NewBattle(id, a.PlayerID, b.PlayerID,
		game.DeckByNames(a.Deck), game.DeckByNames(b.Deck), rng)
	m.matches[id] = battle

	if err := m.accounts.SetCurrentBattle(a.PlayerID, id); err != nil {
		log.Printf("MATCH %s: persist association for %s: %v", id, a.PlayerID, err)
	}
	if err := m.accounts.SetCurrentBattle(b.PlayerID, id); err != nil {
		log.Printf("MATCH %s: persist association for %s: %v", id, b.PlayerID, err)
	}

	m.startBattle(battle)
	log.Printf("MATCH %s: paired %s (%d) vs %s (%d)", id, a.PlayerID, a.Trophies, b.PlayerID, b.Trophies)

	m.notify(a.PlayerID, "MatchFound", protocol.MatchFound{MatchID: id, OpponentID: b.PlayerID, Side: game.P1.String()})
	m.notify(b.PlayerID, "MatchFound", protocol.MatchFound{MatchID: id, OpponentID: a.PlayerID, Side: game.P2.String()})
}

// settle applies trophy deltas for a finished battle and tells both players.
// Winner gain and loser loss are rolled independently.
func (m *Matchmaker) settle(id, winner, loser string) {
	span := protocol.TrophyDeltaMax - protocol.TrophyDeltaMin + 1
	m.mu.Lock()
	gain := protocol.TrophyDeltaMin + m.rng.Intn(span)
	loss := protocol.TrophyDeltaMin + m.rng.Intn(span)
	m.mu.Unlock()

	if err := m.accounts.ApplyTrophyDelta(winner, gain); err != nil {
		log.Printf("MATCH %s: trophy settle for %s: %v", id, winner, err)
	}
	if err := m.accounts.ApplyTrophyDelta(loser, -loss); err != nil {
		log.Printf("MATCH %s: trophy settle for %s: %v", id, loser, err)
	}
	_ = m.accounts.SetCurrentBattle(winner, "")
	_ = m.accounts.SetCurrentBattle(loser, "")

	log.Printf("MATCH %s: %s beat %s (+%d/-%d)", id, winner, loser, gain, loss)
	m.notify(winner, "MatchEnd", protocol.MatchEnd{MatchID: id, Won: true, Delta: gain})
	m.notify(loser, "MatchEnd", protocol.MatchEnd{MatchID: id, Won: false, Delta: -loss})
}

// Deploy routes a deploy request to its battle.
func (m *Matchmaker) Deploy(matchID, playerID, card string, pos game.Tile) (*game.Unit, error) {
	m.mu.Lock()
	b, ok := m.matches[matchID]
	m.mu.Unlock()
	if !ok {
		return nil, ErrUnknownMatch
	}
	return b.Deploy(playerID, card, pos)
}

// ViewFor returns the player's projection of a live match.
func (m *Matchmaker) ViewFor(matchID, playerID string) (protocol.PlayerView, bool) {
	m.mu.Lock()
	b, ok := m.matches[matchID]
	m.mu.Unlock()
	if !ok {
		return protocol.PlayerView{}, false
	}
	return b.ViewFor(playerID)
}

// MatchFor returns the id of the active match a player is in, if any.
// Reconnecting clients use this to rejoin.
func (m *Matchmaker) MatchFor(playerID string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, b := range m.matches {
		if b.HasPlayer(playerID) {
			return id, true
		}
	}
	return "", false
}
