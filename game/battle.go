package game

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"royale/server/protocol"
)

type BattleState int

const (
	StateActive BattleState = iota
	StateFinished
)

var (
	ErrMatchFinished      = errors.New("match finished")
	ErrUnknownPlayer      = errors.New("unknown player")
	ErrCardNotInHand      = errors.New("card not in hand")
	ErrInsufficientElixir = errors.New("insufficient elixir")
	ErrOutOfBounds        = errors.New("deploy position out of bounds")
)

// Battle owns all mutable state of one live match. The elixir loop, the
// simulation loop and external deploys all run under the single per-match
// mutex.
type Battle struct {
	ID string

	mu      sync.Mutex
	arena   *Arena
	players [2]*Player
	units   []*Unit
	state   BattleState
	winner  string
	loser   string

	done  chan struct{}
	rng   *rand.Rand
	clock func() time.Time
}

func NewBattle(id, p1ID, p2ID string, d1, d2 Deck, rng *rand.Rand) *Battle {
	return &Battle{
		ID:    id,
		arena: NewArena(),
		players: [2]*Player{
			NewPlayer(p1ID, P1, d1, rng),
			NewPlayer(p2ID, P2, d2, rng),
		},
		done:  make(chan struct{}),
		rng:   rng,
		clock: time.Now,
	}
}

// Start launches the two per-match loops. Both exit once the match is
// finished; termination is cooperative via the done channel.
func (b *Battle) Start() {
	go b.elixirLoop()
	go b.simLoop()
}

func (b *Battle) elixirLoop() {
	ticker := time.NewTicker(time.Duration(protocol.ElixirTickSec * float64(time.Second)))
	defer ticker.Stop()
	for {
		select {
		case <-b.done:
			return
		case <-ticker.C:
			b.RegenElixir()
		}
	}
}

func (b *Battle) simLoop() {
	ticker := time.NewTicker(time.Second / protocol.SimTickRate)
	defer ticker.Stop()
	for {
		select {
		case <-b.done:
			return
		case <-ticker.C:
			b.Tick()
		}
	}
}

// RegenElixir runs one resource tick: +1 elixir per player, capped.
func (b *Battle) RegenElixir() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != StateActive {
		return
	}
	for _, p := range b.players {
		if p.Elixir < protocol.ElixirMax {
			p.Elixir++
		}
	}
}

// Tick runs one simulation step: retarget, move, attack, cleanup, win check.
// The phase order matters; later phases read earlier phases' side effects.
func (b *Battle) Tick() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != StateActive {
		return
	}
	now := b.clock()

	// Targets are not sticky: every unit re-resolves every tick.
	for _, u := range b.units {
		u.Target = b.arena.ResolveTarget(Tile{u.X, u.Y}, u.Owner, u.Card.Targets, b.units)
	}

	for _, u := range b.units {
		b.advance(u, now)
	}

	for _, u := range b.units {
		b.attack(u, now)
	}

	live := b.units[:0]
	for _, u := range b.units {
		if u.HP > 0 {
			live = append(live, u)
		}
	}
	b.units = live

	b.checkWin()
}

// advance moves a troop one tile along its path when its movement interval
// has elapsed and it is not already within attack range.
func (b *Battle) advance(u *Unit, now time.Time) {
	if u.Target == nil || len(u.Target.Path) < 2 {
		return
	}
	if u.Card.Type != CardTroop {
		return
	}
	if u.Card.Range > 0 && float64(len(u.Target.Path)-1) < u.Card.Range {
		return // in range, hold position
	}
	if now.Sub(u.LastMove) < u.Card.Speed.Interval() {
		return
	}
	next := u.Target.Path[1]
	u.X, u.Y = next.X, next.Y
	u.Target.Path = u.Target.Path[1:]
	u.LastMove = now
}

func (b *Battle) attack(u *Unit, now time.Time) {
	t := u.Target
	if t == nil || u.Card.Damage == 0 || u.Card.AttackSpeed == 0 || u.Card.Range <= 0 {
		return
	}
	if float64(len(t.Path)-1) >= u.Card.Range {
		return
	}
	if now.Sub(u.LastAttack) < u.Card.AttackInterval() {
		return
	}

	switch t.Kind {
	case KindTroop:
		for _, v := range b.units {
			if v.ID == t.ID && v.HP > 0 {
				v.HP -= u.Card.Damage
				u.LastAttack = now
				break
			}
		}
	case KindBuilding:
		// Buildings are inert targets for now and take no damage.
	default:
		if tower := b.arena.TowerByID(TowerID(t.ID)); tower != nil && tower.HP > 0 {
			tower.HP -= u.Card.Damage
			u.LastAttack = now
		}
	}
}

// checkWin transitions to Finished once, the first time a king tower falls.
func (b *Battle) checkWin() {
	for _, side := range [2]Owner{P1, P2} {
		if b.arena.HasWon(side) {
			b.state = StateFinished
			b.winner = b.players[side].ID
			b.loser = b.players[side.Opponent()].ID
			close(b.done)
			return
		}
	}
}

// Deploy validates and executes a deploy request atomically with respect to
// the tick loops. Spell cards are accepted and charged like any other card
// but spawn no unit.
func (b *Battle) Deploy(playerID, cardName string, pos Tile) (*Unit, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != StateActive {
		return nil, ErrMatchFinished
	}
	p := b.playerByID(playerID)
	if p == nil {
		return nil, ErrUnknownPlayer
	}
	idx := p.handIndex(cardName)
	if idx < 0 {
		return nil, ErrCardNotInHand
	}
	card := p.Hand[idx]
	if p.Elixir < card.ElixirCost {
		return nil, ErrInsufficientElixir
	}
	if !b.arena.inBounds(pos) {
		return nil, ErrOutOfBounds
	}

	p.Elixir -= card.ElixirCost
	p.playCard(idx, b.rng)

	if card.Type == CardSpell {
		return nil, nil
	}
	u := NewUnit(card, p.Side, pos, b.clock())
	b.units = append(b.units, u)
	return u, nil
}

func (b *Battle) playerByID(id string) *Player {
	for _, p := range b.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Done is closed when the match reaches Finished.
func (b *Battle) Done() <-chan struct{} { return b.done }

// Result reports the outcome; ok is false while the match is still active.
func (b *Battle) Result() (winner, loser string, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != StateFinished {
		return "", "", false
	}
	return b.winner, b.loser, true
}

// HasPlayer reports whether id is one of the two participants.
func (b *Battle) HasPlayer(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.playerByID(id) != nil
}
