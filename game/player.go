package game

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Unit is a deployed combat entity. All mutation happens under the owning
// battle's lock.
type Unit struct {
	ID         string
	Card       Card
	Owner      Owner
	X, Y       int
	HP         int
	Target     *Target
	LastMove   time.Time
	LastAttack time.Time
}

func NewUnit(card Card, owner Owner, pos Tile, now time.Time) *Unit {
	return &Unit{
		ID:         uuid.NewString(),
		Card:       card,
		Owner:      owner,
		X:          pos.X,
		Y:          pos.Y,
		HP:         card.Hitpoints,
		LastMove:   now,
		LastAttack: now,
	}
}

const HandSize = 4

// Player is the in-match half of a battle: elixir, the 4-card hand, the
// queued next card and the remaining shuffled pool backing the hand.
type Player struct {
	ID        string
	Side      Owner
	Elixir    int
	Hand      []Card
	Next      *Card
	Remaining []Card
	Deck      Deck
}

// NewPlayer draws the initial hand uniformly at random without replacement
// and shuffles the remainder to seed the next card and the cycle pool.
func NewPlayer(id string, side Owner, deck Deck, rng *rand.Rand) *Player {
	pool := append([]Card(nil), deck.Cards...)
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	p := &Player{
		ID:        id,
		Side:      side,
		Hand:      append([]Card(nil), pool[:HandSize]...),
		Remaining: append([]Card(nil), pool[HandSize:]...),
		Deck:      deck,
	}
	p.Next = p.drawNext(rng)
	return p
}

func (p *Player) drawNext(rng *rand.Rand) *Card {
	if len(p.Remaining) == 0 {
		// Pool exhausted: reshuffle the full reference deck.
		p.Remaining = append([]Card(nil), p.Deck.Cards...)
		rng.Shuffle(len(p.Remaining), func(i, j int) {
			p.Remaining[i], p.Remaining[j] = p.Remaining[j], p.Remaining[i]
		})
	}
	c := p.Remaining[0]
	p.Remaining = p.Remaining[1:]
	return &c
}

// handIndex returns the hand slot holding the named card, or -1.
func (p *Player) handIndex(name string) int {
	for i, c := range p.Hand {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// playCard removes the card at idx, promotes Next into its slot and draws a
// fresh Next. Hand size stays at 4 throughout.
func (p *Player) playCard(idx int, rng *rand.Rand) Card {
	played := p.Hand[idx]
	p.Hand[idx] = *p.Next
	p.Next = p.drawNext(rng)
	return played
}
