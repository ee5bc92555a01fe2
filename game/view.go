package game

import "royale/server/protocol"

func cardView(c Card) protocol.CardView {
	return protocol.CardView{Name: c.Name, ElixirCost: c.ElixirCost, Type: string(c.Type)}
}

// ViewFor builds the read-only projection of this battle for one player.
// The opponent's hand, next card and remaining deck are never included.
func (b *Battle) ViewFor(playerID string) (protocol.PlayerView, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p := b.playerByID(playerID)
	if p == nil {
		return protocol.PlayerView{}, false
	}
	opp := b.players[p.Side.Opponent()]

	view := protocol.PlayerView{
		MatchID:    b.ID,
		OpponentID: opp.ID,
		Elixir:     p.Elixir,
		Hand:       make([]protocol.CardView, len(p.Hand)),
	}
	for i, c := range p.Hand {
		view.Hand[i] = cardView(c)
	}
	if p.Next != nil {
		nx := cardView(*p.Next)
		view.Next = &nx
	}

	view.Tiles = make([][]int, ArenaHeight)
	for y := 0; y < ArenaHeight; y++ {
		row := make([]int, ArenaWidth)
		for x := 0; x < ArenaWidth; x++ {
			row[x] = int(b.arena.Tiles[y][x])
		}
		view.Tiles[y] = row
	}

	view.Towers = make([]protocol.TowerState, 0, len(b.arena.Towers))
	for _, t := range b.arena.Towers {
		view.Towers = append(view.Towers, protocol.TowerState{
			ID:    string(t.ID),
			Kind:  t.Kind.String(),
			Owner: t.Owner.String(),
			X:     t.CenterX,
			Y:     t.CenterY,
			HP:    t.HP,
			MaxHP: t.MaxHP,
		})
	}

	view.Units = make([]protocol.UnitState, 0, len(b.units))
	for _, u := range b.units {
		view.Units = append(view.Units, protocol.UnitState{
			ID:    u.ID,
			Name:  u.Card.Name,
			Owner: u.Owner.String(),
			X:     u.X,
			Y:     u.Y,
			HP:    u.HP,
			MaxHP: u.Card.Hitpoints,
		})
	}
	return view, true
}
