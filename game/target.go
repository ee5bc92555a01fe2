package game

// TargetKind is the closed set of things a unit can be ordered to attack.
type TargetKind int

const (
	KindKingTower TargetKind = iota
	KindPrincessTower
	KindTroop
	KindBuilding
)

func (k TargetKind) String() string {
	switch k {
	case KindKingTower:
		return "king"
	case KindPrincessTower:
		return "princess"
	case KindTroop:
		return "troop"
	default:
		return "building"
	}
}

// Target is a resolved attack order: what to hit and the path to the tile
// the attack is delivered from. The path includes the attacker's current
// tile and ends at the attack position.
type Target struct {
	ID   string // unit id or tower id
	Kind TargetKind
	Path []Tile
}

var adjacentOffsets = [4]Tile{{0, -1}, {0, 1}, {1, 0}, {-1, 0}}

// ResolveTarget picks the best enemy for a unit owned by owner standing at
// pos. Live enemy units on an allowed layer always win over towers; towers
// of the defending player are considered only when no unit qualifies, and
// the king tower is gated until both princess towers are down. Returns nil
// when nothing is attackable this tick.
func (a *Arena) ResolveTarget(pos Tile, owner Owner, layers []TargetLayer, units []*Unit) *Target {
	allowed := make(map[TargetLayer]bool, len(layers))
	for _, l := range layers {
		if l == LayerBoth {
			allowed[LayerGround] = true
			allowed[LayerAir] = true
			continue
		}
		allowed[l] = true
	}

	var closest *Unit
	best := 0
	for _, u := range units {
		if u.Owner == owner || u.HP <= 0 || !allowed[u.Card.Layer] {
			continue
		}
		d := manhattan(pos, Tile{u.X, u.Y})
		if closest == nil || d < best {
			closest, best = u, d
		}
	}
	if closest != nil {
		attackTile, ok := a.nearestAdjacent(pos, Tile{closest.X, closest.Y})
		if !ok {
			// Enemy exists but no walkable tile borders it; no order this tick.
			return nil
		}
		path := a.FindPath(pos, attackTile)
		if len(path) == 0 {
			return nil
		}
		kind := KindTroop
		if closest.Card.Type == CardBuilding {
			kind = KindBuilding
		}
		return &Target{ID: closest.ID, Kind: kind, Path: path}
	}

	defender := owner.Opponent()
	candidates := make([]*Tower, 0, 3)
	princessAlive := 0
	for _, t := range a.Towers {
		if t.Owner == defender && t.HP > 0 {
			if t.Kind == KindPrincessTower {
				princessAlive++
			}
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	// King tower is untargetable until both princess towers are destroyed.
	if princessAlive > 0 && len(candidates) > 1 {
		filtered := candidates[:0]
		for _, t := range candidates {
			if t.Kind != KindKingTower {
				filtered = append(filtered, t)
			}
		}
		candidates = filtered
	}

	var tower *Tower
	for _, t := range candidates {
		d := manhattan(pos, Tile{t.CenterX, t.CenterY})
		if tower == nil || d < best {
			tower, best = t, d
		}
	}

	// Fixed attack offset: two rows toward the attacker's own baseline.
	dy := 2
	if defender == P2 {
		dy = -2
	}
	offset := Tile{tower.CenterX, tower.CenterY + dy}
	if !a.inBounds(offset) || a.Tiles[offset.Y][offset.X] != TileEmpty {
		return nil
	}

	path := a.FindPath(pos, offset)
	if len(path) == 0 {
		return nil
	}
	return &Target{ID: string(tower.ID), Kind: tower.Kind, Path: path}
}

// nearestAdjacent returns the empty tile orthogonally adjacent to goal that
// is closest to from, or false when the goal is fully enclosed.
func (a *Arena) nearestAdjacent(from, goal Tile) (Tile, bool) {
	var bestTile Tile
	bestDist := -1
	for _, d := range adjacentOffsets {
		n := Tile{goal.X + d.X, goal.Y + d.Y}
		if !a.inBounds(n) || a.Tiles[n.Y][n.X] != TileEmpty {
			continue
		}
		dist := manhattan(from, n)
		if bestDist < 0 || dist < bestDist {
			bestTile, bestDist = n, dist
		}
	}
	return bestTile, bestDist >= 0
}
