package game

const (
	ArenaWidth  = 19
	ArenaHeight = 30

	KingTowerHP     = 1000
	PrincessTowerHP = 500
)

type TileType int

const (
	TileEmpty      TileType = 0 // walkable, cost 1
	TileRiver      TileType = 1 // unwalkable
	TileBridge     TileType = 2 // walkable, cost 0.5
	TileCrownTower TileType = 3 // princess tower footprint, unwalkable
	TileKingTower  TileType = 4 // king tower footprint, unwalkable
)

type Owner int

const (
	P1 Owner = 0 // defends the top half (low y)
	P2 Owner = 1 // defends the bottom half (high y)
)

func (o Owner) Opponent() Owner {
	if o == P1 {
		return P2
	}
	return P1
}

func (o Owner) String() string {
	if o == P1 {
		return "P1"
	}
	return "P2"
}

type Tile struct {
	X int
	Y int
}

func manhattan(a, b Tile) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

type TowerID string

const (
	PrincessLeftP1  TowerID = "PRINCESS_LEFT_P1"
	PrincessRightP1 TowerID = "PRINCESS_RIGHT_P1"
	KingP1          TowerID = "KING_P1"
	PrincessLeftP2  TowerID = "PRINCESS_LEFT_P2"
	PrincessRightP2 TowerID = "PRINCESS_RIGHT_P2"
	KingP2          TowerID = "KING_P2"
)

type Tower struct {
	Kind    TargetKind // KindKingTower or KindPrincessTower
	CenterX int
	CenterY int
	Owner   Owner
	ID      TowerID
	MaxHP   int
	HP      int
}

// Arena is the static board topology plus the tower collection. Tiles are
// immutable after construction; a destroyed tower keeps blocking movement.
type Arena struct {
	Tiles  [ArenaHeight][ArenaWidth]TileType
	Towers []*Tower
}

func NewArena() *Arena {
	a := &Arena{}

	for x := 0; x < ArenaWidth; x++ {
		a.Tiles[ArenaHeight/2-1][x] = TileRiver
		a.Tiles[ArenaHeight/2][x] = TileRiver
	}
	for dy := 0; dy < 2; dy++ {
		a.Tiles[ArenaHeight/2-1+dy][3] = TileBridge
		a.Tiles[ArenaHeight/2-1+dy][15] = TileBridge
	}

	kingX := ArenaWidth / 2
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			a.Tiles[2+dy][kingX+dx] = TileKingTower
			a.Tiles[ArenaHeight-3+dy][kingX+dx] = TileKingTower
		}
	}
	crowns := []Tile{
		{3, 3}, {ArenaWidth - 4, 3},
		{3, ArenaHeight - 4}, {ArenaWidth - 4, ArenaHeight - 4},
	}
	for _, c := range crowns {
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				a.Tiles[c.Y+dy][c.X+dx] = TileCrownTower
			}
		}
	}

	a.Towers = []*Tower{
		{KindKingTower, kingX, 2, P1, KingP1, KingTowerHP, KingTowerHP},
		{KindKingTower, kingX, ArenaHeight - 3, P2, KingP2, KingTowerHP, KingTowerHP},
		{KindPrincessTower, 3, 3, P1, PrincessLeftP1, PrincessTowerHP, PrincessTowerHP},
		{KindPrincessTower, ArenaWidth - 4, 3, P1, PrincessRightP1, PrincessTowerHP, PrincessTowerHP},
		{KindPrincessTower, 3, ArenaHeight - 4, P2, PrincessLeftP2, PrincessTowerHP, PrincessTowerHP},
		{KindPrincessTower, ArenaWidth - 4, ArenaHeight - 4, P2, PrincessRightP2, PrincessTowerHP, PrincessTowerHP},
	}

	return a
}

func (a *Arena) inBounds(t Tile) bool {
	return t.X >= 0 && t.X < ArenaWidth && t.Y >= 0 && t.Y < ArenaHeight
}

// obstacle reports whether a tile blocks movement. Rivers and all tower
// footprints block; destroyed towers continue to block.
func (a *Arena) obstacle(t Tile) bool {
	switch a.Tiles[t.Y][t.X] {
	case TileRiver, TileCrownTower, TileKingTower:
		return true
	}
	return false
}

// TowerByID returns the tower with the given id, or nil.
func (a *Arena) TowerByID(id TowerID) *Tower {
	for _, t := range a.Towers {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// HasWon reports whether owner has destroyed the opposing king tower.
func (a *Arena) HasWon(owner Owner) bool {
	opp := owner.Opponent()
	for _, t := range a.Towers {
		if t.Owner == opp && t.Kind == KindKingTower && t.HP <= 0 {
			return true
		}
	}
	return false
}
