package game

import "testing"

func TestFindPathEndpoints(t *testing.T) {
	a := NewArena()
	start := Tile{5, 5}
	goal := Tile{15, 25}

	path := a.FindPath(start, goal)
	if len(path) == 0 {
		t.Fatal("expected a path across the arena")
	}
	if path[0] != start {
		t.Errorf("path starts at %v, want %v", path[0], start)
	}
	if path[len(path)-1] != goal {
		t.Errorf("path ends at %v, want %v", path[len(path)-1], goal)
	}
}

func TestFindPathDeterministic(t *testing.T) {
	a := NewArena()
	start := Tile{5, 5}
	goal := Tile{13, 22}

	first := a.FindPath(start, goal)
	for i := 0; i < 10; i++ {
		again := a.FindPath(start, goal)
		if len(again) != len(first) {
			t.Fatalf("run %d: path length %d, want %d", i, len(again), len(first))
		}
		for k := range first {
			if again[k] != first[k] {
				t.Fatalf("run %d: tile %d is %v, want %v", i, k, again[k], first[k])
			}
		}
	}
}

func TestFindPathAvoidsObstacles(t *testing.T) {
	a := NewArena()
	path := a.FindPath(Tile{5, 5}, Tile{5, ArenaHeight - 5})
	if len(path) == 0 {
		t.Fatal("expected a path to the other half")
	}
	for _, tl := range path {
		switch a.Tiles[tl.Y][tl.X] {
		case TileRiver, TileCrownTower, TileKingTower:
			t.Errorf("path enters obstacle at %v", tl)
		}
	}
}

func TestFindPathCrossesBridge(t *testing.T) {
	a := NewArena()
	path := a.FindPath(Tile{5, 5}, Tile{5, ArenaHeight - 5})
	crossed := false
	for _, tl := range path {
		if a.Tiles[tl.Y][tl.X] == TileBridge {
			crossed = true
			break
		}
	}
	if !crossed {
		t.Error("path should cross the river on a bridge tile")
	}
}

func TestFindPathObstacleEndpoints(t *testing.T) {
	a := NewArena()
	kingTile := Tile{ArenaWidth / 2, 1} // inside the P1 king footprint

	if p := a.FindPath(kingTile, Tile{5, 5}); len(p) != 0 {
		t.Errorf("start inside tower: got path of %d tiles, want none", len(p))
	}
	if p := a.FindPath(Tile{5, 5}, kingTile); len(p) != 0 {
		t.Errorf("goal inside tower: got path of %d tiles, want none", len(p))
	}
	riverTile := Tile{0, ArenaHeight / 2}
	if p := a.FindPath(Tile{5, 5}, riverTile); len(p) != 0 {
		t.Errorf("goal in river: got path of %d tiles, want none", len(p))
	}
}

func TestFindPathWalledOff(t *testing.T) {
	a := NewArena()
	// Wall in a pocket so the goal is unreachable.
	for y := 5; y < 10; y++ {
		for x := 5; x < 10; x++ {
			if x == 6 && y == 6 {
				continue
			}
			a.Tiles[y][x] = TileCrownTower
		}
	}
	if p := a.FindPath(Tile{4, 4}, Tile{6, 6}); len(p) != 0 {
		t.Errorf("walled-off goal: got path of %d tiles, want none", len(p))
	}
}

func TestFindPathBridgeCheaper(t *testing.T) {
	a := NewArena()
	// Start directly above the left bridge: the optimal route runs straight
	// through it rather than detouring to the right crossing.
	path := a.FindPath(Tile{3, 10}, Tile{3, 19})
	if len(path) == 0 {
		t.Fatal("expected a path through the bridge")
	}
	for _, tl := range path {
		if tl.X > 7 {
			t.Errorf("path detoured to %v instead of using the near bridge", tl)
		}
	}
}
