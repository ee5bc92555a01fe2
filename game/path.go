package game

import "container/heap"

// A* over 4-directional adjacency. Step cost is 1.0 onto Empty tiles and
// 0.5 onto Bridge tiles; rivers and tower footprints are never expanded.

type pathNode struct {
	tile Tile
	f    float64
	seq  int // insertion order, stable tie-break for equal f
}

type pathQueue []pathNode

func (q pathQueue) Len() int { return len(q) }
func (q pathQueue) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	return q[i].seq < q[j].seq
}
func (q pathQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *pathQueue) Push(x any)        { *q = append(*q, x.(pathNode)) }
func (q *pathQueue) Pop() any {
	old := *q
	n := len(old)
	node := old[n-1]
	*q = old[:n-1]
	return node
}

var pathDirections = [4]Tile{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// FindPath returns the cheapest path from start to goal inclusive of both
// endpoints, or an empty path when either endpoint is an obstacle or no
// route exists. The result is deterministic for a fixed grid.
func (a *Arena) FindPath(start, goal Tile) []Tile {
	if !a.inBounds(start) || !a.inBounds(goal) {
		return nil
	}
	if a.obstacle(start) || a.obstacle(goal) {
		return nil
	}

	open := &pathQueue{}
	heap.Init(open)
	seq := 0
	heap.Push(open, pathNode{tile: start, f: float64(manhattan(start, goal))})

	cameFrom := make(map[Tile]Tile)
	gScore := map[Tile]float64{start: 0}

	for open.Len() > 0 {
		current := heap.Pop(open).(pathNode).tile

		if current == goal {
			path := []Tile{current}
			for {
				prev, ok := cameFrom[current]
				if !ok {
					break
				}
				current = prev
				path = append(path, current)
			}
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path
		}

		for _, d := range pathDirections {
			neighbor := Tile{current.X + d.X, current.Y + d.Y}
			if !a.inBounds(neighbor) || a.obstacle(neighbor) {
				continue
			}
			cost := 1.0
			if a.Tiles[neighbor.Y][neighbor.X] == TileBridge {
				cost = 0.5
			}
			tentative := gScore[current] + cost
			if g, seen := gScore[neighbor]; !seen || tentative < g {
				cameFrom[neighbor] = current
				gScore[neighbor] = tentative
				seq++
				heap.Push(open, pathNode{
					tile: neighbor,
					f:    tentative + float64(manhattan(neighbor, goal)),
					seq:  seq,
				})
			}
		}
	}

	return nil
}
