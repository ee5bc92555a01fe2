package protocol

import "encoding/json"

// Envelope
type MsgEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ================= C -> S =================

type MatchRequest struct {
	Trophies int      `json:"trophies"`
	PlayerID string   `json:"playerId"`
	Deck     []string `json:"deck"` // 8 card names
}

type CancelMatchRequest struct{}

type DeployUnit struct {
	MatchID string `json:"matchId"`
	Card    string `json:"card"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
}

type GetMatchView struct {
	MatchID string `json:"matchId"`
}

// ================= S -> C =================

type MatchFound struct {
	MatchID    string `json:"matchId"`
	OpponentID string `json:"opponentId"`
	Side       string `json:"side"` // "P1" | "P2"
}

type MatchEnd struct {
	MatchID string `json:"matchId"`
	Won     bool   `json:"won"`
	Delta   int    `json:"delta"` // signed trophy change
}

type DeployRejected struct {
	MatchID string `json:"matchId"`
	Card    string `json:"card"`
	Reason  string `json:"reason"`
}

type CardView struct {
	Name       string `json:"name"`
	ElixirCost int    `json:"elixirCost"`
	Type       string `json:"type"`
}

type UnitState struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Owner string `json:"owner"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	HP    int    `json:"hp"`
	MaxHP int    `json:"maxHp"`
}

type TowerState struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"` // "king" | "princess"
	Owner string `json:"owner"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	HP    int    `json:"hp"`
	MaxHP int    `json:"maxHp"`
}

// PlayerView is the per-player read-only projection of a live match.
// It deliberately omits the opponent's hand and remaining deck.
type PlayerView struct {
	MatchID    string       `json:"matchId"`
	OpponentID string       `json:"opponentId"`
	Elixir     int          `json:"elixir"`
	Hand       []CardView   `json:"hand"`
	Next       *CardView    `json:"next,omitempty"`
	Tiles      [][]int      `json:"tiles"`
	Towers     []TowerState `json:"towers"`
	Units      []UnitState  `json:"units"`
}

type Profile struct {
	PlayerID string   `json:"playerId"`
	Name     string   `json:"name"`
	Trophies int      `json:"trophies"`
	Deck     []string `json:"deck"`
	InBattle string   `json:"inBattle,omitempty"` // match id if reconnecting into one
}
