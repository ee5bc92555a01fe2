package game

import "time"

type CardType string

const (
	CardTroop    CardType = "Troop"
	CardBuilding CardType = "Building"
	CardSpell    CardType = "Spell"
)

type Rarity string

const (
	RarityCommon    Rarity = "Common"
	RarityRare      Rarity = "Rare"
	RarityEpic      Rarity = "Epic"
	RarityLegendary Rarity = "Legendary"
)

// TargetLayer classifies which plane a card occupies and which planes it may engage.
type TargetLayer string

const (
	LayerGround    TargetLayer = "Ground"
	LayerAir       TargetLayer = "Air"
	LayerBoth      TargetLayer = "Both"
	LayerBuildings TargetLayer = "Buildings"
	LayerNone      TargetLayer = "None" // spells
)

type MovementSpeed string

const (
	SpeedSlow     MovementSpeed = "Slow"
	SpeedMedium   MovementSpeed = "Medium"
	SpeedFast     MovementSpeed = "Fast"
	SpeedVeryFast MovementSpeed = "Very Fast"
	SpeedNone     MovementSpeed = "None" // buildings and spells
)

// Interval returns the wall-clock time a unit waits between tile steps.
func (s MovementSpeed) Interval() time.Duration {
	switch s {
	case SpeedSlow:
		return 4 * time.Second
	case SpeedMedium:
		return 3 * time.Second
	case SpeedFast:
		return 2 * time.Second
	case SpeedVeryFast:
		return 1 * time.Second
	default:
		return 9999 * time.Second
	}
}

type Card struct {
	Name        string        `json:"name"`
	ElixirCost  int           `json:"elixirCost"`
	Type        CardType      `json:"cardType"`
	Rarity      Rarity        `json:"rarity"`
	Layer       TargetLayer   `json:"layer"`
	Hitpoints   int           `json:"hitpoints,omitempty"`
	Damage      int           `json:"damage,omitempty"`
	AttackSpeed float64       `json:"attackSpeed,omitempty"` // seconds per attack
	Range       float64       `json:"range,omitempty"`       // tiles
	Targets     []TargetLayer `json:"targets,omitempty"`
	Speed       MovementSpeed `json:"movementSpeed,omitempty"`
}

// AttackInterval returns the wall-clock cooldown between attacks.
func (c Card) AttackInterval() time.Duration {
	return time.Duration(c.AttackSpeed * float64(time.Second))
}

type Deck struct {
	Cards []Card `json:"cards"`
}

const DeckSize = 8

var GoblinShaman = Card{
	Name:       "Goblin Shaman",
	ElixirCost: 3,
	Type:       CardTroop,
	Rarity:     RarityRare,
	Layer:      LayerGround,
	Hitpoints:  350, Damage: 80, AttackSpeed: 1.8, Range: 4.5,
	Speed:   SpeedMedium,
	Targets: []TargetLayer{LayerGround, LayerAir},
}

var RockGolem = Card{
	Name:       "Rock Golem",
	ElixirCost: 6,
	Type:       CardTroop,
	Rarity:     RarityEpic,
	Layer:      LayerGround,
	Hitpoints:  3000, Damage: 300, AttackSpeed: 2.0, Range: 1.0,
	Speed:   SpeedSlow,
	Targets: []TargetLayer{LayerBuildings, LayerGround},
}

var IceSpikes = Card{
	Name:       "Ice Spikes",
	ElixirCost: 3,
	Type:       CardSpell,
	Rarity:     RarityCommon,
	Layer:      LayerGround,
	Damage:     150,
	Speed:      SpeedNone,
}

var PoisonTower = Card{
	Name:       "Poison Tower",
	ElixirCost: 4,
	Type:       CardBuilding,
	Rarity:     RarityRare,
	Layer:      LayerGround,
	Hitpoints:  1100, Damage: 30, AttackSpeed: 1.0, Range: 6.0,
	Speed:   SpeedNone,
	Targets: []TargetLayer{LayerGround, LayerAir},
}

var SkyArcher = Card{
	Name:       "Sky Archer",
	ElixirCost: 4,
	Type:       CardTroop,
	Rarity:     RarityEpic,
	Layer:      LayerAir,
	Hitpoints:  400, Damage: 150, AttackSpeed: 1.8, Range: 7.0,
	Speed:   SpeedFast,
	Targets: []TargetLayer{LayerAir, LayerGround},
}

var Earthquake = Card{
	Name:       "Earthquake",
	ElixirCost: 3,
	Type:       CardSpell,
	Rarity:     RarityEpic,
	Layer:      LayerNone,
	Damage:     200,
	Speed:      SpeedNone,
}

var LumberjackGoblin = Card{
	Name:       "Lumberjack Goblin",
	ElixirCost: 4,
	Type:       CardTroop,
	Rarity:     RarityRare,
	Layer:      LayerGround,
	Hitpoints:  600, Damage: 200, AttackSpeed: 0.9, Range: 1.0,
	Speed:   SpeedVeryFast,
	Targets: []TargetLayer{LayerGround},
}

var ArcaneCannon = Card{
	Name:       "Arcane Cannon",
	ElixirCost: 5,
	Type:       CardBuilding,
	Rarity:     RarityEpic,
	Layer:      LayerGround,
	Hitpoints:  1200, Damage: 250, AttackSpeed: 2.0, Range: 6.5,
	Speed:   SpeedNone,
	Targets: []TargetLayer{LayerBoth},
}

var SpectralKnight = Card{
	Name:       "Spectral Knight",
	ElixirCost: 4,
	Type:       CardTroop,
	Rarity:     RarityLegendary,
	Layer:      LayerGround,
	Hitpoints:  800, Damage: 220, AttackSpeed: 1.1, Range: 1.2,
	Speed:   SpeedFast,
	Targets: []TargetLayer{LayerGround},
}

// Catalog indexes every known card by name for deck construction.
var Catalog = func() map[string]Card {
	cards := []Card{
		GoblinShaman, RockGolem, IceSpikes, PoisonTower,
		SkyArcher, Earthquake, LumberjackGoblin, ArcaneCannon,
		SpectralKnight,
	}
	m := make(map[string]Card, len(cards))
	for _, c := range cards {
		m[c.Name] = c
	}
	return m
}()

// DefaultDeck is the 8-card starter deck assigned to fresh accounts.
func DefaultDeck() Deck {
	return Deck{Cards: []Card{
		GoblinShaman, RockGolem, IceSpikes, PoisonTower,
		SkyArcher, Earthquake, LumberjackGoblin, ArcaneCannon,
	}}
}

// DeckByNames builds a deck from card names, falling back to the default
// deck when the list is not a valid 8-card selection.
func DeckByNames(names []string) Deck {
	if len(names) != DeckSize {
		return DefaultDeck()
	}
	cards := make([]Card, 0, DeckSize)
	for _, n := range names {
		c, ok := Catalog[n]
		if !ok {
			return DefaultDeck()
		}
		cards = append(cards, c)
	}
	return Deck{Cards: cards}
}
