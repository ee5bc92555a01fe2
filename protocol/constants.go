package protocol

const (
	// Net/update cadence
	SimTickRate        = 20  // simulation steps per second
	CoordinatorTickMs  = 100 // matchmaking + sync sweep cadence
	SnapshotIntervalMs = 1000

	// Gameplay constants
	ElixirMax     = 10
	ElixirTickSec = 1.0

	// Matchmaking
	MaxTrophyDiff = 100

	// Trophy settlement, rolled independently for winner and loser
	TrophyDeltaMin = 25
	TrophyDeltaMax = 35
)
