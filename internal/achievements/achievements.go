package achievements

type ID string

const (
	SpeedDemon ID = "speed_demon"
	Focused    ID = "focused"
	Veteran    ID = "veteran"
)

type Achievement struct {
	ID          ID
	Name        string
	Description string
}

var All = map[ID]Achievement{
	SpeedDemon: {ID: SpeedDemon, Name: "Speed Demon", Description: "Achieve 50 clicks in one game."},
	Focused:    {ID: Focused, Name: "Focused Tapper", Description: "Win a game without hitting the 'DON'T TAP' button."},
	Veteran:    {ID: Veteran, Name: "Game Veteran", Description: "Play 10 games."},
}

const (
	speedDemonTarget = 50
	veteranTarget    = 10
)

// EvaluateSession checks which achievements a single finished session earns.
func EvaluateSession(clicks float64, wrongTaps int) []ID {
	var earned []ID

	if clicks >= speedDemonTarget {
		earned = append(earned, SpeedDemon)
	}

	// Focused: clean session with at least one correct tap
	if wrongTaps == 0 && clicks > 0 {
		earned = append(earned, Focused)
	}

	return earned
}

// EvaluateLifetime checks achievements earned across the player's career.
func EvaluateLifetime(totalGames int) []ID {
	var earned []ID

	if totalGames >= veteranTarget {
		earned = append(earned, Veteran)
	}

	return earned
}
