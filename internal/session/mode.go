package session

import "fmt"

type Mode string

const (
	ModeClassic  Mode = "classic"
	ModeSurvival Mode = "survival"
	ModeAccuracy Mode = "accuracy"
	ModeReaction Mode = "reaction"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeClassic, ModeSurvival, ModeAccuracy, ModeReaction:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown game mode %q", s)
}

func (m Mode) Label() string {
	switch m {
	case ModeClassic:
		return "CLASSIC MODE"
	case ModeSurvival:
		return "SURVIVAL MODE"
	case ModeAccuracy:
		return "ACCURACY MODE"
	case ModeReaction:
		return "REACTION MODE"
	}
	return string(m)
}

// hasCountdown reports whether the mode runs the main timer tick.
func (m Mode) hasCountdown() bool {
	return m == ModeClassic || m == ModeSurvival
}

// hasSpawns reports whether the foe/powerup spawn cycles run.
func (m Mode) hasSpawns() bool {
	return m == ModeClassic || m == ModeSurvival
}
