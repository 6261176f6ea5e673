package session

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Tuning holds the gameplay timing constants. All values are seconds.
// Defaults match the shipped balance; a tuning.toml can override any of
// them for playtesting.
type Tuning struct {
	TimeLimit      float64 `toml:"time_limit"`      // classic countdown
	SurvivalStart  float64 `toml:"survival_start"`  // survival opening budget
	SurvivalBonus  float64 `toml:"survival_bonus"`  // per correct tap
	CoinsPerClick  float64 `toml:"coins_per_click"` // coin rate at session end
	ReactionWindow float64 `toml:"reaction_window"` // time allowed per cue
	ReactionGap    float64 `toml:"reaction_gap"`    // pause before the next cue
	PowerupBonus   float64 `toml:"powerup_bonus"`   // time granted per powerup tap
	TickInterval   float64 `toml:"tick_interval"`   // main countdown resolution

	FoeInitialMin float64 `toml:"foe_initial_min"`
	FoeInitialMax float64 `toml:"foe_initial_max"`
	FoeVisibleMin float64 `toml:"foe_visible_min"`
	FoeVisibleMax float64 `toml:"foe_visible_max"`
	FoeHiddenMin  float64 `toml:"foe_hidden_min"`
	FoeHiddenMax  float64 `toml:"foe_hidden_max"`

	PowerupVisible   float64 `toml:"powerup_visible"`
	PowerupHiddenMin float64 `toml:"powerup_hidden_min"`
	PowerupHiddenMax float64 `toml:"powerup_hidden_max"`
}

func DefaultTuning() Tuning {
	return Tuning{
		TimeLimit:      10.0,
		SurvivalStart:  5.0,
		SurvivalBonus:  0.5,
		CoinsPerClick:  0.5,
		ReactionWindow: 0.8,
		ReactionGap:    0.1,
		PowerupBonus:   2.0,
		TickInterval:   0.1,

		FoeInitialMin: 1.0,
		FoeInitialMax: 3.0,
		FoeVisibleMin: 0.5,
		FoeVisibleMax: 1.5,
		FoeHiddenMin:  1.0,
		FoeHiddenMax:  4.0,

		PowerupVisible:   1.5,
		PowerupHiddenMin: 8.0,
		PowerupHiddenMax: 15.0,
	}
}

// LoadTuning reads a TOML tuning file over the defaults. A missing file
// is not an error; a malformed one is.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return t, fmt.Errorf("reading tuning file: %w", err)
	}
	if err := toml.Unmarshal(data, &t); err != nil {
		return DefaultTuning(), fmt.Errorf("parsing tuning file: %w", err)
	}
	return t, nil
}
