package targets

import (
	"math/rand"
	"sync"
	"time"
)

// The secondary buttons move inside a fixed logical coordinate space;
// the UI scales it to the real screen.
const (
	GameWidth   = 600
	GameHeight  = 400
	FoeSize     = 80
	PowerupSize = 60
)

type Kind string

const (
	KindFoe     Kind = "foe"
	KindPowerup Kind = "powerup"
)

// Placement is where (and whether) a secondary button currently shows.
type Placement struct {
	Kind    Kind
	X       int
	Y       int
	Visible bool
	ShownAt time.Time
}

// Board tracks the foe and powerup button placements for one session.
type Board struct {
	mu         sync.Mutex
	placements map[Kind]*Placement
}

func NewBoard() *Board {
	return &Board{
		placements: map[Kind]*Placement{
			KindFoe:     {Kind: KindFoe},
			KindPowerup: {Kind: KindPowerup},
		},
	}
}

func size(k Kind) int {
	if k == KindPowerup {
		return PowerupSize
	}
	return FoeSize
}

// Show places the button at a uniform random on-screen position and
// makes it visible.
func (b *Board) Show(k Kind, now time.Time) Placement {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.placements[k]
	p.X = rand.Intn(GameWidth - size(k))
	p.Y = rand.Intn(GameHeight - size(k))
	p.Visible = true
	p.ShownAt = now
	return *p
}

func (b *Board) Hide(k Kind) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.placements[k].Visible = false
}

func (b *Board) Get(k Kind) Placement {
	b.mu.Lock()
	defer b.mu.Unlock()
	return *b.placements[k]
}

// Reset hides both buttons, as happens when a session ends.
func (b *Board) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range b.placements {
		p.Visible = false
	}
}
