package events

import "time"

// ButtonState is the visibility and position of a secondary button.
type ButtonState struct {
	Visible bool `json:"visible"`
	X       int  `json:"x"`
	Y       int  `json:"y"`
}

// Results is the end-of-session payload attached to the final snapshot.
type Results struct {
	Mode        string    `json:"mode"`
	FinalScore  float64   `json:"final_score"`
	CoinsGained int       `json:"coins_gained"`
	NewRecord   bool      `json:"new_record"`
	Best        float64   `json:"best"`
	WrongTaps   int       `json:"wrong_taps"`
	StartedAt   time.Time `json:"started_at"`
	EndedAt     time.Time `json:"ended_at"`
}

// RenderState is the presentation snapshot the core emits on every
// state change. The UI layer renders it verbatim.
type RenderState struct {
	SessionID     string      `json:"session_id"`
	Mode          string      `json:"mode"`
	ModeLabel     string      `json:"mode_label"`
	State         string      `json:"state"`
	Score         float64     `json:"score"`
	TimeLeft      float64     `json:"time_left"`
	Best          float64     `json:"best"`
	Foe           ButtonState `json:"foe"`
	Powerup       ButtonState `json:"powerup"`
	ReactionColor string      `json:"reaction_color,omitempty"`
	ThemeColor    [4]float64  `json:"theme_color"`
	Results       *Results    `json:"results,omitempty"`
}

type Bus struct {
	RenderStates chan RenderState
}

func NewBus() *Bus {
	return &Bus{
		RenderStates: make(chan RenderState, 64),
	}
}

// Publish queues a snapshot without blocking. A full channel drops the
// snapshot: render states are full refreshes, so a newer one always
// supersedes a lost one.
func (b *Bus) Publish(rs RenderState) {
	select {
	case b.RenderStates <- rs:
	default:
	}
}
