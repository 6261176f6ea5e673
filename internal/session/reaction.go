package session

import "math/rand"

// ReactionColors is the fixed cue set; the render boundary maps names
// to actual colors.
var ReactionColors = []string{"RED", "GREEN", "BLUE"}

// CueColor gives the RGBA for a cue name.
func CueColor(name string) [4]float64 {
	switch name {
	case "RED":
		return [4]float64{0.8, 0.2, 0.2, 1}
	case "GREEN":
		return [4]float64{0.2, 0.8, 0.2, 1}
	case "BLUE":
		return [4]float64{0.2, 0.2, 0.8, 1}
	}
	return [4]float64{0, 0, 0, 1}
}

// armReactionCueLocked starts one round of the cue cycle: pick a random
// color, note when it appeared, and arm the miss timeout.
func (s *Session) armReactionCueLocked() {
	s.reactionColor = ReactionColors[rand.Intn(len(ReactionColors))]
	s.cueStart = s.clk.Now()
	s.publishLocked()

	s.reactionGen++
	gen := s.reactionGen
	s.reactionTimer = s.clk.AfterFunc(s.seconds(s.tuning.ReactionWindow), func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.state != StateRunning || gen != s.reactionGen {
			return
		}
		// No tap inside the window: session over.
		s.endLocked()
	})
}

func (s *Session) reactionTapLocked() {
	if s.reactionTimer != nil {
		s.reactionTimer.Cancel()
	}
	s.reactionGen++

	elapsed := s.clk.Now().Sub(s.cueStart)
	if s.reactionColor != "" && elapsed <= s.seconds(s.tuning.ReactionWindow) {
		s.profile.RecordTap(true)
		s.clicks += 1 * s.multiplier
		s.publishLocked()

		gen := s.reactionGen
		s.reactionTimer = s.clk.AfterFunc(s.seconds(s.tuning.ReactionGap), func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.state != StateRunning || gen != s.reactionGen {
				return
			}
			s.armReactionCueLocked()
		})
		return
	}

	// Too slow, even though the timeout had not been processed yet.
	s.profile.RecordTap(false)
	s.wrongTaps++
	s.endLocked()
}
