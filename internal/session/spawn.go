package session

import (
	"tapdash/internal/targets"
	"time"
)

// The foe and powerup buttons run independent show/hide cycles while the
// session is running. Each arm bumps the cycle's generation so a
// superseded callback, even one already queued, does nothing.

func (s *Session) armFoeShowLocked(delay time.Duration) {
	s.foeGen++
	gen := s.foeGen
	s.foeTimer = s.clk.AfterFunc(delay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.state != StateRunning || gen != s.foeGen {
			return
		}
		s.board.Show(targets.KindFoe, s.clk.Now())
		s.armFoeHideLocked(s.uniform(s.tuning.FoeVisibleMin, s.tuning.FoeVisibleMax))
		s.publishLocked()
	})
}

func (s *Session) armFoeHideLocked(delay time.Duration) {
	s.foeGen++
	gen := s.foeGen
	s.foeTimer = s.clk.AfterFunc(delay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.state != StateRunning || gen != s.foeGen {
			return
		}
		s.board.Hide(targets.KindFoe)
		s.armFoeShowLocked(s.uniform(s.tuning.FoeHiddenMin, s.tuning.FoeHiddenMax))
		s.publishLocked()
	})
}

func (s *Session) armPowerupShowLocked(delay time.Duration) {
	s.powerupGen++
	gen := s.powerupGen
	s.powerupTimer = s.clk.AfterFunc(delay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.state != StateRunning || gen != s.powerupGen {
			return
		}
		s.board.Show(targets.KindPowerup, s.clk.Now())
		s.armPowerupHideLocked(s.seconds(s.tuning.PowerupVisible))
		s.publishLocked()
	})
}

func (s *Session) armPowerupHideLocked(delay time.Duration) {
	s.powerupGen++
	gen := s.powerupGen
	s.powerupTimer = s.clk.AfterFunc(delay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.state != StateRunning || gen != s.powerupGen {
			return
		}
		s.board.Hide(targets.KindPowerup)
		s.armPowerupShowLocked(s.uniform(s.tuning.PowerupHiddenMin, s.tuning.PowerupHiddenMax))
		s.publishLocked()
	})
}
