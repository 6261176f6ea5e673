package session

import (
	"math"
	"math/rand"
	"sync"
	"tapdash/internal/clock"
	"tapdash/internal/economy"
	"tapdash/internal/events"
	"tapdash/internal/profile"
	"tapdash/internal/targets"
	"time"

	"github.com/google/uuid"
)

type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateEnded   State = "ended"
)

// Session is one play-through of a game mode: Idle until the first
// primary tap, Running while timers drive it, Ended once and for all.
// Replaying a mode means building a fresh Session, which is what makes
// stale timer callbacks harmless: they find the old instance ended.
type Session struct {
	mu      sync.Mutex
	id      string
	mode    Mode
	state   State
	tuning  Tuning
	clk     clock.Clock
	bus     *events.Bus
	profile *profile.Profile
	board   *targets.Board

	clicks     float64
	timeLeft   float64
	wrongTaps  int
	multiplier float64
	penalty    float64
	best       float64
	startedAt  time.Time

	reactionColor string
	cueStart      time.Time

	// Timer handles plus generation counters. Every re-arm bumps the
	// generation; a callback that loses the lock race checks its
	// captured generation and bails, so a canceled cycle never fires.
	tickTimer     clock.Timer
	foeTimer      clock.Timer
	powerupTimer  clock.Timer
	reactionTimer clock.Timer
	foeGen        int
	powerupGen    int
	reactionGen   int

	results *events.Results
}

func New(mode Mode, p *profile.Profile, bus *events.Bus, clk clock.Clock, tuning Tuning) *Session {
	s := &Session{
		id:      uuid.New().String(),
		mode:    mode,
		state:   StateIdle,
		tuning:  tuning,
		clk:     clk,
		bus:     bus,
		profile: p,
		board:   targets.NewBoard(),
		best:    p.BestFor(string(mode)),
	}
	switch mode {
	case ModeClassic:
		s.timeLeft = tuning.TimeLimit
	case ModeSurvival:
		s.timeLeft = tuning.SurvivalStart
	}
	s.mu.Lock()
	s.publishLocked()
	s.mu.Unlock()
	return s
}

func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

func (s *Session) Mode() Mode {
	return s.mode
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Snapshot() events.RenderState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// PrimaryTap handles the big button: the first tap starts the session,
// later taps score.
func (s *Session) PrimaryTap() {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateIdle:
		s.startLocked()
	case StateRunning:
		if s.mode == ModeReaction {
			s.reactionTapLocked()
		} else {
			s.correctTapLocked()
		}
	}
}

// FoeTap handles the decoy button. Accuracy mode ends instantly; timed
// modes take the penalty and the foe goes back into hiding.
func (s *Session) FoeTap() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRunning || s.mode == ModeReaction {
		return
	}

	s.profile.RecordTap(false)
	s.wrongTaps++

	if s.mode == ModeAccuracy {
		s.endLocked()
		return
	}

	s.timeLeft = math.Max(0, s.timeLeft-s.penalty)
	if s.foeTimer != nil {
		s.foeTimer.Cancel()
	}
	s.board.Hide(targets.KindFoe)
	s.armFoeShowLocked(s.uniform(s.tuning.FoeInitialMin, s.tuning.FoeInitialMax))
	s.publishLocked()
}

// PowerupTap grants the time bonus and restarts the powerup cycle.
func (s *Session) PowerupTap() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRunning || !s.mode.hasSpawns() {
		return
	}

	s.timeLeft += s.tuning.PowerupBonus
	if s.powerupTimer != nil {
		s.powerupTimer.Cancel()
	}
	s.board.Hide(targets.KindPowerup)
	s.armPowerupShowLocked(s.uniform(s.tuning.PowerupHiddenMin, s.tuning.PowerupHiddenMax))
	s.publishLocked()
}

// Abort ends the session without scoring, as happens when the player
// leaves or re-enters the mode screen.
func (s *Session) Abort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateEnded {
		return
	}
	s.state = StateEnded
	s.cancelTimersLocked()
	s.board.Reset()
}

func (s *Session) startLocked() {
	s.state = StateRunning
	s.startedAt = s.clk.Now()

	// Snapshot the upgrade effects now; purchases mid-session wait for
	// the next game.
	eff := economy.EffectiveStats(s.profile.Upgrades())
	s.multiplier = eff.ClickMultiplier
	s.penalty = eff.PenaltyTime

	if s.mode == ModeReaction {
		s.armReactionCueLocked()
		return
	}

	if s.mode.hasCountdown() {
		s.armTickLocked()
	}
	if s.mode.hasSpawns() {
		s.armFoeShowLocked(s.uniform(s.tuning.FoeInitialMin, s.tuning.FoeInitialMax))
		s.armPowerupShowLocked(s.uniform(s.tuning.PowerupHiddenMin, s.tuning.PowerupHiddenMax))
	}
	s.publishLocked()
}

func (s *Session) correctTapLocked() {
	s.profile.RecordTap(true)
	if s.mode == ModeAccuracy {
		// Accuracy scores raw taps; the multiplier does not apply.
		s.clicks++
	} else {
		s.clicks += 1 * s.multiplier
	}
	if s.mode == ModeSurvival {
		s.timeLeft += s.tuning.SurvivalBonus
	}
	s.publishLocked()
}

func (s *Session) armTickLocked() {
	s.tickTimer = s.clk.AfterFunc(s.seconds(s.tuning.TickInterval), func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.state != StateRunning {
			return
		}
		s.timeLeft -= s.tuning.TickInterval
		if s.timeLeft <= 0 {
			s.timeLeft = 0
			s.endLocked()
			return
		}
		s.armTickLocked()
		s.publishLocked()
	})
}

func (s *Session) endLocked() {
	s.state = StateEnded
	s.cancelTimersLocked()
	s.board.Reset()

	endedAt := s.clk.Now()
	survived := endedAt.Sub(s.startedAt).Seconds()

	coins := 0
	if s.mode != ModeAccuracy {
		coins = int(math.Floor(s.clicks * s.tuning.CoinsPerClick * s.multiplier))
	}

	rec := s.profile.ApplySessionResult(profile.SessionOutcome{
		Mode:        string(s.mode),
		Clicks:      s.clicks,
		WrongTaps:   s.wrongTaps,
		Survived:    survived,
		CoinsEarned: coins,
	})
	s.best = rec.Best

	finalScore := s.clicks
	if s.mode == ModeSurvival {
		finalScore = survived
	}
	s.results = &events.Results{
		Mode:        string(s.mode),
		FinalScore:  finalScore,
		CoinsGained: rec.CoinsGained,
		NewRecord:   rec.NewRecord,
		Best:        rec.Best,
		WrongTaps:   s.wrongTaps,
		StartedAt:   s.startedAt,
		EndedAt:     endedAt,
	}
	s.publishLocked()
}

func (s *Session) cancelTimersLocked() {
	for _, t := range []clock.Timer{s.tickTimer, s.foeTimer, s.powerupTimer, s.reactionTimer} {
		if t != nil {
			t.Cancel()
		}
	}
	s.foeGen++
	s.powerupGen++
	s.reactionGen++
}

// Results returns the end-of-session payload, or nil while the session
// is still alive.
func (s *Session) Results() *events.Results {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results
}

func (s *Session) snapshotLocked() events.RenderState {
	foe := s.board.Get(targets.KindFoe)
	pow := s.board.Get(targets.KindPowerup)
	return events.RenderState{
		SessionID:     s.id,
		Mode:          string(s.mode),
		ModeLabel:     s.mode.Label(),
		State:         string(s.state),
		Score:         s.clicks,
		TimeLeft:      s.timeLeft,
		Best:          s.best,
		Foe:           events.ButtonState{Visible: foe.Visible, X: foe.X, Y: foe.Y},
		Powerup:       events.ButtonState{Visible: pow.Visible, X: pow.X, Y: pow.Y},
		ReactionColor: s.reactionColor,
		ThemeColor:    economy.ThemeColor(s.profile.CurrentTheme()),
		Results:       s.results,
	}
}

func (s *Session) publishLocked() {
	if s.bus != nil {
		s.bus.Publish(s.snapshotLocked())
	}
}

func (s *Session) seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

func (s *Session) uniform(lo, hi float64) time.Duration {
	return s.seconds(lo + rand.Float64()*(hi-lo))
}
