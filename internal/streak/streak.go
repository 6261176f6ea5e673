package streak

import (
	"errors"
	"tapdash/internal/economy"
	"tapdash/internal/profile"
	"time"
)

var ErrAlreadyClaimedToday = errors.New("already claimed today")

// Rewards lists the coins granted for streak days 1 through 7.
var Rewards = [7]int{20, 30, 40, 60, 80, 100, 150}

const maxStreakDay = 7

const dateLayout = "2006-01-02"

// Engine tracks consecutive-calendar-day reward claims. Day granularity
// only; the host clock's local date decides what "today" means.
type Engine struct {
	profile *profile.Profile
	now     func() time.Time
}

func New(p *profile.Profile) *Engine {
	return &Engine{profile: p, now: time.Now}
}

// NewAt builds an engine with an injected clock, for tests.
func NewAt(p *profile.Profile, now func() time.Time) *Engine {
	return &Engine{profile: p, now: now}
}

func (e *Engine) today() string {
	return e.now().Format(dateLayout)
}

func (e *Engine) yesterday() string {
	return e.now().AddDate(0, 0, -1).Format(dateLayout)
}

type Status struct {
	StreakDay     int    `json:"streak_day"`
	LastClaimDate string `json:"last_claim_date"`
	CanClaimToday bool   `json:"can_claim_today"`
	NextDay       int    `json:"next_day"`
	NextReward    int    `json:"next_reward"`
}

func (e *Engine) Status() Status {
	dr := e.profile.DailyReward()
	next := min(dr.StreakDay+1, maxStreakDay)
	return Status{
		StreakDay:     dr.StreakDay,
		LastClaimDate: dr.LastClaimDate,
		CanClaimToday: dr.LastClaimDate != e.today(),
		NextDay:       next,
		NextReward:    Rewards[next-1],
	}
}

type ClaimResult struct {
	CoinsGranted    int  `json:"coins_granted"`
	StreakDay       int  `json:"streak_day"`
	PremiumUnlocked bool `json:"premium_unlocked"`
}

// Claim grants today's reward. Claiming the day after the previous claim
// extends the streak (capped at 7); any gap, including the first-ever
// claim, restarts it at day 1. Day 7 also unlocks and equips the premium
// theme, once.
func (e *Engine) Claim() (ClaimResult, error) {
	dr := e.profile.DailyReward()
	today := e.today()

	if dr.LastClaimDate == today {
		return ClaimResult{}, ErrAlreadyClaimedToday
	}

	newStreak := 1
	if dr.LastClaimDate == e.yesterday() {
		newStreak = min(dr.StreakDay+1, maxStreakDay)
	}

	coins := Rewards[newStreak-1]
	e.profile.RecordDailyClaim(newStreak, today, coins)

	res := ClaimResult{CoinsGranted: coins, StreakDay: newStreak}
	if newStreak >= maxStreakDay {
		// Equip only on the first unlock; a capped streak must not keep
		// overriding the player's chosen theme.
		res.PremiumUnlocked = e.profile.UnlockTheme(economy.PremiumTheme)
		if res.PremiumUnlocked {
			e.profile.SetCurrentTheme(economy.PremiumTheme)
		}
	}
	return res, nil
}
