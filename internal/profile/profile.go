package profile

import (
	"log"
	"math"
	"sync"
	"tapdash/internal/achievements"
	"tapdash/internal/store"
)

// Document keys in the save directory.
const (
	KeyHighScore    = "high_score"
	KeyAchievements = "achievements"
	KeyCurrency     = "currency"
	KeyStats        = "stats"
)

const DefaultTheme = "default"

type Stats struct {
	TotalClicks       int     `json:"total_clicks"`
	TotalWrongTaps    int     `json:"total_wrong_taps"`
	TotalGamesPlayed  int     `json:"total_games_played"`
	SurvivalHighTime  float64 `json:"survival_high_time"`
	AccuracyHighScore int     `json:"accuracy_high_score"`
	ReactionHighScore int     `json:"reaction_high_score"`
}

type AchievementState struct {
	Unlocked bool `json:"unlocked"`
}

type DailyReward struct {
	StreakDay     int    `json:"streak_day"`
	LastClaimDate string `json:"last_claim_date"` // "YYYY-MM-DD", empty if never claimed
}

type highScoreDoc struct {
	HighScore int `json:"high_score"`
}

type achievementsDoc struct {
	TotalGames   int                         `json:"total_games"`
	Achievements map[string]AchievementState `json:"achievements"`
}

type currencyDoc struct {
	Coins          int            `json:"coins"`
	UnlockedThemes []string       `json:"unlocked_themes"`
	Upgrades       map[string]int `json:"upgrades"`
	DailyReward    DailyReward    `json:"daily_reward"`
}

// Profile holds the player's persistent state: best scores, lifetime
// stats, achievements, and the currency/upgrade/reward economy. All four
// documents live behind one mutex; each mutation saves its own document.
type Profile struct {
	mu    sync.Mutex
	store *store.Store

	score        highScoreDoc
	game         achievementsDoc
	currency     currencyDoc
	stats        Stats
	currentTheme string // process lifetime only, not persisted
}

func Load(s *store.Store) *Profile {
	p := &Profile{
		store: s,
		game: achievementsDoc{
			Achievements: make(map[string]AchievementState),
		},
		currency: currencyDoc{
			UnlockedThemes: []string{DefaultTheme},
			Upgrades:       make(map[string]int),
		},
		currentTheme: DefaultTheme,
	}
	s.Load(KeyHighScore, &p.score)
	s.Load(KeyAchievements, &p.game)
	s.Load(KeyCurrency, &p.currency)
	s.Load(KeyStats, &p.stats)

	if p.game.Achievements == nil {
		p.game.Achievements = make(map[string]AchievementState)
	}
	if p.currency.Upgrades == nil {
		p.currency.Upgrades = make(map[string]int)
	}
	if !contains(p.currency.UnlockedThemes, DefaultTheme) {
		p.currency.UnlockedThemes = append(p.currency.UnlockedThemes, DefaultTheme)
	}
	return p
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (p *Profile) saveCurrency() {
	if err := p.store.Save(KeyCurrency, p.currency); err != nil {
		log.Printf("[Profile] Saving currency: %v\n", err)
	}
}

func (p *Profile) saveStats() {
	if err := p.store.Save(KeyStats, p.stats); err != nil {
		log.Printf("[Profile] Saving stats: %v\n", err)
	}
}

func (p *Profile) saveAchievements() {
	if err := p.store.Save(KeyAchievements, p.game); err != nil {
		log.Printf("[Profile] Saving achievements: %v\n", err)
	}
}

func (p *Profile) saveHighScore() {
	if err := p.store.Save(KeyHighScore, p.score); err != nil {
		log.Printf("[Profile] Saving high score: %v\n", err)
	}
}

func (p *Profile) HighScore() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.score.HighScore
}

func (p *Profile) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

func (p *Profile) Coins() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currency.Coins
}

// AddCoins credits coins and persists the currency document.
func (p *Profile) AddCoins(n int) {
	if n <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.currency.Coins += n
	p.saveCurrency()
}

// SpendCoins debits exactly price if the balance covers it. Returns
// false, leaving the balance untouched, when funds are insufficient.
func (p *Profile) SpendCoins(price int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if price > p.currency.Coins {
		return false
	}
	p.currency.Coins -= price
	p.saveCurrency()
	return true
}

func (p *Profile) UpgradeLevel(id string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currency.Upgrades[id]
}

func (p *Profile) Upgrades() map[string]int {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]int, len(p.currency.Upgrades))
	for k, v := range p.currency.Upgrades {
		out[k] = v
	}
	return out
}

func (p *Profile) IncrementUpgrade(id string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.currency.Upgrades[id]++
	p.saveCurrency()
	return p.currency.Upgrades[id]
}

func (p *Profile) HasTheme(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return contains(p.currency.UnlockedThemes, id)
}

func (p *Profile) UnlockedThemes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.currency.UnlockedThemes))
	copy(out, p.currency.UnlockedThemes)
	return out
}

// UnlockTheme adds the theme to the unlocked set. Reports whether it was
// newly unlocked; unlocking an owned theme is a no-op.
func (p *Profile) UnlockTheme(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if contains(p.currency.UnlockedThemes, id) {
		return false
	}
	p.currency.UnlockedThemes = append(p.currency.UnlockedThemes, id)
	p.saveCurrency()
	return true
}

func (p *Profile) CurrentTheme() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentTheme
}

func (p *Profile) SetCurrentTheme(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.currentTheme = id
}

func (p *Profile) DailyReward() DailyReward {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currency.DailyReward
}

// RecordDailyClaim applies a successful daily-reward claim in one write:
// new streak day, claim date, and the granted coins.
func (p *Profile) RecordDailyClaim(streakDay int, date string, coins int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.currency.DailyReward.StreakDay = streakDay
	p.currency.DailyReward.LastClaimDate = date
	p.currency.Coins += coins
	p.saveCurrency()
}

// RecordTap bumps the lifetime tap counters as taps happen, mirroring
// the per-tap stat writes of the game screens.
func (p *Profile) RecordTap(correct bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if correct {
		p.stats.TotalClicks++
	} else {
		p.stats.TotalWrongTaps++
	}
	p.saveStats()
}

func (p *Profile) AchievementUnlocked(id achievements.ID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.game.Achievements[string(id)].Unlocked
}

func (p *Profile) Achievements() map[string]AchievementState {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]AchievementState, len(p.game.Achievements))
	for k, v := range p.game.Achievements {
		out[k] = v
	}
	return out
}

// BestFor returns the stored best result for a mode, as displayed next
// to the live score.
func (p *Profile) BestFor(mode string) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bestForLocked(mode)
}

func (p *Profile) bestForLocked(mode string) float64 {
	switch mode {
	case "classic":
		return float64(p.score.HighScore)
	case "survival":
		return p.stats.SurvivalHighTime
	case "accuracy":
		return float64(p.stats.AccuracyHighScore)
	case "reaction":
		return float64(p.stats.ReactionHighScore)
	}
	return 0
}

// SessionOutcome is what a finished game session reports back.
type SessionOutcome struct {
	Mode        string
	Clicks      float64 // fractional when a click multiplier applied
	WrongTaps   int
	Survived    float64 // seconds the session lasted; survival's final score
	CoinsEarned int     // already floor(clicks * rate * multiplier), 0 for accuracy
}

// SessionRecord summarizes what the profile did with the outcome.
type SessionRecord struct {
	CoinsGained int
	NewRecord   bool
	Best        float64 // best for the mode after any update
	Unlocked    []achievements.ID
}

// ApplySessionResult runs the whole end-of-session bookkeeping: lifetime
// counters, coin credit, unlock-once achievement evaluation, and the
// per-mode best. Evaluation is idempotent; an achievement already
// unlocked stays unlocked with no side effects.
func (p *Profile) ApplySessionResult(o SessionOutcome) SessionRecord {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stats.TotalGamesPlayed++
	p.game.TotalGames++

	var rec SessionRecord
	earned := achievements.EvaluateSession(o.Clicks, o.WrongTaps)
	earned = append(earned, achievements.EvaluateLifetime(p.game.TotalGames)...)
	for _, id := range earned {
		if p.game.Achievements[string(id)].Unlocked {
			continue
		}
		p.game.Achievements[string(id)] = AchievementState{Unlocked: true}
		rec.Unlocked = append(rec.Unlocked, id)
	}
	p.saveAchievements()

	if o.CoinsEarned > 0 {
		p.currency.Coins += o.CoinsEarned
		rec.CoinsGained = o.CoinsEarned
		p.saveCurrency()
	}

	switch o.Mode {
	case "classic":
		if int(math.Floor(o.Clicks)) > p.score.HighScore {
			p.score.HighScore = int(math.Floor(o.Clicks))
			p.saveHighScore()
			rec.NewRecord = true
		}
	case "survival":
		if o.Survived > p.stats.SurvivalHighTime {
			p.stats.SurvivalHighTime = o.Survived
			rec.NewRecord = true
		}
	case "accuracy":
		if int(o.Clicks) > p.stats.AccuracyHighScore {
			p.stats.AccuracyHighScore = int(o.Clicks)
			rec.NewRecord = true
		}
	case "reaction":
		if int(o.Clicks) > p.stats.ReactionHighScore {
			p.stats.ReactionHighScore = int(o.Clicks)
			rec.NewRecord = true
		}
	}
	p.saveStats()

	rec.Best = p.bestForLocked(o.Mode)
	return rec
}
