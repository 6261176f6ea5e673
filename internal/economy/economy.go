package economy

import (
	"errors"
	"math"
	"tapdash/internal/profile"
)

var (
	ErrUnknownItem       = errors.New("unknown item")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrMaxLevelReached   = errors.New("max level reached")
	ErrThemeNotUnlocked  = errors.New("theme not unlocked")
)

const (
	baseMultiplier = 1.0
	basePenalty    = 1.0
	minPenalty     = 0.1
)

// Effective is the per-session snapshot of cumulative upgrade effects.
type Effective struct {
	ClickMultiplier float64
	PenaltyTime     float64
}

// EffectiveStats folds owned upgrade levels into the base values. Pure
// summation; order across entries does not matter.
func EffectiveStats(upgrades map[string]int) Effective {
	eff := Effective{ClickMultiplier: baseMultiplier, PenaltyTime: basePenalty}
	for _, item := range Catalog {
		if item.Category != CategoryUpgrade {
			continue
		}
		level := upgrades[item.ID]
		if level <= 0 {
			continue
		}
		switch item.Effect {
		case EffectMultiplierIncrease:
			eff.ClickMultiplier += item.PerLevel * float64(level)
		case EffectPenaltyReduction:
			eff.PenaltyTime = math.Max(minPenalty, eff.PenaltyTime-item.PerLevel*float64(level))
		}
	}
	return eff
}

// UpgradePrice is the cost of buying the next level on top of level.
func UpgradePrice(item Item, level int) int {
	return item.Price * (level + 1)
}

// PurchaseResult reports what a successful Purchase did.
type PurchaseResult struct {
	ItemID    string
	PricePaid int
	NewLevel  int  // upgrades only
	Equipped  bool // themes: activated after unlock (or already owned)
}

// Purchase buys an upgrade level or unlocks a theme. An already-owned
// theme is treated as an equip request, free of charge. Rejections leave
// the profile untouched.
func Purchase(p *profile.Profile, itemID string) (PurchaseResult, error) {
	item, ok := ItemByID(itemID)
	if !ok {
		return PurchaseResult{}, ErrUnknownItem
	}

	switch item.Category {
	case CategoryUpgrade:
		level := p.UpgradeLevel(item.ID)
		if level >= item.MaxLevel {
			return PurchaseResult{}, ErrMaxLevelReached
		}
		price := UpgradePrice(item, level)
		if !p.SpendCoins(price) {
			return PurchaseResult{}, ErrInsufficientFunds
		}
		newLevel := p.IncrementUpgrade(item.ID)
		return PurchaseResult{ItemID: item.ID, PricePaid: price, NewLevel: newLevel}, nil

	case CategoryTheme:
		if p.HasTheme(item.ID) {
			p.SetCurrentTheme(item.ID)
			return PurchaseResult{ItemID: item.ID, Equipped: true}, nil
		}
		if !p.SpendCoins(item.Price) {
			return PurchaseResult{}, ErrInsufficientFunds
		}
		p.UnlockTheme(item.ID)
		p.SetCurrentTheme(item.ID)
		return PurchaseResult{ItemID: item.ID, PricePaid: item.Price, Equipped: true}, nil
	}

	return PurchaseResult{}, ErrUnknownItem
}

// Equip activates an already-unlocked theme.
func Equip(p *profile.Profile, themeID string) error {
	if _, ok := ItemByID(themeID); !ok {
		return ErrUnknownItem
	}
	if !p.HasTheme(themeID) {
		return ErrThemeNotUnlocked
	}
	p.SetCurrentTheme(themeID)
	return nil
}
