package economy

type Category string

const (
	CategoryTheme   Category = "theme"
	CategoryUpgrade Category = "upgrade"
)

type EffectKind string

const (
	EffectMultiplierIncrease EffectKind = "multiplier_increase"
	EffectPenaltyReduction   EffectKind = "penalty_reduction"
)

// Item is a static shop catalog entry. Themes carry an RGBA color for
// the render boundary; upgrades carry a per-level effect and a cap.
type Item struct {
	ID       string
	Name     string
	Price    int
	Category Category

	Color [4]float64 // themes only

	Effect   EffectKind // upgrades only
	PerLevel float64
	MaxLevel int
}

// PremiumTheme is unlocked by the day-7 daily streak reward rather
// than purchase.
const PremiumTheme = "bg_premium"

var Catalog = []Item{
	{ID: "default", Name: "Default Theme", Price: 0, Category: CategoryTheme, Color: [4]float64{0.0, 0.0, 0.0, 1}},
	{ID: "bg_blue", Name: "Blue Theme", Price: 50, Category: CategoryTheme, Color: [4]float64{0.1, 0.1, 0.5, 1}},
	{ID: "bg_red", Name: "Red Theme", Price: 75, Category: CategoryTheme, Color: [4]float64{0.5, 0.1, 0.1, 1}},
	{ID: "bg_green", Name: "Green Theme", Price: 100, Category: CategoryTheme, Color: [4]float64{0.1, 0.5, 0.1, 1}},
	{ID: PremiumTheme, Name: "Premium Theme", Price: 0, Category: CategoryTheme, Color: [4]float64{0.6, 0.2, 0.8, 1}},

	{ID: "up_click1", Name: "Click Multiplier +0.1", Price: 150, Category: CategoryUpgrade, Effect: EffectMultiplierIncrease, PerLevel: 0.1, MaxLevel: 5},
	{ID: "up_penalty1", Name: "Penalty Time -0.1s", Price: 200, Category: CategoryUpgrade, Effect: EffectPenaltyReduction, PerLevel: 0.1, MaxLevel: 3},
}

func ItemByID(id string) (Item, bool) {
	for _, item := range Catalog {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

func ThemeColor(id string) [4]float64 {
	if item, ok := ItemByID(id); ok && item.Category == CategoryTheme {
		return item.Color
	}
	return [4]float64{0, 0, 0, 1}
}
