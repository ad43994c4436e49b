// Package forecast produces shortage predictions for inventory items.
//
// The only implementation, SimulatedForecaster, draws its numbers from an
// injected random source. It is a demo stand-in, not a statistical model.
package forecast

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/HerbHall/fullstock/pkg/models"
)

// DateLayout is the calendar-date format used for shortage dates.
const DateLayout = "2006-01-02"

// Suggested actions by urgency.
const (
	ActionImmediate = "Immediate order required. Consider alternative suppliers."
	ActionWithinDay = "Place order within 24 hours to avoid shortage."
	ActionNextOrder = "Include in next regular order with increased quantity."
	ActionNone      = "No action required at this time."
)

// Confidence bounds and base score.
const (
	baseConfidence = 75
	minConfidence  = 50
	maxConfidence  = 98
	jitterSpan     = 10.0
)

// categoryConfidence shifts the base confidence per category. Categories
// not listed get no adjustment.
var categoryConfidence = map[models.Category]int{
	models.CategoryPantry:    15,
	models.CategoryBeverages: 10,
	models.CategoryMeat:      5,
	models.CategoryDairy:     12,
	models.CategoryProduce:   -5,
	models.CategorySeafood:   -10,
	models.CategoryHerbs:     -8,
	models.CategoryBaking:    8,
}

// Prediction is a shortage forecast for one item.
type Prediction struct {
	ItemID            int     `json:"item_id"`
	ItemName          string  `json:"item_name"`
	DaysUntilShortage int     `json:"days_until_shortage"`
	ShortageDate      string  `json:"shortage_date"`
	ConfidenceScore   int     `json:"confidence_score"`
	ProjectedNeed     float64 `json:"projected_need"`
	SuggestedAction   string  `json:"suggested_action"`
	Simulated         bool    `json:"simulated"`
}

// Forecaster predicts shortages. Predict reports false for a nil item.
type Forecaster interface {
	Predict(item *models.InventoryItem) (Prediction, bool)
}

// RandomSource supplies the randomness of a SimulatedForecaster.
// *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	IntN(n int) int
	Float64() float64
}

// Compile-time interface guard.
var _ Forecaster = (*SimulatedForecaster)(nil)

// SimulatedForecaster fabricates plausible predictions from item status
// and category. It is safe for concurrent use.
type SimulatedForecaster struct {
	mu  sync.Mutex
	rng RandomSource
	now func() time.Time
}

// Option configures a SimulatedForecaster.
type Option func(*SimulatedForecaster)

// WithRandom sets the random source.
func WithRandom(src RandomSource) Option {
	return func(f *SimulatedForecaster) { f.rng = src }
}

// WithSeed seeds a PCG random source so predictions are reproducible.
func WithSeed(seed uint64) Option {
	return func(f *SimulatedForecaster) { f.rng = rand.New(rand.NewPCG(seed, seed)) }
}

// WithClock sets the time source used for shortage dates.
func WithClock(now func() time.Time) Option {
	return func(f *SimulatedForecaster) { f.now = now }
}

// NewSimulated creates a SimulatedForecaster. Without options it uses a
// time-seeded source and the wall clock.
func NewSimulated(opts ...Option) *SimulatedForecaster {
	f := &SimulatedForecaster{now: time.Now}
	for _, opt := range opts {
		opt(f)
	}
	if f.rng == nil {
		seed := uint64(time.Now().UnixNano())
		f.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return f
}

// Predict returns a simulated prediction for item.
func (f *SimulatedForecaster) Predict(item *models.InventoryItem) (Prediction, bool) {
	if item == nil {
		return Prediction{}, false
	}

	f.mu.Lock()
	days := DaysUntilShortage(item.Status, f.rng)
	jitter := f.rng.Float64()*jitterSpan - jitterSpan/2
	f.mu.Unlock()

	return Prediction{
		ItemID:            item.ID,
		ItemName:          item.Name,
		DaysUntilShortage: days,
		ShortageDate:      f.now().AddDate(0, 0, days).Format(DateLayout),
		ConfidenceScore:   ConfidenceScore(item.Category, jitter),
		ProjectedNeed:     ProjectedNeed(item),
		SuggestedAction:   SuggestedAction(item.Status, days),
		Simulated:         true,
	}, true
}

// DaysUntilShortage draws a day count from the range for status:
// critical 1-3, warning 4-8, anything else 15-24.
func DaysUntilShortage(status models.Status, rng RandomSource) int {
	switch st, _ := models.ParseStatus(string(status)); st {
	case models.StatusCritical:
		return 1 + rng.IntN(3)
	case models.StatusWarning:
		return 4 + rng.IntN(5)
	default:
		return 15 + rng.IntN(10)
	}
}

// ConfidenceScore combines the base score, the category adjustment and a
// jitter in [-5, 5), rounded and clamped to 50..98.
func ConfidenceScore(category models.Category, jitter float64) int {
	score := float64(baseConfidence+categoryConfidence[category]) + jitter
	return min(max(int(roundHalfUp(score)), minConfidence), maxConfidence)
}

// ProjectedNeed is the shortfall below the minimum plus 25% headroom,
// rounded to one decimal. Overstocked items yield a negative need.
func ProjectedNeed(item *models.InventoryItem) float64 {
	return roundHalfUp((item.MinRequired-item.CurrentStock)*1.25*10) / 10
}

// SuggestedAction picks the action text for status and days to shortage.
func SuggestedAction(status models.Status, days int) string {
	switch st, _ := models.ParseStatus(string(status)); st {
	case models.StatusCritical:
		return ActionImmediate
	case models.StatusWarning:
		if days < 5 {
			return ActionWithinDay
		}
		return ActionNextOrder
	default:
		return ActionNone
	}
}

// roundHalfUp rounds x to the nearest integer with halves going toward
// positive infinity.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
