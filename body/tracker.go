package body

import (
	"errors"
	"time"

	"github.com/pthm-cable/pulse/gametime"
)

var (
	ErrUnknownBodyPart      = errors.New("body: unknown body part")
	ErrAlreadyApplied       = errors.New("body: appliance already applied to this part")
	ErrAlreadyHaveThisItemOn = errors.New("body: clothes item already on")
	ErrItemIsNotOn          = errors.New("body: clothes item is not on")
)

// Appliance is one item applied to one body part.
type Appliance struct {
	Item string `json:"item"`
	Part Part   `json:"part"`
}

// Tracker owns sleep state, worn clothes, applied appliances and the
// slow-moving warmth and wetness caches.
type Tracker struct {
	sleeping     bool
	sleepLeft    time.Duration
	sleepingFor  float64
	lastSlept    gametime.GameTime
	lastSleptFor float64
	hasSlept     bool

	clothes    []string
	appliances []Appliance

	coldResistance  float64
	waterResistance float64
	warmth          float64
	wetness         float64
}

// NewTracker returns a tracker for an awake character with nothing worn.
func NewTracker() *Tracker {
	return &Tracker{}
}

// StartSleeping puts the character to sleep for the given game hours.
func (t *Tracker) StartSleeping(hours float64) {
	if hours <= 0 {
		return
	}
	t.sleeping = true
	t.sleepingFor = hours
	t.sleepLeft = gametime.Hours(hours)
}

// SleepCheck advances the sleep countdown by the elapsed game delta and
// reports whether the character woke up this frame. now is the game time
// at the end of the frame.
func (t *Tracker) SleepCheck(now gametime.GameTime, gameDelta time.Duration) bool {
	if !t.sleeping {
		return false
	}
	t.sleepLeft -= gameDelta
	if t.sleepLeft > 0 {
		return false
	}
	t.sleeping = false
	t.sleepLeft = 0
	t.lastSlept = now
	t.lastSleptFor = t.sleepingFor
	t.hasSlept = true
	return true
}

// IsSleeping reports whether the character is currently asleep.
func (t *Tracker) IsSleeping() bool {
	return t.sleeping
}

// LastSlept returns the game time of the last wake-up. ok is false when
// the character has never slept.
func (t *Tracker) LastSlept() (gametime.GameTime, bool) {
	return t.lastSlept, t.hasSlept
}

// LastSleptHours returns the length in hours of the last completed sleep.
func (t *Tracker) LastSleptHours() float64 {
	return t.lastSleptFor
}

// PutOnClothes records a clothes item as worn. The item-type check is the
// caller's concern.
func (t *Tracker) PutOnClothes(item string) error {
	for _, c := range t.clothes {
		if c == item {
			return ErrAlreadyHaveThisItemOn
		}
	}
	t.clothes = append(t.clothes, item)
	return nil
}

// TakeOffClothes removes a worn clothes item.
func (t *Tracker) TakeOffClothes(item string) error {
	for i, c := range t.clothes {
		if c == item {
			t.clothes = append(t.clothes[:i], t.clothes[i+1:]...)
			return nil
		}
	}
	return ErrItemIsNotOn
}

// Clothes returns the worn items in put-on order.
func (t *Tracker) Clothes() []string {
	out := make([]string, len(t.clothes))
	copy(out, t.clothes)
	return out
}

// IsWearing reports whether the named clothes item is on.
func (t *Tracker) IsWearing(item string) bool {
	for _, c := range t.clothes {
		if c == item {
			return true
		}
	}
	return false
}

// ApplyAppliance records an item as applied to a body part. The same item
// may be applied to several parts, but only once per part.
func (t *Tracker) ApplyAppliance(item string, part Part) error {
	if !part.IsValid() {
		return ErrUnknownBodyPart
	}
	if t.HasAppliance(item, part) {
		return ErrAlreadyApplied
	}
	t.appliances = append(t.appliances, Appliance{Item: item, Part: part})
	return nil
}

// HasAppliance reports whether the item is applied to the given part.
func (t *Tracker) HasAppliance(item string, part Part) bool {
	for _, a := range t.appliances {
		if a.Item == item && a.Part == part {
			return true
		}
	}
	return false
}

// Appliances returns the applied items in apply order.
func (t *Tracker) Appliances() []Appliance {
	out := make([]Appliance, len(t.appliances))
	copy(out, t.appliances)
	return out
}

// SetResistances refreshes the clothes cache with the summed cold and
// water resistance of everything worn.
func (t *Tracker) SetResistances(cold, water float64) {
	t.coldResistance = cold
	t.waterResistance = water
}

// ColdResistance returns the cached summed cold resistance of worn clothes.
func (t *Tracker) ColdResistance() float64 {
	return t.coldResistance
}

// WaterResistance returns the cached summed water resistance of worn clothes.
func (t *Tracker) WaterResistance() float64 {
	return t.waterResistance
}

// Warmth returns the current warmth cache value. Positive means warmer
// than the comfort point.
func (t *Tracker) Warmth() float64 {
	return t.warmth
}

// Wetness returns the current wetness cache in 0..100.
func (t *Tracker) Wetness() float64 {
	return t.wetness
}

// comfortTemperature is the outside temperature at which an unclothed
// character is neither warm nor cold.
const comfortTemperature = 20.0

// UpdateEnvironment evolves the warmth and wetness caches from the outside
// temperature and rain intensity over one frame of game time.
func (t *Tracker) UpdateEnvironment(temperature, rainIntensity float64, gameDelta time.Duration) {
	dt := gameDelta.Seconds()
	if dt <= 0 {
		return
	}

	// warmth settles toward the clothed comfort offset
	target := temperature - comfortTemperature + t.coldResistance*0.5
	t.warmth += (target - t.warmth) * minFloat(dt*0.01, 1)

	// rain soaks through whatever the clothes do not repel
	if rainIntensity > 0 {
		soak := rainIntensity * (1 - t.waterResistance/100)
		t.wetness += soak * dt * 0.2
	} else {
		t.wetness -= dt * 0.05
	}
	if t.wetness < 0 {
		t.wetness = 0
	}
	if t.wetness > 100 {
		t.wetness = 100
	}
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
