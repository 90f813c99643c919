package character

import (
	"math"
	"time"

	"github.com/pthm-cable/pulse/body"
	"github.com/pthm-cable/pulse/gametime"
	"github.com/pthm-cable/pulse/health"
	"github.com/pthm-cable/pulse/inventory"
	"github.com/pthm-cable/pulse/vitals"
)

// State is a value capture of a controller, suitable for JSON save files.
// Active diseases and injuries are not part of it; the host captures them
// per chain and restores them with the definitions it owns.
type State struct {
	Name             string              `json:"name"`
	NowSeconds       float64             `json:"now_seconds"`
	LastTickSeconds  float64             `json:"last_tick_seconds"`
	SinceTickSeconds float64             `json:"since_tick_seconds"`
	Paused           bool                `json:"paused"`
	JustWoke         bool                `json:"just_woke"`
	Player           health.PlayerStatus `json:"player"`
	Env              health.Environment  `json:"environment"`
	Body             body.State          `json:"body"`
	Health           health.State        `json:"health"`
	Inventory        inventory.State     `json:"inventory"`
}

// State captures the controller.
func (c *Controller) State() State {
	return State{
		Name:             c.name,
		NowSeconds:       c.now.Seconds(),
		LastTickSeconds:  c.lastTick.Seconds(),
		SinceTickSeconds: c.sinceTick.Seconds(),
		Paused:           c.paused,
		JustWoke:         c.justWoke,
		Player:           c.player,
		Env:              c.env,
		Body:             c.body.State(),
		Health:           c.engine.State(),
		Inventory:        c.inv.State(),
	}
}

// RestoreState overwrites the controller with a captured state. The
// inventory slots themselves are the host's to rebuild; the caches are
// restored here.
func (c *Controller) RestoreState(s State) error {
	if err := c.engine.Restore(s.Health); err != nil {
		return err
	}
	c.name = s.Name
	c.now = gametime.FromSeconds(s.NowSeconds)
	c.lastTick = gametime.FromSeconds(s.LastTickSeconds)
	c.sinceTick = time.Duration(s.SinceTickSeconds * float64(time.Second))
	c.paused = s.Paused
	c.justWoke = s.JustWoke
	c.player = s.Player
	c.env = s.Env
	c.body.Restore(s.Body)
	c.inv.RestoreCaches(s.Inventory)
	return nil
}

func feq(a, b float64) bool {
	return math.Abs(a-b) <= vitals.Epsilon
}

// ApproxEqual reports whether two captures match, with float fields
// compared to the vitals tolerance.
func (s State) ApproxEqual(o State) bool {
	if s.Name != o.Name || s.Paused != o.Paused || s.JustWoke != o.JustWoke {
		return false
	}
	if !feq(s.NowSeconds, o.NowSeconds) ||
		!feq(s.LastTickSeconds, o.LastTickSeconds) ||
		!feq(s.SinceTickSeconds, o.SinceTickSeconds) {
		return false
	}
	if s.Player != o.Player {
		return false
	}
	if !feq(s.Env.Temperature, o.Env.Temperature) ||
		!feq(s.Env.WindSpeed, o.Env.WindSpeed) ||
		!feq(s.Env.RainIntensity, o.Env.RainIntensity) {
		return false
	}
	if !s.Body.ApproxEqual(o.Body) {
		return false
	}
	if !s.Health.ApproxEqual(o.Health) {
		return false
	}
	if !feq(s.Inventory.WeightGrams, o.Inventory.WeightGrams) {
		return false
	}
	if len(s.Inventory.ClothesCache) != len(o.Inventory.ClothesCache) {
		return false
	}
	for i := range s.Inventory.ClothesCache {
		if s.Inventory.ClothesCache[i] != o.Inventory.ClothesCache[i] {
			return false
		}
	}
	return true
}
