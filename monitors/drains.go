// Package monitors provides the standard monitors fed to the health
// engine: base metabolic drains, dynamic vitals fluctuation, running and
// underwater exertion, fatigue, and the food-poisoning roll on intake.
package monitors

import (
	"github.com/pthm-cable/pulse/config"
	"github.com/pthm-cable/pulse/health"
)

// Drains applies the base metabolic food and water losses. They run
// around the clock, asleep or not.
type Drains struct{}

func NewDrains() *Drains { return &Drains{} }

func (m *Drains) OnFrame(f *health.Frame) health.Deltas {
	cfg := config.Cfg()
	return health.Deltas{
		FoodDrain:  cfg.Drains.FoodPerSecond,
		WaterDrain: cfg.Drains.WaterPerSecond,
	}
}
