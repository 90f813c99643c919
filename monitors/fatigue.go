package monitors

import (
	"github.com/pthm-cable/pulse/config"
	"github.com/pthm-cable/pulse/health"
)

// Fatigue rebuilds the base fatigue level every tick: a floor left over
// from how long the last sleep lasted, plus growth for time spent awake.
// A character who has never slept starts from zero.
type Fatigue struct {
	awakeSeconds float64
}

func NewFatigue() *Fatigue { return &Fatigue{} }

func (m *Fatigue) OnFrame(f *health.Frame) health.Deltas {
	cfg := config.Cfg()

	if f.JustWoke {
		m.awakeSeconds = 0
	}
	if !f.Sleeping {
		m.awakeSeconds += f.Delta.Seconds()
	}

	base := 0.0
	if f.HasSlept && cfg.Fatigue.FullRestHours > 0 {
		base = lerp(clamp01(f.LastSleptHours/cfg.Fatigue.FullRestHours), 100, 0)
	}
	growth := 0.0
	if secs := cfg.Fatigue.ExhaustedAfterHours * 3600; secs > 0 {
		growth = lerp(clamp01(m.awakeSeconds/secs), 0, 100)
	}

	v := base + growth
	if v > 100 {
		v = 100
	}
	return health.Deltas{Fatigue: v}
}
