package monitors

import (
	"github.com/pthm-cable/pulse/config"
	"github.com/pthm-cable/pulse/health"
)

// Underwater tracks submersion. Oxygen and stamina drain while under;
// heart rate and pressures ramp up the way a hard run does; long dives
// build extra fatigue that clears on sleep.
type Underwater struct {
	diveSeconds  float64
	fatigueExtra float64
}

func NewUnderwater() *Underwater { return &Underwater{} }

func (m *Underwater) OnFrame(f *health.Frame) health.Deltas {
	cfg := config.Cfg()
	dt := f.Delta.Seconds()
	rampCap := cfg.Underwater.RampMinutes * 60

	if f.JustWoke {
		m.fatigueExtra = 0
	}

	under := f.Player.IsUnderwater && !f.Sleeping
	if under {
		m.diveSeconds += dt
		if m.diveSeconds > rampCap {
			m.diveSeconds = rampCap
		}
		if h := cfg.Underwater.FatigueHours; h > 0 {
			m.fatigueExtra += dt / (h * 3600) * 100
			if m.fatigueExtra > 100 {
				m.fatigueExtra = 100
			}
		}
	} else {
		m.diveSeconds -= dt
		if m.diveSeconds < 0 {
			m.diveSeconds = 0
		}
	}

	ramp := 0.0
	if rampCap > 0 {
		ramp = clamp01(m.diveSeconds / rampCap)
	}

	d := health.Deltas{
		HeartRate:      exertHeartRamp * ramp,
		TopPressure:    exertTopRamp * ramp,
		BottomPressure: exertBottomRamp * ramp,
		Fatigue:        m.fatigueExtra,
	}
	if under {
		d.OxygenDrain = cfg.Underwater.OxygenPerSecond
		d.StaminaDrain = cfg.Underwater.StaminaPerSecond
	}
	return d
}
