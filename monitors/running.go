package monitors

import (
	"github.com/pthm-cable/pulse/config"
	"github.com/pthm-cable/pulse/health"
)

// Vitals readings added at a full exertion ramp.
const (
	exertTempRamp   = 0.3
	exertHeartRamp  = 45.0
	exertTopRamp    = 24.0
	exertBottomRamp = 16.0
)

// Running tracks sustained running. Vitals ramp toward exertion readings
// over the configured ramp window and ease back down after stopping;
// stamina and water drain while moving; long runs build extra fatigue
// that only sleep clears.
type Running struct {
	runSeconds   float64
	fatigueExtra float64
}

func NewRunning() *Running { return &Running{} }

func (m *Running) OnFrame(f *health.Frame) health.Deltas {
	cfg := config.Cfg()
	dt := f.Delta.Seconds()
	rampCap := cfg.Running.RampMinutes * 60

	if f.JustWoke {
		m.fatigueExtra = 0
	}

	running := f.Player.IsRunning && !f.Sleeping
	if running {
		m.runSeconds += dt
		if m.runSeconds > rampCap {
			m.runSeconds = rampCap
		}
		if h := cfg.Running.FatigueHours; h > 0 {
			m.fatigueExtra += dt / (h * 3600) * 100
			if m.fatigueExtra > 100 {
				m.fatigueExtra = 100
			}
		}
	} else {
		m.runSeconds -= dt
		if m.runSeconds < 0 {
			m.runSeconds = 0
		}
	}

	ramp := 0.0
	if rampCap > 0 {
		ramp = clamp01(m.runSeconds / rampCap)
	}

	d := health.Deltas{
		BodyTemperature: exertTempRamp * ramp,
		HeartRate:       exertHeartRamp * ramp,
		TopPressure:     exertTopRamp * ramp,
		BottomPressure:  exertBottomRamp * ramp,
		Fatigue:         m.fatigueExtra,
	}
	if running {
		d.StaminaDrain = cfg.Running.StaminaPerSecond
		d.WaterDrain = cfg.Running.WaterPerSecond
	}
	return d
}
