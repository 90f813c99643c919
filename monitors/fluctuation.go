package monitors

import (
	"math"
	"math/rand"
	"time"

	"github.com/pthm-cable/pulse/config"
	"github.com/pthm-cable/pulse/gametime"
	"github.com/pthm-cable/pulse/health"
)

// Swing maxima per vital, and the chance of a mid-swing sign flip.
const (
	maxTempSwing   = 0.35
	maxHeartSwing  = 6.0
	maxTopSwing    = 3.0
	maxBottomSwing = 7.0
	flipChance     = 0.05
)

// Fluctuation adds a small triangle-wave wander to the absolute vitals so
// readings never sit perfectly still. Swing targets are re-sampled at
// every zero crossing and the wave occasionally flips sign mid-swing.
type Fluctuation struct {
	rng *rand.Rand

	seeded    bool
	halfStart gametime.GameTime
	flipDone  bool

	temp, heart, top, bottom float64
}

func NewFluctuation(rng *rand.Rand) *Fluctuation {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Fluctuation{rng: rng}
}

func (m *Fluctuation) resample() {
	swing := func(max float64) float64 { return (m.rng.Float64()*2 - 1) * max }
	m.temp = swing(maxTempSwing)
	m.heart = swing(maxHeartSwing)
	m.top = swing(maxTopSwing)
	m.bottom = swing(maxBottomSwing)
	m.flipDone = false
}

func (m *Fluctuation) flip() {
	m.temp, m.heart, m.top, m.bottom = -m.temp, -m.heart, -m.top, -m.bottom
}

func (m *Fluctuation) OnFrame(f *health.Frame) health.Deltas {
	cfg := config.Cfg()
	half := gametime.Minutes(cfg.Fluctuation.PeriodMinutes) / 2
	if half <= 0 {
		half = gametime.Minutes(5)
	}

	if !m.seeded {
		m.seeded = true
		m.halfStart = f.Now
		m.resample()
	}
	for f.Now.Sub(m.halfStart) >= half {
		m.halfStart = m.halfStart.Add(half)
		m.resample()
	}

	p := float64(f.Now.Sub(m.halfStart)) / float64(half)
	if !m.flipDone && p >= 0.3 && p <= 0.7 {
		m.flipDone = true
		if m.rng.Float64() < flipChance {
			m.flip()
		}
	}

	// Triangle envelope: zero at the crossings, one mid-swing.
	env := 1 - math.Abs(2*p-1)
	return health.Deltas{
		BodyTemperature: m.temp * env,
		HeartRate:       m.heart * env,
		TopPressure:     m.top * env,
		BottomPressure:  m.bottom * env,
	}
}
