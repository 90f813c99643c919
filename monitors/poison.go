package monitors

import (
	"math/rand"

	"github.com/pthm-cable/pulse/disease"
	"github.com/pthm-cable/pulse/gametime"
	"github.com/pthm-cable/pulse/health"
)

// Poison rolls for food poisoning on every consumed item. Fresh items
// roll against their fresh poison chance, spoiled ones against the
// spoiled chance; a successful roll spawns the configured disease.
type Poison struct {
	rng *rand.Rand
	def disease.Definition
}

// NewPoison builds a poison monitor spawning def when a roll succeeds.
func NewPoison(rng *rand.Rand, def disease.Definition) *Poison {
	return &Poison{rng: rng, def: def}
}

func (m *Poison) OnFrame(e *health.Engine, f *health.Frame) {}

func (m *Poison) OnConsumed(e *health.Engine, now gametime.GameTime, item health.ConsumedItem) {
	chance := item.FreshPoisonChance
	if item.Spoiled {
		chance = item.SpoiledPoisonChance
	}
	if chance <= 0 {
		return
	}
	if m.rng.Float64()*100 >= chance {
		return
	}
	// Already poisoned or dead: the roll has no effect.
	_, _ = e.SpawnDisease(m.def, now)
}
