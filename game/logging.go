package game

import "log/slog"

// logWorldState logs a population summary from the ECS mirror.
func (g *Game) logWorldState() {
	var alive int
	minFood, minWater, maxFatigue := 101.0, 101.0, -1.0
	var hungriest string

	query := g.survivorFilter.Query()
	for query.Next() {
		ident, vs := query.Get()
		if !vs.Alive {
			continue
		}
		alive++
		if vs.FoodLevel < minFood {
			minFood = vs.FoodLevel
			hungriest = ident.Name
		}
		if vs.WaterLevel < minWater {
			minWater = vs.WaterLevel
		}
		if vs.FatigueLevel > maxFatigue {
			maxFatigue = vs.FatigueLevel
		}
	}

	if alive == 0 {
		slog.Info("population extinct", "tick", g.tick, "day", g.gameNow().Day())
		return
	}

	slog.Info("population",
		"tick", g.tick,
		"day", g.gameNow().Day(),
		"alive", alive,
		"min_food", minFood,
		"min_water", minWater,
		"max_fatigue", maxFatigue,
		"hungriest", hungriest,
	)
}
