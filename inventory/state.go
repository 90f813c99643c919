package inventory

// State is the value capture of the inventory caches. The slots
// themselves belong to the host save format.
type State struct {
	WeightGrams  float64  `json:"weight_grams"`
	ClothesCache []string `json:"clothes_cache"`
}

// State captures the caches.
func (inv *Inventory) State() State {
	return State{
		WeightGrams:  inv.weight,
		ClothesCache: append([]string(nil), inv.clothes...),
	}
}

// RestoreCaches overwrites the caches from a capture. Re-adding slots
// afterward recomputes them, so this only matters for captures taken
// before the slots are rebuilt.
func (inv *Inventory) RestoreCaches(s State) {
	inv.weight = s.WeightGrams
	inv.clothes = append([]string(nil), s.ClothesCache...)
}
