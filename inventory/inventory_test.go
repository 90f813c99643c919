package inventory

import (
	"errors"
	"testing"

	"github.com/pthm-cable/pulse/events"
	"github.com/pthm-cable/pulse/gametime"
)

func water() Item {
	return Item{
		Name:          "Water Bottle",
		Count:         3,
		WeightPerUnit: 850,
		Consumable:    &Consumable{IsWater: true, WaterGain: 10},
	}
}

func jacket() Item {
	return Item{
		Name:          "Jacket",
		Count:         1,
		WeightPerUnit: 1200,
		Clothes:       &Clothes{ColdResistance: 35, WaterResistance: 10},
	}
}

func drainedKinds(inv *Inventory) []events.Kind {
	var kinds []events.Kind
	inv.Outbox().Drain(events.ListenerFunc(func(e events.Event) {
		kinds = append(kinds, e.Kind)
	}))
	return kinds
}

func TestAddMergesAndTracksWeight(t *testing.T) {
	inv := New()
	now := gametime.FromSeconds(10)

	inv.Add(now, water())
	if got := inv.Weight(); got != 3*850 {
		t.Fatalf("weight = %v, want %v", got, 3*850)
	}

	inv.Add(now.Add(gametime.Hours(1)), water())
	it, err := inv.Item("Water Bottle")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if it.Count != 6 {
		t.Errorf("merged count = %d, want 6", it.Count)
	}
	if !it.AddedAt.Equal(now) {
		t.Errorf("merge replaced the arrival instant")
	}
	if got := inv.Weight(); got != 6*850 {
		t.Errorf("weight = %v, want %v", got, 6*850)
	}

	kinds := drainedKinds(inv)
	want := []events.Kind{
		events.KindInventoryItemAdded,
		events.KindInventoryWeightChanged,
		events.KindInventoryItemAdded,
		events.KindInventoryWeightChanged,
	}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("kinds = %v, want %v", kinds, want)
		}
	}
}

func TestUseDecrementsAndDropsEmptySlot(t *testing.T) {
	inv := New()
	now := gametime.FromSeconds(0)
	inv.Add(now, water())
	drainedKinds(inv)

	if err := inv.Use(now, "Water Bottle", 2); err != nil {
		t.Fatalf("use: %v", err)
	}
	it, _ := inv.Item("Water Bottle")
	if it.Count != 1 {
		t.Fatalf("count = %d, want 1", it.Count)
	}
	kinds := drainedKinds(inv)
	if len(kinds) != 2 || kinds[0] != events.KindInventoryItemUsedPartially {
		t.Fatalf("kinds = %v, want [used_partially, weight_changed]", kinds)
	}

	if err := inv.Use(now, "Water Bottle", 2); !errors.Is(err, ErrInsufficientResources) {
		t.Fatalf("overuse err = %v, want ErrInsufficientResources", err)
	}

	if err := inv.Use(now, "Water Bottle", 1); err != nil {
		t.Fatalf("use last: %v", err)
	}
	if _, err := inv.Item("Water Bottle"); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("slot survived: %v", err)
	}
	kinds = drainedKinds(inv)
	if len(kinds) != 2 || kinds[0] != events.KindInventoryItemUsedAll {
		t.Fatalf("kinds = %v, want [used_all, weight_changed]", kinds)
	}
	if inv.Weight() != 0 {
		t.Fatalf("weight = %v, want 0", inv.Weight())
	}
}

func TestInfiniteItemsNeverDecrement(t *testing.T) {
	inv := New()
	now := gametime.FromSeconds(0)
	inv.Add(now, Item{Name: "Stream Water", Count: 1, WeightPerUnit: 0, Infinite: true,
		Consumable: &Consumable{IsWater: true, WaterGain: 8}})
	drainedKinds(inv)

	for i := 0; i < 5; i++ {
		if err := inv.Use(now, "Stream Water", 1); err != nil {
			t.Fatalf("use %d: %v", i, err)
		}
	}
	it, err := inv.Item("Stream Water")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if it.Count != 1 {
		t.Fatalf("count = %d, want untouched 1", it.Count)
	}
}

func TestRemoveAndMissingLookups(t *testing.T) {
	inv := New()
	now := gametime.FromSeconds(0)

	if err := inv.Remove(now, "Ghost"); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("remove missing err = %v, want ErrItemNotFound", err)
	}
	if err := inv.Use(now, "Ghost", 1); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("use missing err = %v, want ErrItemNotFound", err)
	}

	inv.Add(now, jacket())
	if err := inv.Remove(now, "Jacket"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(inv.Items()) != 0 {
		t.Fatalf("items left: %d", len(inv.Items()))
	}
}

func TestClothesCacheFollowsMutations(t *testing.T) {
	inv := New()
	now := gametime.FromSeconds(0)

	inv.Add(now, water())
	inv.Add(now, jacket())
	names := inv.ClothesNames()
	if len(names) != 1 || names[0] != "Jacket" {
		t.Fatalf("clothes cache = %v, want [Jacket]", names)
	}

	inv.Remove(now, "Jacket")
	if names := inv.ClothesNames(); len(names) != 0 {
		t.Fatalf("clothes cache = %v, want empty", names)
	}
}

func TestSpoilage(t *testing.T) {
	inv := New()
	start := gametime.FromSeconds(0)
	inv.Add(start, Item{Name: "Meat", Count: 2, WeightPerUnit: 400,
		Consumable: &Consumable{IsFood: true, FoodGain: 20, SpoiledPoisonChance: 60, SpoilTimeHours: 4}})

	it, _ := inv.Item("Meat")
	if it.SpoiledAt(start.Add(gametime.Hours(3.9))) {
		t.Fatal("spoiled before the window")
	}
	if !it.SpoiledAt(start.Add(gametime.Hours(4))) {
		t.Fatal("not spoiled at the window edge")
	}

	// Items without a spoil window never spoil.
	inv.Add(start, water())
	wb, _ := inv.Item("Water Bottle")
	if wb.SpoiledAt(start.Add(gametime.Hours(1000))) {
		t.Fatal("unspoilable item spoiled")
	}
}

func TestStateCapturesCaches(t *testing.T) {
	inv := New()
	now := gametime.FromSeconds(0)
	inv.Add(now, water())
	inv.Add(now, jacket())

	s := inv.State()
	if s.WeightGrams != inv.Weight() {
		t.Fatalf("state weight = %v, want %v", s.WeightGrams, inv.Weight())
	}
	if len(s.ClothesCache) != 1 || s.ClothesCache[0] != "Jacket" {
		t.Fatalf("state clothes = %v, want [Jacket]", s.ClothesCache)
	}

	fresh := New()
	fresh.RestoreCaches(s)
	if fresh.Weight() != s.WeightGrams {
		t.Fatalf("restored weight = %v, want %v", fresh.Weight(), s.WeightGrams)
	}
}
