// Package inventory tracks a character's carried items: counts, cached
// weight, and the behavior views (consumable, appliance, clothes) the
// health simulation asks about.
package inventory

import (
	"errors"

	"github.com/pthm-cable/pulse/events"
	"github.com/pthm-cable/pulse/gametime"
)

var (
	ErrItemNotFound          = errors.New("inventory: item not found")
	ErrInsufficientResources = errors.New("inventory: insufficient resources")
	ErrItemIsNotConsumable   = errors.New("inventory: item is not consumable")
	ErrItemIsNotAppliance    = errors.New("inventory: item is not an appliance")
	ErrIsNotClothesType      = errors.New("inventory: item is not clothes")
)

// Consumable describes how an item behaves when eaten or drunk. Poison
// chances are percents; a zero spoil time means the item never spoils.
type Consumable struct {
	IsFood              bool    `json:"is_food"`
	IsWater             bool    `json:"is_water"`
	FoodGain            float64 `json:"food_gain"`
	WaterGain           float64 `json:"water_gain"`
	FreshPoisonChance   float64 `json:"fresh_poison_chance"`
	SpoiledPoisonChance float64 `json:"spoiled_poison_chance"`
	SpoilTimeHours      float64 `json:"spoil_time_hours"`
}

// Appliance describes how an item behaves when applied to the body.
// Injections act without occupying a body part slot.
type Appliance struct {
	BodyAppliance bool `json:"body_appliance"`
	Injection     bool `json:"injection"`
}

// Clothes describes a wearable item. Resistances are percents.
type Clothes struct {
	ColdResistance  float64 `json:"cold_resistance"`
	WaterResistance float64 `json:"water_resistance"`
}

// Item is one inventory slot. The behavior views are nil when the item
// has no such behavior.
type Item struct {
	Name          string
	Count         int
	WeightPerUnit float64 // grams
	Infinite      bool

	Consumable *Consumable
	Appliance  *Appliance
	Clothes    *Clothes

	AddedAt gametime.GameTime
}

// SpoiledAt reports whether the slot's oldest batch has passed its spoil
// window at the instant.
func (it *Item) SpoiledAt(now gametime.GameTime) bool {
	if it.Consumable == nil || it.Consumable.SpoilTimeHours <= 0 {
		return false
	}
	return !now.Before(it.AddedAt.Add(gametime.Hours(it.Consumable.SpoilTimeHours)))
}

// Inventory is an ordered collection of item slots with a cached total
// weight and a cache of wearable item names.
type Inventory struct {
	items   map[string]*Item
	order   []string
	weight  float64
	clothes []string
	outbox  *events.Outbox
}

func New() *Inventory {
	return &Inventory{
		items:  make(map[string]*Item),
		outbox: events.NewOutbox(),
	}
}

// Outbox returns the inventory's pending events.
func (inv *Inventory) Outbox() *events.Outbox { return inv.outbox }

// Weight returns the cached carried weight in grams.
func (inv *Inventory) Weight() float64 { return inv.weight }

// ClothesNames returns the cached names of carried wearable items, in
// insertion order.
func (inv *Inventory) ClothesNames() []string {
	return append([]string(nil), inv.clothes...)
}

// Item returns the named slot. The pointer is a live view; do not retain
// it across mutations.
func (inv *Inventory) Item(name string) (*Item, error) {
	it, ok := inv.items[name]
	if !ok {
		return nil, ErrItemNotFound
	}
	return it, nil
}

// Items returns the slots in insertion order.
func (inv *Inventory) Items() []*Item {
	out := make([]*Item, 0, len(inv.order))
	for _, name := range inv.order {
		out = append(out, inv.items[name])
	}
	return out
}

// Add inserts an item or merges counts into an existing slot of the same
// name. A merged slot keeps its original arrival instant so spoilage
// tracks the oldest batch.
func (inv *Inventory) Add(now gametime.GameTime, it Item) {
	old := inv.weight
	if have, ok := inv.items[it.Name]; ok {
		have.Count += it.Count
	} else {
		slot := it
		slot.AddedAt = now
		inv.items[it.Name] = &slot
		inv.order = append(inv.order, it.Name)
	}
	inv.refresh()
	inv.outbox.Push(events.NewItem(events.KindInventoryItemAdded, now, it.Name, float64(it.Count)))
	if inv.weight != old {
		inv.outbox.Push(events.NewWeight(now, old, inv.weight))
	}
}

// Remove drops a slot entirely.
func (inv *Inventory) Remove(now gametime.GameTime, name string) error {
	if _, ok := inv.items[name]; !ok {
		return ErrItemNotFound
	}
	old := inv.weight
	delete(inv.items, name)
	inv.order = removeName(inv.order, name)
	inv.refresh()
	inv.outbox.Push(events.NewItem(events.KindInventoryItemRemoved, now, name, 0))
	if inv.weight != old {
		inv.outbox.Push(events.NewWeight(now, old, inv.weight))
	}
	return nil
}

// Use consumes units from a slot. Infinite slots never decrement. Using
// the last unit drops the slot and reports UsedAll.
func (inv *Inventory) Use(now gametime.GameTime, name string, units int) error {
	it, ok := inv.items[name]
	if !ok {
		return ErrItemNotFound
	}
	if units <= 0 {
		return nil
	}
	if it.Infinite {
		inv.outbox.Push(events.NewItem(events.KindInventoryItemUsedPartially, now, name, float64(units)))
		return nil
	}
	if it.Count < units {
		return ErrInsufficientResources
	}
	old := inv.weight
	it.Count -= units
	if it.Count == 0 {
		delete(inv.items, name)
		inv.order = removeName(inv.order, name)
		inv.refresh()
		inv.outbox.Push(events.NewItem(events.KindInventoryItemUsedAll, now, name, float64(units)))
	} else {
		inv.refresh()
		inv.outbox.Push(events.NewItem(events.KindInventoryItemUsedPartially, now, name, float64(units)))
	}
	if inv.weight != old {
		inv.outbox.Push(events.NewWeight(now, old, inv.weight))
	}
	return nil
}

func (inv *Inventory) refresh() {
	w := 0.0
	clothes := inv.clothes[:0]
	for _, name := range inv.order {
		it := inv.items[name]
		w += float64(it.Count) * it.WeightPerUnit
		if it.Clothes != nil {
			clothes = append(clothes, name)
		}
	}
	inv.weight = w
	inv.clothes = clothes
}

func removeName(s []string, name string) []string {
	out := s[:0]
	for _, n := range s {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}
