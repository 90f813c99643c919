// Package character glues one survivor together: the game clock, the
// health engine, the body tracker and the inventory, driven by real frame
// time and reporting through a single event listener.
package character

import (
	"errors"
	"fmt"
	"time"

	"github.com/pthm-cable/pulse/body"
	"github.com/pthm-cable/pulse/config"
	"github.com/pthm-cable/pulse/events"
	"github.com/pthm-cable/pulse/gametime"
	"github.com/pthm-cable/pulse/health"
	"github.com/pthm-cable/pulse/inventory"
)

// ErrCouldNotUseItem wraps inventory failures during consume and
// appliance operations.
var ErrCouldNotUseItem = errors.New("character: could not use item")

// Controller owns one survivor and drives their health simulation on the
// configured tick cadence.
type Controller struct {
	name     string
	engine   *health.Engine
	body     *body.Tracker
	inv      *inventory.Inventory
	listener events.Listener
	outbox   *events.Outbox

	player health.PlayerStatus
	env    health.Environment

	now       gametime.GameTime
	lastTick  gametime.GameTime
	sinceTick time.Duration // real time toward the next tick
	paused    bool
	justWoke  bool
}

// New builds a controller around a health engine. listener may be nil
// when the host does not care about events.
func New(name string, engine *health.Engine, listener events.Listener) *Controller {
	if listener == nil {
		listener = events.ListenerFunc(func(events.Event) {})
	}
	return &Controller{
		name:     name,
		engine:   engine,
		body:     body.NewTracker(),
		inv:      inventory.New(),
		listener: listener,
		outbox:   events.NewOutbox(),
	}
}

func (c *Controller) Name() string                    { return c.name }
func (c *Controller) Engine() *health.Engine          { return c.engine }
func (c *Controller) Body() *body.Tracker             { return c.body }
func (c *Controller) Inventory() *inventory.Inventory { return c.inv }
func (c *Controller) Now() gametime.GameTime          { return c.now }
func (c *Controller) IsAlive() bool                   { return c.engine.IsAlive() }
func (c *Controller) IsPaused() bool                  { return c.paused }

func (c *Controller) Pause()  { c.paused = true }
func (c *Controller) Resume() { c.paused = false }

// SetPlayerStatus replaces the player activity flags read by the next
// tick.
func (c *Controller) SetPlayerStatus(p health.PlayerStatus) { c.player = p }

// SetEnvironment replaces the outside conditions read by the next tick
// and by the per-frame warmth and wetness updates.
func (c *Controller) SetEnvironment(e health.Environment) { c.env = e }

// Environment returns the current outside conditions.
func (c *Controller) Environment() health.Environment { return c.env }

// Update advances the survivor by one real frame. Wake detection and the
// warmth and wetness caches run every frame; the health tick runs on the
// awake cadence, or five times as often while sleeping.
func (c *Controller) Update(frameTime time.Duration) {
	if c.paused || !c.engine.IsAlive() {
		return
	}
	cfg := config.Cfg()

	gameDelta := time.Duration(float64(frameTime) * cfg.Time.Scale)
	c.now = c.now.Add(gameDelta)

	if c.body.IsSleeping() && c.body.SleepCheck(c.now, gameDelta) {
		c.justWoke = true
		c.outbox.Push(events.New(events.KindWokeUp, c.now))
	}
	c.body.UpdateEnvironment(c.env.Temperature, c.env.RainIntensity, gameDelta)

	interval := cfg.Derived.UpdateInterval
	if c.body.IsSleeping() {
		interval = cfg.Derived.SleepInterval
	}
	c.sinceTick += frameTime
	if c.sinceTick < interval {
		return
	}
	c.sinceTick = 0

	f := &health.Frame{
		Now:            c.now,
		Delta:          c.now.Sub(c.lastTick),
		Player:         c.player,
		Env:            c.env,
		Sleeping:       c.body.IsSleeping(),
		LastSleptHours: c.body.LastSleptHours(),
		JustWoke:       c.justWoke,
	}
	_, f.HasSlept = c.body.LastSlept()

	c.engine.Tick(f)
	c.lastTick = c.now
	c.justWoke = false

	c.engine.Outbox().Drain(c.listener)
	c.inv.Outbox().Drain(c.listener)
	c.outbox.Drain(c.listener)
}

// Consume eats or drinks one unit of the named item and fans the intake
// out to treatments and medical agents. The last unit of a finite stack
// cannot be consumed.
func (c *Controller) Consume(name string) error {
	if !c.engine.IsAlive() {
		return health.ErrCharacterIsDead
	}
	it, err := c.inv.Item(name)
	if err != nil {
		return err
	}
	if it.Consumable == nil {
		return inventory.ErrItemIsNotConsumable
	}
	if !it.Infinite && it.Count < 2 {
		return inventory.ErrInsufficientResources
	}

	rec := health.ConsumedItem{
		Name:                it.Name,
		IsFood:              it.Consumable.IsFood,
		IsWater:             it.Consumable.IsWater,
		FoodGain:            it.Consumable.FoodGain,
		WaterGain:           it.Consumable.WaterGain,
		FreshPoisonChance:   it.Consumable.FreshPoisonChance,
		SpoiledPoisonChance: it.Consumable.SpoiledPoisonChance,
		Spoiled:             it.SpoiledAt(c.now),
	}
	if err := c.inv.Use(c.now, name, 1); err != nil {
		return fmt.Errorf("%w: %w", ErrCouldNotUseItem, err)
	}
	if err := c.engine.OnConsumed(c.now, rec); err != nil {
		return err
	}
	c.outbox.Push(events.NewItem(events.KindItemConsumed, c.now, name, 1))
	return nil
}

// TakeAppliance applies one unit of the named appliance item to a body
// part. Injections act without occupying the part slot.
func (c *Controller) TakeAppliance(name string, part body.Part) error {
	if !c.engine.IsAlive() {
		return health.ErrCharacterIsDead
	}
	it, err := c.inv.Item(name)
	if err != nil {
		return err
	}
	if it.Appliance == nil {
		return inventory.ErrItemIsNotAppliance
	}
	if !part.IsValid() {
		return body.ErrUnknownBodyPart
	}
	if it.Appliance.BodyAppliance {
		if err := c.body.ApplyAppliance(name, part); err != nil {
			return err
		}
	}
	if err := c.inv.Use(c.now, name, 1); err != nil {
		return fmt.Errorf("%w: %w", ErrCouldNotUseItem, err)
	}
	if err := c.engine.OnApplianceTaken(c.now, name, part); err != nil {
		return err
	}
	c.outbox.Push(events.NewAppliance(events.KindBodyApplianceOn, c.now, name, part))
	return nil
}

// PutOnClothes wears a carried clothes item and refreshes the summed
// resistances.
func (c *Controller) PutOnClothes(name string) error {
	it, err := c.inv.Item(name)
	if err != nil {
		return err
	}
	if it.Clothes == nil {
		return inventory.ErrIsNotClothesType
	}
	if err := c.body.PutOnClothes(name); err != nil {
		return err
	}
	c.refreshResistances()
	c.outbox.Push(events.NewAppliance(events.KindClothesOn, c.now, name, body.PartUnknown))
	return nil
}

// TakeOffClothes removes a worn clothes item and refreshes the summed
// resistances.
func (c *Controller) TakeOffClothes(name string) error {
	if err := c.body.TakeOffClothes(name); err != nil {
		return err
	}
	c.refreshResistances()
	c.outbox.Push(events.NewAppliance(events.KindClothesOff, c.now, name, body.PartUnknown))
	return nil
}

// StartSleeping puts the character to sleep for the given game hours.
func (c *Controller) StartSleeping(hours float64) error {
	if !c.engine.IsAlive() {
		return health.ErrCharacterIsDead
	}
	c.body.StartSleeping(hours)
	return nil
}

// refreshResistances rebuilds the body's clothes cache from everything
// currently worn, each resistance clamped to 100.
func (c *Controller) refreshResistances() {
	cold, water := 0.0, 0.0
	for _, name := range c.body.Clothes() {
		it, err := c.inv.Item(name)
		if err != nil || it.Clothes == nil {
			continue
		}
		cold += it.Clothes.ColdResistance
		water += it.Clothes.WaterResistance
	}
	if cold > 100 {
		cold = 100
	}
	if water > 100 {
		water = 100
	}
	c.body.SetResistances(cold, water)
}
