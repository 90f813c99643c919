// Package config provides configuration loading and access for the
// health simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Time        TimeConfig        `yaml:"time"`
	Regen       RegenConfig       `yaml:"regen"`
	Drains      DrainsConfig      `yaml:"drains"`
	Running     RunningConfig     `yaml:"running"`
	Underwater  UnderwaterConfig  `yaml:"underwater"`
	Fatigue     FatigueConfig     `yaml:"fatigue"`
	Fluctuation FluctuationConfig `yaml:"fluctuation"`
	Health      HealthConfig      `yaml:"health"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
	Demo        DemoConfig        `yaml:"demo"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// TimeConfig holds the game clock parameters.
type TimeConfig struct {
	Scale                 float64 `yaml:"scale"`                   // game seconds per real second
	UpdateIntervalSeconds float64 `yaml:"update_interval_seconds"` // tick cadence awake; sleeping ticks 5x faster
}

// RegenConfig holds passive regeneration rates, per game second.
type RegenConfig struct {
	StaminaPerSecond float64 `yaml:"stamina_per_second"`
	BloodPerSecond   float64 `yaml:"blood_per_second"`
	OxygenPerSecond  float64 `yaml:"oxygen_per_second"`
}

// DrainsConfig holds the baseline food and water drain rates, per game
// second.
type DrainsConfig struct {
	FoodPerSecond  float64 `yaml:"food_per_second"`
	WaterPerSecond float64 `yaml:"water_per_second"`
}

// RunningConfig holds the running side-effect parameters.
type RunningConfig struct {
	StaminaPerSecond float64 `yaml:"stamina_per_second"` // drain while running
	WaterPerSecond   float64 `yaml:"water_per_second"`   // drain while running
	RampMinutes      float64 `yaml:"ramp_minutes"`       // game minutes to the full vitals ramp
	FatigueHours     float64 `yaml:"fatigue_hours"`      // game hours of running to full fatigue
}

// UnderwaterConfig holds the diving side-effect parameters.
type UnderwaterConfig struct {
	OxygenPerSecond  float64 `yaml:"oxygen_per_second"`
	StaminaPerSecond float64 `yaml:"stamina_per_second"`
	RampMinutes      float64 `yaml:"ramp_minutes"`
	FatigueHours     float64 `yaml:"fatigue_hours"`
}

// FatigueConfig holds the sleep-debt parameters.
type FatigueConfig struct {
	FullRestHours       float64 `yaml:"full_rest_hours"`       // sleep length that clears fatigue
	ExhaustedAfterHours float64 `yaml:"exhausted_after_hours"` // awake hours to full fatigue
}

// FluctuationConfig holds the vitals noise parameters.
type FluctuationConfig struct {
	PeriodMinutes float64 `yaml:"period_minutes"` // game minutes per full wave
}

// HealthConfig holds the core engine parameters.
type HealthConfig struct {
	HealthyStageMinutes float64 `yaml:"healthy_stage_minutes"` // real minutes, scaled into game time
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`          // game seconds per stats window
	VitalsSampleSeconds float64 `yaml:"vitals_sample_seconds"` // game seconds between vitals rows
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DemoConfig holds the headless demo scenario parameters.
type DemoConfig struct {
	Survivors          int     `yaml:"survivors"`
	MealIntervalHours  float64 `yaml:"meal_interval_hours"`
	DrinkIntervalHours float64 `yaml:"drink_interval_hours"`
	SleepAfterHours    float64 `yaml:"sleep_after_hours"`
	SleepHours         float64 `yaml:"sleep_hours"`
	InfectAfterMinutes float64 `yaml:"infect_after_minutes"`
	InjureAfterMinutes float64 `yaml:"injure_after_minutes"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	UpdateInterval time.Duration // real time between ticks while awake
	SleepInterval  time.Duration // real time between ticks while sleeping
	HealthyTail    time.Duration // game-time length of the synthetic healthy stage
	StatsWindow    time.Duration // game-time stats window
	VitalsSample   time.Duration // game-time vitals sampling interval
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Set replaces the global configuration with an already-built one,
// recomputing derived values. Used by parameter sweeps that mutate a
// copy between runs.
func Set(cfg *Config) {
	cfg.computeDerived()
	global = cfg
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	scale := c.Time.Scale
	if scale <= 0 {
		scale = 1
	}
	interval := c.Time.UpdateIntervalSeconds
	if interval <= 0 {
		interval = 1
	}
	c.Derived.UpdateInterval = time.Duration(interval * float64(time.Second))
	c.Derived.SleepInterval = c.Derived.UpdateInterval / 5
	c.Derived.HealthyTail = time.Duration(c.Health.HealthyStageMinutes * scale * float64(time.Minute))
	c.Derived.StatsWindow = time.Duration(c.Telemetry.StatsWindow * float64(time.Second))
	c.Derived.VitalsSample = time.Duration(c.Telemetry.VitalsSampleSeconds * float64(time.Second))
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
