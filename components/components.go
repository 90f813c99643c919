// Package components defines the ECS components of the demo survivor
// population.
package components

// Identity names one survivor entity.
type Identity struct {
	ID   uint32
	Name string
}

// VitalSigns mirrors a survivor's vitals snapshot into the world so
// population queries can read them without touching the controller.
type VitalSigns struct {
	BodyTemperature float64
	HeartRate       float64
	BloodLevel      float64
	FoodLevel       float64
	WaterLevel      float64
	StaminaLevel    float64
	FatigueLevel    float64

	Alive bool
}
