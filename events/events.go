// Package events defines the domain events raised by the health engine and
// the ordered outboxes that deliver them to the host.
package events

import (
	"github.com/pthm-cable/pulse/body"
	"github.com/pthm-cable/pulse/gametime"
)

// Kind discriminates event payloads.
type Kind uint8

const (
	KindWokeUp Kind = iota
	KindItemConsumed

	KindStaminaDrained
	KindOxygenDrained
	KindFoodDrained
	KindWaterDrained
	KindBloodDrained
	KindTired
	KindExhausted
	KindLowBloodPressureDanger
	KindHighBloodPressureDanger
	KindLowBodyTemperatureDanger
	KindHighBodyTemperatureDanger
	KindLowHeartRateDanger
	KindHighHeartRateDanger

	KindDiseaseSpawned
	KindDiseaseRemoved
	KindDiseaseExpired
	KindDiseaseSelfHealStarted
	KindDiseaseInverted
	KindDiseaseResumed
	KindDeathFromDisease

	KindInjurySpawned
	KindInjuryRemoved
	KindInjuryExpired
	KindInjurySelfHealStarted
	KindInjuryInverted
	KindInjuryResumed
	KindBloodLossStopped
	KindBloodLossResumed
	KindDeathFromInjury

	KindMedicalAgentActivated
	KindMedicalAgentDeactivated
	KindMedicalAgentDoseReceived

	KindInventoryItemAdded
	KindInventoryItemRemoved
	KindInventoryItemUsedAll
	KindInventoryItemUsedPartially
	KindInventoryWeightChanged

	KindClothesOn
	KindClothesOff
	KindBodyApplianceOn
	KindBodyApplianceOff
)

var kindNames = map[Kind]string{
	KindWokeUp:                     "woke_up",
	KindItemConsumed:               "item_consumed",
	KindStaminaDrained:             "stamina_drained",
	KindOxygenDrained:              "oxygen_drained",
	KindFoodDrained:                "food_drained",
	KindWaterDrained:               "water_drained",
	KindBloodDrained:               "blood_drained",
	KindTired:                      "tired",
	KindExhausted:                  "exhausted",
	KindLowBloodPressureDanger:     "low_blood_pressure_danger",
	KindHighBloodPressureDanger:    "high_blood_pressure_danger",
	KindLowBodyTemperatureDanger:   "low_body_temperature_danger",
	KindHighBodyTemperatureDanger:  "high_body_temperature_danger",
	KindLowHeartRateDanger:         "low_heart_rate_danger",
	KindHighHeartRateDanger:        "high_heart_rate_danger",
	KindDiseaseSpawned:             "disease_spawned",
	KindDiseaseRemoved:             "disease_removed",
	KindDiseaseExpired:             "disease_expired",
	KindDiseaseSelfHealStarted:     "disease_self_heal_started",
	KindDiseaseInverted:            "disease_inverted",
	KindDiseaseResumed:             "disease_resumed",
	KindDeathFromDisease:           "death_from_disease",
	KindInjurySpawned:              "injury_spawned",
	KindInjuryRemoved:              "injury_removed",
	KindInjuryExpired:              "injury_expired",
	KindInjurySelfHealStarted:      "injury_self_heal_started",
	KindInjuryInverted:             "injury_inverted",
	KindInjuryResumed:              "injury_resumed",
	KindBloodLossStopped:           "blood_loss_stopped",
	KindBloodLossResumed:           "blood_loss_resumed",
	KindDeathFromInjury:            "death_from_injury",
	KindMedicalAgentActivated:      "medical_agent_activated",
	KindMedicalAgentDeactivated:    "medical_agent_deactivated",
	KindMedicalAgentDoseReceived:   "medical_agent_dose_received",
	KindInventoryItemAdded:         "inventory_item_added",
	KindInventoryItemRemoved:       "inventory_item_removed",
	KindInventoryItemUsedAll:       "inventory_item_used_all",
	KindInventoryItemUsedPartially: "inventory_item_used_partially",
	KindInventoryWeightChanged:     "inventory_weight_changed",
	KindClothesOn:                  "clothes_on",
	KindClothesOff:                 "clothes_off",
	KindBodyApplianceOn:            "body_appliance_on",
	KindBodyApplianceOff:           "body_appliance_off",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// Event is one occurrence inside the simulation. Seq is assigned by the
// outbox on push and is unique within that outbox.
type Event struct {
	Kind Kind
	Seq  uint64
	Time gametime.GameTime

	// Name carries the disease, injury or agent name; Item the inventory
	// item involved. Part is set for injury and appliance events. Amount
	// is units for item events; OldValue and NewValue carry weight
	// changes.
	Name     string
	Item     string
	Part     body.Part
	Amount   float64
	OldValue float64
	NewValue float64
}

// New builds a bare event with no payload.
func New(kind Kind, at gametime.GameTime) Event {
	return Event{Kind: kind, Time: at}
}

// NewNamed builds an event about a named disease, injury or agent.
func NewNamed(kind Kind, at gametime.GameTime, name string) Event {
	return Event{Kind: kind, Time: at, Name: name}
}

// NewInjury builds an injury event bound to a body part.
func NewInjury(kind Kind, at gametime.GameTime, name string, part body.Part) Event {
	return Event{Kind: kind, Time: at, Name: name, Part: part}
}

// NewItem builds an inventory or consumption event.
func NewItem(kind Kind, at gametime.GameTime, item string, amount float64) Event {
	return Event{Kind: kind, Time: at, Item: item, Amount: amount}
}

// NewDose builds a dose-received event for an agent and the item that
// delivered it.
func NewDose(at gametime.GameTime, agent, item string) Event {
	return Event{Kind: KindMedicalAgentDoseReceived, Time: at, Name: agent, Item: item}
}

// NewAppliance builds a clothes or appliance event.
func NewAppliance(kind Kind, at gametime.GameTime, item string, part body.Part) Event {
	return Event{Kind: kind, Time: at, Item: item, Part: part}
}

// NewWeight builds an inventory weight change event.
func NewWeight(at gametime.GameTime, oldGrams, newGrams float64) Event {
	return Event{Kind: KindInventoryWeightChanged, Time: at, OldValue: oldGrams, NewValue: newGrams}
}

// samePayload reports whether two events are identical apart from their
// sequence numbers.
func samePayload(a, b Event) bool {
	a.Seq = 0
	b.Seq = 0
	return a == b
}
