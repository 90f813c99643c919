// Package body tracks the character's physical state outside the vitals:
// body parts, sleep, worn clothes, applied appliances and the warmth and
// wetness caches.
package body

// Part identifies a region of the body that injuries and appliances
// attach to.
type Part uint8

const (
	PartUnknown Part = iota
	PartForehead
	PartHead
	PartEye
	PartEar
	PartNose
	PartThroat
	PartChest
	PartBelly
	PartBack
	PartLeftShoulder
	PartRightShoulder
	PartLeftForearm
	PartRightForearm
	PartLeftHand
	PartRightHand
	PartLeftThigh
	PartRightThigh
	PartLeftShin
	PartRightShin
	PartLeftFoot
	PartRightFoot

	partCount
)

var partNames = [partCount]string{
	PartUnknown:       "unknown",
	PartForehead:      "forehead",
	PartHead:          "head",
	PartEye:           "eye",
	PartEar:           "ear",
	PartNose:          "nose",
	PartThroat:        "throat",
	PartChest:         "chest",
	PartBelly:         "belly",
	PartBack:          "back",
	PartLeftShoulder:  "left_shoulder",
	PartRightShoulder: "right_shoulder",
	PartLeftForearm:   "left_forearm",
	PartRightForearm:  "right_forearm",
	PartLeftHand:      "left_hand",
	PartRightHand:     "right_hand",
	PartLeftThigh:     "left_thigh",
	PartRightThigh:    "right_thigh",
	PartLeftShin:      "left_shin",
	PartRightShin:     "right_shin",
	PartLeftFoot:      "left_foot",
	PartRightFoot:     "right_foot",
}

func (p Part) String() string {
	if p >= partCount {
		return "unknown"
	}
	return partNames[p]
}

// IsValid reports whether p names a real body region.
func (p Part) IsValid() bool {
	return p > PartUnknown && p < partCount
}

// PartFromString resolves a part by its snake_case name. Unrecognized
// names yield PartUnknown and false.
func PartFromString(name string) (Part, bool) {
	for p, n := range partNames {
		if n == name && Part(p) != PartUnknown {
			return Part(p), true
		}
	}
	return PartUnknown, false
}
