package models

// Preferences configures the schedule scorer. Fields are independent; any
// subset may be active at once. Zero values are meaningful, so requests carry
// optional fields and resolve them against DefaultPreferences.
type Preferences struct {
	PrioritizeProfessorRating bool     `json:"prioritizeProfessorRating"`
	PrioritizeEasyGPA         bool     `json:"prioritizeEasyGPA"`
	PreferMorning             bool     `json:"preferMorning"`
	PreferAfternoon           bool     `json:"preferAfternoon"`
	PreferEvening             bool     `json:"preferEvening"`
	PreferredDays             []string `json:"preferredDays,omitempty"`
	AvoidBackToBack           bool     `json:"avoidBackToBack"`
}

// DefaultPreferences returns the documented defaults: professor rating
// prioritized, everything else off.
func DefaultPreferences() Preferences {
	return Preferences{PrioritizeProfessorRating: true}
}
