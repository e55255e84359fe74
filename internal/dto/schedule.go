// Package dto defines the request and response shapes of the HTTP API.
package dto

import (
	"time"

	"github.com/terp-tools/terp-scheduler-api/internal/models"
)

// PreferencesRequest carries optional scoring preferences. Absent fields fall
// back to the documented defaults.
type PreferencesRequest struct {
	PrioritizeProfessorRating *bool    `json:"prioritizeProfessorRating"`
	PrioritizeEasyGPA         *bool    `json:"prioritizeEasyGPA"`
	PreferMorning             *bool    `json:"preferMorning"`
	PreferAfternoon           *bool    `json:"preferAfternoon"`
	PreferEvening             *bool    `json:"preferEvening"`
	PreferredDays             []string `json:"preferredDays" validate:"omitempty,dive,oneof=M Tu W Th F Sa Su"`
	AvoidBackToBack           *bool    `json:"avoidBackToBack"`
}

// Resolve merges the request over the default preferences.
func (r *PreferencesRequest) Resolve() models.Preferences {
	prefs := models.DefaultPreferences()
	if r == nil {
		return prefs
	}
	if r.PrioritizeProfessorRating != nil {
		prefs.PrioritizeProfessorRating = *r.PrioritizeProfessorRating
	}
	if r.PrioritizeEasyGPA != nil {
		prefs.PrioritizeEasyGPA = *r.PrioritizeEasyGPA
	}
	if r.PreferMorning != nil {
		prefs.PreferMorning = *r.PreferMorning
	}
	if r.PreferAfternoon != nil {
		prefs.PreferAfternoon = *r.PreferAfternoon
	}
	if r.PreferEvening != nil {
		prefs.PreferEvening = *r.PreferEvening
	}
	if len(r.PreferredDays) > 0 {
		prefs.PreferredDays = r.PreferredDays
	}
	if r.AvoidBackToBack != nil {
		prefs.AvoidBackToBack = *r.AvoidBackToBack
	}
	return prefs
}

// GenerateScheduleRequest asks the engine for ranked schedules covering the
// required courses.
type GenerateScheduleRequest struct {
	Courses      []string            `json:"courses" validate:"required,min=1,max=10,dive,required"`
	Term         string              `json:"term" validate:"omitempty,numeric,len=6"`
	MaxSchedules int                 `json:"maxSchedules" validate:"omitempty,min=1"`
	Preferences  *PreferencesRequest `json:"preferences" validate:"omitempty"`
}

// ExportScheduleRequest selects an export format and schedule option.
type ExportScheduleRequest struct {
	Format string `json:"format" validate:"required,oneof=pdf csv"`
}

// ExportScheduleResponse carries the signed download token.
type ExportScheduleResponse struct {
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}
