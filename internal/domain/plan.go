package domain

import "time"

// PlanStatus enumerates study plan lifecycle states.
type PlanStatus string

const (
	PlanStatusInProgress PlanStatus = "in_progress"
	PlanStatusCompleted  PlanStatus = "completed"
	PlanStatusAbandoned  PlanStatus = "abandoned"

	// PlanStatusAlmostComplete is recognized by display layers but never
	// produced by any write path.
	PlanStatusAlmostComplete PlanStatus = "almost_complete"
)

// Valid reports whether s is a status a client is allowed to write.
func (s PlanStatus) Valid() bool {
	switch s {
	case PlanStatusInProgress, PlanStatusCompleted, PlanStatusAbandoned:
		return true
	}
	return false
}

// DefaultColorScheme is applied to plans created from agent responses.
const DefaultColorScheme = "blue"

// PlanSection is one titled block of the generated plan body. The content
// comes from the agent as-is; the store makes no structural guarantee
// beyond presence.
type PlanSection struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

// StudyPlan is the generated artifact the whole service revolves around.
type StudyPlan struct {
	ID               int           `json:"id"`
	UserID           int           `json:"userId"`
	Title            string        `json:"title"`
	Description      string        `json:"description,omitempty"`
	Duration         string        `json:"duration"`
	HoursPerWeek     int           `json:"hoursPerWeek"`
	StartDate        time.Time     `json:"startDate"`
	EndDate          time.Time     `json:"endDate"`
	Schedule         string        `json:"schedule,omitempty"`
	CurrentFocus     string        `json:"currentFocus,omitempty"`
	Status           PlanStatus    `json:"status"`
	ColorScheme      string        `json:"colorScheme"`
	AddedToCalendar  bool          `json:"addedToCalendar"`
	CalendarEventIDs []string      `json:"calendarEventIds"`
	Content          []PlanSection `json:"content"`
	CreatedAt        time.Time     `json:"createdAt"`
}

// NewStudyPlan carries the caller-supplied fields for plan creation. The
// store assigns ID and CreatedAt.
type NewStudyPlan struct {
	UserID       int
	Title        string
	Description  string
	Duration     string
	HoursPerWeek int
	StartDate    time.Time
	EndDate      time.Time
	Schedule     string
	CurrentFocus string
	Status       PlanStatus
	ColorScheme  string
	Content      []PlanSection
}

// StudyPlanPatch is a partial update; nil fields are left untouched.
// Supplied slices replace the stored ones wholesale, there is no deep
// merge on CalendarEventIDs or Content.
type StudyPlanPatch struct {
	Title            *string
	Description      *string
	Duration         *string
	HoursPerWeek     *int
	StartDate        *time.Time
	EndDate          *time.Time
	Schedule         *string
	CurrentFocus     *string
	Status           *PlanStatus
	ColorScheme      *string
	AddedToCalendar  *bool
	CalendarEventIDs *[]string
	Content          *[]PlanSection
}
