package domain

// User represents an account within the service. There is no signup flow
// yet; the store is seeded with a single demo user at startup.
type User struct {
	ID             int    `json:"id"`
	Username       string `json:"username"`
	Password       string `json:"password"`
	Name           string `json:"name,omitempty"`
	Email          string `json:"email,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
	PhoneNumber    string `json:"phoneNumber,omitempty"`
}

// NewUser carries the caller-supplied fields for user creation.
type NewUser struct {
	Username       string
	Password       string
	Name           string
	Email          string
	ProfilePicture string
	PhoneNumber    string
}

// UserPatch is a partial update; nil fields are left untouched.
type UserPatch struct {
	Name        *string
	Email       *string
	PhoneNumber *string
}

// Defaults applied when preferences are created lazily through an update.
const (
	DefaultHoursPerWeek  = "5-10 hours"
	DefaultLearningStyle = "visual"
)

// UserPreference holds study and calendar settings for one user. The store
// does not enforce the one-to-one relation; lookups by user take the first
// match.
type UserPreference struct {
	ID                   int      `json:"id"`
	UserID               int      `json:"userId"`
	StudyTimePreferences []string `json:"studyTimePreferences"`
	HoursPerWeek         string   `json:"hoursPerWeek"`
	LearningStyle        string   `json:"learningStyle"`
	DefaultCalendar      string   `json:"defaultCalendar,omitempty"`
	SetReminders         bool     `json:"setReminders"`
	CalendarConnected    bool     `json:"calendarConnected"`
	CalendarEmail        string   `json:"calendarEmail,omitempty"`
}

// NewUserPreference carries the caller-supplied fields for preference
// creation.
type NewUserPreference struct {
	UserID               int
	StudyTimePreferences []string
	HoursPerWeek         string
	LearningStyle        string
	DefaultCalendar      string
	SetReminders         bool
	CalendarConnected    bool
	CalendarEmail        string
}

// PreferencePatch is a partial update; nil fields are left untouched and a
// supplied slice replaces the stored one wholesale.
type PreferencePatch struct {
	StudyTimePreferences *[]string
	HoursPerWeek         *string
	LearningStyle        *string
	DefaultCalendar      *string
	SetReminders         *bool
	CalendarConnected    *bool
	CalendarEmail        *string
}
