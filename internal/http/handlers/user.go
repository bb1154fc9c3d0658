package handlers

import (
	"encoding/json"
	"net/http"

	"server/internal/domain"
)

// CurrentUser returns the demo user together with his preferences.
// Preferences may be null when none exist yet.
func (a *App) CurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := a.Store.UserByID(ctx, demoUserID)
	if err != nil {
		a.fail(w, http.StatusInternalServerError, "Error fetching user data")
		return
	}
	prefs, err := a.Store.PreferencesByUser(ctx, demoUserID)
	if err != nil {
		a.fail(w, http.StatusInternalServerError, "Error fetching user data")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"user": user, "preferences": prefs})
}

// profileUpdateRequest carries user and preference fields in one payload;
// the handler splits them and issues one update per entity kind.
type profileUpdateRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phoneNumber"`

	StudyTimePreferences *[]string `json:"studyTimePreferences"`
	HoursPerWeek         *string   `json:"hoursPerWeek"`
	LearningStyle        *string   `json:"learningStyle"`
	DefaultCalendar      *string   `json:"defaultCalendar"`
	SetReminders         *bool     `json:"setReminders"`
	CalendarConnected    *bool     `json:"calendarConnected"`
	CalendarEmail        *string   `json:"calendarEmail"`
}

func (a *App) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req profileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := a.Store.UpdateUser(ctx, demoUserID, domain.UserPatch{
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	}); err != nil {
		a.fail(w, http.StatusInternalServerError, "Error updating profile")
		return
	}

	if _, err := a.Store.UpdatePreferencesByUser(ctx, demoUserID, domain.PreferencePatch{
		StudyTimePreferences: req.StudyTimePreferences,
		HoursPerWeek:         req.HoursPerWeek,
		LearningStyle:        req.LearningStyle,
		DefaultCalendar:      req.DefaultCalendar,
		SetReminders:         req.SetReminders,
		CalendarConnected:    req.CalendarConnected,
		CalendarEmail:        req.CalendarEmail,
	}); err != nil {
		a.fail(w, http.StatusInternalServerError, "Error updating profile")
		return
	}

	a.json(w, http.StatusOK, map[string]string{"message": "Profile updated successfully"})
}
