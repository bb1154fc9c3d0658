package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
	"server/internal/providers/agent"
	"server/internal/providers/googlecal"
)

// ListPlans returns the user's study plans, most recent first. The same
// handler serves /api/study-plans and /api/study-plans/history.
func (a *App) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := a.Store.PlansByUser(r.Context(), demoUserID)
	if err != nil {
		a.fail(w, http.StatusInternalServerError, "Error fetching study plans")
		return
	}
	a.json(w, http.StatusOK, plans)
}

func (a *App) GetPlan(w http.ResponseWriter, r *http.Request) {
	planID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, http.StatusBadRequest, "Invalid plan ID")
		return
	}
	plan, err := a.Store.PlanByID(r.Context(), planID)
	if err != nil {
		a.fail(w, http.StatusInternalServerError, "Error fetching study plan")
		return
	}
	if plan == nil {
		a.fail(w, http.StatusNotFound, "Study plan not found")
		return
	}
	a.json(w, http.StatusOK, plan)
}

type planUpdateRequest struct {
	Title        *string               `json:"title"`
	Description  *string               `json:"description"`
	Duration     *string               `json:"duration"`
	HoursPerWeek *int                  `json:"hoursPerWeek"`
	StartDate    *time.Time            `json:"startDate"`
	EndDate      *time.Time            `json:"endDate"`
	Schedule     *string               `json:"schedule"`
	CurrentFocus *string               `json:"currentFocus"`
	Status       *domain.PlanStatus    `json:"status"`
	ColorScheme  *string               `json:"colorScheme"`
	Content      *[]domain.PlanSection `json:"content"`
}

// UpdatePlan applies a partial update. This is how plans move to
// completed or abandoned; creation never produces those states.
func (a *App) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	planID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, http.StatusBadRequest, "Invalid plan ID")
		return
	}
	var req planUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Status != nil && !req.Status.Valid() {
		a.fail(w, http.StatusBadRequest, "Invalid status")
		return
	}

	plan, err := a.Store.UpdatePlan(r.Context(), planID, domain.StudyPlanPatch{
		Title:        req.Title,
		Description:  req.Description,
		Duration:     req.Duration,
		HoursPerWeek: req.HoursPerWeek,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Schedule:     req.Schedule,
		CurrentFocus: req.CurrentFocus,
		Status:       req.Status,
		ColorScheme:  req.ColorScheme,
		Content:      req.Content,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.fail(w, http.StatusNotFound, "Study plan not found")
			return
		}
		a.fail(w, http.StatusInternalServerError, "Error updating study plan")
		return
	}
	a.json(w, http.StatusOK, plan)
}

// DeletePlan removes a plan, clearing its calendar events first when it
// was pushed to the calendar. Event cleanup is best effort.
func (a *App) DeletePlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	planID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, http.StatusBadRequest, "Invalid plan ID")
		return
	}
	plan, err := a.Store.PlanByID(ctx, planID)
	if err != nil {
		a.fail(w, http.StatusInternalServerError, "Error deleting study plan")
		return
	}
	if plan == nil {
		a.fail(w, http.StatusNotFound, "Study plan not found")
		return
	}

	if plan.AddedToCalendar && len(plan.CalendarEventIDs) > 0 {
		if err := a.Calendar.DeleteEvents(ctx, "", plan.CalendarEventIDs); err != nil {
			a.Logger.Warn().Err(err).Int("plan_id", planID).Msg("failed to delete calendar events for plan")
		}
	}

	if _, err := a.Store.DeletePlan(ctx, planID); err != nil {
		a.fail(w, http.StatusInternalServerError, "Error deleting study plan")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"message": "Study plan deleted"})
}

type planGenerateRequest struct {
	Subject      string `json:"subject"`
	Duration     string `json:"duration"`
	HoursPerWeek int    `json:"hoursPerWeek"`
	Preferences  struct {
		LearningStyle string `json:"learningStyle"`
		Goals         string `json:"goals"`
		Experience    string `json:"experience"`
	} `json:"preferences"`
}

// GeneratePlan asks the agent for a plan directly, outside a chat turn.
func (a *App) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req planGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Subject == "" {
		a.fail(w, http.StatusBadRequest, "Subject is required")
		return
	}

	payload, err := a.Agent.GeneratePlan(ctx, agent.PlanRequest{
		Subject:      req.Subject,
		Duration:     req.Duration,
		HoursPerWeek: req.HoursPerWeek,
		Preferences: agent.PlanPreferences{
			LearningStyle: req.Preferences.LearningStyle,
			Goals:         req.Preferences.Goals,
			Experience:    req.Preferences.Experience,
		},
	})
	if err != nil {
		a.Logger.Error().Err(err).Msg("agent plan generation failed")
		a.fail(w, http.StatusInternalServerError, "Error generating study plan")
		return
	}

	plan, err := a.createPlanFromPayload(ctx, payload)
	if err != nil {
		a.Logger.Error().Err(err).Msg("failed to create generated study plan")
		a.fail(w, http.StatusInternalServerError, "Error generating study plan")
		return
	}
	a.json(w, http.StatusCreated, plan)
}

// AddPlanToCalendar pushes a plan's schedule to the connected Google
// Calendar and records the created event ids on the plan.
func (a *App) AddPlanToCalendar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	planID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, http.StatusBadRequest, "Invalid plan ID")
		return
	}
	plan, err := a.Store.PlanByID(ctx, planID)
	if err != nil {
		a.fail(w, http.StatusInternalServerError, "Error adding study plan to calendar")
		return
	}
	if plan == nil {
		a.fail(w, http.StatusNotFound, "Study plan not found")
		return
	}

	prefs, err := a.Store.PreferencesByUser(ctx, plan.UserID)
	if err != nil {
		a.fail(w, http.StatusInternalServerError, "Error adding study plan to calendar")
		return
	}
	if prefs == nil || !prefs.CalendarConnected {
		a.fail(w, http.StatusBadRequest, "Google Calendar not connected")
		return
	}

	eventIDs, err := a.Calendar.CreateEvents(ctx, googlecal.EventPlan{
		Title:        plan.Title,
		Description:  plan.Description,
		Schedule:     plan.Schedule,
		Start:        plan.StartDate,
		End:          plan.EndDate,
		HoursPerWeek: plan.HoursPerWeek,
	})
	if err != nil {
		a.Logger.Error().Err(err).Int("plan_id", planID).Msg("calendar event creation failed")
		a.fail(w, http.StatusInternalServerError, "Error adding study plan to calendar")
		return
	}

	added := true
	if _, err := a.Store.UpdatePlan(ctx, planID, domain.StudyPlanPatch{
		AddedToCalendar:  &added,
		CalendarEventIDs: &eventIDs,
	}); err != nil {
		a.fail(w, http.StatusInternalServerError, "Error adding study plan to calendar")
		return
	}

	a.json(w, http.StatusOK, map[string]any{
		"message":  "Study plan added to Google Calendar",
		"eventIds": eventIDs,
	})
}
