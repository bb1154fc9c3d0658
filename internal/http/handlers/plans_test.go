package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"server/internal/domain"
	"server/internal/providers/agent"
)

func seedPlan(t *testing.T, memStore domain.PlanStore, userID int, title string) *domain.StudyPlan {
	t.Helper()
	plan, err := memStore.CreatePlan(context.Background(), domain.NewStudyPlan{
		UserID:       userID,
		Title:        title,
		Duration:     "4 weeks",
		HoursPerWeek: 5,
		StartDate:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC),
		Schedule:     "Mon/Wed/Fri",
		Status:       domain.PlanStatusInProgress,
		ColorScheme:  "blue",
		Content:      []domain.PlanSection{{Title: "Week 1", Items: []string{"Alphabet"}}},
	})
	if err != nil {
		t.Fatalf("seed plan: %v", err)
	}
	return plan
}

func TestGetPlanValidation(t *testing.T) {
	app, memStore := newTestApp(nil, nil)
	plan := seedPlan(t, memStore, demoUserID, "Spanish Basics")

	tests := []struct {
		name string
		id   string
		want int
	}{
		{name: "bad id", id: "abc", want: 400},
		{name: "missing plan", id: "999", want: 404},
		{name: "found", id: "1", want: 200},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := withURLParam(httptest.NewRequest("GET", "/api/study-plans/"+tc.id, nil), "id", tc.id)
			rr := httptest.NewRecorder()
			app.GetPlan(rr, req)
			if rr.Code != tc.want {
				t.Fatalf("status = %d, want %d", rr.Code, tc.want)
			}
		})
	}

	req := withURLParam(httptest.NewRequest("GET", "/api/study-plans/1", nil), "id", "1")
	rr := httptest.NewRecorder()
	app.GetPlan(rr, req)
	var got domain.StudyPlan
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != plan.ID || got.Title != plan.Title {
		t.Fatalf("got plan %#v, want %#v", got, plan)
	}
}

func TestListPlansMostRecentFirst(t *testing.T) {
	app, memStore := newTestApp(nil, nil)
	seedPlan(t, memStore, demoUserID, "first")
	seedPlan(t, memStore, demoUserID, "second")
	seedPlan(t, memStore, 99, "someone else's")

	req := httptest.NewRequest("GET", "/api/study-plans", nil)
	rr := httptest.NewRecorder()
	app.ListPlans(rr, req)

	if rr.Code != 200 {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var plans []domain.StudyPlan
	if err := json.NewDecoder(rr.Body).Decode(&plans); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(plans) != 2 {
		t.Fatalf("got %d plans, want 2", len(plans))
	}
	if plans[0].Title != "second" || plans[1].Title != "first" {
		t.Fatalf("plans not most-recent-first: %q, %q", plans[0].Title, plans[1].Title)
	}
}

func TestUpdatePlanStatus(t *testing.T) {
	app, memStore := newTestApp(nil, nil)
	plan := seedPlan(t, memStore, demoUserID, "Spanish Basics")

	req := withURLParam(jsonRequest("PATCH", "/api/study-plans/1", `{"status":"completed"}`), "id", "1")
	rr := httptest.NewRecorder()
	app.UpdatePlan(rr, req)

	if rr.Code != 200 {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	var got domain.StudyPlan
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Status != domain.PlanStatusCompleted {
		t.Fatalf("status = %q, want completed", got.Status)
	}
	if got.Title != plan.Title {
		t.Fatalf("title changed on status update")
	}
}

func TestUpdatePlanRejectsUnknownStatus(t *testing.T) {
	app, memStore := newTestApp(nil, nil)
	seedPlan(t, memStore, demoUserID, "plan")

	req := withURLParam(jsonRequest("PATCH", "/api/study-plans/1", `{"status":"paused"}`), "id", "1")
	rr := httptest.NewRecorder()
	app.UpdatePlan(rr, req)
	if rr.Code != 400 {
		t.Fatalf("status = %d, want 400", rr.Code)
	}

	// almost_complete is display-only; writes must not produce it.
	req = withURLParam(jsonRequest("PATCH", "/api/study-plans/1", `{"status":"almost_complete"}`), "id", "1")
	rr = httptest.NewRecorder()
	app.UpdatePlan(rr, req)
	if rr.Code != 400 {
		t.Fatalf("almost_complete status = %d, want 400", rr.Code)
	}
}

func TestUpdatePlanMissingID(t *testing.T) {
	app, _ := newTestApp(nil, nil)

	req := withURLParam(jsonRequest("PATCH", "/api/study-plans/7", `{"status":"completed"}`), "id", "7")
	rr := httptest.NewRecorder()
	app.UpdatePlan(rr, req)
	if rr.Code != 404 {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestAddPlanToCalendarRequiresConnection(t *testing.T) {
	calStub := &stubCalendar{eventIDs: []string{"event_1"}}
	app, memStore := newTestApp(nil, calStub)
	plan := seedPlan(t, memStore, demoUserID, "plan")

	// No preferences at all.
	req := withURLParam(httptest.NewRequest("POST", "/api/study-plans/1/calendar", nil), "id", "1")
	rr := httptest.NewRecorder()
	app.AddPlanToCalendar(rr, req)
	if rr.Code != 400 {
		t.Fatalf("status = %d, want 400", rr.Code)
	}

	// Preferences exist but the calendar is not connected.
	connected := false
	_, _ = memStore.UpdatePreferencesByUser(context.Background(), demoUserID, domain.PreferencePatch{CalendarConnected: &connected})
	rr = httptest.NewRecorder()
	app.AddPlanToCalendar(rr, withURLParam(httptest.NewRequest("POST", "/api/study-plans/1/calendar", nil), "id", "1"))
	if rr.Code != 400 {
		t.Fatalf("status = %d, want 400", rr.Code)
	}

	// The plan must be untouched and no events created.
	if calStub.createCalls != 0 {
		t.Fatalf("calendar called %d times, want 0", calStub.createCalls)
	}
	fresh, _ := memStore.PlanByID(context.Background(), plan.ID)
	if fresh.AddedToCalendar || len(fresh.CalendarEventIDs) != 0 {
		t.Fatalf("plan mutated despite precondition failure: %#v", fresh)
	}
}

func TestAddPlanToCalendarSuccess(t *testing.T) {
	calStub := &stubCalendar{eventIDs: []string{"event_1", "event_2", "event_3"}}
	app, memStore := newTestApp(nil, calStub)
	plan := seedPlan(t, memStore, demoUserID, "plan")

	connected := true
	_, _ = memStore.UpdatePreferencesByUser(context.Background(), demoUserID, domain.PreferencePatch{CalendarConnected: &connected})

	req := withURLParam(httptest.NewRequest("POST", "/api/study-plans/1/calendar", nil), "id", "1")
	rr := httptest.NewRecorder()
	app.AddPlanToCalendar(rr, req)

	if rr.Code != 200 {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	var payload struct {
		Message  string   `json:"message"`
		EventIDs []string `json:"eventIds"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.EventIDs) != 3 {
		t.Fatalf("eventIds = %#v, want 3 entries", payload.EventIDs)
	}

	fresh, _ := memStore.PlanByID(context.Background(), plan.ID)
	if !fresh.AddedToCalendar {
		t.Fatalf("plan not marked as added to calendar")
	}
	if len(fresh.CalendarEventIDs) != 3 || fresh.CalendarEventIDs[0] != "event_1" {
		t.Fatalf("event ids not recorded: %#v", fresh.CalendarEventIDs)
	}
}

func TestAddPlanToCalendarMissingPlan(t *testing.T) {
	app, _ := newTestApp(nil, &stubCalendar{})

	req := withURLParam(httptest.NewRequest("POST", "/api/study-plans/5/calendar", nil), "id", "5")
	rr := httptest.NewRecorder()
	app.AddPlanToCalendar(rr, req)
	if rr.Code != 404 {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestDeletePlanCleansUpCalendarEvents(t *testing.T) {
	calStub := &stubCalendar{}
	app, memStore := newTestApp(nil, calStub)
	plan := seedPlan(t, memStore, demoUserID, "plan")

	added := true
	ids := []string{"event_1"}
	_, _ = memStore.UpdatePlan(context.Background(), plan.ID, domain.StudyPlanPatch{AddedToCalendar: &added, CalendarEventIDs: &ids})

	req := withURLParam(httptest.NewRequest("DELETE", "/api/study-plans/1", nil), "id", "1")
	rr := httptest.NewRecorder()
	app.DeletePlan(rr, req)

	if rr.Code != 200 {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if calStub.deleteCalls != 1 {
		t.Fatalf("delete events called %d times, want 1", calStub.deleteCalls)
	}
	if fresh, _ := memStore.PlanByID(context.Background(), plan.ID); fresh != nil {
		t.Fatalf("plan still present after delete")
	}
}

func TestGeneratePlanEndpoint(t *testing.T) {
	agentStub := &stubAgent{planResult: &agent.PlanPayload{
		Title:        "Go Basics",
		Duration:     "2 weeks",
		HoursPerWeek: 4,
		StartDate:    "2024-02-01",
		EndDate:      "2024-02-14",
	}}
	app, memStore := newTestApp(agentStub, nil)

	req := jsonRequest("POST", "/api/study-plans/generate", `{"subject":"Go","duration":"2 weeks","hoursPerWeek":4}`)
	rr := httptest.NewRecorder()
	app.GeneratePlan(rr, req)

	if rr.Code != 201 {
		t.Fatalf("status = %d, want 201: %s", rr.Code, rr.Body.String())
	}
	plans, _ := memStore.PlansByUser(context.Background(), demoUserID)
	if len(plans) != 1 || plans[0].Status != domain.PlanStatusInProgress {
		t.Fatalf("persisted plans: %#v", plans)
	}
}

func TestGeneratePlanRequiresSubject(t *testing.T) {
	app, _ := newTestApp(nil, nil)

	req := jsonRequest("POST", "/api/study-plans/generate", `{"duration":"2 weeks"}`)
	rr := httptest.NewRecorder()
	app.GeneratePlan(rr, req)
	if rr.Code != 400 {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}
