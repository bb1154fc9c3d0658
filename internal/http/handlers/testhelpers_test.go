package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"server/internal/providers/agent"
	"server/internal/providers/googlecal"
	"server/internal/store"
)

// stubAgent records the call and replays a canned result.
type stubAgent struct {
	result     *agent.ChatResult
	planResult *agent.PlanPayload
	err        error

	gotMessage string
	gotHistory []agent.Turn
}

func (s *stubAgent) Chat(ctx context.Context, message string, history []agent.Turn) (*agent.ChatResult, error) {
	s.gotMessage = message
	s.gotHistory = history
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubAgent) GeneratePlan(ctx context.Context, req agent.PlanRequest) (*agent.PlanPayload, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.planResult, nil
}

// stubCalendar satisfies CalendarClient without touching Google.
type stubCalendar struct {
	credentials bool
	connected   bool
	authURL     string
	email       string
	eventIDs    []string
	calendars   []googlecal.CalendarInfo
	err         error

	createCalls  int
	deleteCalls  int
	exchangeCode string
}

func (s *stubCalendar) HasCredentials() bool { return s.credentials }
func (s *stubCalendar) Connected() bool      { return s.connected }
func (s *stubCalendar) Disconnect()          { s.connected = false }

func (s *stubCalendar) AuthCodeURL(state string) string {
	return s.authURL + "&state=" + state
}

func (s *stubCalendar) Exchange(ctx context.Context, code string) error {
	s.exchangeCode = code
	if s.err != nil {
		return s.err
	}
	s.connected = true
	return nil
}

func (s *stubCalendar) AccountEmail(ctx context.Context) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.email, nil
}

func (s *stubCalendar) Calendars(ctx context.Context) ([]googlecal.CalendarInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.calendars, nil
}

func (s *stubCalendar) CreateEvents(ctx context.Context, plan googlecal.EventPlan) ([]string, error) {
	s.createCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.eventIDs, nil
}

func (s *stubCalendar) DeleteEvents(ctx context.Context, calendarID string, eventIDs []string) error {
	s.deleteCalls++
	return s.err
}

var errStub = errors.New("stub failure")

func newTestApp(agentStub *stubAgent, calStub *stubCalendar) (*App, *store.MemStore) {
	if agentStub == nil {
		agentStub = &stubAgent{result: &agent.ChatResult{Response: "ok"}}
	}
	if calStub == nil {
		calStub = &stubCalendar{}
	}
	memStore := store.New()
	app := NewApp(memStore, agentStub, calStub, zerolog.New(io.Discard))
	return app, memStore
}

// withURLParam injects a chi route parameter so handlers can be called
// without the full router.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func jsonRequest(method, target, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}
