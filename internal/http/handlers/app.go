package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/providers/agent"
	"server/internal/providers/googlecal"
)

// demoUserID identifies the single seeded user every request acts as.
// Multi-user support is a routing concern: the store and handlers already
// thread a user id everywhere.
const demoUserID = 1

// AgentClient is the slice of the agent webhook client the handlers need.
type AgentClient interface {
	Chat(ctx context.Context, message string, history []agent.Turn) (*agent.ChatResult, error)
	GeneratePlan(ctx context.Context, req agent.PlanRequest) (*agent.PlanPayload, error)
}

// CalendarClient is the slice of the Google client the handlers need.
type CalendarClient interface {
	HasCredentials() bool
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) error
	AccountEmail(ctx context.Context) (string, error)
	Connected() bool
	Disconnect()
	Calendars(ctx context.Context) ([]googlecal.CalendarInfo, error)
	CreateEvents(ctx context.Context, plan googlecal.EventPlan) ([]string, error)
	DeleteEvents(ctx context.Context, calendarID string, eventIDs []string) error
}

// App is the handler container; collaborators are injected so tests can
// stub them.
type App struct {
	Store    domain.Store
	Agent    AgentClient
	Calendar CalendarClient
	Logger   infra.Logger
}

func NewApp(store domain.Store, agentClient AgentClient, calendarClient CalendarClient, logger infra.Logger) *App {
	return &App{Store: store, Agent: agentClient, Calendar: calendarClient, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// fail writes the uniform error body: HTTP status plus a message string.
func (a *App) fail(w http.ResponseWriter, code int, msg string) {
	a.json(w, code, map[string]string{"message": msg})
}

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}
