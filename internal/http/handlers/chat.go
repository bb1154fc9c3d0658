package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"server/internal/domain"
	"server/internal/providers/agent"
)

// ChatHistory returns the user's conversation in chronological order.
func (a *App) ChatHistory(w http.ResponseWriter, r *http.Request) {
	messages, err := a.Store.MessagesByUser(r.Context(), demoUserID)
	if err != nil {
		a.fail(w, http.StatusInternalServerError, "Error fetching chat history")
		return
	}
	a.json(w, http.StatusOK, messages)
}

type chatMessageRequest struct {
	Content string `json:"content"`
}

type chatMessageResponse struct {
	Message   *domain.ChatMessage `json:"message"`
	StudyPlan *domain.StudyPlan   `json:"studyPlan"`
}

// SendChatMessage runs one chat turn: persist the user's message, forward
// the full history to the agent, create a study plan when the reply
// carries one, persist the assistant's reply linked to that plan, and
// return both. An agent failure after step one is terminal for the turn;
// the user message stays persisted.
func (a *App) SendChatMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req chatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.fail(w, http.StatusBadRequest, "Message content is required")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		a.fail(w, http.StatusBadRequest, "Message content is required")
		return
	}

	if _, err := a.Store.CreateMessage(ctx, domain.NewChatMessage{
		UserID:  demoUserID,
		Role:    domain.MessageRoleUser,
		Content: req.Content,
	}); err != nil {
		a.fail(w, http.StatusInternalServerError, "Error sending message")
		return
	}

	history, err := a.Store.MessagesByUser(ctx, demoUserID)
	if err != nil {
		a.fail(w, http.StatusInternalServerError, "Error sending message")
		return
	}
	turns := make([]agent.Turn, 0, len(history))
	for _, m := range history {
		turns = append(turns, agent.Turn{Role: string(m.Role), Content: m.Content})
	}

	result, err := a.Agent.Chat(ctx, req.Content, turns)
	if err != nil {
		a.Logger.Error().Err(err).Msg("agent chat call failed")
		a.fail(w, http.StatusInternalServerError, "Error sending message")
		return
	}

	var plan *domain.StudyPlan
	if payload := result.StudyPlan; payload != nil {
		plan, err = a.createPlanFromPayload(ctx, payload)
		if err != nil {
			a.Logger.Error().Err(err).Msg("failed to create study plan from agent response")
			a.fail(w, http.StatusInternalServerError, "Error sending message")
			return
		}
	}

	assistantMsg := domain.NewChatMessage{
		UserID:  demoUserID,
		Role:    domain.MessageRoleAssistant,
		Content: result.Response,
	}
	if plan != nil {
		assistantMsg.StudyPlanID = plan.ID
	}
	saved, err := a.Store.CreateMessage(ctx, assistantMsg)
	if err != nil {
		a.fail(w, http.StatusInternalServerError, "Error sending message")
		return
	}

	a.json(w, http.StatusOK, chatMessageResponse{Message: saved, StudyPlan: plan})
}

// createPlanFromPayload persists the plan an agent response carried.
// Status is always forced to in_progress and the color scheme defaulted;
// the content body is passed through untouched.
func (a *App) createPlanFromPayload(ctx context.Context, payload *agent.PlanPayload) (*domain.StudyPlan, error) {
	start, end, err := payload.Window()
	if err != nil {
		return nil, err
	}
	content := make([]domain.PlanSection, 0, len(payload.Content))
	for _, s := range payload.Content {
		content = append(content, domain.PlanSection{Title: s.Title, Items: s.Items})
	}
	return a.Store.CreatePlan(ctx, domain.NewStudyPlan{
		UserID:       demoUserID,
		Title:        payload.Title,
		Description:  payload.Description,
		Duration:     payload.Duration,
		HoursPerWeek: payload.HoursPerWeek,
		StartDate:    start,
		EndDate:      end,
		Schedule:     payload.Schedule,
		CurrentFocus: payload.CurrentFocus,
		Status:       domain.PlanStatusInProgress,
		ColorScheme:  domain.DefaultColorScheme,
		Content:      content,
	})
}

// ClearChat removes every message in the user's conversation.
func (a *App) ClearChat(w http.ResponseWriter, r *http.Request) {
	if err := a.Store.ClearMessages(r.Context(), demoUserID); err != nil {
		a.fail(w, http.StatusInternalServerError, "Error clearing chat history")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"message": "Chat history cleared"})
}
