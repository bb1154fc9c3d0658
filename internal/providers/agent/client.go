package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"server/internal/infra"
)

// ErrMissingBaseURL indicates that the client was configured without a
// webhook endpoint.
var ErrMissingBaseURL = errors.New("agent: base url is required")

// Options configures the n8n agent webhook client.
type Options struct {
	BaseURL        string
	APIKey         string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls to the n8n chat-agent webhooks.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *infra.Logger
}

// Turn is one prior message of the conversation, reduced to what the agent
// consumes.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Section mirrors one titled block of a generated plan body.
type Section struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

// PlanPayload is the structured study plan an agent response may carry.
// Dates arrive as strings and are parsed on demand via Window.
type PlanPayload struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Duration     string    `json:"duration"`
	HoursPerWeek int       `json:"hoursPerWeek"`
	StartDate    string    `json:"startDate"`
	EndDate      string    `json:"endDate"`
	Schedule     string    `json:"schedule"`
	CurrentFocus string    `json:"currentFocus"`
	Content      []Section `json:"content"`
}

// ChatResult is the normalized agent reply.
type ChatResult struct {
	Response  string
	StudyPlan *PlanPayload
}

// PlanRequest describes a direct plan-generation request.
type PlanRequest struct {
	Subject      string          `json:"subject"`
	Duration     string          `json:"duration"`
	HoursPerWeek int             `json:"hoursPerWeek"`
	Preferences  PlanPreferences `json:"preferences"`
}

// PlanPreferences carries the learner profile forwarded with a plan request.
type PlanPreferences struct {
	LearningStyle string `json:"learningStyle"`
	Goals         string `json:"goals"`
	Experience    string `json:"experience"`
}

type chatRequest struct {
	Message             string `json:"message"`
	ConversationHistory []Turn `json:"conversationHistory"`
}

type chatResponse struct {
	Response  string       `json:"response"`
	StudyPlan *PlanPayload `json:"studyPlan"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(opts.APIKey),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Chat forwards the user's message plus conversation history to the
// chat-agent webhook and returns the reply with any generated plan.
func (c *Client) Chat(ctx context.Context, message string, history []Turn) (*ChatResult, error) {
	if history == nil {
		history = []Turn{}
	}
	payload := chatRequest{Message: message, ConversationHistory: history}

	var decoded chatResponse
	if err := c.post(ctx, "/webhook/chat-agent", payload, &decoded); err != nil {
		return nil, err
	}
	return &ChatResult{Response: decoded.Response, StudyPlan: decoded.StudyPlan}, nil
}

// GeneratePlan asks the agent for a study plan directly, outside a chat
// conversation.
func (c *Client) GeneratePlan(ctx context.Context, req PlanRequest) (*PlanPayload, error) {
	var decoded PlanPayload
	if err := c.post(ctx, "/webhook/generate-study-plan", req, &decoded); err != nil {
		return nil, err
	}
	return &decoded, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("agent: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("agent: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("X-N8N-API-KEY", c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("agent: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("agent: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		c.logger.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("agent webhook returned an error")
		return fmt.Errorf("agent: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("agent: decode response: %w", err)
	}
	return nil
}

// Window parses the payload's start and end dates. RFC 3339 first, then
// plain dates, matching what the workflow emits.
func (p *PlanPayload) Window() (time.Time, time.Time, error) {
	start, err := parseDate(p.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("agent: start date: %w", err)
	}
	end, err := parseDate(p.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("agent: end date: %w", err)
	}
	return start, end, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
