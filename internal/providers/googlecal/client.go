package googlecal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	goauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"server/internal/infra"
)

var (
	// ErrMissingCredentials indicates the client was configured without an
	// OAuth client id and secret.
	ErrMissingCredentials = errors.New("googlecal: client id and secret are required")

	// ErrNotConnected indicates no Google account has completed the OAuth
	// flow in this process.
	ErrNotConnected = errors.New("googlecal: no account connected")
)

// Options configures the Google Calendar client.
type Options struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Logger       *infra.Logger
}

// Client drives the OAuth authorization-code flow and the Calendar API for
// the connected account. The token lives in process memory only, the same
// volatility class as the entity store.
type Client struct {
	oauth  *oauth2.Config
	logger *infra.Logger

	mu    sync.Mutex
	token *oauth2.Token
}

// CalendarInfo is one entry of the connected account's calendar list.
type CalendarInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EventPlan describes the study plan fields needed to materialize
// calendar events.
type EventPlan struct {
	Title        string
	Description  string
	Schedule     string
	CalendarID   string
	Start        time.Time
	End          time.Time
	HoursPerWeek int
}

// NewClient constructs the client. Credentials may be absent; calls that
// need them fail with ErrMissingCredentials.
func NewClient(opts Options) *Client {
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			RedirectURL:  opts.RedirectURL,
			Scopes:       []string{calendar.CalendarScope, goauth2.UserinfoEmailScope},
			Endpoint:     google.Endpoint,
		},
		logger: logger,
	}
}

// HasCredentials reports whether the client can start an OAuth flow.
func (c *Client) HasCredentials() bool {
	return c.oauth.ClientID != "" && c.oauth.ClientSecret != ""
}

// AuthCodeURL builds the authorization URL for the consent screen. The
// state value is the caller's anti-forgery token.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades an authorization code for tokens and keeps them for the
// process lifetime.
func (c *Client) Exchange(ctx context.Context, code string) error {
	if !c.HasCredentials() {
		return ErrMissingCredentials
	}
	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("googlecal: exchange code: %w", err)
	}
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	return nil
}

// Connected reports whether an account token is held.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token != nil
}

// Disconnect drops the held token.
func (c *Client) Disconnect() {
	c.mu.Lock()
	c.token = nil
	c.mu.Unlock()
}

func (c *Client) authedClient(ctx context.Context) (*http.Client, error) {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token == nil {
		return nil, ErrNotConnected
	}
	return c.oauth.Client(ctx, token), nil
}

// AccountEmail returns the email address of the connected Google account.
func (c *Client) AccountEmail(ctx context.Context) (string, error) {
	httpClient, err := c.authedClient(ctx)
	if err != nil {
		return "", err
	}
	svc, err := goauth2.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return "", fmt.Errorf("googlecal: userinfo service: %w", err)
	}
	info, err := svc.Userinfo.Get().Do()
	if err != nil {
		return "", fmt.Errorf("googlecal: fetch userinfo: %w", err)
	}
	return info.Email, nil
}

// Calendars lists the connected account's calendars.
func (c *Client) Calendars(ctx context.Context) ([]CalendarInfo, error) {
	svc, err := c.calendarService(ctx)
	if err != nil {
		return nil, err
	}
	list, err := svc.CalendarList.List().Do()
	if err != nil {
		return nil, fmt.Errorf("googlecal: list calendars: %w", err)
	}
	out := make([]CalendarInfo, 0, len(list.Items))
	for _, item := range list.Items {
		out = append(out, CalendarInfo{ID: item.Id, Name: item.Summary})
	}
	return out, nil
}

// CreateEvents expands the plan's schedule into study sessions and inserts
// one event per session. Returns the created event ids in insertion order.
func (c *Client) CreateEvents(ctx context.Context, plan EventPlan) ([]string, error) {
	svc, err := c.calendarService(ctx)
	if err != nil {
		return nil, err
	}
	calendarID := plan.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}

	ids := make([]string, 0)
	for _, s := range expandSchedule(plan.Schedule, plan.Start, plan.End) {
		event := &calendar.Event{
			Summary:     "Study: " + plan.Title,
			Description: plan.Description,
			Start:       &calendar.EventDateTime{DateTime: s.start.Format(time.RFC3339)},
			End:         &calendar.EventDateTime{DateTime: s.end.Format(time.RFC3339)},
		}
		created, err := svc.Events.Insert(calendarID, event).Do()
		if err != nil {
			return nil, fmt.Errorf("googlecal: insert event: %w", err)
		}
		ids = append(ids, created.Id)
	}
	return ids, nil
}

// DeleteEvents removes previously created events. Events already gone on
// the remote side are skipped.
func (c *Client) DeleteEvents(ctx context.Context, calendarID string, eventIDs []string) error {
	svc, err := c.calendarService(ctx)
	if err != nil {
		return err
	}
	if calendarID == "" {
		calendarID = "primary"
	}
	for _, id := range eventIDs {
		if err := svc.Events.Delete(calendarID, id).Do(); err != nil {
			var apiErr *googleapi.Error
			if errors.As(err, &apiErr) && (apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone) {
				continue
			}
			return fmt.Errorf("googlecal: delete event %s: %w", id, err)
		}
	}
	return nil
}

func (c *Client) calendarService(ctx context.Context) (*calendar.Service, error) {
	httpClient, err := c.authedClient(ctx)
	if err != nil {
		return nil, err
	}
	svc, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("googlecal: calendar service: %w", err)
	}
	return svc, nil
}
