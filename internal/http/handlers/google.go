package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"server/internal/domain"
)

// connectedPage closes the OAuth popup after a successful connect.
const connectedPage = `<html>
  <body>
    <h1>Google Calendar Connected Successfully</h1>
    <p>You can close this window now.</p>
    <script>window.close();</script>
  </body>
</html>`

// GoogleAuthURL hands the client the consent-screen URL with a random
// anti-forgery state.
func (a *App) GoogleAuthURL(w http.ResponseWriter, r *http.Request) {
	if !a.Calendar.HasCredentials() {
		a.fail(w, http.StatusInternalServerError, "Error generating authorization URL")
		return
	}
	state := uuid.NewString()
	a.json(w, http.StatusOK, map[string]string{"url": a.Calendar.AuthCodeURL(state)})
}

// GoogleCallback completes the OAuth flow: exchanges the code, reads the
// account email, and marks the preferences calendar-connected. Responds
// with a small HTML page that closes the popup.
func (a *App) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "Authorization code missing", http.StatusBadRequest)
		return
	}

	if err := a.Calendar.Exchange(ctx, code); err != nil {
		a.Logger.Error().Err(err).Msg("google code exchange failed")
		http.Error(w, "Error connecting Google Calendar", http.StatusInternalServerError)
		return
	}

	email, err := a.Calendar.AccountEmail(ctx)
	if err != nil {
		a.Logger.Error().Err(err).Msg("google userinfo fetch failed")
		http.Error(w, "Error connecting Google Calendar", http.StatusInternalServerError)
		return
	}

	connected := true
	if _, err := a.Store.UpdatePreferencesByUser(ctx, demoUserID, domain.PreferencePatch{
		CalendarConnected: &connected,
		CalendarEmail:     &email,
	}); err != nil {
		http.Error(w, "Error connecting Google Calendar", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(connectedPage))
}

// GoogleDisconnect drops the held token and clears the connection flags.
func (a *App) GoogleDisconnect(w http.ResponseWriter, r *http.Request) {
	a.Calendar.Disconnect()

	connected := false
	email := ""
	if _, err := a.Store.UpdatePreferencesByUser(r.Context(), demoUserID, domain.PreferencePatch{
		CalendarConnected: &connected,
		CalendarEmail:     &email,
	}); err != nil {
		a.fail(w, http.StatusInternalServerError, "Error disconnecting Google Calendar")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"message": "Google Calendar disconnected successfully"})
}

// GoogleConnectionStatus reports the flag recorded on the preferences.
func (a *App) GoogleConnectionStatus(w http.ResponseWriter, r *http.Request) {
	prefs, err := a.Store.PreferencesByUser(r.Context(), demoUserID)
	if err != nil {
		a.fail(w, http.StatusInternalServerError, "Error checking connection status")
		return
	}
	connected := prefs != nil && prefs.CalendarConnected
	a.json(w, http.StatusOK, map[string]bool{"connected": connected})
}

// GoogleCalendars lists the calendars of the connected account.
func (a *App) GoogleCalendars(w http.ResponseWriter, r *http.Request) {
	if !a.Calendar.Connected() {
		a.fail(w, http.StatusBadRequest, "Google Calendar not connected")
		return
	}
	calendars, err := a.Calendar.Calendars(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("calendar list fetch failed")
		a.fail(w, http.StatusInternalServerError, "Error fetching calendars")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"calendars": calendars})
}
