package httpapi

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"server/internal/http/handlers"
	"server/internal/infra"
	"server/internal/middleware"
)

// NewRouter wires every endpoint. Paths mirror the original client's
// expectations, so they must stay stable.
func NewRouter(app *handlers.App, cfg *infra.Config, logger infra.Logger) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(logger),
		cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			AllowCredentials: true,
		}),
	)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", app.Health)

		r.Route("/user", func(r chi.Router) {
			r.Get("/current", app.CurrentUser)
			r.Put("/profile", app.UpdateProfile)
		})

		r.Route("/chat", func(r chi.Router) {
			r.Get("/history", app.ChatHistory)
			r.Post("/message", app.SendChatMessage)
			r.Delete("/clear", app.ClearChat)
		})

		r.Route("/study-plans", func(r chi.Router) {
			r.Get("/", app.ListPlans)
			r.Get("/history", app.ListPlans)
			r.Post("/generate", app.GeneratePlan)
			r.Get("/{id}", app.GetPlan)
			r.Patch("/{id}", app.UpdatePlan)
			r.Delete("/{id}", app.DeletePlan)
			r.Post("/{id}/calendar", app.AddPlanToCalendar)
		})

		r.Route("/google", func(r chi.Router) {
			r.Get("/auth-url", app.GoogleAuthURL)
			r.Get("/callback", app.GoogleCallback)
			r.Post("/disconnect", app.GoogleDisconnect)
			r.Get("/connection-status", app.GoogleConnectionStatus)
			r.Get("/calendars", app.GoogleCalendars)
		})
	})

	return r
}
