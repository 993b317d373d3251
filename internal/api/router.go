package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/workpulse/workpulse/internal/api/handler"
	"github.com/workpulse/workpulse/internal/api/middleware"
	"github.com/workpulse/workpulse/internal/config"
)

// Handlers groups all HTTP handlers for router construction
type Handlers struct {
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Workspace *handler.WorkspaceHandler
	Member    *handler.MemberHandler
	Project   *handler.ProjectHandler
	Task      *handler.TaskHandler
	Health    *handler.HealthHandler
}

// NewRouter builds the HTTP router with all routes and middleware
func NewRouter(cfg *config.Config, h Handlers, auth *middleware.AuthMiddleware, rateLimit *middleware.RateLimitMiddleware) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.Server.RequestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health.Check)
	r.Get("/ready", h.Health.ReadyCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.Refresh)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(rateLimit.Limit)

			r.Route("/users/current", func(r chi.Router) {
				r.Get("/", h.User.GetCurrent)
				r.Put("/", h.User.UpdateCurrent)
				r.Put("/workspace", h.User.SetCurrentWorkspace)
			})

			r.Post("/member/workspace/{inviteCode}/join", h.Workspace.Join)

			r.Route("/workspaces", func(r chi.Router) {
				r.Get("/", h.Workspace.List)
				r.Post("/", h.Workspace.Create)

				r.Route("/{workspaceID}", func(r chi.Router) {
					r.Use(middleware.WorkspaceContext)

					r.Get("/", h.Workspace.Get)
					r.Put("/", h.Workspace.Update)
					r.Delete("/", h.Workspace.Delete)
					r.Get("/analytics", h.Workspace.Analytics)

					r.Route("/members", func(r chi.Router) {
						r.Get("/", h.Member.List)
						r.Put("/role", h.Member.ChangeRole)
						r.Delete("/{memberUserID}", h.Member.Remove)
						r.Post("/reconcile", h.Member.Reconcile)
					})

					r.Route("/projects", func(r chi.Router) {
						r.Get("/", h.Project.List)
						r.Post("/", h.Project.Create)

						r.Route("/{projectID}", func(r chi.Router) {
							r.Get("/", h.Project.Get)
							r.Put("/", h.Project.Update)
							r.Delete("/", h.Project.Delete)
							r.Get("/analytics", h.Project.Analytics)
							r.Post("/tasks", h.Task.Create)
						})
					})

					r.Route("/tasks", func(r chi.Router) {
						r.Get("/", h.Task.List)

						r.Route("/{taskID}", func(r chi.Router) {
							r.Get("/", h.Task.Get)
							r.Put("/", h.Task.Update)
							r.Delete("/", h.Task.Delete)
						})
					})
				})
			})
		})
	})

	return r
}
