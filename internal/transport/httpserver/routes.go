package httpserver

import (
	"net/http"
	"time"

	"softdesk-go/internal/auth"
	"softdesk-go/internal/transport/httpserver/handler"
	authmw "softdesk-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(handlers *handler.Handlers, tokens *auth.Issuer) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS([]string{"http://localhost:5173"}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		r.Post("/signup", handlers.Signup)
		r.Post("/login", handlers.Login)
		r.Post("/token/refresh", handlers.Refresh)

		jwtAuth := authmw.NewJWTAuth(tokens)
		r.Group(func(r chi.Router) {
			r.Use(jwtAuth.Middleware)

			r.Get("/users", handlers.ListUsers)
			r.Get("/users/{user_id}", handlers.GetUser)
			r.Patch("/users/{user_id}", handlers.UpdateUser)
			r.Post("/users/{user_id}/password", handlers.ChangePassword)
			r.Delete("/users/{user_id}", handlers.DeleteUser)

			r.Get("/projects", handlers.ListProjects)
			r.Post("/projects", handlers.CreateProject)
			r.Get("/projects/{project_id}", handlers.GetProject)
			r.Patch("/projects/{project_id}", handlers.UpdateProject)
			r.Delete("/projects/{project_id}", handlers.DeleteProject)

			r.Get("/projects/{project_id}/users", handlers.ListContributors)
			r.Post("/projects/{project_id}/users", handlers.AddContributor)
			r.Get("/projects/{project_id}/users/{user_id}", handlers.GetContributor)
			r.Delete("/projects/{project_id}/users/{user_id}", handlers.RemoveContributor)

			r.Get("/projects/{project_id}/issues", handlers.ListIssues)
			r.Post("/projects/{project_id}/issues", handlers.CreateIssue)
			r.Get("/projects/{project_id}/issues/{issue_id}", handlers.GetIssue)
			r.Patch("/projects/{project_id}/issues/{issue_id}", handlers.UpdateIssue)
			r.Patch("/projects/{project_id}/issues/{issue_id}/status", handlers.UpdateIssueStatus)
			r.Delete("/projects/{project_id}/issues/{issue_id}", handlers.FinishIssue)

			r.Get("/projects/{project_id}/issues/{issue_id}/comments", handlers.ListComments)
			r.Post("/projects/{project_id}/issues/{issue_id}/comments", handlers.CreateComment)
			r.Get("/projects/{project_id}/issues/{issue_id}/comments/{comment_id}", handlers.GetComment)
			r.Patch("/projects/{project_id}/issues/{issue_id}/comments/{comment_id}", handlers.UpdateComment)
			r.Delete("/projects/{project_id}/issues/{issue_id}/comments/{comment_id}", handlers.DeleteComment)
		})
	})

	return r
}
