package server

import (
	"database/sql"
	"net/http"

	"github.com/amosley/joinboard/internal/auth"
	"github.com/amosley/joinboard/internal/repositories"
	"github.com/amosley/joinboard/internal/shared"
	"github.com/charmbracelet/log"
)

// API bundles the handlers for the task board HTTP endpoints with their
// repositories and auth components.
type API struct {
	users    *repositories.UserRepository
	contacts *repositories.ContactRepository
	tasks    *repositories.TaskRepository
	summary  *repositories.SummaryRepository
	hasher   auth.Hasher
	issuer   *auth.TokenIssuer
	logger   *log.Logger
}

// APIOpts carries optional overrides for [NewAPI].
type APIOpts struct {
	Hasher auth.Hasher
	Logger *log.Logger
}

// NewAPI wires an [API] over the given database and token issuer.
func NewAPI(db *sql.DB, issuer *auth.TokenIssuer, opts APIOpts) *API {
	if opts.Hasher == nil {
		opts.Hasher = auth.NewBcryptHasher(0)
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &API{
		users:    repositories.NewUserRepository(db),
		contacts: repositories.NewContactRepository(db),
		tasks:    repositories.NewTaskRepository(db),
		summary:  repositories.NewSummaryRepository(db),
		hasher:   opts.Hasher,
		issuer:   issuer,
		logger:   opts.Logger,
	}
}

// Routes builds the router: public auth and health endpoints, and
// token-protected contact, task, and summary endpoints.
func (a *API) Routes() *BasicRouter {
	router := NewBasicRouter()
	router.Use(Logging(a.logger), CORS())

	router.Handle(http.MethodGet, "/api/health", http.HandlerFunc(a.Health))
	router.Handle(http.MethodPost, "/api/auth/signup", http.HandlerFunc(a.Signup))
	router.Handle(http.MethodPost, "/api/auth/login", http.HandlerFunc(a.Login))

	protect := RequireAuth(a.issuer)

	router.Handle(http.MethodGet, "/api/contacts", protect(http.HandlerFunc(a.ListContacts)))
	router.Handle(http.MethodPost, "/api/contacts", protect(http.HandlerFunc(a.CreateContact)))
	router.Handle(http.MethodPut, "/api/contacts/{id}", protect(http.HandlerFunc(a.UpdateContact)))
	router.Handle(http.MethodDelete, "/api/contacts/{id}", protect(http.HandlerFunc(a.DeleteContact)))

	router.Handle(http.MethodGet, "/api/tasks", protect(http.HandlerFunc(a.ListTasks)))
	router.Handle(http.MethodPost, "/api/tasks", protect(http.HandlerFunc(a.CreateTask)))
	router.Handle(http.MethodGet, "/api/tasks/{id}", protect(http.HandlerFunc(a.GetTask)))
	router.Handle(http.MethodPut, "/api/tasks/{id}", protect(http.HandlerFunc(a.UpdateTask)))
	router.Handle(http.MethodPatch, "/api/tasks/{id}/status", protect(http.HandlerFunc(a.UpdateTaskStatus)))
	router.Handle(http.MethodDelete, "/api/tasks/{id}", protect(http.HandlerFunc(a.DeleteTask)))

	router.Handle(http.MethodGet, "/api/summary/metrics", protect(http.HandlerFunc(a.Summary)))

	return router
}
