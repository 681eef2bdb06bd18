package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/paytrack/authd/internal/service"
	"github.com/paytrack/authd/internal/store"
	"github.com/paytrack/authd/pkg/httpx"
	"github.com/paytrack/authd/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	AuthService   *service.AuthService
	UserService   *service.UserService
	SalaryService *service.SalaryService
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) ApplyRoutes() {
	// POST /auth - strict rate limit by IP + login to slow brute force.
	r.Mux.Handle("POST /auth",
		httpx.Chain(&AuthHandler{Auth: r.AuthService},
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "login"),
		),
	)

	// POST /user/add - moderate rate limit (public signup endpoint).
	r.Mux.Handle("POST /user/add",
		httpx.Chain(&RegisterHandler{Users: r.UserService, Salaries: r.SalaryService},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// GET /salary - token gated; the bearer middleware resolves the caller.
	r.Mux.Handle("GET /salary",
		httpx.Chain(&SalaryHandler{Salaries: r.SalaryService},
			httpx.RateLimitByIP(httpx.LenientLimit),
			BearerMiddleware(r.AuthService),
		),
	)

	r.registerSystem()
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
