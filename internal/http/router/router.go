// Package router arma el árbol de rutas y la cadena de middlewares.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	authctrl "github.com/Jawadabbaskhan/socialauth/internal/http/controllers/auth"
	healthctrl "github.com/Jawadabbaskhan/socialauth/internal/http/controllers/health"
	productsctrl "github.com/Jawadabbaskhan/socialauth/internal/http/controllers/products"
	usersctrl "github.com/Jawadabbaskhan/socialauth/internal/http/controllers/users"
	"github.com/Jawadabbaskhan/socialauth/internal/http/metrics"
	mw "github.com/Jawadabbaskhan/socialauth/internal/http/middlewares"
	"github.com/Jawadabbaskhan/socialauth/internal/store/core"
	"github.com/Jawadabbaskhan/socialauth/internal/token"
)

// Prefijos de ruta que el gate deja pasar sin autenticación.
// Solo inicio y callback de OAuth: el logout NO está exento y exige Bearer.
// El refresh queda exento porque su credencial es la cookie, no el Bearer.
var exemptPrefixes = []string{
	"/api/v1/oauth/login",
	"/api/v1/oauth/callback",
	"/refresh-token",
	"/healthz",
	"/readyz",
	"/metrics",
	"/docs",
	"/openapi.json",
}

const productsPrefix = "/api/v1/products"

// Deps agrupa todo lo que el router necesita para armar el handler.
type Deps struct {
	Verifier *token.Verifier
	Users    core.UserStore

	Auth     *authctrl.Controller
	UsersC   *usersctrl.Controller
	Products *productsctrl.Controller
	Health   *healthctrl.Controller

	// MetricsHandler sirve /metrics; nil lo deshabilita (tests).
	MetricsHandler http.Handler
}

// New construye el handler raíz: recover → request-id → logging → métricas
// → gate, y abajo las rutas.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.WithRecover())
	r.Use(mw.WithRequestID())
	r.Use(mw.WithLogging())
	r.Use(metrics.WithMetrics())
	r.Use(mw.AccessControlGate(mw.GateConfig{
		Verifier:       deps.Verifier,
		Users:          deps.Users,
		ExemptPrefixes: exemptPrefixes,
		ProductsPrefix: productsPrefix,
	}))

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Post("/refresh-token", deps.Auth.Refresh)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/oauth", func(r chi.Router) {
			r.Get("/login", deps.Auth.Login)
			r.Get("/callback", deps.Auth.Callback)
			r.Post("/logout", deps.Auth.Logout)
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/register", deps.UsersC.Register)
			r.Post("/register/oauth", deps.UsersC.RegisterOAuth)
			r.Get("/", deps.UsersC.List)
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", deps.Products.Create)
			r.Get("/", deps.Products.List)
			r.Get("/{id}", deps.Products.Get)
			r.Put("/{id}", deps.Products.Update)
			r.Delete("/{id}", deps.Products.Delete)
		})
	})

	return r
}
