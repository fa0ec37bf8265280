package middlewares

import (
	"net/http"
	"strings"

	httperrors "github.com/Jawadabbaskhan/socialauth/internal/http/errors"
	"github.com/Jawadabbaskhan/socialauth/internal/observability/logger"
	"github.com/Jawadabbaskhan/socialauth/internal/store/core"
	"github.com/Jawadabbaskhan/socialauth/internal/token"
)

// GateConfig agrupa las dependencias del gate de control de acceso.
type GateConfig struct {
	Verifier *token.Verifier
	Users    core.UserStore

	// ExemptPrefixes son prefijos de path que pasan sin autenticación:
	// inicio y callback de OAuth, refresh, docs, health y métricas.
	ExemptPrefixes []string

	// ProductsPrefix es el prefijo bajo el cual DELETE exige rol admin.
	ProductsPrefix string
}

// AccessControlGate protege todas las rutas no exentas.
//
// Orden estricto por request:
//  1. chequeo de exención por prefijo (sin tocar nada más)
//  2. extracción del Bearer (falta o malformado => 401, sin tocar la DB)
//  3. verificación del token (=> 401)
//  4. completitud de claims: sub y role obligatorios (=> 401)
//  5. lookup del sujeto por email en la DB (=> 401 si no existe)
//  6. estampado del rol en el contexto del request
//  7. política de ruta: DELETE bajo el prefijo de productos exige admin (=> 403)
//
// Un solo lookup de DB por request no exento; sin cache, sin reintentos.
func AccessControlGate(cfg GateConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, p := range cfg.ExemptPrefixes {
				if strings.HasPrefix(r.URL.Path, p) {
					next.ServeHTTP(w, r)
					return
				}
			}

			log := logger.From(r.Context()).Named("gate")

			auth := r.Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				httperrors.WriteError(w, httperrors.ErrMissingToken)
				return
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			cs, ok := cfg.Verifier.Verify(raw)
			if !ok {
				httperrors.WriteError(w, httperrors.ErrInvalidToken)
				return
			}

			// Un access token emitido vía refresh no trae rol: acá se corta.
			// El rol además tiene que ser uno del conjunto cerrado.
			if cs.Sub == "" || cs.Role == "" {
				httperrors.WriteError(w, httperrors.ErrInvalidToken)
				return
			}
			if _, known := token.ParseRole(string(cs.Role)); !known {
				httperrors.WriteError(w, httperrors.ErrInvalidToken)
				return
			}

			if _, err := cfg.Users.FindUserByEmail(r.Context(), cs.Sub); err != nil {
				log.Debug("subject lookup failed", logger.Email(cs.Sub), logger.Err(err))
				httperrors.WriteError(w, httperrors.ErrUserNotFound)
				return
			}

			ctx := WithClaims(r.Context(), cs)
			ctx = WithRole(ctx, cs.Role)

			if r.Method == http.MethodDelete &&
				cfg.ProductsPrefix != "" &&
				strings.HasPrefix(r.URL.Path, cfg.ProductsPrefix) &&
				cs.Role != token.RoleAdmin {
				httperrors.WriteError(w, httperrors.ErrForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
