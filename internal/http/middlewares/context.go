package middlewares

import (
	"context"

	"github.com/Jawadabbaskhan/socialauth/internal/token"
)

// =================================================================================
// CONTEXT KEYS
// =================================================================================

type ctxKey string

const (
	// ctxClaimsKey guarda las claims JWT verificadas del request
	ctxClaimsKey ctxKey = "claims"
	// ctxRoleKey guarda el rol efectivo estampado por el gate
	ctxRoleKey ctxKey = "role"
	// ctxRequestIDKey guarda el request ID
	ctxRequestIDKey ctxKey = "request_id"
)

// =================================================================================
// CONTEXT SETTERS (Internos, usados por middlewares)
// =================================================================================

// WithClaims inyecta las claims verificadas en el contexto
func WithClaims(ctx context.Context, cs token.ClaimSet) context.Context {
	return context.WithValue(ctx, ctxClaimsKey, cs)
}

// WithRole inyecta el rol efectivo en el contexto
func WithRole(ctx context.Context, role token.Role) context.Context {
	return context.WithValue(ctx, ctxRoleKey, role)
}

// setRequestID inyecta el request ID en el contexto (interno)
func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// =================================================================================
// CONTEXT GETTERS (Públicos, usados por handlers)
// =================================================================================

// GetClaims obtiene las claims del contexto.
// ok=false si el gate no corrió sobre esta ruta (ruta exenta).
func GetClaims(ctx context.Context) (token.ClaimSet, bool) {
	if v := ctx.Value(ctxClaimsKey); v != nil {
		if cs, ok := v.(token.ClaimSet); ok {
			return cs, true
		}
	}
	return token.ClaimSet{}, false
}

// GetRole obtiene el rol efectivo del contexto.
// Retorna cadena vacía si el gate no corrió sobre esta ruta.
func GetRole(ctx context.Context) token.Role {
	if v := ctx.Value(ctxRoleKey); v != nil {
		if r, ok := v.(token.Role); ok {
			return r
		}
	}
	return ""
}

// GetRequestID obtiene el request ID del contexto.
// Retorna cadena vacía si no hay request ID.
func GetRequestID(ctx context.Context) string {
	if v := ctx.Value(ctxRequestIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
