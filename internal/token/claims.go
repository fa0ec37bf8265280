package token

import (
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// Role es el conjunto cerrado de roles de autorización. En el wire viaja
// como string dentro del claim "role".
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole convierte el valor wire a Role. ok=false para valores fuera
// del conjunto conocido.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleUser:
		return RoleUser, true
	}
	return "", false
}

// ScopeRefresh es el valor del claim "scope" que distingue un refresh token
// de un access token. Es el único discriminador entre ambos.
const ScopeRefresh = "refresh_token"

// Identity es el principal detrás de una emisión: email (claim "sub") y rol.
type Identity struct {
	Email string
	Role  Role // vacío = sin claim "role"
}

// ClaimSet es el payload de todo token firmado.
// Wire: {"sub": string, "role": string?, "scope": "refresh_token"?, "exp": number}
type ClaimSet struct {
	Sub   string
	Role  Role   // vacío = claim ausente
	Scope string // ScopeRefresh solo en refresh tokens
	Exp   time.Time
}

// IsRefresh indica si el claim set corresponde a un refresh token.
func (c ClaimSet) IsRefresh() bool { return c.Scope == ScopeRefresh }

func (c ClaimSet) toMapClaims() jwtv5.MapClaims {
	mc := jwtv5.MapClaims{
		"sub": c.Sub,
		"exp": c.Exp.Unix(),
	}
	if c.Role != "" {
		mc["role"] = string(c.Role)
	}
	if c.Scope != "" {
		mc["scope"] = c.Scope
	}
	return mc
}

func claimSetFromMap(mc jwtv5.MapClaims) ClaimSet {
	var cs ClaimSet
	if s, _ := mc["sub"].(string); s != "" {
		cs.Sub = s
	}
	if s, _ := mc["role"].(string); s != "" {
		cs.Role = Role(s)
	}
	if s, _ := mc["scope"].(string); s != "" {
		cs.Scope = s
	}
	if f, ok := mc["exp"].(float64); ok {
		cs.Exp = time.Unix(int64(f), 0)
	}
	return cs
}
