package token

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/Jawadabbaskhan/socialauth/internal/config"
)

// refreshAlg: los refresh tokens se firman siempre con HS256, independiente
// del algoritmo primario configurado, para que sigan siendo verificables si
// la configuración del primario cambia.
const refreshAlg = "HS256"

// Issuer emite access y refresh tokens a partir de una identidad.
// Inmutable después de construido; seguro para uso concurrente.
type Issuer struct {
	secret     string
	alg        string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewIssuer(cfg *config.Config) *Issuer {
	return &Issuer{
		secret:     cfg.JWT.Secret,
		alg:        cfg.JWT.Algorithm,
		accessTTL:  cfg.AccessTTL(),
		refreshTTL: cfg.RefreshTTL(),
	}
}

// IssueAccessToken emite un access token para la identidad dada.
// Si ttl <= 0 usa el TTL configurado. El claim "role" se copia de la
// identidad si está presente; si no, se omite.
func (i *Issuer) IssueAccessToken(id Identity, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = i.accessTTL
	}
	cs := ClaimSet{
		Sub:  id.Email,
		Role: id.Role,
		Exp:  time.Now().Add(ttl),
	}
	return Encode(cs, i.secret, i.alg)
}

// IssueRefreshToken emite un refresh token con TTL fijo de configuración
// y scope=refresh_token. Siempre HS256.
func (i *Issuer) IssueRefreshToken(id Identity) (string, error) {
	cs := ClaimSet{
		Sub:   id.Email,
		Scope: ScopeRefresh,
		Exp:   time.Now().Add(i.refreshTTL),
	}
	return Encode(cs, i.secret, refreshAlg)
}

// GenerateCSRFToken produce un token opaco aleatorio URL-safe de 256 bits,
// para defensa double-submit. No es un JWT y este subsistema no lo decodifica.
func GenerateCSRFToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
