// Package cache provee un cache chico multi-backend (memory | redis).
// Acá se usa para el state de OAuth (nonce de un solo uso con TTL), no para
// los lookups de usuario del gate, que van siempre a la DB.
package cache

import (
	"context"
	"time"

	"github.com/Jawadabbaskhan/socialauth/internal/config"
)

// Client define las operaciones de cache.
type Client interface {
	// Get obtiene un valor. Retorna ErrNotFound si no existe.
	Get(ctx context.Context, key string) (string, error)

	// Set guarda un valor con TTL. Si ttl es 0, no expira.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete elimina una key. No falla si no existe.
	Delete(ctx context.Context, key string) error

	// Ping verifica la conexión.
	Ping(ctx context.Context) error

	// Close cierra la conexión.
	Close() error
}

// ErrNotFound se retorna cuando la key no existe.
var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "cache: key not found" }

// IsNotFound verifica si el error es porque la key no existe.
func IsNotFound(err error) bool {
	_, ok := err.(errNotFound)
	return ok
}

// New crea un cliente según la configuración.
func New(cfg *config.Config) (Client, error) {
	switch cfg.Cache.Kind {
	case "redis":
		return NewRedis(cfg)
	default:
		return NewMemory(cfg.Cache.Redis.Prefix), nil
	}
}
