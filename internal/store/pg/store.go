package pg

import (
	"context"
	"errors"
	"time"

	"github.com/Jawadabbaskhan/socialauth/internal/config"
	"github.com/Jawadabbaskhan/socialauth/internal/observability/logger"
	"github.com/Jawadabbaskhan/socialauth/internal/store/core"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store implementa core.Repository sobre un pool de pgx.
// Cada operación adquiere y libera una conexión del pool de forma
// determinística (Query/QueryRow con el ctx del request); nada queda
// retenido entre requests.
type Store struct{ pool *pgxpool.Pool }

// New crea el pool con la configuración dada. El arranque no falla si la
// DB está caída momentáneamente: el ping inicial solo avisa.
func New(ctx context.Context, cfg *config.Config) (*Store, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.Storage.DSN)
	if err != nil {
		return nil, err
	}
	if cfg.Storage.Postgres.MaxConns > 0 {
		pcfg.MaxConns = int32(cfg.Storage.Postgres.MaxConns)
	}
	if cfg.Storage.Postgres.MinConns > 0 {
		pcfg.MinConns = int32(cfg.Storage.Postgres.MinConns)
	}
	if s := cfg.Storage.Postgres.ConnMaxLifetime; s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			pcfg.MaxConnLifetime = d
			pcfg.MaxConnIdleTime = d
		}
	}
	if pcfg.MaxConns == 0 {
		pcfg.MaxConns = 8
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}

	log := logger.Named("store.pg")
	if err := pool.Ping(ctx); err != nil {
		log.Warn("startup ping failed", logger.Err(err))
	} else {
		log.Info("pool ready", logger.Component("pg"))
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

// Close cierra el pool subyacente (idempotente).
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// Pool expone el pool interno para usos avanzados (migraciones).
func (s *Store) Pool() *pgxpool.Pool {
	if s == nil {
		return nil
	}
	return s.pool
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// ─────────────── Users ───────────────

const userCols = `id, username, email, password_hash, is_active, is_superuser, oauth_provider, oauth_token, role, created_at`

func scanUser(row pgx.Row) (*core.User, error) {
	var u core.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsActive,
		&u.IsSuperuser, &u.OAuthProvider, &u.OAuthToken, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*core.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE LOWER(email) = LOWER($1) LIMIT 1`
	return scanUser(s.pool.QueryRow(ctx, q, email))
}

func (s *Store) CreateUser(ctx context.Context, u *core.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	const q = `
		INSERT INTO users (id, username, email, password_hash, is_active, is_superuser, oauth_provider, oauth_token, role, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`
	_, err := s.pool.Exec(ctx, q, u.ID, u.Username, u.Email, u.PasswordHash,
		u.IsActive, u.IsSuperuser, u.OAuthProvider, u.OAuthToken, u.Role, u.CreatedAt)
	if isUniqueViolation(err) {
		return core.ErrDuplicateEmail
	}
	return err
}

func (s *Store) ListUsers(ctx context.Context) ([]core.User, error) {
	const q = `SELECT ` + userCols + ` FROM users ORDER BY created_at`
	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.User
	for rows.Next() {
		var u core.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsActive,
			&u.IsSuperuser, &u.OAuthProvider, &u.OAuthToken, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// ─────────────── Products ───────────────

func (s *Store) CreateProduct(ctx context.Context, p *core.Product) error {
	const q = `
		INSERT INTO products (name, description, price)
		VALUES ($1,$2,$3) RETURNING id`
	return s.pool.QueryRow(ctx, q, p.Name, p.Description, p.Price).Scan(&p.ID)
}

func (s *Store) GetProduct(ctx context.Context, id int64) (*core.Product, error) {
	const q = `SELECT id, name, description, price FROM products WHERE id = $1`
	var p core.Product
	err := s.pool.QueryRow(ctx, q, id).Scan(&p.ID, &p.Name, &p.Description, &p.Price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) ListProducts(ctx context.Context, offset, limit int) ([]core.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	const q = `SELECT id, name, description, price FROM products ORDER BY id OFFSET $1 LIMIT $2`
	rows, err := s.pool.Query(ctx, q, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.Product
	for rows.Next() {
		var p core.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) UpdateProduct(ctx context.Context, id int64, upd core.ProductUpdate) (*core.Product, error) {
	const q = `
		UPDATE products SET name = $2, description = $3, price = $4
		WHERE id = $1
		RETURNING id, name, description, price`
	var p core.Product
	err := s.pool.QueryRow(ctx, q, id, upd.Name, upd.Description, upd.Price).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id int64) (*core.Product, error) {
	const q = `DELETE FROM products WHERE id = $1 RETURNING id, name, description, price`
	var p core.Product
	err := s.pool.QueryRow(ctx, q, id).Scan(&p.ID, &p.Name, &p.Description, &p.Price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
