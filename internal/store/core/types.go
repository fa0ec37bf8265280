package core

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound se retorna cuando la entidad no existe.
var ErrNotFound = errors.New("store: not found")

// ErrDuplicateEmail se retorna al crear un usuario con email ya registrado.
var ErrDuplicateEmail = errors.New("store: email already registered")

// User es el registro persistido de un usuario. El subsistema de tokens lo
// lee para confirmar que el sujeto sigue existiendo y obtener el rol
// autoritativo; nunca lo muta.
type User struct {
	ID            string // uuid
	Username      string
	Email         string // único
	PasswordHash  *string
	IsActive      bool
	IsSuperuser   bool
	OAuthProvider *string
	OAuthToken    *string
	Role          string
	CreatedAt     time.Time
}

// Product es el recurso CRUD de la aplicación.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       float64
}

// ProductUpdate son los campos actualizables de un producto.
type ProductUpdate struct {
	Name        string
	Description string
	Price       float64
}

// UserStore es el contrato de persistencia de usuarios.
// FindUserByEmail es la única operación que consume el gate.
type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	CreateUser(ctx context.Context, u *User) error
	ListUsers(ctx context.Context) ([]User, error)
}

// ProductStore es el contrato de persistencia de productos.
type ProductStore interface {
	CreateProduct(ctx context.Context, p *Product) error
	GetProduct(ctx context.Context, id int64) (*Product, error)
	ListProducts(ctx context.Context, offset, limit int) ([]Product, error)
	UpdateProduct(ctx context.Context, id int64, upd ProductUpdate) (*Product, error)
	DeleteProduct(ctx context.Context, id int64) (*Product, error)
}

// Repository agrupa ambos contratos; lo implementa el adapter de postgres.
type Repository interface {
	UserStore
	ProductStore
	Ping(ctx context.Context) error
	Close()
}
