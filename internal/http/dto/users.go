// Package dto define los cuerpos de request/response de la API.
package dto

import "time"

// RegisterUserRequest es el alta de usuario con password.
type RegisterUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// OAuthRegisterRequest es el alta de usuario vía proveedor externo.
type OAuthRegisterRequest struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	OAuthProvider string `json:"oauth_provider"`
	OAuthToken    string `json:"oauth_token"`
}

// UserResponse es la vista pública de un usuario. Nunca incluye el hash.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
