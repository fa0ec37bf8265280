package dto

// TokenResponse devuelve un access token recién emitido.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// LoginResponse es la respuesta del callback de OAuth.
// Los tokens van en cookies; el body solo confirma la sesión.
type LoginResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}

// MessageResponse es una confirmación genérica.
type MessageResponse struct {
	Message string `json:"message"`
}
