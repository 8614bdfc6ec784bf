package dto

// TokenRequest entrada para POST /api/auth/token.
type TokenRequest struct {
	Passphrase string `json:"passphrase" validate:"required"`
}

// TokenResponse token JWT del operador.
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"` // segundos
}
