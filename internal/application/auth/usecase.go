package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/fbr-invoicing/internal/application/dto"
	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/pkg/jwt"
)

// OperatorSubject sujeto fijo del token: la aplicación tiene un único operador.
const OperatorSubject = "operator"

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase canjea la frase de acceso del operador por un JWT.
type AuthUseCase struct {
	passphraseHash []byte
	jwtCfg         JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth. passphraseHash es un hash bcrypt.
func NewAuthUseCase(passphraseHash string, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{passphraseHash: []byte(passphraseHash), jwtCfg: jwtCfg}
}

// Enabled indica si la autenticación está configurada.
func (uc *AuthUseCase) Enabled() bool {
	return uc.jwtCfg.Secret != ""
}

// IssueToken verifica la frase y genera el token.
// Retorna domain.ErrUnauthorized si la frase no coincide o no hay hash configurado.
func (uc *AuthUseCase) IssueToken(in dto.TokenRequest) (*dto.TokenResponse, error) {
	if len(uc.passphraseHash) == 0 {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword(uc.passphraseHash, []byte(in.Passphrase)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, OperatorSubject, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{Token: token, ExpiresIn: uc.jwtCfg.ExpMinutes * 60}, nil
}

// HashPassphrase genera el hash bcrypt a guardar en AUTH_PASSPHRASE_HASH.
func HashPassphrase(passphrase string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
