package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fbr-invoicing/internal/application/auth"
	"github.com/jhoicas/fbr-invoicing/internal/application/dto"
	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/pkg/jwt"
)

const secret = "test-secret"

func TestIssueToken_FraseCorrecta(t *testing.T) {
	hash, err := auth.HashPassphrase("correct horse")
	require.NoError(t, err)
	uc := auth.NewAuthUseCase(hash, auth.JWTConfig{Secret: secret, ExpMinutes: 10, Issuer: "test"})

	res, err := uc.IssueToken(dto.TokenRequest{Passphrase: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, 600, res.ExpiresIn)

	sub, err := jwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.OperatorSubject, sub)
}

func TestIssueToken_FraseIncorrecta(t *testing.T) {
	hash, err := auth.HashPassphrase("correct horse")
	require.NoError(t, err)
	uc := auth.NewAuthUseCase(hash, auth.JWTConfig{Secret: secret, ExpMinutes: 10})

	_, err = uc.IssueToken(dto.TokenRequest{Passphrase: "battery staple"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestIssueToken_SinHashConfigurado(t *testing.T) {
	uc := auth.NewAuthUseCase("", auth.JWTConfig{Secret: secret})
	_, err := uc.IssueToken(dto.TokenRequest{Passphrase: "x"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.True(t, uc.Enabled())
}
