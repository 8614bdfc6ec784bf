package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims claims del operador de la aplicación. No hay multiempresa: el sujeto
// identifica al operador y Scope limita el uso del token.
type Claims struct {
	jwt.RegisteredClaims
	Scope string `json:"scope"`
}

// ScopeOperator único alcance emitido hoy.
const ScopeOperator = "operator"

// Generate genera un token JWT firmado para el operador.
func Generate(secret, subject, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		Scope: ScopeOperator,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve el sujeto.
// Retorna error si el token es inválido, expirado, tiene firma incorrecta o alcance desconocido.
func Parse(secret, tokenString string) (subject string, err error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("claims inválidos")
	}
	if claims.Scope != ScopeOperator {
		return "", fmt.Errorf("alcance inválido: %q", claims.Scope)
	}
	return claims.Subject, nil
}
