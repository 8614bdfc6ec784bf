package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// ErrGatewayUnavailable fallo de red/transporte o respuesta no-2xx del gateway FBR.
	ErrGatewayUnavailable = errors.New("gateway FBR no disponible")
	// ErrStore fallo de la persistencia local; fatal para la operación en curso.
	ErrStore = errors.New("error de almacenamiento local")
)

// RejectionError rechazo de negocio devuelto por el gateway (statusCode distinto de "00").
// Detail es el mensaje del servidor tal cual.
type RejectionError struct {
	Step       string // "validate" | "submit"
	StatusCode string
	Detail     string
}

func (e *RejectionError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("FBR rechazó el documento en %s (statusCode %q)", e.Step, e.StatusCode)
	}
	return fmt.Sprintf("FBR rechazó el documento en %s (statusCode %q): %s", e.Step, e.StatusCode, e.Detail)
}
