// Package dto cuerpos de petición y respuesta de la API HTTP.
package dto

// ErrorResponse cuerpo de error HTTP; Code es estable (NOT_FOUND, REJECTED_VALIDATE...)
// y Message es legible por el operador.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
