package fbr

import (
	"fmt"
	"strings"
)

// NTN de 7 dígitos (empresas) o CNIC de 13 dígitos (personas naturales).
const (
	ntnLength  = 7
	cnicLength = 13
)

// NormalizeNTN elimina separadores y valida la longitud de un NTN/CNIC.
// "0710106", "0710106-4" → el NTN de 7 dígitos; "44201-1234567-1" → CNIC de 13 dígitos.
func NormalizeNTN(raw string) (string, error) {
	digits := extractDigits(raw)
	switch {
	case len(digits) == ntnLength || len(digits) == cnicLength:
		return string(digits), nil
	case len(digits) == ntnLength+1 && strings.Contains(raw, "-"):
		// NTN con dígito de control "1234567-8": el gateway espera solo la base.
		return string(digits[:ntnLength]), nil
	default:
		return "", fmt.Errorf("fbr: NTN/CNIC debe tener %d o %d dígitos, se encontraron %d", ntnLength, cnicLength, len(digits))
	}
}

func extractDigits(s string) []byte {
	var out []byte
	for _, r := range s {
		if r >= '0' && r <= '9' {
			out = append(out, byte(r))
		}
	}
	return out
}
