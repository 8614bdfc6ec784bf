package fbr

import (
	"fmt"
	"strings"
)

// ReferencePrefix devuelve "SI" para facturas de venta y "DN" para notas débito.
func ReferencePrefix(invoiceType string) string {
	if invoiceType == InvoiceTypeDebitNote {
		return "DN"
	}
	return "SI"
}

// FormatReference construye el número de referencia interno: "SI-0001".
func FormatReference(invoiceType string, seq int) string {
	return fmt.Sprintf("%s-%04d", ReferencePrefix(invoiceType), seq)
}

// BearerToken normaliza el token del vendedor al formato "Bearer <token>".
func BearerToken(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(token, "Bearer ") {
		return token
	}
	return "Bearer " + token
}
