package fbr

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayoutISO formato de fecha de factura y de la consulta SROItem.
	DateLayoutISO = "2006-01-02"
	// DateLayoutGateway formato DD-MMM-YYYY de SaleTypeToRate y SroSchedule.
	DateLayoutGateway = "02-Jan-2006"
)

// FormatGatewayDate formatea la fecha como "04-Feb-2025".
func FormatGatewayDate(t time.Time) string {
	return t.Format(DateLayoutGateway)
}

// FormatISODate formatea la fecha como "2025-02-04".
func FormatISODate(t time.Time) string {
	return t.Format(DateLayoutISO)
}

// ParseInvoiceDate acepta "2025-02-04" o "04-Feb-2025".
func ParseInvoiceDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayoutISO, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(DateLayoutGateway, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("fbr: fecha inválida %q (usar YYYY-MM-DD)", s)
}
