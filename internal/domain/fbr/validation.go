package fbr

import (
	"errors"
	"fmt"

	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/domain/lineitem"
	pkgfbr "github.com/jhoicas/fbr-invoicing/pkg/fbr"
)

// ValidateForSubmission comprobaciones locales antes de llamar al gateway.
// Retorna domain.ErrConflict si la factura ya fue enviada; domain.ErrInvalidInput
// (junto con cada causa) para datos incompletos.
func ValidateForSubmission(inv *entity.Invoice, seller *entity.Seller, buyer *entity.Buyer, env string) error {
	if inv == nil {
		return fmt.Errorf("%w: factura nula", domain.ErrInvalidInput)
	}
	if inv.IsSubmitted() {
		return fmt.Errorf("%w: la factura %s ya fue enviada a FBR", domain.ErrConflict, inv.RefNo)
	}

	var errs []error
	if !pkgfbr.ValidEnvironment(env) {
		errs = append(errs, fmt.Errorf("ambiente desconocido %q", env))
	}
	if seller == nil {
		errs = append(errs, errors.New("seleccione un vendedor"))
	} else if seller.TokenFor(env) == "" {
		errs = append(errs, fmt.Errorf("el vendedor no tiene token de %s", env))
	}
	if buyer == nil {
		errs = append(errs, errors.New("seleccione un comprador"))
	}
	if !pkgfbr.ValidInvoiceType(inv.Type) {
		errs = append(errs, fmt.Errorf("tipo de factura inválido %q", inv.Type))
	}
	if _, err := pkgfbr.ParseInvoiceDate(inv.Date); err != nil {
		errs = append(errs, fmt.Errorf("fecha de factura: %w", err))
	}
	if env == pkgfbr.EnvSandbox && inv.ScenarioID == "" {
		errs = append(errs, errors.New("sandbox requiere un escenario"))
	}
	if len(inv.Items) == 0 {
		errs = append(errs, errors.New("la factura debe tener al menos una línea"))
	}
	for i, it := range inv.Items {
		if it.HSCode == "" {
			errs = append(errs, fmt.Errorf("línea %d: hsCode vacío", i+1))
		}
		if !it.Quantity.IsPositive() {
			errs = append(errs, fmt.Errorf("línea %d: la cantidad debe ser mayor que cero", i+1))
		}
		if err := lineitem.Check(it); err != nil {
			errs = append(errs, fmt.Errorf("línea %d: %w", i+1, err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{domain.ErrInvalidInput}, errs...)...)
	}
	return nil
}
