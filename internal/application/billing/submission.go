package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/fbr-invoicing/internal/application/ports"
	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/domain/fbr"
	"github.com/jhoicas/fbr-invoicing/internal/domain/repository"
	pkgfbr "github.com/jhoicas/fbr-invoicing/pkg/fbr"
)

// Pasos del envío en dos fases.
const (
	StepValidate = "validate"
	StepSubmit   = "submit"
)

// SubmissionUseCase orquesta el envío de una factura al gateway FBR:
//
//	pre-validación local → validate ("00") → submit ("00") → persistir submitted
//
// Si falla cualquiera de los dos pasos la factura queda en borrador con el detalle
// del error; nunca se persiste un estado submitted parcial.
type SubmissionUseCase struct {
	gw          ports.FBRGateway
	locker      ports.SubmissionLocker
	invoiceRepo repository.InvoiceRepository
	sellerRepo  repository.SellerRepository
	buyerRepo   repository.BuyerRepository
	logRepo     repository.LogRepository
	log         zerolog.Logger
}

// NewSubmissionUseCase construye el caso de uso inyectando todas sus dependencias.
func NewSubmissionUseCase(
	gw ports.FBRGateway,
	locker ports.SubmissionLocker,
	invoiceRepo repository.InvoiceRepository,
	sellerRepo repository.SellerRepository,
	buyerRepo repository.BuyerRepository,
	logRepo repository.LogRepository,
	log zerolog.Logger,
) *SubmissionUseCase {
	return &SubmissionUseCase{
		gw:          gw,
		locker:      locker,
		invoiceRepo: invoiceRepo,
		sellerRepo:  sellerRepo,
		buyerRepo:   buyerRepo,
		logRepo:     logRepo,
		log:         log,
	}
}

// Submit valida y envía la factura guardada al ambiente indicado.
//
// Retorna:
//   - la factura en estado submitted si el gateway la aceptó.
//   - domain.ErrNotFound         si la factura no existe.
//   - domain.ErrConflict         si ya fue enviada, hay otro envío en curso de la misma
//     factura o ctx termina esperando la numeración del vendedor.
//   - domain.ErrInvalidInput     si faltan datos (vendedor, comprador, líneas, escenario, token).
//   - *domain.RejectionError     si validate o submit devuelven un statusCode distinto de "00".
//   - domain.ErrGatewayUnavailable para fallos de red o respuestas no-2xx.
func (uc *SubmissionUseCase) Submit(ctx context.Context, invoiceID, env string) (*entity.Invoice, error) {
	release, err := uc.locker.Acquire(ctx, "invoice:"+invoiceID)
	if err != nil {
		return nil, err
	}
	defer release()

	// ── 1. Cargar factura, vendedor y comprador ───────────────────────────────
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("%w: obtener factura: %w", domain.ErrStore, err)
	}
	if inv == nil {
		return nil, fmt.Errorf("%w: factura %s", domain.ErrNotFound, invoiceID)
	}
	seller, buyer, err := uc.parties(ctx, inv)
	if err != nil {
		return nil, err
	}

	// ── 2. Pre-validación local ───────────────────────────────────────────────
	if err := fbr.ValidateForSubmission(inv, seller, buyer, env); err != nil {
		return nil, err
	}

	// ── 3. Numeración: el lock del vendedor cubre desde la referencia hasta el contador
	releaseSeller, err := uc.locker.AcquireWait(ctx, "seller:"+seller.ID)
	if err != nil {
		return nil, err
	}
	defer releaseSeller()
	if seller, err = uc.currentSeller(ctx, seller.ID); err != nil {
		return nil, err
	}
	inv.RefNo = pkgfbr.FormatReference(inv.Type, nextSequence(seller, inv.Type))
	fbr.ApplyTotals(inv)
	payload := fbr.BuildPayload(inv, seller, buyer, env)
	cred := seller.CredentialsFor(env)

	logger := uc.log.With().Str("invoice", inv.ID).Str("ref", inv.RefNo).Str("env", env).Logger()

	// ── 4. Validate ───────────────────────────────────────────────────────────
	res, err := uc.gw.ValidateInvoice(ctx, cred, payload)
	if err == nil {
		err = checkStatus(StepValidate, res)
	}
	if err != nil {
		return nil, uc.fail(ctx, logger, inv, StepValidate, err)
	}

	// ── 5. Submit ─────────────────────────────────────────────────────────────
	res, err = uc.gw.SubmitInvoice(ctx, cred, payload)
	if err == nil {
		if code := res.Response.StatusCode(); code != "" && code != pkgfbr.StatusCodeValid {
			err = &domain.RejectionError{Step: StepSubmit, StatusCode: code, Detail: res.Response.Detail()}
		}
	}
	if err != nil {
		return nil, uc.fail(ctx, logger, inv, StepSubmit, err)
	}

	// ── 6. Persistir submitted y avanzar el contador del vendedor ────────────
	now := time.Now().UTC()
	inv.Status = entity.InvoiceStatusSubmitted
	inv.FBRInvoiceNumber = res.Response.InvoiceNumber
	inv.SubmissionResponse = res.Raw
	inv.ErrorDetails = ""
	inv.SubmittedAt = &now
	inv.UpdatedAt = now
	if err := uc.invoiceRepo.Save(ctx, inv); err != nil {
		logger.Error().Err(err).Str("fbr_number", inv.FBRInvoiceNumber).
			Msg("FBR aceptó la factura pero no se pudo guardar localmente")
		return nil, fmt.Errorf("%w: guardar factura enviada %s (FBR %s): %w",
			domain.ErrStore, inv.RefNo, inv.FBRInvoiceNumber, err)
	}

	// Se relee el vendedor: durante las llamadas al gateway pudo editarse su perfil.
	fresh, err := uc.currentSeller(ctx, seller.ID)
	if err == nil {
		advanceSequence(fresh, inv.Type)
		fresh.UpdatedAt = now
		err = uc.sellerRepo.Save(ctx, fresh)
	}
	if err != nil {
		logger.Error().Err(err).Msg("no se pudo avanzar el contador del vendedor")
		return nil, fmt.Errorf("%w: actualizar contador del vendedor: %w", domain.ErrStore, err)
	}

	logger.Info().Str("fbr_number", inv.FBRInvoiceNumber).Msg("factura aceptada por FBR")
	uc.record(ctx, logger, entity.LogLevelInfo,
		fmt.Sprintf("Factura %s enviada (FBR %s)", inv.RefNo, inv.FBRInvoiceNumber),
		map[string]string{"invoiceId": inv.ID, "state": entity.InvoiceStatusSubmitted})
	return inv, nil
}

func (uc *SubmissionUseCase) parties(ctx context.Context, inv *entity.Invoice) (*entity.Seller, *entity.Buyer, error) {
	var seller *entity.Seller
	var buyer *entity.Buyer
	var err error
	if inv.SellerID != "" {
		if seller, err = uc.sellerRepo.GetByID(ctx, inv.SellerID); err != nil {
			return nil, nil, fmt.Errorf("%w: obtener vendedor: %w", domain.ErrStore, err)
		}
	}
	if inv.BuyerID != "" {
		if buyer, err = uc.buyerRepo.GetByID(ctx, inv.BuyerID); err != nil {
			return nil, nil, fmt.Errorf("%w: obtener comprador: %w", domain.ErrStore, err)
		}
	}
	return seller, buyer, nil
}

func (uc *SubmissionUseCase) currentSeller(ctx context.Context, id string) (*entity.Seller, error) {
	seller, err := uc.sellerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: obtener vendedor: %w", domain.ErrStore, err)
	}
	if seller == nil {
		return nil, fmt.Errorf("%w: vendedor %s", domain.ErrNotFound, id)
	}
	return seller, nil
}

// fail deja la factura en borrador con el detalle del error y lo registra.
// Devuelve el error original.
func (uc *SubmissionUseCase) fail(ctx context.Context, logger zerolog.Logger, inv *entity.Invoice, step string, cause error) error {
	logger.Warn().Err(cause).Str("step", step).Msg("envío a FBR fallido")

	inv.Status = entity.InvoiceStatusDraft
	inv.ErrorDetails = cause.Error()
	inv.UpdatedAt = time.Now().UTC()
	if err := uc.invoiceRepo.Save(ctx, inv); err != nil {
		logger.Error().Err(err).Msg("no se pudo guardar el detalle del error")
		return errors.Join(cause, fmt.Errorf("%w: %w", domain.ErrStore, err))
	}
	uc.record(ctx, logger, entity.LogLevelError, fmt.Sprintf("Envío de %s fallido en %s: %v", inv.RefNo, step, cause),
		map[string]string{"invoiceId": inv.ID, "step": step, "state": entity.InvoiceStatusFailed})
	return cause
}

func (uc *SubmissionUseCase) record(ctx context.Context, logger zerolog.Logger, level, msg string, details map[string]string) {
	if uc.logRepo == nil {
		return
	}
	raw, _ := json.Marshal(details)
	entry := &entity.ErrorLog{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Level:     level,
		Message:   msg,
		Details:   raw,
	}
	if err := uc.logRepo.Append(ctx, entry); err != nil {
		logger.Error().Err(err).Msg("no se pudo registrar la actividad")
	}
}

func checkStatus(step string, res *ports.GatewayResult) error {
	code := res.Response.StatusCode()
	if code == pkgfbr.StatusCodeValid {
		return nil
	}
	return &domain.RejectionError{Step: step, StatusCode: code, Detail: res.Response.Detail()}
}

func nextSequence(s *entity.Seller, invoiceType string) int {
	if invoiceType == pkgfbr.InvoiceTypeDebitNote {
		return s.LastDebitNoteID + 1
	}
	return s.LastSaleInvoiceID + 1
}

func advanceSequence(s *entity.Seller, invoiceType string) {
	if invoiceType == pkgfbr.InvoiceTypeDebitNote {
		s.LastDebitNoteID++
		return
	}
	s.LastSaleInvoiceID++
}
