// Package party gestiona vendedores y compradores y la verificación de su registro en FBR.
package party

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/fbr-invoicing/internal/application/dto"
	"github.com/jhoicas/fbr-invoicing/internal/application/ports"
	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/domain/repository"
	pkgfbr "github.com/jhoicas/fbr-invoicing/pkg/fbr"
)

// PartyUseCase CRUD de vendedores/compradores con NTN normalizado y único.
type PartyUseCase struct {
	sellerRepo  repository.SellerRepository
	buyerRepo   repository.BuyerRepository
	invoiceRepo repository.InvoiceRepository
	gw          ports.FBRGateway
	locker      ports.SubmissionLocker
	log         zerolog.Logger
}

// NewPartyUseCase construye el caso de uso.
func NewPartyUseCase(
	sellerRepo repository.SellerRepository,
	buyerRepo repository.BuyerRepository,
	invoiceRepo repository.InvoiceRepository,
	gw ports.FBRGateway,
	locker ports.SubmissionLocker,
	log zerolog.Logger,
) *PartyUseCase {
	return &PartyUseCase{sellerRepo: sellerRepo, buyerRepo: buyerRepo, invoiceRepo: invoiceRepo, gw: gw, locker: locker, log: log}
}

// ─── Vendedores ───────────────────────────────────────────────────────────────

// SaveSeller crea (id vacío) o actualiza un vendedor. Los contadores de numeración
// y el estado de registro no se modifican desde aquí; la actualización espera a que
// termine cualquier envío en curso del vendedor.
func (uc *PartyUseCase) SaveSeller(ctx context.Context, id string, in dto.SellerRequest) (*entity.Seller, error) {
	ntn, err := pkgfbr.NormalizeNTN(in.NTN)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	now := time.Now().UTC()
	seller := &entity.Seller{ID: uuid.New().String(), CreatedAt: now}
	if id != "" {
		release, err := uc.lockSeller(ctx, id)
		if err != nil {
			return nil, err
		}
		defer release()
		existing, err := uc.sellerRepo.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrStore, err)
		}
		if existing == nil {
			return nil, fmt.Errorf("%w: vendedor %s", domain.ErrNotFound, id)
		}
		seller = existing
	}
	seller.NTN = ntn
	seller.BusinessName = strings.TrimSpace(in.BusinessName)
	seller.BusinessActivity = in.BusinessActivity
	seller.Sector = in.Sector
	seller.ScenarioIDs = in.ScenarioIDs
	seller.Province = strings.ToUpper(strings.TrimSpace(in.Province))
	seller.Address = in.Address
	seller.SandboxToken = strings.TrimSpace(in.SandboxToken)
	seller.ProductionToken = strings.TrimSpace(in.ProductionToken)
	seller.PreferredMode = in.PreferredMode
	seller.UpdatedAt = now

	if err := uc.sellerRepo.Save(ctx, seller); err != nil {
		return nil, storeErr(err)
	}
	return seller, nil
}

// GetSeller vendedor por id; domain.ErrNotFound si no existe.
func (uc *PartyUseCase) GetSeller(ctx context.Context, id string) (*entity.Seller, error) {
	s, err := uc.sellerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStore, err)
	}
	if s == nil {
		return nil, fmt.Errorf("%w: vendedor %s", domain.ErrNotFound, id)
	}
	return s, nil
}

// ListSellers todos los vendedores.
func (uc *PartyUseCase) ListSellers(ctx context.Context) ([]*entity.Seller, error) {
	list, err := uc.sellerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStore, err)
	}
	return list, nil
}

// DeleteSeller elimina un vendedor sin facturas asociadas.
func (uc *PartyUseCase) DeleteSeller(ctx context.Context, id string) error {
	if _, err := uc.GetSeller(ctx, id); err != nil {
		return err
	}
	if err := uc.ensureUnreferenced(ctx, repository.InvoiceFilter{SellerID: id}, "vendedor"); err != nil {
		return err
	}
	if err := uc.sellerRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStore, err)
	}
	return nil
}

// VerifySeller consulta el registro del vendedor con sus propias credenciales y lo guarda.
func (uc *PartyUseCase) VerifySeller(ctx context.Context, id, env string) (*entity.Seller, error) {
	seller, err := uc.GetSeller(ctx, id)
	if err != nil {
		return nil, err
	}
	res, err := uc.Verify(ctx, seller.CredentialsFor(env), seller.NTN)
	if err != nil {
		return nil, err
	}

	release, err := uc.lockSeller(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()
	if seller, err = uc.GetSeller(ctx, id); err != nil {
		return nil, err
	}
	seller.RegistrationStatus = res.RegistrationStatus
	seller.RegistrationType = res.RegistrationType
	seller.UpdatedAt = time.Now().UTC()
	if err := uc.sellerRepo.Save(ctx, seller); err != nil {
		return nil, storeErr(err)
	}
	return seller, nil
}

// ─── Compradores ──────────────────────────────────────────────────────────────

// SaveBuyer crea (id vacío) o actualiza un comprador.
func (uc *PartyUseCase) SaveBuyer(ctx context.Context, id string, in dto.BuyerRequest) (*entity.Buyer, error) {
	ntn, err := pkgfbr.NormalizeNTN(in.NTN)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	now := time.Now().UTC()
	buyer := &entity.Buyer{ID: uuid.New().String(), CreatedAt: now}
	if id != "" {
		existing, err := uc.buyerRepo.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrStore, err)
		}
		if existing == nil {
			return nil, fmt.Errorf("%w: comprador %s", domain.ErrNotFound, id)
		}
		buyer = existing
	}
	buyer.NTN = ntn
	buyer.BusinessName = strings.TrimSpace(in.BusinessName)
	if in.RegistrationType != "" {
		buyer.RegistrationType = in.RegistrationType
	}
	buyer.Province = strings.ToUpper(strings.TrimSpace(in.Province))
	buyer.Address = in.Address
	buyer.UpdatedAt = now

	if err := uc.buyerRepo.Save(ctx, buyer); err != nil {
		return nil, storeErr(err)
	}
	return buyer, nil
}

// GetBuyer comprador por id; domain.ErrNotFound si no existe.
func (uc *PartyUseCase) GetBuyer(ctx context.Context, id string) (*entity.Buyer, error) {
	b, err := uc.buyerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStore, err)
	}
	if b == nil {
		return nil, fmt.Errorf("%w: comprador %s", domain.ErrNotFound, id)
	}
	return b, nil
}

// ListBuyers todos los compradores.
func (uc *PartyUseCase) ListBuyers(ctx context.Context) ([]*entity.Buyer, error) {
	list, err := uc.buyerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStore, err)
	}
	return list, nil
}

// DeleteBuyer elimina un comprador sin facturas asociadas.
func (uc *PartyUseCase) DeleteBuyer(ctx context.Context, id string) error {
	if _, err := uc.GetBuyer(ctx, id); err != nil {
		return err
	}
	if err := uc.ensureUnreferenced(ctx, repository.InvoiceFilter{BuyerID: id}, "comprador"); err != nil {
		return err
	}
	if err := uc.buyerRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStore, err)
	}
	return nil
}

// ─── Verificación ─────────────────────────────────────────────────────────────

// Verify consulta estado y tipo de registro en paralelo. Un fallo en cualquiera de las
// dos consultas degrada a "In-Active" / "unregistered" con código "01"; solo se devuelve
// error si la entrada es inválida o el contexto se cancela.
func (uc *PartyUseCase) Verify(ctx context.Context, cred entity.Credentials, rawNTN string) (*dto.VerifyResponse, error) {
	ntn, err := pkgfbr.NormalizeNTN(rawNTN)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if cred.Token == "" {
		return nil, fmt.Errorf("%w: el vendedor no tiene token de %s", domain.ErrInvalidInput, cred.Environment)
	}

	out := &dto.VerifyResponse{
		NTN:                ntn,
		RegistrationStatus: pkgfbr.RegistrationInactive,
		StatusCode:         pkgfbr.StatusCodeInvalid,
		RegistrationType:   pkgfbr.RegistrationUnregistered,
		TypeStatusCode:     pkgfbr.StatusCodeInvalid,
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		st, err := uc.gw.RegistrationStatus(gctx, cred, ntn, time.Now())
		if err != nil {
			uc.log.Warn().Err(err).Str("ntn", ntn).Msg("consulta de estado de registro fallida")
			return nil
		}
		out.RegistrationStatus, out.StatusCode = st.Status, st.StatusCode
		return nil
	})
	g.Go(func() error {
		rt, err := uc.gw.RegistrationType(gctx, cred, ntn)
		if err != nil {
			uc.log.Warn().Err(err).Str("ntn", ntn).Msg("consulta de tipo de registro fallida")
			return nil
		}
		out.RegistrationType, out.TypeStatusCode = rt.Type, rt.StatusCode
		return nil
	})
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// VerifyWithSeller verifica un NTN usando las credenciales del vendedor indicado.
func (uc *PartyUseCase) VerifyWithSeller(ctx context.Context, sellerID, env, ntn string) (*dto.VerifyResponse, error) {
	seller, err := uc.GetSeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	return uc.Verify(ctx, seller.CredentialsFor(env), ntn)
}

// lockSeller comparte la clave "seller:<id>" con la numeración de envíos.
func (uc *PartyUseCase) lockSeller(ctx context.Context, id string) (func(), error) {
	if uc.locker == nil {
		return func() {}, nil
	}
	return uc.locker.AcquireWait(ctx, "seller:"+id)
}

func (uc *PartyUseCase) ensureUnreferenced(ctx context.Context, f repository.InvoiceFilter, what string) error {
	refs, err := uc.invoiceRepo.List(ctx, f)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStore, err)
	}
	if len(refs) > 0 {
		return fmt.Errorf("%w: el %s tiene %d factura(s) asociada(s)", domain.ErrConflict, what, len(refs))
	}
	return nil
}

func storeErr(err error) error {
	if errors.Is(err, domain.ErrDuplicate) {
		return fmt.Errorf("%w: ya existe un registro con ese NTN", domain.ErrDuplicate)
	}
	return fmt.Errorf("%w: %w", domain.ErrStore, err)
}
