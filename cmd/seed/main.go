// seed carga vendedores y compradores desde un JSON al almacén configurado, o genera
// el hash bcrypt de la frase del operador.
//
// Uso:
//
//	go run ./cmd/seed parties.json
//	go run ./cmd/seed hash "<frase>"
//
// Formato del JSON: {"sellers": [SellerRequest...], "buyers": [BuyerRequest...]}.
// Los NTN ya existentes se omiten.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/jhoicas/fbr-invoicing/internal/application/auth"
	"github.com/jhoicas/fbr-invoicing/internal/application/dto"
	"github.com/jhoicas/fbr-invoicing/internal/application/party"
	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/infrastructure/bootstrap"
	"github.com/jhoicas/fbr-invoicing/internal/infrastructure/cache"
	"github.com/jhoicas/fbr-invoicing/pkg/config"
	"github.com/jhoicas/fbr-invoicing/pkg/logger"
)

type fixture struct {
	Sellers []dto.SellerRequest `json:"sellers"`
	Buyers  []dto.BuyerRequest  `json:"buyers"`
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: seed <archivo.json> | seed hash <frase>")
		os.Exit(2)
	}
	if os.Args[1] == "hash" {
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "uso: seed hash <frase>")
			os.Exit(2)
		}
		hash, err := auth.HashPassphrase(os.Args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "generar hash: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	raw, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatal().Err(err).Msg("leer archivo")
	}
	var fx fixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		log.Fatal().Err(err).Msg("decodificar JSON")
	}

	ctx := context.Background()
	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacén local")
	}
	defer store.Close()

	// Sin gateway: el seed no verifica registros.
	uc := party.NewPartyUseCase(store.Sellers, store.Buyers, store.Invoices, nil, cache.NewLocker(), log.Component("seed"))

	var created, skipped int
	for _, in := range fx.Sellers {
		switch _, err := uc.SaveSeller(ctx, "", in); {
		case err == nil:
			created++
		case errors.Is(err, domain.ErrDuplicate):
			skipped++
		default:
			log.Error().Err(err).Str("ntn", in.NTN).Msg("vendedor inválido")
		}
	}
	for _, in := range fx.Buyers {
		switch _, err := uc.SaveBuyer(ctx, "", in); {
		case err == nil:
			created++
		case errors.Is(err, domain.ErrDuplicate):
			skipped++
		default:
			log.Error().Err(err).Str("ntn", in.NTN).Msg("comprador inválido")
		}
	}
	log.Info().Int("creados", created).Int("omitidos", skipped).Msg("seed completado")
}
