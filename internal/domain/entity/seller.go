package entity

import "time"

// Seller perfil del emisor: NTN, datos del negocio, credenciales del gateway y contadores de numeración.
type Seller struct {
	ID                 string    `json:"id"`
	NTN                string    `json:"ntn"` // NTN (7 dígitos) o CNIC (13 dígitos)
	BusinessName       string    `json:"businessName"`
	BusinessActivity   string    `json:"businessActivity"`
	Sector             string    `json:"sector"`
	ScenarioIDs        []string  `json:"scenarioIds,omitempty"` // escenarios habilitados en sandbox
	Province           string    `json:"province"`
	Address            string    `json:"address"`
	SandboxToken       string    `json:"sandboxToken"`
	ProductionToken    string    `json:"productionToken,omitempty"`
	RegistrationStatus string    `json:"registrationStatus"`
	RegistrationType   string    `json:"registrationType"`
	LastSaleInvoiceID  int       `json:"lastSaleInvoiceId"`
	LastDebitNoteID    int       `json:"lastDebitNoteId"`
	PreferredMode      string    `json:"preferredMode,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// TokenFor devuelve el token del ambiente indicado (vacío si no existe).
func (s *Seller) TokenFor(env string) string {
	if env == "production" {
		return s.ProductionToken
	}
	return s.SandboxToken
}

// Credentials credenciales para una llamada al gateway.
type Credentials struct {
	Token       string
	Environment string // "sandbox" | "production"
}

// CredentialsFor arma las credenciales del vendedor para el ambiente.
func (s *Seller) CredentialsFor(env string) Credentials {
	return Credentials{Token: s.TokenFor(env), Environment: env}
}
