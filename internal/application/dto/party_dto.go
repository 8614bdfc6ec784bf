package dto

// SellerRequest body para POST/PUT /api/sellers.
type SellerRequest struct {
	NTN              string   `json:"ntn" validate:"required,min=7,max=20"`
	BusinessName     string   `json:"businessName" validate:"required,max=200"`
	BusinessActivity string   `json:"businessActivity" validate:"omitempty,max=100"`
	Sector           string   `json:"sector" validate:"omitempty,max=100"`
	ScenarioIDs      []string `json:"scenarioIds" validate:"omitempty,dive,required"`
	Province         string   `json:"province" validate:"required"`
	Address          string   `json:"address" validate:"omitempty,max=300"`
	SandboxToken     string   `json:"sandboxToken" validate:"omitempty"`
	ProductionToken  string   `json:"productionToken" validate:"omitempty"`
	PreferredMode    string   `json:"preferredMode" validate:"omitempty,oneof=sandbox production"`
}

// BuyerRequest body para POST/PUT /api/buyers.
type BuyerRequest struct {
	NTN              string `json:"ntn" validate:"required,min=7,max=20"`
	BusinessName     string `json:"businessName" validate:"required,max=200"`
	RegistrationType string `json:"registrationType" validate:"omitempty,max=50"`
	Province         string `json:"province" validate:"required"`
	Address          string `json:"address" validate:"omitempty,max=300"`
}

// VerifyRequest body para POST /api/buyers/verify.
type VerifyRequest struct {
	NTN         string `json:"ntn" validate:"required"`
	SellerID    string `json:"sellerId" validate:"required"`
	Environment string `json:"environment" validate:"omitempty,oneof=sandbox production"`
}

// VerifyResponse estado y tipo de registro de un NTN/CNIC.
type VerifyResponse struct {
	NTN                string `json:"ntn"`
	RegistrationStatus string `json:"registrationStatus"`
	StatusCode         string `json:"statusCode"`
	RegistrationType   string `json:"registrationType"`
	TypeStatusCode     string `json:"typeStatusCode"`
}
