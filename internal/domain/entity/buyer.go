package entity

import "time"

// Buyer contraparte de la factura.
type Buyer struct {
	ID                 string    `json:"id"`
	NTN                string    `json:"ntn"`
	BusinessName       string    `json:"businessName"`
	RegistrationType   string    `json:"registrationType"`
	RegistrationStatus string    `json:"registrationStatus"`
	Province           string    `json:"province"` // descripción, ej. "SINDH"
	Address            string    `json:"address"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}
