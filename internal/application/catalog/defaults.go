package catalog

import "github.com/jhoicas/fbr-invoicing/internal/domain/entity"

// Catálogos incorporados cuando no hay token o el gateway no responde.

func defaultProvinces() []entity.Province {
	return []entity.Province{
		{Code: 2, Description: "BALOCHISTAN"},
		{Code: 4, Description: "AZAD JAMMU AND KASHMIR"},
		{Code: 5, Description: "CAPITAL TERRITORY"},
		{Code: 6, Description: "KHYBER PAKHTUNKHWA"},
		{Code: 7, Description: "PUNJAB"},
		{Code: 8, Description: "SINDH"},
		{Code: 9, Description: "GILGIT BALTISTAN"},
	}
}

func defaultTransactionTypes() []entity.TransactionType {
	return []entity.TransactionType{
		{ID: 18, Description: "Services"},
		{ID: 75, Description: "Goods at standard rate (default)"},
		{ID: 81, Description: "Exempt goods"},
	}
}
