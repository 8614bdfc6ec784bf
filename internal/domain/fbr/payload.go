package fbr

import (
	"strconv"
	"strings"

	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	pkgfbr "github.com/jhoicas/fbr-invoicing/pkg/fbr"
)

// InvoicePayload cuerpo JSON de validateinvoicedata / postinvoicedata.
type InvoicePayload struct {
	InvoiceType           string        `json:"invoiceType"`
	InvoiceDate           string        `json:"invoiceDate"`
	SellerNTNCNIC         string        `json:"sellerNTNCNIC"`
	SellerBusinessName    string        `json:"sellerBusinessName"`
	SellerProvince        string        `json:"sellerProvince"`
	SellerAddress         string        `json:"sellerAddress"`
	BuyerNTNCNIC          string        `json:"buyerNTNCNIC"`
	BuyerBusinessName     string        `json:"buyerBusinessName"`
	BuyerRegistrationType string        `json:"buyerRegistrationType"`
	BuyerProvince         string        `json:"buyerProvince"`
	BuyerAddress          string        `json:"buyerAddress"`
	InvoiceRefNo          string        `json:"invoiceRefNo"`
	Currency              string        `json:"currency"`
	ScenarioID            string        `json:"scenarioId,omitempty"` // solo sandbox
	Items                 []PayloadItem `json:"items"`
}

// PayloadItem línea del payload. Los montos viajan como números JSON.
type PayloadItem struct {
	ItemSNo                         string  `json:"itemSNo"`
	HSCode                          string  `json:"hsCode"`
	ProductDescription              string  `json:"productDescription"`
	Rate                            string  `json:"rate"` // "17.00%"
	UOM                             string  `json:"uoM"`
	Quantity                        float64 `json:"quantity"`
	ValueSalesExcludingST           float64 `json:"valueSalesExcludingST"`
	SalesTaxApplicable              float64 `json:"salesTaxApplicable"`
	SalesTaxWithheldAtSource        float64 `json:"salesTaxWithheldAtSource"`
	ExtraTax                        float64 `json:"extraTax"`
	FurtherTax                      float64 `json:"furtherTax"`
	TotalValues                     float64 `json:"totalValues"`
	SROScheduleNo                   string  `json:"sroScheduleNo"`
	FEDPayable                      float64 `json:"fedPayable"`
	Discount                        float64 `json:"discount"`
	SaleType                        string  `json:"saleType"`
	SROItemSerialNo                 string  `json:"sroItemSerialNo"`
	FixedNotifiedValueOrRetailPrice float64 `json:"fixedNotifiedValueOrRetailPrice"`
}

// BuildPayload arma el payload a partir de la factura y las partes. El escenario
// solo se incluye en sandbox.
func BuildPayload(inv *entity.Invoice, seller *entity.Seller, buyer *entity.Buyer, env string) InvoicePayload {
	p := InvoicePayload{
		InvoiceType:           inv.Type,
		InvoiceDate:           inv.Date,
		SellerNTNCNIC:         seller.NTN,
		SellerBusinessName:    seller.BusinessName,
		SellerProvince:        seller.Province,
		SellerAddress:         seller.Address,
		BuyerNTNCNIC:          buyer.NTN,
		BuyerBusinessName:     buyer.BusinessName,
		BuyerRegistrationType: buyer.RegistrationType,
		BuyerProvince:         buyer.Province,
		BuyerAddress:          buyer.Address,
		InvoiceRefNo:          inv.RefNo,
		Currency:              inv.Currency,
		Items:                 make([]PayloadItem, 0, len(inv.Items)),
	}
	if env == pkgfbr.EnvSandbox {
		p.ScenarioID = inv.ScenarioID
	}
	fed := float64(pkgfbr.ScenarioFEDPayable[inv.ScenarioID])

	for i, it := range inv.Items {
		saleType := it.SaleType
		if saleType == "" {
			saleType = "Services"
		}
		var sroSchedule, sroItem string
		if s, ok := it.SelectedSROSchedule(); ok {
			sroSchedule = s.Description
		}
		if s, ok := it.SelectedSROItem(); ok {
			sroItem = s.Description
		}
		p.Items = append(p.Items, PayloadItem{
			ItemSNo:               strconv.Itoa(i + 1),
			HSCode:                it.HSCode,
			ProductDescription:    it.Description,
			Rate:                  it.TaxRate.StringFixed(2) + "%",
			UOM:                   it.UOM,
			Quantity:              it.Quantity.InexactFloat64(),
			ValueSalesExcludingST: LineValue(it).InexactFloat64(),
			SalesTaxApplicable:    LineTax(it).InexactFloat64(),
			TotalValues:           LineTotal(it).InexactFloat64(),
			SROScheduleNo:         sroSchedule,
			FEDPayable:            fed,
			SaleType:              saleType,
			SROItemSerialNo:       sroItem,
		})
	}
	return p
}

// ValidationResponse bloque validationResponse de la respuesta del gateway.
type ValidationResponse struct {
	StatusCode      string       `json:"statusCode"`
	Status          string       `json:"status"`
	ErrorCode       string       `json:"errorCode"`
	Error           string       `json:"error"`
	InvoiceStatuses []ItemStatus `json:"invoiceStatuses"`
}

// ItemStatus resultado por línea.
type ItemStatus struct {
	ItemSNo    string `json:"itemSNo"`
	StatusCode string `json:"statusCode"`
	Status     string `json:"status"`
	InvoiceNo  string `json:"invoiceNo"`
	ErrorCode  string `json:"errorCode"`
	Error      string `json:"error"`
}

// GatewayResponse respuesta de validate/submit.
type GatewayResponse struct {
	InvoiceNumber      string              `json:"invoiceNumber"`
	Dated              string              `json:"dated"`
	ValidationResponse *ValidationResponse `json:"validationResponse"`
}

// StatusCode devuelve el statusCode de validationResponse ("" si no viene).
func (r *GatewayResponse) StatusCode() string {
	if r == nil || r.ValidationResponse == nil {
		return ""
	}
	return r.ValidationResponse.StatusCode
}

// Detail mensaje del servidor: error general o, en su defecto, los errores por línea.
func (r *GatewayResponse) Detail() string {
	if r == nil || r.ValidationResponse == nil {
		return "Validation failed"
	}
	vr := r.ValidationResponse
	if vr.Error != "" {
		return vr.Error
	}
	var parts []string
	for _, s := range vr.InvoiceStatuses {
		if s.Error != "" {
			parts = append(parts, "item "+s.ItemSNo+": "+s.Error)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, "; ")
	}
	return "Validation failed"
}
