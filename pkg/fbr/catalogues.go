// Package fbr contiene constantes y formatos del gateway de facturación digital
// de la FBR (Pakistán): fechas, NTN/CNIC, números de referencia y credenciales.
package fbr

// =============================================================================
// Ambientes del gateway
// =============================================================================

const (
	EnvSandbox    = "sandbox"
	EnvProduction = "production"
)

// ValidEnvironment indica si env es un ambiente conocido.
func ValidEnvironment(env string) bool {
	return env == EnvSandbox || env == EnvProduction
}

// =============================================================================
// Respuestas del gateway
// =============================================================================

// StatusCodeValid es el statusCode que devuelve validate/post cuando el documento es aceptado.
const StatusCodeValid = "00"

// StatusCodeInvalid código usado cuando la consulta de registro falla o no es concluyente.
const StatusCodeInvalid = "01"

// Estados de registro devueltos por /dist/v1/statl.
const (
	RegistrationActive   = "Active"
	RegistrationInactive = "In-Active"
)

// RegistrationUnregistered tipo por defecto si Get_Reg_Type no responde.
const RegistrationUnregistered = "unregistered"

// =============================================================================
// Documentos
// =============================================================================

const (
	InvoiceTypeSale      = "Sale Invoice"
	InvoiceTypeDebitNote = "Debit Note"
)

// ValidInvoiceType indica si t es un tipo de documento admitido.
func ValidInvoiceType(t string) bool {
	return t == InvoiceTypeSale || t == InvoiceTypeDebitNote
}

// DefaultAnnexureID anexo usado para la consulta HS_UOM.
const DefaultAnnexureID = 3

// DefaultUOM unidad de respaldo si HS_UOM no responde.
const DefaultUOM = "PCS"

// DefaultCurrency moneda por defecto.
const DefaultCurrency = "PKR"

// DefaultProvinceCode código usado cuando la provincia del comprador no aparece en el catálogo.
const DefaultProvinceCode = 1

// ScenarioFEDPayable FED fijo exigido por escenarios de prueba del sandbox.
var ScenarioFEDPayable = map[string]float64{
	"SN018": 50,
}
