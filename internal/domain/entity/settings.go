package entity

import "time"

// AppSettings preferencias globales (singleton).
type AppSettings struct {
	DefaultEnvironment string    `json:"defaultEnvironment"` // sandbox | production
	DefaultCurrency    string    `json:"defaultCurrency"`
	Theme              string    `json:"theme"` // light | dark | system
	AutoSave           bool      `json:"autoSave"`
	ToastPosition      string    `json:"toastPosition"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// DefaultSettings valores iniciales.
func DefaultSettings() AppSettings {
	return AppSettings{
		DefaultEnvironment: "sandbox",
		DefaultCurrency:    "PKR",
		Theme:              "system",
		AutoSave:           true,
		ToastPosition:      "top-right",
	}
}

// ValidToastPositions posiciones admitidas para las notificaciones.
var ValidToastPositions = map[string]bool{
	"top-right": true, "top-left": true, "bottom-right": true,
	"bottom-left": true, "top-center": true, "bottom-center": true,
}

// ValidThemes temas admitidos.
var ValidThemes = map[string]bool{"light": true, "dark": true, "system": true}
