package dto

// SettingsRequest body para PATCH /api/settings (actualización parcial).
type SettingsRequest struct {
	DefaultEnvironment *string `json:"defaultEnvironment" validate:"omitempty,oneof=sandbox production"`
	DefaultCurrency    *string `json:"defaultCurrency" validate:"omitempty,len=3"`
	Theme              *string `json:"theme" validate:"omitempty,oneof=light dark system"`
	AutoSave           *bool   `json:"autoSave"`
	ToastPosition      *string `json:"toastPosition" validate:"omitempty,oneof=top-right top-left bottom-right bottom-left top-center bottom-center"`
}
