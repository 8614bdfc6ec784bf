package entity

import (
	"encoding/json"
	"time"
)

// Niveles del registro de actividad.
const (
	LogLevelError   = "error"
	LogLevelWarning = "warning"
	LogLevelInfo    = "info"
)

// ErrorLog entrada del registro local de errores/actividad.
type ErrorLog struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Level     string          `json:"level"`
	Message   string          `json:"message"`
	Details   json.RawMessage `json:"details,omitempty"`
}
