package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AttendanceLog registro de un signin exitoso. Se crea una vez y no se modifica.
type AttendanceLog struct {
	ID              int64
	LogID           string // UUID de negocio
	UserID          int64
	Timestamp       time.Time
	SnapshotURL     string
	ConfidenceScore decimal.Decimal // [0,1]
	LivenessScore   decimal.Decimal // [0,1]
}
