package dto

import "time"

// AttendanceRecord fila del listado de asistencia. Username vacío si el usuario ya no existe.
type AttendanceRecord struct {
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
}

// CheckInEvent evento publicado tras un signin exitoso.
type CheckInEvent struct {
	Type       string    `json:"type"`
	LogID      string    `json:"log_id"`
	UserID     int64     `json:"user_id"`
	Username   string    `json:"username"`
	Timestamp  time.Time `json:"timestamp"`
	Confidence string    `json:"confidence"`
	Liveness   string    `json:"liveness"`
}

// CheckInEventType tipo del evento de signin.
const CheckInEventType = "attendance.checked_in"
