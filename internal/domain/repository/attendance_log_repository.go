package repository

import (
	"context"

	"github.com/yeye/icms-api/internal/domain/entity"
)

// AttendanceLogFilter filtros opcionales del listado de asistencia.
type AttendanceLogFilter struct {
	UserID *int64
}

// AttendanceLogRepository puerto de persistencia de registros de asistencia (solo alta y lectura).
type AttendanceLogRepository interface {
	Create(ctx context.Context, log *entity.AttendanceLog) error
	// List devuelve los registros ordenados por timestamp ascendente.
	List(ctx context.Context, filter AttendanceLogFilter) ([]*entity.AttendanceLog, error)
}
