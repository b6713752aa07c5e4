package ports

import (
	"context"
	"time"

	"github.com/yeye/icms-api/internal/application/dto"
)

// SnapshotStore guarda la captura facial del signin y devuelve la referencia a persistir.
type SnapshotStore interface {
	Store(ctx context.Context, userID int64, faceImage string) (string, error)
}

// AttendancePublisher notifica signins a otros sistemas. Sus fallos no invalidan el signin.
type AttendancePublisher interface {
	PublishCheckIn(ctx context.Context, event dto.CheckInEvent) error
}

// AttendanceReportRenderer genera el documento descargable del listado de asistencia.
type AttendanceReportRenderer interface {
	RenderAttendance(ctx context.Context, records []dto.AttendanceRecord, generatedAt time.Time) ([]byte, error)
}
