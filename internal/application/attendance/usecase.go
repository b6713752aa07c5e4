package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/yeye/icms-api/internal/application/dto"
	"github.com/yeye/icms-api/internal/application/ports"
	"github.com/yeye/icms-api/internal/domain/repository"
	"github.com/yeye/icms-api/pkg/logger"
)

// AttendanceUseCase consulta y exporta los registros de asistencia.
type AttendanceUseCase struct {
	userRepo repository.UserRepository
	logRepo  repository.AttendanceLogRepository
	renderer ports.AttendanceReportRenderer
	log      *logger.Logger
	now      func() time.Time
}

// NewAttendanceUseCase construye el caso de uso de asistencia.
func NewAttendanceUseCase(
	userRepo repository.UserRepository,
	logRepo repository.AttendanceLogRepository,
	renderer ports.AttendanceReportRenderer,
	log *logger.Logger,
) *AttendanceUseCase {
	return &AttendanceUseCase{
		userRepo: userRepo,
		logRepo:  logRepo,
		renderer: renderer,
		log:      log.Component("attendance"),
		now:      time.Now,
	}
}

// ListRecords devuelve todos los registros (o los de username si no está vacío) en orden cronológico.
// Un registro cuyo usuario ya no se puede resolver se devuelve con username vacío.
func (uc *AttendanceUseCase) ListRecords(ctx context.Context, username string) ([]dto.AttendanceRecord, error) {
	var filter repository.AttendanceLogFilter
	if username != "" {
		user, err := uc.userRepo.FindByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return []dto.AttendanceRecord{}, nil
		}
		filter.UserID = &user.ID
	}

	logs, err := uc.logRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listar asistencia: %w", err)
	}

	names := make(map[int64]string)
	out := make([]dto.AttendanceRecord, 0, len(logs))
	for _, l := range logs {
		name, ok := names[l.UserID]
		if !ok {
			name = uc.resolveUsername(ctx, l.UserID, l.LogID)
			names[l.UserID] = name
		}
		out = append(out, dto.AttendanceRecord{Username: name, Timestamp: l.Timestamp})
	}
	return out, nil
}

func (uc *AttendanceUseCase) resolveUsername(ctx context.Context, userID int64, logID string) string {
	user, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		uc.log.Warn().Err(err).Int64("user_id", userID).Str("log_id", logID).Msg("no se pudo resolver el usuario del registro")
		return ""
	}
	if user == nil {
		uc.log.Warn().Int64("user_id", userID).Str("log_id", logID).Msg("registro de asistencia sin usuario")
		return ""
	}
	return user.Username
}

// ExportPDF genera el listado en PDF. Devuelve el documento y el nombre de archivo sugerido.
func (uc *AttendanceUseCase) ExportPDF(ctx context.Context, username string) ([]byte, string, error) {
	records, err := uc.ListRecords(ctx, username)
	if err != nil {
		return nil, "", err
	}
	generatedAt := uc.now()
	doc, err := uc.renderer.RenderAttendance(ctx, records, generatedAt)
	if err != nil {
		return nil, "", fmt.Errorf("generar reporte: %w", err)
	}
	name := "asistencia-" + generatedAt.Format("20060102-150405")
	if username != "" {
		name += "-" + username
	}
	return doc, name + ".pdf", nil
}
