package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yeye/icms-api/internal/domain"
	"github.com/yeye/icms-api/internal/domain/entity"
	"github.com/yeye/icms-api/internal/domain/repository"
)

var _ repository.AttendanceLogRepository = (*AttendanceLogRepo)(nil)

// AttendanceLogRepo registros de asistencia sobre PostgreSQL. Solo INSERT y SELECT.
type AttendanceLogRepo struct {
	pool *pgxpool.Pool
}

// NewAttendanceLogRepository construye el adaptador.
func NewAttendanceLogRepository(pool *pgxpool.Pool) *AttendanceLogRepo {
	return &AttendanceLogRepo{pool: pool}
}

// Create inserta el registro y asigna su ID.
func (r *AttendanceLogRepo) Create(ctx context.Context, log *entity.AttendanceLog) error {
	query := `
		INSERT INTO attendance_log (log_id, user_id, timestamp, snapshot_url, confidence_score, liveness_score)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.pool.QueryRow(ctx, query,
		log.LogID, log.UserID, log.Timestamp, log.SnapshotURL, log.ConfidenceScore, log.LivenessScore,
	).Scan(&log.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("insert attendance log: %w", err)
	}
	return nil
}

// List devuelve los registros ordenados por timestamp ascendente (id como desempate).
func (r *AttendanceLogRepo) List(ctx context.Context, filter repository.AttendanceLogFilter) ([]*entity.AttendanceLog, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`
		SELECT id, log_id::text, user_id, timestamp, snapshot_url, confidence_score, liveness_score
		FROM attendance_log`)
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		sb.WriteString(" WHERE user_id = $1")
	}
	sb.WriteString(" ORDER BY timestamp ASC, id ASC")

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.AttendanceLog, 0)
	for rows.Next() {
		var l entity.AttendanceLog
		if err := rows.Scan(&l.ID, &l.LogID, &l.UserID, &l.Timestamp, &l.SnapshotURL,
			&l.ConfidenceScore, &l.LivenessScore); err != nil {
			return nil, fmt.Errorf("scan attendance log: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
