package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/yeye/icms-api/internal/domain/entity"
	"github.com/yeye/icms-api/internal/domain/repository"
)

var _ repository.AttendanceLogRepository = (*AttendanceLogRepo)(nil)

// AttendanceLogRepo registros de asistencia en memoria (solo alta y lectura).
type AttendanceLogRepo struct {
	mu     sync.RWMutex
	nextID int64
	logs   []entity.AttendanceLog
}

// NewAttendanceLogRepository construye un almacén vacío.
func NewAttendanceLogRepository() *AttendanceLogRepo {
	return &AttendanceLogRepo{}
}

func (r *AttendanceLogRepo) Create(_ context.Context, log *entity.AttendanceLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	log.ID = r.nextID
	r.logs = append(r.logs, *log)
	return nil
}

func (r *AttendanceLogRepo) List(_ context.Context, filter repository.AttendanceLogFilter) ([]*entity.AttendanceLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.AttendanceLog, 0, len(r.logs))
	for i := range r.logs {
		l := r.logs[i]
		if filter.UserID != nil && l.UserID != *filter.UserID {
			continue
		}
		out = append(out, &l)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID < out[j].ID
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

// Len número de registros almacenados.
func (r *AttendanceLogRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.logs)
}
