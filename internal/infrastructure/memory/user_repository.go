// Package memory implementa los puertos de persistencia en memoria del proceso.
// Se usa con DB_DRIVER=memory y como base de los tests de casos de uso y handlers.
package memory

import (
	"context"
	"sync"

	"github.com/yeye/icms-api/internal/domain"
	"github.com/yeye/icms-api/internal/domain/entity"
	"github.com/yeye/icms-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo directorio de usuarios en memoria. Seguro para uso concurrente.
type UserRepo struct {
	mu         sync.RWMutex
	nextID     int64
	byID       map[int64]entity.User
	byUsername map[string]int64
}

// NewUserRepository construye un directorio vacío.
func NewUserRepository() *UserRepo {
	return &UserRepo{
		byID:       make(map[int64]entity.User),
		byUsername: make(map[string]int64),
	}
}

// Create asigna ID y persiste; la comprobación y el alta son atómicas bajo el mismo lock.
func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byUsername[user.Username]; ok {
		return domain.ErrUsernameTaken
	}
	r.nextID++
	user.ID = r.nextID
	r.byID[user.ID] = *user
	r.byUsername[user.Username] = user.ID
	return nil
}

func (r *UserRepo) FindByID(_ context.Context, id int64) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byUsername[username]
	if !ok {
		return nil, nil
	}
	u := r.byID[id]
	return &u, nil
}

func (r *UserRepo) CountByUsername(_ context.Context, username string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.byUsername[username]; ok {
		return 1, nil
	}
	return 0, nil
}

// Delete elimina un usuario; solo lo usan los tests para simular registros huérfanos.
func (r *UserRepo) Delete(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		delete(r.byUsername, u.Username)
		delete(r.byID, id)
	}
}
