package repository

import (
	"context"

	"github.com/yeye/icms-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (directorio de usuarios).
type UserRepository interface {
	// Create inserta el usuario y asigna su ID. Devuelve domain.ErrUsernameTaken si el
	// username ya existe, aunque la colisión ocurra entre la comprobación previa y el insert.
	Create(ctx context.Context, user *entity.User) error
	// FindByID y FindByUsername devuelven (nil, nil) si no hay coincidencia.
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	CountByUsername(ctx context.Context, username string) (int64, error)
}
