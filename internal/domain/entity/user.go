package entity

import (
	"fmt"
	"time"
)

// Role clasificación cerrada de usuarios.
type Role string

// Roles válidos para User.
const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

// ParseRole valida un rol leído de la base o de la entrada.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleStudent, RoleStaff, RoleAdmin:
		return r, nil
	}
	return "", fmt.Errorf("rol desconocido %q", s)
}

// User representa a un estudiante o empleado del campus.
type User struct {
	ID             int64
	Username       string // único, inmutable
	PasswordHash   string // salida del codec de credenciales, nunca la contraseña plana
	Role           Role
	FaceEmbedding  string // vector facial serializado; vacío hasta el registro con rostro
	SourceImageURL string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasFace indica si el usuario tiene firma facial registrada.
func (u *User) HasFace() bool {
	return u != nil && u.FaceEmbedding != ""
}
