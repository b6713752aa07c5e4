package dto

import "github.com/yeye/icms-api/internal/domain/entity"

// RegisterRequest entrada para registro: la contraseña viaja en texto y se transforma en el use case.
type RegisterRequest struct {
	Username      string `json:"username" validate:"required,min=2"`
	Password      string `json:"password" validate:"required,min=4"`
	CheckPassword string `json:"checkPassword" validate:"required,min=4"`
	FaceEmbedding string `json:"faceEmbedding" validate:"required"`
}

// LoginRequest entrada para login con verificación facial.
type LoginRequest struct {
	Username      string `json:"username" validate:"required,min=2"`
	Password      string `json:"password" validate:"required,min=4"`
	FaceEmbedding string `json:"faceEmbedding"`
}

// SigninRequest entrada para el signin de asistencia.
type SigninRequest struct {
	Username      string `json:"username" validate:"required"`
	FaceImage     string `json:"faceImage"`
	FaceEmbedding string `json:"faceEmbedding"`
}

// SafetyUser vista pública del usuario: sin credencial ni firma facial.
type SafetyUser struct {
	ID       int64  `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// ToSafetyUser proyecta la entidad a su vista pública.
func ToSafetyUser(u *entity.User) *SafetyUser {
	if u == nil {
		return nil
	}
	return &SafetyUser{ID: u.ID, Username: u.Username, Role: string(u.Role)}
}

// LogoutResponse cuerpo de respuesta de logout.
type LogoutResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
