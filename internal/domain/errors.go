package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Cada motivo de rechazo es distinguible para handlers y tests.
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrUserNotFound           = errors.New("usuario no encontrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrPasswordMismatch       = errors.New("las contraseñas no coinciden")
	ErrUsernameTaken          = errors.New("el nombre de usuario ya está registrado")
	ErrInvalidCredentials     = errors.New("usuario o contraseña incorrectos")
	ErrFaceNotEnrolled        = errors.New("el usuario no tiene rostro registrado")
	ErrFaceMismatch           = errors.New("verificación facial rechazada")
	ErrFaceServiceUnavailable = errors.New("servicio de verificación facial no disponible")
)
