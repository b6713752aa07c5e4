// Package validation contiene los predicados de entrada para usuarios y contraseñas.
// El patrón de username también actúa como barrera contra inyección antes de consultar la base.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MinUsernameLength = 2
	MinPasswordLength = 4
	// MaxPasswordBytes límite de bcrypt; bytes adicionales se ignorarían en silencio.
	MaxPasswordBytes = 72
)

// Solo ideogramas CJK (U+4E00–U+9FA5), letras ASCII y dígitos ASCII.
var usernamePattern = regexp.MustCompile(`^[\x{4e00}-\x{9fa5}a-zA-Z0-9]+$`)

// IsBlank informa si s es vacío o solo espacios.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// AnyBlank informa si alguno de los campos es vacío o solo espacios.
func AnyBlank(fields ...string) bool {
	for _, f := range fields {
		if IsBlank(f) {
			return true
		}
	}
	return false
}

// ValidUsername longitud mínima (en caracteres) y conjunto de caracteres permitido.
func ValidUsername(username string) bool {
	return utf8.RuneCountInString(username) >= MinUsernameLength && usernamePattern.MatchString(username)
}

// ValidPassword longitud mínima en caracteres y máxima en bytes.
func ValidPassword(password string) bool {
	return utf8.RuneCountInString(password) >= MinPasswordLength && len(password) <= MaxPasswordBytes
}

// ValidateCredentials aplica todos los predicados de login; el primero que falla rechaza la operación.
func ValidateCredentials(username, password string) bool {
	if AnyBlank(username, password) {
		return false
	}
	return ValidUsername(username) && ValidPassword(password)
}
