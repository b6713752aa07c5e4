// Package security implementa el codec de credenciales sobre bcrypt:
// sal aleatoria por usuario incluida en la propia credencial y coste configurable.
package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/yeye/icms-api/internal/application/ports"
)

var _ ports.CredentialCodec = (*BcryptCodec)(nil)

// BcryptCodec codec de contraseñas con bcrypt.
type BcryptCodec struct {
	cost int
}

// NewBcryptCodec construye el codec. Un coste fuera de rango usa bcrypt.DefaultCost.
func NewBcryptCodec(cost int) *BcryptCodec {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptCodec{cost: cost}
}

// Encode devuelve la credencial a persistir.
func (c *BcryptCodec) Encode(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

// Verify compara en tiempo constante la contraseña con la credencial almacenada.
func (c *BcryptCodec) Verify(credential, password string) bool {
	if credential == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(credential), []byte(password)) == nil
}
