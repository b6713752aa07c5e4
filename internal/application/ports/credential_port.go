package ports

// CredentialCodec transforma contraseñas en credenciales almacenables de una sola vía.
// Cada credencial lleva su propia sal, por lo que la comparación se hace con Verify
// y nunca comparando dos salidas de Encode.
type CredentialCodec interface {
	Encode(password string) (string, error)
	Verify(credential, password string) bool
}
