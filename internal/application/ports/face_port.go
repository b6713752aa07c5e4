package ports

import "context"

// FaceVerificationRequest datos enviados al servicio biométrico.
type FaceVerificationRequest struct {
	Username           string
	StoredEmbedding    string // firma registrada del usuario
	CandidateEmbedding string // firma recién capturada (opcional)
	FaceImage          string // imagen recién capturada (opcional)
}

// FaceVerification decisión del servicio biométrico.
// Los punteros son nil cuando el servicio no devuelve el campo.
type FaceVerification struct {
	Status     string
	Verified   bool
	Distance   *float64
	Threshold  *float64
	Confidence *float64
	Liveness   *float64
	Message    string
}

// FaceVerifier puerto de salida hacia el comparador facial externo.
// Un rechazo del servicio se devuelve como Verified=false sin error; los fallos de
// transporte, timeouts y respuestas ilegibles se devuelven como error.
type FaceVerifier interface {
	Verify(ctx context.Context, req FaceVerificationRequest) (*FaceVerification, error)
}
