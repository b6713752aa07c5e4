// Package face implementa el puerto FaceVerifier contra el servicio de comparación facial
// (POST <base>/ai/facial/login/compare).
package face

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yeye/icms-api/internal/application/ports"
)

var _ ports.FaceVerifier = (*CompareClient)(nil)

// ComparePath ruta del endpoint de comparación en el servicio biométrico.
const ComparePath = "/ai/facial/login/compare"

// CompareClient cliente del comparador facial. Sin reintentos.
type CompareClient struct {
	endpoint   string
	timeout    time.Duration
	httpClient *http.Client
}

// NewCompareClient construye el cliente. timeout acota cada llamada completa.
func NewCompareClient(baseURL string, timeout time.Duration) *CompareClient {
	return &CompareClient{
		endpoint:   strings.TrimRight(baseURL, "/") + ComparePath,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type compareRequest struct {
	Username           string `json:"username"`
	FaceEmbedding      string `json:"faceEmbedding"`
	CandidateEmbedding string `json:"candidateEmbedding,omitempty"`
	FaceImage          string `json:"faceImage,omitempty"`
}

type compareResponse struct {
	Status     string   `json:"status"`
	Verified   *bool    `json:"verified"`
	Distance   *float64 `json:"distance"`
	Threshold  *float64 `json:"threshold"`
	Confidence *float64 `json:"confidence"`
	Liveness   *float64 `json:"liveness"`
	Message    string   `json:"message"`
	Detail     string   `json:"detail"` // cuerpo de error del servicio (4xx/5xx)
}

// Verify envía la firma registrada y la captura al servicio.
// 4xx (sin rostro en cámara, vivacidad fallida) es un rechazo; 5xx, transporte,
// timeout o cuerpo ilegible se devuelven como error.
func (c *CompareClient) Verify(ctx context.Context, in ports.FaceVerificationRequest) (*ports.FaceVerification, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(compareRequest{
		Username:           in.Username,
		FaceEmbedding:      in.StoredEmbedding,
		CandidateEmbedding: in.CandidateEmbedding,
		FaceImage:          in.FaceImage,
	})
	if err != nil {
		return nil, fmt.Errorf("face: serializar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("face: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("face: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("face: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, fmt.Errorf("face: leer respuesta: %w", err)
	}

	var out compareResponse
	decodeErr := json.Unmarshal(raw, &out)

	switch {
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("face: servicio HTTP %d: %s", resp.StatusCode, truncate(string(raw), 200))
	case resp.StatusCode >= 400:
		msg := out.Detail
		if decodeErr != nil || msg == "" {
			msg = truncate(string(raw), 200)
		}
		return &ports.FaceVerification{Status: "rejected", Verified: false, Message: msg}, nil
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("face: estado HTTP inesperado %d", resp.StatusCode)
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("face: respuesta ilegible: %w", decodeErr)
	}
	if out.Verified == nil {
		return nil, fmt.Errorf("face: respuesta sin campo verified")
	}
	return &ports.FaceVerification{
		Status:     out.Status,
		Verified:   *out.Verified,
		Distance:   out.Distance,
		Threshold:  out.Threshold,
		Confidence: out.Confidence,
		Liveness:   out.Liveness,
		Message:    out.Message,
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
