// Package storage guarda las capturas faciales de los signin.
package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/yeye/icms-api/internal/application/ports"
)

var (
	_ ports.SnapshotStore = (*S3SnapshotStore)(nil)
	_ ports.SnapshotStore = PassthroughStore{}
)

// ErrInvalidImage la captura no es base64 ni data URL.
var ErrInvalidImage = errors.New("captura facial con formato inválido")

// isReference indica si la captura ya es una URL y no hace falta subirla.
func isReference(s string) bool {
	for _, p := range []string{"http://", "https://", "s3://"} {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// PassthroughStore se usa sin bucket configurado: conserva las referencias ya externas
// y descarta las imágenes en línea.
type PassthroughStore struct{}

func (PassthroughStore) Store(_ context.Context, _ int64, faceImage string) (string, error) {
	if isReference(faceImage) {
		return faceImage, nil
	}
	return "", nil
}

// decodeImage acepta base64 estándar o un data URL ("data:image/jpeg;base64,...").
// Devuelve los bytes, el content type y la extensión de archivo.
func decodeImage(s string) ([]byte, string, string, error) {
	contentType := "image/jpeg"
	payload := strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(payload, "data:"); ok {
		meta, data, found := strings.Cut(rest, ",")
		if !found || !strings.HasSuffix(meta, ";base64") {
			return nil, "", "", ErrInvalidImage
		}
		if ct := strings.TrimSuffix(meta, ";base64"); ct != "" {
			contentType = ct
		}
		payload = data
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		if raw, err = base64.RawStdEncoding.DecodeString(payload); err != nil {
			return nil, "", "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
		}
	}
	if len(raw) == 0 {
		return nil, "", "", ErrInvalidImage
	}
	return raw, contentType, extensionFor(contentType), nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
