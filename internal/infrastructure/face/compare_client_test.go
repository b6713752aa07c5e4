package face_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeye/icms-api/internal/application/ports"
	"github.com/yeye/icms-api/internal/infrastructure/face"
)

func newServer(t *testing.T, h http.HandlerFunc) *face.CompareClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return face.NewCompareClient(srv.URL+"/", 2*time.Second)
}

var req = ports.FaceVerificationRequest{
	Username:        "zhang3",
	StoredEmbedding: "0.1,0.2,0.3",
	FaceImage:       "data:image/jpeg;base64,AAAA",
}

func TestVerify_Verificado(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, face.ComparePath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "zhang3", body["username"])
		assert.Equal(t, "0.1,0.2,0.3", body["faceEmbedding"])
		assert.Equal(t, "data:image/jpeg;base64,AAAA", body["faceImage"])
		_, hasCandidate := body["candidateEmbedding"]
		assert.False(t, hasCandidate, "candidateEmbedding vacío no se envía")

		_, _ = w.Write([]byte(`{"status":"success","verified":true,"distance":0.21,"threshold":0.4,"message":"ok"}`))
	})

	res, err := client.Verify(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.Verified)
	require.NotNil(t, res.Distance)
	assert.InDelta(t, 0.21, *res.Distance, 1e-9)
	assert.Nil(t, res.Confidence)
	assert.Equal(t, "success", res.Status)
}

func TestVerify_NoCoincide(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","verified":false,"distance":0.7,"threshold":0.4}`))
	})
	res, err := client.Verify(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, res.Verified)
}

func TestVerify_4xxEsRechazo(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"detail":"活体检测失败"}`))
	})
	res, err := client.Verify(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, res.Verified)
	assert.Equal(t, "活体检测失败", res.Message)
}

func TestVerify_ErroresDelServicio(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"5xx": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"detail":"boom"}`))
		},
		"cuerpo vacio": func(w http.ResponseWriter, r *http.Request) {},
		"null": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`null`))
		},
		"sin verified": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"success"}`))
		},
		"no json": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>bad gateway</html>`))
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			client := newServer(t, h)
			res, err := client.Verify(context.Background(), req)
			assert.Error(t, err)
			assert.Nil(t, res)
		})
	}
}

func TestVerify_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	client := face.NewCompareClient(srv.URL, 50*time.Millisecond)
	start := time.Now()
	res, err := client.Verify(context.Background(), req)
	assert.Error(t, err)
	assert.Nil(t, res)
	assert.Less(t, time.Since(start), time.Second)
}

func TestVerify_ServicioCaido(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	res, err := face.NewCompareClient(url, time.Second).Verify(context.Background(), req)
	assert.Error(t, err)
	assert.Nil(t, res)
}
