package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yeye/icms-api/internal/application/attendance"
	"github.com/yeye/icms-api/internal/application/auth"
	"github.com/yeye/icms-api/internal/application/dto"
	"github.com/yeye/icms-api/internal/application/ports"
	"github.com/yeye/icms-api/internal/infrastructure/memory"
	"github.com/yeye/icms-api/internal/infrastructure/messaging"
	"github.com/yeye/icms-api/internal/infrastructure/pdf"
	"github.com/yeye/icms-api/internal/infrastructure/security"
	"github.com/yeye/icms-api/internal/infrastructure/storage"
	apphttp "github.com/yeye/icms-api/internal/interfaces/http"
	"github.com/yeye/icms-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	cookieName = "JSESSIONID"
	testOrigin = "http://localhost:8085"
)

type stubFace struct {
	verified bool
	err      error
}

func (s *stubFace) Verify(context.Context, ports.FaceVerificationRequest) (*ports.FaceVerification, error) {
	if s.err != nil {
		return nil, s.err
	}
	d := 0.2
	return &ports.FaceVerification{Status: "success", Verified: s.verified, Distance: &d}, nil
}

type testEnv struct {
	app   *fiber.App
	face  *stubFace
	users *memory.UserRepo
	logs  *memory.AttendanceLogRepo
}

func newTestEnv(t *testing.T, rateLimit int) *testEnv {
	t.Helper()
	env := &testEnv{
		face:  &stubFace{verified: true},
		users: memory.NewUserRepository(),
		logs:  memory.NewAttendanceLogRepository(),
	}
	log := logger.Nop()
	authUC := auth.NewAuthUseCase(env.users, env.logs, security.NewBcryptCodec(bcrypt.MinCost),
		env.face, storage.PassthroughStore{}, messaging.NopPublisher{}, log)
	attendanceUC := attendance.NewAttendanceUseCase(env.users, env.logs,
		pdf.NewAttendanceReportRenderer("Asistencia", time.UTC), log)

	env.app = fiber.New()
	apphttp.Router(env.app, apphttp.RouterDeps{
		AuthUC:         authUC,
		AttendanceUC:   attendanceUC,
		Sessions:       apphttp.NewSessions(apphttp.SessionConfig{CookieName: cookieName, Expiration: time.Minute}),
		AllowedOrigins: []string{testOrigin},
		AuthRateLimit:  rateLimit,
		Log:            log,
	})
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func readBody(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return b
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == cookieName && c.Value != "" {
			return c
		}
	}
	t.Fatalf("respuesta sin cookie %s", cookieName)
	return nil
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(readBody(t, resp), &e))
	return e.Code
}

var zhang3 = map[string]string{
	"username": "zhang3", "password": "1234", "checkPassword": "1234", "faceEmbedding": "[0.1,0.2]",
}

func (e *testEnv) register(t *testing.T) int64 {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/user/register", zhang3, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var id int64
	require.NoError(t, json.Unmarshal(readBody(t, resp), &id))
	return id
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_DevuelveIDYLuegoConflicto(t *testing.T) {
	env := newTestEnv(t, 0)
	id := env.register(t)
	assert.Positive(t, id)

	resp := env.do(t, http.MethodPost, "/user/register", zhang3, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "USERNAME_TAKEN", errorCode(t, resp))
}

func TestRegister_Rechazos(t *testing.T) {
	env := newTestEnv(t, 0)
	cases := []struct {
		body map[string]string
		code string
	}{
		{map[string]string{"username": "z", "password": "1234", "checkPassword": "1234", "faceEmbedding": "x"}, "VALIDATION"},
		{map[string]string{"username": "zhang3", "password": "1234", "checkPassword": "4321", "faceEmbedding": "x"}, "PASSWORD_MISMATCH"},
		{map[string]string{"username": "zh@ng", "password": "1234", "checkPassword": "1234", "faceEmbedding": "x"}, "VALIDATION"},
	}
	for _, tc := range cases {
		resp := env.do(t, http.MethodPost, "/user/register", tc.body, nil)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, tc.code, errorCode(t, resp))
	}

	req := httptest.NewRequest(http.MethodPost, "/user/register", bytes.NewReader([]byte("{no es json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", errorCode(t, resp))
}

// ──────────────────────────────────────────────────────────────────────────────
// Login, usuario actual y logout
// ──────────────────────────────────────────────────────────────────────────────

func TestLoginCurrentLogout(t *testing.T) {
	env := newTestEnv(t, 0)
	id := env.register(t)

	resp := env.do(t, http.MethodPost, "/user/login",
		map[string]string{"username": "zhang3", "password": "1234", "faceEmbedding": "[0.1,0.2]"}, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	cookie := sessionCookie(t, resp)
	assert.True(t, cookie.HttpOnly)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(readBody(t, resp), &raw))
	assert.Equal(t, float64(id), raw["userId"])
	assert.Equal(t, "zhang3", raw["username"])
	assert.Equal(t, "student", raw["role"])
	assert.NotContains(t, raw, "password")
	assert.NotContains(t, raw, "passwordHash")
	assert.NotContains(t, raw, "faceEmbedding")

	resp = env.do(t, http.MethodGet, "/user/current", nil, cookie)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var current dto.SafetyUser
	require.NoError(t, json.Unmarshal(readBody(t, resp), &current))
	assert.Equal(t, dto.SafetyUser{ID: id, Username: "zhang3", Role: "student"}, current)

	resp = env.do(t, http.MethodPost, "/user/logout", nil, cookie)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var out dto.LogoutResponse
	require.NoError(t, json.Unmarshal(readBody(t, resp), &out))
	assert.Equal(t, 0, out.Code)

	resp = env.do(t, http.MethodGet, "/user/current", nil, cookie)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "null", string(readBody(t, resp)))

	// Idempotente, también sin cookie.
	resp = env.do(t, http.MethodPost, "/user/logout", nil, cookie)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = env.do(t, http.MethodPost, "/user/logout", nil, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestCurrent_SinSesion(t *testing.T) {
	env := newTestEnv(t, 0)
	resp := env.do(t, http.MethodGet, "/user/current", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "null", string(readBody(t, resp)))
}

func TestLogin_Rechazos(t *testing.T) {
	env := newTestEnv(t, 0)
	env.register(t)

	resp := env.do(t, http.MethodPost, "/user/login", map[string]string{"username": "", "password": ""}, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/user/login", map[string]string{"username": "zhang3", "password": "9999"}, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, resp))

	env.face.verified = false
	resp = env.do(t, http.MethodPost, "/user/login", map[string]string{"username": "zhang3", "password": "1234"}, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "FACE_MISMATCH", errorCode(t, resp))
	for _, c := range resp.Cookies() {
		assert.NotEqual(t, cookieName, c.Name, "un login rechazado no abre sesión")
	}

	env.face.err = context.DeadlineExceeded
	resp = env.do(t, http.MethodPost, "/user/login", map[string]string{"username": "zhang3", "password": "1234"}, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "FACE_SERVICE_UNAVAILABLE", errorCode(t, resp))
}

func TestLogin_RateLimit(t *testing.T) {
	env := newTestEnv(t, 2)
	body := map[string]string{"username": "nadie", "password": "1234"}
	for i := 0; i < 2; i++ {
		resp := env.do(t, http.MethodPost, "/user/login", body, nil)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	}
	resp := env.do(t, http.MethodPost, "/user/login", body, nil)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "TOO_MANY_REQUESTS", errorCode(t, resp))
}

// ──────────────────────────────────────────────────────────────────────────────
// Signin y asistencia
// ──────────────────────────────────────────────────────────────────────────────

func TestSignin_RegistraAsistenciaYSesion(t *testing.T) {
	env := newTestEnv(t, 0)
	id := env.register(t)

	resp := env.do(t, http.MethodPost, "/user/signin", map[string]string{"username": "zhang3", "faceImage": "https://cdn.example/f.jpg"}, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	cookie := sessionCookie(t, resp)
	assert.Equal(t, 1, env.logs.Len())

	resp = env.do(t, http.MethodGet, "/user/current", nil, cookie)
	var current dto.SafetyUser
	require.NoError(t, json.Unmarshal(readBody(t, resp), &current))
	assert.Equal(t, id, current.ID)

	resp = env.do(t, http.MethodGet, "/attendance/records", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var records []dto.AttendanceRecord
	require.NoError(t, json.Unmarshal(readBody(t, resp), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "zhang3", records[0].Username)

	resp = env.do(t, http.MethodGet, "/attendance/records?username=li4", nil, nil)
	assert.Equal(t, "[]", string(readBody(t, resp)))
}

func TestSignin_Rechazos(t *testing.T) {
	env := newTestEnv(t, 0)
	env.register(t)

	resp := env.do(t, http.MethodPost, "/user/signin", map[string]string{"username": " "}, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/user/signin", map[string]string{"username": "wang5"}, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "USER_NOT_FOUND", errorCode(t, resp))

	env.face.verified = false
	resp = env.do(t, http.MethodPost, "/user/signin", map[string]string{"username": "zhang3"}, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Zero(t, env.logs.Len())
}

func TestRecordsPDF(t *testing.T) {
	env := newTestEnv(t, 0)
	env.register(t)
	env.do(t, http.MethodPost, "/user/signin", map[string]string{"username": "zhang3"}, nil)

	resp := env.do(t, http.MethodGet, "/attendance/records/pdf", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
	assert.True(t, bytes.HasPrefix(readBody(t, resp), []byte("%PDF")))
}

func TestCORS_OrigenPermitidoConCredenciales(t *testing.T) {
	env := newTestEnv(t, 0)
	req := httptest.NewRequest(http.MethodOptions, "/user/login", nil)
	req.Header.Set("Origin", testOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, testOrigin, resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodOptions, "/user/login", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}
