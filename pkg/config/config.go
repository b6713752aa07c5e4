package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App      AppConfig
	DB       DBConfig
	HTTP     HTTPConfig
	CORS     CORSConfig
	Session  SessionConfig
	Face     FaceConfig
	Security SecurityConfig
	Snapshot SnapshotConfig
	AMQP     AMQPConfig
	Docs     DocsConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	Driver      string // postgres | memory
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	AutoMigrate bool
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host          string
	Port          int
	AuthRateLimit int // peticiones por minuto e IP en login y signin; 0 = sin límite
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CORSConfig orígenes permitidos para el front-end (con credenciales).
type CORSConfig struct {
	AllowedOrigins []string
}

// SessionConfig estado de login basado en cookie de sesión.
type SessionConfig struct {
	CookieName   string
	Expiration   time.Duration
	CookieSecure bool
}

// FaceConfig servicio externo de comparación facial.
type FaceConfig struct {
	CompareURL string
	Timeout    time.Duration
}

// SecurityConfig parámetros del hash de contraseñas.
type SecurityConfig struct {
	BcryptCost int
}

// SnapshotConfig almacenamiento S3 de las capturas de signin. Bucket vacío = deshabilitado.
type SnapshotConfig struct {
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	PublicURL string
}

// Enabled indica si hay bucket configurado.
func (c SnapshotConfig) Enabled() bool { return c.Bucket != "" }

// AMQPConfig publicación de eventos de asistencia. URL vacía = deshabilitado.
type AMQPConfig struct {
	URL             string
	AttendanceQueue string
}

// Enabled indica si hay broker configurado.
func (c AMQPConfig) Enabled() bool { return c.URL != "" }

// DocsConfig documento OpenAPI servido en /docs.
type DocsConfig struct {
	SwaggerPath string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, FACE_COMPARE_URL, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "icms-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			Driver:      strings.ToLower(getString(v, "DB_DRIVER", "postgres")),
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "icms"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			AutoMigrate: getBool(v, "DB_AUTO_MIGRATE", true),
		},
		HTTP: HTTPConfig{
			Host:          getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:          getInt(v, "HTTP_PORT", 8090),
			AuthRateLimit: getInt(v, "HTTP_AUTH_RATE_LIMIT", 10),
		},
		CORS: CORSConfig{
			AllowedOrigins: getList(v, "CORS_ALLOWED_ORIGINS", []string{
				"http://localhost:8085",
				"http://localhost:8087",
			}),
		},
		Session: SessionConfig{
			CookieName:   getString(v, "SESSION_COOKIE_NAME", "JSESSIONID"),
			Expiration:   time.Duration(getInt(v, "SESSION_EXPIRATION_MINUTES", 30)) * time.Minute,
			CookieSecure: getBool(v, "SESSION_COOKIE_SECURE", false),
		},
		Face: FaceConfig{
			CompareURL: strings.TrimRight(getString(v, "FACE_COMPARE_URL", "http://localhost:8000"), "/"),
			Timeout:    time.Duration(getInt(v, "FACE_COMPARE_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Security: SecurityConfig{
			BcryptCost: getInt(v, "PASSWORD_BCRYPT_COST", 10),
		},
		Snapshot: SnapshotConfig{
			Bucket:    getString(v, "SNAPSHOT_S3_BUCKET", ""),
			Endpoint:  getString(v, "SNAPSHOT_S3_ENDPOINT", ""),
			Region:    getString(v, "SNAPSHOT_S3_REGION", "us-east-1"),
			AccessKey: getString(v, "SNAPSHOT_S3_ACCESS_KEY", ""),
			SecretKey: getString(v, "SNAPSHOT_S3_SECRET_KEY", ""),
			PublicURL: strings.TrimRight(getString(v, "SNAPSHOT_S3_PUBLIC_URL", ""), "/"),
		},
		AMQP: AMQPConfig{
			URL:             getString(v, "AMQP_URL", ""),
			AttendanceQueue: getString(v, "AMQP_ATTENDANCE_QUEUE", "attendance.checkins"),
		},
		Docs: DocsConfig{
			SwaggerPath: getString(v, "DOCS_SWAGGER_PATH", "./docs/swagger.json"),
		},
	}

	if len(cfg.CORS.AllowedOrigins) == 0 {
		return nil, fmt.Errorf("config: CORS_ALLOWED_ORIGINS no puede estar vacío")
	}
	for _, o := range cfg.CORS.AllowedOrigins {
		if o == "*" {
			return nil, fmt.Errorf("config: CORS_ALLOWED_ORIGINS no admite \"*\" con credenciales")
		}
	}
	if cfg.Face.Timeout <= 0 {
		return nil, fmt.Errorf("config: FACE_COMPARE_TIMEOUT_SECONDS debe ser positivo")
	}
	if cfg.DB.Driver != "postgres" && cfg.DB.Driver != "memory" {
		return nil, fmt.Errorf("config: DB_DRIVER desconocido %q", cfg.DB.Driver)
	}
	if cfg.Session.CookieName == "" {
		return nil, fmt.Errorf("config: SESSION_COOKIE_NAME vacío")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

// getList acepta una lista separada por comas; ignora entradas vacías.
func getList(v *viper.Viper, key string, def []string) []string {
	if !v.IsSet(key) {
		return def
	}
	var out []string
	for _, s := range strings.Split(v.GetString(key), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
