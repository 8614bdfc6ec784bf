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
	Store    StoreConfig
	DB       DBConfig
	Redis    RedisConfig
	Auth     AuthConfig
	HTTP     HTTPConfig
	FBR      FBRConfig
	Resolver ResolverConfig
	Catalog  CatalogConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// StoreConfig selecciona el backend de persistencia local.
type StoreConfig struct {
	Driver     string // "sqlite" (por defecto), "postgres" o "memory"
	SQLitePath string
}

// DBConfig configuración de PostgreSQL (solo si Store.Driver = "postgres").
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
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

// RedisConfig configuración opcional de Redis (cache de catálogos y lock de envío).
// Addr vacío = se usan las implementaciones en memoria.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled indica si hay Redis configurado.
func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// AuthConfig configuración del acceso del operador.
// Si JWTSecret está vacío la API queda sin autenticación (uso local).
type AuthConfig struct {
	JWTSecret      string
	PassphraseHash string // bcrypt
	Expiration     int    // minutos
	Issuer         string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// FBRConfig configuración del gateway de facturación digital.
type FBRConfig struct {
	BaseURL    string
	Timeout    time.Duration // por petición; el gateway no define uno propio
	RateLimit  float64       // peticiones por segundo
	RateBurst  int
	AnnexureID int
}

// ResolverConfig configuración del resolvedor de campos dependientes y de las
// sesiones de edición que lo usan.
type ResolverConfig struct {
	Debounce    time.Duration
	SessionTTL  time.Duration // inactividad tras la que se cierra una sesión
	MaxSessions int
}

// CatalogConfig configuración de la cache de catálogos.
type CatalogConfig struct {
	TTL  time.Duration
	Size int
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, STORE_DRIVER, FBR_BASE_URL, etc.
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

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "fbr-invoicing"),
			LogLevel: getString(v, "APP_LOG_LEVEL", "info"),
		},
		Store: StoreConfig{
			Driver:     strings.ToLower(getString(v, "STORE_DRIVER", "sqlite")),
			SQLitePath: getString(v, "STORE_SQLITE_PATH", "fbr_invoice_app.db"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "fbr_invoicing"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", ""),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		Auth: AuthConfig{
			JWTSecret:      getString(v, "AUTH_JWT_SECRET", ""),
			PassphraseHash: getString(v, "AUTH_PASSPHRASE_HASH", ""),
			Expiration:     getInt(v, "AUTH_EXPIRATION_MINUTES", 480),
			Issuer:         getString(v, "AUTH_ISSUER", "fbr-invoicing"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "127.0.0.1"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		FBR: FBRConfig{
			BaseURL:    strings.TrimRight(getString(v, "FBR_BASE_URL", "https://gw.fbr.gov.pk"), "/"),
			Timeout:    getDuration(v, "FBR_TIMEOUT", 30*time.Second),
			RateLimit:  getFloat(v, "FBR_RATE_LIMIT", 10),
			RateBurst:  getInt(v, "FBR_RATE_BURST", 5),
			AnnexureID: getInt(v, "FBR_ANNEXURE_ID", 3),
		},
		Resolver: ResolverConfig{
			Debounce:    getDuration(v, "RESOLVER_DEBOUNCE", 2*time.Second),
			SessionTTL:  getDuration(v, "RESOLVER_SESSION_TTL", 2*time.Hour),
			MaxSessions: getInt(v, "RESOLVER_MAX_SESSIONS", 1000),
		},
		Catalog: CatalogConfig{
			TTL:  getDuration(v, "CATALOG_TTL", 6*time.Hour),
			Size: getInt(v, "CATALOG_CACHE_SIZE", 256),
		},
	}

	switch cfg.Store.Driver {
	case "sqlite", "postgres", "memory":
	default:
		return nil, fmt.Errorf("STORE_DRIVER desconocido %q (usar sqlite|postgres|memory)", cfg.Store.Driver)
	}
	if cfg.FBR.Timeout <= 0 {
		return nil, fmt.Errorf("FBR_TIMEOUT debe ser positivo")
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
			n, err := strconv.Atoi(v.GetString(key))
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

func getFloat(v *viper.Viper, key string, def float64) float64 {
	if v.IsSet(key) {
		f, err := strconv.ParseFloat(v.GetString(key), 64)
		if err != nil {
			return def
		}
		return f
	}
	return def
}

// getDuration acepta "30s", "2m" o un entero en milisegundos.
func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if !v.IsSet(key) {
		return def
	}
	raw := strings.TrimSpace(v.GetString(key))
	if ms, err := strconv.Atoi(raw); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}
