package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App        AppConfig
	HTTP       HTTPConfig
	JWT        JWTConfig
	Local      LocalConfig
	DB         DBConfig
	FeroShop   FeroShopConfig
	Cloudinary CloudinaryConfig
	Quote      QuoteConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
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

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// LocalConfig almacenamiento local (equivalente al localStorage del navegador).
type LocalConfig struct {
	SQLitePath  string
	BackupLimit int // cantidad de copias de seguridad conservadas por usuario
}

// DBConfig configuración del espejo remoto en PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	MirrorEnabled bool
	DatabaseURL   string
	Host          string
	Port          int
	User          string
	Password      string
	DBName        string
	SSLMode       string
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

// FeroShopConfig API remota de productos.
type FeroShopConfig struct {
	BaseURL      string
	ProductsPath string
	AllowedSlugs []string // vacío = remotecatalog.DefaultAllowedSlugs
	Timeout      time.Duration
}

// CloudinaryConfig subida de imágenes.
type CloudinaryConfig struct {
	BaseURL      string
	CloudName    string
	UploadPreset string
	Folder       string
	MaxBytes     int64
}

// QuoteConfig opciones de la oferta y sus exportaciones.
type QuoteConfig struct {
	PageSize    int
	CompanyName string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, HTTP_PORT, JWT_SECRET, FEROSHOP_URL, etc.
func Load() (*Config, error) {
	// .env se vuelca al entorno para que AutomaticEnv lo vea igual que a las variables del sistema.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "ofertare-mobila"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 720),
			Issuer:     getString(v, "JWT_ISSUER", "ofertare-mobila"),
		},
		Local: LocalConfig{
			SQLitePath:  getString(v, "LOCAL_DB_PATH", "data/local.db"),
			BackupLimit: getInt(v, "BACKUP_LIMIT", 10),
		},
		DB: DBConfig{
			MirrorEnabled: getBool(v, "REMOTE_MIRROR_ENABLED", false),
			DatabaseURL:   getString(v, "DATABASE_URL", ""),
			Host:          getString(v, "DB_HOST", "localhost"),
			Port:          getInt(v, "DB_PORT", 5432),
			User:          getString(v, "DB_USER", "postgres"),
			Password:      getString(v, "DB_PASSWORD", ""),
			DBName:        getString(v, "DB_NAME", "ofertare"),
			SSLMode:       getString(v, "DB_SSLMODE", "disable"),
		},
		FeroShop: FeroShopConfig{
			BaseURL:      getString(v, "FEROSHOP_URL", "https://feroshop.ro"),
			ProductsPath: getString(v, "FEROSHOP_PRODUCTS_PATH", "/api/products"),
			AllowedSlugs: getList(v, "FEROSHOP_ALLOWED_SLUGS"),
			Timeout:      time.Duration(getInt(v, "FEROSHOP_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		Cloudinary: CloudinaryConfig{
			BaseURL:      getString(v, "CLOUDINARY_URL", "https://api.cloudinary.com"),
			CloudName:    getString(v, "CLOUDINARY_CLOUD_NAME", ""),
			UploadPreset: getString(v, "CLOUDINARY_UPLOAD_PRESET", ""),
			Folder:       getString(v, "CLOUDINARY_FOLDER", "produse"),
			MaxBytes:     int64(getInt(v, "UPLOAD_MAX_MB", 10)) << 20,
		},
		Quote: QuoteConfig{
			PageSize:    getInt(v, "QUOTE_PAGE_SIZE", 12),
			CompanyName: getString(v, "COMPANY_NAME", "Ofertare Mobilă"),
		},
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET es obligatorio")
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
	if !v.IsSet(key) {
		return def
	}
	switch v.Get(key).(type) {
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

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

// getList lee una lista separada por comas ("accesorii,mobila").
func getList(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v.GetString(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
