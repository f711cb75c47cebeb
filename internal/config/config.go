package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Variant string

const (
	VariantHybrid     Variant = "hybrid"
	VariantRelational Variant = "relational"
)

func ParseVariant(s string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case VariantHybrid:
		return VariantHybrid, nil
	case VariantRelational, "postgres", "postgres_only":
		return VariantRelational, nil
	}
	return "", fmt.Errorf("variante inconnue %q (attendu: hybrid, relational)", s)
}

// UsesDocuments indique si la variante s'appuie sur MongoDB.
func (v Variant) UsesDocuments() bool { return v == VariantHybrid }

type PostgresConfig struct {
	Host           string
	Port           int
	DBName         string
	User           string
	Password       string
	SSLMode        string
	ConnectTimeout time.Duration
}

type MongoConfig struct {
	Host     string
	Port     int
	DBName   string
	User     string
	Password string
	Timeout  time.Duration
}

// SourceConfig décrit où trouver l'extrait CSV : un répertoire local ou un bucket MinIO.
type SourceConfig struct {
	Dir string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOUseSSL    bool
	MinIOBucket    string
	MinIOPrefix    string
}

func (s SourceConfig) UsesMinIO() bool { return s.MinIOEndpoint != "" }

type RedisConfig struct {
	Host     string
	Password string
	LockTTL  time.Duration
}

func (r RedisConfig) Enabled() bool { return r.Host != "" }

type LoaderConfig struct {
	MaxRetries        int
	RetryDelay        time.Duration
	BatchSize         int
	OrderItemsRowMode bool
}

type LogConfig struct {
	Level  string
	Format string
}

// Config est construite une seule fois au démarrage puis passée explicitement
// au loader et à l'API.
type Config struct {
	Variant     Variant
	HTTPAddr    string
	CORSOrigins []string

	Postgres PostgresConfig
	Mongo    MongoConfig
	Source   SourceConfig
	Redis    RedisConfig
	Loader   LoaderConfig
	Log      LogConfig
}

// Load charge le fichier .env (s'il existe) puis lit les variables d'environnement.
func Load(envFile string) (Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Warn().Str("file", envFile).Msg("⚠️  Aucun fichier .env trouvé, on continue avec les variables d'environnement du système")
	} else {
		log.Info().Str("file", envFile).Msg("✅ Fichier .env chargé avec succès")
	}
	return FromEnv()
}

// FromEnv construit la configuration à partir des seules variables d'environnement.
func FromEnv() (Config, error) {
	var p parser

	variant, err := ParseVariant(getEnv("VARIANT", string(VariantHybrid)))
	if err != nil {
		return Config{}, err
	}

	defaultDB := "ecom_hybrid_db"
	if variant == VariantRelational {
		defaultDB = "ecom_only_db"
	}

	cfg := Config{
		Variant:     variant,
		HTTPAddr:    getEnv("HTTP_ADDR", "0.0.0.0:5000"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
		Postgres: PostgresConfig{
			Host:           getEnv("POSTGRES_HOST", "localhost"),
			Port:           p.int("POSTGRES_PORT", 5433),
			DBName:         getEnv("POSTGRES_DB", defaultDB),
			User:           getEnv("POSTGRES_USER", "user"),
			Password:       getEnv("POSTGRES_PASSWORD", "password"),
			SSLMode:        getEnv("POSTGRES_SSLMODE", "disable"),
			ConnectTimeout: p.duration("POSTGRES_CONNECT_TIMEOUT", 5*time.Second),
		},
		Mongo: MongoConfig{
			Host:     getEnv("MONGO_HOST", "localhost"),
			Port:     p.int("MONGO_PORT", 27017),
			DBName:   getEnv("MONGO_DB", "ecom_hybrid_db"),
			User:     os.Getenv("MONGO_USER"),
			Password: os.Getenv("MONGO_PASSWORD"),
			Timeout:  p.duration("MONGO_TIMEOUT", 5*time.Second),
		},
		Source: SourceConfig{
			Dir:            getEnv("DATA_DIR", "./data"),
			MinIOEndpoint:  os.Getenv("MINIO_ENDPOINT"),
			MinIOAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			MinIOSecretKey: os.Getenv("MINIO_SECRET_KEY"),
			MinIOUseSSL:    p.bool("MINIO_USE_SSL", false),
			MinIOBucket:    getEnv("MINIO_BUCKET", "olist"),
			MinIOPrefix:    os.Getenv("MINIO_PREFIX"),
		},
		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Password: os.Getenv("REDIS_PASSWORD"),
			LockTTL:  p.duration("LOADER_LOCK_TTL", 30*time.Minute),
		},
		Loader: LoaderConfig{
			MaxRetries:        p.int("LOADER_MAX_RETRIES", 15),
			RetryDelay:        p.duration("LOADER_RETRY_DELAY", 5*time.Second),
			BatchSize:         p.int("LOADER_BATCH_SIZE", 1000),
			OrderItemsRowMode: p.bool("ORDER_ITEMS_ROW_ISOLATION", false),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}
	if p.err != nil {
		return Config{}, p.err
	}

	if cfg.Loader.MaxRetries < 1 {
		return Config{}, fmt.Errorf("LOADER_MAX_RETRIES doit être >= 1 (reçu %d)", cfg.Loader.MaxRetries)
	}
	if cfg.Loader.BatchSize < 1 {
		return Config{}, fmt.Errorf("LOADER_BATCH_SIZE doit être >= 1 (reçu %d)", cfg.Loader.BatchSize)
	}
	return cfg, nil
}

// WithVariant change de variante ; la base Postgres suit si elle n'a pas été fixée explicitement.
func (c Config) WithVariant(v Variant) Config {
	if c.Variant == v {
		return c
	}
	c.Variant = v
	if os.Getenv("POSTGRES_DB") == "" {
		if v == VariantRelational {
			c.Postgres.DBName = "ecom_only_db"
		} else {
			c.Postgres.DBName = "ecom_hybrid_db"
		}
	}
	return c
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parser garde la première erreur de conversion rencontrée.
type parser struct {
	err error
}

func (p *parser) int(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(k, v, err)
		return def
	}
	return n
}

func (p *parser) bool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(k, v, err)
		return def
	}
	return b
}

func (p *parser) duration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		// Un entier nu est lu en secondes, comme retry_delay = 5.
		if n, nerr := strconv.Atoi(v); nerr == nil {
			return time.Duration(n) * time.Second
		}
		p.fail(k, v, err)
		return def
	}
	return d
}

func (p *parser) fail(k, v string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("variable %s invalide (%q): %w", k, v, err)
	}
}
