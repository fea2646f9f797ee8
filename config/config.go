package config

import "time"

type Config struct {
	Web      Web
	Upstream Upstream
	Cors     Cors
	Session  Session
	DB       DB
	Redis    Redis
	Cache    Cache
	Rate     Rate
	Support  Support
	Features Features
}

type Web struct {
	Address         string        `conf:"default:0.0.0.0:8000"`
	ReadTimeout     time.Duration `conf:"default:5s"`
	WriteTimeout    time.Duration `conf:"default:10s"`
	IdleTimeout     time.Duration `conf:"default:120s"`
	ShutdownTimeout time.Duration `conf:"default:20s"`
}

// Upstream describes the REST backend that owns courses, programs,
// enrollments and users.
type Upstream struct {
	BaseURL       string        `conf:"default:http://localhost:8013"`
	Timeout       time.Duration `conf:"default:10s"`
	SessionCookie string        `conf:"default:sessionid"`
	CSRFCookie    string        `conf:"default:csrftoken"`
}

type Cors struct {
	Origin string
}

type Session struct {
	Lifetime   time.Duration `conf:"default:24h"`
	CookieName string        `conf:"default:portal_session"`
	Secure     bool          `conf:"default:false"`
}

// DB is optional. When Host is empty sessions are kept in memory.
type DB struct {
	User         string `conf:"default:postgres"`
	Password     string `conf:"default:postgres,mask"`
	Host         string
	Name         string `conf:"default:portal"`
	MaxIdleConns int    `conf:"default:2"`
	MaxOpenConns int    `conf:"default:10"`
	DisableTLS   bool   `conf:"default:true"`
}

// Redis is optional. When Host is empty the shared catalog cache is disabled.
type Redis struct {
	Host     string
	Port     int    `conf:"default:6379"`
	Password string `conf:"mask"`
	DB       int    `conf:"default:0"`
}

type Cache struct {
	QueryTTL   time.Duration `conf:"default:30s"`
	CatalogTTL time.Duration `conf:"default:5m"`
}

type Rate struct {
	Burst  int           `conf:"default:5"`
	RPS    float64       `conf:"default:1"`
	Expiry time.Duration `conf:"default:10m"`
}

type Support struct {
	Email string `conf:"default:support@example.com"`
}

type Features struct {
	AddlProfileFields bool `conf:"default:false"`
}
