package config

import (
	"encoding/xml"
	"io"
	"os"
	"sync"
)

var (
	cfg  *APIConfig
	once sync.Once
)

// APIConfig represents the root element.
type APIConfig struct {
	XMLName     xml.Name         `xml:"API"`
	RequestDump bool             `xml:"REQUEST_DUMP,attr"`
	Context     ContextConfig    `xml:"CONTEXT"`
	Security    SecurityConfig   `xml:"SECURITY"`
	Pagination  PaginationConfig `xml:"PAGINATION"`
	DB          DBConfig         `xml:"DB"`
	Storage     StorageConfig    `xml:"STORAGE"`
	RateLimit   RateLimitConfig  `xml:"RATE_LIMIT"`
}

// ContextConfig holds basic server settings.
type ContextConfig struct {
	Port     int    `xml:"PORT"`
	Host     string `xml:"HOST"`
	Path     string `xml:"PATH"`
	TimeZone string `xml:"TIME_ZONE"`
}

// SecurityConfig holds authentication and field-encryption settings.
// Secret material itself comes from the environment, never from XML;
// the *_ENV elements name the variables to read.
type SecurityConfig struct {
	SessionTimeout   int    `xml:"SESSION_TIMEOUT"`
	AccessSecretEnv  string `xml:"ACCESS_SECRET_ENV"`
	RefreshSecretEnv string `xml:"REFRESH_SECRET_ENV"`
	FieldKeyEnv      string `xml:"FIELD_KEY_ENV"`
}

// PaginationConfig holds pagination settings.
type PaginationConfig struct {
	PageSize int `xml:"PAGE_SIZE"`
}

// StorageConfig holds local file storage settings.
type StorageConfig struct {
	UploadDir     string `xml:"UPLOAD_DIR"`
	LogDir        string `xml:"LOG_DIR"`
	MaxImageBytes int64  `xml:"MAX_IMAGE_BYTES"`
	MaxImageWidth int    `xml:"MAX_IMAGE_WIDTH"`
}

// RateLimitConfig holds the public kiosk endpoint limiter settings.
type RateLimitConfig struct {
	RequestsPerSecond float64 `xml:"REQUESTS_PER_SECOND"`
	Burst             int     `xml:"BURST"`
}

// DBConfig holds database connection settings.
type DBConfig struct {
	Initialize bool         `xml:"INITIALIZE"`
	Host       string       `xml:"HOST"`
	Port       int          `xml:"PORT"`
	SSLMode    string       `xml:"SSL_MODE"`
	Names      DBNames      `xml:"NAMES"`
	Username   string       `xml:"USERNAME"`
	Password   DBPassword   `xml:"PASSWORD"`
	Pool       DBPoolConfig `xml:"POOL"`
}

// DBNames holds the names defined in the DB section.
type DBNames struct {
	ROLLCALL string `xml:"ROLLCALL,attr"`
}

// DBPassword holds password details. With TYPE="env" the value names an
// environment variable holding the real password.
type DBPassword struct {
	Type  string `xml:"TYPE,attr"`
	Value string `xml:",chardata"`
}

// DBPoolConfig holds database connection pooling settings.
type DBPoolConfig struct {
	MaxOpenConns    int `xml:"MAX_OPEN_CONNS"`
	MaxIdleConns    int `xml:"MAX_IDLE_CONNS"`
	ConnMaxLifetime int `xml:"CONN_MAX_LIFETIME"`
}

// ResolvedPassword returns the DB password, reading it from the
// environment when the TYPE attribute says so.
func (d *DBConfig) ResolvedPassword() string {
	if d.Password.Type == "env" {
		return os.Getenv(d.Password.Value)
	}
	return d.Password.Value
}

// LoadConfig loads and parses the XML configuration from the given file.
func LoadConfig(xmlPath string) (*APIConfig, error) {
	once.Do(func() {
		f, err := os.Open(xmlPath)
		if err != nil {
			return
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return
		}

		var newCfg APIConfig
		if err := xml.Unmarshal(data, &newCfg); err != nil {
			return
		}

		cfg = &newCfg
	})

	if cfg == nil {
		return nil, os.ErrInvalid
	}
	return cfg, nil
}

// GetConfig returns the loaded configuration.
func GetConfig() *APIConfig {
	return cfg
}
