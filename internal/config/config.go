package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"petshop-crm/internal/platform/logger"
)

var ErrConfigNotPointer = errors.New("config must be a pointer to struct")

type Config struct {
	HTTP      HTTPConfig
	DB        DBConfig
	Log       LogConfig
	Auth      AuthConfig
	AI        AIConfig
	Marketing MarketingConfig

	// Zona horaria para límites de mes del dashboard.
	Timezone string `envconfig:"APP_TIMEZONE" default:"Local"`
	// Base pública para links de seguimiento (/public/grooming/{token}).
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:8080"`
}

type HTTPConfig struct {
	Port         string        `envconfig:"PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"45s"`
}

type DBConfig struct {
	// sqlite | postgres
	Driver string `envconfig:"DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"DB_DSN" default:"file:petshop.db" masked:"true"`
}

type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"text"`
	App    string `envconfig:"APP_NAME" default:"petshop-crm"`
}

type AuthConfig struct {
	// mock | session
	Mode          string        `envconfig:"AUTH_MODE" default:"mock"`
	SessionSecret string        `envconfig:"SESSION_SECRET" masked:"true"`
	SessionCookie string        `envconfig:"SESSION_COOKIE" default:"app_session_id"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"720h"`
	OwnerOpenID   string        `envconfig:"OWNER_OPEN_ID" masked:"true"`
}

type AIConfig struct {
	// none | openai_assistant | openai_chat | gemini
	Provider string `envconfig:"AI_PROVIDER" default:"none"`

	OpenAIAPIKey      string `envconfig:"OPENAI_API_KEY" masked:"true"`
	OpenAIBaseURL     string `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	OpenAIModel       string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	OpenAIAssistantID string `envconfig:"OPENAI_ASSISTANT_ID" masked:"true"`

	GeminiAPIKey string `envconfig:"GEMINI_API_KEY" masked:"true"`
	GeminiModel  string `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`

	Timeout         time.Duration `envconfig:"AI_TIMEOUT" default:"30s"`
	PollInterval    time.Duration `envconfig:"AI_POLL_INTERVAL" default:"500ms"`
	PollMaxInterval time.Duration `envconfig:"AI_POLL_MAX_INTERVAL" default:"2s"`
}

type MarketingConfig struct {
	WhatsAppCountryCode string `envconfig:"WHATSAPP_COUNTRY_CODE" default:"55"`
}

// Load lee un .env opcional (si path != "" y existe) y luego el entorno.
// Las variables ya presentes en el entorno tienen prioridad sobre el .env.
func Load(path string) (Config, error) {
	if strings.TrimSpace(path) != "" {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err != nil {
				return Config{}, fmt.Errorf("load %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.DB.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", c.DB.Driver)
	}
	switch c.Auth.Mode {
	case "mock":
	case "session":
		if strings.TrimSpace(c.Auth.SessionSecret) == "" {
			return errors.New("SESSION_SECRET is required when AUTH_MODE=session")
		}
	default:
		return fmt.Errorf("AUTH_MODE must be mock or session, got %q", c.Auth.Mode)
	}
	switch c.AI.Provider {
	case "none", "openai_assistant", "openai_chat", "gemini":
	default:
		return fmt.Errorf("AI_PROVIDER not supported: %q", c.AI.Provider)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

func (c Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Timezone)
	if tz == "" || tz == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("APP_TIMEZONE: %w", err)
	}
	return loc, nil
}

// LogMasked loguea la config; los campos con tag masked salen enmascarados.
func LogMasked(log logger.Logger, cfg any) error {
	v := reflect.ValueOf(cfg)
	t := reflect.TypeOf(cfg)
	if v.Kind() != reflect.Ptr {
		return ErrConfigNotPointer
	}
	v, t = v.Elem(), t.Elem()
	if v.Kind() != reflect.Struct {
		return ErrConfigNotPointer
	}

	log.Info("config", maskStructFields(v, t))
	return nil
}

func maskStructFields(v reflect.Value, t reflect.Type) map[string]any {
	out := make(map[string]any, v.NumField())
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		ft := t.Field(i)
		if !ft.IsExported() {
			continue
		}

		switch field.Kind() {
		case reflect.Struct:
			out[ft.Name] = maskStructFields(field, field.Type())
		case reflect.String:
			if ft.Tag.Get("masked") == "true" {
				out[ft.Name] = mask(field.String())
			} else {
				out[ft.Name] = field.String()
			}
		default:
			out[ft.Name] = field.Interface()
		}
	}
	return out
}

// mask deja solo el primer y último caracter.
func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 2 {
		return "****"
	}
	return string(s[0]) + "****" + string(s[len(s)-1])
}
