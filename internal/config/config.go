package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	AppName   = "moltmon"
	EnvPrefix = "MOLTMON"
)

type Config struct {
	// DataDir vacío = MOLTMON_DATA_DIR o ./.moltmon/v0
	DataDir  string         `mapstructure:"data_dir"`
	DevMode  bool           `mapstructure:"dev_mode"`
	Log      LogConfig      `mapstructure:"log"`
	Web      WebConfig      `mapstructure:"web"`
	Terminal TerminalConfig `mapstructure:"terminal"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Journal  JournalConfig  `mapstructure:"journal"`
	NATS     NATSConfig     `mapstructure:"nats"`
	Remote   RemoteConfig   `mapstructure:"remote"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	// File recibe una copia JSON de cada línea; en modo terminal es el único destino.
	File string `mapstructure:"file"`
}

type WebConfig struct {
	Port int `mapstructure:"port"`
	// MaxPortAttempts: si el puerto está ocupado se prueban los siguientes.
	MaxPortAttempts int `mapstructure:"max_port_attempts"`
	TickIntervalMs  int `mapstructure:"tick_interval_ms"`
	HatchDurationMs int `mapstructure:"hatch_duration_ms"`
}

type TerminalConfig struct {
	TickIntervalMs int `mapstructure:"tick_interval_ms"`
	HatchFrameMs   int `mapstructure:"hatch_frame_ms"`
}

type StorageConfig struct {
	// DBDSN activa el archivo histórico en Postgres.
	DBDSN string `mapstructure:"db_dsn"`
}

type JournalConfig struct {
	// Path vacío = diario en memoria. "data" = journal.db dentro del data dir.
	Path string `mapstructure:"path"`
}

type NATSConfig struct {
	URL     string `mapstructure:"url"`
	Subject string `mapstructure:"subject"`
}

// RemoteConfig: con URL, los comandos de cuidado y consulta van por HTTP a
// un `moltmon web` en vez de tocar el data dir.
type RemoteConfig struct {
	URL       string `mapstructure:"url"`
	TimeoutMs int    `mapstructure:"timeout_ms"`
}

func (c RemoteConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

func (c WebConfig) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMs) * time.Millisecond
}

func (c WebConfig) HatchDuration() time.Duration {
	return time.Duration(c.HatchDurationMs) * time.Millisecond
}

func (c TerminalConfig) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMs) * time.Millisecond
}

func (c TerminalConfig) HatchFrame() time.Duration {
	return time.Duration(c.HatchFrameMs) * time.Millisecond
}

// JournalPath resuelve journal.path contra el data dir.
func (c *Config) JournalPath(dataDir string) string {
	switch p := strings.TrimSpace(c.Journal.Path); p {
	case "":
		return ""
	case "data":
		return filepath.Join(dataDir, "journal.db")
	default:
		return p
	}
}

func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Web: WebConfig{
			Port:            3000,
			MaxPortAttempts: 20,
			TickIntervalMs:  200,
			HatchDurationMs: 2000,
		},
		Terminal: TerminalConfig{
			TickIntervalMs: 250,
			HatchFrameMs:   500,
		},
		Journal: JournalConfig{
			Path: "data",
		},
		NATS: NATSConfig{
			Subject: "moltmon.events",
		},
		Remote: RemoteConfig{
			TimeoutMs: 5000,
		},
	}
}

// SetDefaults registra los valores por defecto en viper. También declara
// todas las claves, así AutomaticEnv las ve al hacer Unmarshal.
func SetDefaults() {
	d := Default()

	viper.SetDefault("data_dir", d.DataDir)
	viper.SetDefault("dev_mode", d.DevMode)

	viper.SetDefault("log.level", d.Log.Level)
	viper.SetDefault("log.format", d.Log.Format)
	viper.SetDefault("log.file", d.Log.File)

	viper.SetDefault("web.port", d.Web.Port)
	viper.SetDefault("web.max_port_attempts", d.Web.MaxPortAttempts)
	viper.SetDefault("web.tick_interval_ms", d.Web.TickIntervalMs)
	viper.SetDefault("web.hatch_duration_ms", d.Web.HatchDurationMs)

	viper.SetDefault("terminal.tick_interval_ms", d.Terminal.TickIntervalMs)
	viper.SetDefault("terminal.hatch_frame_ms", d.Terminal.HatchFrameMs)

	viper.SetDefault("storage.db_dsn", d.Storage.DBDSN)
	viper.SetDefault("journal.path", d.Journal.Path)

	viper.SetDefault("nats.url", d.NATS.URL)
	viper.SetDefault("nats.subject", d.NATS.Subject)

	viper.SetDefault("remote.url", d.Remote.URL)
	viper.SetDefault("remote.timeout_ms", d.Remote.TimeoutMs)
}

// BindEnv configura MOLTMON_* y los nombres de env que ya usaba el servidor
// (DB_DSN, PORT, LOG_LEVEL, LOG_FORMAT). El prefijo gana si están los dos.
func BindEnv() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	_ = viper.BindEnv("storage.db_dsn", EnvPrefix+"_STORAGE_DB_DSN", "DB_DSN")
	_ = viper.BindEnv("web.port", EnvPrefix+"_WEB_PORT", "PORT")
	_ = viper.BindEnv("log.level", EnvPrefix+"_LOG_LEVEL", "LOG_LEVEL")
	_ = viper.BindEnv("log.format", EnvPrefix+"_LOG_FORMAT", "LOG_FORMAT")
}

// Load lee la configuración de viper y la valida.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &cfg, nil
}

// ConfigDir: $XDG_CONFIG_HOME/moltmon o ~/.config/moltmon.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// LoadEnvFiles carga .env y .env.local de dir sin pisar variables ya
// definidas. Devuelve los archivos que pudo leer.
func LoadEnvFiles(dir string) []string {
	var loaded []string
	for _, name := range []string{".env", ".env.local"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			continue
		}
		loaded = append(loaded, p)
	}
	return loaded
}
