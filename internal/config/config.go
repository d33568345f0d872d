package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data      DataConfig      `yaml:"data" mapstructure:"data"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	IBGE      IBGEConfig      `yaml:"ibge" mapstructure:"ibge"`
	Dashboard DashboardConfig `yaml:"dashboard" mapstructure:"dashboard"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// DataConfig locates the accident log and the reference files.
type DataConfig struct {
	Source            string `yaml:"source" mapstructure:"source"`
	CSVPath           string `yaml:"csv_path" mapstructure:"csv_path"`
	CSVDelimiter      string `yaml:"csv_delimiter" mapstructure:"csv_delimiter"`
	CSVEncoding       string `yaml:"csv_encoding" mapstructure:"csv_encoding"`
	StatesPath        string `yaml:"states_path" mapstructure:"states_path"`
	BrazilGeoJSONPath string `yaml:"brazil_geojson_path" mapstructure:"brazil_geojson_path"`
	ShapefileDir      string `yaml:"shapefile_dir" mapstructure:"shapefile_dir"`
}

// StoreConfig configures the SQL backends used when data.source is sqlite or postgres.
type StoreConfig struct {
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// IBGEConfig holds the IBGE localidades API and boundary GeoJSON settings.
type IBGEConfig struct {
	BaseURL        string `yaml:"base_url" mapstructure:"base_url"`
	GeoJSONBaseURL string `yaml:"geojson_base_url" mapstructure:"geojson_base_url"`
	TimeoutSecs    int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries     int    `yaml:"max_retries" mapstructure:"max_retries"`
	CacheTTLHours  int    `yaml:"cache_ttl_hours" mapstructure:"cache_ttl_hours"`
	UserAgent      string `yaml:"user_agent" mapstructure:"user_agent"`
}

// DashboardConfig holds UI defaults and map presentation settings.
type DashboardConfig struct {
	DefaultState  string   `yaml:"default_state" mapstructure:"default_state"`
	DefaultCauses []string `yaml:"default_causes" mapstructure:"default_causes"`
	MaxCauses     int      `yaml:"max_causes" mapstructure:"max_causes"`
	CenterLat     float64  `yaml:"center_lat" mapstructure:"center_lat"`
	CenterLon     float64  `yaml:"center_lon" mapstructure:"center_lon"`
	Zoom          float64  `yaml:"zoom" mapstructure:"zoom"`
	MapStyle      string   `yaml:"map_style" mapstructure:"map_style"`
	ColorScale    string   `yaml:"color_scale" mapstructure:"color_scale"`
	Opacity       float64  `yaml:"opacity" mapstructure:"opacity"`
}

// ServerConfig configures the dashboard HTTP server.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ACIDENTES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.source", "csv")
	v.SetDefault("data.csv_path", "commons/dados_dashboard.csv")
	v.SetDefault("data.csv_delimiter", ",")
	v.SetDefault("data.csv_encoding", "utf-8")
	v.SetDefault("data.states_path", "commons/states.json")
	v.SetDefault("data.brazil_geojson_path", "commons/brazil_geo.json")
	v.SetDefault("data.shapefile_dir", "")
	v.SetDefault("store.sqlite_path", "acidentes.db")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 2)
	v.SetDefault("ibge.base_url", "https://servicodados.ibge.gov.br/api/v1/localidades")
	v.SetDefault("ibge.geojson_base_url", "https://raw.githubusercontent.com/tbrugz/geodata-br/master/geojson")
	v.SetDefault("ibge.timeout_secs", 30)
	v.SetDefault("ibge.max_retries", 3)
	v.SetDefault("ibge.cache_ttl_hours", 24)
	v.SetDefault("ibge.user_agent", "acidentes-dashboard/1.0")
	v.SetDefault("dashboard.default_state", "BR")
	v.SetDefault("dashboard.default_causes", []string{"Chuva"})
	v.SetDefault("dashboard.max_causes", 3)
	v.SetDefault("dashboard.center_lat", -7.11532)
	v.SetDefault("dashboard.center_lon", -34.861)
	v.SetDefault("dashboard.zoom", 6)
	v.SetDefault("dashboard.map_style", "open-street-map")
	v.SetDefault("dashboard.color_scale", "Viridis")
	v.SetDefault("dashboard.opacity", 0.9)
	v.SetDefault("server.port", 8050)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects settings the rest of the program cannot work with.
func (c *Config) Validate() error {
	switch c.Data.Source {
	case "csv", "sqlite", "postgres":
	default:
		return eris.Errorf("config: unknown data.source %q", c.Data.Source)
	}
	if len([]rune(c.Data.CSVDelimiter)) != 1 {
		return eris.Errorf("config: data.csv_delimiter must be a single character, got %q", c.Data.CSVDelimiter)
	}
	if c.Dashboard.MaxCauses < 1 {
		return eris.New("config: dashboard.max_causes must be at least 1")
	}
	return nil
}

// Delimiter returns the configured CSV delimiter as a rune.
func (d DataConfig) Delimiter() rune {
	for _, r := range d.CSVDelimiter {
		return r
	}
	return ','
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
