package configs

import (
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces the envconfig layer, e.g. WALKMAP_MAPS_API_KEY.
const EnvPrefix = "WALKMAP"

type Coordinate struct {
	Lat float64 `yaml:"lat"`
	Lng float64 `yaml:"lng"`
}

type Server struct {
	Port            int           `yaml:"port" env:"SERVER_PORT" envconfig:"PORT"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" env:"SERVER_SHUTDOWN_TIMEOUT" envconfig:"SHUTDOWN_TIMEOUT"`
	AllowedOrigins  []string      `yaml:"allowedOrigins" env:"SERVER_ALLOWED_ORIGINS" envconfig:"ALLOWED_ORIGINS"`
}

type Maps struct {
	APIKey    string     `yaml:"apiKey" env:"MAPS_API_KEY" envconfig:"API_KEY"`
	MapID     string     `yaml:"mapId" env:"MAPS_MAP_ID" envconfig:"MAP_ID"`
	BaseURL   string     `yaml:"baseUrl" env:"MAPS_BASE_URL" envconfig:"BASE_URL"`
	RateLimit int        `yaml:"rateLimit" env:"MAPS_RATE_LIMIT" envconfig:"RATE_LIMIT"`
	Center    Coordinate `yaml:"center"`
	Zoom      int        `yaml:"zoom" env:"MAPS_ZOOM" envconfig:"ZOOM"`
}

type Houses struct {
	Count        int     `yaml:"count" env:"HOUSES_COUNT" envconfig:"COUNT"`
	Divisor      float64 `yaml:"divisor" env:"HOUSES_DIVISOR" envconfig:"DIVISOR"`
	HitTolerance float64 `yaml:"hitTolerance" env:"HOUSES_HIT_TOLERANCE" envconfig:"HIT_TOLERANCE"`
}

type Sessions struct {
	TTL time.Duration `yaml:"ttl" env:"SESSION_TTL" envconfig:"TTL"`
}

type Notifications struct {
	Position    string `yaml:"position" env:"NOTIFICATIONS_POSITION" envconfig:"POSITION"`
	AutoCloseMs int    `yaml:"autoCloseMs" env:"NOTIFICATIONS_AUTO_CLOSE_MS" envconfig:"AUTO_CLOSE_MS"`
	Theme       string `yaml:"theme" env:"NOTIFICATIONS_THEME" envconfig:"THEME"`
}

type Redis struct {
	Address  string        `yaml:"address" env:"REDIS_ADDRESS" envconfig:"ADDRESS"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD" envconfig:"PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB" envconfig:"DB"`
	RouteTTL time.Duration `yaml:"routeTtl" env:"ROUTE_CACHE_TTL" envconfig:"ROUTE_TTL"`
}

type Config struct {
	Server        Server        `yaml:"server"`
	Maps          Maps          `yaml:"maps"`
	Houses        Houses        `yaml:"houses"`
	Sessions      Sessions      `yaml:"sessions"`
	Notifications Notifications `yaml:"notifications"`
	Redis         Redis         `yaml:"redis"`
	NsqdAddress   string        `yaml:"nsqdAddress" env:"NSQD_ADDRESS" envconfig:"NSQD_ADDRESS"`
	LogLevel      string        `yaml:"logLevel" env:"LOG_LEVEL" envconfig:"LOG_LEVEL"`
}

func Defaults() *Config {
	c := &Config{}
	c.Server.Port = 3030
	c.Server.ShutdownTimeout = 10 * time.Second
	c.Maps.Center = Coordinate{Lat: 41, Lng: 286}
	c.Maps.Zoom = 10
	c.Houses.Count = 50
	c.Houses.Divisor = 35
	c.Houses.HitTolerance = 0.002
	c.Sessions.TTL = 30 * time.Minute
	c.Notifications.Position = "top-right"
	c.Notifications.AutoCloseMs = 2000
	c.Notifications.Theme = "dark"
	c.Redis.RouteTTL = 10 * time.Minute
	c.LogLevel = "info"
	return c
}

// Load layers defaults, the YAML file (when given) and the environment.
func Load(configFile string) (*Config, error) {
	c := Defaults()
	if len(configFile) > 0 {
		if err := c.Read(configFile); err != nil {
			return nil, err
		}
	}
	if err := c.ReadEnv(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Read(configFile string) error {
	f, err := os.Open(configFile)
	if err != nil {
		return errors.Wrap(err, "open config")
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	if err = decoder.Decode(c); err != nil {
		return errors.Wrapf(err, "decode %s", configFile)
	}
	return nil
}

func (c *Config) ReadEnv() error {
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return errors.Wrap(err, "envconfig")
	}
	if err := envdecode.Decode(c); err != nil && err != envdecode.ErrNoTargetFieldsAreSet {
		return errors.Wrap(err, "envdecode")
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func mask(secret string) string {
	if len(secret) <= 4 {
		if len(secret) == 0 {
			return ""
		}
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}

func (c *Config) String() (s string) {
	s = fmt.Sprintf("Port:%d, MapsAPIKey:%s, MapID:%s, MapsBaseURL:%s, Houses:%d/%v, SessionTTL:%v, NSQD_ADDRESS:%s, REDIS_ADDRESS:%s, RedisPassword:%s, LogLevel:%s",
		c.Server.Port, mask(c.Maps.APIKey), c.Maps.MapID, c.Maps.BaseURL, c.Houses.Count, c.Houses.Divisor,
		c.Sessions.TTL, c.NsqdAddress, c.Redis.Address, mask(c.Redis.Password), c.LogLevel)
	return
}
