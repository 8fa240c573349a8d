package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"github.com/wheelibin/huepanel/internal/constants"
)

type Config struct {
	BridgeIP        string
	HueUsername     string
	Port            int
	Debug           bool
	LogFile         string
	BridgeRateLimit float64
	// relay the bridge's own change events to dashboard clients
	BridgeEvents bool

	DB DBConfig

	// "lat,lng", optional
	GeoLocation string

	MQTTBroker string
	MQTTTopic  string

	// per kWh, used for the monthly cost
	EnergyPrice float64
}

type DBConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	PoolSize int
}

// environment keys
const (
	KeyBridgeIP        = "HUE_BRIDGE_IP"
	KeyHueUsername     = "HUE_USERNAME"
	KeyPort            = "PORT"
	KeyDebug           = "DEBUG"
	KeyLogFile         = "LOG_FILE"
	KeyBridgeRateLimit = "BRIDGE_RATE_LIMIT"
	KeyBridgeEvents    = "BRIDGE_EVENTS"
	KeyDBDriver        = "DB_DRIVER"
	KeyDBHost          = "DB_HOST"
	KeyDBPort          = "DB_PORT"
	KeyDBUser          = "DB_USER"
	KeyDBPassword      = "DB_PASSWORD"
	KeyDBName          = "DB_NAME"
	KeyDBPoolSize      = "DB_POOL_SIZE"
	KeyGeoLocation     = "GEO_LOCATION"
	KeyMQTTBroker      = "MQTT_BROKER"
	KeyMQTTTopic       = "MQTT_TOPIC"
	KeyEnergyPrice     = "ENERGY_PRICE"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyPort, 5000)
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyBridgeRateLimit, constants.DefaultBridgeRateLimit)
	v.SetDefault(KeyBridgeEvents, true)
	v.SetDefault(KeyDBDriver, "sqlite3")
	v.SetDefault(KeyDBHost, "localhost")
	v.SetDefault(KeyDBPort, 3306)
	v.SetDefault(KeyDBUser, "root")
	v.SetDefault(KeyDBPassword, "")
	v.SetDefault(KeyDBName, "hue_monitoring")
	v.SetDefault(KeyDBPoolSize, constants.DefaultDBPoolSize)
	v.SetDefault(KeyMQTTTopic, "huepanel")
	v.SetDefault(KeyEnergyPrice, constants.DefaultEnergyPrice)
	// registered so AutomaticEnv picks them up through Get
	for _, k := range []string{KeyBridgeIP, KeyHueUsername, KeyLogFile, KeyGeoLocation, KeyMQTTBroker} {
		v.SetDefault(k, "")
	}
}

// ReadConfig reads the configuration from the environment, with an optional .env file in the
// working directory providing values that aren't set in the environment.
func ReadConfig() (*Config, error) {
	v := viper.New()
	if _, err := os.Stat(".env"); err == nil {
		v.SetConfigFile(".env")
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading .env file: %w", err)
		}
	}
	return Load(v)
}

// Load builds a Config from the given viper instance, binding it to the environment.
func Load(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		BridgeIP:        strings.TrimSpace(v.GetString(KeyBridgeIP)),
		HueUsername:     strings.TrimSpace(v.GetString(KeyHueUsername)),
		Port:            v.GetInt(KeyPort),
		Debug:           v.GetBool(KeyDebug),
		LogFile:         v.GetString(KeyLogFile),
		BridgeRateLimit: v.GetFloat64(KeyBridgeRateLimit),
		BridgeEvents:    v.GetBool(KeyBridgeEvents),
		DB: DBConfig{
			Driver:   strings.ToLower(v.GetString(KeyDBDriver)),
			Host:     v.GetString(KeyDBHost),
			Port:     v.GetInt(KeyDBPort),
			User:     v.GetString(KeyDBUser),
			Password: v.GetString(KeyDBPassword),
			Name:     v.GetString(KeyDBName),
			PoolSize: v.GetInt(KeyDBPoolSize),
		},
		GeoLocation: v.GetString(KeyGeoLocation),
		MQTTBroker:  v.GetString(KeyMQTTBroker),
		MQTTTopic:   v.GetString(KeyMQTTTopic),
		EnergyPrice: v.GetFloat64(KeyEnergyPrice),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.BridgeIP == "" {
		errs = append(errs, fmt.Errorf("%s is required", KeyBridgeIP))
	}
	if c.HueUsername == "" {
		errs = append(errs, fmt.Errorf("%s is required", KeyHueUsername))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("%s must be a valid port, got %d", KeyPort, c.Port))
	}
	if c.BridgeRateLimit <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", KeyBridgeRateLimit))
	}
	switch c.DB.Driver {
	case "sqlite3", "mysql", "none":
	default:
		errs = append(errs, fmt.Errorf("%s must be sqlite3, mysql or none, got %q", KeyDBDriver, c.DB.Driver))
	}
	if c.DB.PoolSize <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", KeyDBPoolSize))
	}
	if c.EnergyPrice < 0 {
		errs = append(errs, fmt.Errorf("%s can't be negative", KeyEnergyPrice))
	}
	if c.GeoLocation != "" {
		if _, _, err := c.LatLng(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LatLng parses GeoLocation
func (c *Config) LatLng() (float64, float64, error) {
	latLng := strings.Split(c.GeoLocation, ",")
	if len(latLng) != 2 {
		return 0, 0, fmt.Errorf("%s must be \"lat,lng\", got %q", KeyGeoLocation, c.GeoLocation)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latLng[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude in %s: %w", KeyGeoLocation, err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(latLng[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude in %s: %w", KeyGeoLocation, err)
	}
	return lat, lng, nil
}

func (c *Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
