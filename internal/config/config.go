// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"

	"github.com/relabs-tech/direction_finder/internal/geo"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker            string
	MQTTClientIDGPS       string
	MQTTClientIDCompass   string
	MQTTClientIDNavigator string
	MQTTClientIDDisplay   string
	MQTTClientIDWeb       string
	MQTTClientIDConsole   string

	// Topics
	TopicGPS     string
	TopicHeading string
	TopicNav     string

	// GPS
	GPSSerialPort string
	GPSBaudRate   int

	// Compass (HMC5883L)
	CompassI2CBus         string
	CompassI2CAddr        uint16
	CompassSampleInterval int // milliseconds
	CompassOffsetX        float64
	CompassOffsetY        float64
	CompassScaleX         float64
	CompassScaleY         float64

	// Display
	DisplayI2CAddr        uint16
	DisplayUpdateInterval int // milliseconds

	// Navigation
	CatalogPath       string
	DeclinationTable  string // optional YAML path; empty = built-in table
	EarthRadiusMeters float64
	TieBreak          string
	DefaultLat        float64
	DefaultLon        float64
	DefaultHeading    float64
	StaleAfter        int // milliseconds

	// HTTP
	WebServerPort int
	MetricsPort   int // navigator /metrics listener; 0 disables
}

// Package-level unexported variables for singleton pattern:
//   - globalConfig: only reachable through Get().
//   - configOnce: ensures InitGlobal() only runs once, even if called multiple times.
//   - configMu: write lock for initialization, read lock for Get().
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Defaults returns a Config with every optional value filled in.
func Defaults() *Config {
	return &Config{
		MQTTClientIDGPS:       "direction-gps",
		MQTTClientIDCompass:   "direction-compass",
		MQTTClientIDNavigator: "direction-navigator",
		MQTTClientIDDisplay:   "direction-display",
		MQTTClientIDWeb:       "direction-web",
		MQTTClientIDConsole:   "direction-console",

		TopicGPS:     "direction/gps",
		TopicHeading: "direction/heading",
		TopicNav:     "direction/nav",

		GPSSerialPort: "/dev/ttyAMA0",
		GPSBaudRate:   9600,

		CompassI2CBus:         "1",
		CompassI2CAddr:        0x1E,
		CompassSampleInterval: 100,
		CompassScaleX:         1,
		CompassScaleY:         1,

		DisplayI2CAddr:        0x3C,
		DisplayUpdateInterval: 100,

		EarthRadiusMeters: geo.EarthRadiusMeters,
		TieBreak:          "first-in-order",
		DefaultLat:        43.66739785769686,
		DefaultLon:        -79.38122281349305,
		DefaultHeading:    90,
		StaleAfter:        5000,

		WebServerPort: 8080,
		MetricsPort:   9100,
	}
}

// Load reads the configuration file and returns a Config struct.
// The file uses dotenv syntax: KEY=VALUE lines, '#' comments.
func Load(configPath string) (*Config, error) {
	values, err := godotenv.Read(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return FromMap(values)
}

// FromMap builds a Config from already parsed key/value pairs.
func FromMap(values map[string]string) (*Config, error) {
	cfg := Defaults()

	// Sorted so the first reported error does not depend on map order.
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := cfg.setValue(key, values[key]); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_GPS":
		c.MQTTClientIDGPS = value
	case "MQTT_CLIENT_ID_COMPASS":
		c.MQTTClientIDCompass = value
	case "MQTT_CLIENT_ID_NAVIGATOR":
		c.MQTTClientIDNavigator = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value

	// Topics
	case "TOPIC_GPS":
		c.TopicGPS = value
	case "TOPIC_HEADING":
		c.TopicHeading = value
	case "TOPIC_NAV":
		c.TopicNav = value

	// GPS
	case "GPS_SERIAL_PORT":
		c.GPSSerialPort = value
	case "GPS_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid GPS_BAUD_RATE %q: %w", value, err)
		}
		c.GPSBaudRate = rate

	// Compass
	case "COMPASS_I2C_BUS":
		c.CompassI2CBus = value
	case "COMPASS_I2C_ADDR":
		addr, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid COMPASS_I2C_ADDR %q: %w", value, err)
		}
		c.CompassI2CAddr = uint16(addr)
	case "COMPASS_SAMPLE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid COMPASS_SAMPLE_INTERVAL %q: %w", value, err)
		}
		c.CompassSampleInterval = interval
	case "COMPASS_OFFSET_X":
		return parseFloat(key, value, &c.CompassOffsetX)
	case "COMPASS_OFFSET_Y":
		return parseFloat(key, value, &c.CompassOffsetY)
	case "COMPASS_SCALE_X":
		return parseFloat(key, value, &c.CompassScaleX)
	case "COMPASS_SCALE_Y":
		return parseFloat(key, value, &c.CompassScaleY)

	// Display
	case "DISPLAY_I2C_ADDR":
		addr, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_I2C_ADDR %q: %w", value, err)
		}
		c.DisplayI2CAddr = uint16(addr)
	case "DISPLAY_UPDATE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_UPDATE_INTERVAL %q: %w", value, err)
		}
		c.DisplayUpdateInterval = interval

	// Navigation
	case "CATALOG_PATH":
		c.CatalogPath = value
	case "DECLINATION_TABLE":
		c.DeclinationTable = value
	case "EARTH_RADIUS_METERS":
		if err := parseFloat(key, value, &c.EarthRadiusMeters); err != nil {
			return err
		}
		if c.EarthRadiusMeters <= 0 {
			return fmt.Errorf("EARTH_RADIUS_METERS must be > 0, got %v", c.EarthRadiusMeters)
		}
	case "TIE_BREAK":
		if value != "first-in-order" {
			return fmt.Errorf("TIE_BREAK must be first-in-order, got %q", value)
		}
		c.TieBreak = value
	case "DEFAULT_LAT":
		return parseFloat(key, value, &c.DefaultLat)
	case "DEFAULT_LON":
		return parseFloat(key, value, &c.DefaultLon)
	case "DEFAULT_HEADING":
		return parseFloat(key, value, &c.DefaultHeading)
	case "STALE_AFTER":
		ms, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid STALE_AFTER %q: %w", value, err)
		}
		c.StaleAfter = ms

	// HTTP
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port
	case "METRICS_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid METRICS_PORT %q: %w", value, err)
		}
		c.MetricsPort = port

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

func parseFloat(key, value string, dst *float64) error {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s must be finite, got %q", key, value)
	}
	*dst = v
	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.CatalogPath == "" {
		return fmt.Errorf("CATALOG_PATH is required")
	}
	if c.GPSBaudRate <= 0 {
		return fmt.Errorf("GPS_BAUD_RATE must be > 0")
	}
	if c.CompassSampleInterval <= 0 {
		return fmt.Errorf("COMPASS_SAMPLE_INTERVAL must be > 0")
	}
	if c.DisplayUpdateInterval <= 0 {
		return fmt.Errorf("DISPLAY_UPDATE_INTERVAL must be > 0")
	}
	if c.CompassScaleX == 0 || c.CompassScaleY == 0 {
		return fmt.Errorf("COMPASS_SCALE_X/Y must be non-zero")
	}
	if c.StaleAfter <= 0 {
		return fmt.Errorf("STALE_AFTER must be > 0")
	}
	if c.WebServerPort <= 0 || c.WebServerPort > 65535 {
		return fmt.Errorf("WEB_SERVER_PORT out of range: %d", c.WebServerPort)
	}
	if c.MetricsPort < 0 || c.MetricsPort > 65535 {
		return fmt.Errorf("METRICS_PORT out of range: %d", c.MetricsPort)
	}
	if err := c.DefaultPosition().Validate(); err != nil {
		return fmt.Errorf("DEFAULT_LAT/DEFAULT_LON: %w", err)
	}
	return nil
}

// DefaultPosition is the position used until the first GPS fix arrives.
func (c *Config) DefaultPosition() geo.Point {
	return geo.Point{Lat: c.DefaultLat, Lon: c.DefaultLon}
}

// Sphere is the earth model configured by EARTH_RADIUS_METERS.
func (c *Config) Sphere() geo.Sphere {
	return geo.Sphere{RadiusMeters: c.EarthRadiusMeters}
}

// DisplayInterval is DISPLAY_UPDATE_INTERVAL as a duration.
func (c *Config) DisplayInterval() time.Duration {
	return time.Duration(c.DisplayUpdateInterval) * time.Millisecond
}

// CompassInterval is COMPASS_SAMPLE_INTERVAL as a duration.
func (c *Config) CompassInterval() time.Duration {
	return time.Duration(c.CompassSampleInterval) * time.Millisecond
}

// StaleDuration is STALE_AFTER as a duration.
func (c *Config) StaleDuration() time.Duration {
	return time.Duration(c.StaleAfter) * time.Millisecond
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
