// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package config loads the KEY=VALUE configuration file shared by every
// binary.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// ErrUnknownKey is returned for keys the configuration does not know.
var ErrUnknownKey = errors.New("unknown config key")

// Sensor sources.
const (
	SensorMock    = "mock"
	SensorMPU9250 = "mpu9250"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker            string
	MQTTClientIDNavigator string
	MQTTClientIDGPS       string
	MQTTClientIDConsole   string
	MQTTClientIDWeb       string
	MQTTClientIDDisplay   string

	// Topics
	TopicGPS        string
	TopicNavigation string
	TopicPose       string
	TopicCommand    string

	// GPS
	GPSSerialPort        string
	GPSBaudRate          int
	GPSMinUpdateDistance float64 // metres

	// Sensors
	SensorSource string
	IMUSPIDevice string
	IMUCSPin     string
	// Accelerometer: 0=±2g, 1=±4g, 2=±8g, 3=±16g
	IMUAccelRange byte
	// Gyroscope: 0=±250°/s, 1=±500°/s, 2=±1000°/s, 3=±2000°/s
	IMUGyroRange byte

	// Fusion
	TickInterval      int // milliseconds
	UseCameraRotation bool
	UseWorldAttitude  bool
	UseAcceleration   bool
	UseTrueHeading    bool
	SmoothSpeed       float64
	HeadCapacity      int

	// Places
	PlacesDB                string
	MaxClosePlaces          int
	MaxRouteDisplayDistance float64 // metres
	HasTarget               bool
	TargetLat               float64
	TargetLon               float64
	targetLatSet            bool
	targetLonSet            bool

	// Web Server
	WebServerPort int

	// OLED display
	DisplayI2CBus         string
	DisplayContent        string // navigation, pose or gps
	DisplayUpdateInterval int    // milliseconds

	// Metrics endpoints of the headless binaries, 0 disables
	NavigatorMetricsPort int
	GPSMetricsPort       int

	LogLevel string
}

// defaults lists every known key. A key missing here is unknown.
var defaults = map[string]string{
	"MQTT_BROKER":              "tcp://localhost:1883",
	"MQTT_CLIENT_ID_NAVIGATOR": "ar-navigator",
	"MQTT_CLIENT_ID_GPS":       "ar-gps-producer",
	"MQTT_CLIENT_ID_CONSOLE":   "ar-console",
	"MQTT_CLIENT_ID_WEB":       "ar-web",
	"MQTT_CLIENT_ID_DISPLAY":   "ar-display",

	"TOPIC_GPS":        "ar/gps",
	"TOPIC_NAVIGATION": "ar/navigation",
	"TOPIC_POSE":       "ar/pose",
	"TOPIC_COMMAND":    "ar/command",

	"GPS_SERIAL_PORT":         "/dev/serial0",
	"GPS_BAUD_RATE":           "9600",
	"GPS_MIN_UPDATE_DISTANCE": "1",

	"SENSOR_SOURCE":   SensorMock,
	"IMU_SPI_DEVICE":  "/dev/spidev0.0",
	"IMU_CS_PIN":      "8",
	"IMU_ACCEL_RANGE": "0",
	"IMU_GYRO_RANGE":  "0",

	"TICK_INTERVAL":       "50",
	"USE_CAMERA_ROTATION": "false",
	"USE_WORLD_ATTITUDE":  "true",
	"USE_ACCELERATION":    "true",
	"USE_TRUE_HEADING":    "true",
	"SMOOTH_SPEED":        "2.0",
	"HEAD_CAPACITY":       "10",

	"PLACES_DB":                  "places.db",
	"MAX_CLOSE_PLACES":           "5",
	"MAX_ROUTE_DISPLAY_DISTANCE": "100",
	"TARGET_LAT":                 "",
	"TARGET_LON":                 "",

	"WEB_SERVER_PORT":        "8080",
	"NAVIGATOR_METRICS_PORT": "9101",
	"GPS_METRICS_PORT":       "9102",

	"DISPLAY_I2C_BUS":         "",
	"DISPLAY_CONTENT":         "navigation",
	"DISPLAY_UPDATE_INTERVAL": "500",

	"LOG_LEVEL": "info",
}

// Package-level singleton: InitGlobal sets it once, Get reads it.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads KEY=VALUE lines ('#' starts a comment). Keys left out take
// their defaults; environment variables of the same name override the file.
func Parse(r io.Reader) (*Config, error) {
	v := viper.New()
	v.SetConfigType("env")
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	keys := v.AllKeys()
	sort.Strings(keys)

	cfg := &Config{}
	for _, k := range keys {
		key := strings.ToUpper(k)
		if err := cfg.setValue(key, strings.TrimSpace(v.GetString(key))); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration with every key at its default.
func Default() *Config {
	cfg, err := Parse(strings.NewReader(""))
	if err != nil {
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return cfg
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	var err error
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_NAVIGATOR":
		c.MQTTClientIDNavigator = value
	case "MQTT_CLIENT_ID_GPS":
		c.MQTTClientIDGPS = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value

	// Topics
	case "TOPIC_GPS":
		c.TopicGPS = value
	case "TOPIC_NAVIGATION":
		c.TopicNavigation = value
	case "TOPIC_POSE":
		c.TopicPose = value
	case "TOPIC_COMMAND":
		c.TopicCommand = value

	// GPS
	case "GPS_SERIAL_PORT":
		c.GPSSerialPort = value
	case "GPS_BAUD_RATE":
		c.GPSBaudRate, err = parseInt(key, value, 1, 1<<22)
	case "GPS_MIN_UPDATE_DISTANCE":
		c.GPSMinUpdateDistance, err = parseFloat(key, value, 0.1)

	// Sensors
	case "SENSOR_SOURCE":
		if value != SensorMock && value != SensorMPU9250 {
			return fmt.Errorf("SENSOR_SOURCE must be %q or %q, got %q", SensorMock, SensorMPU9250, value)
		}
		c.SensorSource = value
	case "IMU_SPI_DEVICE":
		c.IMUSPIDevice = value
	case "IMU_CS_PIN":
		c.IMUCSPin = value
	case "IMU_ACCEL_RANGE":
		var r int
		r, err = parseInt(key, value, 0, 3)
		c.IMUAccelRange = byte(r)
	case "IMU_GYRO_RANGE":
		var r int
		r, err = parseInt(key, value, 0, 3)
		c.IMUGyroRange = byte(r)

	// Fusion
	case "TICK_INTERVAL":
		c.TickInterval, err = parseInt(key, value, 1, 60_000)
	case "USE_CAMERA_ROTATION":
		c.UseCameraRotation, err = parseBool(key, value)
	case "USE_WORLD_ATTITUDE":
		c.UseWorldAttitude, err = parseBool(key, value)
	case "USE_ACCELERATION":
		c.UseAcceleration, err = parseBool(key, value)
	case "USE_TRUE_HEADING":
		c.UseTrueHeading, err = parseBool(key, value)
	case "SMOOTH_SPEED":
		c.SmoothSpeed, err = parseFloat(key, value, 1)
	case "HEAD_CAPACITY":
		c.HeadCapacity, err = parseInt(key, value, 1, 10_000)

	// Places
	case "PLACES_DB":
		c.PlacesDB = value
	case "MAX_CLOSE_PLACES":
		c.MaxClosePlaces, err = parseInt(key, value, 0, 10_000)
	case "MAX_ROUTE_DISPLAY_DISTANCE":
		c.MaxRouteDisplayDistance, err = parseFloat(key, value, 0)
	case "TARGET_LAT":
		if value != "" {
			c.TargetLat, err = parseRange(key, value, -90, 90)
			c.targetLatSet = true
		}
	case "TARGET_LON":
		if value != "" {
			c.TargetLon, err = parseRange(key, value, -180, 180)
			c.targetLonSet = true
		}

	// Web Server
	case "WEB_SERVER_PORT":
		c.WebServerPort, err = parseInt(key, value, 1, 65535)
	case "NAVIGATOR_METRICS_PORT":
		c.NavigatorMetricsPort, err = parseInt(key, value, 0, 65535)
	case "GPS_METRICS_PORT":
		c.GPSMetricsPort, err = parseInt(key, value, 0, 65535)

	// OLED display
	case "DISPLAY_I2C_BUS":
		c.DisplayI2CBus = value
	case "DISPLAY_CONTENT":
		switch value {
		case "navigation", "pose", "gps":
		default:
			return fmt.Errorf("DISPLAY_CONTENT must be navigation, pose or gps, got %q", value)
		}
		c.DisplayContent = value
	case "DISPLAY_UPDATE_INTERVAL":
		c.DisplayUpdateInterval, err = parseInt(key, value, 10, 60_000)

	case "LOG_LEVEL":
		c.LogLevel = value

	default:
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}

	return err
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.SensorSource == SensorMPU9250 && c.IMUSPIDevice == "" {
		return fmt.Errorf("IMU_SPI_DEVICE is required for SENSOR_SOURCE=%s", SensorMPU9250)
	}
	if c.targetLatSet != c.targetLonSet {
		return fmt.Errorf("TARGET_LAT and TARGET_LON must be set together")
	}
	c.HasTarget = c.targetLatSet && c.targetLonSet
	return nil
}

func parseInt(key, value string, lo, hi int) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("%s must be %d-%d, got %d", key, lo, hi, n)
	}
	return n, nil
}

func parseFloat(key, value string, min float64) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if !(f >= min) {
		return 0, fmt.Errorf("%s must be at least %v, got %v", key, min, f)
	}
	return f, nil
}

func parseRange(key, value string, lo, hi float64) (float64, error) {
	f, err := parseFloat(key, value, lo)
	if err != nil {
		return 0, err
	}
	if f > hi {
		return 0, fmt.Errorf("%s must be at most %v, got %v", key, hi, f)
	}
	return f, nil
}

func parseBool(key, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return b, nil
}

// InitGlobal initializes the global configuration from file. Only the
// first call reads the file.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance, nil before InitGlobal.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
