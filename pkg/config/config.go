package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Globe     GlobeConfig     `yaml:"globe"`
	Animation AnimationConfig `yaml:"animation"`
	Camera    CameraConfig    `yaml:"camera"`
	Audio     AudioConfig     `yaml:"audio"`
	Route     RouteConfig     `yaml:"route"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address string `yaml:"address"`
	// TickRate is the engine frame rate in ticks per second.
	TickRate int `yaml:"tick_rate"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Server   LogSettings `yaml:"server"`
	Requests LogSettings `yaml:"requests"`
}

// LogSettings holds settings for a specific logger.
type LogSettings struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// GlobeConfig holds sphere and arc geometry settings.
type GlobeConfig struct {
	Radius         float64 `yaml:"radius"`
	ArcLiftRatio   float64 `yaml:"arc_lift_ratio"`
	ArcSampleCount int     `yaml:"arc_sample_count"`
	// PinLift scales the pin radius slightly above the surface to avoid
	// z-fighting with the sphere.
	PinLift   float64 `yaml:"pin_lift"`
	PhaseStep float64 `yaml:"phase_step"`
}

// AnimationConfig holds the per-frame animation tunables. The wobble and
// pulse values are visual flourish only.
type AnimationConfig struct {
	DashRate        float64 `yaml:"dash_rate"`
	CometSpeed      float64 `yaml:"comet_speed"`
	CometSpacing    float64 `yaml:"comet_spacing"`
	CometTrail      int     `yaml:"comet_trail"`
	WobbleAmplitude float64 `yaml:"wobble_amplitude"`
	PulseAmplitude  float64 `yaml:"pulse_amplitude"`
	PulseRate       float64 `yaml:"pulse_rate"`
}

// CameraConfig holds the focus controller settings.
type CameraConfig struct {
	Distance     float64 `yaml:"distance"`
	InwardFactor float64 `yaml:"inward_factor"`
	DampingBase  float64 `yaml:"damping_base"`
	Epsilon      float64 `yaml:"epsilon"`
}

// AudioConfig holds the interaction cue settings.
type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"`
}

// WaypointConfig is one named geographic point of the static table.
type WaypointConfig struct {
	Name string  `yaml:"name"`
	Lat  float64 `yaml:"lat"`
	Lon  float64 `yaml:"lon"`
}

// RouteConfig holds the static waypoint table and the ordered tour.
type RouteConfig struct {
	Waypoints []WaypointConfig `yaml:"waypoints"`
	Tour      []string         `yaml:"tour"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address:  "localhost:2460",
			TickRate: 30,
		},
		Log: LogConfig{
			Server: LogSettings{
				Path:  "./logs/server.log",
				Level: "INFO",
			},
			Requests: LogSettings{
				Path:  "./logs/requests.log",
				Level: "INFO",
			},
		},
		Globe: GlobeConfig{
			Radius:         100,
			ArcLiftRatio:   0.45,
			ArcSampleCount: 64,
			PinLift:        1.01,
			PhaseStep:      0.13,
		},
		Animation: AnimationConfig{
			DashRate:        0.25,
			CometSpeed:      0.04,
			CometSpacing:    0.012,
			CometTrail:      3,
			WobbleAmplitude: 0.15,
			PulseAmplitude:  0.2,
			PulseRate:       2.0,
		},
		Camera: CameraConfig{
			Distance:     280,
			InwardFactor: 0.85,
			DampingBase:  0.02,
			Epsilon:      0.05,
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  0.6,
		},
		Route: RouteConfig{
			Waypoints: []WaypointConfig{
				{Name: "Paris", Lat: 48.8566, Lon: 2.3522},
				{Name: "Casablanca", Lat: 33.5731, Lon: -7.5898},
				{Name: "Dakar", Lat: 14.7167, Lon: -17.4677},
				{Name: "Abidjan", Lat: 5.3600, Lon: -4.0083},
				{Name: "Accra", Lat: 5.6037, Lon: -0.1870},
				{Name: "Lome", Lat: 6.1319, Lon: 1.2228},
				{Name: "Nairobi", Lat: -1.2921, Lon: 36.8219},
				{Name: "New York", Lat: 40.7128, Lon: -74.0060},
				{Name: "Montreal", Lat: 45.5019, Lon: -73.5674},
			},
			Tour: []string{
				"Paris", "Casablanca", "Dakar", "Abidjan", "Accra",
				"Lome", "Nairobi", "Paris", "New York", "Montreal",
				"Paris",
			},
		},
	}
}

// Validate checks the values that would otherwise fail silently deep in
// the engine. Static configuration errors are startup errors.
func (c *Config) Validate() error {
	if c.Globe.Radius <= 0 {
		return fmt.Errorf("globe.radius must be positive, got %v", c.Globe.Radius)
	}
	if c.Globe.ArcSampleCount < 2 {
		return fmt.Errorf("globe.arc_sample_count must be at least 2, got %d", c.Globe.ArcSampleCount)
	}
	if c.Camera.DampingBase <= 0 || c.Camera.DampingBase >= 1 {
		return fmt.Errorf("camera.damping_base must be in (0, 1), got %v", c.Camera.DampingBase)
	}
	if c.Camera.InwardFactor <= 0 || c.Camera.InwardFactor >= 1 {
		return fmt.Errorf("camera.inward_factor must be in (0, 1), got %v", c.Camera.InwardFactor)
	}
	if c.Camera.Epsilon <= 0 {
		return fmt.Errorf("camera.epsilon must be positive, got %v", c.Camera.Epsilon)
	}
	if c.Server.TickRate <= 0 {
		return fmt.Errorf("server.tick_rate must be positive, got %d", c.Server.TickRate)
	}
	return nil
}

// Load loads the configuration from the given path. If the file does not
// exist, it is created with default values. If it exists, defaults are
// merged with its values but never written back, to preserve user
// formatting and comments.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else {
		if err := Save(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to save config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# Globed Configuration
# --------------------
# globe:     sphere geometry and arc shape
# animation: dash scroll, comet trail and pin pulse tunables
# camera:    focus-flight distance, damping and settle epsilon
# route:     static waypoint table and the ordered tour
# Tour names must exist in the waypoint table; unknown names are skipped.

`)
	data = append(header, data...)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateDefault creates a default config file at the given path.
// Returns nil if the file already exists.
func GenerateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return Save(path, DefaultConfig())
}
