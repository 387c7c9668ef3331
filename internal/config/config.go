// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Scene    SceneConfig    `yaml:"scene"`
	Assets   AssetsConfig   `yaml:"assets"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Fullscreen bool    `yaml:"fullscreen"`
	VSync      bool    `yaml:"vsync"`
	FOVDegrees float32 `yaml:"fov_degrees"`
	NearPlane  float32 `yaml:"near_plane"`
	FarPlane   float32 `yaml:"far_plane"`
}

// SceneConfig holds scene composition settings.
type SceneConfig struct {
	TerrainLength     int `yaml:"terrain_length"`
	TerrainWidth      int `yaml:"terrain_width"`
	TerrainIterations int `yaml:"terrain_iterations"`
	Airplanes         int `yaml:"airplanes"`
	GridSize          int `yaml:"grid_size"`
}

// AssetsConfig holds on-disk asset locations.
type AssetsConfig struct {
	ModelsDir   string `yaml:"models_dir"`
	TexturesDir string `yaml:"textures_dir"`
	SkyboxDir   string `yaml:"skybox_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FOVDegrees: 65,
			NearPlane:  0.5,
			FarPlane:   10000,
		},
		Scene: SceneConfig{
			TerrainLength:     50,
			TerrainWidth:      50,
			TerrainIterations: 4000,
			Airplanes:         20,
			GridSize:          1,
		},
		Assets: AssetsConfig{
			ModelsDir:   "assets/models",
			TexturesDir: "assets/textures",
			SkyboxDir:   "assets/textures/skybox",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
