// Package config loads the maplayer configuration with viper, filling
// defaults for every recognized option.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/cartodraw/maplayer/pkg/core"
	"github.com/cartodraw/maplayer/pkg/spider"
)

// ExportConfig holds canvas snapshot export settings
type ExportConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// RemoteConfig holds remote overlay mirroring settings
type RemoteConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	URL     string `json:"url" mapstructure:"url"`
	Secret  string `json:"secret" mapstructure:"secret"`
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName("maplayer.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// SetDefaults registers the default value for every recognized option.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./maplayer-logs")

	viper.SetDefault("map.tileSize", 512)
	viper.SetDefault("map.zoom", 12)
	viper.SetDefault("map.centerLatitude", 0.0)
	viper.SetDefault("map.centerLongitude", 0.0)

	viper.SetDefault("spider.circleSpiralSwitchover", spider.DefaultCircleSpiralSwitchover)
	viper.SetDefault("spider.minCircleLength", spider.DefaultMinCircleLength)
	viper.SetDefault("spider.minSpiralAngleSeparation", spider.DefaultMinSpiralAngleSeparation)
	viper.SetDefault("spider.spiralDistanceFactor", spider.DefaultSpiralDistanceFactor)
	viper.SetDefault("spider.collapseClusterOnNthClick", spider.DefaultCollapseOnNthClick)
	viper.SetDefault("spider.collapseClusterOnMapChange", false)
	viper.SetDefault("spider.invokeClickOnHover", true)
	viper.SetDefault("spider.maxSpiderPins", spider.DefaultMaxSpiderPins)
	viper.SetDefault("spider.stickColor", "#7f7f7f")
	viper.SetDefault("spider.stickHoverColor", "#2e6da4")

	viper.SetDefault("cluster.pointSize", 40)
	viper.SetDefault("cluster.tileSize", 512)
	viper.SetDefault("cluster.minZoom", 0)
	viper.SetDefault("cluster.maxZoom", 16)

	viper.SetDefault("export.outputDir", "./maplayer-out")
	viper.SetDefault("export.compressOutput", false)

	viper.SetDefault("remote.enabled", false)
	viper.SetDefault("remote.url", "ws://localhost:5000/overlay")
	viper.SetDefault("remote.secret", "")

	viper.SetDefault("loader.serviceUrl", "https://www.bing.com/api/maps/mapcontrol")
	viper.SetDefault("loader.apiKey", "")
}

// SpiderOptions builds spider.Options from the loaded configuration.
func SpiderOptions() spider.Options {
	opts := spider.DefaultOptions()
	opts.CircleSpiralSwitchover = viper.GetInt("spider.circleSpiralSwitchover")
	opts.MinCircleLength = viper.GetFloat64("spider.minCircleLength")
	opts.MinSpiralAngleSeparation = viper.GetFloat64("spider.minSpiralAngleSeparation")
	opts.SpiralDistanceFactor = viper.GetFloat64("spider.spiralDistanceFactor")
	opts.CollapseOnNthClick = viper.GetInt("spider.collapseClusterOnNthClick")
	opts.CollapseOnMapChange = viper.GetBool("spider.collapseClusterOnMapChange")
	opts.InvokeClickOnHover = viper.GetBool("spider.invokeClickOnHover")
	opts.MaxSpiderPins = viper.GetInt("spider.maxSpiderPins")
	opts.StickStyle = core.LineStyle{
		StrokeColor:     viper.GetString("spider.stickColor"),
		StrokeThickness: 1,
		Visible:         true,
	}
	opts.StickHoverStyle = core.LineStyle{
		StrokeColor:     viper.GetString("spider.stickHoverColor"),
		StrokeThickness: 2,
		Visible:         true,
	}
	return opts
}

// Export builds ExportConfig from the loaded configuration.
func Export() ExportConfig {
	return ExportConfig{
		OutputDir:      viper.GetString("export.outputDir"),
		CompressOutput: viper.GetBool("export.compressOutput"),
	}
}

// Remote builds RemoteConfig from the loaded configuration.
func Remote() RemoteConfig {
	return RemoteConfig{
		Enabled: viper.GetBool("remote.enabled"),
		URL:     viper.GetString("remote.url"),
		Secret:  viper.GetString("remote.secret"),
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetFloat64 returns a float config value.
func GetFloat64(key string) float64 {
	return viper.GetFloat64(key)
}
