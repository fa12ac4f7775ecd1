package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultPort       = 3000
	DefaultBatchDelay = 2 * time.Second
)

type Config struct {
	TelegramToken   string
	Port            int
	LogLevel        string
	RequiredChannel string
	BatchDelay      time.Duration

	CobaltAPI    string
	PipedAPI     string
	TikwmAPI     string
	VxTwitterAPI string
	IgramAPI     string
	TwitsaveAPI  string
}

// Load reads configuration from the environment. The bot token is the only
// required value; everything else has a working default.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("port", DefaultPort)
	v.SetDefault("log_level", "info")
	v.SetDefault("required_channel", "")
	v.SetDefault("batch_delay", DefaultBatchDelay)
	v.SetDefault("cobalt_api", "https://api.cobalt.tools")
	v.SetDefault("piped_api", "https://pipedapi.kavin.rocks")
	v.SetDefault("tikwm_api", "https://www.tikwm.com/api/")
	v.SetDefault("vxtwitter_api", "https://api.vxtwitter.com")
	v.SetDefault("igram_api", "https://api.igram.world/api/convert")
	v.SetDefault("twitsave_api", "https://twitsave.com/info")

	v.AutomaticEnv()

	cfg := &Config{
		TelegramToken:   v.GetString("telegram_token"),
		Port:            v.GetInt("port"),
		LogLevel:        v.GetString("log_level"),
		RequiredChannel: v.GetString("required_channel"),
		BatchDelay:      v.GetDuration("batch_delay"),
		CobaltAPI:       v.GetString("cobalt_api"),
		PipedAPI:        v.GetString("piped_api"),
		TikwmAPI:        v.GetString("tikwm_api"),
		VxTwitterAPI:    v.GetString("vxtwitter_api"),
		IgramAPI:        v.GetString("igram_api"),
		TwitsaveAPI:     v.GetString("twitsave_api"),
	}

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}
	if cfg.BatchDelay <= 0 {
		cfg.BatchDelay = DefaultBatchDelay
	}

	return cfg, nil
}
