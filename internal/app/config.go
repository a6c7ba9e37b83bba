package app

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/adanyl0v/go-workspace/internal/config"
)

func MustReadEnv() {
	cfg, err := config.NewEnvReader().Read()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to read env")
		panic(err)
	}
	globalLogger.Info().
		Str("env", cfg.Env).
		Int("trend_window_days", cfg.Analytics.TrendWindowDays).
		Str("timezone", cfg.Analytics.Timezone).
		Msg("read env")

	config.SetGlobal(cfg)
}
