package bootstrap

import (
	"consular-queue/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		func(cfg config.Config) config.ScheduleConfig { return cfg.Schedule },
		func(cfg config.Config) config.JobsConfig { return cfg.Jobs },
	),
)
