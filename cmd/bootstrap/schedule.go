package bootstrap

import (
	"consular-queue/internal/pkg/civil"
	"consular-queue/internal/pkg/config"
	"consular-queue/internal/pkg/metrics"

	"go.uber.org/fx"
)

var ScheduleModule = fx.Module("schedule",
	fx.Provide(
		NewZone,
		NewMetrics,
	),
)

func NewZone(cfg config.Config) (civil.Zone, error) {
	return civil.NewZone(cfg.Schedule.TimeZone)
}

func NewMetrics() *metrics.QueueMetrics {
	return metrics.NewQueueMetrics(nil)
}
