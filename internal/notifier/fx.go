package notifier

import (
	"github.com/stayware/stayflow/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func provideNotifier(cfg config.Config, log *zap.Logger) Notifier {
	if cfg.SMTP.Host == "" {
		return NewLog(log)
	}
	return NewSMTP(cfg.SMTP, log)
}

var Module = fx.Module("notifier",
	fx.Provide(provideNotifier),
)
