// Command dashguard serves the dashboard's authorization API.
//
// The policy is loaded from POLICY_FILE (or the built-in role table) and
// reloaded on SIGHUP. Session tokens are verified with AUTH_TOKEN_SECRET.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/intelgrid/dashguard/pkg/clientip"
	"github.com/intelgrid/dashguard/pkg/config"
	"github.com/intelgrid/dashguard/pkg/httpserver"
	"github.com/intelgrid/dashguard/pkg/logger"
	"github.com/intelgrid/dashguard/pkg/principal"
	"github.com/intelgrid/dashguard/pkg/rbac"
	"github.com/intelgrid/dashguard/pkg/requestid"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return err
	}

	log := logger.New(
		logger.WithEnvironment(cfg.AppEnv, cfg.AppName),
		logger.WithLevelName(cfg.LogLevel),
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			clientip.LoggerExtractor(),
			rbac.LoggerExtractor(),
			principal.LoggerExtractor(),
		),
	)
	logger.SetAsDefault(log)

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}

	srv := httpserver.NewFromConfig(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.WithReloadHook(a.store.Reload),
		httpserver.WithStopHook(func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := a.writer.Close(flushCtx); err != nil {
				log.Error("audit trail not flushed", logger.Error(err))
			}
		}),
	)
	return srv.Run(ctx, a.handler)
}
