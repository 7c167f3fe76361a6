// Package logger builds the service's *slog.Logger and provides the attribute
// helpers used across the codebase so keys stay consistent.
//
// New applies functional options (format, level, static attributes) and wraps
// the handler so that attributes stored in a context.Context, such as the
// request id or the caller's role, are attached to every record logged with
// that context.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "dashguard"),
//	    logger.WithLevelName(cfg.LogLevel),
//	    logger.WithContextExtractors(requestid.LoggerExtractor(), rbac.LoggerExtractor()),
//	)
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "access denied",
//	    logger.Role(role),
//	    logger.Permission(p),
//	    logger.Decision(false),
//	)
//
// Error and Errors return an empty attribute for nil errors, so
//
//	log.Info("policy reloaded", logger.Error(err))
//
// needs no nil check.
package logger
