// Package logger provides a singleton Zap logger with context-based scoping.
//
// Inicialización (una vez en main.go):
//
//	logger.Init(logger.Config{
//	    Env:   cfg.App.Env,   // "dev" o "prod"
//	    Level: cfg.App.LogLevel,
//	})
//	defer logger.Sync()
//
// En handlers/middlewares (con contexto):
//
//	log := logger.From(ctx)
//	log.Info("user registered", logger.Email(email))
//
// Sin contexto (fallback al singleton):
//
//	logger.L().Info("server started")
package logger
