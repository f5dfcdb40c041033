// Package state defines the process environment shared by the core.
package state

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/config"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/host"
)

type envKey struct{}

// Env keeps everything the core needs in a single, explicitly constructed
// place: configuration, logger and host interfaces. It is created once per
// process and closed on exit.
type Env struct {
	Cfg  *config.Config
	Log  *zap.Logger
	Host host.Host

	start time.Time
}

// New builds an Env. Nil configuration means template defaults, a nil
// logger is replaced by a no-op logger.
func New(cfg *config.Config, log *zap.Logger, h host.Host) *Env {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Env{Cfg: cfg, Log: log, Host: h, start: time.Now()}
}

// AttachPolicy returns the configured attach retry policy.
func (e *Env) AttachPolicy() host.AttachPolicy {
	return host.AttachPolicy{Attempts: e.Cfg.Attach.Attempts, Delay: e.Cfg.Attach.Delay}
}

// Uptime returns the time since the environment was created.
func (e *Env) Uptime() time.Duration {
	return time.Since(e.start)
}

// Close flushes the logger.
func (e *Env) Close() error {
	if e.Log == nil {
		return nil
	}
	e.Log.Debug("Environment closed", zap.Duration("elapsed", e.Uptime()))
	// stdout/stderr sync fails on some terminals, it carries no information
	_ = e.Log.Sync()
	return nil
}

// EnvFromContext returns the environment stored in ctx, or nil.
func EnvFromContext(ctx context.Context) *Env {
	if env, ok := ctx.Value(envKey{}).(*Env); ok {
		return env
	}
	// this should never happen
	panic("env not found in context")
}

// ContextWithEnv returns a copy of ctx carrying env.
func ContextWithEnv(ctx context.Context, env *Env) context.Context {
	return context.WithValue(ctx, envKey{}, env)
}
