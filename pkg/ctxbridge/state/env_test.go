package state

import (
	"context"
	"testing"

	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/host"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/host/hostfake"
)

func TestEnvDefaults(t *testing.T) {
	env := New(nil, nil, host.Host{Desktop: &hostfake.Desktop{}})
	if env.Cfg == nil || env.Log == nil {
		t.Fatal("expected defaults for config and logger")
	}
	p := env.AttachPolicy()
	if p.Attempts != 3 {
		t.Errorf("AttachPolicy().Attempts = %d, want 3", p.Attempts)
	}
	if err := env.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestEnvContext(t *testing.T) {
	env := New(nil, nil, host.Host{})
	ctx := ContextWithEnv(context.Background(), env)
	if got := EnvFromContext(ctx); got != env {
		t.Fatal("EnvFromContext returned a different env")
	}
}

func TestEnvFromContextPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when env is missing")
		}
	}()
	EnvFromContext(context.Background())
}
