package state

import (
	"context"
	"log"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestContextWithEnv(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))
	if env.start.IsZero() {
		t.Error("environment start time not set")
	}
	if env.Cfg != nil || env.Log != nil || env.Rpt != nil || env.Overwrite {
		t.Error("fresh environment must be empty")
	}
}

func TestEnvFromContext_Missing(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic when env is not in context")
		}
	}()
	EnvFromContext(context.Background())
}

func TestEnvFromContext_Derived(t *testing.T) {
	ctx := ContextWithEnv(context.Background())
	env := EnvFromContext(ctx)
	env.Overwrite = true

	derived, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	if got := EnvFromContext(derived); got != env || !got.Overwrite {
		t.Error("derived context must carry the same environment")
	}
}

func TestLocalEnv_Uptime(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))
	time.Sleep(10 * time.Millisecond)
	if up := env.Uptime(); up < 10*time.Millisecond || up > time.Second {
		t.Errorf("Uptime() = %v", up)
	}
}

func TestLocalEnv_StdLog(t *testing.T) {
	t.Run("with logger", func(t *testing.T) {
		env := &LocalEnv{Log: zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))}
		env.RedirectStdLog()
		if env.restoreStdLog == nil {
			t.Fatal("expected restoreStdLog to be set")
		}
		log.Print("goes to zap")
		env.RestoreStdLog()
	})

	t.Run("without logger", func(t *testing.T) {
		env := &LocalEnv{}
		env.RedirectStdLog()
		if env.restoreStdLog != nil {
			t.Error("expected restoreStdLog to remain nil")
		}
		env.RestoreStdLog()
	})
}
