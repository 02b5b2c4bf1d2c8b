package redishost

import (
	"testing"

	"github.com/ggoodman/flash-go/sessions"
	"github.com/ggoodman/flash-go/sessions/sessionhosttest"
	"github.com/google/uuid"
)

func TestRedisSessionHost(t *testing.T) {
	// Quick availability check to allow graceful skip in environments without Redis
	h, err := NewFromEnv()
	if err != nil {
		t.Skipf("skipping redis session host tests: %v", err)
		return
	}
	_ = h.Close()

	sessionhosttest.RunHostTests(t, func(t *testing.T) sessions.Host {
		hh, err := NewFromEnv()
		if err != nil {
			t.Fatalf("NewFromEnv: %v", err)
		}
		// Isolate each subtest from leftovers of earlier runs.
		hh.keyPrefix = "flash:test:" + uuid.NewString() + ":"
		t.Cleanup(func() { _ = hh.Close() })
		return hh
	})
}
