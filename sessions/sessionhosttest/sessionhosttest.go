package sessionhosttest

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/ggoodman/flash-go/sessions"
)

// HostFactory creates a new Host instance for testing.
type HostFactory func(t *testing.T) sessions.Host

// RunHostTests runs the complete Host test suite against the provided factory.
func RunHostTests(t *testing.T, factory HostFactory) {
	t.Run("SaveAndLoad", func(t *testing.T) { testSaveAndLoad(t, factory) })
	t.Run("LoadMissingReturnsNil", func(t *testing.T) { testLoadMissing(t, factory) })
	t.Run("SaveOverwrites", func(t *testing.T) { testSaveOverwrites(t, factory) })
	t.Run("DestroyRemovesRecord", func(t *testing.T) { testDestroy(t, factory) })
	t.Run("DestroyUnknownIsNoop", func(t *testing.T) { testDestroyUnknown(t, factory) })
	t.Run("IsolationBetweenSessions", func(t *testing.T) { testIsolation(t, factory) })
	t.Run("RecordExpiresAfterTTL", func(t *testing.T) { testTTL(t, factory) })
	t.Run("SaveCopiesInput", func(t *testing.T) { testSaveCopiesInput(t, factory) })
	t.Run("EmptyRecordIsNotMissing", func(t *testing.T) { testEmptyRecord(t, factory) })
}

func testSaveAndLoad(t *testing.T, factory HostFactory) {
	h := factory(t)
	ctx := context.Background()

	data := []byte(`{"attributes":{"flash_message":"hello"}}`)
	if err := h.Save(ctx, "sess-1", data, time.Minute); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := h.Load(ctx, "sess-1")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("expected %q, got %q", data, got)
	}
}

func testLoadMissing(t *testing.T, factory HostFactory) {
	h := factory(t)

	got, err := h.Load(context.Background(), "does-not-exist")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil record, got %q", got)
	}
}

func testSaveOverwrites(t *testing.T, factory HostFactory) {
	h := factory(t)
	ctx := context.Background()

	if err := h.Save(ctx, "sess-2", []byte("first"), time.Minute); err != nil {
		t.Fatalf("save 1: %v", err)
	}
	if err := h.Save(ctx, "sess-2", []byte("second"), time.Minute); err != nil {
		t.Fatalf("save 2: %v", err)
	}

	got, err := h.Load(ctx, "sess-2")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if string(got) != "second" {
		t.Fatalf("expected second, got %q", got)
	}
}

func testDestroy(t *testing.T, factory HostFactory) {
	h := factory(t)
	ctx := context.Background()

	if err := h.Save(ctx, "sess-3", []byte("data"), time.Minute); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := h.Destroy(ctx, "sess-3"); err != nil {
		t.Fatalf("destroy failed: %v", err)
	}

	got, err := h.Load(ctx, "sess-3")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected destroyed record to be gone, got %q", got)
	}
}

func testDestroyUnknown(t *testing.T, factory HostFactory) {
	h := factory(t)

	if err := h.Destroy(context.Background(), "never-saved"); err != nil {
		t.Fatalf("destroy of unknown session returned: %v", err)
	}
}

func testIsolation(t *testing.T, factory HostFactory) {
	h := factory(t)
	ctx := context.Background()

	if err := h.Save(ctx, "sess-a", []byte("a"), time.Minute); err != nil {
		t.Fatalf("save a: %v", err)
	}
	if err := h.Save(ctx, "sess-b", []byte("b"), time.Minute); err != nil {
		t.Fatalf("save b: %v", err)
	}
	if err := h.Destroy(ctx, "sess-a"); err != nil {
		t.Fatalf("destroy a: %v", err)
	}

	got, err := h.Load(ctx, "sess-b")
	if err != nil {
		t.Fatalf("load b: %v", err)
	}
	if string(got) != "b" {
		t.Fatalf("expected b to be untouched, got %q", got)
	}
}

func testTTL(t *testing.T, factory HostFactory) {
	h := factory(t)
	ctx := context.Background()

	if err := h.Save(ctx, "sess-ttl", []byte("short"), 100*time.Millisecond); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if got, err := h.Load(ctx, "sess-ttl"); err != nil || string(got) != "short" {
		t.Fatalf("expected record before expiry, got %q err=%v", got, err)
	}

	time.Sleep(400 * time.Millisecond)

	got, err := h.Load(ctx, "sess-ttl")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected expired record, got %q", got)
	}
}

func testSaveCopiesInput(t *testing.T, factory HostFactory) {
	h := factory(t)
	ctx := context.Background()

	data := []byte("original")
	if err := h.Save(ctx, "sess-copy", data, time.Minute); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	copy(data, "mutated!")

	got, err := h.Load(ctx, "sess-copy")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if string(got) != "original" {
		t.Fatalf("host retained caller slice: got %q", got)
	}
	got[0] = 'X'

	again, err := h.Load(ctx, "sess-copy")
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if string(again) != "original" {
		t.Fatalf("host returned shared slice: got %q", again)
	}
}

func testEmptyRecord(t *testing.T, factory HostFactory) {
	h := factory(t)
	ctx := context.Background()

	if err := h.Save(ctx, "sess-empty", []byte{}, time.Minute); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := h.Load(ctx, "sess-empty")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got == nil {
		t.Fatalf("expected an empty record, got nil (absent)")
	}
	if len(got) != 0 {
		t.Fatalf("expected empty record, got %q", got)
	}
}
