package sessions

import (
	"errors"
	"testing"
)

func TestPutGetForget(t *testing.T) {
	s := New("s1")
	if !s.IsNew() {
		t.Fatal("expected new session")
	}
	if _, ok := s.Get("k"); ok {
		t.Fatal("expected missing key")
	}

	s.Put("k", "v")
	if v, ok := s.Get("k"); !ok || v != "v" {
		t.Fatalf("expected v, got %q ok=%v", v, ok)
	}
	if !s.Has("k") {
		t.Fatal("Has returned false after Put")
	}

	s.Forget("k")
	if s.Has("k") {
		t.Fatal("expected key to be forgotten")
	}
}

func TestFlashSurvivesExactlyOneFurtherRequest(t *testing.T) {
	s := New("s1")
	s.Put("level", "success")
	s.Flash("msg", "Saved.")

	if v, _ := s.Get("msg"); v != "Saved." {
		t.Fatalf("flashed value not readable in same request: %q", v)
	}

	s.AgeFlashData() // end of request 1
	if v, _ := s.Get("msg"); v != "Saved." {
		t.Fatalf("flashed value not readable in next request: %q", v)
	}

	s.AgeFlashData() // end of request 2
	if s.Has("msg") {
		t.Fatal("flashed value survived a second request")
	}
	if v, _ := s.Get("level"); v != "success" {
		t.Fatalf("persistent value lost during aging: %q", v)
	}
}

func TestFlashOverwriteRestartsLifetime(t *testing.T) {
	s := New("s1")
	s.Flash("msg", "first")
	s.AgeFlashData()

	s.Flash("msg", "second")
	s.AgeFlashData()
	if v, _ := s.Get("msg"); v != "second" {
		t.Fatalf("expected re-flashed value to survive, got %q", v)
	}
	s.AgeFlashData()
	if s.Has("msg") {
		t.Fatal("expected value to expire")
	}
}

func TestFlashNowDoesNotSurvive(t *testing.T) {
	s := New("s1")
	s.FlashNow("msg", "now")
	if v, _ := s.Get("msg"); v != "now" {
		t.Fatalf("expected now, got %q", v)
	}
	s.AgeFlashData()
	if s.Has("msg") {
		t.Fatal("FlashNow value survived the request")
	}
}

func TestReflashAndKeep(t *testing.T) {
	t.Run("Reflash", func(t *testing.T) {
		s := New("s1")
		s.Flash("a", "1")
		s.Flash("b", "2")
		s.AgeFlashData()

		s.Reflash()
		s.AgeFlashData()
		if !s.Has("a") || !s.Has("b") {
			t.Fatal("expected reflashed values to survive")
		}
		s.AgeFlashData()
		if s.Has("a") || s.Has("b") {
			t.Fatal("expected reflashed values to expire after one more request")
		}
	})

	t.Run("Keep", func(t *testing.T) {
		s := New("s1")
		s.Flash("a", "1")
		s.Flash("b", "2")
		s.AgeFlashData()

		s.Keep("a", "unknown")
		s.AgeFlashData()
		if !s.Has("a") {
			t.Fatal("expected kept value to survive")
		}
		if s.Has("b") {
			t.Fatal("expected unkept value to expire")
		}
		if s.Has("unknown") {
			t.Fatal("Keep must not create values")
		}
	})
}

func TestRecordRoundTrip(t *testing.T) {
	s := New("s1")
	s.Put("level", "info")
	s.Flash("msg", "hello")
	s.AgeFlashData()

	data, err := s.marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	loaded, err := unmarshal("s1", data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if loaded.IsNew() {
		t.Fatal("loaded session must not report IsNew")
	}
	if v, _ := loaded.Get("msg"); v != "hello" {
		t.Fatalf("expected hello, got %q", v)
	}

	// The flash mark travels with the record.
	loaded.AgeFlashData()
	if loaded.Has("msg") {
		t.Fatal("expected flash mark to be persisted")
	}
	if v, _ := loaded.Get("level"); v != "info" {
		t.Fatalf("expected info, got %q", v)
	}
}

func TestUnmarshalCorruptRecord(t *testing.T) {
	_, err := unmarshal("s1", []byte("{not json"))
	if !errors.Is(err, ErrCorruptRecord) {
		t.Fatalf("expected ErrCorruptRecord, got %v", err)
	}
}

func TestInvalidateClearsState(t *testing.T) {
	s, err := unmarshal("s1", []byte(`{"attributes":{"k":"v","f":"v"},"flash_old":["f"]}`))
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	s.Invalidate()
	if len(s.All()) != 0 {
		t.Fatalf("expected no attributes, got %v", s.All())
	}
	if s.ID() == "s1" || s.ID() == "" {
		t.Fatalf("expected a fresh id, got %q", s.ID())
	}
	if !s.IsNew() {
		t.Fatal("expected rotated session to report IsNew")
	}

	first := s.ID()
	s.Invalidate()
	if s.ID() == first {
		t.Fatal("expected a second Invalidate to rotate again")
	}
	if got := s.takeRetiredID(); got != "s1" {
		t.Fatalf("expected the stored id to be retired, got %q", got)
	}
	if got := s.takeRetiredID(); got != "" {
		t.Fatalf("expected retired id to be taken once, got %q", got)
	}
}

func TestInvalidateOfUnsavedSessionRetiresNothing(t *testing.T) {
	s := New("s1")
	s.Put("k", "v")
	s.Invalidate()
	if got := s.takeRetiredID(); got != "" {
		t.Fatalf("expected nothing to destroy, got %q", got)
	}
}

func TestFlashAfterInvalidateSurvives(t *testing.T) {
	s, err := unmarshal("s1", []byte(`{"attributes":{"user":"ada"}}`))
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	s.Invalidate()
	s.Flash("notice", "Logged out.")

	s.AgeFlashData()
	if v, _ := s.Get("notice"); v != "Logged out." {
		t.Fatalf("expected flash to survive into the next request, got %q", v)
	}
	if s.Has("user") {
		t.Fatal("expected pre-invalidate values to be gone")
	}
}
