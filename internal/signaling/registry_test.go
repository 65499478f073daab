package signaling

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry(slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(r.Close)
	return r
}

func TestRegisterResolveUnregister(t *testing.T) {
	r := testRegistry(t)

	room, err := r.Register("ws://10.0.0.5:4321/channel")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if len(room.Code) != DefaultRoomCodeLength {
		t.Fatalf("code length = %d, want %d", len(room.Code), DefaultRoomCodeLength)
	}
	for _, c := range room.Code {
		if !strings.ContainsRune(RoomCodeChars, c) {
			t.Fatalf("code %q contains out-of-alphabet character %c", room.Code, c)
		}
	}

	resolved, err := r.Resolve(room.Code)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved.Address != "ws://10.0.0.5:4321/channel" {
		t.Fatalf("resolved address = %q", resolved.Address)
	}

	r.Unregister(room.Code)
	if _, err := r.Resolve(room.Code); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound after unregister, got %v", err)
	}
}

func TestResolveUnknownCode(t *testing.T) {
	r := testRegistry(t)
	if _, err := r.Resolve("NOSUCH"); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestRegisterGeneratesUniqueCodes(t *testing.T) {
	r := testRegistry(t)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		room, err := r.Register("ws://host/channel")
		if err != nil {
			t.Fatalf("register %d failed: %v", i, err)
		}
		if seen[room.Code] {
			t.Fatalf("duplicate code %q", room.Code)
		}
		seen[room.Code] = true
	}
	if r.Count() != 100 {
		t.Fatalf("expected 100 rooms, got %d", r.Count())
	}
}

func TestUnregisterUnknownCodeIsNoOp(t *testing.T) {
	r := testRegistry(t)
	r.Unregister("NOSUCH")
	if r.Count() != 0 {
		t.Fatalf("count = %d, want 0", r.Count())
	}
}
