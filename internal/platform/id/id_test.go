package id

import (
	"encoding/base32"
	"strings"
	"testing"
)

func decodeID(t *testing.T, id string) []byte {
	t.Helper()
	raw, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(strings.ToUpper(id))
	if err != nil {
		t.Fatalf("decode id %q: %v", id, err)
	}
	return raw
}

func TestNewIDFormat(t *testing.T) {
	id, err := NewID()
	if err != nil {
		t.Fatalf("NewID() = %v", err)
	}

	if len(id) != 26 {
		t.Fatalf("len(id) = %d, want 26", len(id))
	}
	if id != strings.ToLower(id) {
		t.Fatalf("id = %q, want lowercase", id)
	}
	if strings.ContainsAny(id, "=+/") {
		t.Fatalf("id = %q, want base32 without padding", id)
	}

	if raw := decodeID(t, id); len(raw) != 16 {
		t.Fatalf("decoded length = %d, want 16", len(raw))
	}
}

func TestNewIDEncodesRandomUUID(t *testing.T) {
	id, err := NewID()
	if err != nil {
		t.Fatalf("NewID() = %v", err)
	}
	raw := decodeID(t, id)

	if version := raw[6] >> 4; version != 4 {
		t.Fatalf("uuid version = %d, want 4", version)
	}
	if variant := raw[8] & 0xC0; variant != 0x80 {
		t.Fatalf("uuid variant = 0x%X, want 0x80", variant)
	}
}

func TestNewIDUniqueness(t *testing.T) {
	seen := make(map[string]struct{}, 256)
	for i := 0; i < 256; i++ {
		id, err := NewID()
		if err != nil {
			t.Fatalf("NewID() = %v", err)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q after %d draws", id, i)
		}
		seen[id] = struct{}{}
	}
}
