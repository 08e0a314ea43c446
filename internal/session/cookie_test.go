package session

import (
	"strings"
	"testing"
)

func TestSignAndParseCookie(t *testing.T) {
	secret := []byte("test-secret-key")

	value := signCookie(secret, "abc-123")

	id, ok := parseCookie(secret, value)

	if !ok {
		t.Fatal("parseCookie rejected a freshly signed cookie")
	}

	if id != "abc-123" {
		t.Errorf("got id %q, want %q", id, "abc-123")
	}
}

func TestParseCookieRejectsTampering(t *testing.T) {
	secret := []byte("test-secret-key")
	value := signCookie(secret, "abc-123")

	tests := []struct {
		name  string
		value string
	}{
		{"swapped id", "other-id." + strings.SplitN(value, ".", 2)[1]},
		{"wrong secret", signCookie([]byte("another-secret"), "abc-123")},
		{"no signature", "abc-123"},
		{"empty value", ""},
		{"garbage signature", "abc-123.nothex!"},
		{"empty id", value[strings.Index(value, "."):]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := parseCookie(secret, tt.value); ok {
				t.Errorf("parseCookie accepted %q", tt.value)
			}
		})
	}
}
