package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientKeyFunc_PrefersHeaderWhenSet(t *testing.T) {
	fn := ClientKeyFunc("X-Client", false)

	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	r.Header.Set("X-Client", " client-123 ")

	if got := fn(r); got != "client-123" {
		t.Fatalf("expected header key, got %q", got)
	}
}

func TestClientKeyFunc_TrustXForwardedForUsesFirstIP(t *testing.T) {
	fn := ClientKeyFunc("", true)

	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r.RemoteAddr = "10.0.0.9:5555"
	r.Header.Set("X-Forwarded-For", "1.2.3.4, 5.6.7.8")

	if got := fn(r); got != "1.2.3.4" {
		t.Fatalf("expected first XFF ip, got %q", got)
	}
}

func TestClientKeyFunc_IgnoresXForwardedForWhenUntrusted(t *testing.T) {
	fn := ClientKeyFunc("", false)

	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r.RemoteAddr = "10.0.0.9:5555"
	r.Header.Set("X-Forwarded-For", "1.2.3.4")

	if got := fn(r); got != "10.0.0.9" {
		t.Fatalf("expected remote addr host, got %q", got)
	}
}

func TestClientKeyFunc_FallbacksWithoutPort(t *testing.T) {
	fn := ClientKeyFunc("", false)

	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r.RemoteAddr = "pipe"
	if got := fn(r); got != "pipe" {
		t.Fatalf("expected raw remote addr, got %q", got)
	}

	r.RemoteAddr = ""
	if got := fn(r); got != "unknown" {
		t.Fatalf("expected unknown, got %q", got)
	}
}
