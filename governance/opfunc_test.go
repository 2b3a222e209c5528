package governance

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDefaultOperationFunc_PrefersHeaderWhenSet(t *testing.T) {
	fn := DefaultOperationFunc("X-Operation")

	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r.Header.Set("X-Operation", " data-load ")

	if got := fn(r); got != "data-load" {
		t.Fatalf("expected header operation, got %q", got)
	}
}

func TestDefaultOperationFunc_FallbacksToMethodAndHost(t *testing.T) {
	fn := DefaultOperationFunc("X-Operation")

	r := httptest.NewRequest(http.MethodHead, "http://LocalHost:8080/health", nil)

	if got := fn(r); got != "HEAD localhost" {
		t.Fatalf("expected method+host, got %q", got)
	}
}

func TestDefaultOperationFunc_UnknownWithoutHost(t *testing.T) {
	fn := DefaultOperationFunc("")

	r := &http.Request{Method: http.MethodGet, Header: http.Header{}}

	if got := fn(r); got != "unknown" {
		t.Fatalf("expected unknown, got %q", got)
	}
}

func TestStaticOperation(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	if got := StaticOperation("status-check")(r); got != "status-check" {
		t.Fatalf("expected status-check, got %q", got)
	}
}
