package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ferdiebergado/tokenkit/internal/middleware"
)

func TestInjectWriter_WrapsOnce(t *testing.T) {
	t.Parallel()

	var outer, inner http.ResponseWriter

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		inner = w
		w.WriteHeader(http.StatusNoContent)
	})

	chain := middleware.InjectWriter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		outer = w
		middleware.InjectWriter(handler).ServeHTTP(w, r)
	}))

	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

	if _, ok := outer.(*middleware.SafeResponseWriter); !ok {
		t.Fatalf("writer type = %T, want: *middleware.SafeResponseWriter", outer)
	}

	if inner != outer {
		t.Error("nested InjectWriter wrapped the writer again")
	}

	if rec.Code != http.StatusNoContent {
		t.Errorf("rec.Code = %d, want: %d", rec.Code, http.StatusNoContent)
	}
}
