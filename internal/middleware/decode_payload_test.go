package middleware_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ferdiebergado/tokenkit/internal/middleware"
	"github.com/ferdiebergado/tokenkit/internal/pkg/web"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func TestDecodePayload(t *testing.T) {
	t.Parallel()

	const header = "X-Handler-Called"

	tests := []struct {
		name     string
		code     int
		payload  []byte
		bodySize int64
		header   string
	}{
		{"Valid payload", http.StatusOK, []byte(`{"email":"juan@example.com","password":"s3cret!!"}`), 64, "true"},
		{"Payload too large", http.StatusRequestEntityTooLarge, []byte(`{"email":"juan@example.com","password":"s3cret!!"}`), 8, ""},
		{"Unknown field", http.StatusUnprocessableEntity, []byte(`{"email":"a@b.c","password":"x","role":"ADMIN"}`), 64, ""},
		{"Extra payload", http.StatusBadRequest, []byte(`{"email":"a@b.c","password":"x"}{"email":"d@e.f"}`), 128, ""},
		{"Incorrect data type", http.StatusBadRequest, []byte(`{"email":"a@b.c","password":42}`), 64, ""},
		{"Malformed payload", http.StatusBadRequest, []byte(`{"email"`), 64, ""},
		{"Empty body", http.StatusBadRequest, []byte(``), 64, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				params, err := web.ParamsFromContext[credentials](r.Context())
				if err != nil {
					http.Error(w, err.Error(), http.StatusBadRequest)
					return
				}

				w.Header().Set(header, "true")
				w.WriteHeader(http.StatusOK)
				if err := json.NewEncoder(w).Encode(&params); err != nil {
					http.Error(w, err.Error(), http.StatusInternalServerError)
					return
				}
			})

			req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(tt.payload))
			rec := httptest.NewRecorder()
			middleware.DecodePayload[credentials](tt.bodySize)(handler).ServeHTTP(rec, req)

			if rec.Code != tt.code {
				t.Errorf("rec.Code = %d, want: %d", rec.Code, tt.code)
			}

			gotHeader, wantHeader := rec.Header().Get(header), tt.header
			if gotHeader != wantHeader {
				t.Errorf("rec.Header().Get(%q) = %q, want: %q", header, gotHeader, wantHeader)
			}

			gotBody := strings.TrimSuffix(rec.Body.String(), "\n")
			if tt.header == "true" && gotBody != string(tt.payload) {
				t.Errorf("rec.Body.String() = %q, want: %q", gotBody, string(tt.payload))
			}
		})
	}
}
