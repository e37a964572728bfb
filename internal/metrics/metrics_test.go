package metrics_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ferdiebergado/tokenkit/internal/metrics"
	"github.com/ferdiebergado/tokenkit/internal/token"
)

func TestResult(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"Nil", nil, "ok"},
		{"Expired", token.ErrExpired, "expired"},
		{"Wrapped malformed", &token.Error{Kind: token.Malformed, Err: errors.New("x")}, "malformed"},
		{"Other", errors.New("boom"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := metrics.Result(tt.err); got != tt.want {
				t.Errorf("metrics.Result(%v) = %q, want: %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestInstrument(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	stub := &token.StubAuthenticator{
		IssueFunc: func(subject string, role token.Role, now time.Time) (*token.Credential, error) {
			return &token.Credential{Token: "t", Subject: subject, Role: role}, nil
		},
		VerifyFunc: func(_ string, _ time.Time) (*token.Principal, error) {
			return nil, token.ErrSignatureInvalid
		},
	}

	a := metrics.Instrument(stub, m)

	if _, err := a.Issue("alice", token.RoleAdmin, time.Now()); err != nil {
		t.Fatal(err)
	}

	if _, err := a.Verify("t", time.Now()); !errors.Is(err, token.ErrSignatureInvalid) {
		t.Fatalf("a.Verify() = %v, want: %v", err, token.ErrSignatureInvalid)
	}

	m.Revoked(2)
	m.RevokedUse(token.TypeRefresh)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want: %d", rec.Code, http.StatusOK)
	}

	body, _ := io.ReadAll(rec.Body)
	wants := []string{
		`tokenkit_tokens_issued_total{role="ADMIN",type="access"} 1`,
		`tokenkit_token_verifications_total{result="signature_invalid",type="access"} 1`,
		`tokenkit_tokens_revoked_total 2`,
		`tokenkit_revoked_token_uses_total{type="refresh"} 1`,
	}
	for _, want := range wants {
		if !strings.Contains(string(body), want) {
			t.Errorf("exposition does not contain %q", want)
		}
	}

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatal(err)
	}

	var series, verificationSeries int
	for _, f := range families {
		switch f.GetName() {
		case "tokenkit_tokens_issued_total":
			series = len(f.GetMetric())
		case "tokenkit_token_verifications_total":
			verificationSeries = len(f.GetMetric())
		}
	}
	if series != 1 {
		t.Errorf("tokens_issued_total series = %d, want: 1", series)
	}
	// A revoked use never adds a second result for the same verification.
	if verificationSeries != 1 {
		t.Errorf("token_verifications_total series = %d, want: 1", verificationSeries)
	}
}
