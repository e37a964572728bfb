package metrics

import (
	"time"

	"github.com/ferdiebergado/tokenkit/internal/token"
)

type instrumentedAuthenticator struct {
	next    token.Authenticator
	metrics *Metrics
}

var _ token.Authenticator = (*instrumentedAuthenticator)(nil)

// Instrument counts every issuance and verification made through next.
func Instrument(next token.Authenticator, m *Metrics) token.Authenticator {
	return &instrumentedAuthenticator{next: next, metrics: m}
}

func (a *instrumentedAuthenticator) Issue(subject string, role token.Role, now time.Time) (*token.Credential, error) {
	cred, err := a.next.Issue(subject, role, now)
	if err == nil {
		a.metrics.Issued(token.TypeAccess, role)
	}
	return cred, err
}

func (a *instrumentedAuthenticator) IssueRefresh(subject string, role token.Role, now time.Time) (*token.Credential, error) {
	cred, err := a.next.IssueRefresh(subject, role, now)
	if err == nil {
		a.metrics.Issued(token.TypeRefresh, role)
	}
	return cred, err
}

func (a *instrumentedAuthenticator) Verify(tokenString string, now time.Time) (*token.Principal, error) {
	p, err := a.next.Verify(tokenString, now)
	a.metrics.Verified(token.TypeAccess, err)
	return p, err
}

func (a *instrumentedAuthenticator) VerifyRefresh(tokenString string, now time.Time) (*token.Principal, error) {
	p, err := a.next.VerifyRefresh(tokenString, now)
	a.metrics.Verified(token.TypeRefresh, err)
	return p, err
}
