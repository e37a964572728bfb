package token

import "time"

type StubAuthenticator struct {
	IssueFunc         func(subject string, role Role, now time.Time) (*Credential, error)
	IssueRefreshFunc  func(subject string, role Role, now time.Time) (*Credential, error)
	VerifyFunc        func(tokenString string, now time.Time) (*Principal, error)
	VerifyRefreshFunc func(tokenString string, now time.Time) (*Principal, error)
}

var _ Authenticator = (*StubAuthenticator)(nil)

func (s *StubAuthenticator) Issue(subject string, role Role, now time.Time) (*Credential, error) {
	if s.IssueFunc == nil {
		panic("IssueFunc is nil")
	}
	return s.IssueFunc(subject, role, now)
}

func (s *StubAuthenticator) IssueRefresh(subject string, role Role, now time.Time) (*Credential, error) {
	if s.IssueRefreshFunc == nil {
		panic("IssueRefreshFunc is nil")
	}
	return s.IssueRefreshFunc(subject, role, now)
}

func (s *StubAuthenticator) Verify(tokenString string, now time.Time) (*Principal, error) {
	if s.VerifyFunc == nil {
		panic("VerifyFunc is nil")
	}
	return s.VerifyFunc(tokenString, now)
}

func (s *StubAuthenticator) VerifyRefresh(tokenString string, now time.Time) (*Principal, error) {
	if s.VerifyRefreshFunc == nil {
		panic("VerifyRefreshFunc is nil")
	}
	return s.VerifyRefreshFunc(tokenString, now)
}
