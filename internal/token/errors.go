package token

import "fmt"

// Kind classifies why a credential was rejected.
type Kind int

const (
	Malformed Kind = iota + 1
	SignatureInvalid
	Expired
	KeyUnavailable
)

var kindMessages = map[Kind]string{
	Malformed:        "malformed token",
	SignatureInvalid: "token signature is invalid",
	Expired:          "token is expired",
	KeyUnavailable:   "signing key is unavailable",
}

func (k Kind) String() string {
	if msg, ok := kindMessages[k]; ok {
		return msg
	}
	return fmt.Sprintf("token error kind %d", int(k))
}

// Label is a short, stable name for metrics and logs.
func (k Kind) Label() string {
	switch k {
	case Malformed:
		return "malformed"
	case SignatureInvalid:
		return "signature_invalid"
	case Expired:
		return "expired"
	case KeyUnavailable:
		return "key_unavailable"
	default:
		return "unknown"
	}
}

// Error is returned for every rejected credential. It never contains the
// credential itself.
type Error struct {
	Kind Kind
	Err  error
}

var (
	ErrMalformed        = &Error{Kind: Malformed}
	ErrSignatureInvalid = &Error{Kind: SignatureInvalid}
	ErrExpired          = &Error{Kind: Expired}
	ErrKeyUnavailable   = &Error{Kind: KeyUnavailable}
)

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrExpired) match any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newError(kind Kind, err error) error {
	return &Error{Kind: kind, Err: err}
}
