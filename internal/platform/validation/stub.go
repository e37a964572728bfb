package validation

// StubValidator lets handler and middleware tests decide the validation outcome.
type StubValidator struct {
	ValidateStructFunc func(payload any) map[string]string
}

var _ Validator = (*StubValidator)(nil)

func (s *StubValidator) ValidateStruct(payload any) map[string]string {
	if s.ValidateStructFunc == nil {
		panic("ValidateStruct not implemented by stub")
	}
	return s.ValidateStructFunc(payload)
}
