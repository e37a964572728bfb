package validation

// Validator checks a decoded request payload. It returns nil when the payload is valid,
// otherwise a message per offending field keyed by the field's JSON name.
type Validator interface {
	ValidateStruct(s any) map[string]string
}
