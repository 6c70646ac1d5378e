package validator

// Validator is the contract for struct validation.
//
// Validate checks data against its declared rules and returns nil when it
// passes. Implementations return a field-to-message error when it does not.
type Validator interface {
	Validate(data any) error
}
