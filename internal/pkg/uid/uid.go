// Package uid provides small generators for unique identifiers.
package uid

// NumberID generates unique numeric identifiers.
type NumberID interface {
	Generate() int64
}

// StringID generates unique string identifiers.
type StringID interface {
	Generate() string
}
