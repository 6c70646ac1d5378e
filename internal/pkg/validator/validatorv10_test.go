package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewV10Validator(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	// Callers hold the package interface, not the concrete type.
	var _ Validator = v
}

func TestV10ValidatorValidate(t *testing.T) {
	type payload struct {
		Mobile string `validate:"required,numeric,min=9,max=15"`
	}

	v, err := NewV10Validator()
	require.NoError(t, err)

	t.Run("valid struct passes", func(t *testing.T) {
		assert.NoError(t, v.Validate(payload{Mobile: "628123456789"}))
	})

	t.Run("invalid struct returns snake_case field errors", func(t *testing.T) {
		err := v.Validate(payload{Mobile: "not-a-number"})
		require.Error(t, err)

		var verr V10ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Values(), "mobile")
	})
}
