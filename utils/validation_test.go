package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name  string `validate:"required"`
	Mode  string `validate:"omitempty,oneof=fast slow"`
	Count int    `validate:"omitempty,gt=0"`
}

func TestValidateStruct(t *testing.T) {
	err := ValidateStruct(&sampleRequest{Name: "ok", Mode: "fast", Count: 3})
	assert.NoError(t, err)
}

func TestValidateStructFieldDetails(t *testing.T) {
	err := ValidateStruct(&sampleRequest{Mode: "sideways", Count: -1})
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "validation failed", validationErr.Message)

	assert.Contains(t, validationErr.Fields["Name"], "required")
	assert.Contains(t, validationErr.Fields["Mode"], "must be one of")
	assert.Contains(t, validationErr.Fields["Count"], "below the allowed minimum")
}
