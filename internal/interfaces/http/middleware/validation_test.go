package middleware

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupValidator(t *testing.T) {
	// Should not panic
	SetupValidator()

	// Verify the validator is configured
	v, ok := binding.Validator.Engine().(*validator.Validate)
	assert.True(t, ok)
	assert.NotNil(t, v)
}

func TestValidationDetails(t *testing.T) {
	type BrandDeal struct {
		Percentage float64 `validate:"gte=0,lte=100"`
		Rent       float64 `validate:"gte=0"`
	}

	v := validator.New()

	t.Run("one detail per failing field", func(t *testing.T) {
		err := v.Struct(BrandDeal{Percentage: 150, Rent: -1})
		require.Error(t, err)

		details := ValidationDetails(err)
		require.Len(t, details, 2)
		assert.Equal(t, "Percentage", details[0].Field)
		assert.Equal(t, "Must be less than or equal to 100", details[0].Message)
		assert.Equal(t, "Rent", details[1].Field)
		assert.Equal(t, "Must be greater than or equal to 0", details[1].Message)
	})

	t.Run("valid struct yields no details", func(t *testing.T) {
		require.NoError(t, v.Struct(BrandDeal{Percentage: 10, Rent: 100}))
	})

	t.Run("non-validator error yields no details", func(t *testing.T) {
		assert.Empty(t, ValidationDetails(assert.AnError))
	})
}

func TestGetValidationMessage(t *testing.T) {
	type TestStruct struct {
		Required string `binding:"required" validate:"required"`
		Min      string `binding:"min=5" validate:"min=5"`
		Max      string `binding:"max=2" validate:"max=2"`
		OneOf    string `binding:"oneof=a b c" validate:"oneof=a b c"`
	}

	v := validator.New()

	tests := []struct {
		field    string
		obj      TestStruct
		expected string
	}{
		{"Required", TestStruct{Min: "abcde", OneOf: "a"}, "This field is required"},
		{"Min", TestStruct{Required: "x", Min: "ab", OneOf: "a"}, "Must be at least 5 characters"},
		{"Max", TestStruct{Required: "x", Min: "abcde", Max: "abc", OneOf: "a"}, "Must be at most 2 characters"},
		{"OneOf", TestStruct{Required: "x", Min: "abcde", OneOf: "d"}, "Must be one of: a b c"},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			err := v.Struct(tt.obj)
			require.Error(t, err)
			validationErrs := err.(validator.ValidationErrors)
			for _, e := range validationErrs {
				if e.Field() == tt.field {
					assert.Equal(t, tt.expected, getValidationMessage(e))
					return
				}
			}
			t.Fatalf("no validation error for field %s", tt.field)
		})
	}
}
