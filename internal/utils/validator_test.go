// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type checkoutForm struct {
	PaymentMethod      string `validate:"required,oneof=card cod"`
	PaymentMethodToken string `validate:"required_if=PaymentMethod card"`
}

type signupForm struct {
	Username string `validate:"required,username"`
	Password string `validate:"required,strong_password"`
	Email    string `validate:"required,email"`
}

func TestValidateStrongPassword(t *testing.T) {
	tests := []struct {
		password string
		valid    bool
	}{
		{"Abcdef1!", true},
		{"C0mpl3x#Pass", true},
		{"short1!", false},     // too short
		{"alllowercase1!", false},
		{"ALLUPPERCASE1!", false},
		{"NoNumbers!!", false},
		{"NoSpecial123", false},
	}

	for _, tt := range tests {
		err := ValidateStruct(&signupForm{Username: "valid_user", Password: tt.password, Email: "a@b.com"})
		if tt.valid {
			assert.NoError(t, err, "password %q", tt.password)
		} else {
			assert.Error(t, err, "password %q", tt.password)
		}
	}
}

func TestValidateUsername(t *testing.T) {
	valid := []string{"alice", "user_42", "ABC"}
	invalid := []string{"ab", "has space", "emoji😀", "dash-name"}

	for _, u := range valid {
		err := ValidateStruct(&signupForm{Username: u, Password: "Abcdef1!", Email: "a@b.com"})
		assert.NoError(t, err, "username %q", u)
	}

	for _, u := range invalid {
		err := ValidateStruct(&signupForm{Username: u, Password: "Abcdef1!", Email: "a@b.com"})
		assert.Error(t, err, "username %q", u)
	}
}

func TestPaymentMethodValidation(t *testing.T) {
	// Card requires a token
	err := ValidateStruct(&checkoutForm{PaymentMethod: "card"})
	assert.Error(t, err)

	err = ValidateStruct(&checkoutForm{PaymentMethod: "card", PaymentMethodToken: "pm_123"})
	assert.NoError(t, err)

	// COD does not
	err = ValidateStruct(&checkoutForm{PaymentMethod: "cod"})
	assert.NoError(t, err)

	// Unknown methods are rejected
	err = ValidateStruct(&checkoutForm{PaymentMethod: "paypal"})
	assert.Error(t, err)
}

func TestGetValidationErrors(t *testing.T) {
	err := ValidateStruct(&signupForm{Username: "x", Password: "weak", Email: "not-an-email"})
	assert.Error(t, err)

	validationErrors := GetValidationErrors(err)
	assert.Len(t, validationErrors, 3)

	fields := make(map[string]string)
	for _, ve := range validationErrors {
		fields[ve.Field] = ve.Tag
	}
	assert.Equal(t, "username", fields["username"])
	assert.Equal(t, "strong_password", fields["password"])
	assert.Equal(t, "email", fields["email"])
}

func TestGetValidationErrorsNilError(t *testing.T) {
	assert.Empty(t, GetValidationErrors(nil))
}
