// internal/models/user_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetAndCheckPassword(t *testing.T) {
	user := &User{}

	err := user.SetPassword("Sup3rSecret!")
	assert.NoError(t, err)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "Sup3rSecret!", user.PasswordHash)

	assert.NoError(t, user.CheckPassword("Sup3rSecret!"))
	assert.Error(t, user.CheckPassword("wrong-password"))
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, (&User{Role: UserRoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: UserRoleCustomer}).IsAdmin())
}

func TestTotalInventory(t *testing.T) {
	p := &Product{
		Variants: []ProductVariant{
			{Stock: 3},
			{Stock: 0},
			{Stock: 7},
		},
	}

	assert.Equal(t, 10, p.TotalInventory())

	assert.Equal(t, 0, (&Product{}).TotalInventory())
}
