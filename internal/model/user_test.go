package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleCustomer.Valid())
	assert.True(t, RoleGuest.Valid())
	assert.False(t, Role("superuser").Valid())
	assert.False(t, Role("").Valid())
}

func TestRolePredicates(t *testing.T) {
	// Only admins bypass quotas and manage the platform.
	assert.True(t, RoleAdmin.BypassesQuotas())
	assert.True(t, RoleAdmin.ManagesPlatform())
	assert.False(t, RoleCustomer.BypassesQuotas())
	assert.False(t, RoleCustomer.ManagesPlatform())
	assert.False(t, RoleGuest.BypassesQuotas())
	assert.False(t, RoleGuest.ManagesPlatform())

	// Only customers get a billing account and a customer profile at registration.
	assert.False(t, RoleAdmin.Provisions())
	assert.True(t, RoleCustomer.Provisions())
	assert.False(t, RoleGuest.Provisions())
}
